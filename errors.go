package valis

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds (exported consts for IDE completion and type safety by convention)
const (
	KindInvalidType          = "invalid_type"
	KindIntParsing           = "int_parsing"
	KindFloatParsing         = "float_parsing"
	KindNoneRequired         = "none_required"
	KindNotAMapping          = "not_a_mapping"
	KindMappingTooShort      = "mapping_too_short"
	KindMappingTooLong       = "mapping_too_long"
	KindNotASequence         = "not_a_sequence"
	KindSequenceTooShort     = "sequence_too_short"
	KindSequenceTooLong      = "sequence_too_long"
	KindDiscriminatorMissing = "discriminator_missing"
	KindDiscriminatorUnknown = "discriminator_unknown"
	KindValueError           = "value_error"
)

// LineError is a single validation failure: what went wrong (Kind), structured
// parameters of the failure (Ctx, e.g. {"min_length": 1}), and where in the
// input it happened (Loc).
type LineError struct {
	Kind string
	Ctx  map[string]any
	Loc  Loc
}

// WithPrefixLoc returns a copy of the error with prefix prepended to its
// location. Container validators use this to anchor child errors at the entry
// that produced them.
func (e LineError) WithPrefixLoc(prefix ...LocItem) LineError {
	if len(prefix) == 0 {
		return e
	}
	loc := make(Loc, 0, len(prefix)+len(e.Loc))
	loc = append(loc, prefix...)
	loc = append(loc, e.Loc...)
	e.Loc = loc
	return e
}

// LineErrors is the aggregated validation outcome. It implements error; any
// other error returned by a Validator is an internal failure, never part of
// the aggregate.
type LineErrors []LineError

// Error summarizes the first few line errors.
func (le LineErrors) Error() string {
	if len(le) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(le)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := le[i]
		// e.g. mapping_too_short at /
		fmt.Fprintf(b, "%s at %s", it.Kind, it.Loc.Pointer())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendLineErrors appends line errors to the destination, initializing the
// slice when needed.
func AppendLineErrors(dst LineErrors, more ...LineError) LineErrors {
	if dst == nil {
		dst = LineErrors{}
	}
	dst = append(dst, more...)
	return dst
}

// AsLineErrors extracts LineErrors from an error using errors.As internally.
func AsLineErrors(err error) (LineErrors, bool) {
	if err == nil {
		return nil, false
	}
	var le LineErrors
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// IsInternal reports whether err is an internal failure: non-nil and not a
// LineErrors aggregate. Internal errors abort validation and are never mixed
// into the aggregated list.
func IsInternal(err error) bool {
	if err == nil {
		return false
	}
	_, ok := AsLineErrors(err)
	return !ok
}
