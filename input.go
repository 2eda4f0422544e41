package valis

import (
	"encoding/json"
	"fmt"
	"iter"
	"sort"
)

// MappingLike is the duck-typing hook for lax extraction: any value exposing
// ordered mapping-style read access can be validated as a mapping when the
// schema sets allow_duck_typed_mapping.
type MappingLike interface {
	Len() int
	Entries() iter.Seq2[any, any]
}

// MappingView is the extracted, read-only view of a mapping input. Entries is
// finite and single-pass per call.
type MappingView interface {
	Len() int
	Entries() iter.Seq2[Input, Input]
}

// Input wraps one external value for validation. Extraction methods report
// shape mismatches as a single LineErrors value with an empty location; any
// other error is internal.
type Input interface {
	// Raw returns the wrapped value as-is.
	Raw() any
	// Out returns the output representation used when no child validator is
	// configured for a key or value.
	Out() any
	// LocItem converts the value to a location segment for error paths.
	LocItem() LocItem

	// StrictMapping accepts only canonical mapping shapes: *Map or
	// map[string]any.
	StrictMapping() (MappingView, error)
	// LaxMapping additionally accepts a sequence of (key, value) pairs and,
	// when allowDuckTyped is set, any MappingLike value.
	LaxMapping(allowDuckTyped bool) (MappingView, error)

	// StrictSequence accepts only the canonical sequence shape []any.
	StrictSequence() ([]Input, error)
	// LaxSequence additionally accepts the entry pairs of a mapping-shaped
	// value as a sequence.
	LaxSequence() ([]Input, error)
}

// Of wraps a decoded value as an Input.
func Of(v any) Input { return value{v: v} }

type value struct{ v any }

func (in value) Raw() any { return in.v }
func (in value) Out() any { return in.v }

func (in value) LocItem() LocItem {
	switch k := in.v.(type) {
	case string:
		return FieldLoc(k)
	case int:
		return IndexLoc(k)
	case int64:
		return IndexLoc(int(k))
	case json.Number:
		return FieldLoc(k.String())
	default:
		return FieldLoc(fmt.Sprint(k))
	}
}

func (in value) StrictMapping() (MappingView, error) {
	switch m := in.v.(type) {
	case *Map:
		return orderedView{m: m}, nil
	case map[string]any:
		return goMapView{m: m}, nil
	default:
		return nil, LineErrors{{Kind: KindNotAMapping}}
	}
}

func (in value) LaxMapping(allowDuckTyped bool) (MappingView, error) {
	if view, err := in.StrictMapping(); err == nil {
		return view, nil
	}
	if seq, ok := in.v.([]any); ok {
		pairs := make([][2]any, 0, len(seq))
		for _, el := range seq {
			switch p := el.(type) {
			case [2]any:
				pairs = append(pairs, p)
			case []any:
				if len(p) != 2 {
					return nil, LineErrors{{Kind: KindNotAMapping}}
				}
				pairs = append(pairs, [2]any{p[0], p[1]})
			default:
				return nil, LineErrors{{Kind: KindNotAMapping}}
			}
		}
		return pairsView{pairs: pairs}, nil
	}
	if allowDuckTyped {
		if d, ok := in.v.(MappingLike); ok {
			return duckView{d: d}, nil
		}
	}
	return nil, LineErrors{{Kind: KindNotAMapping}}
}

func (in value) StrictSequence() ([]Input, error) {
	seq, ok := in.v.([]any)
	if !ok {
		return nil, LineErrors{{Kind: KindNotASequence}}
	}
	out := make([]Input, len(seq))
	for i, el := range seq {
		out[i] = Of(el)
	}
	return out, nil
}

func (in value) LaxSequence() ([]Input, error) {
	if out, err := in.StrictSequence(); err == nil {
		return out, nil
	}
	if view, err := in.StrictMapping(); err == nil {
		out := make([]Input, 0, view.Len())
		for k, v := range view.Entries() {
			out = append(out, Of([]any{k.Raw(), v.Raw()}))
		}
		return out, nil
	}
	return nil, LineErrors{{Kind: KindNotASequence}}
}

// ---- mapping views ----

type orderedView struct{ m *Map }

func (v orderedView) Len() int { return v.m.Len() }
func (v orderedView) Entries() iter.Seq2[Input, Input] {
	return func(yield func(Input, Input) bool) {
		for k, val := range v.m.Entries() {
			if !yield(Of(k), Of(val)) {
				return
			}
		}
	}
}

// goMapView iterates a native Go map in sorted key order so outcomes stay
// deterministic.
type goMapView struct{ m map[string]any }

func (v goMapView) Len() int { return len(v.m) }
func (v goMapView) Entries() iter.Seq2[Input, Input] {
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return func(yield func(Input, Input) bool) {
		for _, k := range keys {
			if !yield(Of(k), Of(v.m[k])) {
				return
			}
		}
	}
}

type pairsView struct{ pairs [][2]any }

func (v pairsView) Len() int { return len(v.pairs) }
func (v pairsView) Entries() iter.Seq2[Input, Input] {
	return func(yield func(Input, Input) bool) {
		for _, p := range v.pairs {
			if !yield(Of(p[0]), Of(p[1])) {
				return
			}
		}
	}
}

type duckView struct{ d MappingLike }

func (v duckView) Len() int { return v.d.Len() }
func (v duckView) Entries() iter.Seq2[Input, Input] {
	return func(yield func(Input, Input) bool) {
		for k, val := range v.d.Entries() {
			if !yield(Of(k), Of(val)) {
				return
			}
		}
	}
}
