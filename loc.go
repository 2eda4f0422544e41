package valis

import (
	"strconv"
	"strings"
)

type locKind int

const (
	locField locKind = iota
	locIndex
	locKeyMarker
)

// LocItem is one segment of a location path: a field/key name, an index, or
// the key marker that distinguishes a failing key from a failing value at the
// same position.
type LocItem struct {
	kind  locKind
	field string
	index int
}

// FieldLoc returns a location segment for a field or mapping key.
func FieldLoc(name string) LocItem { return LocItem{kind: locField, field: name} }

// IndexLoc returns a location segment for a sequence index.
func IndexLoc(i int) LocItem { return LocItem{kind: locIndex, index: i} }

// KeyLoc returns the "[key]" marker segment. A container appends it after the
// entry's key segment when the key itself failed validation.
func KeyLoc() LocItem { return LocItem{kind: locKeyMarker} }

// IsKeyMarker reports whether the segment is the "[key]" marker.
func (it LocItem) IsKeyMarker() bool { return it.kind == locKeyMarker }

func (it LocItem) String() string {
	switch it.kind {
	case locIndex:
		return strconv.Itoa(it.index)
	case locKeyMarker:
		return "[key]"
	default:
		return it.field
	}
}

// Loc is an ordered path from the input root to the element a LineError is
// about. An empty Loc means the input as a whole failed.
type Loc []LocItem

// Pointer renders the path in JSON Pointer style (for example /items/2/[key]).
// Field names escape '~' and '/' per RFC 6901.
func (l Loc) Pointer() string {
	if len(l) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, it := range l {
		b.WriteByte('/')
		if it.kind == locField {
			b.WriteString(strings.ReplaceAll(strings.ReplaceAll(it.field, "~", "~0"), "/", "~1"))
		} else {
			b.WriteString(it.String())
		}
	}
	return b.String()
}
