package valis

import (
	"fmt"
	"iter"

	gojson "github.com/goccy/go-json"
)

// Pair is one (key, value) entry of a Map.
type Pair struct {
	Key   any
	Value any
}

// Map is the canonical mapping shape of the engine: an insertion-ordered
// key/value container. Sources decode JSON/YAML objects into it, and the map
// validator assembles its output into it, so entry order always mirrors the
// input.
type Map struct {
	pairs []Pair
	idx   map[any]int // only populated for hashable keys
}

// NewMap returns an empty Map.
func NewMap() *Map { return &Map{} }

// MapOf returns a Map holding the given entries in order. Later duplicates
// overwrite earlier ones in place.
func MapOf(pairs ...Pair) *Map {
	m := NewMap()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.pairs) }

// Set inserts or overwrites the entry for k, preserving its original position
// on overwrite.
func (m *Map) Set(k, v any) {
	if hashable(k) {
		if m.idx == nil {
			m.idx = make(map[any]int)
		}
		if i, ok := m.idx[k]; ok {
			m.pairs[i].Value = v
			return
		}
		m.idx[k] = len(m.pairs)
		m.pairs = append(m.pairs, Pair{Key: k, Value: v})
		return
	}
	// rare: non-hashable key (e.g. a nested container from YAML); linear scan
	for i := range m.pairs {
		if fmt.Sprint(m.pairs[i].Key) == fmt.Sprint(k) {
			m.pairs[i].Value = v
			return
		}
	}
	m.pairs = append(m.pairs, Pair{Key: k, Value: v})
}

// Get returns the value for k and whether it was present.
func (m *Map) Get(k any) (any, bool) {
	if hashable(k) && m.idx != nil {
		if i, ok := m.idx[k]; ok {
			return m.pairs[i].Value, true
		}
		return nil, false
	}
	for i := range m.pairs {
		if fmt.Sprint(m.pairs[i].Key) == fmt.Sprint(k) {
			return m.pairs[i].Value, true
		}
	}
	return nil, false
}

// Entries iterates entries in insertion order.
func (m *Map) Entries() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for _, p := range m.pairs {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Pairs returns a copy of the entries in insertion order.
func (m *Map) Pairs() []Pair {
	out := make([]Pair, len(m.pairs))
	copy(out, m.pairs)
	return out
}

// MarshalJSON renders the map as a JSON object preserving entry order.
// Non-string keys are rendered with fmt.Sprint.
func (m *Map) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, p := range m.pairs {
		if i > 0 {
			buf = append(buf, ',')
		}
		var ks string
		if s, ok := p.Key.(string); ok {
			ks = s
		} else {
			ks = fmt.Sprint(p.Key)
		}
		kb, err := gojson.Marshal(ks)
		if err != nil {
			return nil, err
		}
		vb, err := gojson.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	return append(buf, '}'), nil
}

func hashable(k any) bool {
	switch k.(type) {
	case string, int, int64, float64, bool, gojson.Number, nil:
		return true
	default:
		return false
	}
}
