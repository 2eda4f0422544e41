package valis_test

import (
	"iter"
	"testing"

	valis "github.com/valis/valis"
)

func collect(view valis.MappingView) []valis.Pair {
	out := make([]valis.Pair, 0, view.Len())
	for k, v := range view.Entries() {
		out = append(out, valis.Pair{Key: k.Raw(), Value: v.Raw()})
	}
	return out
}

func TestStrictMapping_AcceptsCanonicalShapes(t *testing.T) {
	m := valis.MapOf(valis.Pair{Key: "a", Value: 1})
	view, err := valis.Of(m).StrictMapping()
	if err != nil {
		t.Fatalf("ordered map must extract strictly: %v", err)
	}
	if view.Len() != 1 {
		t.Fatalf("Len = %d", view.Len())
	}

	view, err = valis.Of(map[string]any{"b": 2, "a": 1}).StrictMapping()
	if err != nil {
		t.Fatalf("native map must extract strictly: %v", err)
	}
	got := collect(view)
	// native maps iterate in sorted key order for determinism
	if got[0].Key != "a" || got[1].Key != "b" {
		t.Fatalf("expected sorted iteration, got %v", got)
	}
}

func TestStrictMapping_RejectsPairSequence(t *testing.T) {
	pairs := []any{[]any{"a", 1}, []any{"b", 2}}
	if _, err := valis.Of(pairs).StrictMapping(); err == nil {
		t.Fatalf("strict extraction must reject a pair sequence")
	} else if le, ok := valis.AsLineErrors(err); !ok || len(le) != 1 || le[0].Kind != valis.KindNotAMapping {
		t.Fatalf("expected a single not_a_mapping error, got %v", err)
	} else if le[0].Loc.Pointer() != "/" {
		t.Fatalf("whole-input failures carry an empty location, got %q", le[0].Loc.Pointer())
	}

	view, err := valis.Of(pairs).LaxMapping(false)
	if err != nil {
		t.Fatalf("lax extraction must accept a pair sequence: %v", err)
	}
	got := collect(view)
	if len(got) != 2 || got[0].Key != "a" || got[1].Key != "b" {
		t.Fatalf("unexpected pairs %v", got)
	}
}

func TestLaxMapping_RejectsMalformedPairs(t *testing.T) {
	for _, bad := range []any{
		[]any{[]any{"a", 1, 2}},
		[]any{"not-a-pair"},
		42,
	} {
		if _, err := valis.Of(bad).LaxMapping(false); err == nil {
			t.Fatalf("expected not_a_mapping for %v", bad)
		}
	}
}

type duckMapping struct{ pairs []valis.Pair }

func (d duckMapping) Len() int { return len(d.pairs) }
func (d duckMapping) Entries() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for _, p := range d.pairs {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

func TestLaxMapping_DuckTyped(t *testing.T) {
	duck := duckMapping{pairs: []valis.Pair{{Key: "a", Value: 1}}}

	if _, err := valis.Of(duck).LaxMapping(false); err == nil {
		t.Fatalf("duck-typed mappings need the allow flag")
	}
	view, err := valis.Of(duck).LaxMapping(true)
	if err != nil {
		t.Fatalf("lax duck-typed extraction failed: %v", err)
	}
	if got := collect(view); len(got) != 1 || got[0].Key != "a" {
		t.Fatalf("unexpected entries %v", got)
	}
	// strict mode ignores duck-typed acceptance
	if _, err := valis.Of(duck).StrictMapping(); err == nil {
		t.Fatalf("strict extraction must reject duck-typed mappings")
	}
}

func TestSequences(t *testing.T) {
	seq, err := valis.Of([]any{"a", "b"}).StrictSequence()
	if err != nil || len(seq) != 2 {
		t.Fatalf("strict sequence: %v %v", seq, err)
	}
	if _, err := valis.Of("nope").StrictSequence(); err == nil {
		t.Fatalf("strings are not sequences")
	}
	// lax sequence view of a mapping yields its entry pairs
	m := valis.MapOf(valis.Pair{Key: "a", Value: 1})
	lax, err := valis.Of(m).LaxSequence()
	if err != nil || len(lax) != 1 {
		t.Fatalf("lax sequence over mapping: %v %v", lax, err)
	}
}

func TestLocItemConversion(t *testing.T) {
	if got := valis.Of("name").LocItem().String(); got != "name" {
		t.Fatalf("string key renders as %q", got)
	}
	if got := valis.Of(3).LocItem().String(); got != "3" {
		t.Fatalf("int key renders as %q", got)
	}
}
