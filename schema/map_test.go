package schema_test

import (
	"iter"
	"testing"

	"github.com/google/go-cmp/cmp"

	valis "github.com/valis/valis"
	"github.com/valis/valis/schema"
	"github.com/valis/valis/source"
)

func mustBuild(t *testing.T, desc any, cfg *schema.Config) valis.Validator {
	t.Helper()
	v, err := schema.Build(desc, cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return v
}

// kindsAt renders line errors as "kind@pointer" for compact comparisons.
func kindsAt(le valis.LineErrors) []string {
	out := make([]string, 0, len(le))
	for _, e := range le {
		out = append(out, e.Kind+"@"+e.Loc.Pointer())
	}
	return out
}

func wantLineErrors(t *testing.T, err error, want ...string) valis.LineErrors {
	t.Helper()
	if err == nil {
		t.Fatalf("expected a validation failure, got success")
	}
	le, ok := valis.AsLineErrors(err)
	if !ok {
		t.Fatalf("expected aggregated line errors, got internal error: %v", err)
	}
	if diff := cmp.Diff(want, kindsAt(le)); diff != "" {
		t.Fatalf("unexpected errors (-want +got):\n%s", diff)
	}
	return le
}

func TestMap_SizeBounds(t *testing.T) {
	v := mustBuild(t, schema.Node{"type": "map", "min_items": 1, "max_items": 2}, nil)

	_, err := v.Validate(valis.Of(valis.NewMap()), nil)
	le := wantLineErrors(t, err, "mapping_too_short@/")
	if got := le[0].Ctx["min_length"]; got != 1 {
		t.Fatalf("min_length ctx = %v", got)
	}

	big := valis.MapOf(
		valis.Pair{Key: "a", Value: 1},
		valis.Pair{Key: "b", Value: 2},
		valis.Pair{Key: "c", Value: 3},
	)
	_, err = v.Validate(valis.Of(big), nil)
	le = wantLineErrors(t, err, "mapping_too_long@/")
	if got := le[0].Ctx["max_length"]; got != 2 {
		t.Fatalf("max_length ctx = %v", got)
	}

	out, err := v.Validate(valis.Of(valis.MapOf(valis.Pair{Key: "a", Value: 1})), nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	m := out.(*valis.Map)
	if diff := cmp.Diff([]valis.Pair{{Key: "a", Value: 1}}, m.Pairs()); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestMap_SizeViolationSkipsEntryChecks(t *testing.T) {
	// every value would fail the child validator; the bound violation must be
	// the sole reported error
	v := mustBuild(t, schema.Node{"type": "map", "min_items": 3, "values": "int"}, nil)
	in := valis.MapOf(valis.Pair{Key: "a", Value: "not an int"})
	_, err := v.Validate(valis.Of(in), nil)
	wantLineErrors(t, err, "mapping_too_short@/")
}

func TestMap_IdentityWithoutChildValidators(t *testing.T) {
	v := mustBuild(t, schema.Node{"type": "map"}, nil)
	in := valis.MapOf(
		valis.Pair{Key: "z", Value: 1},
		valis.Pair{Key: "a", Value: []any{"x"}},
		valis.Pair{Key: "m", Value: nil},
	)
	out, err := v.Validate(valis.Of(in), nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if diff := cmp.Diff(in.Pairs(), out.(*valis.Map).Pairs()); diff != "" {
		t.Fatalf("identity violated (-want +got):\n%s", diff)
	}
}

func TestMap_KeyAndValueFailuresAreDistinguished(t *testing.T) {
	v := mustBuild(t, schema.Node{"type": "map", "keys": "str", "values": "int"}, nil)
	in := valis.MapOf(
		valis.Pair{Key: "k1", Value: 1},
		valis.Pair{Key: 2, Value: 2}, // 2nd entry: key is not a str
		valis.Pair{Key: "k3", Value: 3},
		valis.Pair{Key: "k4", Value: "bad"}, // 4th entry: value is not an int
		valis.Pair{Key: "k5", Value: 5},
	)
	out, err := v.Validate(valis.Of(in), nil)
	if out != nil {
		t.Fatalf("failed validation must not return an output")
	}
	wantLineErrors(t, err, "invalid_type@/2/[key]", "int_parsing@/k4")

	// all passing entries survive on a fresh validate of only those
	ok := valis.MapOf(
		valis.Pair{Key: "k1", Value: 1},
		valis.Pair{Key: "k3", Value: 3},
		valis.Pair{Key: "k5", Value: 5},
	)
	got, err := v.Validate(valis.Of(ok), nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := []valis.Pair{{Key: "k1", Value: int64(1)}, {Key: "k3", Value: int64(3)}, {Key: "k5", Value: int64(5)}}
	if diff := cmp.Diff(want, got.(*valis.Map).Pairs()); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestMap_KeyFailureDoesNotShortCircuitValue(t *testing.T) {
	v := mustBuild(t, schema.Node{"type": "map", "keys": "str", "values": "int"}, nil)
	in := valis.MapOf(valis.Pair{Key: 1, Value: "nope"})
	_, err := v.Validate(valis.Of(in), nil)
	// both halves of the same entry are reported
	wantLineErrors(t, err, "invalid_type@/1/[key]", "int_parsing@/1")
}

func TestMap_StrictRejectsPairSequence(t *testing.T) {
	pairs := []any{[]any{"a", 1}, []any{"b", 2}}

	lax := mustBuild(t, schema.Node{"type": "map"}, nil)
	out, err := lax.Validate(valis.Of(pairs), nil)
	if err != nil {
		t.Fatalf("lax validate: %v", err)
	}
	if got := out.(*valis.Map).Len(); got != 2 {
		t.Fatalf("expected 2 entries, got %d", got)
	}

	strict := mustBuild(t, schema.Node{"type": "map", "strict": true}, nil)
	_, err = strict.Validate(valis.Of(pairs), nil)
	wantLineErrors(t, err, "not_a_mapping@/")

	// ValidateStrict forces strict extraction on a lax-configured validator
	_, err = lax.ValidateStrict(valis.Of(pairs), nil)
	wantLineErrors(t, err, "not_a_mapping@/")
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

func TestMap_DuckTypedMapping(t *testing.T) {
	duck := duckMapping{pairs: []valis.Pair{{Key: "a", Value: 1}}}

	v := mustBuild(t, schema.Node{"type": "map", "allow_duck_typed_mapping": true}, nil)
	out, err := v.Validate(valis.Of(duck), nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got, _ := out.(*valis.Map).Get("a"); got != 1 {
		t.Fatalf("Get(a) = %v", got)
	}

	plain := mustBuild(t, schema.Node{"type": "map"}, nil)
	_, err = plain.Validate(valis.Of(duck), nil)
	wantLineErrors(t, err, "not_a_mapping@/")

	// strict mode ignores the duck-typed flag
	strict := mustBuild(t, schema.Node{"type": "map", "strict": true, "allow_duck_typed_mapping": true}, nil)
	_, err = strict.Validate(valis.Of(duck), nil)
	wantLineErrors(t, err, "not_a_mapping@/")
}

func TestMap_NestedLocations(t *testing.T) {
	v := mustBuild(t, schema.Node{
		"type":   "map",
		"values": schema.Node{"type": "map", "values": "int"},
	}, nil)
	in := valis.MapOf(
		valis.Pair{Key: "outer", Value: valis.MapOf(valis.Pair{Key: "inner", Value: "bad"})},
	)
	_, err := v.Validate(valis.Of(in), nil)
	wantLineErrors(t, err, "int_parsing@/outer/inner")
}

func TestMap_InternalErrorAborts(t *testing.T) {
	// an unresolved recursive-ref is a host-level failure, not an input error
	v := mustBuild(t, schema.Node{"type": "map", "values": schema.Node{"type": "recursive-ref", "name": "missing"}}, nil)
	in := valis.MapOf(valis.Pair{Key: "a", Value: 1})
	_, err := v.Validate(valis.Of(in), nil)
	if err == nil || !valis.IsInternal(err) {
		t.Fatalf("expected an internal error, got %v", err)
	}
}

func TestMap_FromJSONSourceKeepsDocumentOrder(t *testing.T) {
	v := mustBuild(t, schema.Node{"type": "map", "values": "int"}, nil)
	in, err := source.JSONBytes([]byte(`{"z": 1, "a": 2, "m": 3}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := v.Validate(in, nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := []valis.Pair{{Key: "z", Value: int64(1)}, {Key: "a", Value: int64(2)}, {Key: "m", Value: int64(3)}}
	if diff := cmp.Diff(want, out.(*valis.Map).Pairs()); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestMap_CloneIsIndependent(t *testing.T) {
	v := mustBuild(t, schema.Node{"type": "map", "keys": "str", "values": "int", "min_items": 1}, nil)
	c := v.Clone()
	if c == v {
		t.Fatalf("clone must be a distinct instance")
	}
	in := valis.MapOf(valis.Pair{Key: "a", Value: 1})
	for _, each := range []valis.Validator{v, c} {
		out, err := each.Validate(valis.Of(in), nil)
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if got, _ := out.(*valis.Map).Get("a"); got != int64(1) {
			t.Fatalf("Get(a) = %v", got)
		}
	}
	if v.Name() != "map" || c.Name() != "map" {
		t.Fatalf("unexpected names %q %q", v.Name(), c.Name())
	}
}

func TestMap_ConcurrentValidate(t *testing.T) {
	v := mustBuild(t, schema.Node{"type": "map", "values": "int"}, nil)
	in := valis.MapOf(valis.Pair{Key: "a", Value: 1}, valis.Pair{Key: "b", Value: "bad"})
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_, err := v.Validate(valis.Of(in), nil)
				wantLen := 1
				le, ok := valis.AsLineErrors(err)
				if !ok || len(le) != wantLen {
					panic("unexpected outcome under concurrency")
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
