package valis

import "fmt"

// Extra carries the ambient parameters of one validate call. It is read-only
// for the duration of the call; validators thread it through to children
// unchanged.
type Extra struct {
	// Context is opaque caller data, handed verbatim to function validators.
	Context any
	// Field names the field currently being validated, when known.
	Field string
}

// Validator is the polymorphic unit of validation. Every schema node compiles
// to one instance; instances are immutable after build plus ref binding and
// are safe for concurrent Validate calls.
//
// Validate and ValidateStrict return either the coerced output value, a
// LineErrors aggregate with the complete list of failures, or an internal
// error (anything else) which aborts validation.
type Validator interface {
	Validate(in Input, extra *Extra) (any, error)
	ValidateStrict(in Input, extra *Extra) (any, error)
	// SetRef binds the forward reference named name everywhere it occurs in
	// this validator's subtree. A structural no-op for nodes without refs.
	SetRef(name string, target *Ref) error
	// Name is a stable diagnostic identifier for the variant.
	Name() string
	// Clone produces an independent deep copy. Shared Ref cells stay shared.
	Clone() Validator
}

// Ref is the late-binding cell for self-referencing schemas. It is created
// unresolved while the target validator is still being built, bound exactly
// once before first use, and shared by every node that references it.
type Ref struct {
	name   string
	target Validator
}

// NewRef returns an unresolved cell for the given reference name.
func NewRef(name string) *Ref { return &Ref{name: name} }

// RefName returns the reference name the cell was created for.
func (r *Ref) RefName() string { return r.name }

// Bind resolves the cell. Binding twice is a bug in the schema build and
// reported as an error.
func (r *Ref) Bind(v Validator) error {
	if r.target != nil {
		return fmt.Errorf("valis: ref %q already bound", r.name)
	}
	r.target = v
	return nil
}

// Target returns the bound validator, or nil while unresolved.
func (r *Ref) Target() Validator { return r.target }
