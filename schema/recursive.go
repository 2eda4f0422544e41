package schema

import (
	"fmt"

	valis "github.com/valis/valis"
	js "github.com/valis/valis/jsonschema"
)

// recursiveContainer names a subtree so that recursive-ref nodes inside it can
// refer back to it. Building is two-phase: the child is constructed first with
// its refs unresolved, then a single SetRef walk binds every occurrence of the
// name to the shared cell.
//
// Recognized node options: name, schema.
type recursiveContainer struct {
	name      string
	validator valis.Validator
	ref       *valis.Ref
}

func newRecursiveContainer(node Node, cfg *Config) (*recursiveContainer, error) {
	name, ok := node["name"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("schema: recursive-container requires a \"name\" string")
	}
	desc, ok := node["schema"]
	if !ok {
		return nil, fmt.Errorf("schema: recursive-container %q requires a \"schema\"", name)
	}
	child, err := Build(desc, cfg)
	if err != nil {
		return nil, err
	}
	ref := valis.NewRef(name)
	if err := ref.Bind(child); err != nil {
		return nil, err
	}
	if err := child.SetRef(name, ref); err != nil {
		return nil, err
	}
	return &recursiveContainer{name: name, validator: child, ref: ref}, nil
}

func (v *recursiveContainer) Validate(in valis.Input, extra *valis.Extra) (any, error) {
	return v.validator.Validate(in, extra)
}

func (v *recursiveContainer) ValidateStrict(in valis.Input, extra *valis.Extra) (any, error) {
	return v.validator.ValidateStrict(in, extra)
}

func (v *recursiveContainer) SetRef(name string, target *valis.Ref) error {
	if name == v.name {
		// this container shadows the outer binding of the same name
		return nil
	}
	return v.validator.SetRef(name, target)
}

func (v *recursiveContainer) Name() string { return "recursive-container" }

// Clone rebinds a fresh cell so the copy's refs resolve to the copy, not the
// original subtree.
func (v *recursiveContainer) Clone() valis.Validator {
	child := v.validator.Clone()
	ref := valis.NewRef(v.name)
	_ = ref.Bind(child) // fresh cell, cannot already be bound
	_ = child.SetRef(v.name, ref)
	return &recursiveContainer{name: v.name, validator: child, ref: ref}
}

func (v *recursiveContainer) JSONSchema() (*js.Schema, error) { return js.For(v.validator) }

// recursiveRef is the leaf side of a forward reference. It is built unresolved
// and delegates to the cell bound by the enclosing container.
type recursiveRef struct {
	name string
	ref  *valis.Ref // shared, not owned; nil until SetRef
}

func newRecursiveRef(node Node) (*recursiveRef, error) {
	name, ok := node["name"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("schema: recursive-ref requires a \"name\" string")
	}
	return &recursiveRef{name: name}, nil
}

func (v *recursiveRef) Validate(in valis.Input, extra *valis.Extra) (any, error) {
	target, err := v.target()
	if err != nil {
		return nil, err
	}
	return target.Validate(in, extra)
}

func (v *recursiveRef) ValidateStrict(in valis.Input, extra *valis.Extra) (any, error) {
	target, err := v.target()
	if err != nil {
		return nil, err
	}
	return target.ValidateStrict(in, extra)
}

func (v *recursiveRef) target() (valis.Validator, error) {
	if v.ref == nil || v.ref.Target() == nil {
		// internal, not an input problem
		return nil, fmt.Errorf("schema: unresolved recursive-ref %q", v.name)
	}
	return v.ref.Target(), nil
}

func (v *recursiveRef) SetRef(name string, target *valis.Ref) error {
	if name != v.name {
		return nil
	}
	// last binding wins: cloning a container rebinds its copies to the copy
	v.ref = target
	return nil
}

func (v *recursiveRef) Name() string { return "recursive-ref" }

// Clone shares the cell: a copy of a bound ref stays bound to the same target
// until an enclosing container rebinds it.
func (v *recursiveRef) Clone() valis.Validator {
	return &recursiveRef{name: v.name, ref: v.ref}
}

func (v *recursiveRef) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Ref: "#/$defs/" + v.name}, nil
}
