package schema

import (
	valis "github.com/valis/valis"
	js "github.com/valis/valis/jsonschema"
)

// listValidator follows the same aggregation discipline as mapValidator:
// size bounds short-circuit, element failures are collected with their index
// prefixed, and one bad element never stops the rest.
//
// Recognized node options: strict, items, min_items, max_items.
type listValidator struct {
	strict        bool
	itemValidator valis.Validator // nil passes elements through unchanged
	minItems      *int
	maxItems      *int
}

func newListValidator(node Node, cfg *Config) (*listValidator, error) {
	items, err := childValidator(node, "items", cfg)
	if err != nil {
		return nil, err
	}
	minItems, err := optBound(node, "min_items")
	if err != nil {
		return nil, err
	}
	maxItems, err := optBound(node, "max_items")
	if err != nil {
		return nil, err
	}
	return &listValidator{
		strict:        isStrict(node, cfg),
		itemValidator: items,
		minItems:      minItems,
		maxItems:      maxItems,
	}, nil
}

func (v *listValidator) Validate(in valis.Input, extra *valis.Extra) (any, error) {
	var seq []valis.Input
	var err error
	if v.strict {
		seq, err = in.StrictSequence()
	} else {
		seq, err = in.LaxSequence()
	}
	if err != nil {
		return nil, err
	}
	return v.validateElements(seq, extra)
}

func (v *listValidator) ValidateStrict(in valis.Input, extra *valis.Extra) (any, error) {
	seq, err := in.StrictSequence()
	if err != nil {
		return nil, err
	}
	return v.validateElements(seq, extra)
}

func (v *listValidator) validateElements(seq []valis.Input, extra *valis.Extra) (any, error) {
	if v.minItems != nil && len(seq) < *v.minItems {
		return nil, valis.LineErrors{{
			Kind: valis.KindSequenceTooShort,
			Ctx:  map[string]any{"min_length": *v.minItems},
		}}
	}
	if v.maxItems != nil && len(seq) > *v.maxItems {
		return nil, valis.LineErrors{{
			Kind: valis.KindSequenceTooLong,
			Ctx:  map[string]any{"max_length": *v.maxItems},
		}}
	}

	output := make([]any, 0, len(seq))
	var errs valis.LineErrors

	for i, el := range seq {
		if v.itemValidator == nil {
			output = append(output, el.Out())
			continue
		}
		out, err := v.itemValidator.Validate(el, extra)
		if err == nil {
			output = append(output, out)
			continue
		}
		le, ok := valis.AsLineErrors(err)
		if !ok {
			return nil, err
		}
		for _, e := range le {
			errs = valis.AppendLineErrors(errs, e.WithPrefixLoc(valis.IndexLoc(i)))
		}
	}

	if len(errs) == 0 {
		return output, nil
	}
	return nil, errs
}

func (v *listValidator) SetRef(name string, target *valis.Ref) error {
	if v.itemValidator != nil {
		return v.itemValidator.SetRef(name, target)
	}
	return nil
}

func (v *listValidator) Name() string { return "list" }

func (v *listValidator) Clone() valis.Validator {
	c := &listValidator{
		strict:   v.strict,
		minItems: cloneBound(v.minItems),
		maxItems: cloneBound(v.maxItems),
	}
	if v.itemValidator != nil {
		c.itemValidator = v.itemValidator.Clone()
	}
	return c
}

func (v *listValidator) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{Type: "array", MinItems: cloneBound(v.minItems), MaxItems: cloneBound(v.maxItems)}
	if v.itemValidator != nil {
		is, err := js.For(v.itemValidator)
		if err != nil {
			return nil, err
		}
		out.Items = is
	}
	return out, nil
}
