package schema

import (
	valis "github.com/valis/valis"
	js "github.com/valis/valis/jsonschema"
)

// mapValidator validates mapping-shaped inputs. Keys and values are delegated
// to optional child validators; every failing entry is recorded with its
// location and validation always runs over the full entry set.
//
// Recognized node options: strict, keys, values, min_items, max_items,
// allow_duck_typed_mapping.
type mapValidator struct {
	strict         bool
	keyValidator   valis.Validator // nil passes keys through unchanged
	valueValidator valis.Validator // nil passes values through unchanged
	minItems       *int
	maxItems       *int
	allowDuckTyped bool
}

func newMapValidator(node Node, cfg *Config) (*mapValidator, error) {
	keys, err := childValidator(node, "keys", cfg)
	if err != nil {
		return nil, err
	}
	values, err := childValidator(node, "values", cfg)
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
	allowDuck, err := optBool(node, "allow_duck_typed_mapping")
	if err != nil {
		return nil, err
	}
	return &mapValidator{
		strict:         isStrict(node, cfg),
		keyValidator:   keys,
		valueValidator: values,
		minItems:       minItems,
		maxItems:       maxItems,
		allowDuckTyped: allowDuck,
	}, nil
}

func (v *mapValidator) Validate(in valis.Input, extra *valis.Extra) (any, error) {
	var view valis.MappingView
	var err error
	if v.strict {
		view, err = in.StrictMapping()
	} else {
		// duck-typed acceptance only applies to lax extraction
		view, err = in.LaxMapping(v.allowDuckTyped)
	}
	if err != nil {
		return nil, err
	}
	return v.validateEntries(view, extra)
}

func (v *mapValidator) ValidateStrict(in valis.Input, extra *valis.Extra) (any, error) {
	view, err := in.StrictMapping()
	if err != nil {
		return nil, err
	}
	return v.validateEntries(view, extra)
}

func (v *mapValidator) validateEntries(view valis.MappingView, extra *valis.Extra) (any, error) {
	if v.minItems != nil && view.Len() < *v.minItems {
		return nil, valis.LineErrors{{
			Kind: valis.KindMappingTooShort,
			Ctx:  map[string]any{"min_length": *v.minItems},
		}}
	}
	if v.maxItems != nil && view.Len() > *v.maxItems {
		return nil, valis.LineErrors{{
			Kind: valis.KindMappingTooLong,
			Ctx:  map[string]any{"max_length": *v.maxItems},
		}}
	}

	output := valis.NewMap()
	var errs valis.LineErrors

	for key, val := range view.Entries() {
		outKey, keyOK, err := applyChild(v.keyValidator, &errs, key, key, extra, true)
		if err != nil {
			return nil, err
		}
		outVal, valOK, err := applyChild(v.valueValidator, &errs, val, key, extra, false)
		if err != nil {
			return nil, err
		}
		if keyOK && valOK {
			output.Set(outKey, outVal)
		}
	}

	if len(errs) == 0 {
		return output, nil
	}
	return nil, errs
}

func (v *mapValidator) SetRef(name string, target *valis.Ref) error {
	if v.keyValidator != nil {
		if err := v.keyValidator.SetRef(name, target); err != nil {
			return err
		}
	}
	if v.valueValidator != nil {
		if err := v.valueValidator.SetRef(name, target); err != nil {
			return err
		}
	}
	return nil
}

func (v *mapValidator) Name() string { return "map" }

func (v *mapValidator) Clone() valis.Validator {
	c := &mapValidator{
		strict:         v.strict,
		minItems:       cloneBound(v.minItems),
		maxItems:       cloneBound(v.maxItems),
		allowDuckTyped: v.allowDuckTyped,
	}
	if v.keyValidator != nil {
		c.keyValidator = v.keyValidator.Clone()
	}
	if v.valueValidator != nil {
		c.valueValidator = v.valueValidator.Clone()
	}
	return c
}

func (v *mapValidator) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{Type: "object", MinProperties: cloneBound(v.minItems), MaxProperties: cloneBound(v.maxItems)}
	if v.keyValidator != nil {
		ks, err := js.For(v.keyValidator)
		if err != nil {
			return nil, err
		}
		out.PropertyNames = ks
	}
	if v.valueValidator != nil {
		vs, err := js.For(v.valueValidator)
		if err != nil {
			return nil, err
		}
		out.AdditionalProperties = vs
	} else {
		out.AdditionalProperties = true
	}
	return out, nil
}

// applyChild runs one child validator over one half of an entry. Line errors
// are appended to errs with the entry's key (plus the key marker for key
// failures) prefixed to their locations; internal errors are returned as-is.
// A nil child passes the input through to its output representation.
func applyChild(child valis.Validator, errs *valis.LineErrors, in, key valis.Input, extra *valis.Extra, keyLoc bool) (any, bool, error) {
	if child == nil {
		return in.Out(), true, nil
	}
	out, err := child.Validate(in, extra)
	if err == nil {
		return out, true, nil
	}
	le, ok := valis.AsLineErrors(err)
	if !ok {
		return nil, false, err
	}
	var prefix []valis.LocItem
	if keyLoc {
		prefix = []valis.LocItem{key.LocItem(), valis.KeyLoc()}
	} else {
		prefix = []valis.LocItem{key.LocItem()}
	}
	for _, e := range le {
		*errs = valis.AppendLineErrors(*errs, e.WithPrefixLoc(prefix...))
	}
	return nil, false, nil
}
