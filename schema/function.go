package schema

import (
	"fmt"

	valis "github.com/valis/valis"
	js "github.com/valis/valis/jsonschema"
)

// Func is a custom validation hook. It receives the value (raw for before and
// plain modes, validated output for after) and the ambient Extra, and returns
// the replacement value. Returning a LineErrors keeps the structured failure;
// any other error becomes a value_error line error.
type Func func(v any, extra *valis.Extra) (any, error)

// WrapHandler runs the wrapped child validation from inside a wrap Func.
type WrapHandler func(v any) (any, error)

// WrapFunc is the wrap-mode hook: it decides if and how the child validation
// runs.
type WrapFunc func(v any, handler WrapHandler, extra *valis.Extra) (any, error)

// functionValidator applies a caller-supplied function around an optional
// child schema.
//
// Recognized node options: mode (before|after|plain|wrap), function, schema.
type functionValidator struct {
	mode   string
	fn     Func
	wrapFn WrapFunc
	child  valis.Validator // nil only for plain mode
}

func newFunctionValidator(node Node, cfg *Config) (*functionValidator, error) {
	mode, ok := node["mode"].(string)
	if !ok || mode == "" {
		return nil, fmt.Errorf("schema: function requires a \"mode\"")
	}
	v := &functionValidator{mode: mode}
	switch mode {
	case "wrap":
		fn, ok := node["function"].(WrapFunc)
		if !ok {
			if raw, k := node["function"].(func(any, WrapHandler, *valis.Extra) (any, error)); k {
				fn = raw
			} else {
				return nil, fmt.Errorf("schema: function mode wrap requires a WrapFunc")
			}
		}
		v.wrapFn = fn
	case "before", "after", "plain":
		fn, ok := node["function"].(Func)
		if !ok {
			if raw, k := node["function"].(func(any, *valis.Extra) (any, error)); k {
				fn = raw
			} else {
				return nil, fmt.Errorf("schema: function mode %s requires a Func", mode)
			}
		}
		v.fn = fn
	default:
		return nil, fmt.Errorf("schema: unknown function mode %q", mode)
	}
	if mode != "plain" {
		child, err := childValidator(node, "schema", cfg)
		if err != nil {
			return nil, err
		}
		if child == nil {
			return nil, fmt.Errorf("schema: function mode %s requires a \"schema\"", mode)
		}
		v.child = child
	}
	return v, nil
}

func (v *functionValidator) Validate(in valis.Input, extra *valis.Extra) (any, error) {
	return v.run(in, extra, false)
}

func (v *functionValidator) ValidateStrict(in valis.Input, extra *valis.Extra) (any, error) {
	return v.run(in, extra, true)
}

func (v *functionValidator) run(in valis.Input, extra *valis.Extra, strict bool) (any, error) {
	validate := func(child valis.Validator, cin valis.Input) (any, error) {
		if strict {
			return child.ValidateStrict(cin, extra)
		}
		return child.Validate(cin, extra)
	}
	switch v.mode {
	case "plain":
		return v.call(in.Out(), extra)
	case "before":
		out, err := v.call(in.Out(), extra)
		if err != nil {
			return nil, err
		}
		return validate(v.child, valis.Of(out))
	case "after":
		out, err := validate(v.child, in)
		if err != nil {
			return nil, err
		}
		return v.call(out, extra)
	case "wrap":
		out, err := v.wrapFn(in.Out(), func(val any) (any, error) {
			return validate(v.child, valis.Of(val))
		}, extra)
		if err != nil {
			return nil, asValueError(err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("schema: unknown function mode %q", v.mode)
	}
}

func (v *functionValidator) call(val any, extra *valis.Extra) (any, error) {
	out, err := v.fn(val, extra)
	if err != nil {
		return nil, asValueError(err)
	}
	return out, nil
}

// asValueError keeps structured LineErrors as-is and folds plain errors into a
// single value_error record.
func asValueError(err error) error {
	if le, ok := valis.AsLineErrors(err); ok {
		return le
	}
	return valis.LineErrors{{Kind: valis.KindValueError, Ctx: map[string]any{"error": err.Error()}}}
}

func (v *functionValidator) SetRef(name string, target *valis.Ref) error {
	if v.child != nil {
		return v.child.SetRef(name, target)
	}
	return nil
}

func (v *functionValidator) Name() string { return "function-" + v.mode }

func (v *functionValidator) Clone() valis.Validator {
	c := &functionValidator{mode: v.mode, fn: v.fn, wrapFn: v.wrapFn}
	if v.child != nil {
		c.child = v.child.Clone()
	}
	return c
}

func (v *functionValidator) JSONSchema() (*js.Schema, error) {
	if v.child != nil {
		return js.For(v.child)
	}
	return &js.Schema{}, nil
}
