package schema

import (
	"encoding/json"
	"math"
	"strconv"

	valis "github.com/valis/valis"
	js "github.com/valis/valis/jsonschema"
)

func invalidType(expected string) valis.LineErrors {
	return valis.LineErrors{{Kind: valis.KindInvalidType, Ctx: map[string]any{"expected": expected}}}
}

// ---- str ----

type strValidator struct{ strict bool }

func (v strValidator) Validate(in valis.Input, extra *valis.Extra) (any, error) {
	if s, ok := in.Raw().(string); ok {
		return s, nil
	}
	return nil, invalidType("str")
}

func (v strValidator) ValidateStrict(in valis.Input, extra *valis.Extra) (any, error) {
	return v.Validate(in, extra)
}

func (strValidator) SetRef(name string, target *valis.Ref) error { return nil }
func (strValidator) Name() string                                { return "str" }
func (v strValidator) Clone() valis.Validator                    { return v }
func (strValidator) JSONSchema() (*js.Schema, error)             { return &js.Schema{Type: "string"}, nil }

// ---- bool ----

type boolValidator struct{}

func (boolValidator) Validate(in valis.Input, extra *valis.Extra) (any, error) {
	if b, ok := in.Raw().(bool); ok {
		return b, nil
	}
	return nil, invalidType("bool")
}

func (v boolValidator) ValidateStrict(in valis.Input, extra *valis.Extra) (any, error) {
	return v.Validate(in, extra)
}

func (boolValidator) SetRef(name string, target *valis.Ref) error { return nil }
func (boolValidator) Name() string                                { return "bool" }
func (v boolValidator) Clone() valis.Validator                    { return v }
func (boolValidator) JSONSchema() (*js.Schema, error)             { return &js.Schema{Type: "boolean"}, nil }

// ---- int ----

type intValidator struct{ strict bool }

func (v intValidator) Validate(in valis.Input, extra *valis.Extra) (any, error) {
	if v.strict {
		return v.ValidateStrict(in, extra)
	}
	switch n := in.Raw().(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		return nil, valis.LineErrors{{Kind: valis.KindIntParsing, Ctx: map[string]any{"value": n.String()}}}
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int64(n), nil
		}
		return nil, valis.LineErrors{{Kind: valis.KindIntParsing, Ctx: map[string]any{"value": n}}}
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, nil
		}
		return nil, valis.LineErrors{{Kind: valis.KindIntParsing, Ctx: map[string]any{"value": n}}}
	default:
		return nil, invalidType("int")
	}
}

func (intValidator) ValidateStrict(in valis.Input, extra *valis.Extra) (any, error) {
	switch n := in.Raw().(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		// strict still has to read the source's number representation
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		return nil, invalidType("int")
	default:
		return nil, invalidType("int")
	}
}

func (intValidator) SetRef(name string, target *valis.Ref) error { return nil }
func (intValidator) Name() string                                { return "int" }
func (v intValidator) Clone() valis.Validator                    { return v }
func (intValidator) JSONSchema() (*js.Schema, error)             { return &js.Schema{Type: "integer"}, nil }

// ---- float ----

type floatValidator struct{ strict bool }

func (v floatValidator) Validate(in valis.Input, extra *valis.Extra) (any, error) {
	if v.strict {
		return v.ValidateStrict(in, extra)
	}
	switch n := in.Raw().(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, nil
		}
		return nil, valis.LineErrors{{Kind: valis.KindFloatParsing, Ctx: map[string]any{"value": n.String()}}}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, nil
		}
		return nil, valis.LineErrors{{Kind: valis.KindFloatParsing, Ctx: map[string]any{"value": n}}}
	default:
		return nil, invalidType("float")
	}
}

func (floatValidator) ValidateStrict(in valis.Input, extra *valis.Extra) (any, error) {
	switch n := in.Raw().(type) {
	case float64:
		return n, nil
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, nil
		}
		return nil, invalidType("float")
	default:
		return nil, invalidType("float")
	}
}

func (floatValidator) SetRef(name string, target *valis.Ref) error { return nil }
func (floatValidator) Name() string                                { return "float" }
func (v floatValidator) Clone() valis.Validator                    { return v }
func (floatValidator) JSONSchema() (*js.Schema, error)             { return &js.Schema{Type: "number"}, nil }

// ---- none ----

type noneValidator struct{}

func (noneValidator) Validate(in valis.Input, extra *valis.Extra) (any, error) {
	if in.Raw() == nil {
		return nil, nil
	}
	return nil, valis.LineErrors{{Kind: valis.KindNoneRequired}}
}

func (v noneValidator) ValidateStrict(in valis.Input, extra *valis.Extra) (any, error) {
	return v.Validate(in, extra)
}

func (noneValidator) SetRef(name string, target *valis.Ref) error { return nil }
func (noneValidator) Name() string                                { return "none" }
func (v noneValidator) Clone() valis.Validator                    { return v }
func (noneValidator) JSONSchema() (*js.Schema, error)             { return &js.Schema{Type: "null"}, nil }

// ---- any ----

type anyValidator struct{}

func (anyValidator) Validate(in valis.Input, extra *valis.Extra) (any, error) {
	return in.Out(), nil
}

func (v anyValidator) ValidateStrict(in valis.Input, extra *valis.Extra) (any, error) {
	return v.Validate(in, extra)
}

func (anyValidator) SetRef(name string, target *valis.Ref) error { return nil }
func (anyValidator) Name() string                                { return "any" }
func (v anyValidator) Clone() valis.Validator                    { return v }
func (anyValidator) JSONSchema() (*js.Schema, error)             { return &js.Schema{}, nil }
