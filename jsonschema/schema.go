package jsonschema

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend incrementally.
type Schema struct {
	// Core
	Type string `json:"type,omitempty"`
	Ref  string `json:"$ref,omitempty"`

	// Object
	PropertyNames        *Schema `json:"propertyNames,omitempty"`
	AdditionalProperties any     `json:"additionalProperties,omitempty"`
	MinProperties        *int    `json:"minProperties,omitempty"`
	MaxProperties        *int    `json:"maxProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`
}

// Projector is implemented by validators that can describe themselves as a
// JSON Schema fragment.
type Projector interface {
	JSONSchema() (*Schema, error)
}

// For projects v into a JSON Schema fragment, returning the permissive empty
// schema when v does not implement Projector.
func For(v any) (*Schema, error) {
	if p, ok := v.(Projector); ok {
		return p.JSONSchema()
	}
	return &Schema{}, nil
}
