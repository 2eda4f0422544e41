package schema

import (
	"fmt"
	"sort"

	valis "github.com/valis/valis"
	js "github.com/valis/valis/jsonschema"
)

// unionValidator dispatches a mapping input to one of its choices based on a
// discriminator entry.
//
// Recognized node options: strict, discriminator, choices.
type unionValidator struct {
	strict        bool
	discriminator string
	choices       map[string]valis.Validator
}

func newUnionValidator(node Node, cfg *Config) (*unionValidator, error) {
	disc, ok := node["discriminator"].(string)
	if !ok || disc == "" {
		return nil, fmt.Errorf("schema: union requires a \"discriminator\" string")
	}
	raw, ok := node["choices"].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("schema: union requires non-empty \"choices\"")
	}
	choices := make(map[string]valis.Validator, len(raw))
	for tag, desc := range raw {
		child, err := Build(desc, cfg)
		if err != nil {
			return nil, fmt.Errorf("schema: choice %q: %w", tag, err)
		}
		choices[tag] = child
	}
	return &unionValidator{strict: isStrict(node, cfg), discriminator: disc, choices: choices}, nil
}

func (v *unionValidator) Validate(in valis.Input, extra *valis.Extra) (any, error) {
	chosen, err := v.choose(in, v.strict)
	if err != nil {
		return nil, err
	}
	return chosen.Validate(in, extra)
}

func (v *unionValidator) ValidateStrict(in valis.Input, extra *valis.Extra) (any, error) {
	chosen, err := v.choose(in, true)
	if err != nil {
		return nil, err
	}
	return chosen.ValidateStrict(in, extra)
}

func (v *unionValidator) choose(in valis.Input, strict bool) (valis.Validator, error) {
	var view valis.MappingView
	var err error
	if strict {
		view, err = in.StrictMapping()
	} else {
		view, err = in.LaxMapping(false)
	}
	if err != nil {
		return nil, err
	}
	tag := ""
	found := false
	for k, val := range view.Entries() {
		if k.Raw() == v.discriminator {
			tag, found = val.Raw().(string)
			break
		}
	}
	if !found || tag == "" {
		return nil, valis.LineErrors{{
			Kind: valis.KindDiscriminatorMissing,
			Ctx:  map[string]any{"discriminator": v.discriminator},
			Loc:  valis.Loc{valis.FieldLoc(v.discriminator)},
		}}
	}
	chosen, ok := v.choices[tag]
	if !ok {
		return nil, valis.LineErrors{{
			Kind: valis.KindDiscriminatorUnknown,
			Ctx:  map[string]any{"discriminator": v.discriminator, "tag": tag},
			Loc:  valis.Loc{valis.FieldLoc(v.discriminator)},
		}}
	}
	return chosen, nil
}

func (v *unionValidator) SetRef(name string, target *valis.Ref) error {
	for _, c := range v.choices {
		if err := c.SetRef(name, target); err != nil {
			return err
		}
	}
	return nil
}

func (v *unionValidator) Name() string { return "union" }

func (v *unionValidator) Clone() valis.Validator {
	choices := make(map[string]valis.Validator, len(v.choices))
	for tag, c := range v.choices {
		choices[tag] = c.Clone()
	}
	return &unionValidator{strict: v.strict, discriminator: v.discriminator, choices: choices}
}

func (v *unionValidator) JSONSchema() (*js.Schema, error) {
	tags := make([]string, 0, len(v.choices))
	for tag := range v.choices {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	out := &js.Schema{OneOf: make([]*js.Schema, 0, len(tags))}
	for _, tag := range tags {
		cs, err := js.For(v.choices[tag])
		if err != nil {
			return nil, err
		}
		out.OneOf = append(out.OneOf, cs)
	}
	return out, nil
}
