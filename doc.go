package valis

// Package valis provides:
//
// - A schema-compiled validation engine: schema descriptions compile to
//   immutable Validator instances that check and coerce arbitrary inputs
// - A stable error model via LineErrors (kind, structured context, location
//   path) that collects every failure in a container instead of stopping at
//   the first
// - An input abstraction with strict and lax extraction over JSON/YAML
//   decoded values, including duck-typed mappings
// - Late-bound Ref cells so self-referencing schemas validate recursive data
//
// Design policy:
// - Keep only public contracts in the root package; validator variants and
//   the schema factory live under schema/, input decoding under source/.
// - Place message translation under i18n/, schema export under jsonschema/,
//   and the CLI under cmd/valis.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	v, err := schema.Build(node, nil)
//	out, err := v.Validate(valis.Of(decoded), nil)
//	if le, ok := valis.AsLineErrors(err); ok { ... }
