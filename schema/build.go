// Package schema compiles declarative schema descriptions into valis.Validator
// instances. A description is either a bare type name ("str", "int", ...) or a
// node map whose "type" entry selects the variant; composite variants build
// their children through the same factory.
package schema

import (
	"encoding/json"
	"fmt"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	valis "github.com/valis/valis"
)

// Node is one schema description node.
type Node = map[string]any

// Config is build-time configuration shared by a whole schema tree. A node's
// own options take precedence over it.
type Config struct {
	// Strict makes every validator built under this config default to strict
	// extraction unless its node says otherwise.
	Strict bool
}

// Build compiles a schema description into a Validator. The description may be
// a bare type name or a Node; anything else is a build error.
func Build(s any, cfg *Config) (valis.Validator, error) {
	switch d := s.(type) {
	case string:
		return buildNode(Node{"type": d}, cfg)
	case Node:
		return buildNode(d, cfg)
	default:
		return nil, fmt.Errorf("schema: unsupported description %T", s)
	}
}

func buildNode(node Node, cfg *Config) (valis.Validator, error) {
	t, ok := node["type"].(string)
	if !ok || t == "" {
		return nil, fmt.Errorf("schema: node missing \"type\"")
	}
	switch t {
	case "map":
		return newMapValidator(node, cfg)
	case "list":
		return newListValidator(node, cfg)
	case "union":
		return newUnionValidator(node, cfg)
	case "str":
		return strValidator{strict: isStrict(node, cfg)}, nil
	case "bool":
		return boolValidator{}, nil
	case "int":
		return intValidator{strict: isStrict(node, cfg)}, nil
	case "float":
		return floatValidator{strict: isStrict(node, cfg)}, nil
	case "none":
		return noneValidator{}, nil
	case "any":
		return anyValidator{}, nil
	case "function":
		return newFunctionValidator(node, cfg)
	case "recursive-container":
		return newRecursiveContainer(node, cfg)
	case "recursive-ref":
		return newRecursiveRef(node)
	default:
		return nil, fmt.Errorf("schema: unknown type %q", t)
	}
}

// ParseJSON reads a schema document from JSON.
func ParseJSON(b []byte) (Node, error) {
	var node Node
	if err := gojson.Unmarshal(b, &node); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return node, nil
}

// ParseYAML reads a schema document from YAML.
func ParseYAML(b []byte) (Node, error) {
	var node Node
	if err := yaml.Unmarshal(b, &node); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return node, nil
}

// ---- node option helpers ----

func isStrict(node Node, cfg *Config) bool {
	if v, ok := node["strict"]; ok {
		b, _ := v.(bool)
		return b
	}
	return cfg != nil && cfg.Strict
}

func optBool(node Node, key string) (bool, error) {
	v, ok := node[key]
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("schema: %q must be a bool, got %T", key, v)
	}
	return b, nil
}

// optBound reads an optional non-negative size bound. Schema documents arrive
// through different decoders, so several numeric shapes are accepted.
func optBound(node Node, key string) (*int, error) {
	v, ok := node[key]
	if !ok {
		return nil, nil
	}
	var n int
	switch x := v.(type) {
	case int:
		n = x
	case int64:
		n = int(x)
	case float64:
		if x != float64(int(x)) {
			return nil, fmt.Errorf("schema: %q must be an integer, got %v", key, x)
		}
		n = int(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return nil, fmt.Errorf("schema: %q must be an integer, got %v", key, x)
		}
		n = int(i)
	default:
		return nil, fmt.Errorf("schema: %q must be an integer, got %T", key, v)
	}
	if n < 0 {
		return nil, fmt.Errorf("schema: %q must be non-negative, got %d", key, n)
	}
	return &n, nil
}

// childValidator builds the child schema stored under key, or returns nil when
// the node has none.
func childValidator(node Node, key string, cfg *Config) (valis.Validator, error) {
	v, ok := node[key]
	if !ok || v == nil {
		return nil, nil
	}
	child, err := Build(v, cfg)
	if err != nil {
		return nil, fmt.Errorf("schema: %q: %w", key, err)
	}
	return child, nil
}

func cloneBound(p *int) *int {
	if p == nil {
		return nil
	}
	n := *p
	return &n
}
