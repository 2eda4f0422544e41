// Package source decodes raw JSON or YAML documents into the engine's
// canonical value shapes: *valis.Map for objects (preserving key order),
// []any for arrays, json.Number for numbers.
package source

import (
	"bytes"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"

	valis "github.com/valis/valis"
)

// JSONBytes decodes one JSON document into an Input.
func JSONBytes(b []byte) (valis.Input, error) { return JSONReader(bytes.NewReader(b)) }

// JSONReader decodes one JSON document from r into an Input.
func JSONReader(r io.Reader) (valis.Input, error) {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("source: trailing data after JSON document")
	}
	return valis.Of(v), nil
}

func decodeJSONValue(dec *gojson.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of JSON document")
		}
		return nil, err
	}
	return decodeJSONFrom(dec, tok)
}

func decodeJSONFrom(dec *gojson.Decoder, tok gojson.Token) (any, error) {
	d, ok := tok.(gojson.Delim)
	if !ok {
		// string, bool, json.Number (UseNumber) or nil
		return tok, nil
	}
	switch d {
	case '{':
		m := valis.NewMap()
		for dec.More() {
			ktok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := ktok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key token %v", ktok)
			}
			val, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			m.Set(key, val)
		}
		if _, err := dec.Token(); err != nil { // consume '}'
			return nil, err
		}
		return m, nil
	case '[':
		arr := []any{}
		for dec.More() {
			el, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, el)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", d)
	}
}
