// Package output encodes structured reports deterministically.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format selects a structured encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown structured format %q", s)
}

// Encode renders v in the given format. Keys are sorted alphabetically and
// empty fields tagged omitempty are dropped, so equal inputs always produce
// byte-identical output in either format.
func Encode(v interface{}, format Format) ([]byte, error) {
	normalized, err := normalize(v)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return DeterministicEncodeIndented(normalized, "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(normalized); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown structured format %q", format)
}

// DeterministicEncodeIndented produces indented JSON with HTML escaping off
// and no trailing newline.
func DeterministicEncodeIndented(v interface{}, indent string) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", indent)

	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	// Remove the trailing newline added by Encode
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// normalize round-trips v through JSON so struct tags decide field names and
// omission for every format, and maps carry the keys in sorted order.
func normalize(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out interface{}
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return numbersToInts(out), nil
}

// numbersToInts converts json.Number values to int64 or float64 so the YAML
// encoder emits them as plain scalars.
func numbersToInts(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			t[k] = numbersToInts(val)
		}
		return t
	case []interface{}:
		for i, val := range t {
			t[i] = numbersToInts(val)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	}
	return v
}
