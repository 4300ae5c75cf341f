package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	kerrors "github.com/PolarWolf314/keystash/internal/errors"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Encode normalizes v and writes it in format f.
func Encode(v any, f Format) ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %q", kerrors.ErrUnsupportedFormat, f)
	}

	value, err := Normalize(v)
	if err != nil {
		return nil, err
	}

	switch f {
	case JSON:
		return encodeJSON(value)
	case YAML:
		return encodeYAML(value)
	default:
		return encodeTOML(value)
	}
}

// Decode parses data in format f into a canonical value.
func Decode(data []byte, f Format) (Value, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %q", kerrors.ErrUnsupportedFormat, f)
	}

	var (
		raw any
		err error
	)
	switch f {
	case JSON:
		raw, err = decodeJSON(data)
	case YAML:
		raw, err = decodeYAML(data)
	default:
		raw, err = decodeTOML(data)
	}
	if err != nil {
		return nil, err
	}

	return canonical(raw)
}

func encodeJSON(value Value) ([]byte, error) {
	if err := walk(value, "$", func(v Value, path string) error {
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return unencodable(path, "json has no representation for %v", f)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	jsonValue := markFloats(value, func(text string) any { return json.Number(text) })
	if err := enc.Encode(jsonValue); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrUnencodableValue, err)
	}
	return buf.Bytes(), nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: json: %v", kerrors.ErrMalformedDocument, err)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: json: unexpected data after top-level value", kerrors.ErrMalformedDocument)
	}
	return v, nil
}

func encodeYAML(value Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	yamlValue := markFloats(value, func(text string) any {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: text}
	})
	if err := enc.Encode(yamlValue); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrUnencodableValue, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrUnencodableValue, err)
	}
	return buf.Bytes(), nil
}

func decodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: yaml: %v", kerrors.ErrMalformedDocument, err)
	}
	return v, nil
}

func encodeTOML(value Value) ([]byte, error) {
	if _, ok := value.(map[string]any); !ok {
		return nil, unencodable("$", "toml documents must be a mapping, got %T", value)
	}
	if err := walk(value, "$", func(v Value, path string) error {
		if v == nil {
			return unencodable(path, "toml has no null")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(value); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrUnencodableValue, err)
	}
	return buf.Bytes(), nil
}

func decodeTOML(data []byte) (any, error) {
	v := map[string]any{}
	if _, err := toml.Decode(string(data), &v); err != nil {
		return nil, fmt.Errorf("%w: toml: %v", kerrors.ErrMalformedDocument, err)
	}
	return v, nil
}

// markFloats returns a copy of v in which every integral float is replaced by
// wrap applied to its text with a ".0" suffix, so that JSON and YAML read it
// back as a float rather than an integer.
func markFloats(v Value, wrap func(text string) any) any {
	switch t := v.(type) {
	case float64:
		if text, ok := integralFloatText(t); ok {
			return wrap(text)
		}
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			out[k] = markFloats(elem, wrap)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = markFloats(elem, wrap)
		}
		return out
	}
	return v
}

// integralFloatText formats f and reports whether the shortest form would
// read as an integer. Exponent forms, NaN and Inf already read as floats.
func integralFloatText(f float64) (string, bool) {
	text := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(text, ".eEnN") {
		return text, false
	}
	return text + ".0", true
}

// walk visits every node of a canonical value, parents before children.
func walk(v Value, path string, visit func(Value, string) error) error {
	if err := visit(v, path); err != nil {
		return err
	}
	switch t := v.(type) {
	case map[string]any:
		for k, elem := range t {
			if err := walk(elem, path+"."+k, visit); err != nil {
				return err
			}
		}
	case []any:
		for i, elem := range t {
			if err := walk(elem, fmt.Sprintf("%s[%d]", path, i), visit); err != nil {
				return err
			}
		}
	}
	return nil
}
