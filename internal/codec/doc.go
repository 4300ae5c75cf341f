// Package codec converts structured values to and from text formats.
//
// A structured value is a tree of mappings (map[string]any), sequences
// ([]any) and scalar leaves: string, int64, float64, bool and nil. Encode
// accepts other Go integer and float widths, typed string-keyed maps and
// typed slices, and normalizes them into that canonical form first. Decode
// always returns canonical values, so decoded trees can be compared with
// reflect.DeepEqual.
//
// # Formats
//
//   - json: encoding/json, two-space indent, integers decoded as int64
//   - yaml: gopkg.in/yaml.v3, block style
//   - toml: github.com/BurntSushi/toml; the root must be a mapping and null
//     cannot be written
//
// Shapes a format cannot hold fail at Encode time with ErrUnencodableValue
// instead of being dropped.
//
// # Precision
//
// JSON and YAML write a float with an integral value (2.0) as "2", which
// decodes as int64. TOML keeps the distinction.
package codec
