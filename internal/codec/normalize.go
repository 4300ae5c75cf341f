package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/keystash/internal/errors"
)

// Value is a structured value: map[string]any, []any, string, int64,
// float64, bool or nil.
type Value = any

// Normalize converts v into the canonical value tree. It fails with
// ErrUnencodableValue for shapes no format can hold: structs, channels,
// functions, complex numbers, non-string map keys, strings that are not
// valid UTF-8 and integers that do not fit in int64.
func Normalize(v any) (Value, error) {
	return normalize(v, "$", false)
}

// canonical is Normalize for decoder output, which may also contain
// json.Number, time.Time, []map[string]any and maps with non-string keys.
func canonical(v any) (Value, error) {
	return normalize(v, "$", true)
}

func unencodable(path, format string, args ...any) error {
	return fmt.Errorf("%w: at %s: %s", kerrors.ErrUnencodableValue, path, fmt.Sprintf(format, args...))
}

func normalize(v any, path string, decoding bool) (Value, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		if err := checkText(t, path, "string", decoding); err != nil {
			return nil, err
		}
		return t, nil
	case bool:
		return t, nil
	case int64:
		return t, nil
	case float64:
		return t, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			if err := checkText(k, path, "map key", decoding); err != nil {
				return nil, err
			}
			n, err := normalize(elem, path+"."+k, decoding)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			n, err := normalize(elem, path+"["+strconv.Itoa(i)+"]", decoding)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case json.Number:
		return numberValue(t, path)
	}

	if decoding {
		switch t := v.(type) {
		case time.Time:
			return t.Format(time.RFC3339Nano), nil
		case map[any]any:
			out := make(map[string]any, len(t))
			for k, elem := range t {
				key := fmt.Sprint(k)
				n, err := normalize(elem, path+"."+key, decoding)
				if err != nil {
					return nil, err
				}
				out[key] = n
			}
			return out, nil
		}
	}

	return normalizeReflect(reflect.ValueOf(v), path, decoding)
}

func normalizeReflect(rv reflect.Value, path string, decoding bool) (Value, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			if decoding {
				return float64(u), nil
			}
			return nil, unencodable(path, "integer %d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32:
		// Round-trip through the shortest decimal form so 0.1 stays 0.1.
		f, _ := strconv.ParseFloat(strconv.FormatFloat(rv.Float(), 'g', -1, 32), 64)
		return f, nil
	case reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		if err := checkText(rv.String(), path, "string", decoding); err != nil {
			return nil, err
		}
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return normalize(rv.Elem().Interface(), path, decoding)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, unencodable(path, "map key type %s is not a string", rv.Type().Key())
		}
		if rv.IsNil() {
			return map[string]any{}, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			if err := checkText(key, path, "map key", decoding); err != nil {
				return nil, err
			}
			n, err := normalize(iter.Value().Interface(), path+"."+key, decoding)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}, nil
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			n, err := normalize(rv.Index(i).Interface(), path+"["+strconv.Itoa(i)+"]", decoding)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}

	return nil, unencodable(path, "unsupported type %s", rv.Type())
}

// checkText rejects text that is not valid UTF-8. JSON would replace the bad
// bytes and TOML would write a document it cannot read back.
func checkText(s, path, what string, decoding bool) error {
	if decoding || utf8.ValidString(s) {
		return nil
	}
	return unencodable(path, "%s %q is not valid UTF-8", what, s)
}

func numberValue(n json.Number, path string) (Value, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: at %s: number %s is out of range", kerrors.ErrMalformedDocument, path, n)
	}
	return f, nil
}
