package merge

import (
	"fmt"

	"github.com/PolarWolf314/keystash/internal/codec"
	kerrors "github.com/PolarWolf314/keystash/internal/errors"

	"github.com/mitchellh/copystructure"
)

// Merge returns a deep copy of base with overlay merged into it. A nil base
// or overlay is treated as an empty mapping.
func Merge(base, overlay map[string]any) map[string]any {
	out := copyMap(base)
	mergeInto(out, overlay)
	return out
}

// Values merges two decoded config values. Both must be mappings; nil, as
// decoded from an empty YAML document, counts as an empty mapping.
func Values(base, overlay codec.Value) (codec.Value, error) {
	b, err := asMapping(base, "base")
	if err != nil {
		return nil, err
	}
	o, err := asMapping(overlay, "overlay")
	if err != nil {
		return nil, err
	}
	return Merge(b, o), nil
}

func asMapping(v codec.Value, side string) (map[string]any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s is %T", kerrors.ErrNotMapping, side, v)
}

// mergeInto merges overlay into dst, which must be owned by the caller.
func mergeInto(dst, overlay map[string]any) {
	for k, ov := range overlay {
		om, overlayIsMap := ov.(map[string]any)
		dm, dstIsMap := dst[k].(map[string]any)
		if overlayIsMap && dstIsMap {
			mergeInto(dm, om)
			continue
		}
		dst[k] = copyValue(ov)
	}
}

func copyValue(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		return copystructure.Must(copystructure.Copy(v))
	}
	return v
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return copystructure.Must(copystructure.Copy(m)).(map[string]any)
}
