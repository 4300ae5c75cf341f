package workflows

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolarWolf314/keystash/internal/codec"
	kerrors "github.com/PolarWolf314/keystash/internal/errors"
	"github.com/PolarWolf314/keystash/internal/merge"
	"github.com/PolarWolf314/keystash/internal/store"
)

// SaveConfigOptions configures the save config workflow.
type SaveConfigOptions struct {
	Common

	Name string

	// Source is a document to start from, in SourceFormat. When empty the
	// config starts as an empty mapping.
	Source       []byte
	SourceFormat codec.Format

	// Sets assigns values as "dotted.path=value". Values are parsed as YAML
	// scalars, so "3" is an integer and "true" a boolean.
	Sets []string

	// Format is the stored format. Empty means the default_format setting.
	Format     codec.Format
	Encryption Encryption
}

// SaveConfigResult contains the stored config.
type SaveConfigResult struct {
	Name      string
	Path      string
	Format    codec.Format
	Encrypted bool
	Value     codec.Value
}

// SaveConfig builds a config from a source document and assignments, then
// stores it.
func SaveConfig(ctx context.Context, opts SaveConfigOptions) (*SaveConfigResult, error) {
	if err := store.ValidateName(opts.Name); err != nil {
		return nil, err
	}

	var value codec.Value = map[string]any{}
	if len(opts.Source) > 0 {
		decoded, err := codec.Decode(opts.Source, opts.SourceFormat.OrDefault())
		if err != nil {
			return nil, fmt.Errorf("reading source document: %w", err)
		}
		value = decoded
	}

	if len(opts.Sets) > 0 {
		root, ok := value.(map[string]any)
		if !ok {
			if value != nil {
				return nil, fmt.Errorf("%w: cannot assign keys into a %T document", kerrors.ErrNotMapping, value)
			}
			root = map[string]any{}
		}
		for _, assignment := range opts.Sets {
			if err := applyAssignment(root, assignment); err != nil {
				return nil, err
			}
		}
		value = root
	}

	st, userConfig, err := opts.openStore(ctx)
	if err != nil {
		return nil, err
	}

	format := opts.Format
	if format == "" {
		format = userConfig.Format()
	}
	storeOpts := store.ConfigOptions{Format: format, Encrypted: opts.Encryption.resolveWrite(userConfig)}

	if err := st.PutConfig(opts.Name, value, storeOpts); err != nil {
		return nil, err
	}

	path := st.ConfigPath(opts.Name, storeOpts)
	opts.Logger.Infof("Stored config %s at %s", opts.Name, path)
	return &SaveConfigResult{
		Name:      opts.Name,
		Path:      path,
		Format:    format,
		Encrypted: storeOpts.Encrypted,
		Value:     value,
	}, nil
}

// applyAssignment sets a dotted path in root, creating mappings on the way
// and replacing non-mapping values it has to descend through.
func applyAssignment(root map[string]any, assignment string) error {
	path, raw, found := strings.Cut(assignment, "=")
	if !found || path == "" {
		return fmt.Errorf("invalid assignment %q: expected key=value", assignment)
	}

	keys := strings.Split(path, ".")
	for _, k := range keys {
		if k == "" {
			return fmt.Errorf("invalid assignment %q: empty key in %q", assignment, path)
		}
	}

	value, err := parseScalar(raw)
	if err != nil {
		return fmt.Errorf("invalid assignment %q: %w", assignment, err)
	}

	node := root
	for _, k := range keys[:len(keys)-1] {
		next, ok := node[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			node[k] = next
		}
		node = next
	}
	node[keys[len(keys)-1]] = value
	return nil
}

func parseScalar(raw string) (codec.Value, error) {
	if raw == "" {
		return "", nil
	}
	v, err := codec.Decode([]byte(raw), codec.YAML)
	if err != nil {
		return raw, nil
	}
	switch v.(type) {
	case map[string]any, []any:
		// Flow syntax such as [a, b] is kept as written.
		return raw, nil
	}
	return v, nil
}

// ShowConfigOptions configures the show config workflow.
type ShowConfigOptions struct {
	Common
	ConfigRef

	// Output is the format to render in. Empty means the stored format.
	Output codec.Format
}

// ShowConfigResult contains a decoded config and its rendering.
type ShowConfigResult struct {
	Entry    store.Entry
	Value    codec.Value
	Output   codec.Format
	Rendered []byte
}

// ShowConfig loads a config and renders it. It returns ErrItemNotFound when
// no config matches and ErrAmbiguousItem when several do.
func ShowConfig(ctx context.Context, opts ShowConfigOptions) (*ShowConfigResult, error) {
	st, _, err := opts.openStore(ctx)
	if err != nil {
		return nil, err
	}

	value, entry, err := loadConfig(st, opts.ConfigRef)
	if err != nil {
		return nil, err
	}

	output := opts.Output
	if output == "" {
		output = entry.Format
	}
	rendered, err := codec.Encode(value, output)
	if err != nil {
		return nil, err
	}

	return &ShowConfigResult{Entry: entry, Value: value, Output: output, Rendered: rendered}, nil
}

// MergeConfigsOptions configures the merge workflow.
type MergeConfigsOptions struct {
	Common

	Base    ConfigRef
	Overlay ConfigRef

	// SaveAs stores the merged config under a new name. Empty means the
	// result is only returned.
	SaveAs         string
	SaveFormat     codec.Format
	SaveEncryption Encryption

	// Output is the format of Rendered. It defaults to the saved format when
	// saving, and to the base's format otherwise.
	Output codec.Format
}

// MergeConfigsResult contains the merged config.
type MergeConfigsResult struct {
	Value    codec.Value
	Output   codec.Format
	Rendered []byte

	// SavedPath is set when the result was stored.
	SavedPath string
}

// MergeConfigs merges the overlay config into the base config. Both must
// exist and decode to mappings.
func MergeConfigs(ctx context.Context, opts MergeConfigsOptions) (*MergeConfigsResult, error) {
	if opts.SaveAs != "" {
		if err := store.ValidateName(opts.SaveAs); err != nil {
			return nil, err
		}
	}

	st, userConfig, err := opts.openStore(ctx)
	if err != nil {
		return nil, err
	}

	base, baseEntry, err := loadConfig(st, opts.Base)
	if err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}
	overlay, _, err := loadConfig(st, opts.Overlay)
	if err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}

	merged, err := merge.Values(base, overlay)
	if err != nil {
		return nil, err
	}

	saveFormat := opts.SaveFormat
	if saveFormat == "" {
		saveFormat = baseEntry.Format
	}
	output := opts.Output
	switch {
	case output != "":
	case opts.SaveAs != "":
		output = saveFormat
	default:
		output = baseEntry.Format
	}
	rendered, err := codec.Encode(merged, output)
	if err != nil {
		return nil, err
	}
	result := &MergeConfigsResult{Value: merged, Output: output, Rendered: rendered}

	if opts.SaveAs != "" {
		storeOpts := store.ConfigOptions{Format: saveFormat, Encrypted: opts.SaveEncryption.resolveWrite(userConfig)}
		if err := st.PutConfig(opts.SaveAs, merged, storeOpts); err != nil {
			return nil, err
		}
		result.SavedPath = st.ConfigPath(opts.SaveAs, storeOpts)
		opts.Logger.Infof("Stored merged config at %s", result.SavedPath)
	}

	return result, nil
}
