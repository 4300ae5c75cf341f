package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"sort"

	"github.com/PolarWolf314/keystash/internal/codec"
	"github.com/PolarWolf314/keystash/internal/validation"
)

type UserConfig struct {
	StorageRoot      string                     `toml:"storage_root,omitempty"`
	DefaultFormat    string                     `toml:"default_format,omitempty"`
	EncryptByDefault *bool                      `toml:"encrypt_by_default,omitempty"`
	Validators       map[string]ValidatorConfig `toml:"validators,omitempty"`
}

// ValidatorConfig declares an HTTP probe for a service. It adds a service or
// replaces a built-in one.
type ValidatorConfig struct {
	URL    string            `toml:"url"`
	Header string            `toml:"header,omitempty"`
	Prefix string            `toml:"prefix,omitempty"`
	Extra  map[string]string `toml:"extra,omitempty"`
}

// LoadUserConfig loads the settings file. A missing file yields an empty
// config.
func LoadUserConfig() (*UserConfig, error) {
	configPath := UserConfigPath()

	config := &UserConfig{
		Validators: make(map[string]ValidatorConfig),
	}

	if err := LoadTOML(configPath, config); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid user config %s: %w", configPath, err)
	}

	return config, nil
}

// SaveUserConfig validates and writes the settings file.
func SaveUserConfig(config *UserConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := SaveTOML(UserConfigPath(), config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}
	return nil
}

// Validate checks the format name and every validator URL.
func (c *UserConfig) Validate() error {
	if c.DefaultFormat != "" {
		if _, err := codec.ParseFormat(c.DefaultFormat); err != nil {
			return fmt.Errorf("default_format: %w", err)
		}
	}
	for name, v := range c.Validators {
		u, err := url.Parse(v.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("validators.%s: url %q is not an absolute URL", name, v.URL)
		}
	}
	return nil
}

// Format returns the configured default config format, or codec.DefaultFormat.
func (c *UserConfig) Format() codec.Format {
	f, err := codec.ParseFormat(c.DefaultFormat)
	if err != nil {
		return codec.DefaultFormat
	}
	return f
}

// Encrypt reports whether new items are encrypted when no flag says
// otherwise. It defaults to true.
func (c *UserConfig) Encrypt() bool {
	if c.EncryptByDefault == nil {
		return true
	}
	return *c.EncryptByDefault
}

// Registry returns the default validator registry extended with the probes
// declared in the settings file.
func (c *UserConfig) Registry() *validation.Registry {
	r := validation.DefaultRegistry()
	for name, v := range c.Validators {
		r.Register(name, validation.HTTPProbe{
			URL:    v.URL,
			Header: v.Header,
			Prefix: v.Prefix,
			Extra:  v.Extra,
		})
	}
	return r
}

// ValidatorNames returns the services declared in the settings file, sorted.
func (c *UserConfig) ValidatorNames() []string {
	names := make([]string, 0, len(c.Validators))
	for name := range c.Validators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
