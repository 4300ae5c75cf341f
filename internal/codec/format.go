package codec

import (
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/keystash/internal/errors"
)

// Format identifies a structured text encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// DefaultFormat is used when a caller leaves the format unset.
const DefaultFormat = JSON

// Formats lists every supported format.
func Formats() []Format {
	return []Format{JSON, YAML, TOML}
}

// ParseFormat resolves a format name. It is case-insensitive and accepts
// "yml" for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	}
	return "", fmt.Errorf("%w: %q (expected one of json, yaml, toml)", kerrors.ErrUnsupportedFormat, name)
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	switch f {
	case JSON, YAML, TOML:
		return true
	}
	return false
}

// OrDefault returns f, or DefaultFormat when f is empty.
func (f Format) OrDefault() Format {
	if f == "" {
		return DefaultFormat
	}
	return f
}

func (f Format) String() string {
	return string(f)
}
