package utils

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchNames returns the names matching the doublestar pattern, keeping
// their order. An empty pattern matches everything.
func MatchNames(pattern string, names []string) ([]string, error) {
	if pattern == "" {
		return names, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	matched := []string{}
	for _, name := range names {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			matched = append(matched, name)
		}
	}
	return matched, nil
}
