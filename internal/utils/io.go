package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadPiped reads all of in when it carries piped data. It reports false,
// without reading, when in is a terminal.
func ReadPiped(in io.Reader) ([]byte, bool, error) {
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return nil, false, fmt.Errorf("failed to stat stdin: %w", err)
		}
		// ModeCharDevice is set when stdin is connected to a terminal.
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return nil, false, nil
		}
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read from stdin: %w", err)
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	return data, true, nil
}

// TrimLineEnding strips one trailing newline, as left by echo or a heredoc.
func TrimLineEnding(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
