package utils

import (
	"strings"

	"github.com/PolarWolf314/keystash/internal/ui"
)

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	return formatList(paths, ui.Path)
}

// FormatNames formats item names as a bulleted list.
func FormatNames(names []string) string {
	return formatList(names, ui.Highlight)
}

func formatList(items []string, f ui.Formatter) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString("    - ")
		b.WriteString(f.Sprint(item))
		b.WriteString("\n")
	}
	return b.String()
}
