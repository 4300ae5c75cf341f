package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter renders one kind of output: in color on a capable terminal, or
// wrapped in plain-text decorations when color is off.
type Formatter struct {
	color *color.Color
	open  string
	close string
}

func newFormatter(attr color.Attribute, open, close string) Formatter {
	return Formatter{color: color.New(attr), open: open, close: close}
}

// Sprint renders its arguments like fmt.Sprint.
func (f Formatter) Sprint(a ...any) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf renders like fmt.Sprintf.
func (f Formatter) Sprintf(format string, a ...any) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if ColorDisabled() {
		return f.open + text + f.close
	}
	return f.color.Sprint(text)
}

// ColorDisabled reports whether output should be plain. NO_COLOR (any
// value) disables color, as does fatih/color's own terminal detection.
func ColorDisabled() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return true
	}
	return color.NoColor
}

var (
	// Code is a command the user can run: yellow, or `backticks`.
	Code = newFormatter(color.FgYellow, "`", "`")

	// Path is a file or directory: yellow, or bare.
	Path = newFormatter(color.FgYellow, "", "")

	// Flag is a command-line flag: yellow, or bare.
	Flag = newFormatter(color.FgYellow, "", "")

	// Highlight is an item name or other user value: cyan, or 'quoted'.
	Highlight = newFormatter(color.FgCyan, "'", "'")

	// Muted is secondary detail: gray, or (parenthesized).
	Muted = newFormatter(color.FgHiBlack, "(", ")")

	Success = newFormatter(color.FgGreen, "", "")
	Error   = newFormatter(color.FgRed, "", "")
	Warning = newFormatter(color.FgYellow, "", "")
	Info    = newFormatter(color.FgCyan, "", "")
)

// EnsureNewline appends a newline unless s already ends with one.
func EnsureNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s
	}
	return s + "\n"
}
