// Package ui renders keystash's terminal output.
//
// Formatters mark what a piece of text is rather than how it looks:
//
//	ui.Code.Sprint("keystash key set openai")       // a command to run
//	ui.Path.Sprint("~/.keystash/openai.secret.enc") // a file
//	ui.Highlight.Sprint("openai")                   // an item name
//	ui.Muted.Sprint("yaml, encrypted")              // secondary detail
//
// Result lines start with a status glyph:
//
//	ui.Line(ui.Pass(), "Stored key for "+ui.Highlight.Sprint("openai"))
//
// Color is off when NO_COLOR is set or the output is not a color terminal.
// Formatters then fall back to plain decorations: `backticks` for Code,
// 'quotes' for Highlight and (parentheses) for Muted.
//
// MaskSecret renders a key for display without revealing it.
package ui
