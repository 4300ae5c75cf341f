package ui

// Status glyphs lead each result line a command prints.
const (
	passGlyph = "✓"
	failGlyph = "✗"
	warnGlyph = "⚠"
	hintGlyph = "→"
)

// Pass marks a completed action.
func Pass() string { return Success.Sprint(passGlyph) }

// Fail marks a failed action.
func Fail() string { return Error.Sprint(failGlyph) }

// Warn marks something the user should look at.
func Warn() string { return Warning.Sprint(warnGlyph) }

// Hint introduces a suggested next step.
func Hint() string { return Info.Sprint(hintGlyph) }

// Line joins a glyph and a message.
func Line(glyph, message string) string {
	return glyph + " " + message
}
