package utils

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ReadSecret prompts on out and reads a line from stdin without echoing it.
// It fails if stdin is not a terminal.
func ReadSecret(prompt string, out io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("cannot prompt for a secret: stdin is not a terminal")
	}

	fmt.Fprint(out, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(out)

	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return string(secret), nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
