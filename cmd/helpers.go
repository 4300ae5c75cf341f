package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/PolarWolf314/keystash/internal/codec"
	"github.com/PolarWolf314/keystash/internal/ui"
	"github.com/PolarWolf314/keystash/internal/workflows"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// startSpinner creates and starts a spinner with the given message when not
// in verbose or debug mode. The returned cleanup stops the spinner and
// prints FinalMSG to the command's output.
//
// spinner.FinalMSG values do NOT need trailing newlines; cleanup adds one.
func startSpinner(cmd *cobra.Command, message string) (*spinner.Spinner, func()) {
	out := cmd.OutOrStdout()
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Cleared so s.Stop() does not print it too.
			s.FinalMSG = ""
		}
		if quiet {
			s.Stop()
		}
		if finalMsg != "" {
			fmt.Fprint(out, finalMsg)
		}
	}

	return s, cleanup
}

// encryptionFlags turns a --plain/--encrypted pair into a workflow choice.
func encryptionFlags(plain, encrypted bool) workflows.Encryption {
	switch {
	case plain:
		return workflows.EncryptionOff
	case encrypted:
		return workflows.EncryptionOn
	}
	return workflows.EncryptionDefault
}

// formatFlag parses an optional --format style flag. Empty stays empty.
func formatFlag(name, value string) (codec.Format, error) {
	if value == "" {
		return "", nil
	}
	f, err := codec.ParseFormat(value)
	if err != nil {
		return "", fmt.Errorf("--%s: %w", name, err)
	}
	return f, nil
}

// encryptionLabel renders an item's encryption for messages.
func encryptionLabel(encrypted bool) string {
	if encrypted {
		return "encrypted"
	}
	return ui.Warning.Sprint("plain text")
}

// writeRendered prints a rendered document, adding a final newline when the
// encoder left none.
func writeRendered(out io.Writer, rendered []byte) {
	fmt.Fprint(out, ui.EnsureNewline(string(rendered)))
}
