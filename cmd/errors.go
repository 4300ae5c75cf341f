package cmd

import (
	"errors"

	kerrors "github.com/PolarWolf314/keystash/internal/errors"
	"github.com/PolarWolf314/keystash/internal/secrets"
	"github.com/PolarWolf314/keystash/internal/ui"
)

// reportedError marks an error whose message the command already printed.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// IsReported reports whether err was already shown to the user, so main
// only needs to set the exit code.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// failureMessage turns a workflow error into the line shown after the ✗.
func failureMessage(subject string, err error) string {
	switch {
	case errors.Is(err, kerrors.ErrItemNotFound):
		return subject + " not found"
	case errors.Is(err, kerrors.ErrKeyMismatch):
		return subject + " cannot be decrypted. Check that " + ui.Path.Sprint(secrets.KeyFileName) +
			" is the key it was written with"
	case errors.Is(err, kerrors.ErrCorruptItem):
		return subject + " is stored but cannot be decoded"
	case errors.Is(err, kerrors.ErrAmbiguousItem):
		return subject + " exists in more than one variant. Pick one with " +
			ui.Flag.Sprint("--format") + ", " + ui.Flag.Sprint("--plain") + " or " + ui.Flag.Sprint("--encrypted")
	case errors.Is(err, kerrors.ErrInvalidName):
		return subject + " is not a valid item name"
	case errors.Is(err, kerrors.ErrUnknownService):
		return "No validator is registered for " + subject
	case errors.Is(err, kerrors.ErrValidationFailed):
		return "The key for " + subject + " was rejected"
	case errors.Is(err, kerrors.ErrUnsupportedFormat):
		return "Unsupported format. Use json, yaml or toml"
	case errors.Is(err, kerrors.ErrUnencodableValue):
		return subject + " cannot be written in that format"
	case errors.Is(err, kerrors.ErrMalformedDocument):
		return "The input document could not be parsed"
	case errors.Is(err, kerrors.ErrNotMapping):
		return "Only mappings can be merged or assigned into"
	case errors.Is(err, kerrors.ErrInvalidKeyLength):
		return "The key file is damaged. Restore " + ui.Path.Sprint(secrets.KeyFileName) + " from a backup"
	case errors.Is(err, kerrors.ErrStorageIO):
		return "Could not access the storage root"
	}
	return "Failed: " + subject
}

// failure formats the final spinner message for err and marks err reported.
func failure(subject string, err error) (string, error) {
	msg := ui.Line(ui.Fail(), failureMessage(subject, err)) + "\n" +
		ui.Error.Sprint("Error: ") + err.Error()
	return msg, reportedError{err}
}
