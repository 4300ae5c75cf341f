package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/keystash/internal/configs"
	"github.com/PolarWolf314/keystash/internal/secrets"
	"github.com/PolarWolf314/keystash/internal/store"
	"github.com/PolarWolf314/keystash/internal/utils"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// ItemReport describes one item file that could not be read.
type ItemReport struct {
	Entry store.Entry `json:"entry"`
	Error string      `json:"error"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Root        string        `json:"root"`
	Fingerprint string        `json:"fingerprint,omitempty"`
	Checks      []CheckResult `json:"checks"`
	Unreadable  []ItemReport  `json:"unreadable,omitempty"`
	Summary     DoctorSummary `json:"summary"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// DoctorOptions configures the doctor workflow.
type DoctorOptions struct {
	Common
}

// doctorState is shared by the checks of one doctor run.
type doctorState struct {
	root       string
	rootExists bool
	keyPresent bool
	entries    []store.Entry
	result     *DoctorResult
	logger     func(string, ...any)
}

// Doctor runs health checks on the storage root. It never creates the root
// or the key, and it reports unreadable items instead of failing on them.
//
// The doctor workflow checks:
//   - User settings validity
//   - Storage root existence and permissions
//   - Key file presence, length and permissions
//   - That every item decrypts and decodes
//   - Secrets stored in plain text
func Doctor(ctx context.Context, opts DoctorOptions) (*DoctorResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := configs.ResolveStorageRoot(opts.Root)
	if err != nil {
		// Broken settings still leave the default root to inspect.
		root = configs.UserKeystashSettings.DefaultStorageRoot
		if opts.Root != "" {
			root = opts.Root
		}
	}

	state := &doctorState{
		root:   root,
		result: &DoctorResult{Root: root},
		logger: opts.Logger.Debugf,
	}

	checks := []func(*doctorState) CheckResult{
		checkUserSettings,
		checkStorageRoot,
		checkKeyFile,
		checkItems,
		checkPlainSecrets,
	}

	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		state.result.Checks = append(state.result.Checks, check(state))
	}

	state.result.Summary = calculateDoctorSummary(state.result.Checks)

	// Collect suggestions (deduplicated).
	seen := make(map[string]bool)
	for _, check := range state.result.Checks {
		if check.Suggestion != "" && check.Status != CheckPass && !seen[check.Suggestion] {
			state.result.Suggestions = append(state.result.Suggestions, check.Suggestion)
			seen[check.Suggestion] = true
		}
	}

	return state.result, nil
}

func checkUserSettings(_ *doctorState) CheckResult {
	if _, err := configs.LoadUserConfig(); err != nil {
		return CheckResult{
			Name:       "User settings",
			Status:     CheckError,
			Message:    err.Error(),
			Suggestion: fmt.Sprintf("Fix or remove %s", configs.UserConfigPath()),
		}
	}
	return CheckResult{
		Name:    "User settings",
		Status:  CheckPass,
		Message: "User settings valid",
	}
}

func checkStorageRoot(state *doctorState) CheckResult {
	perm, private, err := utils.CheckPrivate(state.root)
	if errors.Is(err, fs.ErrNotExist) {
		return CheckResult{
			Name:       "Storage root",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Storage root %s does not exist yet", state.root),
			Suggestion: "Run 'keystash key set <service>' to create it",
		}
	}
	if err != nil {
		return CheckResult{
			Name:       "Storage root",
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to stat storage root: %v", err),
			Suggestion: "Check that the storage root is accessible",
		}
	}
	state.rootExists = true

	entries, err := store.Scan(state.root)
	if err != nil {
		return CheckResult{
			Name:       "Storage root",
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to list storage root: %v", err),
			Suggestion: "Check that the storage root is readable",
		}
	}
	state.entries = entries
	state.logger("Found %d item files in %s", len(entries), state.root)

	if !private {
		return CheckResult{
			Name:       "Storage root",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Storage root has permissions %04o, expected 0700", perm),
			Suggestion: fmt.Sprintf("Run 'chmod 700 %s'", state.root),
		}
	}
	return CheckResult{
		Name:    "Storage root",
		Status:  CheckPass,
		Message: fmt.Sprintf("Storage root %s holds %d item files", state.root, len(entries)),
	}
}

func checkKeyFile(state *doctorState) CheckResult {
	keyPath := filepath.Join(state.root, secrets.KeyFileName)

	encrypted := 0
	for _, e := range state.entries {
		if e.Encrypted {
			encrypted++
		}
	}

	info, err := os.Stat(keyPath)
	if errors.Is(err, fs.ErrNotExist) {
		if encrypted > 0 {
			return CheckResult{
				Name:       "Key file",
				Status:     CheckError,
				Message:    fmt.Sprintf("Key file is missing but %d encrypted items exist; they cannot be decrypted", encrypted),
				Suggestion: fmt.Sprintf("Restore %s from a backup", keyPath),
			}
		}
		return CheckResult{
			Name:    "Key file",
			Status:  CheckWarning,
			Message: "Key file does not exist yet; it is created on first use",
		}
	}
	if err != nil {
		return CheckResult{
			Name:       "Key file",
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to stat key file: %v", err),
			Suggestion: "Check that the key file is accessible",
		}
	}
	if info.Size() != secrets.KeySize {
		return CheckResult{
			Name:       "Key file",
			Status:     CheckError,
			Message:    fmt.Sprintf("Key file holds %d bytes, expected %d", info.Size(), secrets.KeySize),
			Suggestion: fmt.Sprintf("Restore %s from a backup", keyPath),
		}
	}

	vault, err := secrets.OpenKeyVault(state.root)
	if err != nil {
		return CheckResult{
			Name:       "Key file",
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to load key: %v", err),
			Suggestion: "Check that the key file is readable by you",
		}
	}
	state.keyPresent = true
	state.result.Fingerprint = vault.Fingerprint()

	if _, private, _ := utils.CheckPrivate(keyPath); !private {
		return CheckResult{
			Name:       "Key file",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Key file has permissions %04o, expected 0600", info.Mode().Perm()),
			Suggestion: fmt.Sprintf("Run 'chmod 600 %s'", keyPath),
		}
	}
	return CheckResult{
		Name:    "Key file",
		Status:  CheckPass,
		Message: fmt.Sprintf("Key %s loaded", vault.Fingerprint()),
	}
}

func checkItems(state *doctorState) CheckResult {
	if !state.rootExists || len(state.entries) == 0 {
		return CheckResult{
			Name:    "Items readable",
			Status:  CheckPass,
			Message: "No items to check",
		}
	}

	var st *store.Store
	if state.keyPresent {
		var err error
		st, err = store.Open(state.root)
		if err != nil {
			return CheckResult{
				Name:    "Items readable",
				Status:  CheckError,
				Message: fmt.Sprintf("Failed to open store: %v", err),
			}
		}
	}

	for _, e := range state.entries {
		if st == nil {
			if e.Encrypted {
				state.result.Unreadable = append(state.result.Unreadable, ItemReport{Entry: e, Error: "key file is missing"})
			}
			continue
		}
		if err := st.Verify(e); err != nil {
			state.logger("Item %s failed verification: %v", e.Path, err)
			state.result.Unreadable = append(state.result.Unreadable, ItemReport{Entry: e, Error: err.Error()})
		}
	}

	if n := len(state.result.Unreadable); n > 0 {
		var names []string
		for _, r := range state.result.Unreadable {
			names = append(names, filepath.Base(r.Entry.Path))
		}
		return CheckResult{
			Name:       "Items readable",
			Status:     CheckError,
			Message:    fmt.Sprintf("%d of %d item files cannot be read: %s", n, len(state.entries), strings.Join(names, ", ")),
			Suggestion: "Check that secretbox.key is the key these items were written with",
		}
	}
	return CheckResult{
		Name:    "Items readable",
		Status:  CheckPass,
		Message: fmt.Sprintf("All %d item files decrypt and decode", len(state.entries)),
	}
}

func checkPlainSecrets(state *doctorState) CheckResult {
	var plain []string
	for _, e := range state.entries {
		if e.Kind == store.KindSecret && !e.Encrypted {
			plain = append(plain, e.Name)
		}
	}
	if len(plain) > 0 {
		return CheckResult{
			Name:       "Plain-text secrets",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("%d secrets are stored unencrypted: %s", len(plain), strings.Join(plain, ", ")),
			Suggestion: "Re-store them without --plain",
		}
	}
	return CheckResult{
		Name:    "Plain-text secrets",
		Status:  CheckPass,
		Message: "No secrets stored in plain text",
	}
}

// calculateDoctorSummary counts check results by status.
func calculateDoctorSummary(results []CheckResult) DoctorSummary {
	var summary DoctorSummary
	for _, result := range results {
		switch result.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}
