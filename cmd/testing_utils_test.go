package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/keystash/internal/configs"

	"github.com/fatih/color"
)

// setupCmdTest isolates user settings and returns a fresh storage root.
func setupCmdTest(t *testing.T) string {
	t.Helper()

	originalSettings := configs.UserKeystashSettings
	originalNoColor := color.NoColor
	home := t.TempDir()
	configs.UserKeystashSettings = &configs.UserSettings{
		UserConfigsPath:    filepath.Join(home, "config"),
		DefaultStorageRoot: filepath.Join(home, ".keystash"),
		HomeDir:            home,
	}
	color.NoColor = true
	t.Setenv(configs.EnvHome, "")

	t.Cleanup(func() {
		configs.UserKeystashSettings = originalSettings
		color.NoColor = originalNoColor
		ResetGlobalState()
	})

	return filepath.Join(home, "root")
}

// cliResult holds the captured streams of one CLI run.
type cliResult struct {
	Stdout string
	Stderr string
	Err    error
}

// runCLI executes the command tree against root with stdin as input.
func runCLI(t *testing.T, root, stdin string, args ...string) cliResult {
	t.Helper()
	return runCLIWithPrepare(t, root, stdin, nil, args...)
}

// runCLIWithPrepare is runCLI with a hook that runs after global state is
// reset and before the command executes.
func runCLIWithPrepare(t *testing.T, root, stdin string, prepare func(), args ...string) cliResult {
	t.Helper()
	ResetGlobalState()
	if prepare != nil {
		prepare()
	}

	var stdout, stderr bytes.Buffer
	RootCmd.SetOut(&stdout)
	RootCmd.SetErr(&stderr)
	RootCmd.SetIn(strings.NewReader(stdin))
	// A nil slice would make cobra fall back to os.Args.
	args = append([]string{}, args...)
	if root != "" {
		args = append(args, "--root", root)
	}
	RootCmd.SetArgs(args)

	err := RootCmd.Execute()
	return cliResult{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// mustRunCLI is runCLI that fails the test on error.
func mustRunCLI(t *testing.T, root, stdin string, args ...string) cliResult {
	t.Helper()
	r := runCLI(t, root, stdin, args...)
	if r.Err != nil {
		t.Fatalf("keystash %s failed: %v\nstdout: %s\nstderr: %s", strings.Join(args, " "), r.Err, r.Stdout, r.Stderr)
	}
	return r
}

// copyFile overwrites dst with the contents of src.
func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", src, err)
	}
	if err := os.WriteFile(dst, data, 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", dst, err)
	}
}
