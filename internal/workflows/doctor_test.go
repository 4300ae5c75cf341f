package workflows

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/PolarWolf314/keystash/internal/secrets"
)

func findCheck(t *testing.T, result *DoctorResult, name string) CheckResult {
	t.Helper()
	for _, c := range result.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("Expected check %q in %+v", name, result.Checks)
	return CheckResult{}
}

func TestDoctor_FreshRoot(t *testing.T) {
	common := setupWorkflowTest(t)

	result, err := Doctor(context.Background(), DoctorOptions{Common: common})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}
	if c := findCheck(t, result, "Storage root"); c.Status != CheckWarning {
		t.Errorf("Expected storage root warning, got: %+v", c)
	}
	if c := findCheck(t, result, "Key file"); c.Status != CheckWarning {
		t.Errorf("Expected key file warning, got: %+v", c)
	}
	if result.Summary.Errors != 0 {
		t.Errorf("Expected no errors on a fresh root, got: %+v", result.Summary)
	}
	if _, err := os.Stat(common.Root); !os.IsNotExist(err) {
		t.Errorf("Expected doctor not to create the root, got: %v", err)
	}
}

func TestDoctor_HealthyRoot(t *testing.T) {
	common := setupWorkflowTest(t)
	seedItems(t, common)

	result, err := Doctor(context.Background(), DoctorOptions{Common: common})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}
	if result.Summary.Errors != 0 || result.Summary.Warnings != 0 {
		t.Errorf("Expected a clean report, got: %+v", result.Checks)
	}
	if result.Summary.Passed != len(result.Checks) {
		t.Errorf("Expected every check to pass, got: %+v", result.Summary)
	}

	vault, err := secrets.OpenKeyVault(common.Root)
	if err != nil {
		t.Fatalf("OpenKeyVault failed: %v", err)
	}
	if result.Fingerprint != vault.Fingerprint() {
		t.Errorf("Expected fingerprint %s, got: %s", vault.Fingerprint(), result.Fingerprint)
	}
	if len(result.Suggestions) != 0 {
		t.Errorf("Expected no suggestions, got: %v", result.Suggestions)
	}
}

func TestDoctor_MissingKeyWithEncryptedItems(t *testing.T) {
	common := setupWorkflowTest(t)
	seedItems(t, common)

	if err := os.Remove(filepath.Join(common.Root, secrets.KeyFileName)); err != nil {
		t.Fatalf("Failed to remove key: %v", err)
	}

	result, err := Doctor(context.Background(), DoctorOptions{Common: common})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}
	if c := findCheck(t, result, "Key file"); c.Status != CheckError {
		t.Errorf("Expected key file error, got: %+v", c)
	}
	if c := findCheck(t, result, "Items readable"); c.Status != CheckError {
		t.Errorf("Expected items error, got: %+v", c)
	}
	if len(result.Unreadable) == 0 {
		t.Errorf("Expected unreadable items to be reported")
	}
	if _, err := os.Stat(filepath.Join(common.Root, secrets.KeyFileName)); !os.IsNotExist(err) {
		t.Errorf("Expected doctor not to recreate the key, got: %v", err)
	}
}

func TestDoctor_CorruptItem(t *testing.T) {
	common := setupWorkflowTest(t)
	seedItems(t, common)

	bad := filepath.Join(common.Root, "anthropic.secret.enc")
	if err := os.WriteFile(bad, []byte("not a ciphertext at all, just bytes"), 0600); err != nil {
		t.Fatalf("Failed to corrupt item: %v", err)
	}

	result, err := Doctor(context.Background(), DoctorOptions{Common: common})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}
	if len(result.Unreadable) != 1 || result.Unreadable[0].Entry.Name != "anthropic" {
		t.Fatalf("Expected only anthropic to be unreadable, got: %+v", result.Unreadable)
	}
	c := findCheck(t, result, "Items readable")
	if c.Status != CheckError || !strings.Contains(c.Message, "anthropic.secret.enc") {
		t.Errorf("Expected the corrupt file named in the check, got: %+v", c)
	}
}

func TestDoctor_PlainSecrets(t *testing.T) {
	common := setupWorkflowTest(t)
	ctx := context.Background()

	if _, err := SetKey(ctx, SetKeyOptions{Common: common, Service: "local", Value: "dev-key", Encryption: EncryptionOff}); err != nil {
		t.Fatalf("SetKey failed: %v", err)
	}

	result, err := Doctor(ctx, DoctorOptions{Common: common})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}
	c := findCheck(t, result, "Plain-text secrets")
	if c.Status != CheckWarning || !strings.Contains(c.Message, "local") {
		t.Errorf("Expected plain secret warning naming local, got: %+v", c)
	}
	if len(result.Suggestions) == 0 {
		t.Errorf("Expected a suggestion for the plain secret")
	}
}

func TestDoctor_LoosePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on Windows")
	}
	common := setupWorkflowTest(t)
	seedItems(t, common)

	if err := os.Chmod(common.Root, 0755); err != nil {
		t.Fatalf("Failed to chmod root: %v", err)
	}
	if err := os.Chmod(filepath.Join(common.Root, secrets.KeyFileName), 0644); err != nil {
		t.Fatalf("Failed to chmod key: %v", err)
	}

	result, err := Doctor(context.Background(), DoctorOptions{Common: common})
	if err != nil {
		t.Fatalf("Doctor failed: %v", err)
	}
	if c := findCheck(t, result, "Storage root"); c.Status != CheckWarning {
		t.Errorf("Expected storage root warning, got: %+v", c)
	}
	if c := findCheck(t, result, "Key file"); c.Status != CheckWarning {
		t.Errorf("Expected key file warning, got: %+v", c)
	}
	if result.Summary.Warnings != 2 {
		t.Errorf("Expected 2 warnings, got: %+v", result.Summary)
	}
}

func TestCalculateDoctorSummary(t *testing.T) {
	summary := calculateDoctorSummary([]CheckResult{
		{Status: CheckPass},
		{Status: CheckPass},
		{Status: CheckWarning},
		{Status: CheckError},
	})
	if summary.Passed != 2 || summary.Warnings != 1 || summary.Errors != 1 {
		t.Errorf("Expected 2/1/1, got: %+v", summary)
	}
}
