package secrets

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	kerrors "github.com/PolarWolf314/keystash/internal/errors"
)

func TestOpenKeyVault_CreatesRootAndKey(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "root")

	vault, err := OpenKeyVault(root)
	if err != nil {
		t.Fatalf("OpenKeyVault failed: %v", err)
	}
	if !vault.Created() {
		t.Errorf("Expected first open to create the key")
	}

	info, err := os.Stat(filepath.Join(root, KeyFileName))
	if err != nil {
		t.Fatalf("Expected key file to exist: %v", err)
	}
	if info.Size() != KeySize {
		t.Errorf("Expected key file of %d bytes, got: %d", KeySize, info.Size())
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("Expected key file mode 0600, got: %o", info.Mode().Perm())
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("Failed to read root: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the key file in root, got: %d entries", len(entries))
	}
}

func TestOpenKeyVault_KeyPersistsAcrossOpens(t *testing.T) {
	root := t.TempDir()

	first, err := OpenKeyVault(root)
	if err != nil {
		t.Fatalf("First open failed: %v", err)
	}
	ciphertext, err := first.Encrypt([]byte("sk-run-one"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	second, err := OpenKeyVault(root)
	if err != nil {
		t.Fatalf("Second open failed: %v", err)
	}
	if second.Created() {
		t.Errorf("Expected second open to load the existing key")
	}
	if !bytes.Equal(first.key, second.key) {
		t.Fatalf("Expected byte-identical keys across opens")
	}
	if first.Fingerprint() != second.Fingerprint() {
		t.Errorf("Expected equal fingerprints, got: %s and %s", first.Fingerprint(), second.Fingerprint())
	}

	plaintext, err := second.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt with reopened vault failed: %v", err)
	}
	if string(plaintext) != "sk-run-one" {
		t.Errorf("Expected 'sk-run-one', got: %q", plaintext)
	}
}

// Regenerating the key orphans everything sealed under the old one.
func TestOpenKeyVault_RegeneratedKeyCannotDecryptOldItems(t *testing.T) {
	root := t.TempDir()

	original, err := OpenKeyVault(root)
	if err != nil {
		t.Fatalf("OpenKeyVault failed: %v", err)
	}
	ciphertext, err := original.Encrypt([]byte("sk-orphaned"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if err := os.Remove(original.KeyPath()); err != nil {
		t.Fatalf("Failed to remove key file: %v", err)
	}

	regenerated, err := OpenKeyVault(root)
	if err != nil {
		t.Fatalf("OpenKeyVault after removal failed: %v", err)
	}
	if !regenerated.Created() {
		t.Fatalf("Expected a new key to be generated")
	}

	if _, err := regenerated.Decrypt(ciphertext); !errors.Is(err, kerrors.ErrKeyMismatch) {
		t.Errorf("Expected ErrKeyMismatch for old ciphertext, got: %v", err)
	}
}

func TestOpenKeyVault_ConcurrentOpensAgreeOnOneKey(t *testing.T) {
	root := t.TempDir()

	const racers = 16
	vaults := make([]*KeyVault, racers)
	errs := make([]error, racers)

	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			vaults[i], errs[i] = OpenKeyVault(root)
		}(i)
	}
	wg.Wait()

	created := 0
	for i := 0; i < racers; i++ {
		if errs[i] != nil {
			t.Fatalf("Racer %d failed: %v", i, errs[i])
		}
		if vaults[i].Created() {
			created++
		}
		if !bytes.Equal(vaults[i].key, vaults[0].key) {
			t.Fatalf("Racer %d loaded a different key", i)
		}
	}
	if created != 1 {
		t.Errorf("Expected exactly one racer to publish the key, got: %d", created)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("Failed to read root: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected temp files to be cleaned up, got: %d entries", len(entries))
	}
}

func TestOpenKeyVault_RejectsWrongLengthKeyFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, KeyFileName), []byte("legacy-fernet-key"), 0600); err != nil {
		t.Fatalf("Failed to write key file: %v", err)
	}

	_, err := OpenKeyVault(root)
	if !errors.Is(err, kerrors.ErrInvalidKeyLength) {
		t.Errorf("Expected ErrInvalidKeyLength, got: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, KeyFileName))
	if err != nil {
		t.Fatalf("Failed to read key file: %v", err)
	}
	if string(data) != "legacy-fernet-key" {
		t.Errorf("Expected existing key file to be left untouched, got: %q", data)
	}
}

func TestOpenKeyVault_WaitsForKeyBeingWritten(t *testing.T) {
	root := t.TempDir()
	keyPath := filepath.Join(root, KeyFileName)
	key := bytes.Repeat([]byte{7}, KeySize)

	if err := os.WriteFile(keyPath, nil, 0600); err != nil {
		t.Fatalf("Failed to write key file: %v", err)
	}
	done := make(chan error, 1)
	go func() {
		time.Sleep(3 * keyReadBackoff)
		done <- os.WriteFile(keyPath, key, 0600)
	}()

	vault, err := OpenKeyVault(root)
	if werr := <-done; werr != nil {
		t.Fatalf("Failed to finish key file: %v", werr)
	}
	if err != nil {
		t.Fatalf("OpenKeyVault failed: %v", err)
	}
	if vault.Created() {
		t.Errorf("Expected the existing key to be loaded, not created")
	}
	if !bytes.Equal(vault.key, key) {
		t.Errorf("Expected the completed key, got: %x", vault.key)
	}
}

func TestOpenKeyVault_EmptyKeyFileIsNotRegenerated(t *testing.T) {
	root := t.TempDir()
	keyPath := filepath.Join(root, KeyFileName)
	if err := os.WriteFile(keyPath, nil, 0600); err != nil {
		t.Fatalf("Failed to write key file: %v", err)
	}

	retries := keyReadRetries
	keyReadRetries = 2
	t.Cleanup(func() { keyReadRetries = retries })

	_, err := OpenKeyVault(root)
	if !errors.Is(err, kerrors.ErrInvalidKeyLength) {
		t.Errorf("Expected ErrInvalidKeyLength, got: %v", err)
	}
	data, err := os.ReadFile(keyPath)
	if err != nil {
		t.Fatalf("Failed to read key file: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Expected the empty key file to be left alone, got %d bytes", len(data))
	}
}

func TestOpenKeyVault_UnwritableParent(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	parent := t.TempDir()
	if err := os.Chmod(parent, 0500); err != nil {
		t.Fatalf("Failed to chmod parent: %v", err)
	}
	defer os.Chmod(parent, 0700)

	_, err := OpenKeyVault(filepath.Join(parent, "root"))
	if !errors.Is(err, kerrors.ErrStorageIO) {
		t.Errorf("Expected ErrStorageIO, got: %v", err)
	}
}

func TestOpenKeyVault_UnreadableKeyFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	root := t.TempDir()
	if _, err := OpenKeyVault(root); err != nil {
		t.Fatalf("OpenKeyVault failed: %v", err)
	}
	keyPath := filepath.Join(root, KeyFileName)
	if err := os.Chmod(keyPath, 0000); err != nil {
		t.Fatalf("Failed to chmod key file: %v", err)
	}
	defer os.Chmod(keyPath, 0600)

	_, err := OpenKeyVault(root)
	if !errors.Is(err, kerrors.ErrStorageIO) {
		t.Errorf("Expected ErrStorageIO, got: %v", err)
	}
}
