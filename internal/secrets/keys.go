package secrets

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	kerrors "github.com/PolarWolf314/keystash/internal/errors"
)

// KeyFileName is the name of the key file inside a storage root. It names the
// algorithm: a different key length or cipher must use a different file name.
const KeyFileName = "secretbox.key"

// KeyVault holds the symmetric key of one storage root.
type KeyVault struct {
	root    string
	keyPath string
	key     []byte
	created bool
}

// OpenKeyVault ensures root exists, creates its key file if absent, and loads
// the key. Opening the same root again always yields the same key bytes.
func OpenKeyVault(root string) (*KeyVault, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("%w: failed to create storage root %s: %v", kerrors.ErrStorageIO, root, err)
	}

	keyPath := filepath.Join(root, KeyFileName)
	created := false

	key, err := readKeyFile(keyPath)
	if errors.Is(err, fs.ErrNotExist) {
		created, err = publishNewKey(root, keyPath)
		if err != nil {
			return nil, err
		}
		// Read back whatever won the publish, which may be another process's key.
		key, err = readKeyFile(keyPath)
	}
	if err != nil {
		return nil, err
	}

	return &KeyVault{
		root:    root,
		keyPath: keyPath,
		key:     key,
		created: created,
	}, nil
}

// A key file shorter than a key may still be being written by the exclusive
// create fallback, so short reads are retried for a while before failing.
var (
	keyReadRetries = 20
	keyReadBackoff = 10 * time.Millisecond
)

func readKeyFile(keyPath string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	for attempt := 0; attempt <= keyReadRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(keyReadBackoff)
		}
		data, err = os.ReadFile(keyPath)
		if err != nil || len(data) >= KeySize {
			break
		}
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to read key file %s: %v", kerrors.ErrStorageIO, keyPath, err)
	}
	if len(data) != KeySize {
		return nil, fmt.Errorf("%w: key file %s holds %d bytes, expected %d", kerrors.ErrInvalidKeyLength, keyPath, len(data), KeySize)
	}
	return data, nil
}

// publishNewKey writes a fresh key to a temp file and links it into place.
// It reports whether this call's key was the one published.
func publishNewKey(root, keyPath string) (bool, error) {
	key, err := CreateSymmetricKey()
	if err != nil {
		return false, fmt.Errorf("failed to generate symmetric key: %w", err)
	}

	tmp, err := os.CreateTemp(root, ".secretbox-*.tmp")
	if err != nil {
		return false, fmt.Errorf("%w: failed to create temp key file in %s: %v", kerrors.ErrStorageIO, root, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(key); err != nil {
		tmp.Close()
		return false, fmt.Errorf("%w: failed to write temp key file: %v", kerrors.ErrStorageIO, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return false, fmt.Errorf("%w: failed to sync temp key file: %v", kerrors.ErrStorageIO, err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("%w: failed to close temp key file: %v", kerrors.ErrStorageIO, err)
	}

	err = os.Link(tmpPath, keyPath)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrExist):
		return false, nil
	}

	// Some file systems refuse hard links. Exclusive create still lets only
	// one racer win, but the file is briefly empty; readKeyFile waits that out.
	return createKeyExclusive(keyPath, key)
}

func createKeyExclusive(keyPath string, key []byte) (bool, error) {
	f, err := os.OpenFile(keyPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: failed to create key file %s: %v", kerrors.ErrStorageIO, keyPath, err)
	}
	if _, err := f.Write(key); err != nil {
		f.Close()
		return false, fmt.Errorf("%w: failed to write key file %s: %v", kerrors.ErrStorageIO, keyPath, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("%w: failed to close key file %s: %v", kerrors.ErrStorageIO, keyPath, err)
	}
	return true, nil
}

// Root returns the storage root directory.
func (v *KeyVault) Root() string {
	return v.root
}

// KeyPath returns the path of the key file.
func (v *KeyVault) KeyPath() string {
	return v.keyPath
}

// Created reports whether this open generated the key file.
func (v *KeyVault) Created() bool {
	return v.created
}

// Encrypt seals plaintext with the vault key.
func (v *KeyVault) Encrypt(plaintext []byte) ([]byte, error) {
	return Encrypt(v.key, plaintext)
}

// Decrypt opens a ciphertext sealed with the vault key.
func (v *KeyVault) Decrypt(ciphertext []byte) ([]byte, error) {
	return Decrypt(v.key, ciphertext)
}

// Fingerprint identifies the key without revealing it: the first 8 bytes of
// its SHA-256 digest, hex encoded.
func (v *KeyVault) Fingerprint() string {
	sum := sha256.Sum256(v.key)
	return hex.EncodeToString(sum[:8])
}
