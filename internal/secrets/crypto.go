package secrets

import (
	"crypto/rand"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/keystash/internal/errors"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// KeySize is the length in bytes of a secretbox key.
	KeySize = 32

	// NonceSize is the length of the random nonce prefixed to every ciphertext.
	NonceSize = 24
)

// CreateSymmetricKey generates a new random symmetric key.
func CreateSymmetricKey() ([]byte, error) {
	symKey := make([]byte, KeySize)
	if _, err := rand.Read(symKey); err != nil {
		return nil, err
	}

	return symKey, nil
}

func toKey(symKey []byte) (*[KeySize]byte, error) {
	if len(symKey) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", kerrors.ErrInvalidKeyLength, KeySize, len(symKey))
	}
	var key [KeySize]byte
	copy(key[:], symKey)
	return &key, nil
}

// Encrypt seals plaintext with secretbox under symKey. The output is the
// random nonce followed by the sealed box.
func Encrypt(symKey, plaintext []byte) ([]byte, error) {
	key, err := toKey(symKey)
	if err != nil {
		return nil, err
	}

	var nonce [NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return secretbox.Seal(nonce[:], plaintext, &nonce, key), nil
}

// Decrypt opens a ciphertext produced by Encrypt. A truncated, modified or
// foreign ciphertext fails with ErrKeyMismatch, which also matches ErrIntegrity.
func Decrypt(symKey, ciphertext []byte) ([]byte, error) {
	key, err := toKey(symKey)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < NonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("%w: ciphertext is %d bytes, shorter than nonce and tag", kerrors.ErrIntegrity, len(ciphertext))
	}

	var nonce [NonceSize]byte
	copy(nonce[:], ciphertext[:NonceSize])

	plaintext, ok := secretbox.Open(nil, ciphertext[NonceSize:], &nonce, key)
	if !ok {
		return nil, kerrors.ErrKeyMismatch
	}
	if plaintext == nil {
		plaintext = []byte{}
	}

	return plaintext, nil
}
