package secrets

import (
	"bytes"
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/keystash/internal/errors"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := CreateSymmetricKey()
	if err != nil {
		t.Fatalf("Failed to create symmetric key: %v", err)
	}
	return key
}

func TestCreateSymmetricKey_Length(t *testing.T) {
	key := testKey(t)
	if len(key) != KeySize {
		t.Fatalf("Expected key length %d, got: %d", KeySize, len(key))
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testKey(t)

	cases := [][]byte{
		[]byte("sk-live-1234567890"),
		[]byte(`{"model":"gpt","temperature":0.2}`),
		{},
		bytes.Repeat([]byte{0xff}, 4096),
	}

	for _, plaintext := range cases {
		ciphertext, err := Encrypt(key, plaintext)
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		got, err := Decrypt(key, ciphertext)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Errorf("Expected %q, got: %q", plaintext, got)
		}
	}
}

func TestEncrypt_NotDeterministic(t *testing.T) {
	key := testKey(t)

	first, err := Encrypt(key, []byte("same-value"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	second, err := Encrypt(key, []byte("same-value"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if bytes.Equal(first, second) {
		t.Errorf("Expected different ciphertexts for repeated encryption")
	}
}

func TestDecrypt_DetectsEveryBitFlip(t *testing.T) {
	key := testKey(t)
	ciphertext, err := Encrypt(key, []byte("sk-abc"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	for i := 0; i < len(ciphertext)*8; i++ {
		tampered := append([]byte(nil), ciphertext...)
		tampered[i/8] ^= 1 << (i % 8)

		plaintext, err := Decrypt(key, tampered)
		if !errors.Is(err, kerrors.ErrIntegrity) {
			t.Fatalf("Bit %d: expected ErrIntegrity, got plaintext %q and error %v", i, plaintext, err)
		}
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	ciphertext, err := Encrypt(testKey(t), []byte("hidden"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	_, err = Decrypt(testKey(t), ciphertext)
	if !errors.Is(err, kerrors.ErrKeyMismatch) {
		t.Errorf("Expected ErrKeyMismatch, got: %v", err)
	}
	if !errors.Is(err, kerrors.ErrIntegrity) {
		t.Errorf("Expected ErrKeyMismatch to match ErrIntegrity, got: %v", err)
	}
}

func TestDecrypt_ShortCiphertext(t *testing.T) {
	key := testKey(t)

	for _, size := range []int{0, 1, NonceSize, NonceSize + 15} {
		_, err := Decrypt(key, make([]byte, size))
		if !errors.Is(err, kerrors.ErrIntegrity) {
			t.Errorf("Size %d: expected ErrIntegrity, got: %v", size, err)
		}
	}
}

func TestEncryptDecrypt_InvalidKeyLength(t *testing.T) {
	if _, err := Encrypt([]byte("too-short"), []byte("x")); !errors.Is(err, kerrors.ErrInvalidKeyLength) {
		t.Errorf("Expected ErrInvalidKeyLength from Encrypt, got: %v", err)
	}
	if _, err := Decrypt(make([]byte, 16), make([]byte, 64)); !errors.Is(err, kerrors.ErrInvalidKeyLength) {
		t.Errorf("Expected ErrInvalidKeyLength from Decrypt, got: %v", err)
	}
}

func TestEncryptDecrypt_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("decrypt(k, encrypt(k, p)) == p", prop.ForAll(
		func(keySeed []byte, plaintext []byte) bool {
			key := make([]byte, KeySize)
			copy(key, keySeed)

			ciphertext, err := Encrypt(key, plaintext)
			if err != nil {
				return false
			}
			got, err := Decrypt(key, ciphertext)
			if err != nil {
				return false
			}
			return bytes.Equal(got, plaintext)
		},
		gen.SliceOfN(KeySize, gen.UInt8()),
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}
