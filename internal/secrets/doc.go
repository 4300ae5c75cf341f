// Package secrets owns the symmetric key of a storage root and the
// authenticated cipher built on it.
//
// # Encryption Architecture
//
// keystash uses a single symmetric key per storage root:
//
//  1. A random 256-bit key is generated the first time a root is opened
//  2. The key is written, raw and without a header, to secretbox.key
//  3. Every encrypted item under that root is sealed with this one key
//
// Encryption uses NaCl secretbox (XSalsa20-Poly1305) with a random 24-byte
// nonce prepended to the ciphertext. Re-encrypting the same payload produces
// different output, and any modification of the ciphertext is detected on
// decryption.
//
// # Key Lifecycle
//
// OpenKeyVault creates the key only when the key file is absent and loads it
// unchanged on every later open. The key is never rotated or regenerated by
// keystash.
//
// Losing, deleting or regenerating secretbox.key makes every encrypted item
// under the root permanently undecryptable. Back the key file up together
// with the items.
//
// Creation is race-safe: the new key is written to a private temp file and
// published with a hard link, which fails if the key file already exists. When
// two processes race, exactly one key is published and the loser loads it.
// Where hard links are unavailable an exclusive create is used instead, and a
// reader that finds a key file shorter than a key retries briefly before
// failing with ErrInvalidKeyLength. A short key file is never regenerated.
//
// # Security Considerations
//
// The key file is created with 0600 permissions and the root with 0700.
// Integrity failures and wrong-key failures cannot be told apart by
// secretbox, so both are reported as ErrKeyMismatch, which also matches
// ErrIntegrity.
package secrets
