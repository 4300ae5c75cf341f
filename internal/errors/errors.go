package errors

import (
	"errors"
	"fmt"
)

// Storage errors indicate the file system refused an operation.
var (
	// ErrStorageIO indicates a file system failure such as a permission error,
	// a missing directory or a full disk.
	ErrStorageIO = errors.New("storage i/o failure")
)

// Cryptographic errors indicate failures during encryption or decryption operations.
var (
	// ErrIntegrity indicates a ciphertext failed authentication because it was
	// corrupted, truncated or tampered with.
	ErrIntegrity = errors.New("ciphertext failed integrity check")

	// ErrKeyMismatch indicates a ciphertext was not sealed under the current key.
	// Secretbox cannot tell a foreign key from a damaged ciphertext, so this
	// error always matches ErrIntegrity as well.
	ErrKeyMismatch = fmt.Errorf("%w: ciphertext was not sealed with this key", ErrIntegrity)

	// ErrInvalidKeyLength indicates the symmetric key has an unexpected length.
	ErrInvalidKeyLength = errors.New("invalid symmetric key length")
)

// Codec errors indicate a value or document cannot be handled by a format.
var (
	// ErrUnsupportedFormat indicates an unrecognized format identifier.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrUnencodableValue indicates a value has a shape the format cannot represent.
	ErrUnencodableValue = errors.New("value cannot be encoded")

	// ErrMalformedDocument indicates text that does not parse in the requested format.
	ErrMalformedDocument = errors.New("malformed document")
)

// Item errors indicate a stored item cannot be addressed or returned.
var (
	// ErrCorruptItem indicates an item file exists but could not be decrypted or decoded.
	ErrCorruptItem = errors.New("stored item is corrupt or unreadable")

	// ErrInvalidName indicates a name that cannot address a single file in the storage root.
	ErrInvalidName = errors.New("invalid item name")

	// ErrItemNotFound indicates a workflow needed an item that does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrAmbiguousItem indicates a name matches several config files and no
	// format or encryption flag picks one.
	ErrAmbiguousItem = errors.New("item name matches more than one file")

	// ErrNotMapping indicates a merge input is not a mapping.
	ErrNotMapping = errors.New("value is not a mapping")
)

// Validation errors indicate a credential check did not accept a key.
var (
	// ErrUnknownService indicates no validator is registered for the service.
	ErrUnknownService = errors.New("no validator registered for service")

	// ErrValidationFailed indicates the validator rejected the key or failed while checking it.
	ErrValidationFailed = errors.New("key validation failed")
)
