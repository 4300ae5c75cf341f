// Package errors provides typed error values for keystash.
//
// Each failure keystash can report has one sentinel. Match them with
// errors.Is; messages may change.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Storage errors: the storage root or an item file could not be read or
//     written (ErrStorageIO)
//   - Crypto errors: decryption failed or the key is unusable (ErrIntegrity,
//     ErrKeyMismatch, ErrInvalidKeyLength)
//   - Codec errors: a value or document cannot be handled by a format
//     (ErrUnsupportedFormat, ErrUnencodableValue, ErrMalformedDocument)
//   - Item errors: a stored item cannot be returned (ErrCorruptItem,
//     ErrInvalidName, ErrItemNotFound, ErrAmbiguousItem, ErrNotMapping)
//   - Validation errors: a credential check could not accept a key
//     (ErrUnknownService, ErrValidationFailed)
//
// A missing item is not an error for the store. Retrieval returns an ok
// flag instead, and ErrItemNotFound is only produced by workflows that need
// an existing item to proceed.
//
// # Usage
//
// Handle errors in the CLI layer:
//
//	value, ok, err := st.GetSecret("openai", true)
//	if errors.Is(err, kerrors.ErrCorruptItem) {
//	    // Tell the operator to check the key file
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: reading %s: %v", kerrors.ErrStorageIO, path, err)
package errors
