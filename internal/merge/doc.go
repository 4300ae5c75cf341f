// Package merge combines two decoded configs into one.
//
// The overlay wins: for every key in the overlay, a mapping on both sides is
// merged recursively and anything else (scalars, sequences, or a mapping
// facing a non-mapping) replaces the base value wholesale. Keys only in the
// base are kept. Sequences are never concatenated.
//
// Neither input is modified. The result shares no mappings or sequences with
// the inputs.
package merge
