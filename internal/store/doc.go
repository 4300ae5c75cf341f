// Package store maps item names to files inside a storage root.
//
// An item is either a secret (a string) or a config (a structured value in
// one of the codec formats), stored in plain text or encrypted with the
// root's key. The file name is derived from the name, kind, format and
// encryption flag:
//
//	<name>.secret.enc    encrypted secret
//	<name>.secret        plain secret
//	<name>.<format>.enc  encrypted config
//	<name>.<format>      plain config
//
// Any other file in the root, including secretbox.key and in-flight temp
// files, is not an item and is skipped by List and Entries.
//
// Writes land in a temp file that is renamed over the item file, so a reader
// never observes a half-written item. There is no locking between processes:
// concurrent writes to the same item are last writer wins.
//
// A missing item is reported as absent, never as an error. An item file that
// exists but cannot be decrypted or decoded fails with ErrCorruptItem.
package store
