package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/PolarWolf314/keystash/internal/codec"
	kerrors "github.com/PolarWolf314/keystash/internal/errors"
	logger "github.com/PolarWolf314/keystash/internal/logging"
	"github.com/PolarWolf314/keystash/internal/secrets"

	"github.com/google/uuid"
)

// ConfigOptions selects the file a config is stored in. A zero Format means
// codec.DefaultFormat.
type ConfigOptions struct {
	Format    codec.Format
	Encrypted bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// Store reads and writes items in one storage root. It is safe for use by
// multiple goroutines, but concurrent writes to the same item are last
// writer wins, within a process and across processes.
type Store struct {
	root  string
	vault *secrets.KeyVault
	log   logger.Logger
}

// Open opens the key vault of root, creating the root and its key on first
// use, and returns a Store for it.
func Open(root string, opts ...Option) (*Store, error) {
	s := &Store{root: root}
	for _, opt := range opts {
		opt(s)
	}

	vault, err := secrets.OpenKeyVault(root)
	if err != nil {
		return nil, err
	}
	s.vault = vault

	if vault.Created() {
		s.log.Infof("Created new key at %s", vault.KeyPath())
	} else {
		s.log.Debugf("Loaded key %s from %s", vault.Fingerprint(), vault.KeyPath())
	}
	return s, nil
}

// Root returns the storage root directory.
func (s *Store) Root() string {
	return s.root
}

// Vault returns the key vault backing the store.
func (s *Store) Vault() *secrets.KeyVault {
	return s.vault
}

// PutSecret stores secret under name, replacing any previous secret with the
// same encryption flag. A secret that is not valid UTF-8 fails with
// ErrUnencodableValue and nothing is written.
func (s *Store) PutSecret(name, secret string, encrypted bool) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if !utf8.ValidString(secret) {
		return fmt.Errorf("%w: secret %s is not valid UTF-8", kerrors.ErrUnencodableValue, name)
	}

	data := []byte(secret)
	if encrypted {
		sealed, err := s.vault.Encrypt(data)
		if err != nil {
			return fmt.Errorf("failed to encrypt secret %s: %w", name, err)
		}
		data = sealed
	}

	return s.writeItem(fileName(name, KindSecret, "", encrypted), data)
}

// GetSecret returns the secret stored under name. ok is false when no such
// secret exists.
func (s *Store) GetSecret(name string, decrypt bool) (secret string, ok bool, err error) {
	if err := ValidateName(name); err != nil {
		return "", false, err
	}

	path := s.path(fileName(name, KindSecret, "", decrypt))
	data, ok, err := s.readItem(path)
	if err != nil || !ok {
		return "", false, err
	}

	if decrypt {
		data, err = s.vault.Decrypt(data)
		if err != nil {
			return "", false, fmt.Errorf("%w: %s: %w", kerrors.ErrCorruptItem, path, err)
		}
	}
	if !utf8.Valid(data) {
		return "", false, fmt.Errorf("%w: %s is not valid UTF-8", kerrors.ErrCorruptItem, path)
	}

	return string(data), true, nil
}

// PutConfig encodes value in opts.Format and stores it under name. Values the
// format cannot represent fail with ErrUnencodableValue before anything is
// written.
func (s *Store) PutConfig(name string, value codec.Value, opts ConfigOptions) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	format := opts.Format.OrDefault()
	if !format.Valid() {
		return fmt.Errorf("%w: %q", kerrors.ErrUnsupportedFormat, format)
	}

	data, err := codec.Encode(value, format)
	if err != nil {
		return fmt.Errorf("config %s: %w", name, err)
	}
	if opts.Encrypted {
		data, err = s.vault.Encrypt(data)
		if err != nil {
			return fmt.Errorf("failed to encrypt config %s: %w", name, err)
		}
	}

	return s.writeItem(fileName(name, KindConfig, format, opts.Encrypted), data)
}

// GetConfig returns the config stored under name in opts.Format. ok is false
// when no such config exists.
func (s *Store) GetConfig(name string, opts ConfigOptions) (value codec.Value, ok bool, err error) {
	if err := ValidateName(name); err != nil {
		return nil, false, err
	}
	format := opts.Format.OrDefault()
	if !format.Valid() {
		return nil, false, fmt.Errorf("%w: %q", kerrors.ErrUnsupportedFormat, format)
	}

	path := s.path(fileName(name, KindConfig, format, opts.Encrypted))
	data, ok, err := s.readItem(path)
	if err != nil || !ok {
		return nil, false, err
	}

	if opts.Encrypted {
		data, err = s.vault.Decrypt(data)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %s: %w", kerrors.ErrCorruptItem, path, err)
		}
	}

	value, err = codec.Decode(data, format)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", kerrors.ErrCorruptItem, path, err)
	}
	return value, true, nil
}

// Entries describes every item file in the root, sorted by name and then by
// file name.
func (s *Store) Entries() ([]Entry, error) {
	return Scan(s.root)
}

// Scan lists the item files in root without opening its key, so it never
// creates a key. Entries are sorted by name and then by file name.
func Scan(root string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read storage root %s: %v", kerrors.ErrStorageIO, root, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		entry, ok := parseFileName(de.Name())
		if !ok {
			continue
		}
		entry.Path = filepath.Join(root, de.Name())
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

// Verify reads the item behind e and reports why it cannot be returned, if
// it cannot. It returns nil for a readable item.
func (s *Store) Verify(e Entry) error {
	var (
		ok  bool
		err error
	)
	switch e.Kind {
	case KindSecret:
		_, ok, err = s.GetSecret(e.Name, e.Encrypted)
	default:
		_, ok, err = s.GetConfig(e.Name, ConfigOptions{Format: e.Format, Encrypted: e.Encrypted})
	}
	if err == nil && !ok {
		err = fmt.Errorf("%w: %s", kerrors.ErrItemNotFound, e.Path)
	}
	return err
}

// List returns the names of all stored items, each once, in sorted order.
func (s *Store) List() ([]string, error) {
	entries, err := s.Entries()
	if err != nil {
		return nil, err
	}

	names := []string{}
	for i, e := range entries {
		if i > 0 && entries[i-1].Name == e.Name {
			continue
		}
		names = append(names, e.Name)
	}
	return names, nil
}

// Has reports whether any item file exists for name.
func (s *Store) Has(name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}

	for _, file := range candidateFiles(name) {
		_, err := os.Lstat(s.path(file))
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("%w: failed to stat %s: %v", kerrors.ErrStorageIO, file, err)
		}
	}
	return false, nil
}

// Delete removes every item file for name across kinds, formats and
// encryption flags. Deleting a missing name is a no-op.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	return s.remove(candidateFiles(name))
}

// DeleteKind removes the files of one kind stored under name, leaving items
// of the other kind in place.
func (s *Store) DeleteKind(name string, kind Kind) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	var files []string
	for _, file := range candidateFiles(name) {
		if entry, ok := parseFileName(file); ok && entry.Kind == kind {
			files = append(files, file)
		}
	}
	return s.remove(files)
}

func (s *Store) remove(files []string) error {
	for _, file := range files {
		path := s.path(file)
		err := os.Remove(path)
		switch {
		case err == nil:
			s.log.Debugf("Removed %s", path)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("%w: failed to remove %s: %v", kerrors.ErrStorageIO, path, err)
		}
	}
	return nil
}

// SecretPath returns the file a secret called name is stored in.
func (s *Store) SecretPath(name string, encrypted bool) string {
	return s.path(fileName(name, KindSecret, "", encrypted))
}

// ConfigPath returns the file a config called name is stored in.
func (s *Store) ConfigPath(name string, opts ConfigOptions) string {
	return s.path(fileName(name, KindConfig, opts.Format.OrDefault(), opts.Encrypted))
}

func (s *Store) path(file string) string {
	return filepath.Join(s.root, file)
}

func (s *Store) readItem(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to read %s: %v", kerrors.ErrStorageIO, path, err)
	}
	return data, true, nil
}

// writeItem writes data to a temp file in the root and renames it over file.
func (s *Store) writeItem(file string, data []byte) error {
	path := s.path(file)
	tmpPath := s.path("." + uuid.NewString() + ".tmp")

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file in %s: %v", kerrors.ErrStorageIO, s.root, err)
	}

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to write %s: %v", kerrors.ErrStorageIO, path, err)
	}

	s.log.Debugf("Wrote %s (%d bytes)", path, len(data))
	return nil
}
