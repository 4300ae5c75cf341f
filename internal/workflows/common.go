package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/keystash/internal/codec"
	"github.com/PolarWolf314/keystash/internal/configs"
	kerrors "github.com/PolarWolf314/keystash/internal/errors"
	logger "github.com/PolarWolf314/keystash/internal/logging"
	"github.com/PolarWolf314/keystash/internal/store"
)

// Common holds the options every workflow takes.
type Common struct {
	// Root overrides the storage root. Empty means ResolveStorageRoot decides.
	Root string

	Logger logger.Logger
}

// Encryption selects encrypted or plain items.
type Encryption int

const (
	// EncryptionDefault writes with the encrypt_by_default setting and, on
	// reads, picks whichever variant exists.
	EncryptionDefault Encryption = iota
	EncryptionOn
	EncryptionOff
)

// ConfigRef addresses one stored config. A zero Format or EncryptionDefault
// is resolved against the files that exist for Name.
type ConfigRef struct {
	Name       string
	Format     codec.Format
	Encryption Encryption
}

func (c Common) openStore(ctx context.Context) (*store.Store, *configs.UserConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	root, err := configs.ResolveStorageRoot(c.Root)
	if err != nil {
		return nil, nil, err
	}
	userConfig, err := configs.LoadUserConfig()
	if err != nil {
		return nil, nil, err
	}

	c.Logger.Debugf("Using storage root %s", root)
	st, err := store.Open(root, store.WithLogger(c.Logger))
	if err != nil {
		return nil, nil, err
	}
	return st, userConfig, nil
}

func (e Encryption) resolveWrite(userConfig *configs.UserConfig) bool {
	switch e {
	case EncryptionOn:
		return true
	case EncryptionOff:
		return false
	}
	return userConfig.Encrypt()
}

// resolveConfig finds the single config file matching ref.
func resolveConfig(st *store.Store, ref ConfigRef) (store.Entry, error) {
	if err := store.ValidateName(ref.Name); err != nil {
		return store.Entry{}, err
	}
	if ref.Format != "" && !ref.Format.Valid() {
		return store.Entry{}, fmt.Errorf("%w: %q", kerrors.ErrUnsupportedFormat, ref.Format)
	}

	entries, err := st.Entries()
	if err != nil {
		return store.Entry{}, err
	}

	var matches []store.Entry
	for _, e := range entries {
		if e.Name != ref.Name || e.Kind != store.KindConfig {
			continue
		}
		if ref.Format != "" && e.Format != ref.Format {
			continue
		}
		if (ref.Encryption == EncryptionOn && !e.Encrypted) || (ref.Encryption == EncryptionOff && e.Encrypted) {
			continue
		}
		matches = append(matches, e)
	}

	switch len(matches) {
	case 0:
		return store.Entry{}, fmt.Errorf("%w: config %q", kerrors.ErrItemNotFound, ref.Name)
	case 1:
		return matches[0], nil
	}

	variants := ""
	for i, m := range matches {
		if i > 0 {
			variants += ", "
		}
		variants += DescribeEntry(m)
	}
	return store.Entry{}, fmt.Errorf("%w: config %q exists as %s", kerrors.ErrAmbiguousItem, ref.Name, variants)
}

// loadConfig resolves ref and decodes the config it names.
func loadConfig(st *store.Store, ref ConfigRef) (codec.Value, store.Entry, error) {
	entry, err := resolveConfig(st, ref)
	if err != nil {
		return nil, store.Entry{}, err
	}

	value, ok, err := st.GetConfig(entry.Name, store.ConfigOptions{Format: entry.Format, Encrypted: entry.Encrypted})
	if err != nil {
		return nil, store.Entry{}, err
	}
	if !ok {
		// Removed between listing and reading.
		return nil, store.Entry{}, fmt.Errorf("%w: config %q", kerrors.ErrItemNotFound, ref.Name)
	}
	return value, entry, nil
}

// DescribeEntry renders the kind, format and encryption of an entry, such
// as "yaml, encrypted".
func DescribeEntry(e store.Entry) string {
	kind := string(e.Kind)
	if e.Kind == store.KindConfig {
		kind = e.Format.String()
	}
	if e.Encrypted {
		return kind + ", encrypted"
	}
	return kind + ", plain"
}
