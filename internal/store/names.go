package store

import (
	"fmt"
	"strings"

	"github.com/PolarWolf314/keystash/internal/codec"
	kerrors "github.com/PolarWolf314/keystash/internal/errors"
)

// Kind distinguishes secrets from configs.
type Kind string

const (
	KindSecret Kind = "secret"
	KindConfig Kind = "config"
)

const (
	secretExt    = ".secret"
	encryptedExt = ".enc"
)

// Entry describes one item file in the root.
type Entry struct {
	Name      string
	Kind      Kind
	Format    codec.Format
	Encrypted bool
	Path      string
}

// ValidateName rejects names that cannot address exactly one file in the
// root. Names are otherwise used verbatim.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", kerrors.ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", kerrors.ErrInvalidName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: name contains a NUL byte", kerrors.ErrInvalidName)
	}
	return nil
}

func fileName(name string, kind Kind, format codec.Format, encrypted bool) string {
	ext := secretExt
	if kind == KindConfig {
		ext = "." + format.String()
	}
	if encrypted {
		ext += encryptedExt
	}
	return name + ext
}

// candidateFiles lists every file name an item called name could occupy.
func candidateFiles(name string) []string {
	files := []string{
		fileName(name, KindSecret, "", true),
		fileName(name, KindSecret, "", false),
	}
	for _, f := range codec.Formats() {
		files = append(files,
			fileName(name, KindConfig, f, true),
			fileName(name, KindConfig, f, false),
		)
	}
	return files
}

// parseFileName is the inverse of fileName. It reports false for files that
// are not items.
func parseFileName(file string) (Entry, bool) {
	entry := Entry{}
	base := file
	if strings.HasSuffix(base, encryptedExt) {
		entry.Encrypted = true
		base = strings.TrimSuffix(base, encryptedExt)
	}

	if strings.HasSuffix(base, secretExt) {
		entry.Kind = KindSecret
		entry.Name = strings.TrimSuffix(base, secretExt)
	} else {
		for _, f := range codec.Formats() {
			ext := "." + f.String()
			if strings.HasSuffix(base, ext) {
				entry.Kind = KindConfig
				entry.Format = f
				entry.Name = strings.TrimSuffix(base, ext)
				break
			}
		}
	}

	if entry.Kind == "" || ValidateName(entry.Name) != nil {
		return Entry{}, false
	}
	return entry, true
}
