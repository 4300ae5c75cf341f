package store

import (
	"errors"
	"testing"

	"github.com/PolarWolf314/keystash/internal/codec"
	kerrors "github.com/PolarWolf314/keystash/internal/errors"
)

func TestValidateName(t *testing.T) {
	valid := []string{"openai", "svc-a", "my key", ".hidden", "a.b.c", "ключ", "x.secret"}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("Expected %q to be valid, got: %v", name, err)
		}
	}

	invalid := []string{"", ".", "..", "a/b", `a\b`, "../escape", "nul\x00byte"}
	for _, name := range invalid {
		if err := ValidateName(name); !errors.Is(err, kerrors.ErrInvalidName) {
			t.Errorf("Expected ErrInvalidName for %q, got: %v", name, err)
		}
	}
}

func TestFileName_RoundTripsThroughParse(t *testing.T) {
	names := []string{"svc", "a.secret", "b.json", "c.enc", "d.yaml.enc", ".dot"}

	for _, name := range names {
		cases := []Entry{
			{Name: name, Kind: KindSecret, Encrypted: true},
			{Name: name, Kind: KindSecret},
		}
		for _, f := range codec.Formats() {
			cases = append(cases,
				Entry{Name: name, Kind: KindConfig, Format: f, Encrypted: true},
				Entry{Name: name, Kind: KindConfig, Format: f},
			)
		}

		for _, expected := range cases {
			file := fileName(expected.Name, expected.Kind, expected.Format, expected.Encrypted)
			got, ok := parseFileName(file)
			if !ok {
				t.Errorf("Expected %q to parse as an item", file)
				continue
			}
			if got != expected {
				t.Errorf("parseFileName(%q): expected %+v, got: %+v", file, expected, got)
			}
		}
	}
}

func TestParseFileName_SkipsForeignFiles(t *testing.T) {
	for _, file := range []string{"secretbox.key", ".0b9e.tmp", "notes.txt", ".secret", ".json.enc", "README", ".enc"} {
		if entry, ok := parseFileName(file); ok {
			t.Errorf("Expected %q to be skipped, got: %+v", file, entry)
		}
	}
}

func TestCandidateFiles_AreDistinct(t *testing.T) {
	files := candidateFiles("svc")
	seen := map[string]bool{}
	for _, f := range files {
		if seen[f] {
			t.Errorf("Duplicate candidate file %q", f)
		}
		seen[f] = true
	}
	if len(files) != 2+2*len(codec.Formats()) {
		t.Errorf("Expected %d candidates, got: %d", 2+2*len(codec.Formats()), len(files))
	}
}
