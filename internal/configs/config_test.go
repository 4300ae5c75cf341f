package configs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/PolarWolf314/keystash/internal/codec"
)

func TestLoadUserConfig_MissingFileGivesDefaults(t *testing.T) {
	useTempSettings(t)

	config, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}
	if config.StorageRoot != "" {
		t.Errorf("Expected empty storage root, got: %q", config.StorageRoot)
	}
	if config.Format() != codec.JSON {
		t.Errorf("Expected default format json, got: %s", config.Format())
	}
	if !config.Encrypt() {
		t.Errorf("Expected encryption on by default")
	}
}

func TestSaveAndLoadUserConfig(t *testing.T) {
	useTempSettings(t)
	encrypt := false

	config := &UserConfig{
		StorageRoot:      "/srv/keystash",
		DefaultFormat:    "yaml",
		EncryptByDefault: &encrypt,
		Validators: map[string]ValidatorConfig{
			"internal-api": {URL: "https://api.example.com/v1/ping", Header: "X-Api-Key"},
		},
	}

	if err := SaveUserConfig(config); err != nil {
		t.Fatalf("SaveUserConfig failed: %v", err)
	}

	loaded, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, config) {
		t.Errorf("Expected %+v, got: %+v", config, loaded)
	}
	if loaded.Format() != codec.YAML {
		t.Errorf("Expected yaml, got: %s", loaded.Format())
	}
	if loaded.Encrypt() {
		t.Errorf("Expected encrypt_by_default=false to be honoured")
	}

	info, err := os.Stat(UserConfigPath())
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got: %o", info.Mode().Perm())
	}
}

func TestLoadUserConfig_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"unknown format": `default_format = "xml"`,
		"relative url":   "[validators.x]\nurl = \"/ping\"",
		"unknown key":    `storage_rot = "/typo"`,
		"malformed":      `storage_root = `,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			useTempSettings(t)
			if err := os.WriteFile(UserConfigPath(), []byte(content), 0600); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}
			if _, err := LoadUserConfig(); err == nil {
				t.Errorf("Expected an error for %q", content)
			}
		})
	}
}

func TestSaveUserConfig_RejectsInvalid(t *testing.T) {
	useTempSettings(t)
	if err := SaveUserConfig(&UserConfig{DefaultFormat: "ini"}); err == nil {
		t.Errorf("Expected invalid config to be rejected")
	}
	if _, err := os.Stat(UserConfigPath()); !os.IsNotExist(err) {
		t.Errorf("Expected nothing written, got: %v", err)
	}
}

func TestResolveStorageRoot_Precedence(t *testing.T) {
	settings := useTempSettings(t)
	t.Setenv(EnvHome, "")

	root, err := ResolveStorageRoot("")
	if err != nil {
		t.Fatalf("ResolveStorageRoot failed: %v", err)
	}
	if root != settings.DefaultStorageRoot {
		t.Errorf("Expected default %s, got: %s", settings.DefaultStorageRoot, root)
	}

	if err := SaveUserConfig(&UserConfig{StorageRoot: "~/from-config"}); err != nil {
		t.Fatalf("SaveUserConfig failed: %v", err)
	}
	root, _ = ResolveStorageRoot("")
	if expected := filepath.Join(settings.HomeDir, "from-config"); root != expected {
		t.Errorf("Expected config root %s, got: %s", expected, root)
	}

	t.Setenv(EnvHome, "/from/env")
	root, _ = ResolveStorageRoot("")
	if root != "/from/env" {
		t.Errorf("Expected env root, got: %s", root)
	}

	root, _ = ResolveStorageRoot("/from/flag")
	if root != "/from/flag" {
		t.Errorf("Expected flag root, got: %s", root)
	}
}

func TestResolveStorageRoot_BadConfigIsReported(t *testing.T) {
	useTempSettings(t)
	t.Setenv(EnvHome, "")
	if err := os.WriteFile(UserConfigPath(), []byte("default_format = 1"), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := ResolveStorageRoot(""); err == nil {
		t.Errorf("Expected error from malformed settings")
	}
}

func TestUserConfig_Registry(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Api-Key")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	config := &UserConfig{Validators: map[string]ValidatorConfig{
		"internal": {URL: server.URL, Header: "X-Api-Key", Prefix: "Key "},
	}}

	registry := config.Registry()
	services := strings.Join(registry.Services(), ",")
	if services != "anthropic,google,internal,openai" {
		t.Errorf("Expected built-in and configured services, got: %s", services)
	}

	ok, err := registry.Check(context.Background(), "internal", "abc")
	if err != nil || !ok {
		t.Fatalf("Expected configured probe to accept, got ok=%v err=%v", ok, err)
	}
	if gotHeader != "Key abc" {
		t.Errorf("Expected header %q, got: %q", "Key abc", gotHeader)
	}
	if names := config.ValidatorNames(); !reflect.DeepEqual(names, []string{"internal"}) {
		t.Errorf("Expected [internal], got: %v", names)
	}
}
