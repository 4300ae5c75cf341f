package configs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// EnvHome overrides the storage root.
const EnvHome = "KEYSTASH_HOME"

// DefaultRootName is the storage root directory created under the home
// directory when nothing else is configured.
const DefaultRootName = ".keystash"

type UserSettings struct {
	UserConfigsPath    string
	DefaultStorageRoot string
	HomeDir            string
}

var UserKeystashSettings *UserSettings

func init() {
	settings, err := NewUserSettings()
	if err != nil {
		log.Fatalf("error initializing settings: %s", err)
	}
	UserKeystashSettings = settings
}

// NewUserSettings derives the settings paths from the user's home and
// config directories. XDG_CONFIG_HOME is honoured through os.UserConfigDir.
func NewUserSettings() (*UserSettings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error getting home directory: %w", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(homeDir, ".config")
	}

	return &UserSettings{
		UserConfigsPath:    filepath.Join(configDir, "keystash"),
		DefaultStorageRoot: filepath.Join(homeDir, DefaultRootName),
		HomeDir:            homeDir,
	}, nil
}

// UserConfigPath returns the path of the settings file.
func UserConfigPath() string {
	return filepath.Join(UserKeystashSettings.UserConfigsPath, "config.toml")
}

// ResolveStorageRoot returns the storage root to use, taking flag first,
// then KEYSTASH_HOME, then storage_root from the settings file, then the
// default under the home directory.
func ResolveStorageRoot(flag string) (string, error) {
	if flag != "" {
		return expandHome(flag), nil
	}
	if env := os.Getenv(EnvHome); env != "" {
		return expandHome(env), nil
	}

	config, err := LoadUserConfig()
	if err != nil {
		return "", err
	}
	if config.StorageRoot != "" {
		return expandHome(config.StorageRoot), nil
	}

	return UserKeystashSettings.DefaultStorageRoot, nil
}

func expandHome(path string) string {
	if path == "~" {
		return UserKeystashSettings.HomeDir
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		return filepath.Join(UserKeystashSettings.HomeDir, path[2:])
	}
	return path
}
