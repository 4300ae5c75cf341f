// Package configs manages keystash user settings and the storage root.
//
// Settings live in a TOML file at <UserConfigDir>/keystash/config.toml:
//
//	storage_root = "/home/me/.keystash"
//	default_format = "yaml"
//	encrypt_by_default = true
//
//	[validators.internal-api]
//	url = "https://api.example.com/v1/ping"
//	header = "X-Api-Key"
//	prefix = ""
//
// Every field is optional. A missing file means all defaults.
//
// # Storage Root
//
// ResolveStorageRoot picks the first of:
//   - the --root flag
//   - the KEYSTASH_HOME environment variable
//   - storage_root from the settings file
//   - ~/.keystash
//
// # Settings
//
// UserKeystashSettings holds the resolved paths and is initialized at
// startup. Tests may point UserConfigsPath at a temp directory.
package configs
