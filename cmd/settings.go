package cmd

import (
	"github.com/spf13/cobra"
)

// SettingsCmd groups the commands for the user settings file.
var SettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change keystash settings",
	Long: `Manages the settings file, config.toml in the keystash directory under
your user config directory.

Settings:
  storage_root        directory holding the key and items (default ~/.keystash)
  default_format      format for new configs: json, yaml or toml
  encrypt_by_default  whether new items are encrypted without --plain
  [validators.<name>] HTTP probes for 'keystash key validate'

Examples:
  keystash settings show
  keystash settings set default_format yaml
  keystash settings add-validator internal --url https://api.example.com/v1/ping --header X-Api-Key`,
}

func init() {
	SettingsCmd.AddCommand(settingsShowCmd)
	SettingsCmd.AddCommand(settingsSetCmd)
	SettingsCmd.AddCommand(settingsAddValidatorCmd)
}

func resetSettingsState() {
	resetSettingsShowState()
	resetSettingsAddValidatorState()
}
