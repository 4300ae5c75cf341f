package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd groups the configuration document commands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Store, convert and merge configuration documents",
	Long: `Manages configuration documents stored as JSON, YAML or TOML.

A config is stored in one format and can be shown in any other. When a name
exists in more than one format or encryption, pick one with --format,
--plain or --encrypted.

Examples:
  # Store a YAML file as an encrypted config
  keystash config save llm --file llm.yaml

  # Build a config from assignments
  keystash config save llm --set model=gpt-4o --set limits.rpm=500

  # Show it as TOML
  keystash config show llm --output toml

  # Merge a local override into the shared config and store the result
  keystash config merge llm llm-local --save-as llm-effective`,
}

func init() {
	ConfigCmd.AddCommand(configSaveCmd)
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configListCmd)
	ConfigCmd.AddCommand(configDeleteCmd)
	ConfigCmd.AddCommand(configMergeCmd)
}

// resetConfigState resets the config commands' global state for testing.
func resetConfigState() {
	resetConfigSaveState()
	resetConfigShowState()
	resetConfigListState()
	resetConfigMergeState()
}
