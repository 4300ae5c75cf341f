package cmd

import (
	"github.com/spf13/cobra"
)

// KeyCmd groups the API key commands.
var KeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Store, retrieve and validate API keys",
	Long: `Manages API keys stored per service.

Keys are encrypted with the storage root's key unless --plain is given or
encrypt_by_default is false in the settings file.

Examples:
  # Store a key, prompting for it without echo
  keystash key set openai

  # Store a key from a pipe and check it with the provider first
  echo "$OPENAI_API_KEY" | keystash key set openai --validate

  # Print a key for use in a script
  export OPENAI_API_KEY=$(keystash key get openai)

  # List keys whose names start with "openai"
  keystash key list --match 'openai*'`,
}

func init() {
	KeyCmd.AddCommand(keySetCmd)
	KeyCmd.AddCommand(keyGetCmd)
	KeyCmd.AddCommand(keyListCmd)
	KeyCmd.AddCommand(keyDeleteCmd)
	KeyCmd.AddCommand(keyValidateCmd)
}

// resetKeyState resets the key commands' global state for testing.
func resetKeyState() {
	resetKeySetState()
	resetKeyGetState()
	resetKeyListState()
	resetKeyValidateState()
}
