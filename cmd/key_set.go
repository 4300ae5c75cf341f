package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/keystash/internal/ui"
	"github.com/PolarWolf314/keystash/internal/utils"
	"github.com/PolarWolf314/keystash/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	keySetPlain     bool
	keySetEncrypted bool
	keySetValidate  bool
)

func init() {
	keySetCmd.Flags().BoolVar(&keySetPlain, "plain", false, "store the key unencrypted")
	keySetCmd.Flags().BoolVar(&keySetEncrypted, "encrypted", false, "store the key encrypted even if encrypt_by_default is false")
	keySetCmd.Flags().BoolVar(&keySetValidate, "validate", false, "check the key with the service before storing it")
	keySetCmd.MarkFlagsMutuallyExclusive("plain", "encrypted")
}

func resetKeySetState() {
	keySetPlain = false
	keySetEncrypted = false
	keySetValidate = false
}

var keySetCmd = &cobra.Command{
	Use:   "set <service> [value]",
	Short: "Store the API key for a service",
	Long: `Stores the API key for a service, replacing any existing key.

The key is taken from the second argument, from piped stdin, or from a
prompt that does not echo. Prefer the pipe or the prompt: arguments end up
in shell history.

With --validate the key is sent to the service's validator first and is
only stored if it is accepted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := args[0]
		Logger.Infof("Starting key set command for %s", service)

		value, err := readKeyValue(cmd, args)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read key: %v", err)
		}
		if value == "" {
			return Logger.ErrorfAndReturn("refusing to store an empty key for %s", service)
		}

		spinner, cleanup := startSpinner(cmd, "Storing key...")
		defer cleanup()

		result, err := workflows.SetKey(context.Background(), workflows.SetKeyOptions{
			Common:     common(),
			Service:    service,
			Value:      value,
			Encryption: encryptionFlags(keySetPlain, keySetEncrypted),
			Validate:   keySetValidate,
		})
		if err != nil {
			Logger.Errorf("Failed to store key for %s: %v", service, err)
			spinner.FinalMSG, err = failure(ui.Highlight.Sprint(service), err)
			return err
		}

		finalMessage := ui.Pass() + " Stored key for " + ui.Highlight.Sprint(service) +
			" (" + encryptionLabel(result.Encrypted) + ") at " + ui.Path.Sprint(result.Path)
		if result.Validated {
			finalMessage += "\n" + ui.Hint() + " The service accepted the key"
		}
		if !result.Encrypted {
			finalMessage += "\n" + ui.Warn() + " Anyone who can read " + ui.Path.Sprint(result.Path) + " can use this key"
		}
		spinner.FinalMSG = finalMessage
		return nil
	},
}

// readKeyValue takes the key from the arguments, a pipe, or a hidden prompt.
func readKeyValue(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 2 {
		Logger.Debugf("Key given as an argument")
		return args[1], nil
	}

	data, piped, err := utils.ReadPiped(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	if piped {
		Logger.Debugf("Read %d bytes of key from stdin", len(data))
		return utils.TrimLineEnding(string(data)), nil
	}

	return utils.ReadSecret(fmt.Sprintf("Enter key for %s: ", args[0]), cmd.ErrOrStderr())
}
