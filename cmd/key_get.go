package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/keystash/internal/ui"
	"github.com/PolarWolf314/keystash/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	keyGetPlain     bool
	keyGetEncrypted bool
	keyGetMasked    bool
)

func init() {
	keyGetCmd.Flags().BoolVar(&keyGetPlain, "plain", false, "read only the unencrypted key")
	keyGetCmd.Flags().BoolVar(&keyGetEncrypted, "encrypted", false, "read only the encrypted key")
	keyGetCmd.Flags().BoolVar(&keyGetMasked, "masked", false, "print the key with all but the last characters hidden")
	keyGetCmd.MarkFlagsMutuallyExclusive("plain", "encrypted")
}

func resetKeyGetState() {
	keyGetPlain = false
	keyGetEncrypted = false
	keyGetMasked = false
}

var keyGetCmd = &cobra.Command{
	Use:   "get <service>",
	Short: "Print the API key for a service",
	Long: `Prints the stored API key for a service on stdout, followed by a newline,
so it can be captured by a script.

Without --plain or --encrypted the encrypted key is read when it exists and
the plain one otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := args[0]
		Logger.Infof("Starting key get command for %s", service)

		result, err := workflows.GetKey(context.Background(), workflows.GetKeyOptions{
			Common:     common(),
			Service:    service,
			Encryption: encryptionFlags(keyGetPlain, keyGetEncrypted),
		})
		if err != nil {
			msg, err := failure("Key for "+ui.Highlight.Sprint(service), err)
			fmt.Fprintln(cmd.ErrOrStderr(), msg)
			return err
		}

		Logger.Debugf("Read %s key for %s", encryptionLabel(result.Encrypted), service)
		value := result.Value
		if keyGetMasked {
			value = ui.MaskSecret(value)
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}
