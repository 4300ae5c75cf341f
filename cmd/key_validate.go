package cmd

import (
	"context"
	"time"

	kerrors "github.com/PolarWolf314/keystash/internal/errors"
	"github.com/PolarWolf314/keystash/internal/ui"
	"github.com/PolarWolf314/keystash/internal/workflows"

	"github.com/spf13/cobra"
)

var keyValidateTimeout time.Duration

func init() {
	keyValidateCmd.Flags().DurationVar(&keyValidateTimeout, "timeout", 30*time.Second, "give up on the service after this long")
}

func resetKeyValidateState() {
	keyValidateTimeout = 30 * time.Second
}

var keyValidateCmd = &cobra.Command{
	Use:   "validate <service> [value]",
	Short: "Check an API key with its service",
	Long: `Sends a key to the service's validator and reports whether it was
accepted. Without a value the stored key is checked. Nothing is stored.

Built-in validators: openai, anthropic, google. More can be declared under
[validators.<service>] in the settings file.

Exits non-zero when the key is rejected.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := args[0]
		Logger.Infof("Starting key validate command for %s", service)

		var value string
		if len(args) == 2 {
			value = args[1]
		}

		spinner, cleanup := startSpinner(cmd, "Validating key...")
		defer cleanup()

		ctx, cancel := context.WithTimeout(context.Background(), keyValidateTimeout)
		defer cancel()

		result, err := workflows.ValidateKey(ctx, workflows.ValidateKeyOptions{
			Common:  common(),
			Service: service,
			Value:   value,
		})
		if err != nil {
			spinner.FinalMSG, err = failure(ui.Highlight.Sprint(service), err)
			return err
		}

		source := "given"
		if result.FromStore {
			source = "stored"
		}
		if !result.Valid {
			spinner.FinalMSG = ui.Fail() + " The " + source + " key for " + ui.Highlight.Sprint(service) + " was rejected"
			if result.Reason != "" {
				spinner.FinalMSG += "\n" + ui.Error.Sprint("Error: ") + result.Reason
			}
			return reportedError{kerrors.ErrValidationFailed}
		}
		spinner.FinalMSG = ui.Pass() + " The " + source + " key for " + ui.Highlight.Sprint(service) + " is valid"
		return nil
	},
}
