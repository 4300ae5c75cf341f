package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/keystash/internal/ui"
	"github.com/PolarWolf314/keystash/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	configShowFormat    string
	configShowPlain     bool
	configShowEncrypted bool
	configShowOutput    string
)

func init() {
	addConfigRefFlags(configShowCmd, &configShowFormat, &configShowPlain, &configShowEncrypted, "")
	configShowCmd.Flags().StringVarP(&configShowOutput, "output", "o", "", "render as json, yaml or toml (default: the stored format)")
}

func resetConfigShowState() {
	configShowFormat = ""
	configShowPlain = false
	configShowEncrypted = false
	configShowOutput = ""
}

// addConfigRefFlags adds the flags that pick one stored variant of a config.
func addConfigRefFlags(cmd *cobra.Command, format *string, plain, encrypted *bool, prefix string) {
	cmd.Flags().StringVar(format, prefix+"format", "", "read the variant stored in this format")
	cmd.Flags().BoolVar(plain, prefix+"plain", false, "read the unencrypted variant")
	cmd.Flags().BoolVar(encrypted, prefix+"encrypted", false, "read the encrypted variant")
	cmd.MarkFlagsMutuallyExclusive(prefix+"plain", prefix+"encrypted")
}

// configRef builds a workflow reference from the variant flags.
func configRef(name, flagName, format string, plain, encrypted bool) (workflows.ConfigRef, error) {
	f, err := formatFlag(flagName, format)
	if err != nil {
		return workflows.ConfigRef{}, err
	}
	return workflows.ConfigRef{Name: name, Format: f, Encryption: encryptionFlags(plain, encrypted)}, nil
}

var configShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a configuration document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		Logger.Infof("Starting config show command for %s", name)

		ref, err := configRef(name, "format", configShowFormat, configShowPlain, configShowEncrypted)
		if err != nil {
			return err
		}
		output, err := formatFlag("output", configShowOutput)
		if err != nil {
			return err
		}

		result, err := workflows.ShowConfig(context.Background(), workflows.ShowConfigOptions{
			Common:    common(),
			ConfigRef: ref,
			Output:    output,
		})
		if err != nil {
			msg, err := failure("Config "+ui.Highlight.Sprint(name), err)
			fmt.Fprintln(cmd.ErrOrStderr(), msg)
			return err
		}

		Logger.Debugf("Rendering %s config %s as %s", workflows.DescribeEntry(result.Entry), name, result.Output)
		writeRendered(cmd.OutOrStdout(), result.Rendered)
		return nil
	},
}
