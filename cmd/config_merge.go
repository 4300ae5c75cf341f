package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/keystash/internal/ui"
	"github.com/PolarWolf314/keystash/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	configMergeBaseFormat       string
	configMergeBasePlain        bool
	configMergeBaseEncrypted    bool
	configMergeOverlayFormat    string
	configMergeOverlayPlain     bool
	configMergeOverlayEncrypted bool
	configMergeSaveAs           string
	configMergeSaveFormat       string
	configMergeSavePlain        bool
	configMergeOutput           string
)

func init() {
	addConfigRefFlags(configMergeCmd, &configMergeBaseFormat, &configMergeBasePlain, &configMergeBaseEncrypted, "base-")
	addConfigRefFlags(configMergeCmd, &configMergeOverlayFormat, &configMergeOverlayPlain, &configMergeOverlayEncrypted, "overlay-")
	configMergeCmd.Flags().StringVar(&configMergeSaveAs, "save-as", "", "store the merged config under this name instead of printing it")
	configMergeCmd.Flags().StringVar(&configMergeSaveFormat, "save-format", "", "format for --save-as (default: the base format)")
	configMergeCmd.Flags().BoolVar(&configMergeSavePlain, "save-plain", false, "store the --save-as config unencrypted")
	configMergeCmd.Flags().StringVarP(&configMergeOutput, "output", "o", "", "render as json, yaml or toml (default: the base format)")
}

func resetConfigMergeState() {
	configMergeBaseFormat = ""
	configMergeBasePlain = false
	configMergeBaseEncrypted = false
	configMergeOverlayFormat = ""
	configMergeOverlayPlain = false
	configMergeOverlayEncrypted = false
	configMergeSaveAs = ""
	configMergeSaveFormat = ""
	configMergeSavePlain = false
	configMergeOutput = ""
}

var configMergeCmd = &cobra.Command{
	Use:   "merge <base> <overlay>",
	Short: "Merge one configuration document into another",
	Long: `Merges the overlay config into the base config and prints the result.

Mappings present in both are merged key by key. Any other value in the
overlay, lists included, replaces the base value. Neither input is changed.

With --save-as the result is stored under a new name instead of printed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config merge command for %s <- %s", args[0], args[1])

		base, err := configRef(args[0], "base-format", configMergeBaseFormat, configMergeBasePlain, configMergeBaseEncrypted)
		if err != nil {
			return err
		}
		overlay, err := configRef(args[1], "overlay-format", configMergeOverlayFormat, configMergeOverlayPlain, configMergeOverlayEncrypted)
		if err != nil {
			return err
		}
		saveFormat, err := formatFlag("save-format", configMergeSaveFormat)
		if err != nil {
			return err
		}
		output, err := formatFlag("output", configMergeOutput)
		if err != nil {
			return err
		}

		opts := workflows.MergeConfigsOptions{
			Common:     common(),
			Base:       base,
			Overlay:    overlay,
			SaveAs:     configMergeSaveAs,
			SaveFormat: saveFormat,
			Output:     output,
		}
		if configMergeSavePlain {
			opts.SaveEncryption = workflows.EncryptionOff
		}

		if configMergeSaveAs == "" {
			result, err := workflows.MergeConfigs(context.Background(), opts)
			if err != nil {
				msg, err := failure("Merge of "+ui.Highlight.Sprint(args[1])+" into "+ui.Highlight.Sprint(args[0]), err)
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
				return err
			}
			writeRendered(cmd.OutOrStdout(), result.Rendered)
			return nil
		}

		spinner, cleanup := startSpinner(cmd, "Merging configs...")
		defer cleanup()

		result, err := workflows.MergeConfigs(context.Background(), opts)
		if err != nil {
			spinner.FinalMSG, err = failure("Merge of "+ui.Highlight.Sprint(args[1])+" into "+ui.Highlight.Sprint(args[0]), err)
			return err
		}
		spinner.FinalMSG = ui.Pass() + " Stored merged config " + ui.Highlight.Sprint(configMergeSaveAs) +
			" at " + ui.Path.Sprint(result.SavedPath)
		return nil
	},
}
