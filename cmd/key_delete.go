package cmd

import (
	"context"

	"github.com/PolarWolf314/keystash/internal/store"
	"github.com/PolarWolf314/keystash/internal/ui"
	"github.com/PolarWolf314/keystash/internal/utils"
	"github.com/PolarWolf314/keystash/internal/workflows"

	"github.com/spf13/cobra"
)

var keyDeleteCmd = &cobra.Command{
	Use:   "delete <service>",
	Short: "Delete the API key for a service",
	Long: `Deletes the encrypted and plain keys stored for a service. Deleting a
service with no key succeeds.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting key delete command for %s", args[0])
		return runDelete(cmd, args[0], store.KindSecret, "key")
	},
}

// runDelete removes one kind of item and reports the removed files.
func runDelete(cmd *cobra.Command, name string, kind store.Kind, noun string) error {
	spinner, cleanup := startSpinner(cmd, "Deleting "+noun+"...")
	defer cleanup()

	result, err := workflows.DeleteItem(context.Background(), workflows.DeleteOptions{
		Common: common(),
		Name:   name,
		Kind:   kind,
	})
	if err != nil {
		spinner.FinalMSG, err = failure(ui.Highlight.Sprint(name), err)
		return err
	}

	if len(result.Removed) == 0 {
		spinner.FinalMSG = ui.Warn() + " No " + noun + " named " + ui.Highlight.Sprint(name) + " was stored"
		return nil
	}
	spinner.FinalMSG = ui.Pass() + " Deleted " + noun + " " + ui.Highlight.Sprint(name) +
		"\nThe following files were removed: " + utils.FormatPaths(result.Removed)
	return nil
}
