package cmd

import (
	"github.com/PolarWolf314/keystash/internal/store"

	"github.com/spf13/cobra"
)

var configDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete every stored variant of a configuration document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config delete command for %s", args[0])
		return runDelete(cmd, args[0], store.KindConfig, "config")
	},
}
