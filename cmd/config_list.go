package cmd

import (
	"github.com/PolarWolf314/keystash/internal/store"

	"github.com/spf13/cobra"
)

var (
	configListMatch string
	configListLong  bool
)

func init() {
	configListCmd.Flags().StringVarP(&configListMatch, "match", "m", "", "only list configs matching a glob")
	configListCmd.Flags().BoolVarP(&configListLong, "long", "l", false, "show format, encryption and file path")
}

func resetConfigListState() {
	configListMatch = ""
	configListLong = false
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored configuration documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config list command")
		return runList(cmd, store.KindConfig, configListMatch, configListLong, "configs")
	},
}
