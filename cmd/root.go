package cmd

import (
	"fmt"

	logger "github.com/PolarWolf314/keystash/internal/logging"
	"github.com/PolarWolf314/keystash/internal/ui"
	"github.com/PolarWolf314/keystash/internal/workflows"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	rootFlag string
	verbose  bool
	debug    bool
	Logger   logger.Logger

	// RootCmd is the keystash command. main executes it.
	RootCmd = &cobra.Command{
		Use:   "keystash",
		Short: "keystash - an encrypted local store for API keys and configuration",
		Long: `keystash keeps API keys and small configuration documents in a local
directory, encrypted with a single symmetric key that is generated on first use.

Features:
  - Store, retrieve and validate API keys per service
  - Store configuration as JSON, YAML or TOML and convert between them
  - Merge two configurations with overlay-wins semantics
  - Check the storage root and every item with 'keystash doctor'

The storage root is chosen by --root, then $KEYSTASH_HOME, then storage_root
in the settings file, then ~/.keystash.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
				Out:     cmd.OutOrStdout(),
				Err:     cmd.ErrOrStderr(),
			}
			Logger.Debugf("Initializing %s with root=%q, verbose=%t, debug=%t", cmd.CommandPath(), rootFlag, verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			figure.Write(out, figure.NewColorFigure("keystash", "small", "green", true))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Run "+ui.Code.Sprint("keystash --help")+" to see available commands.")
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "storage root directory (overrides $KEYSTASH_HOME and settings)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(KeyCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(SettingsCmd)
	RootCmd.AddCommand(doctorCmd)
}

// common returns the options shared by every workflow call.
func common() workflows.Common {
	return workflows.Common{Root: rootFlag, Logger: Logger}
}

// Helper functions for testing

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	rootFlag = ""
	verbose = false
	debug = false
	Logger = logger.Logger{}
	resetKeyState()
	resetConfigState()
	resetSettingsState()
	resetDoctorCommandState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears the Changed mark on every flag in the tree, so
// MarkFlagsMutuallyExclusive does not see flags from a previous run.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCobraFlagState(sub)
	}
}
