package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolarWolf314/keystash/internal/store"
	"github.com/PolarWolf314/keystash/internal/ui"
	"github.com/PolarWolf314/keystash/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	keyListMatch string
	keyListLong  bool
)

func init() {
	keyListCmd.Flags().StringVarP(&keyListMatch, "match", "m", "", "only list services matching a glob, such as 'openai*'")
	keyListCmd.Flags().BoolVarP(&keyListLong, "long", "l", false, "show encryption and file path")
}

func resetKeyListState() {
	keyListMatch = ""
	keyListLong = false
}

var keyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List services with a stored key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting key list command")
		return runList(cmd, store.KindSecret, keyListMatch, keyListLong, "keys")
	},
}

// runList prints the names of one kind of item, one per line. With long it
// prints every file backing each name.
func runList(cmd *cobra.Command, kind store.Kind, match string, long bool, noun string) error {
	out := cmd.OutOrStdout()

	result, err := workflows.ListItems(context.Background(), workflows.ListOptions{
		Common: common(),
		Match:  match,
		Kind:   kind,
	})
	if err != nil {
		msg, err := failure(noun, err)
		fmt.Fprintln(cmd.ErrOrStderr(), msg)
		return err
	}

	if len(result.Names) == 0 {
		Logger.Infof("No %s in %s", noun, result.Root)
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Line(ui.Warn(), "No "+noun+" found in "+ui.Path.Sprint(result.Root)))
		return nil
	}

	if !long {
		fmt.Fprintln(out, strings.Join(result.Names, "\n"))
		return nil
	}

	width := 0
	for _, name := range result.Names {
		width = max(width, len(name))
	}
	for _, e := range result.Entries {
		fmt.Fprintf(out, "%-*s  %-16s  %s\n", width, e.Name, workflows.DescribeEntry(e), e.Path)
	}
	return nil
}
