package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/PolarWolf314/keystash/internal/ui"
	"github.com/PolarWolf314/keystash/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	doctorJSONOutput bool
	// doctorExitFunc is the function called to exit with a specific code.
	// Can be overridden for testing.
	doctorExitFunc = os.Exit
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSONOutput, "json", false, "output in JSON format")
}

func resetDoctorCommandState() {
	doctorJSONOutput = false
	doctorExitFunc = os.Exit
}

// SetDoctorExitFunc sets the exit function for testing purposes.
func SetDoctorExitFunc(f func(int)) {
	doctorExitFunc = f
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on the storage root",
	Long: `Runs a series of health checks on the storage root and reports issues.
It never creates the storage root or the key file.

The doctor command checks:
  - User settings validity
  - Storage root existence and permissions
  - Key file presence, length, permissions and fingerprint
  - That every stored item decrypts and decodes
  - Keys stored in plain text

Exit codes:
  0 - All checks passed
  1 - Warnings found (non-critical issues)
  2 - Errors found (critical issues)

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting doctor command")
	out := cmd.OutOrStdout()

	spinner, cleanup := startSpinner(cmd, "Running health checks...")

	result, err := workflows.Doctor(context.Background(), workflows.DoctorOptions{Common: common()})
	if err != nil {
		spinner.FinalMSG = ui.Line(ui.Fail(), "Failed to run health checks: "+err.Error())
		cleanup()
		return reportedError{err}
	}

	for _, check := range result.Checks {
		Logger.Debugf("Check %s: status=%s, message=%s", check.Name, check.Status.String(), check.Message)
	}

	if doctorJSONOutput {
		cleanup()
		if err := outputDoctorJSON(out, result); err != nil {
			return err
		}
	} else {
		switch {
		case result.Summary.Errors > 0:
			spinner.FinalMSG = ui.Fail() + " Health checks completed with errors"
		case result.Summary.Warnings > 0:
			spinner.FinalMSG = ui.Warn() + " Health checks completed with warnings"
		default:
			spinner.FinalMSG = ui.Pass() + " Health checks completed"
		}
		finalMsg := spinner.FinalMSG
		spinner.FinalMSG = ""
		cleanup()
		printDoctorResults(out, result)
		fmt.Fprintln(out)
		fmt.Fprintln(out, finalMsg)
	}

	// Exit code reflects the worst result.
	if result.Summary.Errors > 0 {
		doctorExitFunc(2)
	} else if result.Summary.Warnings > 0 {
		doctorExitFunc(1)
	}
	return nil
}

// outputDoctorJSON outputs the result as JSON.
func outputDoctorJSON(out io.Writer, result *workflows.DoctorResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// printDoctorResults prints the doctor results in a human-readable format.
func printDoctorResults(out io.Writer, result *workflows.DoctorResult) {
	fmt.Fprintln(out, "Storage root: "+ui.Path.Sprint(result.Root))
	if result.Fingerprint != "" {
		fmt.Fprintln(out, "Key fingerprint: "+ui.Highlight.Sprint(result.Fingerprint))
	}
	fmt.Fprintln(out)

	for _, check := range result.Checks {
		var statusIcon string
		switch check.Status {
		case workflows.CheckPass:
			statusIcon = ui.Pass()
		case workflows.CheckWarning:
			statusIcon = ui.Warn()
		case workflows.CheckError:
			statusIcon = ui.Fail()
		}
		fmt.Fprintln(out, ui.Line(statusIcon, check.Message))
	}

	if len(result.Unreadable) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Unreadable items:")
		for _, item := range result.Unreadable {
			fmt.Fprintf(out, "  %s %s %s\n", ui.Fail(), ui.Path.Sprint(item.Entry.Path), ui.Muted.Sprint(item.Error))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Summary: %d passed", result.Summary.Passed)
	if result.Summary.Warnings > 0 {
		fmt.Fprintf(out, ", %s", ui.Warning.Sprint(fmt.Sprintf("%d warning(s)", result.Summary.Warnings)))
	}
	if result.Summary.Errors > 0 {
		fmt.Fprintf(out, ", %s", ui.Error.Sprint(fmt.Sprintf("%d error(s)", result.Summary.Errors)))
	}
	fmt.Fprintln(out)

	if len(result.Suggestions) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Suggestions:")
		for _, suggestion := range result.Suggestions {
			fmt.Fprintf(out, "  %s %s\n", ui.Hint(), suggestion)
		}
	}
}
