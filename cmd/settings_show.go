package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PolarWolf314/keystash/internal/configs"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var settingsShowJSON bool

func init() {
	settingsShowCmd.Flags().BoolVar(&settingsShowJSON, "json", false, "output in JSON format")
}

func resetSettingsShowState() {
	settingsShowJSON = false
}

// effectiveSettings is the resolved view printed by settings show.
type effectiveSettings struct {
	SettingsFile     string   `json:"settings_file"`
	StorageRoot      string   `json:"storage_root"`
	DefaultFormat    string   `json:"default_format"`
	EncryptByDefault bool     `json:"encrypt_by_default"`
	Validators       []string `json:"validators"`
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective settings",
	Long: `Displays the settings in effect, after --root and $KEYSTASH_HOME are
applied and defaults are filled in.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting settings show command")

		Logger.Debugf("Loading user config from %s", configs.UserConfigPath())
		userConfig, err := configs.LoadUserConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load settings: %v", err)
		}
		root, err := configs.ResolveStorageRoot(rootFlag)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to resolve storage root: %v", err)
		}

		settings := effectiveSettings{
			SettingsFile:     configs.UserConfigPath(),
			StorageRoot:      root,
			DefaultFormat:    userConfig.Format().String(),
			EncryptByDefault: userConfig.Encrypt(),
			Validators:       userConfig.Registry().Services(),
		}

		if settingsShowJSON {
			output, err := json.MarshalIndent(settings, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal settings to JSON: %v", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return nil
		}

		outputSettingsText(cmd.OutOrStdout(), settings, userConfig)
		return nil
	},
}

func outputSettingsText(out io.Writer, settings effectiveSettings, userConfig *configs.UserConfig) {
	fmt.Fprintln(out, color.CyanString("Settings")+" ("+settings.SettingsFile+"):")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-20s %s\n", "Storage root:", color.GreenString(settings.StorageRoot))
	fmt.Fprintf(out, "  %-20s %s\n", "Default format:", color.GreenString(settings.DefaultFormat))
	fmt.Fprintf(out, "  %-20s %s\n", "Encrypt by default:", color.GreenString(fmt.Sprintf("%t", settings.EncryptByDefault)))

	fmt.Fprintln(out)
	fmt.Fprintln(out, color.CyanString("Validators:"))
	for _, name := range settings.Validators {
		if v, ok := userConfig.Validators[name]; ok {
			fmt.Fprintf(out, "  %s → %s\n", color.YellowString(name), v.URL)
			continue
		}
		fmt.Fprintf(out, "  %s %s\n", color.YellowString(name), color.HiBlackString("(built in)"))
	}
}

