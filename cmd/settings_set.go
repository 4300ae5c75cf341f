package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PolarWolf314/keystash/internal/configs"
	"github.com/PolarWolf314/keystash/internal/ui"

	"github.com/spf13/cobra"
)

var settingsSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Change a setting",
	Long: `Changes one setting in the settings file. An empty value resets the
setting to its default.

Settings: storage_root, default_format, encrypt_by_default.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		Logger.Infof("Starting settings set command for %s", key)

		userConfig, err := configs.LoadUserConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load settings: %v", err)
		}

		if err := applySetting(userConfig, key, value); err != nil {
			return err
		}
		if err := configs.SaveUserConfig(userConfig); err != nil {
			return Logger.ErrorfAndReturn("Failed to save settings: %v", err)
		}

		Logger.Debugf("Saved settings to %s", configs.UserConfigPath())
		shown := value
		if shown == "" {
			shown = "the default"
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Line(ui.Pass(), "Set "+ui.Highlight.Sprint(key)+" to "+shown))
		return nil
	},
}

func applySetting(c *configs.UserConfig, key, value string) error {
	switch strings.ReplaceAll(key, "-", "_") {
	case "storage_root":
		c.StorageRoot = value
	case "default_format":
		c.DefaultFormat = strings.ToLower(value)
	case "encrypt_by_default":
		if value == "" {
			c.EncryptByDefault = nil
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("encrypt_by_default: %q is not true or false", value)
		}
		c.EncryptByDefault = &b
	default:
		return fmt.Errorf("unknown setting %q: use storage_root, default_format or encrypt_by_default", key)
	}
	return nil
}
