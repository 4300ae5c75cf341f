package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/keystash/internal/codec"
	"github.com/PolarWolf314/keystash/internal/ui"
	"github.com/PolarWolf314/keystash/internal/utils"
	"github.com/PolarWolf314/keystash/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	configSaveFile       string
	configSaveFileFormat string
	configSaveSets       []string
	configSaveFormat     string
	configSavePlain      bool
	configSaveEncrypted  bool
)

func init() {
	configSaveCmd.Flags().StringVarP(&configSaveFile, "file", "f", "", "read the starting document from a file, or '-' for stdin")
	configSaveCmd.Flags().StringVar(&configSaveFileFormat, "file-format", "", "format of --file (default: from its extension, else json)")
	configSaveCmd.Flags().StringArrayVar(&configSaveSets, "set", nil, "assign a value as dotted.key=value (repeatable)")
	configSaveCmd.Flags().StringVar(&configSaveFormat, "format", "", "stored format: json, yaml or toml (default: default_format setting)")
	configSaveCmd.Flags().BoolVar(&configSavePlain, "plain", false, "store the config unencrypted")
	configSaveCmd.Flags().BoolVar(&configSaveEncrypted, "encrypted", false, "store the config encrypted even if encrypt_by_default is false")
	configSaveCmd.MarkFlagsMutuallyExclusive("plain", "encrypted")
}

func resetConfigSaveState() {
	configSaveFile = ""
	configSaveFileFormat = ""
	configSaveSets = nil
	configSaveFormat = ""
	configSavePlain = false
	configSaveEncrypted = false
}

var configSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Store a configuration document",
	Long: `Stores a configuration document under a name, replacing any config of
the same name, format and encryption.

The document starts from --file, or from an empty mapping, and each --set
then assigns one dotted key. Values are read as YAML scalars, so
--set retries=3 stores a number and --set debug=true a boolean.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		Logger.Infof("Starting config save command for %s", name)
		Logger.Debugf("Flags: file=%q, file-format=%q, sets=%d, format=%q", configSaveFile, configSaveFileFormat, len(configSaveSets), configSaveFormat)

		format, err := formatFlag("format", configSaveFormat)
		if err != nil {
			return err
		}
		source, sourceFormat, err := readSourceDocument(cmd, configSaveFile, configSaveFileFormat)
		if err != nil {
			return err
		}
		if len(source) == 0 && len(configSaveSets) == 0 {
			return Logger.ErrorfAndReturn("nothing to store: give --file or at least one --set")
		}

		spinner, cleanup := startSpinner(cmd, "Storing config...")
		defer cleanup()

		result, err := workflows.SaveConfig(context.Background(), workflows.SaveConfigOptions{
			Common:       common(),
			Name:         name,
			Source:       source,
			SourceFormat: sourceFormat,
			Sets:         configSaveSets,
			Format:       format,
			Encryption:   encryptionFlags(configSavePlain, configSaveEncrypted),
		})
		if err != nil {
			Logger.Errorf("Failed to store config %s: %v", name, err)
			spinner.FinalMSG, err = failure(ui.Highlight.Sprint(name), err)
			return err
		}

		spinner.FinalMSG = ui.Pass() + " Stored config " + ui.Highlight.Sprint(name) +
			" as " + result.Format.String() + " (" + encryptionLabel(result.Encrypted) + ") at " + ui.Path.Sprint(result.Path)
		return nil
	},
}

// readSourceDocument reads --file. The format comes from the flag, then the
// file extension, then the default.
func readSourceDocument(cmd *cobra.Command, path, formatName string) ([]byte, codec.Format, error) {
	if path == "" {
		return nil, "", nil
	}

	format, err := formatFlag("file-format", formatName)
	if err != nil {
		return nil, "", err
	}
	if format == "" && path != "-" {
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if ext == "yml" {
			ext = "yaml"
		}
		if f, err := codec.ParseFormat(ext); err == nil {
			format = f
		}
	}

	var data []byte
	if path == "-" {
		var piped bool
		data, piped, err = utils.ReadPiped(cmd.InOrStdin())
		if err == nil && !piped {
			err = fmt.Errorf("--file -: nothing was piped to stdin")
		}
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, "", Logger.ErrorfAndReturn("Failed to read %s: %v", path, err)
	}

	Logger.Debugf("Read %d bytes of %s from %s", len(data), format.OrDefault(), path)
	return data, format.OrDefault(), nil
}
