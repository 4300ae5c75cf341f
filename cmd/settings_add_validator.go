package cmd

import (
	"fmt"

	"github.com/PolarWolf314/keystash/internal/configs"
	"github.com/PolarWolf314/keystash/internal/store"
	"github.com/PolarWolf314/keystash/internal/ui"

	"github.com/spf13/cobra"
)

var (
	addValidatorURL    string
	addValidatorHeader string
	addValidatorPrefix string
	addValidatorExtra  map[string]string
)

func init() {
	settingsAddValidatorCmd.Flags().StringVar(&addValidatorURL, "url", "", "endpoint that answers 2xx for a valid key (required)")
	settingsAddValidatorCmd.Flags().StringVar(&addValidatorHeader, "header", "", "header carrying the key (default Authorization)")
	settingsAddValidatorCmd.Flags().StringVar(&addValidatorPrefix, "prefix", "", "text placed before the key, such as 'Bearer '")
	settingsAddValidatorCmd.Flags().StringToStringVar(&addValidatorExtra, "extra", nil, "additional headers as name=value")
	_ = settingsAddValidatorCmd.MarkFlagRequired("url")
}

func resetSettingsAddValidatorState() {
	addValidatorURL = ""
	addValidatorHeader = ""
	addValidatorPrefix = ""
	addValidatorExtra = map[string]string{}
}

var settingsAddValidatorCmd = &cobra.Command{
	Use:   "add-validator <service>",
	Short: "Declare an HTTP validator for a service",
	Long: `Declares an HTTP probe used by 'keystash key validate' and 'key set
--validate'. The key is sent in --header, after --prefix, with a GET to --url.
A 2xx answer accepts the key and any other answer rejects it.

Declaring a built-in service (openai, anthropic, google) replaces it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := args[0]
		Logger.Infof("Starting settings add-validator command for %s", service)

		if err := store.ValidateName(service); err != nil {
			return err
		}

		userConfig, err := configs.LoadUserConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load settings: %v", err)
		}
		if userConfig.Validators == nil {
			userConfig.Validators = map[string]configs.ValidatorConfig{}
		}
		userConfig.Validators[service] = configs.ValidatorConfig{
			URL:    addValidatorURL,
			Header: addValidatorHeader,
			Prefix: addValidatorPrefix,
			Extra:  addValidatorExtra,
		}
		if err := configs.SaveUserConfig(userConfig); err != nil {
			return Logger.ErrorfAndReturn("Failed to save settings: %v", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Pass()+" Added validator for "+ui.Highlight.Sprint(service)+" → "+addValidatorURL)
		return nil
	},
}
