package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"starforge/internal/config"
	"starforge/internal/ui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initial configuration setup",
	Run:   runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) {
	if config.Exists() {
		var overwrite bool
		prompt := &survey.Confirm{
			Message: "Configuration already exists. Do you want to overwrite it?",
			Default: false,
		}
		survey.AskOne(prompt, &overwrite)
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return
		}
	}

	wizard := ui.NewConfigWizard()
	cfg, err := wizard.Run()
	if err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}

	// Keep the password out of the config file when the keyring takes it.
	password := cfg.Snowflake.Password
	if err := config.StorePassword(cfg.Snowflake.Account, cfg.Snowflake.Username, password); err != nil {
		ui.ShowWarning(fmt.Sprintf("Keyring unavailable, storing password in config file: %v", err))
	} else {
		cfg.Snowflake.Password = ""
	}

	if err := config.Save(cfg); err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}

	ui.ShowSuccess(fmt.Sprintf("Configuration saved to %s", config.GetConfigFile()))
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Bulk-load the raw extracts into the raw schema")
	fmt.Println("  2. Run 'starforge run' to build the conformed and mart layers")
	fmt.Println("  3. Run 'starforge validate' to inspect data quality at any time")
}
