package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = "unknown"
)

// versionCmd prints the build stamp plus the warehouse and layer schemas
// the pipeline is currently pointed at.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display Starforge version information",
	Long:  `Display the current version of Starforge along with build information and the configured pipeline target.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Starforge version %s\n", Version)
		fmt.Fprintf(out, "Built at: %s\n", BuildTime)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Snowflake.Account != "" {
			fmt.Fprintf(out, "Warehouse: %s (account %s)\n", cfg.Snowflake.Warehouse, cfg.Snowflake.Account)
		}
		fmt.Fprintf(out, "Layers: %s -> %s -> %s\n", cfg.Layers.Raw, cfg.Layers.Conformed, cfg.Layers.Mart)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
