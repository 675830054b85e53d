package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"starforge/internal/config"
	"starforge/pkg/models"
)

var rootCmd = &cobra.Command{
	Use:   "starforge",
	Short: "Conform warehouse data into a star schema",
	Long:  "Starforge - A batch pipeline that cleanses raw CRM and ERP extracts, builds a conformed layer and projects it into a surrogate-keyed star schema",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home + "/.starforge")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is okay for now
	}
}

// loadConfig reads ~/.starforge/config.yaml and overlays whatever viper
// discovered, so a config.yaml in the working directory can override the
// home config for ad-hoc runs.
func loadConfig() (*models.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	overlayViper(cfg)
	return cfg, nil
}

func overlayViper(cfg *models.Config) {
	overlayString(&cfg.Snowflake.Account, "snowflake.account")
	overlayString(&cfg.Snowflake.Username, "snowflake.username")
	overlayString(&cfg.Snowflake.Password, "snowflake.password")
	overlayString(&cfg.Snowflake.Role, "snowflake.role")
	overlayString(&cfg.Snowflake.Warehouse, "snowflake.warehouse")
	overlayString(&cfg.Snowflake.Database, "snowflake.database")
	overlayString(&cfg.Snowflake.Timeout, "snowflake.timeout")

	overlayString(&cfg.Layers.Raw, "layers.raw")
	overlayString(&cfg.Layers.Conformed, "layers.conformed")
	overlayString(&cfg.Layers.Mart, "layers.mart")

	if viper.IsSet("pipeline.parallel") {
		cfg.Pipeline.Parallel = viper.GetBool("pipeline.parallel")
	}
	if viper.IsSet("pipeline.batch_size") {
		cfg.Pipeline.BatchSize = viper.GetInt("pipeline.batch_size")
	}
	if viper.IsSet("validation.enabled") {
		cfg.Validation.Enabled = viper.GetBool("validation.enabled")
	}
	if viper.IsSet("validation.fail_on_finding") {
		cfg.Validation.FailOnFinding = viper.GetBool("validation.fail_on_finding")
	}
	if viper.IsSet("validation.sample_keys") {
		cfg.Validation.SampleKeys = viper.GetInt("validation.sample_keys")
	}
}

func overlayString(dst *string, key string) {
	if v := viper.GetString(key); v != "" {
		*dst = v
	}
}
