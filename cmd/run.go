package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"starforge/internal/config"
	"starforge/internal/loader"
	"starforge/internal/runner"
	"starforge/internal/source"
	"starforge/internal/store"
	"starforge/internal/ui"
	"starforge/internal/warehouse"
	"starforge/pkg/models"
)

var (
	runDryRun     bool
	runNoValidate bool
	runBatchSize  int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one full-refresh pipeline run",
	Long: `Extract the raw CRM and ERP snapshot, conform it, project the star
schema and reload the conformed and mart layers. Each target table is
rebuilt in a staging table and swapped into place.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Skip the warehouse load phase")
	runCmd.Flags().BoolVar(&runNoValidate, "no-validate", false, "Skip the integrity checks")
	runCmd.Flags().IntVar(&runBatchSize, "batch-size", 0, "Rows per insert batch (overrides config)")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	started := time.Now()
	ctx := cmd.Context()

	svc, err := connectWarehouse(cfg)
	if err != nil {
		ui.ShowError(err)
		return err
	}
	defer svc.Close()

	batchSize := cfg.Pipeline.BatchSize
	if runBatchSize > 0 {
		batchSize = runBatchSize
	}

	var wh runner.Warehouse
	if !runDryRun && !cfg.Pipeline.DryRun {
		wh = loader.New(svc.DB(), cfg.Layers, batchSize)
	}

	r := runner.New(
		source.NewExtractor(svc.DB(), cfg.Layers.Raw),
		wh,
		store.New(),
		runner.Options{
			Parallel:   cfg.Pipeline.Parallel,
			Validate:   cfg.Validation.Enabled && !runNoValidate,
			SampleKeys: cfg.Validation.SampleKeys,
		},
	)

	spinner := ui.NewSpinner("Running pipeline...")
	spinner.Start()

	result, err := r.Run(ctx)
	if err != nil {
		spinner.Stop(false, "Pipeline run failed")
		ui.ShowError(err)
		os.Exit(1)
	}
	spinner.Stop(true, "Pipeline run complete")

	showResult(result, started)

	if result.Report != nil && !result.Report.Passed() && cfg.Validation.FailOnFinding {
		os.Exit(1)
	}
	return nil
}

func showResult(result *runner.Result, started time.Time) {
	raw := make(map[string]int, len(result.RawRows))
	for entity, n := range result.RawRows {
		raw[string(entity)] = n
	}
	conformed := make(map[string]int, len(result.ConformedRows))
	for entity, n := range result.ConformedRows {
		conformed[string(entity)] = n
	}

	ui.ShowRunSummary(raw, conformed,
		result.DimCustomers, result.DimProducts, result.FactRows,
		time.Since(started))

	if result.Report != nil {
		fmt.Println()
		fmt.Print(ui.RenderReport(result.Report))
	}
}

// connectWarehouse opens the Snowflake connection described by the config.
func connectWarehouse(cfg *models.Config) (*warehouse.Service, error) {
	timeout := 30 * time.Second
	if cfg.Snowflake.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Snowflake.Timeout); err == nil {
			timeout = d
		}
	}

	whCfg := warehouse.Config{
		Account:   cfg.Snowflake.Account,
		Username:  cfg.Snowflake.Username,
		Password:  config.ResolvePassword(cfg),
		Role:      cfg.Snowflake.Role,
		Warehouse: cfg.Snowflake.Warehouse,
		Database:  cfg.Snowflake.Database,
		Timeout:   timeout,
	}

	if err := warehouse.ValidateConfig(whCfg); err != nil {
		return nil, fmt.Errorf("incomplete warehouse configuration: %w (run 'starforge setup')", err)
	}

	svc := warehouse.NewService(whCfg)
	if err := svc.Connect(); err != nil {
		return nil, err
	}
	return svc, nil
}
