package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"starforge/internal/conform"
	"starforge/internal/project"
	"starforge/internal/source"
	"starforge/internal/ui"
	"starforge/internal/validate"
	"starforge/pkg/errors"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the integrity checks without reloading the warehouse",
	Long: `Extract and conform the raw snapshot in memory, project the star
schema and run every integrity check against the result. Nothing is
written back; use this to inspect data quality before a real run.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, err := connectWarehouse(cfg)
	if err != nil {
		ui.ShowError(err)
		return err
	}
	defer svc.Close()

	spinner := ui.NewSpinner("Checking integrity...")
	spinner.Start()

	extractor := source.NewExtractor(svc.DB(), cfg.Layers.Raw)
	raw, err := extractor.ExtractBatch(cmd.Context())
	if err != nil {
		spinner.Stop(false, "Extraction failed")
		ui.ShowError(errors.StageError("extract", err))
		os.Exit(1)
	}

	conformed := conform.Batch(raw, time.Now())
	dimensional := project.Build(conformed)
	report := validate.Run(conformed, dimensional, validate.Options{
		SampleKeys: cfg.Validation.SampleKeys,
	})

	spinner.Stop(true, "Integrity checks complete")

	fmt.Print(ui.RenderReport(report))

	if !report.Passed() && cfg.Validation.FailOnFinding {
		os.Exit(1)
	}
	return nil
}
