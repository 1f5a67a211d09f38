package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"listforge/internal/config"
	"listforge/internal/seed"
)

var (
	allowedPath string
	reportPath  string
)

// validateCmd creates the "validate" subcommand.
func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a seed CSV against allowed values and format rules",
		Long: `Validate every row of a seed CSV before running the pipeline: required
URL values, numeric price/quantity/cost constraints, Days_N return
windows, enumerated shipping and returns values, and the dimension
fields Calculated shipping requires. Findings are written as a CSV
report.`,
		RunE: runValidate,
	}

	cmd.Flags().StringVar(&seedPath, "seed", "", "seed CSV to validate (required)")
	cmd.Flags().StringVar(&allowedPath, "allowed", "", "allowed-values JSON (default: built-in values)")
	cmd.Flags().StringVar(&reportPath, "report", "", "report CSV path (default: <seed dir>/ebay_seed_validation_report.csv)")
	cmd.MarkFlagRequired("seed")

	return cmd
}

// runValidate executes the validate command.
func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := setupLogger(cfg)

	allowed := seed.DefaultAllowedValues()
	if allowedPath != "" {
		allowed, err = seed.LoadAllowedValues(allowedPath)
		if err != nil {
			return err
		}
	}

	rows, columns, err := seed.ReadSeed(seedPath)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}

	issues := seed.Validate(rows, columns, allowed)

	if reportPath == "" {
		reportPath = seed.DefaultReportPath(seedPath)
	}
	if err := seed.WriteReport(reportPath, issues); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info("validation complete", "rows", len(rows), "issues", len(issues))
	fmt.Printf("Validation complete. Issues: %d\n", len(issues))
	fmt.Printf("Report saved to: %s\n", reportPath)
	return nil
}
