package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"listforge/internal/config"
	"listforge/internal/extractor"
	"listforge/internal/fetcher"
	"listforge/internal/observability"
	"listforge/internal/pipeline"
	"listforge/internal/rewriter"
	"listforge/internal/seed"
	"listforge/internal/storage"
	"listforge/internal/types"
)

var (
	seedPath        string
	templatePath    string
	outPath         string
	previewPath     string
	optimize        bool
	browserFallback bool
	dryRun          bool
	writeFinal      bool
	strict          bool
)

// runCmd creates the "run" subcommand.
func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape seed URLs and build the upload CSV",
		Long: `Process every row of the seed CSV: fetch the listing page, extract its
fields, optionally rewrite title and description, and write one output
row per listing in the template's column layout.

With --dry-run a side-by-side preview CSV is written instead of the
final upload file; add --write-final to also write the upload CSV.`,
		RunE: runPipeline,
	}

	cmd.Flags().StringVar(&seedPath, "seed", "", "seed CSV with listing URLs and overrides (required)")
	cmd.Flags().StringVar(&templatePath, "template", "", "bulk-upload template CSV; its first row is the output schema (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "final CSV path (default: FINAL_EBAY_UPLOAD_<timestamp>.csv next to the seed)")
	cmd.Flags().StringVar(&previewPath, "preview", "", "preview CSV path (default: EBAY_PREVIEW_<timestamp>.csv next to the seed)")
	cmd.Flags().BoolVar(&optimize, "optimize", true, "rewrite titles and descriptions when a credential is available")
	cmd.Flags().BoolVar(&browserFallback, "browser-fallback", false, "probe embedded frames with a headless browser when the static page has no description")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "write a side-by-side preview CSV")
	cmd.Flags().BoolVar(&writeFinal, "write-final", false, "with --dry-run, also write the final upload CSV")
	cmd.Flags().BoolVar(&strict, "strict", false, "abort on the first failed row instead of skipping it")

	cmd.MarkFlagRequired("seed")
	cmd.MarkFlagRequired("template")

	return cmd
}

// runPipeline executes the run command.
func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if browserFallback {
		cfg.Browser.Enabled = true
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg)

	schema, err := seed.ReadTemplateSchema(templatePath)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	rows, columns, err := seed.ReadSeed(seedPath)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	if !slices.Contains(columns, "URL") {
		return types.ErrMissingURLColumn
	}

	// Default output paths mirror the seed's location.
	if dryRun && previewPath == "" {
		previewPath = seed.DefaultOutputPath(seedPath, "EBAY_PREVIEW")
	}
	wantFinal := !dryRun || writeFinal
	if wantFinal && outPath == "" {
		outPath = seed.DefaultOutputPath(seedPath, "FINAL_EBAY_UPLOAD")
	}

	metrics := observability.NewMetrics(logger)
	if cfg.Metrics.Enabled {
		metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	httpFetcher, err := fetcher.NewHTTPFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	defer httpFetcher.Close()

	var extractorOpts []extractor.Option
	if cfg.Browser.Enabled {
		extractorOpts = append(extractorOpts, extractor.WithFrameProber(extractor.NewRodProber(cfg, logger)))
	}
	ex := extractor.New(logger, extractorOpts...)

	rw := rewriter.New(&cfg.Rewriter, config.OpenAIKey(), metrics, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down...", "signal", sig)
		cancel()
	}()

	var archive *storage.Archive
	if cfg.Archive.Enabled {
		archive, err = storage.NewArchive(ctx, cfg.Archive.URI, cfg.Archive.Database, cfg.Archive.Collection, logger)
		if err != nil {
			logger.Warn("archive unavailable, continuing without it", "error", err)
		} else {
			defer archive.Close(context.Background())
		}
	}

	logger.Info("starting run",
		"seed", seedPath,
		"rows", len(rows),
		"columns", len(schema),
		"optimize", optimize,
		"dry_run", dryRun,
	)

	pipe := pipeline.New(httpFetcher, ex, rw, archive, metrics, logger)

	start := time.Now()
	previews, finals, runErr := pipe.Run(ctx, schema, rows, pipeline.Options{
		Optimize: optimize,
		Preview:  dryRun,
		Strict:   strict,
	})
	elapsed := time.Since(start)

	// Completed rows are written even when a strict run aborts midway.
	if dryRun && previewPath != "" {
		if err := writePreview(previewPath, previews); err != nil {
			return err
		}
		fmt.Printf("Preview written: %s\n", previewPath)
		if !writeFinal {
			fmt.Println("Dry-run mode: skipping final upload CSV (use --write-final to also write it).")
		}
	}
	if wantFinal {
		if err := storage.WriteCSV(outPath, schema, finals); err != nil {
			return fmt.Errorf("write final CSV: %w", err)
		}
		fmt.Printf("Done. Wrote %d rows to %s\n", len(finals), outPath)
	}

	logger.Info("run complete", "elapsed", elapsed, "rows_out", len(finals))

	if runErr != nil {
		return fmt.Errorf("run aborted: %w", runErr)
	}
	return nil
}

func writePreview(path string, previews []types.PreviewRow) error {
	rows := make([][]string, 0, len(previews))
	for _, p := range previews {
		rows = append(rows, p.Values())
	}
	if err := storage.WriteCSV(path, types.PreviewColumns, rows); err != nil {
		return fmt.Errorf("write preview CSV: %w", err)
	}
	return nil
}
