package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"listforge/internal/config"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "listforge",
		Short: "ListForge — marketplace listing scraper and bulk-upload CSV builder",
		Long: `ListForge turns a seed table of listing URLs into a ready-to-upload
bulk-listing CSV.

For each seed row it fetches the listing page, extracts title, price,
category, condition, images and item specifics, optionally rewrites the
title and description for search, and reconciles the result with the
seed's manual overrides into the column layout of an upload template.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(photosCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ListForge %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Fetcher:\n")
			fmt.Printf("  Timeout:            %s\n", cfg.Fetcher.Timeout)
			fmt.Printf("  Max Body Size:      %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("  User-Agent:         %s\n", cfg.Fetcher.UserAgent)
			fmt.Printf("\nBrowser fallback:\n")
			fmt.Printf("  Enabled:            %v\n", cfg.Browser.Enabled)
			fmt.Printf("  Headless:           %v\n", cfg.Browser.Headless)
			fmt.Printf("  Stealth:            %v\n", cfg.Browser.Stealth)
			fmt.Printf("  Navigation Timeout: %s\n", cfg.Browser.NavigationTimeout)
			fmt.Printf("\nRewriter:\n")
			fmt.Printf("  Enabled:            %v\n", cfg.Rewriter.Enabled)
			fmt.Printf("  Model:              %s\n", cfg.Rewriter.Model)
			fmt.Printf("  API key present:    %v\n", config.OpenAIKey() != "")
			fmt.Printf("\nArchive:\n")
			fmt.Printf("  Enabled:            %v\n", cfg.Archive.Enabled)
			fmt.Printf("  URI:                %s\n", cfg.Archive.URI)
			fmt.Printf("  Database:           %s.%s\n", cfg.Archive.Database, cfg.Archive.Collection)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:            %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:               %d\n", cfg.Metrics.Port)
			return nil
		},
	}
}

// setupLogger creates a structured logger.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else {
		switch strings.ToLower(cfg.Logging.Level) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Logging.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
