package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"listforge/internal/config"
	"listforge/internal/photos"
	"listforge/internal/seed"
)

var (
	folderID  string
	labelCol  string
	byOrder   bool
	credsPath string
	photosOut string
)

// photosCmd creates the "photos" subcommand.
func photosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photos",
		Short: "Fill the seed's PhotoURL column from a Google Drive folder",
		Long: `Match seed rows to images in a Google Drive folder and write an updated
seed CSV with direct image links in the PhotoURL column.

Rows are matched by the normalized label column (letters and digits
only, case-insensitive), with a substring fallback. With --by-order the
folder's images are handed out to rows top to bottom instead.`,
		RunE: runPhotos,
	}

	cmd.Flags().StringVar(&folderID, "folder-id", "", "Google Drive folder ID (required)")
	cmd.Flags().StringVar(&seedPath, "seed", "", "seed CSV to update (required)")
	cmd.Flags().StringVarP(&photosOut, "out", "o", "", "updated seed CSV path (required)")
	cmd.Flags().StringVar(&labelCol, "label-col", "CustomLabel", "seed column to match file names against")
	cmd.Flags().BoolVar(&byOrder, "by-order", false, "assign images to rows in order instead of matching labels")
	cmd.Flags().StringVar(&credsPath, "creds", "credentials.json", "Google service-account credentials file")
	cmd.MarkFlagRequired("folder-id")
	cmd.MarkFlagRequired("seed")
	cmd.MarkFlagRequired("out")

	return cmd
}

// runPhotos executes the photos command.
func runPhotos(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := setupLogger(cfg)

	rows, columns, err := seed.ReadSeed(seedPath)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}

	ctx := context.Background()
	resolver, err := photos.NewResolver(ctx, credsPath, logger)
	if err != nil {
		return err
	}

	assigned, err := photos.Assign(ctx, resolver, rows, folderID, labelCol, byOrder, logger)
	if err != nil {
		return err
	}

	// PhotoURL becomes part of the schema if the seed lacked it.
	hasPhotoCol := false
	for _, c := range columns {
		if c == "PhotoURL" {
			hasPhotoCol = true
			break
		}
	}
	if !hasPhotoCol {
		columns = append(columns, "PhotoURL")
	}

	f, err := os.Create(photosOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", photosOut, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(columns))
		for i, c := range columns {
			record[i] = row[c]
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	fmt.Printf("Assigned %d photo URLs. Updated seed written to: %s\n", assigned, photosOut)
	return nil
}
