package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"listforge/internal/config"
	"listforge/internal/extractor"
	"listforge/internal/fetcher"
	"listforge/internal/observability"
	"listforge/internal/reconcile"
	"listforge/internal/rewriter"
	"listforge/internal/storage"
	"listforge/internal/types"
)

// snippetRunes bounds the description excerpts in preview rows.
const snippetRunes = 400

// Options controls one pipeline run.
type Options struct {
	// Optimize enables text rewriting globally. Per-row OptimizeTitle and
	// OptimizeDescription toggles are still honored.
	Optimize bool

	// Preview collects side-by-side comparison rows for a dry run.
	Preview bool

	// Strict aborts the run on the first failed row instead of skipping it.
	Strict bool
}

// Pipeline drives seed rows through fetch, extract, rewrite and reconcile.
type Pipeline struct {
	fetcher   fetcher.Fetcher
	extractor *extractor.Extractor
	rewriter  rewriter.Rewriter
	archive   *storage.Archive
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// New assembles a pipeline. archive may be nil to disable archiving.
func New(f fetcher.Fetcher, ex *extractor.Extractor, rw rewriter.Rewriter, archive *storage.Archive, metrics *observability.Metrics, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		fetcher:   f,
		extractor: ex,
		rewriter:  rw,
		archive:   archive,
		metrics:   metrics,
		logger:    logger.With("component", "pipeline"),
	}
}

// Run processes every seed row and returns the collected preview rows and
// positional output rows. Rows without a URL are skipped silently; rows that
// fail to fetch are skipped with a warning unless Strict is set. A canceled
// context stops the run before the next row. Outputs are buffered in memory
// and written by the caller after the run completes.
func (p *Pipeline) Run(ctx context.Context, schema []string, rows []types.SeedRow, opts Options) ([]types.PreviewRow, [][]string, error) {
	var previews []types.PreviewRow
	var finals [][]string

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("run canceled", "rows_done", len(finals))
			return previews, finals, err
		}

		url := row.URL()
		if url == "" {
			continue
		}
		if err := config.ValidateURL(url); err != nil {
			if opts.Strict {
				return previews, finals, fmt.Errorf("row %d: %w", i+2, err)
			}
			p.metrics.RowsSkipped.Inc()
			p.logger.Warn("row skipped", "row", i+2, "url", url, "error", err)
			continue
		}

		pageHTML, err := p.fetcher.Fetch(ctx, url)
		if err != nil {
			p.metrics.FetchFailures.Inc()
			if opts.Strict {
				return previews, finals, fmt.Errorf("row %d (%s): %w", i+2, url, err)
			}
			p.metrics.RowsSkipped.Inc()
			p.logger.Warn("row skipped", "row", i+2, "url", url, "error", err)
			continue
		}

		listing := p.extractor.Extract(ctx, pageHTML, url)
		descText := extractor.PlainText(listing.DescriptionHTML)

		optTitle := listing.Title
		if opts.Optimize && row.GetDefault("OptimizeTitle", "Y") == "Y" {
			optTitle = p.rewriter.RewriteTitle(ctx, listing.Title)
		}
		optDesc := descText
		if opts.Optimize && row.GetDefault("OptimizeDescription", "Y") == "Y" {
			optDesc = p.rewriter.RewriteDescription(ctx, descText)
		}

		if opts.Preview {
			previews = append(previews, types.PreviewRow{
				URL:               url,
				TitleScraped:      listing.Title,
				TitleOptimized:    optTitle,
				DescScrapedSnip:   snippet(descText),
				DescOptimizedSnip: snippet(optDesc),
				PhotoURL:          row.Get("PhotoURL"),
				PostagePaidBy:     row.GetDefault("PostagePaidBy", "Buyer"),
			})
		}

		finals = append(finals, reconcile.Reconcile(schema, row, listing, optTitle, optDesc))
		p.metrics.RowsProcessed.Inc()

		if p.archive != nil {
			if err := p.archive.Save(ctx, url, listing); err != nil {
				p.logger.Warn("archive write failed", "url", url, "error", err)
			} else {
				p.metrics.ListingsArchived.Inc()
			}
		}
	}

	return previews, finals, nil
}

func snippet(s string) string {
	runes := []rune(s)
	if len(runes) <= snippetRunes {
		return s
	}
	return string(runes[:snippetRunes])
}
