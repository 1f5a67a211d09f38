package observability

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks operational counters for a pipeline run.
type Metrics struct {
	RowsProcessed    prometheus.Counter
	RowsSkipped      prometheus.Counter
	FetchFailures    prometheus.Counter
	RewriteFallbacks prometheus.Counter
	ListingsArchived prometheus.Counter

	registry *prometheus.Registry
	logger   *slog.Logger
}

// NewMetrics creates a Metrics instance with its own registry.
func NewMetrics(logger *slog.Logger) *Metrics {
	m := &Metrics{
		RowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listforge_rows_processed_total",
			Help: "Seed rows turned into output rows",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listforge_rows_skipped_total",
			Help: "Seed rows skipped after a fetch or extraction failure",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listforge_fetch_failures_total",
			Help: "Listing page fetches that failed",
		}),
		RewriteFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listforge_rewrite_fallbacks_total",
			Help: "Rewrite calls that fell back to the original text",
		}),
		ListingsArchived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listforge_listings_archived_total",
			Help: "Scraped listings archived to the database",
		}),
		registry: prometheus.NewRegistry(),
		logger:   logger.With("component", "metrics"),
	}

	m.registry.MustRegister(
		m.RowsProcessed,
		m.RowsSkipped,
		m.FetchFailures,
		m.RewriteFallbacks,
		m.ListingsArchived,
	)

	return m
}

// StartServer exposes the metrics over HTTP.
func (m *Metrics) StartServer(port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()
}
