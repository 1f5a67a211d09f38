package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for listforge.
type Config struct {
	Fetcher  FetcherConfig  `mapstructure:"fetcher"  yaml:"fetcher"`
	Browser  BrowserConfig  `mapstructure:"browser"  yaml:"browser"`
	Rewriter RewriterConfig `mapstructure:"rewriter" yaml:"rewriter"`
	Archive  ArchiveConfig  `mapstructure:"archive"  yaml:"archive"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"  yaml:"metrics"`
}

// FetcherConfig controls the single-shot page fetcher.
type FetcherConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"       yaml:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"    yaml:"user_agent"`
	MaxBodySize int64         `mapstructure:"max_body_size" yaml:"max_body_size"`
	TLSInsecure bool          `mapstructure:"tls_insecure"  yaml:"tls_insecure"`
}

// BrowserConfig controls the headless-browser description fallback.
type BrowserConfig struct {
	Enabled           bool          `mapstructure:"enabled"            yaml:"enabled"`
	Headless          bool          `mapstructure:"headless"           yaml:"headless"`
	Stealth           bool          `mapstructure:"stealth"            yaml:"stealth"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// RewriterConfig controls the text-optimization service.
// The API key is never read from a config file; it comes from the
// OPENAI_API_KEY environment variable (.env supported).
type RewriterConfig struct {
	Enabled     bool    `mapstructure:"enabled"     yaml:"enabled"`
	Model       string  `mapstructure:"model"       yaml:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"  yaml:"max_tokens"`
	Temperature float32 `mapstructure:"temperature" yaml:"temperature"`
	BaseURL     string  `mapstructure:"base_url"    yaml:"base_url"`
}

// ArchiveConfig controls the optional MongoDB archive of scraped listings.
type ArchiveConfig struct {
	Enabled    bool   `mapstructure:"enabled"    yaml:"enabled"`
	URI        string `mapstructure:"uri"        yaml:"uri"`
	Database   string `mapstructure:"database"   yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Fetcher: FetcherConfig{
			Timeout:     20 * time.Second,
			UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124 Safari/537.36",
			MaxBodySize: 10 * 1024 * 1024, // 10MB
		},
		Browser: BrowserConfig{
			Enabled:           false,
			Headless:          true,
			Stealth:           false,
			NavigationTimeout: 30 * time.Second,
		},
		Rewriter: RewriterConfig{
			Enabled:     true,
			Model:       "gpt-4o-mini",
			MaxTokens:   300,
			Temperature: 0.2,
		},
		Archive: ArchiveConfig{
			Enabled:    false,
			URI:        "mongodb://localhost:27017",
			Database:   "listforge",
			Collection: "scraped_listings",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
