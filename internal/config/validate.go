package config

import (
	"fmt"
	"net/url"

	"listforge/internal/types"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher.timeout must be > 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.UserAgent == "" {
		return fmt.Errorf("fetcher.user_agent must not be empty")
	}

	if cfg.Browser.Enabled && cfg.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be > 0")
	}

	if cfg.Rewriter.MaxTokens < 1 {
		return fmt.Errorf("rewriter.max_tokens must be >= 1, got %d", cfg.Rewriter.MaxTokens)
	}
	if cfg.Rewriter.Temperature < 0 || cfg.Rewriter.Temperature > 2 {
		return fmt.Errorf("rewriter.temperature must be in [0, 2], got %v", cfg.Rewriter.Temperature)
	}

	if cfg.Archive.Enabled {
		if cfg.Archive.URI == "" {
			return fmt.Errorf("archive.uri must not be empty when archive is enabled")
		}
		if cfg.Archive.Database == "" || cfg.Archive.Collection == "" {
			return fmt.Errorf("archive.database and archive.collection must not be empty when archive is enabled")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateURL checks if a URL string is usable as a listing source.
// Only syntactic checks are performed.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", types.ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", types.ErrInvalidURL)
	}
	return nil
}
