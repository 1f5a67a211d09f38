package config

import (
	"errors"
	"testing"

	"listforge/internal/types"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timeout", func(c *Config) { c.Fetcher.Timeout = 0 }},
		{"zero body size", func(c *Config) { c.Fetcher.MaxBodySize = 0 }},
		{"empty user agent", func(c *Config) { c.Fetcher.UserAgent = "" }},
		{"bad temperature", func(c *Config) { c.Rewriter.Temperature = 3 }},
		{"zero max tokens", func(c *Config) { c.Rewriter.MaxTokens = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad metrics port", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Port = 0 }},
		{"archive without uri", func(c *Config) { c.Archive.Enabled = true; c.Archive.URI = "" }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := Validate(cfg); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://www.ebay.com/itm/123"); err != nil {
		t.Errorf("valid URL rejected: %v", err)
	}
	for _, raw := range []string{"ftp://x/1", "not a url", "http://"} {
		err := ValidateURL(raw)
		if err == nil {
			t.Errorf("ValidateURL(%q) accepted", raw)
			continue
		}
		if !errors.Is(err, types.ErrInvalidURL) {
			t.Errorf("ValidateURL(%q) error = %v, want ErrInvalidURL", raw, err)
		}
	}
}

func TestLoadWithoutConfigFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Rewriter.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", cfg.Rewriter.Model)
	}
	if cfg.Fetcher.Timeout <= 0 {
		t.Errorf("Timeout = %v", cfg.Fetcher.Timeout)
	}
}
