package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"listforge/internal/config"
)

// FrameProber loads a listing in a real browser and probes embedded frames
// for a description that is absent from the static HTML.
type FrameProber interface {
	// DescriptionHTML returns the markup of the first frame with
	// non-trivial rendered content, or "" when no frame qualifies.
	DescriptionHTML(ctx context.Context, url string) (string, error)
}

// RodProber implements FrameProber with a headless Chromium session via Rod.
// The session is scoped to a single probe: acquired on entry and released on
// every exit path, including errors.
type RodProber struct {
	cfg    *config.BrowserConfig
	logger *slog.Logger
}

// NewRodProber creates a new browser-backed frame prober.
func NewRodProber(cfg *config.Config, logger *slog.Logger) *RodProber {
	return &RodProber{
		cfg:    &cfg.Browser,
		logger: logger.With("component", "frame_prober"),
	}
}

// DescriptionHTML launches a browser, navigates to the listing, and probes
// every embedded frame in document order. The first frame whose markup is
// non-trivial wins; unreadable frames are skipped.
func (p *RodProber) DescriptionHTML(ctx context.Context, url string) (string, error) {
	l := launcher.New().
		Headless(p.cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox")

	controlURL, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return "", fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
		l.Cleanup()
	}()

	var page *rod.Page
	if p.cfg.Stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	timeout := p.cfg.NavigationTimeout
	if err := page.Timeout(timeout).Navigate(url); err != nil {
		return "", fmt.Errorf("navigate: %w", err)
	}
	if err := page.Timeout(timeout).WaitStable(300 * time.Millisecond); err != nil {
		p.logger.Warn("page stability timeout, continuing", "url", url, "error", err)
	}

	frames, err := page.Elements("iframe")
	if err != nil {
		return "", fmt.Errorf("list frames: %w", err)
	}

	for i, el := range frames {
		frame, err := el.Frame()
		if err != nil {
			p.logger.Debug("frame not reachable", "index", i, "error", err)
			continue
		}
		markup, err := frame.Timeout(timeout).HTML()
		if err != nil {
			p.logger.Debug("frame read failed", "index", i, "error", err)
			continue
		}
		if nontrivialMarkup(markup) {
			p.logger.Debug("description found in frame", "index", i, "size", len(markup))
			return markup, nil
		}
	}

	return "", nil
}

// minFrameMarkup filters out empty frame shells.
const minFrameMarkup = 64

func nontrivialMarkup(markup string) bool {
	trimmed := strings.TrimSpace(markup)
	return len(trimmed) > minFrameMarkup && strings.Contains(strings.ToLower(trimmed), "html")
}
