package rewriter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"listforge/internal/config"
	"listforge/internal/observability"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
}

func completionServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "upstream failure", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, content)
	}))
}

func newTestRewriter(cfg *config.RewriterConfig, baseURL string) *OpenAI {
	cfg.BaseURL = baseURL
	m := observability.NewMetrics(testLogger())
	return NewOpenAI(cfg, "test-key", m, testLogger())
}

func TestNewWithoutKeyReturnsNoop(t *testing.T) {
	cfg := config.DefaultConfig()
	rw := New(&cfg.Rewriter, "", nil, testLogger())
	if _, ok := rw.(*Noop); !ok {
		t.Fatalf("expected Noop without API key, got %T", rw)
	}
	if got := rw.RewriteTitle(context.Background(), "original title"); got != "original title" {
		t.Errorf("Noop changed title: %q", got)
	}
}

func TestNewDisabledReturnsNoop(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rewriter.Enabled = false
	rw := New(&cfg.Rewriter, "some-key", nil, testLogger())
	if _, ok := rw.(*Noop); !ok {
		t.Fatalf("expected Noop when disabled, got %T", rw)
	}
}

func TestRewriteTitleSuccess(t *testing.T) {
	srv := completionServer(t, "Shiny New Widget Title", http.StatusOK)
	defer srv.Close()

	cfg := config.DefaultConfig()
	rw := newTestRewriter(&cfg.Rewriter, srv.URL+"/v1")

	got := rw.RewriteTitle(context.Background(), "old widget")
	if got != "Shiny New Widget Title" {
		t.Errorf("RewriteTitle = %q", got)
	}
}

func TestRewriteTitleTruncatesToLimit(t *testing.T) {
	long := strings.Repeat("ab ", 60)
	srv := completionServer(t, long, http.StatusOK)
	defer srv.Close()

	cfg := config.DefaultConfig()
	rw := newTestRewriter(&cfg.Rewriter, srv.URL+"/v1")

	got := rw.RewriteTitle(context.Background(), "old widget")
	if n := len([]rune(got)); n > maxTitleRunes {
		t.Errorf("title length = %d, want <= %d", n, maxTitleRunes)
	}
}

func TestRewriteFallsBackOnAPIError(t *testing.T) {
	srv := completionServer(t, "", http.StatusInternalServerError)
	defer srv.Close()

	cfg := config.DefaultConfig()
	rw := newTestRewriter(&cfg.Rewriter, srv.URL+"/v1")

	if got := rw.RewriteTitle(context.Background(), "keep me"); got != "keep me" {
		t.Errorf("title after API error = %q, want original", got)
	}
	if got := rw.RewriteDescription(context.Background(), "desc stays"); got != "desc stays" {
		t.Errorf("description after API error = %q, want original", got)
	}
}

func TestRewriteFallsBackOnBlankCompletion(t *testing.T) {
	srv := completionServer(t, "   ", http.StatusOK)
	defer srv.Close()

	cfg := config.DefaultConfig()
	rw := newTestRewriter(&cfg.Rewriter, srv.URL+"/v1")

	if got := rw.RewriteDescription(context.Background(), "original"); got != "original" {
		t.Errorf("description after blank completion = %q, want original", got)
	}
}

func TestRewriteSkipsEmptyInput(t *testing.T) {
	srv := completionServer(t, "should never be used", http.StatusOK)
	defer srv.Close()

	cfg := config.DefaultConfig()
	rw := newTestRewriter(&cfg.Rewriter, srv.URL+"/v1")

	if got := rw.RewriteTitle(context.Background(), "  "); got != "  " {
		t.Errorf("empty title was rewritten: %q", got)
	}
}
