package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"listforge/internal/extractor"
	"listforge/internal/observability"
	"listforge/internal/rewriter"
	"listforge/internal/types"
)

const widgetHTML = `<html><head>
<script type="application/ld+json">
{"@type":"Product","name":"Vintage Widget","image":["http://img/1.jpg"],
"offers":{"price":"12.50"}}
</script>
</head><body>
<div id="desc_div"><p>A very nice widget.</p><p>Barely used.</p></div>
</body></html>`

type fakeFetcher struct {
	pages   map[string]string
	failing map[string]bool
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	if f.failing[url] {
		return "", &types.FetchError{URL: url, StatusCode: 503, Err: fmt.Errorf("unavailable")}
	}
	page, ok := f.pages[url]
	if !ok {
		return "", &types.FetchError{URL: url, StatusCode: 404, Err: fmt.Errorf("not found")}
	}
	return page, nil
}

func (f *fakeFetcher) Close() error { return nil }

type upperRewriter struct{}

func (upperRewriter) RewriteTitle(_ context.Context, t string) string { return strings.ToUpper(t) }

func (upperRewriter) RewriteDescription(_ context.Context, d string) string {
	return strings.ToUpper(d)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
}

func newTestPipeline(f *fakeFetcher, rw rewriter.Rewriter) *Pipeline {
	logger := testLogger()
	return New(f, extractor.New(logger), rw, nil, observability.NewMetrics(logger), logger)
}

var testSchema = []string{
	"*Action(SiteID=US|Version=1193)", "*Title", "*StartPrice", "PictureURL",
}

func TestRunProducesFinalRows(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"http://x/1": widgetHTML}}
	p := newTestPipeline(f, &rewriter.Noop{})

	rows := []types.SeedRow{{"URL": "http://x/1"}}
	previews, finals, err := p.Run(context.Background(), testSchema, rows, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(previews) != 0 {
		t.Errorf("previews without Preview option: %v", previews)
	}
	if len(finals) != 1 {
		t.Fatalf("finals = %d, want 1", len(finals))
	}
	want := []string{"Add", "Vintage Widget", "12.50", "http://img/1.jpg"}
	for i, cell := range want {
		if finals[0][i] != cell {
			t.Errorf("final[%d] = %q, want %q", i, finals[0][i], cell)
		}
	}
}

func TestRunSkipsEmptyURLRows(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"http://x/1": widgetHTML}}
	p := newTestPipeline(f, &rewriter.Noop{})

	rows := []types.SeedRow{
		{"URL": ""},
		{"URL": "http://x/1"},
		{"Condition": "New"},
	}
	_, finals, err := p.Run(context.Background(), testSchema, rows, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(finals) != 1 {
		t.Errorf("finals = %d, want 1", len(finals))
	}
}

func TestRunContinuesPastFailedRows(t *testing.T) {
	f := &fakeFetcher{
		pages:   map[string]string{"http://x/ok": widgetHTML},
		failing: map[string]bool{"http://x/down": true},
	}
	p := newTestPipeline(f, &rewriter.Noop{})

	rows := []types.SeedRow{
		{"URL": "http://x/down"},
		{"URL": "http://x/ok"},
	}
	_, finals, err := p.Run(context.Background(), testSchema, rows, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(finals) != 1 {
		t.Errorf("finals = %d, want 1 surviving row", len(finals))
	}
}

func TestRunStrictAbortsOnFailure(t *testing.T) {
	f := &fakeFetcher{
		pages:   map[string]string{"http://x/ok": widgetHTML},
		failing: map[string]bool{"http://x/down": true},
	}
	p := newTestPipeline(f, &rewriter.Noop{})

	rows := []types.SeedRow{
		{"URL": "http://x/down"},
		{"URL": "http://x/ok"},
	}
	_, finals, err := p.Run(context.Background(), testSchema, rows, Options{Strict: true})
	if err == nil {
		t.Fatal("expected strict run to fail")
	}
	if len(finals) != 0 {
		t.Errorf("finals after strict abort = %v", finals)
	}
}

func TestRunOptimizeTogglesPerRow(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"http://x/1": widgetHTML,
		"http://x/2": widgetHTML,
	}}
	p := newTestPipeline(f, upperRewriter{})

	rows := []types.SeedRow{
		{"URL": "http://x/1"},
		{"URL": "http://x/2", "OptimizeTitle": "N"},
	}
	_, finals, err := p.Run(context.Background(), testSchema, rows, Options{Optimize: true})
	if err != nil {
		t.Fatal(err)
	}
	if finals[0][1] != "VINTAGE WIDGET" {
		t.Errorf("optimized title = %q", finals[0][1])
	}
	if finals[1][1] != "Vintage Widget" {
		t.Errorf("opted-out title = %q", finals[1][1])
	}
}

func TestRunPreviewRows(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"http://x/1": widgetHTML}}
	p := newTestPipeline(f, upperRewriter{})

	rows := []types.SeedRow{{"URL": "http://x/1", "PhotoURL": "http://drive/a.jpg"}}
	previews, _, err := p.Run(context.Background(), testSchema, rows, Options{Optimize: true, Preview: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(previews) != 1 {
		t.Fatalf("previews = %d, want 1", len(previews))
	}
	pv := previews[0]
	if pv.TitleScraped != "Vintage Widget" || pv.TitleOptimized != "VINTAGE WIDGET" {
		t.Errorf("preview titles = %q / %q", pv.TitleScraped, pv.TitleOptimized)
	}
	if !strings.Contains(pv.DescScrapedSnip, "A very nice widget.") {
		t.Errorf("scraped snippet = %q", pv.DescScrapedSnip)
	}
	if pv.PhotoURL != "http://drive/a.jpg" {
		t.Errorf("preview photo = %q", pv.PhotoURL)
	}
	if pv.PostagePaidBy != "Buyer" {
		t.Errorf("preview postage = %q", pv.PostagePaidBy)
	}
}

func TestRunStopsWhenContextCanceled(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"http://x/1": widgetHTML}}
	p := newTestPipeline(f, &rewriter.Noop{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []types.SeedRow{
		{"URL": "http://x/1"},
		{"URL": "http://x/1"},
	}
	_, finals, err := p.Run(ctx, testSchema, rows, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(finals) != 0 {
		t.Errorf("finals after cancel = %v", finals)
	}
}

func TestRunSkipsMalformedURLs(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"http://x/1": widgetHTML}}
	p := newTestPipeline(f, &rewriter.Noop{})

	rows := []types.SeedRow{
		{"URL": "not-a-url"},
		{"URL": "ftp://x/1"},
		{"URL": "http://x/1"},
	}
	_, finals, err := p.Run(context.Background(), testSchema, rows, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(finals) != 1 {
		t.Errorf("finals = %d, want 1", len(finals))
	}
}

func TestSnippetBoundsLength(t *testing.T) {
	long := strings.Repeat("x", snippetRunes+50)
	if got := snippet(long); len([]rune(got)) != snippetRunes {
		t.Errorf("snippet length = %d", len([]rune(got)))
	}
	if got := snippet("short"); got != "short" {
		t.Errorf("snippet(short) = %q", got)
	}
}
