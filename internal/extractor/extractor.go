package extractor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"listforge/internal/types"
)

// Extractor turns raw listing HTML into a normalized ScrapedListing.
// Marketplace page structure varies by item type, age, and account, so every
// field is resolved through a layered fallback chain and extraction never
// fails: malformed or unexpected input yields empty fields, not errors.
type Extractor struct {
	logger *slog.Logger
	frames FrameProber
}

// Option configures the Extractor.
type Option func(*Extractor)

// WithFrameProber enables the headless-browser fallback for descriptions
// rendered inside embedded frames.
func WithFrameProber(p FrameProber) Option {
	return func(e *Extractor) { e.frames = p }
}

// New creates a new Extractor.
func New(logger *slog.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		logger: logger.With("component", "extractor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses one listing page. pageURL is only used for logging and for
// the frame-probe fallback; the static markup is the source of truth.
func (e *Extractor) Extract(ctx context.Context, pageHTML, pageURL string) *types.ScrapedListing {
	listing := types.NewScrapedListing()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		e.logger.Warn("unparseable document", "url", pageURL, "error", err)
		return listing
	}

	ld := parseJSONLD(doc)
	product := ld["Product"]
	offer := ld["Offer"]

	// Title: structured-metadata name, then landmark chain.
	if name := stringField(product, "name"); name != "" {
		listing.Title = name
	} else {
		listing.Title = firstLandmarkText(doc, titleLandmarks)
	}

	// Price: offer price when numeric-parseable, otherwise absent.
	if price, ok := offerPrice(product, offer); ok {
		listing.SetPrice(price)
	}

	// Category: trailing path segment of the last breadcrumb item.
	listing.CategoryID = breadcrumbCategory(ld["BreadcrumbList"])

	// Condition: label-synonym search in the document, then metadata.
	root, perr := html.Parse(strings.NewReader(pageHTML))
	if perr == nil {
		listing.ConditionText = conditionFromDocument(root)
	}
	if listing.ConditionText == "" {
		listing.ConditionText = stringField(product, "itemCondition")
	}

	// Images: structured-metadata only, absolute URLs, first-seen order.
	collectImages(product, listing)

	// Description: landmark chain, captured as raw markup.
	listing.DescriptionHTML = firstLandmarkHTML(doc, descriptionLandmarks)
	if listing.DescriptionHTML == "" && e.frames != nil {
		markup, ferr := e.frames.DescriptionHTML(ctx, pageURL)
		if ferr != nil {
			e.logger.Warn("frame probe failed", "url", pageURL, "error", ferr)
		} else {
			listing.DescriptionHTML = markup
		}
	}

	extractSpecifics(doc, listing)

	e.logger.Debug("extraction complete",
		"url", pageURL,
		"title_len", len(listing.Title),
		"images", len(listing.Images),
		"specifics", len(listing.ItemSpecifics),
		"has_price", listing.HasPrice,
	)

	return listing
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
