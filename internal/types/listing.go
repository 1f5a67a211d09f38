package types

import (
	"strconv"
	"strings"
)

// ScrapedListing is the normalized record extracted from one marketplace
// listing page. Every field has a defined empty default — extraction fills
// in what it can and leaves the rest empty, it never omits a field.
type ScrapedListing struct {
	// Title is the listing title, possibly empty.
	Title string

	// DescriptionHTML is the raw description markup, possibly empty.
	DescriptionHTML string

	// Price is the listed price. Valid only when HasPrice is true.
	Price float64

	// HasPrice reports whether a numeric price was extracted.
	HasPrice bool

	// CategoryID is the marketplace category identifier, possibly empty.
	CategoryID string

	// ConditionText is the human-readable condition string, possibly empty.
	ConditionText string

	// Images holds absolute image URLs in first-seen order, deduplicated.
	Images []string

	// ItemSpecifics maps attribute labels to values. A repeated label
	// overwrites the earlier occurrence.
	ItemSpecifics map[string]string
}

// NewScrapedListing creates a listing with all fields at their empty defaults.
func NewScrapedListing() *ScrapedListing {
	return &ScrapedListing{
		Images:        []string{},
		ItemSpecifics: map[string]string{},
	}
}

// SetPrice records an extracted price.
func (l *ScrapedListing) SetPrice(p float64) {
	l.Price = p
	l.HasPrice = true
}

// AddImage appends an image URL, preserving first-seen order and dropping
// duplicates.
func (l *ScrapedListing) AddImage(url string) {
	for _, existing := range l.Images {
		if existing == url {
			return
		}
	}
	l.Images = append(l.Images, url)
}

// FirstImage returns the first image URL, or "" when none were extracted.
func (l *ScrapedListing) FirstImage() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0]
}

// SetSpecific records an item specific. Later writes win.
func (l *ScrapedListing) SetSpecific(label, value string) {
	label = strings.TrimSuffix(strings.TrimSpace(label), ":")
	value = strings.TrimSpace(value)
	if label == "" || value == "" {
		return
	}
	l.ItemSpecifics[label] = value
}

// SeedRow is one row of the input seed table: a column-name to value mapping
// with no fixed schema beyond an eventual non-empty URL field. Values are
// manual overrides that take priority over scraped data.
type SeedRow map[string]string

// Get returns the trimmed value of a column, or "" when absent.
func (r SeedRow) Get(key string) string {
	return strings.TrimSpace(r[key])
}

// GetDefault returns the column value, or def when the column is absent.
// An empty-but-present value is returned as "".
func (r SeedRow) GetDefault(key, def string) string {
	if _, ok := r[key]; !ok {
		return def
	}
	return strings.TrimSpace(r[key])
}

// First returns the first non-empty value among the named columns.
func (r SeedRow) First(keys ...string) string {
	for _, k := range keys {
		if v := r.Get(k); v != "" {
			return v
		}
	}
	return ""
}

// URL returns the seed row's source URL, or "" when missing.
func (r SeedRow) URL() string {
	return r.Get("URL")
}

// PreviewRow summarizes scraped-versus-optimized text for one listing so a
// human can review a dry run before uploading.
type PreviewRow struct {
	URL               string
	TitleScraped      string
	TitleOptimized    string
	DescScrapedSnip   string
	DescOptimizedSnip string
	PhotoURL          string
	PostagePaidBy     string
}

// PreviewColumns is the fixed header of the preview table.
var PreviewColumns = []string{
	"URL",
	"Title_Scraped",
	"Title_Optimized",
	"TitleLen_Scraped",
	"TitleLen_Optimized",
	"Desc_Scraped_Snippet",
	"Desc_Optimized_Snippet",
	"PhotoURL",
	"PostagePaidBy",
}

// Values returns the row in PreviewColumns order.
func (p PreviewRow) Values() []string {
	return []string{
		p.URL,
		p.TitleScraped,
		p.TitleOptimized,
		strconv.Itoa(len([]rune(p.TitleScraped))),
		strconv.Itoa(len([]rune(p.TitleOptimized))),
		p.DescScrapedSnip,
		p.DescOptimizedSnip,
		p.PhotoURL,
		p.PostagePaidBy,
	}
}
