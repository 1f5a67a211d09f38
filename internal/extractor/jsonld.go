package extractor

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"listforge/internal/types"
)

// parseJSONLD collects <script type="application/ld+json"> blocks keyed by
// @type. Only Product, Offer and BreadcrumbList blocks are kept; when a type
// appears more than once the last block wins.
func parseJSONLD(doc *goquery.Document) map[string]map[string]any {
	data := make(map[string]map[string]any)

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}

		// Try parsing as single object
		var single map[string]any
		if err := json.Unmarshal([]byte(raw), &single); err == nil {
			keepTyped(data, single)
			return
		}

		// Try parsing as array
		var arr []map[string]any
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			for _, entry := range arr {
				keepTyped(data, entry)
			}
		}
	})

	return data
}

func keepTyped(data map[string]map[string]any, entry map[string]any) {
	t, _ := entry["@type"].(string)
	switch t {
	case "Product", "Offer", "BreadcrumbList":
		data[t] = entry
	}
}

// stringField returns a trimmed string value from a metadata block.
func stringField(block map[string]any, key string) string {
	if block == nil {
		return ""
	}
	s, _ := block[key].(string)
	return strings.TrimSpace(s)
}

// offerPrice resolves the listed price from an Offer block, falling back to
// an offers object nested in the Product block. JSON-LD prices appear both
// as numbers and as strings.
func offerPrice(product, offer map[string]any) (float64, bool) {
	if offer != nil {
		if p, ok := numericValue(offer["price"]); ok {
			return p, true
		}
	}
	if product != nil {
		if nested, ok := product["offers"].(map[string]any); ok {
			if p, ok := numericValue(nested["price"]); ok {
				return p, true
			}
		}
	}
	return 0, false
}

func numericValue(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return p, true
	default:
		return 0, false
	}
}

// breadcrumbCategory derives a category id from the last element of a
// BreadcrumbList: the trailing path segment of the item's @id URI.
func breadcrumbCategory(breadcrumbs map[string]any) string {
	if breadcrumbs == nil {
		return ""
	}
	items, _ := breadcrumbs["itemListElement"].([]any)
	if len(items) == 0 {
		return ""
	}
	last, _ := items[len(items)-1].(map[string]any)
	if last == nil {
		return ""
	}
	item, _ := last["item"].(map[string]any)
	if item == nil {
		return ""
	}
	id, _ := item["@id"].(string)
	if id == "" {
		return ""
	}
	segments := strings.Split(id, "/")
	return segments[len(segments)-1]
}

// collectImages gathers absolute image URLs from the Product image fields,
// preserving first-seen order and dropping duplicates.
func collectImages(product map[string]any, listing *types.ScrapedListing) {
	if product == nil {
		return
	}
	for _, key := range []string{"image", "images"} {
		switch val := product[key].(type) {
		case []any:
			for _, entry := range val {
				if s, ok := entry.(string); ok && strings.HasPrefix(s, "http") {
					listing.AddImage(s)
				}
			}
		case string:
			if strings.HasPrefix(val, "http") {
				listing.AddImage(val)
			}
		}
	}
}
