package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// A landmark is one entry in a fallback chain: a selector for a known page
// element that carries a given field. Chains are evaluated in declared
// order and the first match wins — there is no scoring across candidates.
type landmark struct {
	selector string
}

var titleLandmarks = []landmark{
	{selector: "h1#itemTitle"},
	{selector: `h1[class*="item-title"]`},
}

var descriptionLandmarks = []landmark{
	{selector: "div#desc_div"},
	{selector: "div#viTabs_0_is"},
	{selector: "div#vi-desc-maincntr"},
	{selector: `div[class*="item-desc"]`},
	{selector: `div[class*="d-item-desc"]`},
}

// firstLandmarkText returns the normalized text of the first landmark with
// non-empty text.
func firstLandmarkText(doc *goquery.Document, chain []landmark) string {
	for _, lm := range chain {
		sel := doc.Find(lm.selector).First()
		if txt := normalizeSpace(sel.Text()); txt != "" {
			return txt
		}
	}
	return ""
}

// firstLandmarkHTML returns the raw outer markup of the first landmark with
// non-empty content, preserving structure for later plain-text flattening.
func firstLandmarkHTML(doc *goquery.Document, chain []landmark) string {
	for _, lm := range chain {
		sel := doc.Find(lm.selector).First()
		if sel.Length() == 0 {
			continue
		}
		markup, err := goquery.OuterHtml(sel)
		if err != nil || strings.TrimSpace(markup) == "" {
			continue
		}
		return markup
	}
	return ""
}

const (
	upperAlpha = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerAlpha = "abcdefghijklmnopqrstuvwxyz"
)

// conditionSynonyms are tried in order; the first element containing one
// of them supplies the condition text.
var conditionSynonyms = []string{"condition:", "condition", "item condition"}

// conditionFromDocument searches the document for an element whose text
// contains a condition-label synonym and returns everything after the first
// colon in that element's text, or the whole text when no colon is present.
func conditionFromDocument(root *html.Node) string {
	for _, syn := range conditionSynonyms {
		expr := fmt.Sprintf(`//*[text()[contains(translate(., %q, %q), %q)]]`, upperAlpha, lowerAlpha, syn)
		node, err := htmlquery.Query(root, expr)
		if err != nil || node == nil {
			continue
		}
		txt := normalizeSpace(htmlquery.InnerText(node))
		if txt == "" {
			continue
		}
		if i := strings.Index(txt, ":"); i >= 0 {
			return strings.TrimSpace(txt[i+1:])
		}
		return txt
	}
	return ""
}
