package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"listforge/internal/types"
)

// Class-name patterns for the structural regions that carry item specifics.
// These cover both the legacy table layout and the newer evo layout.
var (
	specificsSectionPattern = regexp.MustCompile(`(?i)(itemAttr|itemSpecifics|ux-layout-section-evo__section-content)`)
	specificsLabelPattern   = regexp.MustCompile(`(?i)(attrLabels|ux-labels-values__labels-content)`)
	specificsValuePattern   = regexp.MustCompile(`(?i)(attrLabels|ux-labels-values__values-content|val)`)
)

// extractSpecifics finds attribute/value regions and pairs each label with
// the nearest following value element. Repeated labels overwrite.
func extractSpecifics(doc *goquery.Document, listing *types.ScrapedListing) {
	sections := doc.Find("div, section").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		return specificsSectionPattern.MatchString(class)
	})

	sections.Each(func(_ int, section *goquery.Selection) {
		labels := section.Find("td, span, div").FilterFunction(func(_ int, sel *goquery.Selection) bool {
			class, _ := sel.Attr("class")
			return specificsLabelPattern.MatchString(class)
		})

		labels.Each(func(_ int, label *goquery.Selection) {
			if len(label.Nodes) == 0 {
				return
			}
			labelNode := label.Nodes[0]
			valueNode := nextMatching(labelNode, specificsValuePattern)
			if valueNode == nil {
				return
			}
			listing.SetSpecific(nodeText(labelNode), nodeText(valueNode))
		})
	})
}

// nextMatching walks forward in document order from n and returns the first
// td/span/div element whose class matches pattern.
func nextMatching(n *html.Node, pattern *regexp.Regexp) *html.Node {
	for cur := docNext(n); cur != nil; cur = docNext(cur) {
		if cur.Type != html.ElementNode {
			continue
		}
		switch cur.Data {
		case "td", "span", "div":
			if pattern.MatchString(nodeAttr(cur, "class")) {
				return cur
			}
		}
	}
	return nil
}

// docNext returns the document-order successor of n: first child, else next
// sibling, else the next sibling of the nearest ancestor that has one.
func docNext(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

func nodeAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// nodeText collects the trimmed text content of a subtree, space-joined.
func nodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			if t := strings.TrimSpace(cur.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for child := cur.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return normalizeSpace(strings.Join(parts, " "))
}
