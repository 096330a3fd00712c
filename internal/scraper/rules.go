package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// RuleType selects the query language of a Rule.
type RuleType string

const (
	RuleCSS   RuleType = "css"
	RuleXPath RuleType = "xpath"
)

// Rule is one selector in a prioritized fallback list. Extraction applies
// the rules of a list in order; the brittleness of scraping a hostile page
// lives in these lists, not in control flow.
type Rule struct {
	Type     RuleType
	Selector string
}

func css(selector string) Rule   { return Rule{Type: RuleCSS, Selector: selector} }
func xpath(selector string) Rule { return Rule{Type: RuleXPath, Selector: selector} }

// matchText applies a single rule within scope and returns the trimmed text
// of the first matched node. The second return reports whether any node
// matched at all, so callers can distinguish "no element" from "element
// with empty text" and decide per attribute whether a match ends the
// fallback search.
func matchText(scope *goquery.Selection, r Rule) (string, bool) {
	switch r.Type {
	case RuleXPath:
		if len(scope.Nodes) == 0 {
			return "", false
		}
		node := queryXPath(scope.Nodes[0], r.Selector)
		if node == nil {
			return "", false
		}
		return strings.TrimSpace(htmlquery.InnerText(node)), true
	default:
		s := scope.Find(r.Selector)
		if s.Length() == 0 {
			return "", false
		}
		return strings.TrimSpace(s.First().Text()), true
	}
}

// queryXPath evaluates an XPath expression against a node, swallowing
// expression errors: a bad fallback rule behaves like a non-matching one.
func queryXPath(node *html.Node, expr string) *html.Node {
	found, err := htmlquery.Query(node, expr)
	if err != nil {
		return nil
	}
	return found
}

// firstNonEmpty returns the matches of the first selector in the list that
// matches anything, or nil when none do. Used for element families
// (review containers, histogram rows) where the whole match set is needed.
func firstNonEmpty(scope *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if s := scope.Find(sel); s.Length() > 0 {
			return s
		}
	}
	return nil
}
