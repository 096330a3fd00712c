package scraper

import (
	"regexp"
	"strings"
)

// ASIN path patterns, tried in order.
var (
	dpPattern      = regexp.MustCompile(`/dp/([A-Z0-9]{10})`)
	productPattern = regexp.MustCompile(`/product/([A-Z0-9]{10})`)
	asinPattern    = regexp.MustCompile(`^[A-Z0-9]{10}$`)
)

// ExtractASIN pulls the 10-character product identifier out of an Amazon
// product URL. It returns "" when the input does not reference amazon.com
// or matches neither path pattern; free-form text is never treated as a
// literal identifier.
func ExtractASIN(input string) string {
	if !strings.Contains(input, "amazon.com") {
		return ""
	}
	if m := dpPattern.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	if m := productPattern.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	return ""
}

// ValidASIN reports whether s is a well-formed bare product identifier.
func ValidASIN(s string) bool {
	return asinPattern.MatchString(s)
}
