package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"reviewlens/internal/config"
	"reviewlens/internal/fetcher"
	"reviewlens/internal/types"
)

// Fallback selector lists for the listing page, highest priority first.
var (
	nameRules = []Rule{
		css("#productTitle"),
		css(".product-title"),
		css("h1.a-size-large"),
		css(`[data-automation-id="product-title"]`),
		xpath(`//h1[@id="title"]`),
	}

	reviewCountRules = []Rule{
		css("#acrCustomerReviewText"),
		css(".a-size-base"),
		css(`[data-hook="total-review-count"]`),
	}

	avgRatingRules = []Rule{
		css(".a-icon-alt"),
		css(`[data-hook="average-star-rating"]`),
		css(".a-star-mini"),
	}

	histogramSelectors = []string{
		".a-histogram-row",
		".a-meter",
		`[data-hook="histogram"]`,
	}

	similarSelectors = []string{
		".a-carousel-card",
		".s-similar-product",
		"[data-asin]",
	}
)

var (
	digitRun  = regexp.MustCompile(`\d+`)
	decimalRE = regexp.MustCompile(`(\d+\.?\d*)`)
	starRE    = regexp.MustCompile(`(\d+)\s*star`)
	percentRE = regexp.MustCompile(`(\d+)%`)
)

const (
	maxSimilarProducts = 5
	similarTitleLimit  = 50
)

// ListingScraper fetches a product listing page and extracts its summary
// attributes.
type ListingScraper struct {
	fetcher fetcher.Fetcher
	baseURL string
	logger  *slog.Logger
}

// NewListingScraper creates a new listing scraper.
func NewListingScraper(f fetcher.Fetcher, cfg *config.Config, logger *slog.Logger) *ListingScraper {
	return &ListingScraper{
		fetcher: f,
		baseURL: strings.TrimRight(cfg.Scraper.BaseURL, "/"),
		logger:  logger.With("component", "listing_scraper"),
	}
}

// FetchListing retrieves the listing page for an ASIN and parses it.
// A transport error or non-2xx status fails the whole operation; a missing
// attribute on an otherwise fetched page does not.
func (s *ListingScraper) FetchListing(ctx context.Context, asin string) (*types.ProductInfo, error) {
	url := fmt.Sprintf("%s/dp/%s", s.baseURL, asin)
	s.logger.Info("fetching product listing", "url", url)

	resp, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Warn("listing fetch failed", "asin", asin, "error", err)
		return nil, err
	}

	doc, err := resp.Document()
	if err != nil {
		return nil, &types.ParseError{URL: url, Err: err}
	}

	info := parseListing(doc, asin)
	s.logger.Info("listing parsed",
		"asin", asin,
		"name", info.ProductName,
		"total_reviews", info.TotalReviews,
		"avg_rating", info.AvgRating,
	)
	return info, nil
}

// parseListing extracts all summary attributes from a listing document.
// Pure: no I/O, every attribute independent with a zero-value default.
func parseListing(doc *goquery.Document, asin string) *types.ProductInfo {
	dist := parseHistogram(doc.Selection)
	pos, neg := ratios(dist)

	return &types.ProductInfo{
		ProductName:        parseName(doc.Selection),
		TotalReviews:       parseReviewCount(doc.Selection),
		AvgRating:          parseAvgRating(doc.Selection),
		PositiveRatio:      pos,
		NegativeRatio:      neg,
		RatingDistribution: dist,
		SimilarProducts:    parseSimilarProducts(doc.Selection, asin),
	}
}

func parseName(scope *goquery.Selection) string {
	for _, r := range nameRules {
		if text, ok := matchText(scope, r); ok {
			return text
		}
	}
	return ""
}

// parseReviewCount finds the first selector whose text yields an integer
// after stripping thousands separators. A selector that matches an element
// without digits is skipped, not terminal.
func parseReviewCount(scope *goquery.Selection) int {
	for _, r := range reviewCountRules {
		text, ok := matchText(scope, r)
		if !ok {
			continue
		}
		cleaned := strings.ReplaceAll(text, ",", "")
		if m := digitRun.FindString(cleaned); m != "" {
			n, err := strconv.Atoi(m)
			if err == nil {
				return n
			}
		}
	}
	return 0
}

// parseAvgRating parses the first decimal substring of the first matching
// rating element, e.g. "4.3 out of 5 stars" -> 4.3.
func parseAvgRating(scope *goquery.Selection) float64 {
	for _, r := range avgRatingRules {
		text, ok := matchText(scope, r)
		if !ok {
			continue
		}
		if v, ok := parseDecimal(text); ok {
			return v
		}
	}
	return 0
}

// parseHistogram builds the star-level -> percentage mapping from the first
// selector family with any matches. Later rows for the same star level
// overwrite earlier ones.
func parseHistogram(scope *goquery.Selection) map[int]int {
	dist := make(map[int]int)

	rows := firstNonEmpty(scope, histogramSelectors)
	if rows == nil {
		return dist
	}

	rows.Each(func(_ int, row *goquery.Selection) {
		text := row.Text()
		lower := strings.ToLower(text)
		if !strings.Contains(lower, "star") {
			return
		}
		starMatch := starRE.FindStringSubmatch(lower)
		percentMatch := percentRE.FindStringSubmatch(text)
		if starMatch == nil || percentMatch == nil {
			return
		}
		stars, err1 := strconv.Atoi(starMatch[1])
		percent, err2 := strconv.Atoi(percentMatch[1])
		if err1 == nil && err2 == nil {
			dist[stars] = percent
		}
	})

	return dist
}

// ratios derives the positive (4-5 star) and negative (1-2 star) shares of
// the histogram, as percentages rounded to one decimal. An empty or
// zero-sum histogram yields 0/0 rather than dividing by zero.
func ratios(dist map[int]int) (positive, negative float64) {
	total := 0
	for _, v := range dist {
		total += v
	}
	if total == 0 {
		return 0, 0
	}
	positive = round1(float64(dist[5]+dist[4]) / float64(total) * 100)
	negative = round1(float64(dist[1]+dist[2]) / float64(total) * 100)
	return positive, negative
}

// parseSimilarProducts takes the first five candidates from the first
// matching selector family. The listing's own ASIN and candidates without
// an image title are skipped, so fewer than five may come back.
func parseSimilarProducts(scope *goquery.Selection, ownASIN string) []types.SimilarProduct {
	elements := firstNonEmpty(scope, similarSelectors)
	if elements == nil {
		return nil
	}

	n := elements.Length()
	if n > maxSimilarProducts {
		n = maxSimilarProducts
	}

	var similar []types.SimilarProduct
	elements.Slice(0, n).Each(func(_ int, el *goquery.Selection) {
		asin, _ := el.Attr("data-asin")
		img := el.Find("img")
		if asin == "" || img.Length() == 0 {
			return
		}
		title, _ := img.First().Attr("alt")
		if title == "" || asin == ownASIN {
			return
		}
		similar = append(similar, types.SimilarProduct{
			ASIN:  asin,
			Title: truncateTitle(title, similarTitleLimit),
		})
	})
	return similar
}

// truncateTitle shortens a title longer than limit runes, marking the cut
// with a trailing ellipsis.
func truncateTitle(title string, limit int) string {
	if utf8.RuneCountInString(title) <= limit {
		return title
	}
	return string([]rune(title)[:limit]) + "..."
}

// parseDecimal extracts the first decimal-number substring of a text.
func parseDecimal(text string) (float64, bool) {
	m := decimalRE.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
