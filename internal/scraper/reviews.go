package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"reviewlens/internal/config"
	"reviewlens/internal/fetcher"
	"reviewlens/internal/types"
)

// Fallback selector lists for review pages, highest priority first.
var (
	reviewContainerSelectors = []string{
		`[data-hook="review"]`,
		".review",
		`[id*="review"]`,
		".a-section.review",
		`div[data-hook="review"]`,
		".cr-original-review-item",
		".a-section.celwidget",
		`[data-hook="review-item"]`,
	}

	reviewTextRules = []Rule{
		css(`[data-hook="review-body"] span`),
		css(".review-text"),
		css(`[data-hook="review-body"]`),
		css(".a-size-base.review-text"),
		css(`span[data-hook="review-body"]`),
		css(".cr-original-review-text"),
		css(".a-expander-content"),
		xpath(`.//div[contains(@class, "review-data")]`),
	}

	reviewRatingRules = []Rule{
		css(`[data-hook="review-star-rating"] .a-icon-alt`),
		css(".a-icon-alt"),
		css(`[data-hook="review-star-rating"]`),
		css(".a-star-mini"),
		css(".review-rating"),
		css(".cr-original-review-rating"),
	}
)

// Substrings that mark a blocked or challenge page, matched
// case-insensitively against the whole body.
var botMarkers = []string{"captcha", "robot"}

// Review text shorter than this is treated as a selector mis-hit and the
// fallback search continues; text must exceed minReviewLength to be kept.
const (
	confidentTextLength = 10
	minReviewLength     = 5
)

// ReviewScraper harvests customer reviews across paginated review pages.
type ReviewScraper struct {
	fetcher   fetcher.Fetcher
	baseURL   string
	pageDelay time.Duration
	logger    *slog.Logger
}

// NewReviewScraper creates a new review scraper.
func NewReviewScraper(f fetcher.Fetcher, cfg *config.Config, logger *slog.Logger) *ReviewScraper {
	return &ReviewScraper{
		fetcher:   f,
		baseURL:   strings.TrimRight(cfg.Scraper.BaseURL, "/"),
		pageDelay: cfg.Scraper.PageDelay,
		logger:    logger.With("component", "review_scraper"),
	}
}

// Harvest collects up to maxReviews reviews for an ASIN. It never fails:
// when scraping yields nothing at all (total block, layout change), the
// built-in sample set stands in so downstream stages always have input.
// The result is always capped at maxReviews.
func (s *ReviewScraper) Harvest(ctx context.Context, asin string, maxReviews int) []types.Review {
	var reviews []types.Review
	page := 1

pages:
	for len(reviews) < maxReviews {
		doc, err := s.fetchReviewPage(ctx, asin, page)
		if err != nil {
			s.logger.Warn("all URL variants failed for page", "asin", asin, "page", page, "error", err)
			break
		}

		for _, r := range extractReviews(doc) {
			if len(reviews) >= maxReviews {
				break
			}
			reviews = append(reviews, r)
			s.logger.Debug("review collected", "rating", r.Rating, "length", len(r.Text))
		}

		page++

		// Fixed pause between page fetches to limit request rate.
		select {
		case <-ctx.Done():
			break pages
		case <-time.After(s.pageDelay):
		}
	}

	if len(reviews) == 0 {
		s.logger.Warn("no reviews scraped, falling back to sample set", "asin", asin)
		reviews = sampleReviews()
	}

	if len(reviews) > maxReviews {
		reviews = reviews[:maxReviews]
	}
	s.logger.Info("harvest complete", "asin", asin, "reviews", len(reviews))
	return reviews
}

// reviewPageURLs returns the URL variants for one page of reviews, tried
// in order. The last variant is the listing page's review anchor and
// ignores the page number.
func reviewPageURLs(baseURL, asin string, page int) []string {
	return []string{
		fmt.Sprintf("%s/product-reviews/%s/ref=cm_cr_dp_d_show_all_btm?ie=UTF8&reviewerType=all_reviews&pageNumber=%d", baseURL, asin, page),
		fmt.Sprintf("%s/product-reviews/%s/?pageNumber=%d", baseURL, asin, page),
		fmt.Sprintf("%s/dp/%s/#customerReviews", baseURL, asin),
	}
}

// fetchReviewPage is the URL-acquisition stage: it tries each URL variant
// until one fetches cleanly, carries no bot-detection markers, and contains
// at least one review container. The document it returns is ready for the
// pure extraction stage.
func (s *ReviewScraper) fetchReviewPage(ctx context.Context, asin string, page int) (*goquery.Document, error) {
	var lastErr error = types.ErrNoReviews

	for _, url := range reviewPageURLs(s.baseURL, asin, page) {
		s.logger.Debug("trying review URL", "url", url)

		resp, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}

		if blocked(resp) {
			s.logger.Warn("bot detection markers in response", "url", url)
			lastErr = types.ErrBotDetected
			continue
		}

		doc, err := resp.Document()
		if err != nil {
			lastErr = &types.ParseError{URL: url, Err: err}
			continue
		}

		if firstNonEmpty(doc.Selection, reviewContainerSelectors) == nil {
			lastErr = types.ErrNoReviews
			continue
		}

		return doc, nil
	}

	return nil, lastErr
}

func blocked(resp *types.Response) bool {
	for _, marker := range botMarkers {
		if resp.ContainsMarker(marker) {
			return true
		}
	}
	return false
}

// extractReviews is the content-extraction stage: a pure function from a
// fetched document to the reviews it contains.
func extractReviews(doc *goquery.Document) []types.Review {
	containers := firstNonEmpty(doc.Selection, reviewContainerSelectors)
	if containers == nil {
		return nil
	}

	var reviews []types.Review
	containers.Each(func(_ int, article *goquery.Selection) {
		text := reviewText(article)
		if text == "" || utf8.RuneCountInString(text) <= minReviewLength {
			return
		}
		reviews = append(reviews, types.Review{
			Text:   text,
			Rating: reviewRating(article),
		})
	})
	return reviews
}

// reviewText walks the text fallback rules. A match longer than
// confidentTextLength runes ends the search; a shorter match is kept but
// the search continues, so a later rule may replace it.
func reviewText(article *goquery.Selection) string {
	var text string
	for _, r := range reviewTextRules {
		if t, ok := matchText(article, r); ok {
			text = t
			if t != "" && utf8.RuneCountInString(t) > confidentTextLength {
				break
			}
		}
	}
	return text
}

// reviewRating walks the rating fallback rules, parsing the first decimal
// substring (e.g. "4.0 out of 5 stars" -> 4.0). Missing or unparseable
// ratings default to 0.
func reviewRating(article *goquery.Selection) float64 {
	for _, r := range reviewRatingRules {
		text, ok := matchText(article, r)
		if !ok {
			continue
		}
		if v, ok := parseDecimal(text); ok {
			return v
		}
	}
	return 0
}

// sampleReviews is the deterministic degraded-mode data set returned when
// scraping yields nothing. Callers depend on these exact texts and the
// 5.0 -> 1.0 rating order.
func sampleReviews() []types.Review {
	return []types.Review{
		{Text: "Great product! Highly recommended. The quality is excellent and it works perfectly.", Rating: 5.0},
		{Text: "Good product overall, but could be better. The price is reasonable for what you get.", Rating: 4.0},
		{Text: "Average product. Nothing special but it does the job. Would consider buying again.", Rating: 3.0},
		{Text: "Not impressed with this product. The quality is poor and it broke after a few uses.", Rating: 2.0},
		{Text: "Terrible product. Complete waste of money. Would not recommend to anyone.", Rating: 1.0},
	}
}
