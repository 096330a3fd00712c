package scraper

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"reviewlens/internal/config"
	"reviewlens/internal/types"
)

const reviewPageHTML = `<!DOCTYPE html>
<html>
<body>
    <div data-hook="review">
        <span data-hook="review-star-rating" class="a-icon-alt">5.0 out of 5 stars</span>
        <div data-hook="review-body"><span>Absolutely love this, works exactly as described.</span></div>
    </div>
    <div data-hook="review">
        <span class="a-icon-alt">2.0 out of 5 stars</span>
        <div data-hook="review-body"><span>Broke within a week, very disappointed.</span></div>
    </div>
    <div data-hook="review">
        <div data-hook="review-body"><span>short</span></div>
    </div>
</body>
</html>`

// stubFetcher serves canned bodies keyed by URL substring. URLs matching
// nothing fail with a transport error.
type stubFetcher struct {
	pages map[string]string
	calls []string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (*types.Response, error) {
	f.calls = append(f.calls, url)
	for key, body := range f.pages {
		if strings.Contains(url, key) {
			return &types.Response{StatusCode: 200, Body: []byte(body), URL: url}, nil
		}
	}
	return nil, errors.New("connection refused")
}

func (f *stubFetcher) Close() error { return nil }
func (f *stubFetcher) Type() string { return "stub" }

func testScraperConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scraper.PageDelay = 0
	return cfg
}

// --- Extraction Tests ---

func TestExtractReviews(t *testing.T) {
	doc := makeDoc(t, reviewPageHTML)

	reviews := extractReviews(doc)
	if len(reviews) != 2 {
		t.Fatalf("got %d reviews, want 2 (short text dropped)", len(reviews))
	}
	if reviews[0].Rating != 5.0 {
		t.Errorf("first rating = %v, want 5.0", reviews[0].Rating)
	}
	if !strings.Contains(reviews[0].Text, "love this") {
		t.Errorf("first text = %q", reviews[0].Text)
	}
	if reviews[1].Rating != 2.0 {
		t.Errorf("second rating = %v, want 2.0", reviews[1].Rating)
	}
}

func TestExtractReviewsFallbackContainers(t *testing.T) {
	doc := makeDoc(t, `<html><body>
		<div class="review">
			<span class="review-rating">4.0</span>
			<div class="review-text">Solid value for the money, would buy again.</div>
		</div>
	</body></html>`)

	reviews := extractReviews(doc)
	if len(reviews) != 1 {
		t.Fatalf("got %d reviews, want 1", len(reviews))
	}
	if reviews[0].Rating != 4.0 {
		t.Errorf("rating = %v, want 4.0", reviews[0].Rating)
	}
}

func TestExtractReviewsMissingRatingDefaultsToZero(t *testing.T) {
	doc := makeDoc(t, `<html><body>
		<div data-hook="review">
			<div data-hook="review-body"><span>No star element anywhere on this one.</span></div>
		</div>
	</body></html>`)

	reviews := extractReviews(doc)
	if len(reviews) != 1 {
		t.Fatalf("got %d reviews, want 1", len(reviews))
	}
	if reviews[0].Rating != 0 {
		t.Errorf("rating = %v, want 0", reviews[0].Rating)
	}
}

// A short match from an early rule is kept only until a later rule
// produces something longer; a confident match stops the search.
func TestReviewTextShortMatchIsReplaced(t *testing.T) {
	doc := makeDoc(t, `<html><body>
		<div data-hook="review">
			<div data-hook="review-body"><span>meh</span></div>
			<div class="a-expander-content">The full review text lives in the expander here.</div>
		</div>
	</body></html>`)

	containers := doc.Find(`[data-hook="review"]`)
	got := reviewText(containers.First())
	if !strings.Contains(got, "expander") {
		t.Errorf("text = %q, want the longer fallback match", got)
	}
}

func TestReviewTextShortMatchSurvivesWhenAlone(t *testing.T) {
	doc := makeDoc(t, `<html><body>
		<div data-hook="review">
			<div data-hook="review-body"><span>meh</span></div>
		</div>
	</body></html>`)

	containers := doc.Find(`[data-hook="review"]`)
	if got := reviewText(containers.First()); got != "meh" {
		t.Errorf("text = %q, want the short match kept", got)
	}
}

// --- Harvest Tests ---

func TestHarvestCapsAtMax(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{"pageNumber=1": reviewPageHTML}}
	s := NewReviewScraper(f, testScraperConfig(), testLogger)

	reviews := s.Harvest(context.Background(), "B08N5WRWNW", 2)
	if len(reviews) != 2 {
		t.Fatalf("got %d reviews, want 2", len(reviews))
	}
	if strings.Contains(reviews[0].Text, "Great product!") {
		t.Error("scraped page should win over the sample set")
	}
}

func TestHarvestFallsBackToSamples(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{}}
	s := NewReviewScraper(f, testScraperConfig(), testLogger)

	reviews := s.Harvest(context.Background(), "B08N5WRWNW", 10)
	if len(reviews) != 5 {
		t.Fatalf("got %d reviews, want the 5 samples", len(reviews))
	}
	if !strings.HasPrefix(reviews[0].Text, "Great product!") {
		t.Errorf("first sample = %q", reviews[0].Text)
	}
	for i, want := range []float64{5.0, 4.0, 3.0, 2.0, 1.0} {
		if reviews[i].Rating != want {
			t.Errorf("sample %d rating = %v, want %v", i, reviews[i].Rating, want)
		}
	}
}

func TestHarvestSamplesCappedAtMax(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{}}
	s := NewReviewScraper(f, testScraperConfig(), testLogger)

	reviews := s.Harvest(context.Background(), "B08N5WRWNW", 3)
	if len(reviews) != 3 {
		t.Fatalf("got %d reviews, want 3", len(reviews))
	}
}

func TestHarvestBotDetectionFallsBack(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"product-reviews": `<html><body>Please complete the CAPTCHA to continue</body></html>`,
		"#customerReviews": `<html><body>Type the characters you see. Sorry, we
			just need to make sure you're not a robot.</body></html>`,
	}}
	s := NewReviewScraper(f, testScraperConfig(), testLogger)

	reviews := s.Harvest(context.Background(), "B08N5WRWNW", 10)
	if len(reviews) != 5 {
		t.Fatalf("got %d reviews, want the 5 samples after bot detection", len(reviews))
	}
}

func TestHarvestTriesURLVariantsInOrder(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{"#customerReviews": reviewPageHTML}}
	s := NewReviewScraper(f, testScraperConfig(), testLogger)

	reviews := s.Harvest(context.Background(), "B08N5WRWNW", 2)
	if len(reviews) != 2 {
		t.Fatalf("got %d reviews, want 2 from the last URL variant", len(reviews))
	}
	if len(f.calls) < 3 {
		t.Fatalf("expected the first two variants to be tried, got calls %v", f.calls)
	}
	if !strings.Contains(f.calls[0], "ref=cm_cr_dp_d_show_all_btm") {
		t.Errorf("first variant = %q", f.calls[0])
	}
	if !strings.Contains(f.calls[2], "#customerReviews") {
		t.Errorf("third variant = %q", f.calls[2])
	}
}

func TestHarvestStopsOnCanceledContext(t *testing.T) {
	// One review per page, so the harvester needs several pages and hits
	// the inter-page delay where cancellation is observed.
	page := `<html><body>
		<div data-hook="review">
			<span class="a-icon-alt">4.0 out of 5 stars</span>
			<div data-hook="review-body"><span>One review on every single page here.</span></div>
		</div>
	</body></html>`
	f := &stubFetcher{pages: map[string]string{"pageNumber=": page}}

	cfg := testScraperConfig()
	cfg.Scraper.PageDelay = 50 * time.Millisecond
	s := NewReviewScraper(f, cfg, testLogger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reviews := s.Harvest(ctx, "B08N5WRWNW", 100)
	if len(reviews) != 1 {
		t.Fatalf("got %d reviews, want 1 page's worth before cancellation", len(reviews))
	}
}

func TestReviewPageURLs(t *testing.T) {
	urls := reviewPageURLs("https://www.amazon.com", "B08N5WRWNW", 2)
	if len(urls) != 3 {
		t.Fatalf("got %d variants, want 3", len(urls))
	}
	if !strings.Contains(urls[0], "pageNumber=2") || !strings.Contains(urls[1], "pageNumber=2") {
		t.Errorf("paged variants missing page number: %v", urls[:2])
	}
	if strings.Contains(urls[2], "pageNumber") {
		t.Errorf("anchor variant should ignore the page number: %q", urls[2])
	}
}
