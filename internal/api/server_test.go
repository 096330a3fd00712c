package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"reviewlens/internal/config"
	"reviewlens/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

type stubListing struct {
	info *types.ProductInfo
	err  error
}

func (s *stubListing) FetchListing(context.Context, string) (*types.ProductInfo, error) {
	return s.info, s.err
}

type stubHarvester struct {
	reviews []types.Review
}

func (s *stubHarvester) Harvest(_ context.Context, _ string, max int) []types.Review {
	if len(s.reviews) > max {
		return s.reviews[:max]
	}
	return s.reviews
}

type stubSentiment struct {
	labels  map[string]types.Sentiment
	summary string
}

func (s *stubSentiment) ClassifySentiment(_ context.Context, text string) types.Sentiment {
	if label, ok := s.labels[text]; ok {
		return label
	}
	return types.SentimentNeutral
}

func (s *stubSentiment) Summarize(context.Context, []types.ClassifiedReview) string {
	return s.summary
}

func testServer(listing ListingFetcher, harvester ReviewHarvester, sentiment SentimentService) *Server {
	cfg := config.DefaultConfig()
	if listing == nil {
		listing = &stubListing{info: &types.ProductInfo{ProductName: "Test Product"}}
	}
	if harvester == nil {
		harvester = &stubHarvester{}
	}
	if sentiment == nil {
		sentiment = &stubSentiment{summary: "전반적으로 좋습니다."}
	}
	return NewServer(cfg, listing, harvester, sentiment, testLogger)
}

func doJSON(t *testing.T, srv *Server, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return rec, payload
}

// --- Index ---

func TestIndexServesHTML(t *testing.T) {
	srv := testServer(nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<html") {
		t.Error("index page is not HTML")
	}
}

// --- Stage 1: Product Info ---

func TestGetProductInfoMissingInput(t *testing.T) {
	srv := testServer(nil, nil, nil)
	rec, payload := doJSON(t, srv, "/get-product-info", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if payload["error"] != "상품 URL을 입력해주세요." {
		t.Errorf("error = %q", payload["error"])
	}
}

func TestGetProductInfoInvalidInput(t *testing.T) {
	srv := testServer(nil, nil, nil)
	rec, payload := doJSON(t, srv, "/get-product-info", `{"product_input": "random text"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if payload["error"] != "올바른 아마존 상품 URL을 입력해주세요." {
		t.Errorf("error = %q", payload["error"])
	}
}

func TestGetProductInfoBadJSON(t *testing.T) {
	srv := testServer(nil, nil, nil)
	rec, _ := doJSON(t, srv, "/get-product-info", `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetProductInfoFetchFailure(t *testing.T) {
	srv := testServer(&stubListing{err: types.ErrProductNotFound}, nil, nil)
	rec, payload := doJSON(t, srv, "/get-product-info",
		`{"product_input": "https://www.amazon.com/dp/B08N5WRWNW"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if payload["error"] != "상품 정보를 찾을 수 없습니다." {
		t.Errorf("error = %q", payload["error"])
	}
}

func TestGetProductInfoSuccess(t *testing.T) {
	srv := testServer(&stubListing{info: &types.ProductInfo{
		ProductName:  "Wireless Headphones",
		TotalReviews: 1234,
		AvgRating:    4.3,
	}}, nil, nil)
	rec, payload := doJSON(t, srv, "/get-product-info",
		`{"product_input": "https://www.amazon.com/dp/B08N5WRWNW"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}
	if payload["product_id"] != "B08N5WRWNW" {
		t.Errorf("product_id = %q", payload["product_id"])
	}
	info, ok := payload["product_info"].(map[string]any)
	if !ok {
		t.Fatalf("product_info missing: %v", payload)
	}
	if info["product_name"] != "Wireless Headphones" {
		t.Errorf("product_name = %q", info["product_name"])
	}
	if cors := rec.Header().Get("Access-Control-Allow-Origin"); cors != "*" {
		t.Errorf("CORS header = %q", cors)
	}
}

// --- Stage 2: Review Analysis ---

func TestAnalyzeReviewsMissingID(t *testing.T) {
	srv := testServer(nil, nil, nil)
	rec, payload := doJSON(t, srv, "/analyze-reviews", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if payload["error"] != "상품 ID가 필요합니다." {
		t.Errorf("error = %q", payload["error"])
	}
}

func TestAnalyzeReviewsEmptyHarvest(t *testing.T) {
	srv := testServer(nil, &stubHarvester{}, nil)
	rec, payload := doJSON(t, srv, "/analyze-reviews", `{"product_id": "B08N5WRWNW"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if payload["error"] != "리뷰를 찾을 수 없습니다." {
		t.Errorf("error = %q", payload["error"])
	}
}

func TestAnalyzeReviewsSuccess(t *testing.T) {
	harvester := &stubHarvester{reviews: []types.Review{
		{Text: "love it", Rating: 5},
		{Text: "hate it", Rating: 1},
		{Text: "whatever", Rating: 3},
	}}
	sentiment := &stubSentiment{
		labels: map[string]types.Sentiment{
			"love it": types.SentimentPositive,
			"hate it": types.SentimentNegative,
		},
		summary: "호불호가 갈립니다.",
	}
	srv := testServer(nil, harvester, sentiment)

	rec, payload := doJSON(t, srv, "/analyze-reviews", `{"product_id": "B08N5WRWNW"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}

	if payload["total_reviews"] != float64(3) {
		t.Errorf("total_reviews = %v, want 3", payload["total_reviews"])
	}
	if payload["summary"] != "호불호가 갈립니다." {
		t.Errorf("summary = %q", payload["summary"])
	}

	stats, ok := payload["sentiment_stats"].(map[string]any)
	if !ok {
		t.Fatalf("sentiment_stats missing: %v", payload)
	}
	if stats["positive"] != float64(1) || stats["negative"] != float64(1) || stats["neutral"] != float64(1) {
		t.Errorf("stats = %v", stats)
	}

	reviews, ok := payload["reviews"].([]any)
	if !ok || len(reviews) != 3 {
		t.Fatalf("reviews = %v", payload["reviews"])
	}
	first, _ := reviews[0].(map[string]any)
	if first["sentiment"] != "positive" || first["rating"] != float64(5) {
		t.Errorf("first review = %v", first)
	}
}

// The harvester contract caps the batch at the configured maximum.
func TestAnalyzeReviewsRespectsMax(t *testing.T) {
	var many []types.Review
	for i := 0; i < 50; i++ {
		many = append(many, types.Review{Text: "review", Rating: 4})
	}
	srv := testServer(nil, &stubHarvester{reviews: many}, nil)

	rec, payload := doJSON(t, srv, "/analyze-reviews", `{"product_id": "B08N5WRWNW"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := float64(config.DefaultConfig().Scraper.MaxReviews)
	if payload["total_reviews"] != want {
		t.Errorf("total_reviews = %v, want %v", payload["total_reviews"], want)
	}
}

// --- CSV Export ---

func TestExportCSVEmpty(t *testing.T) {
	srv := testServer(nil, nil, nil)
	rec, payload := doJSON(t, srv, "/export-csv", `{"reviews": []}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if payload["error"] != "내보낼 리뷰 데이터가 없습니다." {
		t.Errorf("error = %q", payload["error"])
	}
}

func TestExportCSVSuccess(t *testing.T) {
	srv := testServer(nil, nil, nil)
	rec, payload := doJSON(t, srv, "/export-csv",
		`{"reviews": [{"rating": 5, "sentiment": "positive", "text": "great"}]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}

	csvData, _ := payload["csv_data"].(string)
	if !strings.HasPrefix(csvData, "번호,평점,감정,리뷰 내용\n") {
		t.Errorf("csv header wrong: %q", csvData)
	}
	if !strings.Contains(csvData, `1,5,positive,"great"`) {
		t.Errorf("csv row wrong: %q", csvData)
	}

	filename, _ := payload["filename"].(string)
	if !strings.HasPrefix(filename, "amazon_reviews_") || !strings.HasSuffix(filename, ".csv") {
		t.Errorf("filename = %q", filename)
	}
}
