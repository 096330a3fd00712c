package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"reviewlens/internal/config"
	"reviewlens/internal/export"
	"reviewlens/internal/scraper"
	"reviewlens/internal/types"
)

// User-facing error messages. The interactive front-end is Korean, so the
// API speaks Korean too.
const (
	msgMissingInput  = "상품 URL을 입력해주세요."
	msgInvalidInput  = "올바른 아마존 상품 URL을 입력해주세요."
	msgNotFound      = "상품 정보를 찾을 수 없습니다."
	msgMissingID     = "상품 ID가 필요합니다."
	msgNoReviews     = "리뷰를 찾을 수 없습니다."
	msgNothingToSave = "내보낼 리뷰 데이터가 없습니다."
	msgBadJSON       = "invalid JSON"
)

// ListingFetcher retrieves a product's listing summary.
type ListingFetcher interface {
	FetchListing(ctx context.Context, asin string) (*types.ProductInfo, error)
}

// ReviewHarvester collects up to max reviews for a product. Never fails.
type ReviewHarvester interface {
	Harvest(ctx context.Context, asin string, max int) []types.Review
}

// SentimentService classifies reviews and summarizes a classified batch.
// Both operations degrade instead of failing.
type SentimentService interface {
	ClassifySentiment(ctx context.Context, text string) types.Sentiment
	Summarize(ctx context.Context, reviews []types.ClassifiedReview) string
}

// Server exposes the two-stage analysis pipeline over HTTP.
type Server struct {
	cfg       *config.Config
	listing   ListingFetcher
	harvester ReviewHarvester
	sentiment SentimentService
	mux       *http.ServeMux
	logger    *slog.Logger
}

// NewServer wires the pipeline stages into an HTTP handler.
func NewServer(cfg *config.Config, listing ListingFetcher, harvester ReviewHarvester, sentiment SentimentService, logger *slog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		listing:   listing,
		harvester: harvester,
		sentiment: sentiment,
		mux:       http.NewServeMux(),
		logger:    logger.With("component", "api_server"),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /", s.handleIndex)
	s.mux.HandleFunc("POST /get-product-info", s.handleGetProductInfo)
	s.mux.HandleFunc("POST /analyze-reviews", s.handleAnalyzeReviews)
	s.mux.HandleFunc("POST /export-csv", s.handleExportCSV)
}

// Handler returns the server's root handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe runs the server until the context is canceled, then
// shuts it down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr, "debug", s.cfg.Server.Debug)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

// handleGetProductInfo is stage 1: resolve the input to an ASIN and fetch
// the listing summary.
func (s *Server) handleGetProductInfo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductInput string `json:"product_input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonError(w, http.StatusBadRequest, msgBadJSON)
		return
	}
	if body.ProductInput == "" {
		s.jsonError(w, http.StatusBadRequest, msgMissingInput)
		return
	}

	asin := scraper.ExtractASIN(body.ProductInput)
	if asin == "" {
		s.jsonError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}

	s.logger.Info("stage 1: fetching product info", "asin", asin)
	info, err := s.listing.FetchListing(r.Context(), asin)
	if err != nil {
		s.logger.Warn("product info unavailable", "asin", asin, "error", err)
		s.jsonError(w, http.StatusNotFound, msgNotFound)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"product_id":   asin,
		"product_info": info,
	})
}

// handleAnalyzeReviews is stage 2: harvest, classify each review, tally,
// and summarize.
func (s *Server) handleAnalyzeReviews(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonError(w, http.StatusBadRequest, msgBadJSON)
		return
	}
	if body.ProductID == "" {
		s.jsonError(w, http.StatusBadRequest, msgMissingID)
		return
	}

	s.logger.Info("stage 2: harvesting reviews", "asin", body.ProductID)
	reviews := s.harvester.Harvest(r.Context(), body.ProductID, s.cfg.Scraper.MaxReviews)
	if len(reviews) == 0 {
		// Unreachable while the harvester's fallback holds; kept so a
		// future harvester change cannot turn this into a panic downstream.
		s.jsonError(w, http.StatusNotFound, msgNoReviews)
		return
	}

	s.logger.Info("classifying sentiments", "count", len(reviews))
	classified := make([]types.ClassifiedReview, 0, len(reviews))
	for _, rev := range reviews {
		classified = append(classified, types.ClassifiedReview{
			Text:      rev.Text,
			Rating:    rev.Rating,
			Sentiment: s.sentiment.ClassifySentiment(r.Context(), rev.Text),
		})
	}

	s.logger.Info("generating summary report")
	summary := s.sentiment.Summarize(r.Context(), classified)

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"reviews":         classified,
		"sentiment_stats": types.Tally(classified),
		"summary":         summary,
		"total_reviews":   len(classified),
	})
}

// handleExportCSV converts a client-supplied review list into CSV. Pure
// transform, independent of both pipeline stages.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reviews []export.Record `json:"reviews"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonError(w, http.StatusBadRequest, msgBadJSON)
		return
	}
	if len(body.Reviews) == 0 {
		s.jsonError(w, http.StatusBadRequest, msgNothingToSave)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"csv_data": export.Build(body.Reviews),
		"filename": export.Filename(time.Now()),
	})
}

func (s *Server) jsonError(w http.ResponseWriter, status int, msg string) {
	s.jsonResponse(w, status, map[string]string{"error": msg})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
