package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"reviewlens/internal/ai"
	"reviewlens/internal/api"
	"reviewlens/internal/config"
	"reviewlens/internal/export"
	"reviewlens/internal/fetcher"
	"reviewlens/internal/scraper"
	"reviewlens/internal/types"
)

var (
	cfgFile     string
	verbose     bool
	servePort   int
	serveHost   string
	fetcherType string
	maxReviews  int
	csvPath     string
	jsonOut     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reviewlens",
		Short: "ReviewLens — Amazon review scraping and sentiment analysis",
		Long: `ReviewLens scrapes Amazon product listings and customer reviews,
classifies review sentiment with an LLM, and serves the results over HTTP.

Features:
  • Product listing extraction (name, rating histogram, similar products)
  • Paginated review harvesting with layout fallbacks
  • LLM sentiment classification and Korean-language summaries
  • CSV export of classified reviews
  • HTTP and headless-browser fetch backends`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long:  "Start the ReviewLens HTTP server exposing the product-info, review-analysis and CSV-export endpoints.",
		RunE:  runServe,
	}

	cmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config)")
	cmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	cmd.Flags().StringVar(&fetcherType, "fetcher", "", "fetch backend: http, browser")

	return cmd
}

// runServe executes the serve command.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg)

	f, err := newFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	defer f.Close()

	listing := scraper.NewListingScraper(f, cfg, logger)
	reviews := scraper.NewReviewScraper(f, cfg, logger)
	sentiment := ai.NewClient(&cfg.AI, logger)

	srv := api.NewServer(cfg, listing, reviews, sentiment, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"fetcher", f.Type(),
	)

	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// analyzeCmd creates the "analyze" subcommand.
func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [product-url-or-asin]",
		Short: "Analyze a product's reviews from the command line",
		Long:  "Fetch a product listing, harvest its reviews, classify sentiment and print a summary without starting the server.",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	cmd.Flags().IntVarP(&maxReviews, "max-reviews", "m", 0, "maximum reviews to harvest (overrides config)")
	cmd.Flags().StringVarP(&csvPath, "csv", "o", "", "write classified reviews to a CSV file")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print results as JSON")
	cmd.Flags().StringVar(&fetcherType, "fetcher", "", "fetch backend: http, browser")

	return cmd
}

// runAnalyze executes the analyze command.
func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg)

	asin := scraper.ExtractASIN(args[0])
	if asin == "" {
		// Bare ASINs are accepted on the CLI for convenience.
		if candidate := strings.ToUpper(strings.TrimSpace(args[0])); scraper.ValidASIN(candidate) {
			asin = candidate
		} else {
			return fmt.Errorf("not a recognizable Amazon product URL or ASIN: %s", args[0])
		}
	}

	f, err := newFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	defer f.Close()

	listing := scraper.NewListingScraper(f, cfg, logger)
	reviews := scraper.NewReviewScraper(f, cfg, logger)
	sentiment := ai.NewClient(&cfg.AI, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()

	info, err := listing.FetchListing(ctx, asin)
	if err != nil {
		return fmt.Errorf("fetch listing: %w", err)
	}

	harvested := reviews.Harvest(ctx, asin, cfg.Scraper.MaxReviews)

	classified := make([]types.ClassifiedReview, 0, len(harvested))
	for _, rv := range harvested {
		classified = append(classified, types.ClassifiedReview{
			Text:      rv.Text,
			Rating:    rv.Rating,
			Sentiment: sentiment.ClassifySentiment(ctx, rv.Text),
		})
	}

	summary := sentiment.Summarize(ctx, classified)
	stats := types.Tally(classified)
	elapsed := time.Since(start)

	if jsonOut {
		out := map[string]any{
			"product":         info,
			"reviews":         classified,
			"sentiment_stats": stats,
			"summary":         summary,
			"total_reviews":   len(classified),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		fmt.Printf("Product:   %s\n", info.ProductName)
		fmt.Printf("Rating:    %.1f (%d reviews)\n", info.AvgRating, info.TotalReviews)
		fmt.Printf("Analyzed:  %d reviews in %s\n", len(classified), elapsed.Round(time.Millisecond))
		fmt.Printf("Sentiment: %d positive, %d negative, %d neutral\n",
			stats.Positive, stats.Negative, stats.Neutral)
		fmt.Printf("\n%s\n", summary)
	}

	if csvPath != "" {
		records := make([]export.Record, 0, len(classified))
		for _, cr := range classified {
			records = append(records, export.Record{
				Rating:    cr.Rating,
				Sentiment: string(cr.Sentiment),
				Text:      cr.Text,
			})
		}
		if err := os.WriteFile(csvPath, []byte(export.Build(records)), 0o644); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		logger.Info("csv written", "path", csvPath, "records", len(records))
	}

	return nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ReviewLens %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Server:\n")
			fmt.Printf("  Host:              %s\n", cfg.Server.Host)
			fmt.Printf("  Port:              %d\n", cfg.Server.Port)
			fmt.Printf("  Debug:             %v\n", cfg.Server.Debug)
			fmt.Printf("\nScraper:\n")
			fmt.Printf("  Base URL:          %s\n", cfg.Scraper.BaseURL)
			fmt.Printf("  Fetcher:           %s\n", cfg.Scraper.FetcherType)
			fmt.Printf("  Request Timeout:   %s\n", cfg.Scraper.RequestTimeout)
			fmt.Printf("  Page Delay:        %s\n", cfg.Scraper.PageDelay)
			fmt.Printf("  Max Reviews:       %d\n", cfg.Scraper.MaxReviews)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Scraper.MaxBodySize)
			fmt.Printf("\nAI:\n")
			fmt.Printf("  Model:             %s\n", cfg.AI.Model)
			fmt.Printf("  API Key Set:       %v\n", cfg.AI.APIKey != "")
			if cfg.AI.BaseURL != "" {
				fmt.Printf("  Base URL:          %s\n", cfg.AI.BaseURL)
			}
			fmt.Printf("\nLogging:\n")
			fmt.Printf("  Level:             %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:            %s\n", cfg.Logging.Format)
			return nil
		},
	}
	return cmd
}

// newFetcher builds the fetch backend selected by the configuration.
func newFetcher(cfg *config.Config, logger *slog.Logger) (fetcher.Fetcher, error) {
	if cfg.Scraper.FetcherType == "browser" {
		return fetcher.NewBrowserFetcher(cfg, logger)
	}
	return fetcher.NewHTTPFetcher(cfg, logger)
}

// setupLogger creates a structured logger from the logging config.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose || cfg.Server.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if fetcherType != "" {
		cfg.Scraper.FetcherType = strings.ToLower(fetcherType)
	}
	if maxReviews > 0 {
		cfg.Scraper.MaxReviews = maxReviews
	}
}
