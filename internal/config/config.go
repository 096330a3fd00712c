package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for reviewlens. It is constructed once
// at startup and passed by reference into every component that needs it.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  yaml:"server"`
	Scraper ScraperConfig `mapstructure:"scraper" yaml:"scraper"`
	AI      AIConfig      `mapstructure:"ai"      yaml:"ai"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Host  string `mapstructure:"host"  yaml:"host"`
	Port  int    `mapstructure:"port"  yaml:"port"`
	Debug bool   `mapstructure:"debug" yaml:"debug"`
}

// ScraperConfig controls listing and review scraping.
type ScraperConfig struct {
	// BaseURL is the marketplace origin all product URLs are built from.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// FetcherType selects the page fetcher: "http" or "browser".
	FetcherType string `mapstructure:"fetcher_type" yaml:"fetcher_type"`

	// RequestTimeout bounds a single page fetch.
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`

	// PageDelay is the fixed pause between successive review-page fetches.
	PageDelay time.Duration `mapstructure:"page_delay" yaml:"page_delay"`

	// MaxReviews caps the number of reviews harvested per product.
	MaxReviews int `mapstructure:"max_reviews" yaml:"max_reviews"`

	// MaxBodySize caps the bytes read from a response body.
	MaxBodySize int64 `mapstructure:"max_body_size" yaml:"max_body_size"`

	TLSInsecure bool `mapstructure:"tls_insecure" yaml:"tls_insecure"`
}

// AIConfig controls the language-model integration.
type AIConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// BaseURL overrides the OpenAI endpoint (e.g. a local llama.cpp server).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	Model string `mapstructure:"model" yaml:"model"`

	SentimentMaxTokens   int     `mapstructure:"sentiment_max_tokens"  yaml:"sentiment_max_tokens"`
	SentimentTemperature float64 `mapstructure:"sentiment_temperature" yaml:"sentiment_temperature"`
	SummaryMaxTokens     int     `mapstructure:"summary_max_tokens"    yaml:"summary_max_tokens"`
	SummaryTemperature   float64 `mapstructure:"summary_temperature"   yaml:"summary_temperature"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:  "0.0.0.0",
			Port:  5153,
			Debug: false,
		},
		Scraper: ScraperConfig{
			BaseURL:        "https://www.amazon.com",
			FetcherType:    "http",
			RequestTimeout: 15 * time.Second,
			PageDelay:      3 * time.Second,
			MaxReviews:     10,
			MaxBodySize:    10 * 1024 * 1024, // 10MB
		},
		AI: AIConfig{
			Model:                "gpt-3.5-turbo",
			SentimentMaxTokens:   10,
			SentimentTemperature: 0.3,
			SummaryMaxTokens:     300,
			SummaryTemperature:   0.7,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
