package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from a .env file, the environment, and an
// optional yaml config file. Priority (highest to lowest):
// env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	// A missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("REVIEWLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The names the original service recognized keep working as-is.
	_ = v.BindEnv("ai.api_key", "REVIEWLENS_AI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("server.port", "REVIEWLENS_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.debug", "REVIEWLENS_SERVER_DEBUG", "DEBUG")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("reviewlens")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".reviewlens"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.debug", cfg.Server.Debug)

	v.SetDefault("scraper.base_url", cfg.Scraper.BaseURL)
	v.SetDefault("scraper.fetcher_type", cfg.Scraper.FetcherType)
	v.SetDefault("scraper.request_timeout", cfg.Scraper.RequestTimeout)
	v.SetDefault("scraper.page_delay", cfg.Scraper.PageDelay)
	v.SetDefault("scraper.max_reviews", cfg.Scraper.MaxReviews)
	v.SetDefault("scraper.max_body_size", cfg.Scraper.MaxBodySize)
	v.SetDefault("scraper.tls_insecure", cfg.Scraper.TLSInsecure)

	v.SetDefault("ai.api_key", cfg.AI.APIKey)
	v.SetDefault("ai.base_url", cfg.AI.BaseURL)
	v.SetDefault("ai.model", cfg.AI.Model)
	v.SetDefault("ai.sentiment_max_tokens", cfg.AI.SentimentMaxTokens)
	v.SetDefault("ai.sentiment_temperature", cfg.AI.SentimentTemperature)
	v.SetDefault("ai.summary_max_tokens", cfg.AI.SummaryMaxTokens)
	v.SetDefault("ai.summary_temperature", cfg.AI.SummaryTemperature)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
