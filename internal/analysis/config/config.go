package config

import (
	"time"

	"stock-insight/pkg/config"
)

// YahooFinance holds the configuration for the Yahoo Finance chart API.
type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
}

// Forecast holds the configuration for the downstream forecast service.
type Forecast struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Analysis holds analysis-specific tuning.
type Analysis struct {
	DefaultPeriod string `mapstructure:"default_period"`
}

// Config holds the full configuration for the analysis service.
type Config struct {
	App          config.App    `mapstructure:"app"`
	Logger       config.Logger `mapstructure:"logger"`
	API          config.API    `mapstructure:"api"`
	YahooFinance YahooFinance  `mapstructure:"yahoo_finance"`
	Forecast     Forecast      `mapstructure:"forecast"`
	Analysis     Analysis      `mapstructure:"analysis"`
}

// Load loads the analysis configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
