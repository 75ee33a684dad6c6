package config

import (
	pkgConfig "stock-insight/pkg/config"
)

// Gemini holds Google Gemini API settings.
type Gemini struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	VisionModel         string `mapstructure:"vision_model"`
	FallbackModel       string `mapstructure:"fallback_model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// OpenRouter holds OpenRouter API settings.
type OpenRouter struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	VisionModel string `mapstructure:"vision_model"`
	SiteURL     string `mapstructure:"site_url"`
	SiteName    string `mapstructure:"site_name"`
}

// AI selects the model provider backing the agent.
type AI struct {
	Provider string `mapstructure:"provider"` // gemini or openrouter
}

// News holds headline feed settings.
type News struct {
	FeedBaseURL string `mapstructure:"feed_base_url"`
	MaxItems    int    `mapstructure:"max_items"`
	CacheTTL    int    `mapstructure:"cache_ttl"` // seconds
}

// Chat holds conversation behavior settings.
type Chat struct {
	MaxExchanges     int `mapstructure:"max_exchanges"`
	ContextExchanges int `mapstructure:"context_exchanges"`
}

// Config holds the agent service configuration.
type Config struct {
	App        pkgConfig.App    `mapstructure:"app"`
	Logger     pkgConfig.Logger `mapstructure:"logger"`
	API        pkgConfig.API    `mapstructure:"api"`
	AI         AI               `mapstructure:"ai"`
	Gemini     Gemini           `mapstructure:"gemini"`
	OpenRouter OpenRouter       `mapstructure:"open_router"`
	News       News             `mapstructure:"news"`
	Chat       Chat             `mapstructure:"chat"`
}

// Load reads the agent service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := pkgConfig.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Chat.MaxExchanges <= 0 {
		cfg.Chat.MaxExchanges = 10
	}
	if cfg.Chat.ContextExchanges <= 0 {
		cfg.Chat.ContextExchanges = 3
	}
	if cfg.News.MaxItems <= 0 {
		cfg.News.MaxItems = 5
	}
	return &cfg, nil
}
