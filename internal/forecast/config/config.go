package config

import (
	"time"

	"stock-insight/pkg/config"
)

// Registry holds the model artifact registry configuration.
type Registry struct {
	Dir        string `mapstructure:"dir"`
	RescanCron string `mapstructure:"rescan_cron"`
}

// Runner holds the configuration for the remote model runner.
type Runner struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Cache holds forecast cache tuning.
type Cache struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Config holds the full configuration for the forecast service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	API      config.API      `mapstructure:"api"`
	Redis    config.Redis    `mapstructure:"redis"`
	Registry Registry        `mapstructure:"registry"`
	Runner   Runner          `mapstructure:"runner"`
	Cache    Cache           `mapstructure:"cache"`
	Telegram config.Telegram `mapstructure:"telegram"`
}

// Load loads the forecast configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
