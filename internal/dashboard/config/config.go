package config

import (
	pkgConfig "stock-insight/pkg/config"
)

// Services holds the base URLs handed to the browser client.
type Services struct {
	AnalysisURL string `mapstructure:"analysis_url"`
	ForecastURL string `mapstructure:"forecast_url"`
	AgentURL    string `mapstructure:"agent_url"`
}

// Config holds the dashboard service configuration.
type Config struct {
	App      pkgConfig.App    `mapstructure:"app"`
	Logger   pkgConfig.Logger `mapstructure:"logger"`
	API      pkgConfig.API    `mapstructure:"api"`
	Services Services         `mapstructure:"services"`
}

// Load reads the dashboard configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := pkgConfig.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
