package config

import (
	"time"

	"stock-signal-pipeline/pkg/common"
	"stock-signal-pipeline/pkg/config"
)

// Fusion holds the signal-fusion tuning.
type Fusion struct {
	Symbols             []string      `mapstructure:"symbols"`
	ConfidenceThreshold float64       `mapstructure:"confidence_threshold"`
	SentimentWindow     int           `mapstructure:"sentiment_window"`
	PollInterval        time.Duration `mapstructure:"poll_interval"`
}

// Config holds the full configuration for the signal service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	Worker   config.Worker   `mapstructure:"worker"`
	Fusion   Fusion          `mapstructure:"fusion"`
}

// Load loads the signal service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Worker.Role == "" {
		cfg.Worker.Role = common.RoleSignal
	}
	if cfg.Worker.LeaseTTL == "" {
		cfg.Worker.LeaseTTL = common.DefaultLeaseTTL
	}
	if cfg.Fusion.ConfidenceThreshold <= 0 {
		cfg.Fusion.ConfidenceThreshold = 0.7
	}
	if cfg.Fusion.SentimentWindow <= 0 {
		cfg.Fusion.SentimentWindow = 5
	}
	if cfg.Fusion.PollInterval <= 0 {
		cfg.Fusion.PollInterval = 30 * time.Minute
	}
	return &cfg, nil
}
