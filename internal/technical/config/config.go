package config

import (
	"time"

	"stock-signal-pipeline/pkg/common"
	"stock-signal-pipeline/pkg/config"
)

// Analyzer holds the indicator-evaluation tuning.
type Analyzer struct {
	Symbols      []string      `mapstructure:"symbols"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	LookbackDays int           `mapstructure:"lookback_days"`
	MinBars      int           `mapstructure:"min_bars"`
}

// Config holds the full configuration for the technical service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	Worker   config.Worker   `mapstructure:"worker"`
	Analyzer Analyzer        `mapstructure:"analyzer"`
}

// Load loads the technical service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Worker.Role == "" {
		cfg.Worker.Role = common.RoleTechnical
	}
	if cfg.Worker.LeaseTTL == "" {
		cfg.Worker.LeaseTTL = common.DefaultLeaseTTL
	}
	if cfg.Analyzer.PollInterval <= 0 {
		cfg.Analyzer.PollInterval = 30 * time.Minute
	}
	if cfg.Analyzer.LookbackDays <= 0 {
		cfg.Analyzer.LookbackDays = 90
	}
	if cfg.Analyzer.MinBars <= 0 {
		cfg.Analyzer.MinBars = 30
	}
	return &cfg, nil
}
