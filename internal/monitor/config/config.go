package config

import (
	"time"

	"stock-signal-pipeline/pkg/common"
	"stock-signal-pipeline/pkg/config"
)

// WorkerRole names one long-running process the supervisor keeps alive:
// the token identifies it in the process table, the command restarts it.
type WorkerRole struct {
	Name    string   `mapstructure:"name"`
	Token   string   `mapstructure:"token"`
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// Monitor holds the supervisor tuning.
type Monitor struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	DiskPath     string        `mapstructure:"disk_path"`
	Workers      []WorkerRole  `mapstructure:"workers"`
}

// Config holds the full configuration for the monitor service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	Worker   config.Worker   `mapstructure:"worker"`
	API      config.API      `mapstructure:"api"`
	Monitor  Monitor         `mapstructure:"monitor"`
}

// Load loads the monitor service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Worker.Role == "" {
		cfg.Worker.Role = common.RoleMonitor
	}
	if cfg.Worker.LeaseTTL == "" {
		cfg.Worker.LeaseTTL = common.DefaultLeaseTTL
	}
	if cfg.Monitor.PollInterval <= 0 {
		cfg.Monitor.PollInterval = time.Minute
	}
	if cfg.Monitor.DiskPath == "" {
		cfg.Monitor.DiskPath = "/"
	}
	return &cfg, nil
}
