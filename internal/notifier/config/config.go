package config

import (
	"time"

	"stock-signal-pipeline/pkg/common"
	"stock-signal-pipeline/pkg/config"
)

// QuietHours defines the local-time window during which deliveries are
// withheld. A start later than the end means the window wraps midnight.
type QuietHours struct {
	Enabled bool   `mapstructure:"enabled"`
	Start   string `mapstructure:"start"`
	End     string `mapstructure:"end"`
}

// Weekend defines the Saturday/Sunday suppression behaviour.
type Weekend struct {
	Enabled          bool `mapstructure:"enabled"`
	CollectForMonday bool `mapstructure:"collect_for_monday"`
}

// Notification holds the gate's polling and suppression settings.
type Notification struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timezone     string        `mapstructure:"timezone"`
	QuietHours   QuietHours    `mapstructure:"quiet_hours"`
	Weekend      Weekend       `mapstructure:"weekend"`
	SummaryCron  string        `mapstructure:"summary_cron"`
}

// Config holds the full configuration for the notifier service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	Worker       config.Worker   `mapstructure:"worker"`
	Telegram     config.Telegram `mapstructure:"telegram"`
	Notification Notification    `mapstructure:"notification"`
}

// Load loads the notifier service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Worker.Role == "" {
		cfg.Worker.Role = common.RoleNotifier
	}
	if cfg.Worker.LeaseTTL == "" {
		cfg.Worker.LeaseTTL = common.DefaultLeaseTTL
	}
	if cfg.Notification.PollInterval <= 0 {
		cfg.Notification.PollInterval = 5 * time.Minute
	}
	if cfg.Notification.QuietHours.Start == "" {
		cfg.Notification.QuietHours.Start = "22:00"
	}
	if cfg.Notification.QuietHours.End == "" {
		cfg.Notification.QuietHours.End = "07:30"
	}
	if cfg.Notification.SummaryCron == "" {
		cfg.Notification.SummaryCron = "0 18 * * *"
	}
	return &cfg, nil
}
