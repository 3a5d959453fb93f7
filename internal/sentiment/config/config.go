package config

import (
	"time"

	"stock-signal-pipeline/pkg/common"
	"stock-signal-pipeline/pkg/config"
)

// Processor holds the batch-loop tuning for the sentiment stream processor.
type Processor struct {
	BatchSize         int           `mapstructure:"batch_size"`
	IdleInterval      time.Duration `mapstructure:"idle_interval"`
	ErrorInterval     time.Duration `mapstructure:"error_interval"`
	BatchInterval     time.Duration `mapstructure:"batch_interval"`
	PausePollInterval time.Duration `mapstructure:"pause_poll_interval"`
	CheckpointPath    string        `mapstructure:"checkpoint_path"`
}

// AI selects the sentiment scoring provider.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// FinBERT holds the configuration for the FinBERT inference endpoint.
type FinBERT struct {
	BaseURL             string        `mapstructure:"base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	ChunkWords          int           `mapstructure:"chunk_words"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	BaseURL             string        `mapstructure:"base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
}

// Config holds the full configuration for the sentiment service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	Worker    config.Worker   `mapstructure:"worker"`
	Processor Processor       `mapstructure:"processor"`
	AI        AI              `mapstructure:"ai"`
	FinBERT   FinBERT         `mapstructure:"finbert"`
	Gemini    Gemini          `mapstructure:"gemini"`
}

// Load loads the sentiment service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Worker.Role == "" {
		c.Worker.Role = common.RoleSentiment
	}
	if c.Worker.LeaseTTL == "" {
		c.Worker.LeaseTTL = common.DefaultLeaseTTL
	}
	if c.Processor.BatchSize <= 0 {
		c.Processor.BatchSize = 10
	}
	if c.Processor.IdleInterval <= 0 {
		c.Processor.IdleInterval = time.Minute
	}
	if c.Processor.ErrorInterval <= 0 {
		c.Processor.ErrorInterval = time.Minute
	}
	if c.Processor.BatchInterval <= 0 {
		c.Processor.BatchInterval = time.Second
	}
	if c.Processor.PausePollInterval <= 0 {
		c.Processor.PausePollInterval = 5 * time.Second
	}
	if c.Processor.CheckpointPath == "" {
		c.Processor.CheckpointPath = "data/sentiment_checkpoint.json"
	}
	if c.FinBERT.ChunkWords <= 0 {
		c.FinBERT.ChunkWords = 400
	}
	if c.FinBERT.MaxRequestPerMinute <= 0 {
		c.FinBERT.MaxRequestPerMinute = 60
	}
	if c.FinBERT.CacheTTL <= 0 {
		c.FinBERT.CacheTTL = 30 * time.Minute
	}
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	if c.Gemini.MaxRequestPerMinute <= 0 {
		c.Gemini.MaxRequestPerMinute = 10
	}
	if c.Gemini.MaxTokenPerMinute <= 0 {
		c.Gemini.MaxTokenPerMinute = 1000000
	}
	if c.Gemini.CacheTTL <= 0 {
		c.Gemini.CacheTTL = 30 * time.Minute
	}
}
