package infra

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"pnl-research/internal/domain"
)

// Config holds all application configuration. Secrets are loaded from the
// YAML file and then overridden by environment variables so keys never have
// to live on disk.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		Birdeye struct {
			BaseURL           string `yaml:"base_url"`
			APIKey            string `yaml:"api_key"`
			RequestsPerMinute int    `yaml:"requests_per_minute"`
			MinIntervalMS     int    `yaml:"min_interval_ms"`
		} `yaml:"birdeye"`
		Solscan struct {
			BaseURL           string `yaml:"base_url"`
			APIKey            string `yaml:"api_key"`
			RequestsPerMinute int    `yaml:"requests_per_minute"`
		} `yaml:"solscan"`
		Helius struct {
			BaseURL           string `yaml:"base_url"`
			APIKey            string `yaml:"api_key"`
			RequestsPerMinute int    `yaml:"requests_per_minute"`
		} `yaml:"helius"`
	} `yaml:"api"`

	Data struct {
		Dir string `yaml:"dir"`
	} `yaml:"data"`

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	Sync struct {
		Cron          string   `yaml:"cron"`     // cron expression with seconds field
		Interval      string   `yaml:"interval"` // candle interval for scheduled syncs
		LookbackHours int      `yaml:"lookback_hours"`
		Wallets       []string `yaml:"wallets"` // wallets whose trades are synced
	} `yaml:"sync"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the config file, applies environment variable
// overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.Birdeye.RequestsPerMinute == 0 {
		c.API.Birdeye.RequestsPerMinute = 800
	}
	if c.API.Birdeye.MinIntervalMS == 0 {
		c.API.Birdeye.MinIntervalMS = 80
	}
	if c.API.Solscan.RequestsPerMinute == 0 {
		c.API.Solscan.RequestsPerMinute = 1000
	}
	if c.API.Helius.RequestsPerMinute == 0 {
		c.API.Helius.RequestsPerMinute = 300
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Sync.Interval == "" {
		c.Sync.Interval = string(domain.DefaultInterval)
	}
	if c.Sync.LookbackHours == 0 {
		c.Sync.LookbackHours = 24
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.API.Birdeye.BaseURL != "" && !strings.HasPrefix(c.API.Birdeye.BaseURL, "http") {
		return fmt.Errorf("invalid Birdeye base URL: %s", c.API.Birdeye.BaseURL)
	}
	if c.API.Birdeye.RequestsPerMinute <= 0 {
		return fmt.Errorf("birdeye requests_per_minute must be positive")
	}
	if c.API.Solscan.RequestsPerMinute <= 0 {
		return fmt.Errorf("solscan requests_per_minute must be positive")
	}
	if c.API.Helius.RequestsPerMinute <= 0 {
		return fmt.Errorf("helius requests_per_minute must be positive")
	}
	if !domain.Interval(c.Sync.Interval).Valid() {
		return fmt.Errorf("unsupported sync interval: %s", c.Sync.Interval)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}

// MissingKeys lists the API keys that are not configured. The server still
// starts without them; the affected sources just fail closed.
func (c *Config) MissingKeys() []string {
	var missing []string
	if c.API.Birdeye.APIKey == "" {
		missing = append(missing, "PNL_BIRDEYE_KEY")
	}
	if c.API.Solscan.APIKey == "" {
		missing = append(missing, "PNL_SOLSCAN_KEY")
	}
	if c.API.Helius.APIKey == "" {
		missing = append(missing, "PNL_HELIUS_KEY")
	}
	return missing
}

// overrideWithEnv replaces config values with environment variables when set.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("PNL_BIRDEYE_KEY"); key != "" {
		cfg.API.Birdeye.APIKey = key
	}
	if key := os.Getenv("PNL_SOLSCAN_KEY"); key != "" {
		cfg.API.Solscan.APIKey = key
	}
	if key := os.Getenv("PNL_HELIUS_KEY"); key != "" {
		cfg.API.Helius.APIKey = key
	}
	if dir := os.Getenv("PNL_DATA_DIR"); dir != "" {
		cfg.Data.Dir = dir
	}
}
