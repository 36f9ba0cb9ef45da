package infra

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: "test"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.Birdeye.RequestsPerMinute != 800 {
		t.Errorf("Birdeye rpm = %d, want 800", cfg.API.Birdeye.RequestsPerMinute)
	}
	if cfg.API.Birdeye.MinIntervalMS != 80 {
		t.Errorf("Birdeye min interval = %d, want 80", cfg.API.Birdeye.MinIntervalMS)
	}
	if cfg.Data.Dir != "data" {
		t.Errorf("Data dir = %q, want data", cfg.Data.Dir)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Sync.Interval != "1m" {
		t.Errorf("Interval = %q, want 1m", cfg.Sync.Interval)
	}
	if cfg.Sync.LookbackHours != 24 {
		t.Errorf("LookbackHours = %d, want 24", cfg.Sync.LookbackHours)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PNL_BIRDEYE_KEY", "env-key")
	t.Setenv("PNL_DATA_DIR", "/tmp/pnl-test")

	path := writeConfig(t, `
api:
  birdeye:
    api_key: "file-key"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.Birdeye.APIKey != "env-key" {
		t.Errorf("APIKey = %q, env must win over file", cfg.API.Birdeye.APIKey)
	}
	if cfg.Data.Dir != "/tmp/pnl-test" {
		t.Errorf("Data dir = %q", cfg.Data.Dir)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"Bad Base URL", "api:\n  birdeye:\n    base_url: \"ftp://nope\"\n"},
		{"Bad Interval", "sync:\n  interval: \"7x\"\n"},
		{"Bad Port", "server:\n  port: 99999\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tc.content)); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestMissingKeys(t *testing.T) {
	var cfg Config
	missing := cfg.MissingKeys()
	if len(missing) != 3 {
		t.Fatalf("Expected 3 missing keys, got %v", missing)
	}

	cfg.API.Birdeye.APIKey = "k"
	cfg.API.Solscan.APIKey = "k"
	cfg.API.Helius.APIKey = "k"
	if got := cfg.MissingKeys(); len(got) != 0 {
		t.Errorf("Expected no missing keys, got %v", got)
	}
}
