package config

import (
	"os"
	"path/filepath"
	"strings"
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

const minimalYAML = `
telegram:
  bot_token: "token"
  chat_id: "12345"
data_source:
  provider: quote
  base_url: "http://localhost:8080"
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Strategy.PlatformWindow != 20 {
		t.Errorf("platform_window default: expected 20, got %d", cfg.Strategy.PlatformWindow)
	}
	if cfg.Strategy.VolumeThreshold != 2.0 {
		t.Errorf("volume_threshold default: expected 2.0, got %.1f", cfg.Strategy.VolumeThreshold)
	}
	if cfg.Screen.LookbackDays != 60 {
		t.Errorf("lookback_days default: expected 60, got %d", cfg.Screen.LookbackDays)
	}
	if cfg.Screen.ScoreThreshold != 60 {
		t.Errorf("score_threshold default: expected 60, got %.0f", cfg.Screen.ScoreThreshold)
	}
	if cfg.Screen.IncludeST {
		t.Error("ST names must be excluded by default")
	}
	if cfg.Schedule.DailyCron == "" {
		t.Error("daily cron default missing")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("minimal config should validate, got %v", err)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML+`
strategy:
  platform_window: 30
  max_volatility: 0.10
screen:
  workers: 16
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Strategy.PlatformWindow != 30 {
		t.Errorf("platform_window: expected 30, got %d", cfg.Strategy.PlatformWindow)
	}
	if cfg.Strategy.MaxVolatility != 0.10 {
		t.Errorf("max_volatility: expected 0.10, got %.2f", cfg.Strategy.MaxVolatility)
	}
	if cfg.Screen.Workers != 16 {
		t.Errorf("workers: expected 16, got %d", cfg.Screen.Workers)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("SCREEN_WORKERS", "4")

	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.BotToken != "env-token" {
		t.Errorf("bot token: expected env override, got %q", cfg.Telegram.BotToken)
	}
	if cfg.Screen.Workers != 4 {
		t.Errorf("workers: expected env override 4, got %d", cfg.Screen.Workers)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing token", func(c *Config) { c.Telegram.BotToken = "" }, "bot_token"},
		{"missing chat", func(c *Config) { c.Telegram.ChatID = "" }, "chat_id"},
		{"missing base url", func(c *Config) { c.DataSource.BaseURL = "" }, "base_url"},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "csv" }, "provider"},
		{"min days above window", func(c *Config) { c.Strategy.MinPlatformDays = 25 }, "min_platform_days"},
		{"lookback too short", func(c *Config) { c.Screen.LookbackDays = 10 }, "lookback_days"},
	}
	for _, tt := range tests {
		cfg, err := Load(writeConfig(t, minimalYAML))
		if err != nil {
			t.Fatalf("%s: load: %v", tt.name, err)
		}
		tt.mutate(cfg)
		err = cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: expected error mentioning %q, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestValidate_TushareNeedsToken(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
telegram:
  bot_token: "token"
  chat_id: "12345"
data_source:
  provider: tushare
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "api_key") {
		t.Errorf("tushare without a token must fail validation, got %v", err)
	}

	cfg.DataSource.APIKey = "ts-token"
	if err := cfg.Validate(); err != nil {
		t.Errorf("tushare with a token should validate, got %v", err)
	}
}
