package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"BreakoutSentinel/internal/calculator"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider string `yaml:"provider"` // "quote" (REST bars API) or "tushare"
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"data_source"`
	Strategy struct {
		PlatformWindow  int     `yaml:"platform_window"`
		MaxVolatility   float64 `yaml:"max_volatility"`
		MinPlatformDays int     `yaml:"min_platform_days"`
		MACohesion      float64 `yaml:"ma_cohesion"`
		VolumeThreshold float64 `yaml:"volume_threshold"`
		PriceThreshold  float64 `yaml:"price_threshold"`
		MAWindows       []int   `yaml:"ma_windows"`
		EMAWindows      []int   `yaml:"ema_windows"`
		BollPeriod      int     `yaml:"boll_period"`
		BollStdDev      float64 `yaml:"boll_std_dev"`
		MACDFast        int     `yaml:"macd_fast"`
		MACDSlow        int     `yaml:"macd_slow"`
		MACDSignal      int     `yaml:"macd_signal"`
		KDJPeriod       int     `yaml:"kdj_period"`
		KDJSmoothing    int     `yaml:"kdj_smoothing"`
		RSIPeriod       int     `yaml:"rsi_period"`
		VolumePeriod    int     `yaml:"volume_period"`
	} `yaml:"strategy"`
	Screen struct {
		LookbackDays   int     `yaml:"lookback_days"`
		MinPrice       float64 `yaml:"min_price"`
		MaxPrice       float64 `yaml:"max_price"`
		MinAmount      float64 `yaml:"min_amount"` // daily turnover floor, CNY
		IncludeST      bool    `yaml:"include_st"` // ST names are skipped unless set
		RSIFloor       float64 `yaml:"rsi_floor"`
		RSICeiling     float64 `yaml:"rsi_ceiling"`
		ScoreThreshold float64 `yaml:"score_threshold"`
		TopN           int     `yaml:"top_n"`
		Workers        int     `yaml:"workers"`
	} `yaml:"screen"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("QUOTE_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("QUOTE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("QUOTE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.ListenAddr = v
	}
	if v := os.Getenv("SCREEN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Screen.Workers = n
		}
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	s := &cfg.Strategy
	def := calculator.DefaultConfig()
	if s.PlatformWindow == 0 {
		s.PlatformWindow = def.PlatformWindow
	}
	if s.MaxVolatility == 0 {
		s.MaxVolatility = def.MaxVolatility
	}
	if s.MinPlatformDays == 0 {
		s.MinPlatformDays = def.MinPlatformDays
	}
	if s.MACohesion == 0 {
		s.MACohesion = def.MACohesion
	}
	if s.VolumeThreshold == 0 {
		s.VolumeThreshold = def.VolumeThreshold
	}
	if s.PriceThreshold == 0 {
		s.PriceThreshold = def.PriceThreshold
	}
	if len(s.MAWindows) == 0 {
		s.MAWindows = def.MAWindows
	}
	if len(s.EMAWindows) == 0 {
		s.EMAWindows = def.EMAWindows
	}
	if s.BollPeriod == 0 {
		s.BollPeriod = def.BollPeriod
	}
	if s.BollStdDev == 0 {
		s.BollStdDev = def.BollStdDev
	}
	if s.MACDFast == 0 {
		s.MACDFast = def.MACDFast
	}
	if s.MACDSlow == 0 {
		s.MACDSlow = def.MACDSlow
	}
	if s.MACDSignal == 0 {
		s.MACDSignal = def.MACDSignal
	}
	if s.KDJPeriod == 0 {
		s.KDJPeriod = def.KDJPeriod
	}
	if s.KDJSmoothing == 0 {
		s.KDJSmoothing = def.KDJSmoothing
	}
	if s.RSIPeriod == 0 {
		s.RSIPeriod = def.RSIPeriod
	}
	if s.VolumePeriod == 0 {
		s.VolumePeriod = def.VolumePeriod
	}

	sc := &cfg.Screen
	if sc.LookbackDays == 0 {
		sc.LookbackDays = 60
	}
	if sc.MinPrice == 0 {
		sc.MinPrice = 5.0
	}
	if sc.MaxPrice == 0 {
		sc.MaxPrice = 200.0
	}
	if sc.MinAmount == 0 {
		sc.MinAmount = 10_000_000
	}
	if sc.RSIFloor == 0 {
		sc.RSIFloor = 30
	}
	if sc.RSICeiling == 0 {
		sc.RSICeiling = 80
	}
	if sc.ScoreThreshold == 0 {
		sc.ScoreThreshold = 60
	}
	if sc.TopN == 0 {
		sc.TopN = 10
	}
	if sc.Workers == 0 {
		sc.Workers = 8
	}

	if cfg.Schedule.DailyCron == "" {
		// A-share close is 15:00 CST; screen after vendor data settles.
		cfg.Schedule.DailyCron = "0 30 17 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/breakout_sentinel.db"
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "quote"
	}
}

// CalculatorConfig converts the strategy section into the indicator
// pipeline's immutable parameter record.
func (c *Config) CalculatorConfig() calculator.Config {
	s := c.Strategy
	return calculator.Config{
		MAWindows:       s.MAWindows,
		EMAWindows:      s.EMAWindows,
		BollPeriod:      s.BollPeriod,
		BollStdDev:      s.BollStdDev,
		MACDFast:        s.MACDFast,
		MACDSlow:        s.MACDSlow,
		MACDSignal:      s.MACDSignal,
		KDJPeriod:       s.KDJPeriod,
		KDJSmoothing:    s.KDJSmoothing,
		RSIPeriod:       s.RSIPeriod,
		VolumePeriod:    s.VolumePeriod,
		PlatformWindow:  s.PlatformWindow,
		MaxVolatility:   s.MaxVolatility,
		MinPlatformDays: s.MinPlatformDays,
		MACohesion:      s.MACohesion,
		VolumeThreshold: s.VolumeThreshold,
		PriceThreshold:  s.PriceThreshold,
	}
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	switch c.DataSource.Provider {
	case "tushare":
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for tushare")
		}
	case "quote":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required")
		}
	default:
		return fmt.Errorf("unknown data_source.provider %q", c.DataSource.Provider)
	}
	if c.Strategy.MinPlatformDays > c.Strategy.PlatformWindow {
		return fmt.Errorf("strategy.min_platform_days must not exceed platform_window")
	}
	if min := c.CalculatorConfig().MinBars(); c.Screen.LookbackDays < min {
		return fmt.Errorf("screen.lookback_days %d is below the %d bars the indicators need",
			c.Screen.LookbackDays, min)
	}
	return nil
}
