package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"BreakoutSentinel/internal/collector"
	"BreakoutSentinel/internal/config"
	"BreakoutSentinel/internal/metrics"
	"BreakoutSentinel/internal/notifier"
	"BreakoutSentinel/internal/recorder"
	"BreakoutSentinel/internal/scheduler"
	"BreakoutSentinel/internal/screener"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	_ = godotenv.Load() // best-effort
	log.Println("[INFO] BreakoutSentinel starting...")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "tushare":
		fetcher = collector.NewTushareFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	default:
		fetcher = collector.NewQuoteAPIFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	analyzer := collector.NewAnalyzer(fetcher, cfg.CalculatorConfig(), collector.Filter{
		LookbackDays: cfg.Screen.LookbackDays,
		MinPrice:     cfg.Screen.MinPrice,
		MaxPrice:     cfg.Screen.MaxPrice,
		MinAmount:    cfg.Screen.MinAmount,
		IncludeST:    cfg.Screen.IncludeST,
		RSIFloor:     cfg.Screen.RSIFloor,
		RSICeiling:   cfg.Screen.RSICeiling,
	})

	health := metrics.NewHealthStatus()

	var m *metrics.Metrics
	var msrv *metrics.Server
	if cfg.Metrics.ListenAddr != "" {
		m = metrics.New()
		msrv = metrics.NewServer(cfg.Metrics.ListenAddr, health)
		msrv.Start()
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		_ = os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755)
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			health.SetSQLiteOK(true)
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
		health.SetSQLiteOK(true)
	}

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scr := screener.New(analyzer, cfg.Screen.Workers, cfg.Screen.ScoreThreshold, m)
	sched := scheduler.NewScheduler(ctx, scr, tn, rec, health, cfg.Screen.TopN)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing screen now")
		go sched.RunScreenNow()
	}

	log.Println("[INFO] BreakoutSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	if msrv != nil {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		msrv.Stop(shutCtx)
		shutCancel()
	}
	log.Println("[INFO] BreakoutSentinel stopped")
}
