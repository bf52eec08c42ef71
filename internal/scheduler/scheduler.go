package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"BreakoutSentinel/internal/metrics"
	"BreakoutSentinel/internal/model"
	"BreakoutSentinel/internal/notifier"
	"BreakoutSentinel/internal/recorder"
	"BreakoutSentinel/internal/screener"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the daily screening task and serves bot commands.
type Scheduler struct {
	Cron     *cron.Cron
	Screener *screener.Screener
	Notifier *notifier.TelegramNotifier
	Recorder recorder.Recorder
	Health   *metrics.HealthStatus
	TopN     int
	Ctx      context.Context

	mu          sync.Mutex
	running     bool
	lastResults []*model.ScreenResult
	lastStats   *screener.RunStats
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, scr *screener.Screener, tn *notifier.TelegramNotifier, rec recorder.Recorder, health *metrics.HealthStatus, topN int) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Screener: scr,
		Notifier: tn,
		Recorder: rec,
		Health:   health,
		TopN:     topN,
		Ctx:      ctx,
	}
}

// RegisterAll registers the daily screening task.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyScreen); err != nil {
		return fmt.Errorf("register daily screen: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScreenNow executes the screening task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunScreenNow() {
	s.dailyScreen()
}

func (s *Scheduler) dailyScreen() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("[WARN] screening already in progress, skipping trigger")
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log.Println("[INFO] running daily screen")
	results, stats, err := s.Screener.Run(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] daily screen: %v", err)
		s.trySend(fmt.Sprintf("❌ 选股任务失败: %v", err))
		if s.Health != nil {
			s.Health.SetLastRun(time.Now(), false)
		}
		return
	}

	s.mu.Lock()
	s.lastResults = results
	s.lastStats = stats
	s.mu.Unlock()

	s.trySend(notifier.FormatScreenReport(results, stats, s.TopN))
	s.record(results, stats)
	if s.Health != nil {
		s.Health.SetLastRun(time.Now(), true)
	}
}

func (s *Scheduler) record(results []*model.ScreenResult, stats *screener.RunStats) {
	if err := s.Recorder.RecordRun(&recorder.RunRecord{
		StartedAt: stats.StartedAt,
		Duration:  stats.Duration,
		Total:     stats.Total,
		Analyzed:  stats.Analyzed,
		Filtered:  stats.Filtered,
		Qualified: stats.Qualified,
		Signals:   stats.Signals,
		Errors:    stats.Errors,
		OK:        true,
	}); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	for _, res := range results {
		if err := s.Recorder.RecordAnalysis(&recorder.AnalysisRecord{Result: res}); err != nil {
			log.Printf("[ERROR] record analysis %s: %v", res.Stock.Code, err)
			continue
		}
		if res.Latest.HasBreakout &&
			(res.Recommendation.Action == model.ActionBuy || res.Recommendation.Action == model.ActionStrongBuy) {
			if err := s.Recorder.RecordSignal(&recorder.SignalRecord{Result: res}); err != nil {
				log.Printf("[ERROR] record signal %s: %v", res.Stock.Code, err)
			}
		}
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/screen", "选股":
		go s.dailyScreen()
		return "⏳ 已开始全市场筛选, 完成后推送结果"
	case "/top", "详情":
		s.mu.Lock()
		defer s.mu.Unlock()
		if len(s.lastResults) == 0 {
			return "暂无筛选结果, 请先执行 /screen"
		}
		return notifier.FormatResultDetail(s.lastResults[0])
	case "/status", "状态":
		return s.statusReply()
	case "/help", "帮助":
		return notifier.FormatHelp()
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) statusReply() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return "⏳ 筛选进行中..."
	}
	if s.lastStats == nil {
		return "尚未执行过筛选"
	}
	return fmt.Sprintf("✅ 上次筛选: %s\n扫描 %d 只, 入选 %d 只, 信号 %d 个, 失败 %d",
		s.lastStats.StartedAt.Format("2006-01-02 15:04"),
		s.lastStats.Total, s.lastStats.Qualified, s.lastStats.Signals, s.lastStats.Errors)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
