package metrics

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the screening pipeline.
type Metrics struct {
	SymbolsAnalyzed  prometheus.Counter
	SymbolsQualified prometheus.Counter
	SymbolsFiltered  prometheus.Counter
	SignalsTotal     prometheus.Counter
	AnalysisErrors   prometheus.Counter

	ScreenDuration prometheus.Histogram
	LastQualified  prometheus.Gauge
}

// New registers and returns all metrics.
func New() *Metrics {
	m := &Metrics{
		SymbolsAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_symbols_analyzed_total",
			Help: "Symbols run through the indicator pipeline",
		}),
		SymbolsQualified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_symbols_qualified_total",
			Help: "Symbols passing filters with score above threshold",
		}),
		SymbolsFiltered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_symbols_filtered_total",
			Help: "Symbols skipped by pre/post screening filters",
		}),
		SignalsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_signals_total",
			Help: "Buy signals generated (confirmed breakouts)",
		}),
		AnalysisErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screener_analysis_errors_total",
			Help: "Per-symbol fetch or analysis failures",
		}),
		ScreenDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "screener_run_duration_seconds",
			Help:    "Wall time of a full screening run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		LastQualified: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "screener_last_run_qualified",
			Help: "Qualified symbols in the most recent run",
		}),
	}

	prometheus.MustRegister(
		m.SymbolsAnalyzed,
		m.SymbolsQualified,
		m.SymbolsFiltered,
		m.SignalsTotal,
		m.AnalysisErrors,
		m.ScreenDuration,
		m.LastQualified,
	)
	return m
}

// HealthStatus tracks the last screening run for the /healthz endpoint.
type HealthStatus struct {
	mu sync.RWMutex

	SQLiteOK  bool
	LastRunAt time.Time
	LastRunOK bool
	startedAt time.Time
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{startedAt: time.Now()}
}

func (h *HealthStatus) SetSQLiteOK(v bool) {
	h.mu.Lock()
	h.SQLiteOK = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetLastRun(at time.Time, ok bool) {
	h.mu.Lock()
	h.LastRunAt = at
	h.LastRunOK = ok
	h.mu.Unlock()
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	code := http.StatusOK
	if !h.SQLiteOK || (!h.LastRunAt.IsZero() && !h.LastRunOK) {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	lastRun := ""
	if !h.LastRunAt.IsZero() {
		lastRun = h.LastRunAt.Format(time.RFC3339)
	}
	resp := struct {
		Status    string `json:"status"`
		Uptime    string `json:"uptime"`
		SQLiteOK  bool   `json:"sqlite_ok"`
		LastRunAt string `json:"last_run_at"`
		LastRunOK bool   `json:"last_run_ok"`
	}{
		Status:    status,
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		SQLiteOK:  h.SQLiteOK,
		LastRunAt: lastRun,
		LastRunOK: h.LastRunOK,
	}

	w.Header().Set("Content-Type", "application/json")
	if code != http.StatusOK {
		w.WriteHeader(code)
	}
	json.NewEncoder(w).Encode(resp)
}

// Server exposes /metrics and /healthz.
type Server struct {
	srv *http.Server
}

// NewServer creates the metrics and health server.
func NewServer(addr string, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", health)
	return &Server{srv: &http.Server{Addr: addr, Handler: mux}}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[INFO] metrics server listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[ERROR] metrics server: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	_ = s.srv.Shutdown(ctx)
}
