package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists screening history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (Grafana reads while the screener writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS screen_runs (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at INTEGER NOT NULL,
			duration_ms INTEGER,
			total      INTEGER,
			analyzed   INTEGER,
			filtered   INTEGER,
			qualified  INTEGER,
			signals    INTEGER,
			errors     INTEGER,
			ok         INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON screen_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS stock_analyses (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			code              TEXT NOT NULL,
			name              TEXT,
			price             REAL,
			amount            REAL,
			rsi               REAL,
			kdj_k             REAL,
			kdj_d             REAL,
			kdj_j             REAL,
			volume_ratio      REAL,
			platform_high     REAL,
			platform_low      REAL,
			volatility        REAL,
			platform_days     INTEGER,
			is_platform       INTEGER,
			has_breakout      INTEGER,
			breakout_strength REAL,
			score             REAL,
			action            TEXT,
			confidence        REAL,
			reasons           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_ts ON stock_analyses(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_code ON stock_analyses(code)`,

		`CREATE TABLE IF NOT EXISTS trading_signals (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			code              TEXT NOT NULL,
			name              TEXT,
			price             REAL,
			platform_high     REAL,
			breakout_strength REAL,
			volume_ratio      REAL,
			score             REAL,
			action            TEXT,
			confidence        REAL,
			reasons           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON trading_signals(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_code ON trading_signals(code)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ok := 0
	if rec.OK {
		ok = 1
	}
	_, err := r.db.Exec(`INSERT INTO screen_runs
		(started_at, duration_ms, total, analyzed, filtered, qualified, signals, errors, ok)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		rec.StartedAt.Unix(), rec.Duration.Milliseconds(),
		rec.Total, rec.Analyzed, rec.Filtered, rec.Qualified,
		rec.Signals, rec.Errors, ok,
	)
	return err
}

func (r *SQLiteRecorder) RecordAnalysis(rec *AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := rec.Result
	row := res.Latest
	recn := res.Recommendation

	var platHigh, platLow, volatility float64
	var platDays int
	if res.Platform != nil {
		platHigh = res.Platform.HighBound
		platLow = res.Platform.LowBound
		volatility = res.Platform.Volatility
		platDays = res.Platform.Length
	}

	_, err := r.db.Exec(`INSERT INTO stock_analyses
		(timestamp, code, name, price, amount, rsi, kdj_k, kdj_d, kdj_j, volume_ratio,
		 platform_high, platform_low, volatility, platform_days,
		 is_platform, has_breakout, breakout_strength,
		 score, action, confidence, reasons)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), res.Stock.Code, res.Stock.Name,
		res.LatestPrice, res.LatestAmount,
		row.RSI, row.K, row.D, row.J, row.VolumeRatio,
		platHigh, platLow, volatility, platDays,
		boolInt(row.IsPlatform), boolInt(row.HasBreakout), row.BreakoutStrength,
		recn.Score, string(recn.Action), recn.Confidence,
		strings.Join(recn.Reasons, "; "),
	)
	return err
}

func (r *SQLiteRecorder) RecordSignal(rec *SignalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := rec.Result
	recn := res.Recommendation

	var platHigh float64
	if res.Platform != nil {
		platHigh = res.Platform.HighBound
	}

	_, err := r.db.Exec(`INSERT INTO trading_signals
		(timestamp, code, name, price, platform_high, breakout_strength, volume_ratio,
		 score, action, confidence, reasons)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), res.Stock.Code, res.Stock.Name, res.LatestPrice,
		platHigh, res.Latest.BreakoutStrength, res.Latest.VolumeRatio,
		recn.Score, string(recn.Action), recn.Confidence,
		strings.Join(recn.Reasons, "; "),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
