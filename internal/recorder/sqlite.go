package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboard-era reads never block the writer.
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
		`CREATE TABLE IF NOT EXISTS runs (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at        INTEGER NOT NULL,
			finished_at       INTEGER NOT NULL,
			symbols_requested INTEGER,
			rows_fetched      INTEGER,
			symbols_skipped   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS performance_rows (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id             INTEGER NOT NULL,
			symbol             TEXT NOT NULL,
			avg_percent_change REAL,
			volatility         REAL,
			last_closing_price REAL,
			avg_dividend       REAL,
			score              REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_perf_run ON performance_rows(run_id)`,

		`CREATE TABLE IF NOT EXISTS regression_rows (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id   INTEGER NOT NULL,
			symbol   TEXT NOT NULL,
			variable TEXT NOT NULL,
			coef     REAL,
			std_err  REAL,
			t_stat   REAL,
			p_value  REAL,
			ci_lower REAL,
			ci_upper REAL,
			score    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reg_run ON regression_rows(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores one run and its derived tables in a single transaction.
func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs
		(started_at, finished_at, symbols_requested, rows_fetched, symbols_skipped)
		VALUES (?,?,?,?,?)`,
		snap.StartedAt.Unix(), snap.FinishedAt.Unix(),
		len(snap.Symbols), snap.RowsFetched, strings.Join(snap.Skipped, ","),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, p := range snap.Performance {
		if _, err := tx.Exec(`INSERT INTO performance_rows
			(run_id, symbol, avg_percent_change, volatility, last_closing_price, avg_dividend, score)
			VALUES (?,?,?,?,?,?,?)`,
			runID, p.Symbol, nullable(p.AvgPercentChange), nullable(p.Volatility),
			nullable(p.LastClosingPrice), nullable(p.AvgDividend), nullable(p.Score),
		); err != nil {
			return fmt.Errorf("insert performance row: %w", err)
		}
	}

	for _, g := range snap.Regression {
		if _, err := tx.Exec(`INSERT INTO regression_rows
			(run_id, symbol, variable, coef, std_err, t_stat, p_value, ci_lower, ci_upper, score)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			runID, g.Symbol, g.Variable, nullable(g.Coef), nullable(g.StdErr),
			nullable(g.TStat), nullable(g.PValue), nullable(g.CILower),
			nullable(g.CIUpper), nullable(g.Score),
		); err != nil {
			return fmt.Errorf("insert regression row: %w", err)
		}
	}

	return tx.Commit()
}

// nullable maps non-finite floats to SQL NULL; SQLite has no NaN.
func nullable(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
