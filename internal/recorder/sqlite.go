package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ChanSentinel/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists analysis history to a SQLite database.
type SQLiteRecorder struct {
	db   *sql.DB
	keep int
	mu   sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
// keep is the number of most recent batches retained; older batches are
// pruned on every insert.
func NewSQLiteRecorder(dbPath string, keep int) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers don't block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if keep <= 0 {
		keep = 20
	}
	r := &SQLiteRecorder{db: db, keep: keep}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_batches (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			analyzed  INTEGER,
			signals   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_batches_ts ON analysis_batches(timestamp)`,

		`CREATE TABLE IF NOT EXISTS analysis_results (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id      INTEGER NOT NULL,
			code          TEXT,
			name          TEXT,
			price         REAL,
			change        REAL,
			zone_low      REAL,
			zone_high     REAL,
			stroke_count  INTEGER,
			signal        TEXT,
			action        TEXT,
			entry_price   REAL,
			stop_loss     REAL,
			target_price  REAL,
			risk_level    TEXT,
			grade         TEXT,
			total_score   INTEGER,
			probability   REAL,
			suggestion    TEXT,
			FOREIGN KEY(batch_id) REFERENCES analysis_batches(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_batch ON analysis_results(batch_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_code ON analysis_results(code)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordBatch inserts one batch with all its per-instrument rows, then
// prunes batches beyond the retention window.
func (r *SQLiteRecorder) RecordBatch(at time.Time, results []*model.AnalysisResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	signals := 0
	for _, res := range results {
		if res.Signal != model.SignalNone {
			signals++
		}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	batch, err := tx.Exec(`INSERT INTO analysis_batches (timestamp, analyzed, signals) VALUES (?,?,?)`,
		at.Unix(), len(results), signals)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	batchID, err := batch.LastInsertId()
	if err != nil {
		return fmt.Errorf("batch id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO analysis_results
		(batch_id, code, name, price, change, zone_low, zone_high, stroke_count,
		 signal, action, entry_price, stop_loss, target_price, risk_level,
		 grade, total_score, probability, suggestion)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, res := range results {
		var grade string
		var totalScore int
		var probability float64
		if res.Score != nil {
			grade = res.Score.Grade
			totalScore = res.Score.TotalScore
			probability = res.Score.Probability
		}
		if _, err := stmt.Exec(batchID, res.Code, res.Name, res.Price, res.Change,
			res.ZoneLow, res.ZoneHigh, res.StrokeCount,
			res.Signal, res.Action, res.EntryPrice, res.StopLoss, res.TargetPrice,
			res.RiskLevel, grade, totalScore, probability, res.Suggestion); err != nil {
			return fmt.Errorf("insert result %s: %w", res.Code, err)
		}
	}

	// Rolling retention: keep only the most recent batches.
	if _, err := tx.Exec(`DELETE FROM analysis_results WHERE batch_id NOT IN
		(SELECT id FROM analysis_batches ORDER BY timestamp DESC, id DESC LIMIT ?)`, r.keep); err != nil {
		return fmt.Errorf("prune results: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM analysis_batches WHERE id NOT IN
		(SELECT id FROM analysis_batches ORDER BY timestamp DESC, id DESC LIMIT ?)`, r.keep); err != nil {
		return fmt.Errorf("prune batches: %w", err)
	}

	return tx.Commit()
}

// RecentBatches returns the n most recent batch summaries, newest first.
func (r *SQLiteRecorder) RecentBatches(n int) ([]BatchSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, analyzed, signals
		FROM analysis_batches ORDER BY timestamp DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var out []BatchSummary
	for rows.Next() {
		var b BatchSummary
		var ts int64
		if err := rows.Scan(&b.ID, &ts, &b.Analyzed, &b.Signals); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.Timestamp = time.Unix(ts, 0)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
