// Package store keeps the run audit trail. Classification itself is
// stateless; the database only records what each run decided so
// operators can review and diff runs after the fact.
package store

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"storebot/internal/batch"
	"storebot/internal/domain"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		run_date       DATETIME NOT NULL,
		total          INTEGER NOT NULL,
		hours_changes  INTEGER NOT NULL DEFAULT 0,
		temp_closures  INTEGER NOT NULL DEFAULT 0,
		perm_closures  INTEGER NOT NULL DEFAULT 0,
		addr_changes   INTEGER NOT NULL DEFAULT 0,
		no_change      INTEGER NOT NULL DEFAULT 0,
		errors         INTEGER NOT NULL DEFAULT 0,
		tokens_total   INTEGER NOT NULL DEFAULT 0,
		workbook_path  TEXT DEFAULT '',
		created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_runs_run_date ON runs(run_date);

	CREATE TABLE IF NOT EXISTS run_classifications (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id      INTEGER NOT NULL,
		store_id    TEXT NOT NULL,
		business_id TEXT DEFAULT '',
		action      TEXT NOT NULL,
		category    TEXT DEFAULT '',
		confidence  REAL NOT NULL,
		reason      TEXT DEFAULT '',
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_rc_run ON run_classifications(run_id);
	CREATE INDEX IF NOT EXISTS idx_rc_store ON run_classifications(store_id);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return db, nil
}

// RunRecord summarizes one completed batch run.
type RunRecord struct {
	ID           int64
	RunDate      time.Time
	Total        int
	HoursChanges int
	TempClosures int
	PermClosures int
	AddrChanges  int
	NoChange     int
	Errors       int
	TokensTotal  int64
	WorkbookPath string
}

// RecordRun inserts the run summary row and returns its id.
func RecordRun(db *sql.DB, runDate time.Time, summary batch.Summary, tokensTotal int64, workbookPath string) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO runs (run_date, total, hours_changes, temp_closures, perm_closures, addr_changes, no_change, errors, tokens_total, workbook_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runDate, summary.Total,
		summary.Counts[domain.ActionChangeHours],
		summary.Counts[domain.ActionTemporaryClosure],
		summary.Counts[domain.ActionPermanentClosure],
		summary.Counts[domain.ActionAddressChange],
		summary.Counts[domain.ActionNoChange],
		summary.Counts[domain.ActionError],
		tokensTotal, workbookPath,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordClassifications stores every row of a run in one transaction.
func RecordClassifications(db *sql.DB, runID int64, annotated []batch.Annotated) error {
	if len(annotated) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO run_classifications (run_id, store_id, business_id, action, category, confidence, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range annotated {
		if _, err := stmt.Exec(
			runID, a.Observation.StoreID, a.Observation.BusinessID,
			string(a.Result.Action), a.Result.SummaryCategory,
			a.Result.Confidence, a.Result.Reason,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecentRuns returns the newest runs first.
func RecentRuns(db *sql.DB, limit int) ([]RunRecord, error) {
	rows, err := db.Query(
		`SELECT id, run_date, total, hours_changes, temp_closures, perm_closures, addr_changes, no_change, errors, tokens_total, workbook_path
		 FROM runs ORDER BY run_date DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(
			&r.ID, &r.RunDate, &r.Total, &r.HoursChanges, &r.TempClosures,
			&r.PermClosures, &r.AddrChanges, &r.NoChange, &r.Errors,
			&r.TokensTotal, &r.WorkbookPath,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClassificationsForStore returns a store's decisions across runs,
// newest first.
func ClassificationsForStore(db *sql.DB, storeID string, limit int) ([]StoreHistory, error) {
	rows, err := db.Query(
		`SELECT run_id, action, category, confidence, created_at
		 FROM run_classifications
		 WHERE store_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		storeID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoreHistory
	for rows.Next() {
		var h StoreHistory
		if err := rows.Scan(&h.RunID, &h.Action, &h.Category, &h.Confidence, &h.ClassifiedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

type StoreHistory struct {
	RunID        int64
	Action       string
	Category     string
	Confidence   float64
	ClassifiedAt time.Time
}
