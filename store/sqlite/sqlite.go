// Package sqlite caches fetched observations and records generated
// reports in a local SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/curvewatch/curvewatch/series"
)

// Report is one recorded report generation run.
type Report struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Provider  string    `json:"provider"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages observation and report persistence in SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS observations (
			series_id TEXT NOT NULL,
			date      TEXT NOT NULL,
			value     REAL NOT NULL,
			source    TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (series_id, date)
		);

		CREATE TABLE IF NOT EXISTS reports (
			id         TEXT PRIMARY KEY,
			key        TEXT NOT NULL,
			number     INTEGER NOT NULL DEFAULT 0,
			title      TEXT NOT NULL DEFAULT '',
			provider   TEXT NOT NULL DEFAULT '',
			body       TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_reports_key
			ON reports(key, created_at);
	`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutSeries upserts all observations of a series into the cache.
func (s *Store) PutSeries(sr *series.Series) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO observations (series_id, date, value, source)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (series_id, date) DO UPDATE SET value = excluded.value, source = excluded.source`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range sr.Points {
		if _, err := stmt.Exec(sr.Name, p.Date.Format("2006-01-02"), p.Value, sr.Source); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetSeries loads cached observations for a series from start onward.
// A zero start returns the full history.
func (s *Store) GetSeries(seriesID string, start time.Time) (*series.Series, error) {
	startStr := ""
	if !start.IsZero() {
		startStr = start.Format("2006-01-02")
	}

	rows, err := s.db.Query(
		`SELECT date, value, source FROM observations
		 WHERE series_id = ? AND date >= ?
		 ORDER BY date ASC`,
		seriesID, startStr,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sr := &series.Series{Name: seriesID}
	for rows.Next() {
		var dateStr, source string
		var value float64
		if err := rows.Scan(&dateStr, &value, &source); err != nil {
			return nil, err
		}
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt date %q for %s: %w", dateStr, seriesID, err)
		}
		sr.Points = append(sr.Points, series.Point{Date: d, Value: value})
		sr.Source = source
	}
	return sr, rows.Err()
}

// AddReport records a generated report.
func (s *Store) AddReport(r *Report) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO reports (id, key, number, title, provider, body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Key, r.Number, r.Title, r.Provider, r.Body, r.CreatedAt,
	)
	return err
}

// LatestReport returns the most recent report for a key, or sql.ErrNoRows
// when none has been recorded.
func (s *Store) LatestReport(key string) (*Report, error) {
	row := s.db.QueryRow(
		`SELECT id, key, number, title, provider, body, created_at
		 FROM reports WHERE key = ?
		 ORDER BY created_at DESC, number DESC LIMIT 1`,
		key,
	)

	var r Report
	if err := row.Scan(&r.ID, &r.Key, &r.Number, &r.Title, &r.Provider, &r.Body, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
