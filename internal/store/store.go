// Package store keeps privacy-conscious site analytics in sqlite: hashed
// visitor records and the outcome of contact dispatches. Names, addresses and
// messages typed into the contact form are never written here.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Visitor struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Dispatch is the outcome of one contact submission.
type Dispatch struct {
	ID          int64     `json:"id"`
	SessionHash string    `json:"session_hash"`
	Outcome     string    `json:"outcome"`
	Provider    string    `json:"provider,omitempty"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	DurationMs  int64     `json:"duration_ms"`
	Timestamp   time.Time `json:"timestamp"`
}

type Stats struct {
	TotalVisitors      int64            `json:"total_visitors"`
	UniqueVisitors     int64            `json:"unique_visitors"`
	VisitorsToday      int64            `json:"visitors_today"`
	VisitorsThisWeek   int64            `json:"visitors_this_week"`
	DispatchesByStatus map[string]int64 `json:"dispatches_by_outcome"`
	RecentVisitors     []Visitor        `json:"recent_visitors"`
	RecentDispatches   []Dispatch       `json:"recent_dispatches"`
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS visitors_created_at ON visitors(created_at);
CREATE TABLE IF NOT EXISTS dispatches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_hash TEXT NOT NULL,
	outcome TEXT NOT NULL,
	provider TEXT,
	error_kind TEXT,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);`

// Open opens (creating if needed) the sqlite database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) RecordVisit(ctx context.Context, hashedIP, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, created_at)
		VALUES (?, ?, ?, ?)`,
		hashedIP, userAgent, path, s.now().Unix())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

func (s *Store) RecordDispatch(ctx context.Context, d Dispatch) error {
	ts := d.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dispatches (session_hash, outcome, provider, error_kind, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.SessionHash, d.Outcome, d.Provider, d.ErrorKind, d.DurationMs, ts.Unix())
	if err != nil {
		return fmt.Errorf("record dispatch: %w", err)
	}
	return nil
}

func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visitor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), created_at
		FROM visitors
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query visitors: %w", err)
	}
	defer rows.Close()

	var visitors []Visitor
	for rows.Next() {
		var (
			v  Visitor
			ts int64
		)
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.Timestamp = time.Unix(ts, 0)
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

func (s *Store) RecentDispatches(ctx context.Context, limit int) ([]Dispatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_hash, outcome, COALESCE(provider, ''), COALESCE(error_kind, ''), duration_ms, created_at
		FROM dispatches
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query dispatches: %w", err)
	}
	defer rows.Close()

	var dispatches []Dispatch
	for rows.Next() {
		var (
			d  Dispatch
			ts int64
		)
		if err := rows.Scan(&d.ID, &d.SessionHash, &d.Outcome, &d.Provider, &d.ErrorKind, &d.DurationMs, &ts); err != nil {
			return nil, fmt.Errorf("scan dispatch: %w", err)
		}
		d.Timestamp = time.Unix(ts, 0)
		dispatches = append(dispatches, d)
	}
	return dispatches, rows.Err()
}

// Stats aggregates the admin dashboard numbers.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	stats := &Stats{DispatchesByStatus: make(map[string]int64)}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT hashed_ip),
			COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0)
		FROM visitors`,
		startOfDay.Unix(), now.Add(-7*24*time.Hour).Unix(),
	).Scan(&stats.TotalVisitors, &stats.UniqueVisitors, &stats.VisitorsToday, &stats.VisitorsThisWeek)
	if err != nil {
		return nil, fmt.Errorf("count visitors: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM dispatches GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("count dispatches: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			outcome string
			n       int64
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan dispatch count: %w", err)
		}
		stats.DispatchesByStatus[outcome] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	if stats.RecentDispatches, err = s.RecentDispatches(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}

// PurgeVisitorsBefore deletes visitor records older than cutoff.
func (s *Store) PurgeVisitorsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("purge visitors: %w", err)
	}
	return result.RowsAffected()
}
