package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver
)

// schema holds the query log table. Column names are stable so external
// reporting queries keep working across upgrades.
const schema = `
CREATE TABLE IF NOT EXISTS query_logs (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	query             TEXT NOT NULL,
	response          TEXT NOT NULL,
	domains_consulted TEXT NOT NULL,
	sources           TEXT NOT NULL,
	confidence        REAL NOT NULL,
	timestamp         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_query_logs_user ON query_logs(user_id);
CREATE INDEX IF NOT EXISTS idx_query_logs_timestamp ON query_logs(timestamp);
`

// SQLiteSink persists audit entries to a local SQLite database.
//
// modernc.org/sqlite is a pure Go driver, so no CGO is required.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (and if needed creates) the database at path.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	if path == "" {
		return nil, fmt.Errorf("database path required")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating audit directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating audit schema: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

// Record persists one entry.
func (s *SQLiteSink) Record(ctx context.Context, e *Entry) error {
	id := e.ID
	if id == "" {
		id = uuid.New().String()
	}

	domains, err := json.Marshal(e.Domains)
	if err != nil {
		return fmt.Errorf("encoding domains: %w", err)
	}
	sources, err := json.Marshal(e.Sources)
	if err != nil {
		return fmt.Errorf("encoding sources: %w", err)
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO query_logs (id, user_id, query, response, domains_consulted, sources, confidence, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, e.UserID, e.Query, e.Answer, string(domains), string(sources), e.Confidence, ts.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// Recent returns the latest n entries, newest first. Used by operators to
// inspect query history.
func (s *SQLiteSink) Recent(ctx context.Context, n int) ([]*Entry, error) {
	if n <= 0 {
		n = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, query, response, domains_consulted, sources, confidence, timestamp
		 FROM query_logs ORDER BY timestamp DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var e Entry
		var domains, sources, ts string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Query, &e.Answer, &domains, &sources, &e.Confidence, &ts); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		if err := json.Unmarshal([]byte(domains), &e.Domains); err != nil {
			return nil, fmt.Errorf("decoding domains: %w", err)
		}
		if err := json.Unmarshal([]byte(sources), &e.Sources); err != nil {
			return nil, fmt.Errorf("decoding sources: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
