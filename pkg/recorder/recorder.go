// Package recorder persists message channel traffic to SQLite so preview
// sessions can be replayed and inspected after the fact.
package recorder

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Direction of a recorded message relative to the app iframe.
const (
	DirectionToApp  = "to_app"
	DirectionToHost = "to_host"
)

// Event is one recorded JSON-RPC message.
type Event struct {
	ID        string
	Session   string
	Direction string
	Method    string
	Payload   []byte
	CreatedAt int64
}

// Store owns the SQLite database holding recorded sessions.
type Store struct {
	db   *sql.DB
	path string

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open initializes a SQLite database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &Store{
		db:      db,
		path:    path,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Path returns the underlying SQLite file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Init ensures pragmas and schema are configured.
func (s *Store) Init(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("nil store")
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, stmt := range pragmas {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply pragma %q: %w", stmt, err)
		}
	}
	return s.applySchema(ctx)
}

func (s *Store) applySchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`INSERT OR IGNORE INTO meta(key,value) VALUES ('schemaVersion','1');`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			session TEXT NOT NULL,
			direction TEXT NOT NULL CHECK (direction IN ('to_app','to_host')),
			method TEXT NOT NULL,
			payload BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_session ON events(session, id);`,
	}
	for _, stmt := range ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Record stores one message. The event id is assigned here; ULIDs keep
// events ordered by insertion within a session.
func (s *Store) Record(ctx context.Context, session, direction, method string, payload []byte) (string, error) {
	id := s.newEventID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events(id, session, direction, method, payload, created_at) VALUES(?,?,?,?,?,?)`,
		id, session, direction, method, payload, time.Now().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("record event: %w", err)
	}
	return id, nil
}

// Events returns all recorded events for a session in insertion order.
func (s *Store) Events(ctx context.Context, session string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session, direction, method, payload, created_at
		FROM events WHERE session = ? ORDER BY id;
	`, session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Session, &ev.Direction, &ev.Method, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Sessions returns the distinct session names, most recent first.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session FROM events GROUP BY session ORDER BY MAX(id) DESC;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		sessions = append(sessions, name)
	}
	return sessions, rows.Err()
}

func (s *Store) newEventID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}
