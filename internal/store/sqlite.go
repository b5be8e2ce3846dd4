package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const sqliteSchemaVersion = 1

// SQLite backs Sessions and Leaderboard with a local SQLite database.
// WAL mode for concurrent reads, a single writer connection, and the schema
// applied idempotently on open.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenSQLite creates or opens the database at path.
func OpenSQLite(path string, ttl time.Duration) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, unavailable("connect database", err)
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db, ttl: ttl, now: time.Now}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", sqliteSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func (s *SQLite) Put(ctx context.Context, g Game) error {
	targets, err := json.Marshal(g.Targets)
	if err != nil {
		return fmt.Errorf("marshal targets: %w", err)
	}
	attempts, err := marshalAttempts(g.Attempts)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, targets, start_time, attempts, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			targets = excluded.targets,
			start_time = excluded.start_time,
			attempts = excluded.attempts,
			expires_at = excluded.expires_at
	`, g.SessionID, string(targets), g.StartTime, string(attempts), s.deadline())
	if err != nil {
		return unavailable("put game", err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, id string) (Game, error) {
	return s.get(ctx, s.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLite) get(ctx context.Context, q querier, id string) (Game, error) {
	var (
		g        Game
		targets  string
		attempts string
		expires  int64
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, targets, start_time, attempts, expires_at
		FROM sessions WHERE id = ?
	`, id).Scan(&g.SessionID, &targets, &g.StartTime, &attempts, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, ErrNotFound
	}
	if err != nil {
		return Game{}, unavailable("get game", err)
	}

	// Lazy expiry: an expired row is indistinguishable from a missing one.
	if expires <= s.now().Unix() {
		return Game{}, ErrNotFound
	}

	if err := json.Unmarshal([]byte(targets), &g.Targets); err != nil {
		return Game{}, fmt.Errorf("unmarshal targets for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(attempts), &g.Attempts); err != nil {
		return Game{}, fmt.Errorf("unmarshal attempts for %s: %w", id, err)
	}
	return g, nil
}

// AddAttempt runs the read-modify-write inside a transaction. That protects
// against interleaved AddAttempt calls on this backend, but the interface
// contract stays single-writer so behavior matches the Redis backend.
func (s *SQLite) AddAttempt(ctx context.Context, id string, value int) (Game, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Game{}, unavailable("begin tx", err)
	}
	defer tx.Rollback()

	g, err := s.get(ctx, tx, id)
	if err != nil {
		return Game{}, err
	}
	g.Attempts = append(g.Attempts, value)

	attempts, err := marshalAttempts(g.Attempts)
	if err != nil {
		return Game{}, err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE sessions SET attempts = ?, expires_at = ? WHERE id = ?
	`, string(attempts), s.deadline(), id)
	if err != nil {
		return Game{}, unavailable("update attempts", err)
	}

	if err := tx.Commit(); err != nil {
		return Game{}, unavailable("commit attempts", err)
	}
	return g, nil
}

func (s *SQLite) SetTargets(ctx context.Context, id string, targets [3]int) (Game, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Game{}, unavailable("begin tx", err)
	}
	defer tx.Rollback()

	g, err := s.get(ctx, tx, id)
	if err != nil {
		return Game{}, err
	}
	g.Targets = targets

	data, err := json.Marshal(targets)
	if err != nil {
		return Game{}, fmt.Errorf("marshal targets: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE sessions SET targets = ?, expires_at = ? WHERE id = ?
	`, string(data), s.deadline(), id)
	if err != nil {
		return Game{}, unavailable("update targets", err)
	}

	if err := tx.Commit(); err != nil {
		return Game{}, unavailable("commit targets", err)
	}
	return g, nil
}

func (s *SQLite) Add(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leaderboard (name, time, completed_at, country)
		VALUES (?, ?, ?, ?)
	`, e.Name, e.Time, e.CompletedAt, e.Country)
	if err != nil {
		return unavailable("add leaderboard entry", err)
	}
	return nil
}

func (s *SQLite) Top(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, time, completed_at, country
		FROM leaderboard
		ORDER BY time ASC, id ASC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, unavailable("read leaderboard", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Time, &e.CompletedAt, &e.Country); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate leaderboard", err)
	}
	return entries, nil
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) deadline() int64 {
	return s.now().Add(s.ttl).Unix()
}

func marshalAttempts(attempts []int) ([]byte, error) {
	if attempts == nil {
		attempts = []int{}
	}
	data, err := json.Marshal(attempts)
	if err != nil {
		return nil, fmt.Errorf("marshal attempts: %w", err)
	}
	return data, nil
}
