package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SessionTTL is how long a session survives after its last write.
// Abandoned games are never deleted explicitly; they just expire.
const SessionTTL = time.Hour

// Sentinel errors for the store taxonomy. Callers classify with errors.Is.
var (
	// ErrNotFound means the session expired or never existed. Surfaced to the
	// caller, never retried.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means the write was rejected before touching the store.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable means a transient I/O failure against the backing store.
	// Logged and surfaced; never masked as success.
	ErrUnavailable = errors.New("store unavailable")
)

// Game is one persisted play-through.
type Game struct {
	SessionID string `json:"sessionId"`
	// Targets is the combination, order-sensitive, fixed at creation.
	Targets [3]int `json:"targets"`
	// StartTime is a millisecond epoch timestamp.
	StartTime int64 `json:"startTime"`
	// Attempts is append-only: every committed dial value in commit order,
	// wrong ones included.
	Attempts []int `json:"attempts"`
}

// Entry is one leaderboard submission, immutable once inserted.
type Entry struct {
	Name string `json:"name"`
	// Time is the completion time in whole seconds; it is the ranking score,
	// lower is better.
	Time int `json:"time"`
	// CompletedAt is a millisecond epoch timestamp.
	CompletedAt int64  `json:"completedAt"`
	Country     string `json:"country"`
}

// Sessions stores per-session game records with a TTL refreshed on every
// write.
type Sessions interface {
	// Put creates or replaces a session record with a fresh TTL.
	Put(ctx context.Context, g Game) error

	// Get returns the record, or ErrNotFound once it has expired.
	Get(ctx context.Context, id string) (Game, error)

	// AddAttempt appends value to the session's attempt log and refreshes the
	// TTL. Read-modify-write; see the package comment for the hazard.
	AddAttempt(ctx context.Context, id string, value int) (Game, error)

	// SetTargets replaces the session's combination and refreshes the TTL.
	// The attempt log is untouched. Fired when a failed attempt re-rolls, so
	// the targets on record stay the targets actually in play.
	SetTargets(ctx context.Context, id string, targets [3]int) (Game, error)

	Close() error
}

// Leaderboard is the global ranked set of completion times.
type Leaderboard interface {
	// Add inserts an entry ranked by Entry.Time. Single atomic add.
	Add(ctx context.Context, e Entry) error

	// Top returns up to n entries, best (lowest) time first. Tie order is
	// whatever the backing store does with equal scores.
	Top(ctx context.Context, n int) ([]Entry, error)

	Close() error
}

// unavailable wraps a backend I/O error so callers can match ErrUnavailable
// while the cause stays in the chain.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
}
