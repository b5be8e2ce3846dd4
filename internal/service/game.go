// Package service holds the application services between the HTTP layer and
// the stores: session lifecycle on one side, leaderboard submission on the
// other. All input validation happens here, before anything touches a store.
package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/SANNNNN-123/threeDials/internal/dial"
	"github.com/SANNNNN-123/threeDials/internal/game"
	"github.com/SANNNNN-123/threeDials/internal/store"
)

// Games manages session records: creation with fresh targets, lookup, and the
// append-only attempt log.
type Games struct {
	sessions store.Sessions
	now      func() time.Time
	intn     func(n int) int
}

// GamesOption configures a Games service.
type GamesOption func(*Games)

// WithNow injects the time source.
func WithNow(now func() time.Time) GamesOption {
	return func(s *Games) { s.now = now }
}

// WithIntN injects the random source used to draw targets.
func WithIntN(intn func(n int) int) GamesOption {
	return func(s *Games) { s.intn = intn }
}

// NewGames creates a Games service over the given session store.
func NewGames(sessions store.Sessions, opts ...GamesOption) *Games {
	s := &Games{
		sessions: sessions,
		now:      time.Now,
		intn:     rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create draws a fresh combination and persists a new session for it.
func (s *Games) Create(ctx context.Context) (store.Game, error) {
	g := store.Game{
		SessionID: uuid.NewString(),
		Targets:   game.NewTargets(s.intn),
		StartTime: s.now().UnixMilli(),
		Attempts:  []int{},
	}
	if err := s.sessions.Put(ctx, g); err != nil {
		return store.Game{}, fmt.Errorf("create game: %w", err)
	}
	return g, nil
}

// Get returns the persisted session, or store.ErrNotFound once it expired.
func (s *Games) Get(ctx context.Context, id string) (store.Game, error) {
	if id == "" {
		return store.Game{}, fmt.Errorf("get game: %w: empty session id", store.ErrInvalidInput)
	}
	return s.sessions.Get(ctx, id)
}

// RecordAttempt appends a committed dial value to the session's attempt log.
func (s *Games) RecordAttempt(ctx context.Context, id string, value int) (store.Game, error) {
	if id == "" {
		return store.Game{}, fmt.Errorf("record attempt: %w: empty session id", store.ErrInvalidInput)
	}
	if value < 0 || value >= dial.Markers {
		return store.Game{}, fmt.Errorf("record attempt: %w: value %d out of range", store.ErrInvalidInput, value)
	}
	return s.sessions.AddAttempt(ctx, id, value)
}

// VerifyCompleted checks that the session's stored attempt log actually ends
// with its targets, in order. A claimed win that the log does not back is
// rejected with store.ErrInvalidInput.
func (s *Games) VerifyCompleted(ctx context.Context, id string) error {
	g, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	n := len(g.Attempts)
	if n < len(g.Targets) {
		return fmt.Errorf("verify completed: %w: combination not completed", store.ErrInvalidInput)
	}
	for i, want := range g.Targets {
		if g.Attempts[n-len(g.Targets)+i] != want {
			return fmt.Errorf("verify completed: %w: combination not completed", store.ErrInvalidInput)
		}
	}
	return nil
}
