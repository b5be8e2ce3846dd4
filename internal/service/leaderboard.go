package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SANNNNN-123/threeDials/internal/store"
)

const (
	// MaxNameLen caps the display name on the leaderboard, in runes.
	MaxNameLen = 20

	// DefaultTopN is how many entries a leaderboard read returns when the
	// caller does not say.
	DefaultTopN = 10

	defaultCountry = "Unknown"
)

// Leaderboard accepts completion submissions and serves the ranking. Every
// submission is checked against the session's stored attempt log before it
// counts.
type Leaderboard struct {
	board store.Leaderboard
	games *Games
	now   func() time.Time
}

// LeaderboardOption configures a Leaderboard service.
type LeaderboardOption func(*Leaderboard)

// WithLeaderboardNow injects the time source.
func WithLeaderboardNow(now func() time.Time) LeaderboardOption {
	return func(s *Leaderboard) { s.now = now }
}

// NewLeaderboard creates a Leaderboard service. The games service backs the
// completion check on submit.
func NewLeaderboard(board store.Leaderboard, games *Games, opts ...LeaderboardOption) *Leaderboard {
	s := &Leaderboard{
		board: board,
		games: games,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records a completion time for the given session. The name is
// trimmed; empty or over-long names and non-positive times are rejected
// before the store is touched. An empty country becomes "Unknown".
func (s *Leaderboard) Submit(ctx context.Context, sessionID, name string, seconds int, country string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("submit score: %w: name is required", store.ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return fmt.Errorf("submit score: %w: name longer than %d characters", store.ErrInvalidInput, MaxNameLen)
	}
	if seconds <= 0 {
		return fmt.Errorf("submit score: %w: time must be positive", store.ErrInvalidInput)
	}

	if err := s.games.VerifyCompleted(ctx, sessionID); err != nil {
		return err
	}

	country = strings.TrimSpace(country)
	if country == "" {
		country = defaultCountry
	}

	return s.board.Add(ctx, store.Entry{
		Name:        name,
		Time:        seconds,
		CompletedAt: s.now().UnixMilli(),
		Country:     country,
	})
}

// Top returns up to n entries, best time first. n <= 0 means DefaultTopN.
func (s *Leaderboard) Top(ctx context.Context, n int) ([]store.Entry, error) {
	if n <= 0 {
		n = DefaultTopN
	}
	return s.board.Top(ctx, n)
}
