package store

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Memory is an in-memory Sessions + Leaderboard backend.
//
// Used by tests and by `threedials serve --store memory` for local play.
// TTL semantics match the durable backends: records expire SessionTTL after
// their last write and lookups past the deadline report ErrNotFound.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	games   map[string]memoryGame
	entries []Entry
}

type memoryGame struct {
	game      Game
	expiresAt time.Time
}

// NewMemory creates an empty in-memory store with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:   ttl,
		now:   time.Now,
		games: make(map[string]memoryGame),
	}
}

func (m *Memory) Put(_ context.Context, g Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.SessionID] = memoryGame{
		game:      cloneGame(g),
		expiresAt: m.now().Add(m.ttl),
	}
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(id)
}

func (m *Memory) AddAttempt(_ context.Context, id string, value int) (Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.getLocked(id)
	if err != nil {
		return Game{}, err
	}
	g.Attempts = append(g.Attempts, value)
	m.games[id] = memoryGame{game: g, expiresAt: m.now().Add(m.ttl)}
	return cloneGame(g), nil
}

func (m *Memory) SetTargets(_ context.Context, id string, targets [3]int) (Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.getLocked(id)
	if err != nil {
		return Game{}, err
	}
	g.Targets = targets
	m.games[id] = memoryGame{game: g, expiresAt: m.now().Add(m.ttl)}
	return cloneGame(g), nil
}

func (m *Memory) getLocked(id string) (Game, error) {
	rec, ok := m.games[id]
	if !ok {
		return Game{}, ErrNotFound
	}
	if !m.now().Before(rec.expiresAt) {
		delete(m.games, id)
		return Game{}, ErrNotFound
	}
	return cloneGame(rec.game), nil
}

func (m *Memory) Add(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *Memory) Top(_ context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return []Entry{}, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := slices.Clone(m.entries)
	// Stable sort keeps insertion order among equal times.
	slices.SortStableFunc(out, func(a, b Entry) int { return a.Time - b.Time })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }

func cloneGame(g Game) Game {
	g.Attempts = slices.Clone(g.Attempts)
	return g
}
