package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	gameKeyPrefix  = "game:"
	leaderboardKey = "leaderboard"
)

// Redis backs Sessions and Leaderboard with a Redis server, mirroring the
// production layout: sessions as JSON strings under "game:<id>" with a
// per-key TTL, the leaderboard as a sorted set scored by completion time.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// OpenRedis connects to a Redis server and verifies the connection.
func OpenRedis(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, unavailable("ping redis", err)
	}
	return &Redis{rdb: rdb, ttl: ttl}, nil
}

func (r *Redis) Put(ctx context.Context, g Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}
	if err := r.rdb.Set(ctx, gameKeyPrefix+g.SessionID, data, r.ttl).Err(); err != nil {
		return unavailable("put game", err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, id string) (Game, error) {
	data, err := r.rdb.Get(ctx, gameKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Game{}, ErrNotFound
	}
	if err != nil {
		return Game{}, unavailable("get game", err)
	}

	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		return Game{}, fmt.Errorf("unmarshal game %s: %w", id, err)
	}
	return g, nil
}

// AddAttempt is GET + SET, not a Lua script or a WATCH transaction. A session
// has a single writer, so the lost-update window is tolerated; the SET also
// refreshes the TTL, which is the documented "expires after last write"
// behavior.
func (r *Redis) AddAttempt(ctx context.Context, id string, value int) (Game, error) {
	g, err := r.Get(ctx, id)
	if err != nil {
		return Game{}, err
	}
	g.Attempts = append(g.Attempts, value)
	if err := r.Put(ctx, g); err != nil {
		return Game{}, err
	}
	return g, nil
}

// SetTargets is the same read-modify-write as AddAttempt and relies on the
// same single-writer contract.
func (r *Redis) SetTargets(ctx context.Context, id string, targets [3]int) (Game, error) {
	g, err := r.Get(ctx, id)
	if err != nil {
		return Game{}, err
	}
	g.Targets = targets
	if err := r.Put(ctx, g); err != nil {
		return Game{}, err
	}
	return g, nil
}

// Add inserts one leaderboard member. The member payload is the full entry as
// JSON; the score is the completion time. ZADD is atomic, so unlike sessions
// there is no read-modify-write on this path.
func (r *Redis) Add(ctx context.Context, e Entry) error {
	member, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	err = r.rdb.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(e.Time),
		Member: string(member),
	}).Err()
	if err != nil {
		return unavailable("add leaderboard entry", err)
	}
	return nil
}

func (r *Redis) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return []Entry{}, nil
	}
	members, err := r.rdb.ZRange(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, unavailable("read leaderboard", err)
	}

	entries := make([]Entry, 0, len(members))
	for _, m := range members {
		var e Entry
		if err := json.Unmarshal([]byte(m), &e); err != nil {
			// Skip malformed members instead of failing the whole read.
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *Redis) Close() error { return r.rdb.Close() }
