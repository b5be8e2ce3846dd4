package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SANNNNN-123/threeDials/internal/config"
	"github.com/SANNNNN-123/threeDials/internal/store"
)

// openStores opens the configured backend. The same handle backs both the
// session store and the leaderboard; the returned func closes it once.
func openStores(ctx context.Context, cfg config.Config) (store.Sessions, store.Leaderboard, func(), error) {
	closer := func(c interface{ Close() error }) func() {
		return func() {
			if err := c.Close(); err != nil {
				slog.Error("closing store", "error", err)
			}
		}
	}

	switch cfg.Store {
	case config.StoreMemory:
		mem := store.NewMemory(cfg.SessionTTL)
		return mem, mem, closer(mem), nil

	case config.StoreSQLite:
		s, err := store.OpenSQLite(cfg.SQLitePath, cfg.SessionTTL)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s, closer(s), nil

	case config.StoreRedis:
		r, err := store.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
		if err != nil {
			return nil, nil, nil, err
		}
		return r, r, closer(r), nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}
