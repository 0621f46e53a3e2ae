// Package cli implements the serveonctl commands.
package cli

import (
	"context"
	"os"
	"time"

	"serveon_backend/internal/records/repository"
	"serveon_backend/migrations"
	"serveon_backend/platform/config"
	"serveon_backend/platform/db"
	"serveon_backend/platform/kvstore"
	"serveon_backend/platform/logger"
)

// Scope keeps CLI favorites, history and visits apart from every API user.
const Scope = "cli:"

// Env is how commands reach infrastructure. Tests replace the functions
// with in-memory versions.
type Env struct {
	Migrate    func(ctx context.Context) error
	Repository func(ctx context.Context) (repository.Repository, func(), error)
	KV         func(ctx context.Context) (*kvstore.Safe, func())
	Logger     *logger.Logger
	// Search tunes debounce, blur grace and the navigation limits. Nil
	// uses the same defaults as the API server.
	Search config.SearchConfig
}

type searchDefaults struct{}

func (searchDefaults) GetSearchDebounce() time.Duration { return 300 * time.Millisecond }
func (searchDefaults) GetNavBlurGrace() time.Duration   { return 150 * time.Millisecond }
func (searchDefaults) GetNavHistoryLimit() int          { return 10 }
func (searchDefaults) GetNavResultLimit() int           { return 10 }

func (e *Env) search() config.SearchConfig {
	if e.Search == nil {
		return searchDefaults{}
	}
	return e.Search
}

// DefaultEnv reads configuration from the environment on first use. Logs go
// to stderr so command output can be piped.
func DefaultEnv() *Env {
	log := logger.NewWithWriter(os.Getenv("APP_ENV"), os.Stderr)
	var search config.SearchConfig
	if cfg, err := config.LoadWithoutDatabase(); err == nil {
		search = cfg
	} else {
		log.Warn("invalid configuration; using default search tuning", "error", err)
	}
	return &Env{
		Logger: log,
		Search: search,
		Migrate: func(ctx context.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return db.RunMigrations(ctx, cfg, migrations.FS)
		},
		Repository: func(ctx context.Context) (repository.Repository, func(), error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, nil, err
			}
			pool, err := db.NewPool(ctx, cfg)
			if err != nil {
				return nil, nil, err
			}
			return repository.New(pool), pool.Close, nil
		},
		KV: func(ctx context.Context) (*kvstore.Safe, func()) {
			cfg, err := config.LoadWithoutDatabase()
			if err != nil || !cfg.IsRedisEnabled() {
				return kvstore.NewSafe(kvstore.NewMemory(), log), func() {}
			}
			store, err := kvstore.NewRedis(ctx, cfg)
			if err != nil {
				log.Warn("redis unavailable; using memory", "error", err)
				return kvstore.NewSafe(kvstore.NewMemory(), log), func() {}
			}
			return kvstore.NewSafe(store, log), func() { _ = store.Close() }
		},
	}
}
