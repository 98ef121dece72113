package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gyani-service/internal/app"
	"gyani-service/internal/config"
	"gyani-service/internal/infra/memory"
	"gyani-service/internal/content"
	"gyani-service/internal/infra/postgres"
	redisinfra "gyani-service/internal/infra/redis"
	"gyani-service/internal/infra/sqlite"

	"github.com/golang/glog"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// resources are the connections opened for one command run.
type resources struct {
	redis   *redis.Client
	pool    *pgxpool.Pool
	bunDB   *bun.DB
	sqlite  *sqlite.ProgressBackend
	closers []func()
}

func (r *resources) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func openResources(ctx context.Context, cfg config.Config) (*resources, error) {
	res := &resources{}

	if cfg.Redis.Addr != "" {
		res.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := res.redis.Ping(ctx).Err(); err != nil {
			_ = res.redis.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		res.closers = append(res.closers, func() { _ = res.redis.Close() })
	}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			res.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		res.pool = pool
		res.closers = append(res.closers, pool.Close)

		res.bunDB = openBun(cfg.Postgres.URL)
		res.closers = append(res.closers, func() { _ = res.bunDB.Close() })
	}

	if cfg.ProgressBackend() == config.BackendSQLite {
		if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				res.Close()
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		backend, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			res.Close()
			return nil, err
		}
		res.sqlite = backend
		res.closers = append(res.closers, func() { _ = backend.Close() })
	}
	return res, nil
}

func openBun(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// progressBackend picks the storage behind every ProgressStore.
func (r *resources) progressBackend(cfg config.Config) app.ProgressBackend {
	switch cfg.ProgressBackend() {
	case config.BackendRedis:
		return redisinfra.NewProgressBackend(r.redis, config.Duration(cfg.Progress.TTL, 0))
	case config.BackendPostgres:
		return postgres.NewProgressBackend(r.bunDB)
	case config.BackendSQLite:
		return r.sqlite
	default:
		glog.Warningf("progress is kept in memory and lost on restart")
		return memory.NewProgressBackend()
	}
}

// bankRepository loads question banks from postgres when configured and
// caches them in redis or memory.
func (r *resources) bankRepository(cfg config.Config) app.QuestionBankRepository {
	var loader memory.BankLoader = memory.NewStaticBankLoader(content.Banks())
	if r.pool != nil {
		loader = postgres.NewBankLoader(r.pool)
	}
	ttl := config.Duration(cfg.Quiz.TTL, 10*time.Minute)
	if r.redis != nil {
		return redisinfra.NewBankRepository(r.redis, loader, ttl)
	}
	return memory.NewBankRepository(loader, ttl)
}

func (r *resources) sessionStore(cfg config.Config) app.SessionRepository {
	if r.redis != nil {
		return redisinfra.NewSessionStore(r.redis, config.Duration(cfg.Redis.TTL, 10*time.Minute))
	}
	return memory.NewSessionStore()
}
