package cli

import (
	"context"
	"errors"

	"gyani-service/internal/config"
	"gyani-service/internal/content"
	"gyani-service/internal/infra/postgres"
	pgmigrations "gyani-service/internal/infra/postgres/migrations"

	"github.com/golang/glog"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// NewMigrateCmd applies database migrations and seeds the question banks.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var skipSeed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and seed question banks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return errors.New("postgres url not configured")
			}
			db := openBun(cfg.Postgres.URL)
			defer db.Close()
			if err := runMigrations(cmd.Context(), db); err != nil {
				return err
			}
			if skipSeed {
				return nil
			}
			pool, err := pgxpool.Connect(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()
			return seed(cmd.Context(), pool)
		},
	}
	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "only apply migrations")
	return cmd
}

func runMigrations(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		glog.Infof("database is up to date")
		return nil
	}
	glog.Infof("migrated to %s", group)
	return nil
}

func seed(ctx context.Context, pool *pgxpool.Pool) error {
	banks := content.Banks()
	if err := postgres.SeedBanks(ctx, pool, banks); err != nil {
		return err
	}
	glog.Infof("seeded %d question banks", len(banks))
	return nil
}
