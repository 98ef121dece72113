package integration

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"gyani-service/internal/app"
	"gyani-service/internal/content"
	"gyani-service/internal/domain"
	"gyani-service/internal/infra/postgres"
	pgmigrations "gyani-service/internal/infra/postgres/migrations"
	infraredis "gyani-service/internal/infra/redis"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestQuizCompletionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := migrateDB(t, ctx, pgURL)
	defer db.Close()

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()
	if err := postgres.SeedBanks(ctx, pool, content.Banks()); err != nil {
		t.Fatalf("seed banks: %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	progress := app.NewProgressService(postgres.NewProgressBackend(db), app.WithCatalog(content.ModuleIDs()))
	banks := infraredis.NewBankRepository(redisClient, postgres.NewBankLoader(pool), 5*time.Minute)
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewQuizService(sessions, banks, progress,
		app.WithRand(rand.New(rand.NewSource(7))),
		app.WithMaxQuestions(3),
	)

	view, err := service.Start(ctx, "learner-1", domain.QuizFilter{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if live, _ := sessions.LiveSessions(ctx); live != 1 {
		t.Fatalf("expected 1 live session, got %d", live)
	}
	for view.State != app.StateCompleted {
		if view.State == app.StateAnswering {
			if view, err = service.Select(ctx, view.SessionID, 1); err != nil {
				t.Fatalf("select: %v", err)
			}
		}
		if view, err = service.Advance(ctx, view.SessionID); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	store, _ := progress.Open(ctx, "learner-1")
	if _, err := store.MarkModuleComplete(ctx, "basics"); err != nil {
		t.Fatalf("mark module: %v", err)
	}

	// A fresh service over the same database sees the persisted record.
	reopened, err := app.NewProgressService(postgres.NewProgressBackend(db), app.WithCatalog(content.ModuleIDs())).Open(ctx, "learner-1")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	record := reopened.Record()
	if len(record.History) != 1 || record.History[0].TotalQuestions != 3 {
		t.Fatalf("expected persisted quiz history, got %+v", record.History)
	}
	if !record.Modules["basics"] || reopened.Summary().CompletedCount != 1 {
		t.Fatalf("expected persisted module flag, got %+v", record.Modules)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "gyani", "POSTGRES_PASSWORD": "gyanipass", "POSTGRES_DB": "gyani"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://gyani:gyanipass@%s:%s/gyani?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) *bun.DB {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
