package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"gyani-service/internal/app"
	"gyani-service/internal/config"
	"gyani-service/internal/content"
)

func TestPrintStatsListsSQLiteProfiles(t *testing.T) {
	ctx := context.Background()
	var cfg config.Config
	cfg.Progress.Backend = config.BackendSQLite
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "nested", "gyani.db")

	res, err := openResources(ctx, cfg)
	if err != nil {
		t.Fatalf("open resources: %v", err)
	}
	defer res.Close()

	store := app.NewProgressStore("p-1", res.progressBackend(cfg), app.WithCatalog(content.ModuleIDs()))
	store.Load(ctx)
	if _, err := store.MarkModuleComplete(ctx, "basics"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	var out bytes.Buffer
	if err := printStats(ctx, &out, cfg, res); err != nil {
		t.Fatalf("stats: %v", err)
	}
	text := out.String()
	for _, want := range []string{"bank knowledge: 10 questions", "profiles: 1", "p-1: 1/8 modules (Beginner), 0 quizzes"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestPrintStatsMemoryBackend(t *testing.T) {
	var cfg config.Config
	res, err := openResources(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open resources: %v", err)
	}
	defer res.Close()

	var out bytes.Buffer
	if err := printStats(context.Background(), &out, cfg, res); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out.String(), "cannot list profiles") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}
