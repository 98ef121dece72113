package app_test

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"gyani-service/internal/app"
	"gyani-service/internal/content"
	"gyani-service/internal/domain"
	"gyani-service/internal/infra/memory"
)

func TestMarkModuleCompleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewProgressBackend()
	store := app.NewProgressStore("p-1", backend, app.WithCatalog(content.ModuleIDs()))
	store.Load(ctx)

	summary, err := store.MarkModuleComplete(ctx, "basics")
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	first, _, _ := backend.Read(ctx, "p-1", app.ModulesKey)

	again, err := store.MarkModuleComplete(ctx, "basics")
	if err != nil {
		t.Fatalf("mark again: %v", err)
	}
	second, _, _ := backend.Read(ctx, "p-1", app.ModulesKey)

	if !bytes.Equal(first, second) {
		t.Fatalf("persisted document changed: %s vs %s", first, second)
	}
	if summary != again {
		t.Fatalf("summary changed: %+v vs %+v", summary, again)
	}
	if summary.CompletedCount != 1 || summary.TotalCount != 8 || summary.Percentage != 12.5 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if string(first) != `{"basics":true}` {
		t.Fatalf("unexpected document %s", first)
	}
}

func TestMarkModuleCompleteRejectsUnknownModule(t *testing.T) {
	store := app.NewProgressStore("p-1", memory.NewProgressBackend(), app.WithCatalog(content.ModuleIDs()))
	if _, err := store.MarkModuleComplete(context.Background(), "astrology"); !errors.Is(err, domain.ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got %v", err)
	}
}

func TestAppendQuizResultRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewProgressBackend()
	clock := newFakeClock()
	store := app.NewProgressStore("p-1", backend, app.WithProgressClock(clock.Now))
	store.Load(ctx)

	result := domain.QuizResult{
		Score:          130,
		TotalQuestions: 10,
		CorrectAnswers: 9,
		TimeSpent:      250,
		Grade:          "A+",
		Achievements:   []string{"Excellence Award"},
	}
	filter := domain.QuizFilter{Category: "Mutual Funds", Difficulty: domain.DifficultyHard}
	entry, err := store.AppendQuizResult(ctx, result, filter)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	want := domain.HistoryEntry{
		QuizResult: result,
		Timestamp:  clock.Now().UTC(),
		Category:   "Mutual Funds",
		Difficulty: string(domain.DifficultyHard),
	}
	if !reflect.DeepEqual(entry, want) {
		t.Fatalf("appended entry mismatch:\n got %+v\nwant %+v", entry, want)
	}

	reloaded, err := app.NewProgressStore("p-1", backend).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(reloaded.History) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(reloaded.History))
	}
	last := reloaded.History[len(reloaded.History)-1]
	if !last.Timestamp.Equal(want.Timestamp) {
		t.Fatalf("timestamp mismatch: %s vs %s", last.Timestamp, want.Timestamp)
	}
	last.Timestamp = want.Timestamp
	if !reflect.DeepEqual(last, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", last, want)
	}
}

func TestLoadTreatsMalformedDocumentsAsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewProgressBackend()
	_ = backend.Write(ctx, "p-1", app.HistoryKey, []byte("not json"))
	_ = backend.Write(ctx, "p-1", app.ModulesKey, []byte(`{"basics":"yes"}`))

	record, err := app.NewProgressStore("p-1", backend).Load(ctx)
	if err != nil {
		t.Fatalf("malformed documents must not fail the load: %v", err)
	}
	if len(record.History) != 0 || len(record.Modules) != 0 {
		t.Fatalf("expected empty record, got %+v", record)
	}
	if record.History == nil || record.Modules == nil {
		t.Fatalf("expected non-nil empty values")
	}
}

func TestLoadReportsReadFailures(t *testing.T) {
	store := app.NewProgressStore("p-1", brokenBackend{})
	if _, err := store.Load(context.Background()); !errors.Is(err, domain.ErrProgressUnavailable) {
		t.Fatalf("expected ErrProgressUnavailable, got %v", err)
	}
	if _, err := store.MarkModuleComplete(context.Background(), "basics"); !errors.Is(err, domain.ErrProgressUnavailable) {
		t.Fatalf("writes after a failed load must be refused, got %v", err)
	}
	if _, err := store.AppendQuizResult(context.Background(), domain.QuizResult{}, domain.QuizFilter{}); !errors.Is(err, domain.ErrProgressUnavailable) {
		t.Fatalf("writes after a failed load must be refused, got %v", err)
	}
}

func TestTransientReadFailureKeepsStoredModules(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewProgressBackend()
	stored := `{"basics":true,"indices":true,"taxation":true}`
	if err := inner.Write(ctx, "p-1", app.ModulesKey, []byte(stored)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	backend := &flakyBackend{ProgressBackend: inner, failReads: 1}
	service := app.NewProgressService(backend, app.WithCatalog(content.ModuleIDs()))

	if _, err := service.Open(ctx, "p-1"); !errors.Is(err, domain.ErrProgressUnavailable) {
		t.Fatalf("expected ErrProgressUnavailable, got %v", err)
	}
	if ids := service.Profiles(); len(ids) != 0 {
		t.Fatalf("failed load must not be retained, got %v", ids)
	}
	if raw, _, _ := inner.Read(ctx, "p-1", app.ModulesKey); string(raw) != stored {
		t.Fatalf("stored document changed: %s", raw)
	}

	store, err := service.Open(ctx, "p-1")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	summary, err := store.MarkModuleComplete(ctx, "derivatives")
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if summary.CompletedCount != 4 {
		t.Fatalf("expected 4 completed modules, got %+v", summary)
	}
	raw, _, _ := inner.Read(ctx, "p-1", app.ModulesKey)
	if string(raw) != `{"basics":true,"derivatives":true,"indices":true,"taxation":true}` {
		t.Fatalf("unexpected document %s", raw)
	}
}

func TestFailedReloadRefusesWrites(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewProgressBackend()
	backend := &flakyBackend{ProgressBackend: inner}
	store := app.NewProgressStore("p-1", backend, app.WithCatalog(content.ModuleIDs()))
	if _, err := store.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := store.MarkModuleComplete(ctx, "basics"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	backend.failNextReads(1)
	if _, err := store.Load(ctx); err == nil {
		t.Fatalf("expected load error")
	}
	if _, err := store.MarkModuleComplete(ctx, "indices"); !errors.Is(err, domain.ErrProgressUnavailable) {
		t.Fatalf("expected ErrProgressUnavailable, got %v", err)
	}

	if _, err := store.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	summary, err := store.MarkModuleComplete(ctx, "indices")
	if err != nil {
		t.Fatalf("mark after reload: %v", err)
	}
	if summary.CompletedCount != 2 {
		t.Fatalf("expected 2 completed modules, got %+v", summary)
	}
}

func TestProgressServicePeekDoesNotRetain(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewProgressBackend()
	_ = backend.Write(ctx, "p-2", app.ModulesKey, []byte(`{"basics":true}`))
	service := app.NewProgressService(backend, app.WithCatalog(content.ModuleIDs()))

	peeked, err := service.Peek(ctx, "p-2")
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if peeked.Summary().CompletedCount != 1 {
		t.Fatalf("expected stored progress, got %+v", peeked.Summary())
	}
	if ids := service.Profiles(); len(ids) != 0 {
		t.Fatalf("peek must not retain, got %v", ids)
	}

	opened, _ := service.Open(ctx, "p-2")
	again, _ := service.Peek(ctx, "p-2")
	if opened != again {
		t.Fatalf("peek must return the retained store once opened")
	}
	if _, err := service.Peek(ctx, ""); !errors.Is(err, domain.ErrProfileRequired) {
		t.Fatalf("expected ErrProfileRequired, got %v", err)
	}
}

func TestWriteFailureKeepsMemoryUnchanged(t *testing.T) {
	store := app.NewProgressStore("p-1", brokenBackend{})
	if _, err := store.MarkModuleComplete(context.Background(), "basics"); err == nil {
		t.Fatalf("expected write error")
	}
	if store.Summary().CompletedCount != 0 {
		t.Fatalf("failed write must not be visible")
	}
}

func TestSummaryWithoutModules(t *testing.T) {
	summary := app.NewProgressStore("p-1", memory.NewProgressBackend()).Summary()
	if summary.TotalCount != 0 || summary.Percentage != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
	if summary.KnowledgeLevel != app.LevelBeginner {
		t.Fatalf("expected beginner, got %s", summary.KnowledgeLevel)
	}
}

func TestKnowledgeLevelAndWeeklyProgress(t *testing.T) {
	ctx := context.Background()
	store := app.NewProgressStore("p-1", memory.NewProgressBackend(), app.WithCatalog(content.ModuleIDs()))
	for _, id := range content.ModuleIDs()[:5] {
		if _, err := store.MarkModuleComplete(ctx, id); err != nil {
			t.Fatalf("mark %s: %v", id, err)
		}
	}
	summary := store.Summary()
	if summary.KnowledgeLevel != app.LevelAdvanced {
		t.Fatalf("expected advanced, got %s", summary.KnowledgeLevel)
	}
	if summary.WeeklyProgress != 100 {
		t.Fatalf("expected weekly progress capped at 100, got %v", summary.WeeklyProgress)
	}
	if app.KnowledgeLevel(1) != app.LevelBeginner || app.KnowledgeLevel(2) != app.LevelIntermediate {
		t.Fatalf("unexpected level boundaries")
	}
}

func TestProgressSubscribersAndEvents(t *testing.T) {
	ctx := context.Background()
	events := &recordingPublisher{}
	store := app.NewProgressStore("p-1", memory.NewProgressBackend(),
		app.WithCatalog(content.ModuleIDs()),
		app.WithEvents(events),
	)

	ch, cancel := store.Subscribe()
	defer cancel()
	<-ch // initial summary

	if _, err := store.MarkModuleComplete(ctx, "indices"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	select {
	case summary := <-ch:
		if summary.CompletedCount != 1 {
			t.Fatalf("expected pushed summary, got %+v", summary)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected summary push")
	}

	got := events.all()
	if len(got) != 1 || got[0].Type != domain.EventModuleCompleted || got[0].ModuleID != "indices" || got[0].ProfileID != "p-1" {
		t.Fatalf("unexpected events %+v", got)
	}
	if got[0].ID == "" {
		t.Fatalf("expected event id")
	}
}

func TestProgressServiceOpensOncePerProfile(t *testing.T) {
	ctx := context.Background()
	service := app.NewProgressService(memory.NewProgressBackend())

	a, err := service.Open(ctx, "p-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	b, _ := service.Open(ctx, "p-1")
	if a != b {
		t.Fatalf("expected the same store")
	}
	if _, err := service.Open(ctx, ""); !errors.Is(err, domain.ErrProfileRequired) {
		t.Fatalf("expected ErrProfileRequired, got %v", err)
	}
	if ids := service.Profiles(); len(ids) != 1 || ids[0] != "p-1" {
		t.Fatalf("unexpected profiles %v", ids)
	}
}

type brokenBackend struct{}

func (brokenBackend) Read(context.Context, string, string) ([]byte, bool, error) {
	return nil, false, errors.New("storage unavailable")
}

func (brokenBackend) Write(context.Context, string, string, []byte) error {
	return errors.New("storage unavailable")
}

// flakyBackend fails the next failReads reads and passes everything else through.
type flakyBackend struct {
	app.ProgressBackend

	mu        sync.Mutex
	failReads int
}

func (b *flakyBackend) failNextReads(n int) {
	b.mu.Lock()
	b.failReads = n
	b.mu.Unlock()
}

func (b *flakyBackend) Read(ctx context.Context, profileID, key string) ([]byte, bool, error) {
	b.mu.Lock()
	fail := b.failReads > 0
	if fail {
		b.failReads--
	}
	b.mu.Unlock()
	if fail {
		return nil, false, errors.New("connection reset")
	}
	return b.ProgressBackend.Read(ctx, profileID, key)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ProgressEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.ProgressEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) all() []domain.ProgressEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.ProgressEvent(nil), p.events...)
}
