package app_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"gyani-service/internal/app"
	"gyani-service/internal/content"
	"gyani-service/internal/domain"
	"gyani-service/internal/infra/memory"
)

func TestStartAndCompleteRecordsHistory(t *testing.T) {
	ctx := context.Background()
	service, progress := newTestService()

	view, err := service.Start(ctx, "p-1", domain.QuizFilter{Difficulty: domain.DifficultyEasy})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if view.State != app.StateAnswering || view.TotalQuestions == 0 {
		t.Fatalf("expected answering state, got %+v", view)
	}

	for view.State != app.StateCompleted {
		if view.State == app.StateAnswering {
			if view, err = service.Select(ctx, view.SessionID, 0); err != nil {
				t.Fatalf("select failed: %v", err)
			}
		}
		if view, err = service.Advance(ctx, view.SessionID); err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	}
	if view.Result == nil {
		t.Fatalf("expected result on completion")
	}

	store, _ := progress.Open(ctx, "p-1")
	history := store.History()
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	if history[0].Difficulty != string(domain.DifficultyEasy) {
		t.Fatalf("expected filter metadata, got %+v", history[0])
	}
	if history[0].CorrectAnswers != view.Result.CorrectAnswers {
		t.Fatalf("stored result differs from completed view")
	}
}

func TestPreviousThenAdvanceKeepsAnswers(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	view, err := service.Start(ctx, "p-1", domain.QuizFilter{})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	id := view.SessionID
	forward := func() app.SessionView {
		t.Helper()
		v, err := service.Advance(ctx, id)
		if err != nil {
			t.Fatalf("advance failed: %v", err)
		}
		if v.State == app.StateReviewing {
			if v, err = service.Advance(ctx, id); err != nil {
				t.Fatalf("advance from review failed: %v", err)
			}
		}
		return v
	}

	_, _ = service.Select(ctx, id, 1)
	forward()
	_, _ = service.Select(ctx, id, 2)

	back, err := service.Previous(ctx, id)
	if err != nil {
		t.Fatalf("previous failed: %v", err)
	}
	if back.Index != 0 || back.Selected == nil || *back.Selected != 1 {
		t.Fatalf("expected answer 1 at question 0, got %+v", back.EngineView)
	}

	again := forward()
	if again.Index != 1 || again.State != app.StateAnswering {
		t.Fatalf("expected answering question 1, got %s at %d", again.State, again.Index)
	}
	if again.Selected == nil || *again.Selected != 2 {
		t.Fatalf("expected answer 2 restored at question 1, got %v", again.Selected)
	}
}

func TestStartWithEmptyFilterParksSession(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	view, err := service.Start(ctx, "p-1", domain.QuizFilter{Category: "Astrology"})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if view.State != app.StateNoQuestions {
		t.Fatalf("expected no_questions, got %s", view.State)
	}
	if _, err := service.Advance(ctx, view.SessionID); !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestRestartCreatesFreshSession(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	first, _ := service.Start(ctx, "p-1", domain.QuizFilter{})
	if _, err := service.Select(ctx, first.SessionID, 1); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	second, err := service.Restart(ctx, first.SessionID)
	if err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if second.SessionID == first.SessionID {
		t.Fatalf("expected a new session id")
	}
	if second.Selected != nil || second.Index != 0 {
		t.Fatalf("expected reinitialised session, got %+v", second.EngineView)
	}
	if _, err := service.View(ctx, first.SessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected old session discarded, got %v", err)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	view, _ := service.Start(ctx, "p-1", domain.QuizFilter{})
	ch, cancel, err := service.Subscribe(ctx, view.SessionID)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	<-ch // initial snapshot

	if _, err := service.Select(ctx, view.SessionID, 2); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	update := <-ch
	if update.Selected == nil || *update.Selected != 2 {
		t.Fatalf("expected selection pushed, got %+v", update.EngineView)
	}

	service.Close(ctx, view.SessionID)
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed with the session")
	}
}

func TestUnknownSession(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	if _, err := service.Select(ctx, "missing", 0); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}
	if _, err := service.Start(ctx, "", domain.QuizFilter{}); err != domain.ErrProfileRequired {
		t.Fatalf("expected profile error, got %v", err)
	}
}

func TestCompletionSurvivesRecordFailure(t *testing.T) {
	ctx := context.Background()
	service := app.NewQuizService(
		memory.NewSessionStore(),
		memory.NewBankRepository(memory.NewStaticBankLoader(content.Banks()), time.Minute),
		failingRecorder{},
		app.WithRand(rand.New(rand.NewSource(1))),
		app.WithMaxQuestions(1),
	)

	view, _ := service.Start(ctx, "p-1", domain.QuizFilter{})
	_, _ = service.Select(ctx, view.SessionID, 0)
	_, _ = service.Advance(ctx, view.SessionID) // reviewing
	view, err := service.Advance(ctx, view.SessionID)
	if err == nil {
		t.Fatalf("expected record error")
	}
	if view.State != app.StateCompleted || view.Result == nil {
		t.Fatalf("completion must stand, got %s", view.State)
	}
}

type failingRecorder struct{}

func (failingRecorder) RecordQuizResult(context.Context, string, domain.QuizResult, domain.QuizFilter) (domain.HistoryEntry, error) {
	return domain.HistoryEntry{}, errors.New("disk full")
}

func newTestService() (*app.QuizService, *app.ProgressService) {
	progress := app.NewProgressService(memory.NewProgressBackend(), app.WithCatalog(content.ModuleIDs()))
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(content.Banks()), time.Minute)
	service := app.NewQuizService(
		memory.NewSessionStore(),
		banks,
		progress,
		app.WithRand(rand.New(rand.NewSource(42))),
	)
	return service, progress
}
