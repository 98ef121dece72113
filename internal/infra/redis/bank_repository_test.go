package redis

import (
	"context"
	"testing"
	"time"

	"gyani-service/internal/content"
	"gyani-service/internal/domain"
	"gyani-service/internal/infra/memory"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestBankRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{BankLoader: memory.NewStaticBankLoader(content.Banks())}
	repo := NewBankRepository(client, loader, time.Minute)

	first, err := repo.GetBank(context.Background(), content.KnowledgeBankID)
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("bank:knowledge:questions") {
		t.Fatalf("expected bank hash in redis")
	}

	// Second call should hit cache, loader not incremented.
	second, err := repo.GetBank(context.Background(), content.KnowledgeBankID)
	if err != nil {
		t.Fatalf("get bank 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(second) != len(first) {
		t.Fatalf("expected %d cached questions, got %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].CorrectOption != second[i].CorrectOption {
			t.Fatalf("cached order or content differs at %d", i)
		}
	}

	mr.FastForward(2 * time.Minute)
	_, _ = repo.GetBank(context.Background(), content.KnowledgeBankID)
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}
}

type countingLoader struct {
	memory.BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context, bankID string) ([]domain.QuizQuestion, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx, bankID)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
