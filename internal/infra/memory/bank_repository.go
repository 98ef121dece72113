package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"gyani-service/internal/domain"

	"golang.org/x/sync/singleflight"
)

// BankLoader fetches question banks from a backing store (e.g., Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) ([]domain.QuizQuestion, error)
}

// BankRepository caches question banks with TTL to avoid repeated DB hits.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	questions []domain.QuizQuestion
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) ([]domain.QuizQuestion, error) {
	if questions, ok := r.cached(bankID); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		if questions, ok := r.cached(bankID); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return nil, err
		}

		expiresAt := r.clock().Add(r.ttlWithJitter())
		r.mu.Lock()
		r.cache[bankID] = cachedBank{
			questions: questions,
			expiresAt: expiresAt,
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return copyBank(result.([]domain.QuizQuestion)), nil
}

func (r *BankRepository) cached(bankID string) ([]domain.QuizQuestion, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[bankID]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return nil, false
	}
	return copyBank(entry.questions), true
}

// Invalidate drops a cached bank so the next read goes to the loader.
func (r *BankRepository) Invalidate(bankID string) {
	r.mu.Lock()
	delete(r.cache, bankID)
	r.mu.Unlock()
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader serves banks from an in-memory map (built-in content, tests).
type StaticBankLoader struct {
	banks map[string][]domain.QuizQuestion
}

func NewStaticBankLoader(banks map[string][]domain.QuizQuestion) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, bankID string) ([]domain.QuizQuestion, error) {
	if questions, ok := l.banks[bankID]; ok {
		return copyBank(questions), nil
	}
	return nil, domain.ErrBankNotFound
}

func copyBank(in []domain.QuizQuestion) []domain.QuizQuestion {
	out := make([]domain.QuizQuestion, len(in))
	copy(out, in)
	return out
}
