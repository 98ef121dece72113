package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"gyani-service/internal/domain"
	"gyani-service/internal/infra/memory"

	"github.com/golang/glog"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// BankRepository caches question banks in Redis and falls back to a loader on cache miss.
// Questions are stored as: HSET bank:{bankID}:questions {position} {question JSON}
type BankRepository struct {
	client *redis.Client
	loader memory.BankLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewBankRepository(client *redis.Client, loader memory.BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) ([]domain.QuizQuestion, error) {
	key := r.questionsKey(bankID)

	if questions, ok := r.fromCache(ctx, key); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := r.fromCache(ctx, key); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return nil, err
		}

		pipe := r.client.Pipeline()
		pipe.Del(ctx, key)
		for i, q := range questions {
			raw, err := json.Marshal(q)
			if err != nil {
				return nil, err
			}
			pipe.HSet(ctx, key, strconv.Itoa(i), raw)
		}
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			glog.Warningf("cache bank %s: %v", bankID, err)
		}

		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.QuizQuestion), nil
}

func (r *BankRepository) fromCache(ctx context.Context, key string) ([]domain.QuizQuestion, bool) {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil || len(fields) == 0 {
		return nil, false
	}
	return buildBankFromCache(fields)
}

func (r *BankRepository) questionsKey(bankID string) string {
	return "bank:" + bankID + ":questions"
}

func buildBankFromCache(fields map[string]string) ([]domain.QuizQuestion, bool) {
	type positioned struct {
		pos int
		q   domain.QuizQuestion
	}
	items := make([]positioned, 0, len(fields))
	for field, raw := range fields {
		pos, err := strconv.Atoi(field)
		if err != nil {
			return nil, false
		}
		var q domain.QuizQuestion
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return nil, false
		}
		items = append(items, positioned{pos: pos, q: q})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].pos < items[j].pos })

	questions := make([]domain.QuizQuestion, 0, len(items))
	for _, it := range items {
		questions = append(questions, it.q)
	}
	return questions, true
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
