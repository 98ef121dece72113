package app

import (
	"context"
	"sort"
	"sync"

	"gyani-service/internal/domain"
)

// ProgressService hands out one ProgressStore per profile, loading each on first use.
type ProgressService struct {
	backend ProgressBackend
	opts    []ProgressOption

	mu     sync.Mutex
	stores map[string]*ProgressStore
}

func NewProgressService(backend ProgressBackend, opts ...ProgressOption) *ProgressService {
	return &ProgressService{
		backend: backend,
		opts:    opts,
		stores:  make(map[string]*ProgressStore),
	}
}

// Open returns the store for profileID, loading and retaining it on first use.
// A store whose load failed is not retained so the next Open retries.
func (s *ProgressService) Open(ctx context.Context, profileID string) (*ProgressStore, error) {
	if profileID == "" {
		return nil, domain.ErrProfileRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if store, ok := s.stores[profileID]; ok {
		return store, nil
	}
	store := NewProgressStore(profileID, s.backend, s.opts...)
	if _, err := store.Load(ctx); err != nil {
		return nil, err
	}
	s.stores[profileID] = store
	return store, nil
}

// Peek returns the retained store for profileID or, when there is none, a
// freshly loaded one that is not retained. It serves reads without growing
// the set of open profiles.
func (s *ProgressService) Peek(ctx context.Context, profileID string) (*ProgressStore, error) {
	if profileID == "" {
		return nil, domain.ErrProfileRequired
	}
	s.mu.Lock()
	store, ok := s.stores[profileID]
	s.mu.Unlock()
	if ok {
		return store, nil
	}
	store = NewProgressStore(profileID, s.backend, s.opts...)
	if _, err := store.Load(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// RecordQuizResult appends result to the profile's history.
func (s *ProgressService) RecordQuizResult(ctx context.Context, profileID string, result domain.QuizResult, filter domain.QuizFilter) (domain.HistoryEntry, error) {
	store, err := s.Open(ctx, profileID)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	return store.AppendQuizResult(ctx, result, filter)
}

// Profiles lists the profiles opened by this process, sorted.
func (s *ProgressService) Profiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.stores))
	for id := range s.stores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
