package app

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"gyani-service/internal/domain"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

// Document keys a profile's progress is persisted under.
const (
	ModulesKey = "gyani-education-progress"
	HistoryKey = "quiz-results"
)

// DefaultWeeklyGoal is the number of modules a learner aims to finish per week.
const DefaultWeeklyGoal = 3

const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// ProgressBackend is a per-profile key/value document store.
type ProgressBackend interface {
	Read(ctx context.Context, profileID, key string) ([]byte, bool, error)
	Write(ctx context.Context, profileID, key string, value []byte) error
}

// EventPublisher forwards progress events to interested parties.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ProgressEvent) error
}

// ProgressStore owns one profile's progress record. Every change is written
// to the backend before it becomes visible in memory.
type ProgressStore struct {
	profileID string
	backend   ProgressBackend
	catalog   map[string]struct{}
	events    EventPublisher
	now       func() time.Time

	mu          sync.RWMutex
	record      domain.ProgressRecord
	loadErr     error
	subscribers map[chan domain.ProgressSummary]struct{}
}

// ProgressOption customises a ProgressStore.
type ProgressOption func(*ProgressStore)

// WithCatalog restricts module ids to catalog and fixes the summary total to its size.
func WithCatalog(moduleIDs []string) ProgressOption {
	return func(s *ProgressStore) {
		s.catalog = make(map[string]struct{}, len(moduleIDs))
		for _, id := range moduleIDs {
			s.catalog[id] = struct{}{}
		}
	}
}

// WithEvents publishes a ProgressEvent after every persisted change.
func WithEvents(p EventPublisher) ProgressOption {
	return func(s *ProgressStore) { s.events = p }
}

// WithProgressClock overrides time.Now for history timestamps.
func WithProgressClock(now func() time.Time) ProgressOption {
	return func(s *ProgressStore) { s.now = now }
}

func NewProgressStore(profileID string, backend ProgressBackend, opts ...ProgressOption) *ProgressStore {
	s := &ProgressStore{
		profileID:   profileID,
		backend:     backend,
		now:         time.Now,
		record:      emptyRecord(),
		subscribers: make(map[chan domain.ProgressSummary]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func emptyRecord() domain.ProgressRecord {
	return domain.ProgressRecord{
		Modules: domain.ModuleFlags{},
		History: []domain.HistoryEntry{},
	}
}

// Load reads both documents from the backend. Missing or malformed documents
// load as empty values. A backend read failure leaves the store unloaded and
// every later write is refused until a Load succeeds.
func (s *ProgressStore) Load(ctx context.Context) (domain.ProgressRecord, error) {
	modules := domain.ModuleFlags{}
	found, err := s.readDocument(ctx, ModulesKey, &modules)
	if err != nil {
		return s.failLoad(err)
	}
	if !found {
		modules = domain.ModuleFlags{}
	}
	history := []domain.HistoryEntry{}
	found, err = s.readDocument(ctx, HistoryKey, &history)
	if err != nil {
		return s.failLoad(err)
	}
	if !found || history == nil {
		history = []domain.HistoryEntry{}
	}

	s.mu.Lock()
	s.record = domain.ProgressRecord{Modules: modules, History: history}
	s.loadErr = nil
	out := cloneRecord(s.record)
	s.mu.Unlock()
	return out, nil
}

func (s *ProgressStore) failLoad(err error) (domain.ProgressRecord, error) {
	err = fmt.Errorf("%w: profile %s: %v", domain.ErrProgressUnavailable, s.profileID, err)
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
	return emptyRecord(), err
}

// readDocument reports whether key held a decodable document. Only backend
// failures are returned as errors.
func (s *ProgressStore) readDocument(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := s.backend.Read(ctx, s.profileID, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := decodeDocument(key, raw, dst); err != nil {
		glog.Warningf("progress %s: discarding %s: %v", s.profileID, key, err)
		return false, nil
	}
	return true, nil
}

// MarkModuleComplete sets the module's flag and persists the flags document.
// Marking an already completed module is a no-op.
func (s *ProgressStore) MarkModuleComplete(ctx context.Context, moduleID string) (domain.ProgressSummary, error) {
	if s.catalog != nil {
		if _, ok := s.catalog[moduleID]; !ok {
			return domain.ProgressSummary{}, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, moduleID)
		}
	} else if moduleID == "" {
		return domain.ProgressSummary{}, domain.ErrModuleNotFound
	}

	s.mu.Lock()
	if s.loadErr != nil {
		err := s.loadErr
		s.mu.Unlock()
		return domain.ProgressSummary{}, err
	}
	if s.record.Modules[moduleID] {
		summary := s.summaryLocked()
		s.mu.Unlock()
		return summary, nil
	}

	next := make(domain.ModuleFlags, len(s.record.Modules)+1)
	for id, done := range s.record.Modules {
		next[id] = done
	}
	next[moduleID] = true
	if err := s.writeDocument(ctx, ModulesKey, next); err != nil {
		s.mu.Unlock()
		return domain.ProgressSummary{}, err
	}
	s.record.Modules = next
	summary := s.summaryLocked()
	s.broadcastLocked(summary)
	s.mu.Unlock()

	s.publish(ctx, domain.ProgressEvent{
		Type:     domain.EventModuleCompleted,
		ModuleID: moduleID,
		Summary:  summary,
	})
	return summary, nil
}

// AppendQuizResult stamps result with the current time, appends it to the
// history and persists the history document.
func (s *ProgressStore) AppendQuizResult(ctx context.Context, result domain.QuizResult, filter domain.QuizFilter) (domain.HistoryEntry, error) {
	entry := domain.HistoryEntry{
		QuizResult: cloneResult(result),
		Timestamp:  s.now().UTC(),
		Category:   filter.Category,
		Difficulty: string(filter.Difficulty),
	}

	s.mu.Lock()
	if s.loadErr != nil {
		err := s.loadErr
		s.mu.Unlock()
		return domain.HistoryEntry{}, err
	}
	next := make([]domain.HistoryEntry, len(s.record.History), len(s.record.History)+1)
	copy(next, s.record.History)
	next = append(next, entry)
	if err := s.writeDocument(ctx, HistoryKey, next); err != nil {
		s.mu.Unlock()
		return domain.HistoryEntry{}, err
	}
	s.record.History = next
	summary := s.summaryLocked()
	s.broadcastLocked(summary)
	s.mu.Unlock()

	s.publish(ctx, domain.ProgressEvent{
		Type:    domain.EventQuizCompleted,
		Entry:   &entry,
		Summary: summary,
	})
	return entry, nil
}

func (s *ProgressStore) writeDocument(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Write(ctx, s.profileID, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *ProgressStore) publish(ctx context.Context, event domain.ProgressEvent) {
	if s.events == nil {
		return
	}
	event.ID = uuid.NewString()
	event.ProfileID = s.profileID
	event.Timestamp = s.now().UTC()
	if err := s.events.Publish(ctx, event); err != nil {
		glog.Warningf("progress %s: publish %s: %v", s.profileID, event.Type, err)
	}
}

// Record returns a copy of the in-memory record.
func (s *ProgressStore) Record() domain.ProgressRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecord(s.record)
}

// History returns a copy of the quiz history, oldest first.
func (s *ProgressStore) History() []domain.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecord(s.record).History
}

// Summary derives the dashboard numbers from the module flags.
func (s *ProgressStore) Summary() domain.ProgressSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaryLocked()
}

func (s *ProgressStore) summaryLocked() domain.ProgressSummary {
	completed := 0
	for id, done := range s.record.Modules {
		if !done {
			continue
		}
		if s.catalog != nil {
			if _, ok := s.catalog[id]; !ok {
				continue
			}
		}
		completed++
	}
	total := len(s.record.Modules)
	if s.catalog != nil {
		total = len(s.catalog)
	}

	var pct float64
	if total > 0 {
		pct = 100 * float64(completed) / float64(total)
	}
	return domain.ProgressSummary{
		ProfileID:      s.profileID,
		CompletedCount: completed,
		TotalCount:     total,
		Percentage:     pct,
		KnowledgeLevel: KnowledgeLevel(completed),
		WeeklyGoal:     DefaultWeeklyGoal,
		WeeklyProgress: math.Min(100, 100*float64(completed)/DefaultWeeklyGoal),
		QuizzesTaken:   len(s.record.History),
	}
}

// KnowledgeLevel labels a learner by completed module count.
func KnowledgeLevel(completed int) string {
	switch {
	case completed < 2:
		return LevelBeginner
	case completed < 5:
		return LevelIntermediate
	default:
		return LevelAdvanced
	}
}

// Subscribe returns a channel receiving the summary after every persisted change.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *ProgressStore) Subscribe() (<-chan domain.ProgressSummary, func()) {
	ch := make(chan domain.ProgressSummary, 1)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- s.summaryLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *ProgressStore) broadcastLocked(summary domain.ProgressSummary) {
	for ch := range s.subscribers {
		select {
		case ch <- summary:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- summary
		}
	}
}

func cloneRecord(r domain.ProgressRecord) domain.ProgressRecord {
	out := domain.ProgressRecord{
		Modules: make(domain.ModuleFlags, len(r.Modules)),
		History: make([]domain.HistoryEntry, len(r.History)),
	}
	for id, done := range r.Modules {
		out.Modules[id] = done
	}
	for i, e := range r.History {
		e.QuizResult = cloneResult(e.QuizResult)
		out.History[i] = e
	}
	return out
}
