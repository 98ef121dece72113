package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gyani-service/internal/content"
	"gyani-service/internal/domain"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

// SessionRepository abstracts where live quiz sessions are kept (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Save(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuestionBankRepository loads quiz question banks (from cache/backing store).
type QuestionBankRepository interface {
	GetBank(ctx context.Context, bankID string) ([]domain.QuizQuestion, error)
}

// ResultRecorder persists completed quiz results for a profile.
type ResultRecorder interface {
	RecordQuizResult(ctx context.Context, profileID string, result domain.QuizResult, filter domain.QuizFilter) (domain.HistoryEntry, error)
}

// QuizService contains the quiz-taking use cases.
type QuizService struct {
	sessions SessionRepository
	banks    QuestionBankRepository
	results  ResultRecorder
	bankID   string
	limit    int
	now      func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// QuizOption customises a QuizService.
type QuizOption func(*QuizService)

// WithRand fixes the source used to shuffle questions.
func WithRand(rnd *rand.Rand) QuizOption {
	return func(s *QuizService) { s.rnd = rnd }
}

// WithClock overrides time.Now for sessions started by the service.
func WithClock(now func() time.Time) QuizOption {
	return func(s *QuizService) { s.now = now }
}

// WithMaxQuestions caps the number of questions per attempt.
func WithMaxQuestions(n int) QuizOption {
	return func(s *QuizService) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithBank selects the question bank sessions draw from.
func WithBank(bankID string) QuizOption {
	return func(s *QuizService) { s.bankID = bankID }
}

func NewQuizService(sessions SessionRepository, banks QuestionBankRepository, results ResultRecorder, opts ...QuizOption) *QuizService {
	s := &QuizService{
		sessions: sessions,
		banks:    banks,
		results:  results,
		bankID:   content.KnowledgeBankID,
		limit:    DefaultMaxQuestions,
		now:      time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SessionView is what clients render: the engine snapshot plus session identity.
type SessionView struct {
	SessionID string `json:"sessionId"`
	ProfileID string `json:"profileId"`
	EngineView
}

// Start draws questions for filter and opens a new session for profileID.
// A filter that matches nothing still opens a session, parked in StateNoQuestions.
func (s *QuizService) Start(ctx context.Context, profileID string, filter domain.QuizFilter) (SessionView, error) {
	if profileID == "" {
		return SessionView{}, domain.ErrProfileRequired
	}
	bank, err := s.banks.GetBank(ctx, s.bankID)
	if err != nil {
		return SessionView{}, fmt.Errorf("load bank %s: %w", s.bankID, err)
	}

	s.rndMu.Lock()
	questions := SelectQuestions(bank, filter, s.rnd, s.limit)
	s.rndMu.Unlock()

	session := newSession(uuid.NewString(), profileID, NewEngine(questions, filter, s.now))
	s.sessions.Save(session)
	glog.V(2).Infof("quiz session %s started for %s with %d questions", session.id, profileID, len(questions))
	return session.view(), nil
}

// Select records an answer on the current question.
func (s *QuizService) Select(_ context.Context, sessionID string, option int) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	if err := session.engine.Select(option); err != nil {
		return session.view(), err
	}
	return session.publish(), nil
}

// Advance moves the session forward. On completion the result is recorded
// against the profile; a recording failure is returned alongside the
// completed view and does not undo completion.
func (s *QuizService) Advance(ctx context.Context, sessionID string) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	state, err := session.engine.Advance()
	if err != nil {
		return session.view(), err
	}
	view := session.publish()
	if state != StateCompleted || s.results == nil {
		return view, nil
	}

	result, _ := session.engine.Result()
	if _, err := s.results.RecordQuizResult(ctx, session.profileID, result, session.engine.Filter()); err != nil {
		glog.Warningf("record quiz result for %s: %v", session.profileID, err)
		return view, fmt.Errorf("record quiz result: %w", err)
	}
	return view, nil
}

// Previous steps back to the prior question.
func (s *QuizService) Previous(_ context.Context, sessionID string) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	if err := session.engine.Previous(); err != nil {
		return session.view(), err
	}
	return session.publish(), nil
}

// Restart discards the session and starts a fresh one with the same profile and filter.
func (s *QuizService) Restart(ctx context.Context, sessionID string) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	s.Close(ctx, sessionID)
	return s.Start(ctx, session.profileID, session.engine.Filter())
}

// View returns the current snapshot of a session.
func (s *QuizService) View(_ context.Context, sessionID string) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	return session.view(), nil
}

// Subscribe returns a channel that receives the session view after every change.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan SessionView, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Close discards a session and releases its subscribers.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	s.sessions.Delete(sessionID)
	session.closeSubscribers()
}

// Session is an in-memory quiz attempt owned by one profile.
type Session struct {
	id          string
	profileID   string
	engine      *Engine
	mu          sync.Mutex
	subscribers map[chan SessionView]struct{}
}

// NewSession is exported for infrastructure layers and tests that seed sessions.
func NewSession(id, profileID string, engine *Engine) *Session {
	return newSession(id, profileID, engine)
}

func newSession(id, profileID string, engine *Engine) *Session {
	return &Session{
		id:          id,
		profileID:   profileID,
		engine:      engine,
		subscribers: make(map[chan SessionView]struct{}),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// ProfileID returns the owning profile.
func (s *Session) ProfileID() string { return s.profileID }

func (s *Session) view() SessionView {
	return SessionView{SessionID: s.id, ProfileID: s.profileID, EngineView: s.engine.View()}
}

func (s *Session) subscribe() (<-chan SessionView, func()) {
	ch := make(chan SessionView, 1)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- s.view()
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

func (s *Session) publish() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := s.view()
	for ch := range s.subscribers {
		select {
		case ch <- view:
		default:
			// drop the stale view so slow readers always see the latest
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
	return view
}

func (s *Session) closeSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}
