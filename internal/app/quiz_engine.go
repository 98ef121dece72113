package app

import (
	"math/rand"
	"sync"
	"time"

	"gyani-service/internal/domain"
	"gyani-service/internal/scoring"
)

// DefaultMaxQuestions caps the questions drawn for one attempt.
const DefaultMaxQuestions = 10

// State of a quiz attempt.
type State string

const (
	StateNoQuestions State = "no_questions"
	StateAnswering   State = "answering"
	StateReviewing   State = "reviewing"
	StateCompleted   State = "completed"
)

const noAnswer = -1

// SelectQuestions filters the bank, shuffles the matches with rnd and keeps at most limit.
func SelectQuestions(bank []domain.QuizQuestion, filter domain.QuizFilter, rnd *rand.Rand, limit int) []domain.QuizQuestion {
	filtered := make([]domain.QuizQuestion, 0, len(bank))
	for _, q := range bank {
		if filter.Matches(q) {
			filtered = append(filtered, q)
		}
	}
	if rnd != nil {
		rnd.Shuffle(len(filtered), func(i, j int) {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		})
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// Engine drives a single quiz attempt from the first question to completion.
type Engine struct {
	mu        sync.RWMutex
	filter    domain.QuizFilter
	questions []domain.QuizQuestion
	answers   []int
	index     int
	state     State
	startedAt time.Time
	now       func() time.Time
	result    *domain.QuizResult
}

// NewEngine starts an attempt over questions. An empty set yields an engine
// parked in StateNoQuestions.
func NewEngine(questions []domain.QuizQuestion, filter domain.QuizFilter, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = noAnswer
	}
	state := StateAnswering
	if len(questions) == 0 {
		state = StateNoQuestions
	}
	return &Engine{
		filter:    filter,
		questions: questions,
		answers:   answers,
		state:     state,
		startedAt: now(),
		now:       now,
	}
}

// Select records the answer for the current question, overwriting any earlier one.
func (e *Engine) Select(option int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkActiveLocked(); err != nil {
		return err
	}
	if e.state == StateReviewing {
		return domain.ErrAnswerLocked
	}
	if option < 0 || option >= len(e.questions[e.index].Options) {
		return domain.ErrInvalidOption
	}
	e.answers[e.index] = option
	return nil
}

// Advance moves the attempt forward. Advancing without an answer returns
// ErrAnswerRequired and leaves the state untouched.
func (e *Engine) Advance() (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkActiveLocked(); err != nil {
		return e.state, err
	}
	if e.answers[e.index] == noAnswer {
		return e.state, domain.ErrAnswerRequired
	}

	if e.state == StateAnswering && e.questions[e.index].Explanation != "" {
		e.state = StateReviewing
		return e.state, nil
	}

	if e.index < len(e.questions)-1 {
		e.index++
		e.state = StateAnswering
		return e.state, nil
	}

	e.completeLocked()
	return e.state, nil
}

// Previous steps back one question keeping its answer. It is a no-op on the first question.
func (e *Engine) Previous() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkActiveLocked(); err != nil {
		return err
	}
	if e.index == 0 {
		return nil
	}
	e.index--
	e.state = StateAnswering
	return nil
}

// State returns the current state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Filter returns the filter the questions were drawn with.
func (e *Engine) Filter() domain.QuizFilter {
	return e.filter
}

// Elapsed is the time since the attempt started, frozen at completion.
func (e *Engine) Elapsed() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.elapsedLocked()
}

// Result returns the completed result, if any.
func (e *Engine) Result() (domain.QuizResult, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.result == nil {
		return domain.QuizResult{}, false
	}
	return cloneResult(*e.result), true
}

func (e *Engine) checkActiveLocked() error {
	switch e.state {
	case StateNoQuestions:
		return domain.ErrNoQuestions
	case StateCompleted:
		return domain.ErrQuizFinished
	}
	return nil
}

func (e *Engine) elapsedLocked() time.Duration {
	if e.result != nil {
		return time.Duration(e.result.TimeSpent) * time.Second
	}
	return e.now().Sub(e.startedAt)
}

func (e *Engine) completeLocked() {
	elapsed := e.now().Sub(e.startedAt)
	correct, points := 0, 0
	for i, q := range e.questions {
		if e.answers[i] == q.CorrectOption {
			correct++
			points += q.Points
		}
	}
	total := len(e.questions)
	pct := 100 * float64(correct) / float64(total)

	e.result = &domain.QuizResult{
		Score:          points,
		TotalQuestions: total,
		CorrectAnswers: correct,
		TimeSpent:      int(elapsed / time.Second),
		Grade:          scoring.Grade(pct),
		Achievements:   scoring.Achievements(pct, correct, elapsed),
	}
	e.state = StateCompleted
}

func cloneResult(r domain.QuizResult) domain.QuizResult {
	r.Achievements = append([]string{}, r.Achievements...)
	return r
}

// QuestionView is a question as shown to the learner. The correct option and
// explanation are only filled once the answer has been locked in.
type QuestionView struct {
	ID            string            `json:"id"`
	Prompt        string            `json:"prompt"`
	Options       []string          `json:"options"`
	Difficulty    domain.Difficulty `json:"difficulty"`
	Category      string            `json:"category"`
	Points        int               `json:"points"`
	CorrectOption *int              `json:"correctOption,omitempty"`
	Explanation   string            `json:"explanation,omitempty"`
}

// EngineView is a render-ready snapshot of an attempt.
type EngineView struct {
	State          State              `json:"state"`
	Index          int                `json:"index"`
	TotalQuestions int                `json:"totalQuestions"`
	Question       *QuestionView      `json:"question,omitempty"`
	Selected       *int               `json:"selected,omitempty"`
	ElapsedSeconds int                `json:"elapsedSeconds"`
	Filter         domain.QuizFilter  `json:"filter"`
	Result         *domain.QuizResult `json:"result,omitempty"`
}

// View snapshots the attempt.
func (e *Engine) View() EngineView {
	e.mu.RLock()
	defer e.mu.RUnlock()

	view := EngineView{
		State:          e.state,
		Index:          e.index,
		TotalQuestions: len(e.questions),
		ElapsedSeconds: int(e.elapsedLocked() / time.Second),
		Filter:         e.filter,
	}
	if e.result != nil {
		r := cloneResult(*e.result)
		view.Result = &r
		return view
	}
	if e.state == StateNoQuestions {
		return view
	}

	q := e.questions[e.index]
	qv := &QuestionView{
		ID:         q.ID,
		Prompt:     q.Prompt,
		Options:    append([]string{}, q.Options...),
		Difficulty: q.Difficulty,
		Category:   q.Category,
		Points:     q.Points,
	}
	if e.state == StateReviewing {
		correct := q.CorrectOption
		qv.CorrectOption = &correct
		qv.Explanation = q.Explanation
	}
	view.Question = qv
	if sel := e.answers[e.index]; sel != noAnswer {
		view.Selected = &sel
	}
	return view
}
