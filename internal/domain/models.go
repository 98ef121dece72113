package domain

import "time"

// Option is one choice of a scored assessment question.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Score int    `json:"score"`
}

// Question is an assessment question whose options carry a trait score.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

// AnswerMap maps a question id to the value token of the selected option.
type AnswerMap map[string]string

// Difficulty of a knowledge quiz question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyAll    Difficulty = "all"
)

// CategoryAll matches every category in a QuizFilter.
const CategoryAll = "all"

// QuizQuestion is a knowledge quiz question with exactly one correct option.
type QuizQuestion struct {
	ID            string     `json:"id"`
	Prompt        string     `json:"prompt"`
	Options       []string   `json:"options"`
	CorrectOption int        `json:"correctOption"`
	Explanation   string     `json:"explanation"`
	Difficulty    Difficulty `json:"difficulty"`
	Category      string     `json:"category"`
	Points        int        `json:"points"`
}

// QuizFilter narrows the knowledge bank. Empty fields behave like "all".
type QuizFilter struct {
	Category   string     `json:"category,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

// Matches reports whether q passes the filter.
func (f QuizFilter) Matches(q QuizQuestion) bool {
	if f.Category != "" && f.Category != CategoryAll && q.Category != f.Category {
		return false
	}
	if f.Difficulty != "" && f.Difficulty != DifficultyAll && q.Difficulty != f.Difficulty {
		return false
	}
	return true
}

// QuizResult is the immutable outcome of a completed quiz attempt.
type QuizResult struct {
	Score          int      `json:"score"`
	TotalQuestions int      `json:"totalQuestions"`
	CorrectAnswers int      `json:"correctAnswers"`
	TimeSpent      int      `json:"timeSpent"`
	Grade          string   `json:"grade"`
	Achievements   []string `json:"achievements"`
}

// Percentage of questions answered correctly.
func (r QuizResult) Percentage() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return 100 * float64(r.CorrectAnswers) / float64(r.TotalQuestions)
}

// HistoryEntry is a QuizResult as stored in a profile's quiz history.
type HistoryEntry struct {
	QuizResult
	Timestamp  time.Time `json:"timestamp"`
	Category   string    `json:"category,omitempty"`
	Difficulty string    `json:"difficulty,omitempty"`
}

// ModuleFlags maps module ids to their completion flag.
type ModuleFlags map[string]bool

// ProgressRecord is everything persisted for one profile.
type ProgressRecord struct {
	Modules ModuleFlags    `json:"modules"`
	History []HistoryEntry `json:"history"`
}

// ProgressSummary is the dashboard view derived from module flags.
type ProgressSummary struct {
	ProfileID      string  `json:"profileId"`
	CompletedCount int     `json:"completedCount"`
	TotalCount     int     `json:"totalCount"`
	Percentage     float64 `json:"percentage"`
	KnowledgeLevel string  `json:"knowledgeLevel"`
	WeeklyGoal     int     `json:"weeklyGoal"`
	WeeklyProgress float64 `json:"weeklyProgress"`
	QuizzesTaken   int     `json:"quizzesTaken"`
}

// Module is one educational unit of the catalog.
type Module struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Difficulty       string   `json:"difficulty"`
	EstimatedMinutes int      `json:"estimatedMinutes"`
	Topics           []string `json:"topics"`
	Description      string   `json:"description"`
}

// ProgressEventType names a progress change.
type ProgressEventType string

const (
	EventModuleCompleted ProgressEventType = "module.completed"
	EventQuizCompleted   ProgressEventType = "quiz.completed"
)

// ProgressEvent is published after a progress change was persisted.
type ProgressEvent struct {
	ID        string            `json:"id"`
	Type      ProgressEventType `json:"type"`
	ProfileID string            `json:"profileId"`
	ModuleID  string            `json:"moduleId,omitempty"`
	Entry     *HistoryEntry     `json:"entry,omitempty"`
	Summary   ProgressSummary   `json:"summary"`
	Timestamp time.Time         `json:"timestamp"`
}
