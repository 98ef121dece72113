// Package scoring holds the pure score and tier functions shared by the
// financial health check, the risk assessment and the knowledge quiz.
package scoring

import (
	"fmt"
	"math"

	"gyani-service/internal/domain"
)

// Score is the outcome of a scored assessment.
type Score struct {
	Total      int     `json:"totalScore"`
	Max        int     `json:"maxScore"`
	Percentage float64 `json:"percentage"`
}

// Rounded returns the percentage rounded to the nearest integer.
func (s Score) Rounded() int {
	return int(math.Round(s.Percentage))
}

// Calculate sums the score of the selected option for every answered question.
// Unanswered questions and unknown value tokens contribute 0. The maximum is
// the number of questions times the highest option score found in the set.
func Calculate(questions []domain.Question, answers domain.AnswerMap) Score {
	total := 0
	maxOption := 0
	for _, q := range questions {
		for _, opt := range q.Options {
			if opt.Score > maxOption {
				maxOption = opt.Score
			}
		}
		value, ok := answers[q.ID]
		if !ok {
			continue
		}
		if opt, found := findOption(q, value); found {
			total += opt.Score
		}
	}

	max := len(questions) * maxOption
	return Score{
		Total:      total,
		Max:        max,
		Percentage: percentage(total, max),
	}
}

// ValidateAnswers checks that every answer references a question of the set
// and one of that question's option tokens.
func ValidateAnswers(questions []domain.Question, answers domain.AnswerMap) error {
	byID := make(map[string]domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	for questionID, value := range answers {
		q, ok := byID[questionID]
		if !ok {
			return fmt.Errorf("%w: %q", domain.ErrUnknownQuestion, questionID)
		}
		if _, found := findOption(q, value); !found {
			return fmt.Errorf("%w: %q for question %q", domain.ErrUnknownOption, value, questionID)
		}
	}
	return nil
}

func findOption(q domain.Question, value string) (domain.Option, bool) {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return domain.Option{}, false
}

// percentage returns 100*part/whole clamped to [0,100]; 0 when whole is 0.
func percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	p := 100 * float64(part) / float64(whole)
	return math.Max(0, math.Min(100, p))
}
