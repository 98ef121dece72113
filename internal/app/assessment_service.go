package app

import (
	"gyani-service/internal/content"
	"gyani-service/internal/domain"
	"gyani-service/internal/scoring"
)

// Assessment kinds.
const (
	AssessmentHealth = "health"
	AssessmentRisk   = "risk"
)

// AssessmentResult is the scored outcome of a health check or risk profile.
type AssessmentResult struct {
	Kind       string               `json:"kind"`
	Score      scoring.Score        `json:"score"`
	Percentage int                  `json:"percentage"`
	Health     *scoring.HealthTier  `json:"health,omitempty"`
	Risk       *scoring.RiskProfile `json:"risk,omitempty"`
}

// AssessmentService scores the multiple-choice assessments.
type AssessmentService struct {
	sets map[string]func() []domain.Question
}

func NewAssessmentService() *AssessmentService {
	return &AssessmentService{
		sets: map[string]func() []domain.Question{
			AssessmentHealth: content.HealthCheckQuestions,
			AssessmentRisk:   content.RiskQuestions,
		},
	}
}

// Questions returns the question set for kind.
func (s *AssessmentService) Questions(kind string) ([]domain.Question, error) {
	set, ok := s.sets[kind]
	if !ok {
		return nil, domain.ErrAssessmentNotFound
	}
	return set(), nil
}

// Assess validates answers against kind's questions and classifies the score.
func (s *AssessmentService) Assess(kind string, answers domain.AnswerMap) (AssessmentResult, error) {
	questions, err := s.Questions(kind)
	if err != nil {
		return AssessmentResult{}, err
	}
	if err := scoring.ValidateAnswers(questions, answers); err != nil {
		return AssessmentResult{}, err
	}

	score := scoring.Calculate(questions, answers)
	result := AssessmentResult{
		Kind:       kind,
		Score:      score,
		Percentage: score.Rounded(),
	}
	switch kind {
	case AssessmentHealth:
		tier := scoring.ClassifyHealth(score.Percentage)
		result.Health = &tier
	case AssessmentRisk:
		profile := scoring.ClassifyRisk(score.Percentage)
		result.Risk = &profile
	}
	return result, nil
}
