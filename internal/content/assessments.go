// Package content holds the static learning material: assessment question
// sets, the knowledge quiz seed bank, the module catalog and small helpers.
package content

import "gyani-service/internal/domain"

// HealthCheckQuestions is the financial health check question set.
func HealthCheckQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:     "confidence",
			Prompt: "On a scale of 1-5, how confident do you feel about your current financial situation?",
			Options: []domain.Option{
				{Value: "1", Label: "1 - Help! I need guidance", Score: 1},
				{Value: "2", Label: "2 - Struggling a bit", Score: 2},
				{Value: "3", Label: "3 - Getting by okay", Score: 3},
				{Value: "4", Label: "4 - Pretty confident", Score: 4},
				{Value: "5", Label: "5 - I've got this!", Score: 5},
			},
		},
		{
			ID:     "savings",
			Prompt: "Do you currently have any savings set aside?",
			Options: []domain.Option{
				{Value: "none", Label: "No savings yet", Score: 1},
				{Value: "small", Label: "A small amount (under $500)", Score: 2},
				{Value: "emergency", Label: "Some emergency savings", Score: 4},
				{Value: "solid", Label: "Solid savings foundation", Score: 5},
			},
		},
		{
			ID:     "investing",
			Prompt: "What's your experience with investing?",
			Options: []domain.Option{
				{Value: "none", Label: "Never invested before", Score: 1},
				{Value: "curious", Label: "Curious but haven't started", Score: 2},
				{Value: "learning", Label: "Just getting started", Score: 3},
				{Value: "some", Label: "Have some investments", Score: 4},
				{Value: "experienced", Label: "Experienced investor", Score: 5},
			},
		},
	}
}

// RiskQuestions is the risk assessment question set.
func RiskQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:     "age",
			Prompt: "What is your age group?",
			Options: []domain.Option{
				{Value: "under25", Label: "Under 25", Score: 5},
				{Value: "25-35", Label: "25-35 years", Score: 4},
				{Value: "35-45", Label: "35-45 years", Score: 3},
				{Value: "45-55", Label: "45-55 years", Score: 2},
				{Value: "over55", Label: "Over 55", Score: 1},
			},
		},
		{
			ID:     "income",
			Prompt: "What percentage of your income can you invest without affecting your lifestyle?",
			Options: []domain.Option{
				{Value: "over30", Label: "More than 30%", Score: 5},
				{Value: "20-30", Label: "20-30%", Score: 4},
				{Value: "10-20", Label: "10-20%", Score: 3},
				{Value: "5-10", Label: "5-10%", Score: 2},
				{Value: "under5", Label: "Less than 5%", Score: 1},
			},
		},
		{
			ID:     "experience",
			Prompt: "How much investment experience do you have?",
			Options: []domain.Option{
				{Value: "expert", Label: "Expert (10+ years)", Score: 5},
				{Value: "experienced", Label: "Experienced (5-10 years)", Score: 4},
				{Value: "moderate", Label: "Moderate (2-5 years)", Score: 3},
				{Value: "beginner", Label: "Beginner (Less than 2 years)", Score: 2},
				{Value: "none", Label: "No experience", Score: 1},
			},
		},
		{
			ID:     "volatility",
			Prompt: "If your investment lost 20% in a month, what would you do?",
			Options: []domain.Option{
				{Value: "buy-more", Label: "Buy more - it's a good opportunity", Score: 5},
				{Value: "hold", Label: "Hold and wait for recovery", Score: 4},
				{Value: "review", Label: "Review my strategy", Score: 3},
				{Value: "sell-some", Label: "Sell some to reduce risk", Score: 2},
				{Value: "sell-all", Label: "Sell everything immediately", Score: 1},
			},
		},
		{
			ID:     "timeframe",
			Prompt: "What is your investment time horizon?",
			Options: []domain.Option{
				{Value: "over10", Label: "More than 10 years", Score: 5},
				{Value: "5-10", Label: "5-10 years", Score: 4},
				{Value: "3-5", Label: "3-5 years", Score: 3},
				{Value: "1-3", Label: "1-3 years", Score: 2},
				{Value: "under1", Label: "Less than 1 year", Score: 1},
			},
		},
	}
}
