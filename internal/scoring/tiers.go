package scoring

import "time"

// HealthTier is the financial health check outcome.
type HealthTier struct {
	Name            string   `json:"name"`
	Recommendations []string `json:"recommendations"`
}

const (
	TierBuildingFoundation = "Building Foundation"
	TierGrowingStrong      = "Growing Strong"
	TierFinancialPro       = "Financial Pro"
)

// ClassifyHealth maps a health check percentage to its tier.
func ClassifyHealth(p float64) HealthTier {
	switch {
	case p < 40:
		return HealthTier{
			Name: TierBuildingFoundation,
			Recommendations: []string{
				"Start with the 'First Steps in Saving' module",
				"Learn about budgeting basics",
				"Build an emergency fund goal",
			},
		}
	case p < 70:
		return HealthTier{
			Name: TierGrowingStrong,
			Recommendations: []string{
				"Explore compound interest concepts",
				"Learn about different investment types",
				"Set up automatic savings",
			},
		}
	default:
		return HealthTier{
			Name: TierFinancialPro,
			Recommendations: []string{
				"Advanced investing strategies",
				"Tax-efficient investing",
				"Portfolio diversification",
			},
		}
	}
}

// RiskType names a risk profile.
type RiskType string

const (
	RiskConservative RiskType = "Conservative"
	RiskModerate     RiskType = "Moderate"
	RiskAggressive   RiskType = "Aggressive"
)

// Allocation is a recommended asset split in percent; the fields sum to 100.
type Allocation struct {
	Equity int `json:"equity"`
	Debt   int `json:"debt"`
	Gold   int `json:"gold"`
	Cash   int `json:"cash"`
}

// Sum of all allocation buckets.
func (a Allocation) Sum() int {
	return a.Equity + a.Debt + a.Gold + a.Cash
}

// RiskProfile is static lookup data for a risk tier.
type RiskProfile struct {
	Type            RiskType   `json:"type"`
	Description     string     `json:"description"`
	Allocation      Allocation `json:"allocation"`
	ExpectedReturn  string     `json:"expectedReturn"`
	Volatility      string     `json:"volatility"`
	Recommendations []string   `json:"recommendations"`
}

var riskProfiles = map[RiskType]RiskProfile{
	RiskConservative: {
		Type:           RiskConservative,
		Description:    "You prefer stable investments with predictable returns. Capital preservation is your priority.",
		Allocation:     Allocation{Equity: 20, Debt: 60, Gold: 10, Cash: 10},
		ExpectedReturn: "8-10% annually",
		Volatility:     "Low (±5%)",
		Recommendations: []string{
			"Focus on fixed deposits and government bonds",
			"Consider debt mutual funds",
			"Limit equity exposure to 20-30%",
		},
	},
	RiskModerate: {
		Type:           RiskModerate,
		Description:    "You can handle some market fluctuations for potentially higher returns.",
		Allocation:     Allocation{Equity: 50, Debt: 35, Gold: 10, Cash: 5},
		ExpectedReturn: "10-14% annually",
		Volatility:     "Medium (±12%)",
		Recommendations: []string{
			"Balanced portfolio with 50-60% equity",
			"Diversify across sectors",
			"Consider SIP investments",
		},
	},
	RiskAggressive: {
		Type:           RiskAggressive,
		Description:    "You're comfortable with high volatility in pursuit of maximum returns.",
		Allocation:     Allocation{Equity: 80, Debt: 15, Gold: 3, Cash: 2},
		ExpectedReturn: "14-18% annually",
		Volatility:     "High (±20%)",
		Recommendations: []string{
			"Higher equity allocation (70-80%)",
			"Consider growth stocks",
			"Explore derivatives with caution",
		},
	},
}

// ClassifyRisk maps a risk assessment percentage to its profile.
// Boundaries are inclusive, unlike the health check.
func ClassifyRisk(p float64) RiskProfile {
	var t RiskType
	switch {
	case p <= 40:
		t = RiskConservative
	case p <= 70:
		t = RiskModerate
	default:
		t = RiskAggressive
	}
	profile := riskProfiles[t]
	profile.Recommendations = append([]string(nil), profile.Recommendations...)
	return profile
}

// Grade maps a knowledge quiz percentage to a letter grade.
func Grade(p float64) string {
	switch {
	case p >= 90:
		return "A+"
	case p >= 80:
		return "A"
	case p >= 70:
		return "B"
	case p >= 60:
		return "C"
	case p >= 50:
		return "D"
	default:
		return "F"
	}
}

const (
	AchievementPerfectScore    = "Perfect Score"
	AchievementExcellence      = "Excellence Award"
	AchievementHighAchiever    = "High Achiever"
	AchievementSpeedDemon      = "Speed Demon"
	AchievementKnowledgeSeeker = "Knowledge Seeker"
)

// SpeedDemonLimit is the elapsed time under which a quiz earns Speed Demon.
const SpeedDemonLimit = 5 * time.Minute

// Achievements evaluates every badge independently.
func Achievements(p float64, correct int, elapsed time.Duration) []string {
	out := []string{}
	if p == 100 {
		out = append(out, AchievementPerfectScore)
	}
	if p >= 90 {
		out = append(out, AchievementExcellence)
	}
	if p >= 80 {
		out = append(out, AchievementHighAchiever)
	}
	if elapsed < SpeedDemonLimit {
		out = append(out, AchievementSpeedDemon)
	}
	if correct >= 5 {
		out = append(out, AchievementKnowledgeSeeker)
	}
	return out
}
