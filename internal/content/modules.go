package content

import "gyani-service/internal/domain"

// Modules returns the education module catalog in display order.
func Modules() []domain.Module {
	return []domain.Module{
		{
			ID:               "basics",
			Title:            "Stock Market Fundamentals",
			Difficulty:       "Beginner",
			EstimatedMinutes: 120,
			Topics:           []string{"What are Stocks?", "Stock Exchanges", "NSE vs BSE", "Market Hours", "Types of Orders", "Market Participants"},
			Description:      "Master the fundamentals of stock markets with comprehensive coverage of Indian stock exchanges, trading basics, and market mechanics.",
		},
		{
			ID:               "indices",
			Title:            "Market Indices & Benchmarks",
			Difficulty:       "Beginner",
			EstimatedMinutes: 90,
			Topics:           []string{"NIFTY 50", "SENSEX", "Sectoral Indices", "Index Funds"},
			Description:      "Understand how market indices are built and how they are used as benchmarks.",
		},
		{
			ID:               "fundamental-analysis",
			Title:            "Fundamental Analysis Mastery",
			Difficulty:       "Intermediate",
			EstimatedMinutes: 180,
			Topics:           []string{"Financial Statements", "P/E Ratio", "Book Value", "Valuation"},
			Description:      "Read financial statements and value companies from their fundamentals.",
		},
		{
			ID:               "technical-analysis",
			Title:            "Technical Analysis & Chart Patterns",
			Difficulty:       "Intermediate",
			EstimatedMinutes: 180,
			Topics:           []string{"Candlesticks", "Support & Resistance", "RSI", "Moving Averages"},
			Description:      "Read price charts and momentum indicators.",
		},
		{
			ID:               "risk-management",
			Title:            "Risk Management & Portfolio Theory",
			Difficulty:       "Intermediate",
			EstimatedMinutes: 150,
			Topics:           []string{"Diversification", "Beta", "Position Sizing", "Stop Loss"},
			Description:      "Manage portfolio risk with diversification and position sizing.",
		},
		{
			ID:               "mutual-funds",
			Title:            "Mutual Funds & ETF Investing",
			Difficulty:       "Beginner",
			EstimatedMinutes: 120,
			Topics:           []string{"SIP", "ELSS", "Expense Ratio", "ETFs"},
			Description:      "Choose mutual funds and ETFs and invest systematically.",
		},
		{
			ID:               "derivatives",
			Title:            "Derivatives Trading (F&O)",
			Difficulty:       "Advanced",
			EstimatedMinutes: 240,
			Topics:           []string{"Futures", "Options", "Margins", "Hedging"},
			Description:      "Understand futures and options and the risks they carry.",
		},
		{
			ID:               "taxation",
			Title:            "Investment Taxation in India",
			Difficulty:       "Intermediate",
			EstimatedMinutes: 90,
			Topics:           []string{"STCG", "LTCG", "Section 80C", "Dividend Tax"},
			Description:      "Plan investments around capital gains tax and deductions.",
		},
	}
}

// ModuleIDs returns the catalog ids in display order.
func ModuleIDs() []string {
	modules := Modules()
	ids := make([]string, 0, len(modules))
	for _, m := range modules {
		ids = append(ids, m.ID)
	}
	return ids
}
