package content

import "gyani-service/internal/domain"

// KnowledgeBankID identifies the built-in knowledge quiz bank.
const KnowledgeBankID = "knowledge"

// KnowledgeQuestions returns the seed knowledge quiz bank.
func KnowledgeQuestions() []domain.QuizQuestion {
	return []domain.QuizQuestion{
		{
			ID:     "1",
			Prompt: "What does P/E ratio stand for in stock analysis?",
			Options: []string{
				"Price to Equity ratio",
				"Price to Earnings ratio",
				"Profit to Expense ratio",
				"Portfolio to Equity ratio",
			},
			CorrectOption: 1,
			Explanation:   "P/E ratio stands for Price to Earnings ratio. It measures how much investors are willing to pay for each rupee of earnings.",
			Difficulty:    domain.DifficultyEasy,
			Category:      "Fundamental Analysis",
			Points:        10,
		},
		{
			ID:     "2",
			Prompt: "Which of the following is NOT a major stock exchange in India?",
			Options: []string{
				"NSE (National Stock Exchange)",
				"BSE (Bombay Stock Exchange)",
				"LSE (London Stock Exchange)",
				"MCX (Multi Commodity Exchange)",
			},
			CorrectOption: 2,
			Explanation:   "LSE (London Stock Exchange) is located in the UK, not India. NSE and BSE are the major stock exchanges in India.",
			Difficulty:    domain.DifficultyEasy,
			Category:      "Stock Market Basics",
			Points:        10,
		},
		{
			ID:     "3",
			Prompt: "What is the full form of SIP in mutual fund investments?",
			Options: []string{
				"Systematic Investment Plan",
				"Strategic Investment Portfolio",
				"Structured Investment Program",
				"Secure Investment Policy",
			},
			CorrectOption: 0,
			Explanation:   "SIP stands for Systematic Investment Plan, which allows investors to invest a fixed amount regularly in mutual funds.",
			Difficulty:    domain.DifficultyEasy,
			Category:      "Mutual Funds",
			Points:        10,
		},
		{
			ID:     "4",
			Prompt: "Which technical indicator is used to measure the momentum of price changes?",
			Options: []string{
				"Moving Average",
				"RSI (Relative Strength Index)",
				"Bollinger Bands",
				"MACD",
			},
			CorrectOption: 1,
			Explanation:   "RSI (Relative Strength Index) is a momentum oscillator that measures the speed and change of price movements, ranging from 0 to 100.",
			Difficulty:    domain.DifficultyMedium,
			Category:      "Technical Analysis",
			Points:        15,
		},
		{
			ID:     "5",
			Prompt: "What is the maximum amount that can be invested in ELSS funds under Section 80C?",
			Options: []string{
				"₹1,00,000",
				"₹1,50,000",
				"₹2,00,000",
				"₹2,50,000",
			},
			CorrectOption: 1,
			Explanation:   "Under Section 80C, the maximum deduction limit is ₹1,50,000 per financial year, which includes ELSS investments.",
			Difficulty:    domain.DifficultyMedium,
			Category:      "Tax Planning",
			Points:        15,
		},
		{
			ID:     "6",
			Prompt: "What is the concept of \"Beta\" in portfolio management?",
			Options: []string{
				"A measure of dividend yield",
				"A measure of systematic risk relative to the market",
				"A measure of company profitability",
				"A measure of liquidity",
			},
			CorrectOption: 1,
			Explanation:   "Beta measures systematic risk - how much a stock moves relative to the overall market. A beta of 1 means it moves with the market.",
			Difficulty:    domain.DifficultyHard,
			Category:      "Portfolio Management",
			Points:        20,
		},
		{
			ID:     "7",
			Prompt: "Which of the following is a characteristic of a bull market?",
			Options: []string{
				"Falling stock prices",
				"High unemployment",
				"Rising stock prices and investor optimism",
				"Economic recession",
			},
			CorrectOption: 2,
			Explanation:   "A bull market is characterized by rising stock prices, investor optimism, and generally positive economic conditions.",
			Difficulty:    domain.DifficultyEasy,
			Category:      "Market Cycles",
			Points:        10,
		},
		{
			ID:     "8",
			Prompt: "What is the lock-in period for ELSS mutual funds?",
			Options: []string{
				"1 year",
				"2 years",
				"3 years",
				"5 years",
			},
			CorrectOption: 2,
			Explanation:   "ELSS (Equity Linked Savings Scheme) funds have a mandatory lock-in period of 3 years, the shortest among all 80C investments.",
			Difficulty:    domain.DifficultyMedium,
			Category:      "Mutual Funds",
			Points:        15,
		},
		{
			ID:     "9",
			Prompt: "What does \"Diversification\" mean in investment?",
			Options: []string{
				"Investing all money in one stock",
				"Spreading investments across different assets to reduce risk",
				"Only investing in government bonds",
				"Timing the market perfectly",
			},
			CorrectOption: 1,
			Explanation:   "Diversification means spreading investments across different assets, sectors, or geographies to reduce overall portfolio risk.",
			Difficulty:    domain.DifficultyEasy,
			Category:      "Risk Management",
			Points:        10,
		},
		{
			ID:     "10",
			Prompt: "What is the current repo rate set by RBI (as of 2024)?",
			Options: []string{
				"5.5%",
				"6.0%",
				"6.5%",
				"7.0%",
			},
			CorrectOption: 2,
			Explanation:   "As of 2024, the RBI repo rate is 6.5%. The repo rate is the rate at which RBI lends money to commercial banks.",
			Difficulty:    domain.DifficultyMedium,
			Category:      "Economic Policy",
			Points:        15,
		},
	}
}

// Banks returns every built-in bank keyed by id.
func Banks() map[string][]domain.QuizQuestion {
	return map[string][]domain.QuizQuestion{
		KnowledgeBankID: KnowledgeQuestions(),
	}
}
