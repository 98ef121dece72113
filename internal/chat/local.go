package chat

import (
	"strings"
	"unicode"
)

const (
	replyGreeting = "Hello! I'm Gyani, your friendly financial guide! 🌟 I'm here to help you learn about investing and personal finance in a fun, encouraging way. What would you like to explore today?"
	replyInvest   = "Great question about investing! 📈 Stocks represent ownership in companies. When you buy a stock, you become a part-owner of that business. The Indian stock market has two main exchanges - NSE and BSE. Would you like to learn more about how to get started?"
	replySaving   = "Saving money is such a smart move! 💰 I always tell people to think of saving like planting seeds - the earlier you start, the bigger your financial tree grows! A good rule of thumb is the 50-30-20 rule: 50% needs, 30% wants, 20% savings. What's your current saving goal?"
	replyDefault  = "That's a thoughtful question! 🤔 I'm here to help you understand finance better. Whether it's about saving, investing, or planning for the future, we can explore it together step by step. What specific area would you like to focus on?"
)

// LocalResponder answers without any network call, from keyword rules.
type LocalResponder struct{}

// Respond picks the canned reply for input. Greetings match whole words so
// "this" or "which" do not read as "hi".
func (LocalResponder) Respond(input string) string {
	lower := strings.ToLower(input)
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if w == "hello" || w == "hi" {
			return replyGreeting
		}
	}

	switch {
	case strings.Contains(lower, "stock"), strings.Contains(lower, "invest"):
		return replyInvest
	case strings.Contains(lower, "save"), strings.Contains(lower, "money"):
		return replySaving
	default:
		return replyDefault
	}
}
