package content

import (
	"math"
	"regexp"
)

// DefaultTargetLanguage is used when a translation request names no language.
const DefaultTargetLanguage = "hi"

type glossaryTerm struct {
	pattern     *regexp.Regexp
	replacement string
}

// hindiGlossary is applied longest term first so "Market Cap" wins over shorter terms.
var hindiGlossary = compileGlossary([][2]string{
	{"Stock Market", "शेयर बाजार"},
	{"Market Cap", "बाजार पूंजीकरण"},
	{"Investment", "निवेश"},
	{"Portfolio", "पोर्टफोलियो"},
	{"P/E Ratio", "पी/ई अनुपात"},
	{"Dividend", "लाभांश"},
	{"Return", "रिटर्न"},
	{"Risk", "जोखिम"},
})

func compileGlossary(pairs [][2]string) []glossaryTerm {
	terms := make([]glossaryTerm, 0, len(pairs))
	for _, p := range pairs {
		terms = append(terms, glossaryTerm{
			pattern:     regexp.MustCompile(`(?i)` + regexp.QuoteMeta(p[0])),
			replacement: p[1],
		})
	}
	return terms
}

// Translate replaces known finance terms case-insensitively. Only Hindi has a
// glossary; other targets return the text unchanged.
func Translate(text, target string) string {
	if target == "" {
		target = DefaultTargetLanguage
	}
	if target != DefaultTargetLanguage {
		return text
	}
	out := text
	for _, term := range hindiGlossary {
		out = term.pattern.ReplaceAllLiteralString(out, term.replacement)
	}
	return out
}

// CompoundInterest returns principal grown at rate for years, compounded
// yearly and rounded to the nearest unit.
func CompoundInterest(principal, rate float64, years int) float64 {
	return math.Round(principal * math.Pow(1+rate, float64(years)))
}
