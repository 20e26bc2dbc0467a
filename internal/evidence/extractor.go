// Package evidence parses structure out of free-text vision-model
// responses. The model's reply is treated as an untrusted, weakly
// structured wire format: every extractor is a total function with a
// documented fallback, and nothing here ever returns an error for bad
// text.
package evidence

import (
	"strings"

	"storebot/internal/config"
)

type Extractor struct {
	uncertainty     []string
	signDescription []string
	holidayGate     float64
}

func New(lex config.Lexicons, holidayGate float64) *Extractor {
	return &Extractor{
		uncertainty:     lex.Uncertainty,
		signDescription: lex.SignDescription,
		holidayGate:     holidayGate,
	}
}

// HasUncertainty reports whether any uncertainty-lexicon phrase appears
// in the text. Plain case-insensitive substring match; the global
// uncertainty check deliberately ignores negation context.
func (e *Extractor) HasUncertainty(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range e.uncertainty {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func (e *Extractor) hasSignDescription(lower string) bool {
	for _, p := range e.signDescription {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
