package evidence

import (
	"regexp"
	"strconv"
)

// Clarity fallbacks when no trailing score line parses. The low value
// applies when the model also voiced uncertainty; the neutral value
// covers every other parse failure.
const (
	clarityUncertainFallback = 0.20
	clarityNeutralFallback   = 0.60
)

// Matches a labeled score in [0,1] with up to two decimals, e.g.
// "Clarity score: 0.95". The last occurrence in the text wins so a
// quoted earlier score cannot shadow the trailing line.
var clarityRe = regexp.MustCompile(`(?i)clarity\s*score\s*[:\-]?\s*(1(?:\.0{1,2})?|0(?:\.\d{1,2})?|\.\d{1,2})`)

// Clarity extracts the model's self-reported clarity score. Total
// function: any input yields a value in [0,1].
func (e *Extractor) Clarity(text string) float64 {
	matches := clarityRe.FindAllStringSubmatch(text, -1)
	if len(matches) > 0 {
		raw := matches[len(matches)-1][1]
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 && v <= 1 {
			return v
		}
	}
	if e.HasUncertainty(text) {
		return clarityUncertainFallback
	}
	return clarityNeutralFallback
}
