package evidence

import (
	"regexp"
	"strings"
)

// How far past a relocation phrase the address pattern may appear.
const addressWindowChars = 140

// Leading house number plus a street-type suffix. Structural match
// only; a relocation phrase with no address shape yields nothing.
var addressRe = regexp.MustCompile(`(?i)\b\d{1,6}\s+[A-Za-z][A-Za-z0-9'. ]{0,40}?\s?(?:St|Street|Ave|Avenue|Blvd|Boulevard|Rd|Road|Dr|Drive|Ln|Lane|Way|Pkwy|Parkway|Ct|Court|Pl|Place|Plaza|Hwy|Highway)\b`)

// NewAddress looks for an address-shaped string within a bounded
// window after the earliest relocation phrase. Returns empty when no
// phrase matched or the window holds no structural address.
func (e *Extractor) NewAddress(text string, relocationPhrases []string) string {
	lower := strings.ToLower(text)

	earliest := -1
	phraseLen := 0
	for _, p := range relocationPhrases {
		if idx := strings.Index(lower, p); idx >= 0 {
			if earliest == -1 || idx < earliest {
				earliest = idx
				phraseLen = len(p)
			}
		}
	}
	if earliest == -1 {
		return ""
	}

	from := earliest + phraseLen
	to := from + addressWindowChars
	if to > len(text) {
		to = len(text)
	}
	if from >= len(text) {
		return ""
	}
	return strings.TrimSpace(addressRe.FindString(text[from:to]))
}
