// Package signal holds the boolean and category predicates evaluated
// over raw model text. Every phrase match passes through negation
// suppression so "there is NO indication the store is closed" never
// trips a closure detector.
package signal

import (
	"strings"

	"storebot/internal/config"
	"storebot/internal/domain"
)

// negationWindowChars is how far back from a phrase match negation
// markers are searched for.
const negationWindowChars = 50

// attributionWindowChars is how far back a quote or attribution phrase
// may sit for the strict payment-issue variant.
const attributionWindowChars = 60

// Clarity-rescue bounds for the glass-reflection heuristic.
const (
	reflectionBoost = 0.15
	reflectionCap   = 0.90
)

// signSizeClarityFloor: below this, missing location/size cues read as
// an unusably small or distant sign.
const signSizeClarityFloor = 0.60

type Detector struct {
	lex config.Lexicons
}

func New(lex config.Lexicons) *Detector {
	return &Detector{lex: lex}
}

// match finds the first occurrence of phrase in lower that is not
// preceded by a negation marker within the window. Returns the match
// index, or -1.
func (d *Detector) match(lower, phrase string) int {
	from := 0
	for {
		idx := strings.Index(lower[from:], phrase)
		if idx < 0 {
			return -1
		}
		idx += from
		if !d.negatedAt(lower, idx) {
			return idx
		}
		from = idx + len(phrase)
		if from >= len(lower) {
			return -1
		}
	}
}

func (d *Detector) negatedAt(lower string, idx int) bool {
	start := idx - negationWindowChars
	if start < 0 {
		start = 0
	}
	window := lower[start:idx]
	for _, neg := range d.lex.Negations {
		if strings.Contains(window, neg) {
			return true
		}
	}
	return false
}

func (d *Detector) anyPhrase(lower string, phrases []string) bool {
	for _, p := range phrases {
		if d.match(lower, p) >= 0 {
			return true
		}
	}
	return false
}

// IsPermanentClosure reports a permanent-closure phrase with no
// negation in context.
func (d *Detector) IsPermanentClosure(text string) bool {
	return d.anyPhrase(strings.ToLower(text), d.lex.PermanentClosure)
}

// IsLongTermTemporaryClosure reports "until further notice" style
// closures. Checked before the permanent detector by the engine:
// an open-ended closure must never be classified permanent.
func (d *Detector) IsLongTermTemporaryClosure(text string) bool {
	return d.anyPhrase(strings.ToLower(text), d.lex.LongTermClosure)
}

// IsPaymentSystemIssue is the strict variant: the payment phrase must
// be quoted or attributed (a double quote or an attribution phrase
// shortly before it), so the model's own inference is not trusted.
func (d *Detector) IsPaymentSystemIssue(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range d.lex.PaymentIssue {
		idx := d.match(lower, p)
		if idx < 0 {
			continue
		}
		start := idx - attributionWindowChars
		if start < 0 {
			start = 0
		}
		window := lower[start:idx]
		if strings.Contains(window, `"`) {
			return true
		}
		for _, attr := range d.lex.Attribution {
			if strings.Contains(window, attr) {
				return true
			}
		}
	}
	return false
}

// IsRelocation reports a relocation signal. redirected is true when a
// redirect-lexicon phrase co-occurs: signage pointing customers to
// another store is a temporary closure, not this store moving.
func (d *Detector) IsRelocation(text string) (signal, redirected bool) {
	lower := strings.ToLower(text)
	if !d.anyPhrase(lower, d.lex.Relocation) {
		return false, false
	}
	for _, p := range d.lex.RelocationRedirect {
		if strings.Contains(lower, p) {
			return true, true
		}
	}
	return true, false
}

// HasExplicitRelocation reports a phrase from the narrow explicit
// subset, which may stand in for a structurally extracted address.
func (d *Detector) HasExplicitRelocation(text string) bool {
	return d.anyPhrase(strings.ToLower(text), d.lex.RelocationExplicit)
}

// IsHoursHallucinated flags extracted hours as fabricated when the
// model explicitly denies seeing hours yet hours were extracted, or
// when four or more days came back with no phrase locating a real
// sign in the image.
func (d *Detector) IsHoursHallucinated(text string, extracted domain.WeekHours) bool {
	if len(extracted) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range d.lex.HoursDenial {
		if strings.Contains(lower, p) {
			return true
		}
	}
	if len(extracted) >= 4 && !d.hasLocationCue(lower) {
		return true
	}
	return false
}

func (d *Detector) hasLocationCue(lower string) bool {
	for _, p := range d.lex.LocationCues {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// HasSignSizeIssue reports explicit unreadability phrases, or the
// absence of any location/size cue below the clarity floor.
func (d *Detector) HasSignSizeIssue(text string, clarity float64) bool {
	lower := strings.ToLower(text)
	for _, p := range d.lex.Unreadable {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return clarity < signSizeClarityFloor && !d.hasLocationCue(lower)
}

// HasSevereQualityIssue reports the severe-quality lexicon, which
// blocks hour changes regardless of the reported clarity.
func (d *Detector) HasSevereQualityIssue(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range d.lex.SevereQuality {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// AdjustClarityForReflection applies the bounded clarity rescue:
// reflection/glass language alongside an explicit, well-formed time
// range usually means the sign was readable despite the glare. The
// boost never exceeds the cap and never lowers the score.
func (d *Detector) AdjustClarityForReflection(text string, clarity float64, hours domain.WeekHours) float64 {
	if hours.CompleteDays() == 0 {
		return clarity
	}
	lower := strings.ToLower(text)
	found := false
	for _, p := range d.lex.Reflection {
		if strings.Contains(lower, p) {
			found = true
			break
		}
	}
	if !found {
		return clarity
	}
	boosted := clarity + reflectionBoost
	if boosted > reflectionCap {
		boosted = reflectionCap
	}
	if boosted < clarity {
		return clarity
	}
	return boosted
}

// TemporaryClosure reports a generic temporary-closure phrase and the
// category label of the first matching family.
func (d *Detector) TemporaryClosure(text string) (bool, string) {
	lower := strings.ToLower(text)
	for _, cat := range d.lex.ClosureCategories {
		for _, p := range cat.Phrases {
			if d.match(lower, p) >= 0 {
				return true, cat.Label
			}
		}
	}
	return false, ""
}
