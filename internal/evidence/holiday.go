package evidence

import (
	"regexp"
	"strings"

	"storebot/internal/domain"
)

// Default opening time assumed when a holiday line carries a single
// time. A lone time on a sign is read as the closing time; 09:00 is a
// deliberate approximation, not a measured fact.
const assumedHolidayOpen = "09:00:00"

var (
	closedWords  = []string{"closed", "close"}
	regularWords = []string{"regular hours", "normal hours", "standard hours", "24 hours"}

	holidayRangeRe  = regexp.MustCompile(`(?i)(\d{1,2}(?::\d{2})?\s*(?:a\.?m\.?|p\.?m\.?)?)\s*(?:-|\x{2013}|to)\s*(\d{1,2}(?::\d{2})?\s*(?:a\.?m\.?|p\.?m\.?)?)`)
	holidaySingleRe = regexp.MustCompile(`(?i)\d{1,2}(?::\d{2})?\s*(?:a\.?m\.?|p\.?m\.?)?`)
)

// SpecialHours parses the holiday-hours block of a response. Gated
// twice: the clarity floor, and evidence the model is quoting a real
// sign — either a sign-description phrase or an explicit
// "<Holiday>: <status>" block line. Per holiday, closed-family words
// beat any time pattern.
func (e *Extractor) SpecialHours(text string, clarity float64) []domain.HolidayHoursEntry {
	if clarity < e.holidayGate {
		return nil
	}
	if strings.Contains(strings.ToUpper(text), "NO HOLIDAY HOURS VISIBLE") {
		return nil
	}
	lower := strings.ToLower(text)
	signDescribed := e.hasSignDescription(lower)

	var entries []domain.HolidayHoursEntry
	for _, h := range domain.HolidaySet() {
		if !strings.Contains(lower, strings.ToLower(h.Name)) {
			continue
		}
		// Without a sign-description phrase, only the strict
		// "Holiday: value" block form counts as quoted evidence.
		sep := `\s*[:\-]\s*`
		if signDescribed {
			sep = `[:\s\-]+`
		}
		lineRe := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(h.Name) + sep + `([^\n]+)`)
		m := lineRe.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		entry, ok := parseHolidayValue(h.Name, m[1])
		if ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func parseHolidayValue(name, value string) (domain.HolidayHoursEntry, bool) {
	lower := strings.ToLower(value)

	for _, w := range closedWords {
		if strings.Contains(lower, w) {
			return domain.HolidayHoursEntry{Holiday: name, IsOpen: false}, true
		}
	}
	for _, w := range regularWords {
		if strings.Contains(lower, w) {
			return domain.HolidayHoursEntry{Holiday: name, IsOpen: true}, true
		}
	}

	if m := holidayRangeRe.FindStringSubmatch(value); m != nil {
		start, okStart := NormalizeTime(m[1], false)
		end, okEnd := NormalizeTime(m[2], true)
		if okStart && okEnd {
			return domain.HolidayHoursEntry{Holiday: name, IsOpen: true, Start: start, End: end}, true
		}
	}
	if m := holidaySingleRe.FindString(value); m != "" {
		if end, ok := NormalizeTime(m, true); ok {
			return domain.HolidayHoursEntry{Holiday: name, IsOpen: true, Start: assumedHolidayOpen, End: end}, true
		}
	}
	return domain.HolidayHoursEntry{}, false
}
