package evidence

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"storebot/internal/domain"
)

// One "<weekday> ... <time> - <time>" line. Hyphen and en-dash both
// accepted as the separator.
var weekdayHoursRe = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b[^\n]*?(\d{1,2}(?::\d{2})?\s*(?:a\.?m\.?|p\.?m\.?)?)\s*[-\x{2013}]\s*(\d{1,2}(?::\d{2})?\s*(?:a\.?m\.?|p\.?m\.?)?)`)

// Hours scans the text for weekday schedule lines and normalizes each
// time token to 24-hour HH:MM:SS. A token that fails to parse drops
// that weekday entirely; bounds are never defaulted or backfilled.
func (e *Extractor) Hours(text string) domain.WeekHours {
	out := domain.WeekHours{}
	for _, m := range weekdayHoursRe.FindAllStringSubmatch(text, -1) {
		day := strings.ToLower(m[1])
		start, okStart := NormalizeTime(m[2], false)
		end, okEnd := NormalizeTime(m[3], true)
		if !okStart || !okEnd {
			continue
		}
		if _, seen := out[day]; seen {
			continue // first mention of a weekday wins
		}
		out[day] = domain.DayHours{Start: start, End: end}
	}
	return out
}

// NormalizeTime converts one time token ("8", "8:30", "10 PM",
// "22:00") to HH:MM:SS. Unlabeled start times are read as AM;
// unlabeled end times in 1-11 are read as PM — posted closing times
// like "10:00" mean evening.
func NormalizeTime(token string, isEnd bool) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(token))
	s = strings.ReplaceAll(s, ".", "")

	meridiem := ""
	switch {
	case strings.HasSuffix(s, "am"):
		meridiem = "am"
		s = strings.TrimSpace(strings.TrimSuffix(s, "am"))
	case strings.HasSuffix(s, "pm"):
		meridiem = "pm"
		s = strings.TrimSpace(strings.TrimSuffix(s, "pm"))
	}

	hourStr, minStr := s, "0"
	if idx := strings.Index(s, ":"); idx >= 0 {
		hourStr, minStr = s[:idx], s[idx+1:]
	}
	hour, err := strconv.Atoi(strings.TrimSpace(hourStr))
	if err != nil {
		return "", false
	}
	min, err := strconv.Atoi(strings.TrimSpace(minStr))
	if err != nil {
		return "", false
	}

	switch meridiem {
	case "pm":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour == 12 {
			hour = 0
		}
	default:
		if isEnd && hour >= 1 && hour <= 11 {
			hour += 12
		}
	}

	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d:00", hour, min), true
}
