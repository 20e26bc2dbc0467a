package domain

import "fmt"

// Weekdays is the canonical ordering used everywhere hours are compared
// or rendered. Keys in WeekHours are always one of these values.
var Weekdays = [7]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// DayHours holds one day's wall-clock range in HH:MM:SS form.
// Either bound may be empty when it could not be read.
type DayHours struct {
	Start string
	End   string
}

// Complete reports whether both bounds are present. Only complete days
// may be paired against the other side's schedule for comparison.
func (d DayHours) Complete() bool {
	return d.Start != "" && d.End != ""
}

// WeekHours maps canonical weekday names to extracted hours.
type WeekHours map[string]DayHours

// CompleteDays counts days with both a start and an end.
func (w WeekHours) CompleteDays() int {
	n := 0
	for _, d := range w {
		if d.Complete() {
			n++
		}
	}
	return n
}

// ClockMinutes parses an HH:MM:SS (or HH:MM) string into minutes since
// midnight.
func ClockMinutes(s string) (int, error) {
	var hour, min, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &hour, &min, &sec); err != nil {
		if _, err := fmt.Sscanf(s, "%d:%d", &hour, &min); err != nil {
			return 0, fmt.Errorf("unparseable time %q", s)
		}
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, fmt.Errorf("time out of range %q", s)
	}
	return hour*60 + min, nil
}

// CircularMinutes returns the shorter distance in minutes between two
// wall-clock times, going around midnight when that is closer:
// CircularMinutes("23:55:00", "00:05:00") is 10, not 1430.
func CircularMinutes(a, b string) (int, error) {
	am, err := ClockMinutes(a)
	if err != nil {
		return 0, err
	}
	bm, err := ClockMinutes(b)
	if err != nil {
		return 0, err
	}
	d := am - bm
	if d < 0 {
		d = -d
	}
	if wrapped := 1440 - d; wrapped < d {
		d = wrapped
	}
	return d, nil
}
