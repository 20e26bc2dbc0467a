package domain

import "time"

// HolidayRuleKind selects how a holiday's date is derived for a season.
type HolidayRuleKind int

const (
	// FixedDate holidays fall on the same month/day every year.
	FixedDate HolidayRuleKind = iota
	// NthWeekday holidays fall on the Nth weekday of a month
	// (e.g. fourth Thursday of November).
	NthWeekday
	// OffsetFrom holidays are a fixed number of days from another
	// holiday in the set.
	OffsetFrom
)

// Holiday is one entry of the fixed monitored holiday set.
type Holiday struct {
	Name string
	Kind HolidayRuleKind

	Month   time.Month
	Day     int          // FixedDate
	Weekday time.Weekday // NthWeekday
	Nth     int          // NthWeekday

	Base       string // OffsetFrom: name of the anchor holiday
	OffsetDays int    // OffsetFrom

	// NextYear marks holidays that land in the calendar year after the
	// season year (New Year's Day of a Nov/Dec season).
	NextYear bool
}

// HolidaySet returns the monitored holidays in announcement order.
func HolidaySet() []Holiday {
	return []Holiday{
		{Name: "Thanksgiving", Kind: NthWeekday, Month: time.November, Weekday: time.Thursday, Nth: 4},
		{Name: "Black Friday", Kind: OffsetFrom, Base: "Thanksgiving", OffsetDays: 1},
		{Name: "Christmas Eve", Kind: FixedDate, Month: time.December, Day: 24},
		{Name: "Christmas Day", Kind: FixedDate, Month: time.December, Day: 25},
		{Name: "New Year's Eve", Kind: FixedDate, Month: time.December, Day: 31},
		{Name: "New Year's Day", Kind: FixedDate, Month: time.January, Day: 1, NextYear: true},
	}
}

// ResolveHolidayDate computes the calendar date of a named holiday for
// the given season year. The second return is false for unknown names.
func ResolveHolidayDate(name string, seasonYear int) (time.Time, bool) {
	for _, h := range HolidaySet() {
		if h.Name != name {
			continue
		}
		return resolveRule(h, seasonYear), true
	}
	return time.Time{}, false
}

func resolveRule(h Holiday, seasonYear int) time.Time {
	year := seasonYear
	if h.NextYear {
		year++
	}
	switch h.Kind {
	case NthWeekday:
		d := time.Date(year, h.Month, 1, 0, 0, 0, 0, time.UTC)
		for d.Weekday() != h.Weekday {
			d = d.AddDate(0, 0, 1)
		}
		return d.AddDate(0, 0, 7*(h.Nth-1))
	case OffsetFrom:
		base, ok := ResolveHolidayDate(h.Base, seasonYear)
		if !ok {
			return time.Time{}
		}
		return base.AddDate(0, 0, h.OffsetDays)
	default:
		return time.Date(year, h.Month, h.Day, 0, 0, 0, 0, time.UTC)
	}
}
