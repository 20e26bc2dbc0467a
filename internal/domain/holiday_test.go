package domain

import (
	"testing"
	"time"
)

func TestResolveHolidayDate(t *testing.T) {
	tests := []struct {
		name string
		year int
		want string
	}{
		{"Thanksgiving", 2025, "2025-11-27"},
		{"Black Friday", 2025, "2025-11-28"},
		{"Christmas Eve", 2025, "2025-12-24"},
		{"Christmas Day", 2025, "2025-12-25"},
		{"New Year's Eve", 2025, "2025-12-31"},
		{"New Year's Day", 2025, "2026-01-01"},
		{"Thanksgiving", 2024, "2024-11-28"},
	}
	for _, tt := range tests {
		got, ok := ResolveHolidayDate(tt.name, tt.year)
		if !ok {
			t.Fatalf("ResolveHolidayDate(%s, %d): not found", tt.name, tt.year)
		}
		if got.Format("2006-01-02") != tt.want {
			t.Fatalf("ResolveHolidayDate(%s, %d) = %s, want %s",
				tt.name, tt.year, got.Format("2006-01-02"), tt.want)
		}
	}
}

func TestResolveHolidayDateUnknown(t *testing.T) {
	if _, ok := ResolveHolidayDate("Arbor Day", 2025); ok {
		t.Fatal("expected unknown holiday to report not found")
	}
}

func TestHolidaySetDatesAreOrdered(t *testing.T) {
	var prev time.Time
	for _, h := range HolidaySet() {
		d, ok := ResolveHolidayDate(h.Name, 2025)
		if !ok {
			t.Fatalf("holiday %s did not resolve", h.Name)
		}
		if !prev.IsZero() && d.Before(prev) {
			t.Fatalf("holiday %s (%s) out of season order", h.Name, d.Format("2006-01-02"))
		}
		prev = d
	}
}
