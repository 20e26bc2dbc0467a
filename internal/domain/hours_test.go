package domain

import "testing"

func TestCircularMinutes(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"23:55:00", "00:05:00", 10},
		{"00:05:00", "23:55:00", 10},
		{"09:00:00", "09:00:00", 0},
		{"09:00:00", "11:00:00", 120},
		{"12:00:00", "00:00:00", 720},
		{"22:00:00", "20:00:00", 120},
	}
	for _, tt := range tests {
		got, err := CircularMinutes(tt.a, tt.b)
		if err != nil {
			t.Fatalf("CircularMinutes(%s, %s): %v", tt.a, tt.b, err)
		}
		if got != tt.want {
			t.Fatalf("CircularMinutes(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCircularMinutesRejectsGarbage(t *testing.T) {
	if _, err := CircularMinutes("25:00:00", "09:00:00"); err == nil {
		t.Fatal("expected error for out-of-range hour")
	}
	if _, err := CircularMinutes("soon", "09:00:00"); err == nil {
		t.Fatal("expected error for non-time input")
	}
}

func TestCompleteDays(t *testing.T) {
	w := WeekHours{
		"monday":  {Start: "09:00:00", End: "21:00:00"},
		"tuesday": {Start: "09:00:00"},
		"friday":  {End: "21:00:00"},
	}
	if got := w.CompleteDays(); got != 1 {
		t.Fatalf("CompleteDays = %d, want 1 (partial days must not count)", got)
	}
}
