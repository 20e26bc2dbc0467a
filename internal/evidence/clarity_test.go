package evidence

import (
	"testing"

	"storebot/internal/config"
)

func newTestExtractor() *Extractor {
	return New(config.DefaultLexicons(), 0.90)
}

func TestClarityParsesTrailingScore(t *testing.T) {
	e := newTestExtractor()
	tests := []struct {
		text string
		want float64
	}{
		{"Hours look fine.\nClarity score: 0.95", 0.95},
		{"Clarity score: 1.0", 1.0},
		{"Clarity score - 0.85", 0.85},
		{"clarity score: .75", 0.75},
		{"mentions 0.4 early\nClarity score: 0.40\nClarity score: 0.90", 0.90},
	}
	for _, tt := range tests {
		if got := e.Clarity(tt.text); got != tt.want {
			t.Fatalf("Clarity(%q) = %f, want %f", tt.text, got, tt.want)
		}
	}
}

func TestClarityFallbacks(t *testing.T) {
	e := newTestExtractor()

	if got := e.Clarity(""); got != 0.60 {
		t.Fatalf("empty text clarity = %f, want neutral 0.60", got)
	}
	if got := e.Clarity("The sign shows normal weekday hours."); got != 0.60 {
		t.Fatalf("unparseable clarity = %f, want 0.60", got)
	}
	if got := e.Clarity("The image is too blurry to be of use."); got != 0.20 {
		t.Fatalf("uncertain clarity = %f, want 0.20", got)
	}
}

func TestClarityAlwaysInRange(t *testing.T) {
	e := newTestExtractor()
	inputs := []string{
		"Clarity score: 7",
		"Clarity score: -0.5",
		"Clarity score: banana",
		"Clarity score:",
		"\x00\xff garbage bytes",
	}
	for _, in := range inputs {
		got := e.Clarity(in)
		if got < 0 || got > 1 {
			t.Fatalf("Clarity(%q) = %f, out of [0,1]", in, got)
		}
	}
}
