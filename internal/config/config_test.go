package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultGates(t *testing.T) {
	g := DefaultGates()
	if g.Relocation != 0.92 {
		t.Fatalf("relocation gate = %f, want 0.92 (highest gate)", g.Relocation)
	}
	if g.ChangeHours != 0.90 {
		t.Fatalf("change_hours gate = %f, want 0.90", g.ChangeHours)
	}
	if g.Relocation <= g.ChangeHours {
		t.Fatal("relocation must carry the highest gate")
	}
}

func TestValidateRejectsBadPolicy(t *testing.T) {
	cfg := Config{
		Gates:                   DefaultGates(),
		HoursPolicy:             DefaultHoursPolicy(),
		ModePollIntervalSeconds: 10,
		ModePollTimeoutSeconds:  300,
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := cfg
	bad.HoursPolicy.MinDifferingDays = 0
	if err := Validate(bad); err == nil {
		t.Fatal("expected min_differing_days=0 to be rejected")
	}

	bad = cfg
	bad.Gates.ChangeHours = 1.5
	if err := Validate(bad); err == nil {
		t.Fatal("expected gate > 1 to be rejected")
	}

	bad = cfg
	bad.ModePollTimeoutSeconds = 5
	if err := Validate(bad); err == nil {
		t.Fatal("expected timeout < interval to be rejected")
	}
}

func TestHolidayWindowOpen(t *testing.T) {
	cfg := Config{HolidayWindowStart: "2025-11-01"}
	before := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	after := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	if cfg.HolidayWindowOpen(before) {
		t.Fatal("window should be closed before start date")
	}
	if !cfg.HolidayWindowOpen(after) {
		t.Fatal("window should be open after start date")
	}
	if !(Config{}).HolidayWindowOpen(before) {
		t.Fatal("unset window should always be open")
	}
}

func TestLoadLexiconsOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicons.yaml")
	content := "uncertainty:\n  - \"totally unsure\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write lexicon file: %v", err)
	}

	lex, err := LoadLexicons(path)
	if err != nil {
		t.Fatalf("LoadLexicons: %v", err)
	}
	if len(lex.Uncertainty) != 1 || lex.Uncertainty[0] != "totally unsure" {
		t.Fatalf("uncertainty overlay not applied: %v", lex.Uncertainty)
	}
	if len(lex.PermanentClosure) == 0 {
		t.Fatal("absent sets should keep defaults")
	}
}

func TestLoadLexiconsMissingFile(t *testing.T) {
	if _, err := LoadLexicons(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
