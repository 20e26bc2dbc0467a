package store

import (
	"path/filepath"
	"testing"
	"time"

	"storebot/internal/batch"
	"storebot/internal/domain"
)

func TestRecordAndReadRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer db.Close()

	summary := batch.Summary{
		Total: 3,
		Counts: map[domain.Action]int{
			domain.ActionTemporaryClosure: 1,
			domain.ActionNoChange:         2,
		},
	}
	runDate := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)

	runID, err := RecordRun(db, runDate, summary, 4200, "/out/wb.xlsx")
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if runID == 0 {
		t.Fatal("run id should be assigned")
	}

	annotated := []batch.Annotated{
		{
			Observation: domain.StoreObservation{StoreID: "s1", BusinessID: "b1"},
			Result: domain.ClassificationResult{
				Action:          domain.ActionTemporaryClosure,
				SummaryCategory: "Power outage",
				Confidence:      0.80,
				Reason:          "NO POWER - closed today.",
			},
		},
		{
			Observation: domain.StoreObservation{StoreID: "s2", BusinessID: "b2"},
			Result:      domain.ClassificationResult{Action: domain.ActionNoChange, Confidence: 0.70},
		},
	}
	if err := RecordClassifications(db, runID, annotated); err != nil {
		t.Fatalf("RecordClassifications: %v", err)
	}

	runs, err := RecentRuns(db, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].Total != 3 || runs[0].TempClosures != 1 || runs[0].NoChange != 2 {
		t.Fatalf("run record = %+v", runs[0])
	}
	if runs[0].TokensTotal != 4200 || runs[0].WorkbookPath != "/out/wb.xlsx" {
		t.Fatalf("run record = %+v", runs[0])
	}

	history, err := ClassificationsForStore(db, "s1", 5)
	if err != nil {
		t.Fatalf("ClassificationsForStore: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history = %d, want 1", len(history))
	}
	if history[0].Action != string(domain.ActionTemporaryClosure) || history[0].Category != "Power outage" {
		t.Fatalf("history row = %+v", history[0])
	}
}

func TestRecentRunsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer db.Close()

	older := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 0, 1)
	empty := batch.Summary{Counts: map[domain.Action]int{}}

	if _, err := RecordRun(db, older, empty, 0, ""); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if _, err := RecordRun(db, newer, empty, 0, ""); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	runs, err := RecentRuns(db, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if !runs[0].RunDate.After(runs[1].RunDate) {
		t.Fatalf("runs not newest-first: %s then %s", runs[0].RunDate, runs[1].RunDate)
	}
}
