package batch

import (
	"testing"

	"storebot/internal/domain"
)

func annotatedWith(storeID string, res domain.ClassificationResult) Annotated {
	return Annotated{
		Observation: domain.StoreObservation{StoreID: storeID, BusinessID: "b-" + storeID, BusinessName: "Store " + storeID},
		Result:      res,
	}
}

func TestPartitionAllTablesAlwaysPresent(t *testing.T) {
	tables, _ := Partition(nil, 2025)

	want := []string{
		TableHoursChanges, TableTempDeactivated, TablePermDeactivated,
		TableAddressChanges, TableHolidayHours, TableNoChange, TableErrors,
	}
	if len(tables) != len(want) {
		t.Fatalf("tables = %d, want %d", len(tables), len(want))
	}
	for i, name := range want {
		if tables[i].Name != name {
			t.Fatalf("table %d = %s, want %s", i, tables[i].Name, name)
		}
		if len(tables[i].Columns) == 0 {
			t.Fatalf("table %s has no columns", name)
		}
		if len(tables[i].Rows) != 0 {
			t.Fatalf("table %s should be empty with no input", name)
		}
	}
}

func TestPartitionRouting(t *testing.T) {
	in := []Annotated{
		annotatedWith("s1", domain.ClassificationResult{
			Action:     domain.ActionChangeHours,
			Confidence: 0.98,
			Schedule: domain.WeekHours{
				"monday": {Start: "08:00:00", End: "22:00:00"},
			},
		}),
		annotatedWith("s2", domain.ClassificationResult{
			Action:                 domain.ActionTemporaryClosure,
			DeactivationReasonCode: 67,
			TempDurationHours:      12,
			SummaryCategory:        "Power outage",
			Confidence:             0.80,
		}),
		annotatedWith("s3", domain.ClassificationResult{
			Action:                 domain.ActionPermanentClosure,
			DeactivationReasonCode: 23,
			Confidence:             0.95,
		}),
		annotatedWith("s4", domain.ClassificationResult{
			Action:     domain.ActionAddressChange,
			NewAddress: "450 Oak Street",
			Confidence: 0.95,
		}),
		annotatedWith("s5", domain.ClassificationResult{
			Action: domain.ActionNoChange, Confidence: 0.70,
		}),
		annotatedWith("s6", domain.ClassificationResult{
			Action: domain.ActionError, Reason: "vision call failed",
		}),
	}

	tables, summary := Partition(in, 2025)
	byName := map[string]Table{}
	for _, tb := range tables {
		byName[tb.Name] = tb
	}

	rowCounts := map[string]int{
		TableHoursChanges:    1,
		TableTempDeactivated: 1,
		TablePermDeactivated: 1,
		TableAddressChanges:  1,
		TableNoChange:        1,
		TableErrors:          1,
		TableHolidayHours:    0,
	}
	for name, want := range rowCounts {
		if got := len(byName[name].Rows); got != want {
			t.Fatalf("%s rows = %d, want %d", name, got, want)
		}
	}

	tempRow := byName[TableTempDeactivated].Rows[0]
	if tempRow[3] != "67" || tempRow[4] != "12" || tempRow[5] != "Power outage" {
		t.Fatalf("temp row = %v", tempRow)
	}
	if byName[TablePermDeactivated].Rows[0][3] != "23" {
		t.Fatalf("perm row = %v", byName[TablePermDeactivated].Rows[0])
	}
	if byName[TableAddressChanges].Rows[0][3] != "450 Oak Street" {
		t.Fatalf("addr row = %v", byName[TableAddressChanges].Rows[0])
	}

	// Every table row has exactly as many cells as columns.
	for _, tb := range tables {
		for _, row := range tb.Rows {
			if len(row) != len(tb.Columns) {
				t.Fatalf("%s row width %d != %d columns", tb.Name, len(row), len(tb.Columns))
			}
		}
	}

	if summary.Total != 6 {
		t.Fatalf("summary total = %d", summary.Total)
	}
	if summary.Counts[domain.ActionTemporaryClosure] != 1 {
		t.Fatalf("summary counts = %v", summary.Counts)
	}
	if p := summary.Percent(domain.ActionNoChange); p < 16.6 || p > 16.7 {
		t.Fatalf("no-change percent = %f", p)
	}
}

func TestPartitionHolidayRowsResolveDates(t *testing.T) {
	res := domain.ClassificationResult{
		Action:     domain.ActionNoChange,
		Confidence: 0.95,
		HolidayHours: []domain.HolidayHoursEntry{
			{Holiday: "Thanksgiving", IsOpen: false},
			{Holiday: "Black Friday", IsOpen: true, Start: "08:00:00", End: "22:00:00"},
		},
	}
	tables, _ := Partition([]Annotated{annotatedWith("s1", res)}, 2025)

	var holiday Table
	for _, tb := range tables {
		if tb.Name == TableHolidayHours {
			holiday = tb
		}
	}
	if len(holiday.Rows) != 2 {
		t.Fatalf("holiday rows = %d, want 2", len(holiday.Rows))
	}
	if holiday.Rows[0][4] != "2025-11-27" {
		t.Fatalf("thanksgiving date = %q", holiday.Rows[0][4])
	}
	if holiday.Rows[1][4] != "2025-11-28" {
		t.Fatalf("black friday date = %q", holiday.Rows[1][4])
	}
	if holiday.Rows[1][6] != "08:00:00" || holiday.Rows[1][7] != "22:00:00" {
		t.Fatalf("black friday times = %v", holiday.Rows[1])
	}
}
