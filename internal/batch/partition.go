package batch

import (
	"fmt"
	"strconv"

	"storebot/internal/domain"
)

// Table is one named output grid with a fixed column schema. Every run
// emits the same seven tables, empty or not, so downstream consumers
// never have to probe for sheets.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

const (
	TableHoursChanges    = "Hours Changes"
	TableTempDeactivated = "Temporary Deactivations"
	TablePermDeactivated = "Permanent Deactivations"
	TableAddressChanges  = "Address Changes"
	TableHolidayHours    = "Holiday Hours"
	TableNoChange        = "No Change"
	TableErrors          = "Errors"
)

// Summary feeds the notification digest.
type Summary struct {
	Total      int
	Counts     map[domain.Action]int
	Categories map[string]int
}

// Percent returns the share of the run a given action took, as 0-100.
func (s Summary) Percent(action domain.Action) float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 * float64(s.Counts[action]) / float64(s.Total)
}

// Partition splits annotated results into the fixed output tables.
// seasonYear anchors holiday date resolution.
func Partition(annotated []Annotated, seasonYear int) ([]Table, Summary) {
	hours := Table{Name: TableHoursChanges, Columns: hoursColumns()}
	temp := Table{Name: TableTempDeactivated, Columns: []string{
		"STORE_ID", "BUSINESS_ID", "BUSINESS_NAME", "REASON_CODE", "DURATION_HOURS", "CATEGORY", "CONFIDENCE"}}
	perm := Table{Name: TablePermDeactivated, Columns: []string{
		"STORE_ID", "BUSINESS_ID", "BUSINESS_NAME", "REASON_CODE", "CONFIDENCE"}}
	addr := Table{Name: TableAddressChanges, Columns: []string{
		"STORE_ID", "BUSINESS_ID", "BUSINESS_NAME", "NEW_ADDRESS", "CONFIDENCE"}}
	holiday := Table{Name: TableHolidayHours, Columns: []string{
		"STORE_ID", "BUSINESS_ID", "BUSINESS_NAME", "HOLIDAY", "DATE", "IS_OPEN", "OPEN_TIME", "CLOSE_TIME"}}
	noChange := Table{Name: TableNoChange, Columns: []string{
		"STORE_ID", "BUSINESS_ID", "BUSINESS_NAME", "CATEGORY", "CONFIDENCE"}}
	errs := Table{Name: TableErrors, Columns: []string{
		"STORE_ID", "BUSINESS_ID", "BUSINESS_NAME", "REASON"}}

	summary := Summary{
		Total:      len(annotated),
		Counts:     make(map[domain.Action]int),
		Categories: make(map[string]int),
	}

	for _, a := range annotated {
		obs, res := a.Observation, a.Result
		summary.Counts[res.Action]++
		if res.SummaryCategory != "" {
			summary.Categories[res.SummaryCategory]++
		}
		id := []string{obs.StoreID, obs.BusinessID, obs.BusinessName}

		switch res.Action {
		case domain.ActionChangeHours:
			hours.Rows = append(hours.Rows, hoursRow(obs, res))
		case domain.ActionTemporaryClosure:
			temp.Rows = append(temp.Rows, append(id,
				strconv.Itoa(res.DeactivationReasonCode),
				strconv.Itoa(res.TempDurationHours),
				res.SummaryCategory,
				formatConfidence(res.Confidence)))
		case domain.ActionPermanentClosure:
			perm.Rows = append(perm.Rows, append(id,
				strconv.Itoa(res.DeactivationReasonCode),
				formatConfidence(res.Confidence)))
		case domain.ActionAddressChange:
			addr.Rows = append(addr.Rows, append(id,
				res.NewAddress,
				formatConfidence(res.Confidence)))
		case domain.ActionError:
			errs.Rows = append(errs.Rows, append(id, res.Reason))
		default:
			noChange.Rows = append(noChange.Rows, append(id,
				res.SummaryCategory,
				formatConfidence(res.Confidence)))
		}

		// Holiday hours ride along with any action.
		for _, h := range res.HolidayHours {
			date := ""
			if d, ok := domain.ResolveHolidayDate(h.Holiday, seasonYear); ok {
				date = d.Format("2006-01-02")
			}
			holiday.Rows = append(holiday.Rows, append(append([]string{}, id...),
				h.Holiday, date, strconv.FormatBool(h.IsOpen), h.Start, h.End))
		}
	}

	return []Table{hours, temp, perm, addr, holiday, noChange, errs}, summary
}

func hoursColumns() []string {
	cols := []string{"STORE_ID", "BUSINESS_ID", "BUSINESS_NAME"}
	for _, day := range domain.Weekdays {
		upper := []byte(day)
		upper[0] -= 'a' - 'A'
		cols = append(cols, string(upper)+"_OPEN", string(upper)+"_CLOSE")
	}
	return append(cols, "CONFIDENCE")
}

func hoursRow(obs domain.StoreObservation, res domain.ClassificationResult) []string {
	row := []string{obs.StoreID, obs.BusinessID, obs.BusinessName}
	for _, day := range domain.Weekdays {
		d := res.Schedule[day]
		row = append(row, d.Start, d.End)
	}
	return append(row, formatConfidence(res.Confidence))
}

func formatConfidence(c float64) string {
	return fmt.Sprintf("%.2f", c)
}
