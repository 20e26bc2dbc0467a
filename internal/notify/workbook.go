// Package notify writes the per-run bulk-upload workbook and posts the
// Slack digest that announces it.
package notify

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"storebot/internal/batch"
)

// WriteWorkbook writes one sheet per output table, in table order,
// header row first. Empty tables still get their sheet and header so
// the workbook shape is stable run to run.
func WriteWorkbook(dir string, runDate time.Time, tables []batch.Table) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	for _, table := range tables {
		if _, err := f.NewSheet(table.Name); err != nil {
			return "", fmt.Errorf("creating sheet %s: %w", table.Name, err)
		}

		header := make([]interface{}, len(table.Columns))
		for i, c := range table.Columns {
			header[i] = c
		}
		if err := f.SetSheetRow(table.Name, "A1", &header); err != nil {
			return "", fmt.Errorf("writing header for %s: %w", table.Name, err)
		}

		for i, row := range table.Rows {
			cells := make([]interface{}, len(row))
			for j, v := range row {
				cells[j] = v
			}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return "", err
			}
			if err := f.SetSheetRow(table.Name, cell, &cells); err != nil {
				return "", fmt.Errorf("writing row %d for %s: %w", i+2, table.Name, err)
			}
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("removing default sheet: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("store_classifications_%s.xlsx", runDate.Format("2006-01-02")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving workbook: %w", err)
	}
	return path, nil
}
