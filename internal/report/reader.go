package report

import (
	"fmt"

	"github.com/username/timeclock-report/internal/timesheet"
	"github.com/username/timeclock-report/pkg/duration"
	"github.com/xuri/excelize/v2"
)

// ReadConsolidated reads back the consolidated sheet of a generated workbook.
// Unparseable durations read as zero.
func ReadConsolidated(path string) ([]timesheet.Entry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ConsolidatedSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", ConsolidatedSheet, err)
	}

	entries := []timesheet.Entry{}
	for i, row := range rows {
		if i == 0 || len(row) == 0 || row[0] == "" {
			continue
		}
		entries = append(entries, timesheet.Entry{
			Name: row[0],
			Totals: timesheet.Totals{
				Worked:   duration.ParseSigned(cell(row, 1)),
				Expected: duration.ParseSigned(cell(row, 2)),
				Balance:  duration.ParseSigned(cell(row, 3)),
			},
		})
	}

	return entries, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
