package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/username/timeclock-report/internal/timesheet"
	"github.com/username/timeclock-report/pkg/duration"
)

// PrintConsolidated writes the consolidated listing as a plain text table
func PrintConsolidated(w io.Writer, entries []timesheet.Entry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Name,
			duration.Format(e.Totals.Worked),
			duration.Format(e.Totals.Expected),
			duration.Format(e.Totals.Balance),
		})
	}

	for _, line := range formatTable(consolidatedHeader, rows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = utf8.RuneCountInString(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := utf8.RuneCountInString(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, formatRow(headers, widths, rightAlignCols))

	total := 2 * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	lines = append(lines, strings.Repeat("-", total))

	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		value := ""
		if i < len(row) {
			value = row[i]
		}
		padding := width - utf8.RuneCountInString(value)
		if padding < 0 {
			padding = 0
		}
		if rightAlignCols[i] {
			cells[i] = strings.Repeat(" ", padding) + value
		} else {
			cells[i] = value + strings.Repeat(" ", padding)
		}
	}
	return strings.TrimRight(strings.Join(cells, "  "), " ")
}
