package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/username/timeclock-report/internal/processor"
	"github.com/username/timeclock-report/internal/timesheet"
	"github.com/username/timeclock-report/pkg/duration"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	ConsolidatedSheet = "CONSOLIDADO"
	MonthTotalName    = "TOTAL MÊS"

	maxSheetName = 31
	columnWidth  = 18
	dateLayout   = "02/01/2006"
)

var (
	consolidatedHeader = []string{"Mês", "Total Trabalhado", "Total Previsto", "Diferença"}
	monthHeader        = []string{"Data", "Dia da Semana", "Tipo do Dia", "Total Trabalhado", "Carga Prevista", "Saldo do dia"}
)

// balance columns, 1-based
const (
	consolidatedBalanceCol = 4
	monthBalanceCol        = 6
)

var categoryFills = map[timesheet.Category]string{
	timesheet.CategoryVacation:     "DDEBF7",
	timesheet.CategorySickLeave:    "FFE699",
	timesheet.CategoryBirthday:     "F8BE8E",
	timesheet.CategoryHoliday:      "F6E2F7",
	timesheet.CategoryWeekend:      "FFF2CC",
	timesheet.CategoryPaidExcuse:   "E2EFDA",
	timesheet.CategoryAshWednesday: "EDEDED",
}

// Writer renders batch results into an xlsx workbook
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a new workbook writer
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger}
}

type styles struct {
	header   int
	total    int
	category map[timesheet.Category]int
	positive int
	negative int
}

// WriteWorkbook writes the consolidated sheet followed by one sheet per month
func (w *Writer) WriteWorkbook(path string, result *processor.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("failed to create styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", ConsolidatedSheet); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	if err := writeConsolidated(f, st, ConsolidatedEntries(result)); err != nil {
		return fmt.Errorf("failed to write consolidated sheet: %w", err)
	}

	for i, name := range sheetNames(result.Months) {
		m := result.Months[i]
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
		if err := writeMonth(f, st, name, m); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", name, err)
		}
	}

	f.SetActiveSheet(0)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("Workbook written",
		zap.String("file", path),
		zap.Int("months", len(result.Months)))

	return nil
}

func newStyles(f *excelize.File) (*styles, error) {
	var err error
	st := &styles{category: map[timesheet.Category]int{}}

	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	st.total, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "top", Color: "000000", Style: 2},
			{Type: "bottom", Color: "000000", Style: 2},
		},
	})
	if err != nil {
		return nil, err
	}

	for category, color := range categoryFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return nil, err
		}
		st.category[category] = id
	}

	st.positive, err = f.NewConditionalStyle(&excelize.Style{Font: &excelize.Font{Color: "00B050"}})
	if err != nil {
		return nil, err
	}
	st.negative, err = f.NewConditionalStyle(&excelize.Style{Font: &excelize.Font{Color: "FF0000"}})
	if err != nil {
		return nil, err
	}

	return st, nil
}

// ConsolidatedEntries lists the consolidated lines, each month labelled with its sheet name
func ConsolidatedEntries(result *processor.Result) []timesheet.Entry {
	entries := result.Consolidated.Entries()
	for i, name := range sheetNames(result.Months) {
		if i < len(entries)-1 {
			entries[i].Name = name
		}
	}
	return entries
}

func sheetNames(months []processor.Month) []string {
	used := map[string]bool{strings.ToLower(ConsolidatedSheet): true}
	names := make([]string, len(months))
	for i, m := range months {
		names[i] = uniqueSheetName(SanitizeSheetName(m.Summary.Name), used)
	}
	return names
}

func writeConsolidated(f *excelize.File, st *styles, entries []timesheet.Entry) error {
	sheet := ConsolidatedSheet

	if err := writeHeader(f, st, sheet, consolidatedHeader); err != nil {
		return err
	}

	for i, e := range entries {
		row := i + 2
		values := []interface{}{
			e.Name,
			duration.Format(e.Totals.Worked),
			duration.Format(e.Totals.Expected),
			duration.Format(e.Totals.Balance),
		}
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
	}

	last := len(entries) + 1
	if err := styleRow(f, sheet, last, len(consolidatedHeader), st.total); err != nil {
		return err
	}
	if err := balanceFormat(f, st, sheet, consolidatedBalanceCol, 2, last); err != nil {
		return err
	}

	return f.SetColWidth(sheet, "A", columnName(len(consolidatedHeader)), columnWidth)
}

func writeMonth(f *excelize.File, st *styles, sheet string, m processor.Month) error {
	pairs := timesheet.MaxPunches(m.Rows)

	header := append([]string{}, monthHeader...)
	for i := 1; i <= pairs; i++ {
		header = append(header, fmt.Sprintf("Entrada %d", i), fmt.Sprintf("Saída %d", i))
	}
	header = append(header, "Observação")

	if err := writeHeader(f, st, sheet, header); err != nil {
		return err
	}

	for i, r := range m.Rows {
		row := i + 2
		values := []interface{}{
			r.Date.Format(dateLayout),
			r.Weekday,
			r.Category.String(),
			r.WorkedText(),
			r.ExpectedText(),
			r.BalanceText(),
		}
		for p := 0; p < pairs; p++ {
			in, out := "", ""
			if p < len(r.Punches) {
				in, out = r.Punches[p].In, r.Punches[p].Out
			}
			values = append(values, in, out)
		}
		values = append(values, r.Note)

		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		if style, ok := st.category[r.Category]; ok {
			if err := styleRow(f, sheet, row, len(header), style); err != nil {
				return err
			}
		}
	}

	total := len(m.Rows) + 2
	totals := m.Summary.Totals
	values := []interface{}{
		MonthTotalName, "", "",
		duration.Format(totals.Worked),
		duration.Format(totals.Expected),
		duration.Format(totals.Balance),
	}
	if err := setRow(f, sheet, total, values); err != nil {
		return err
	}
	if err := styleRow(f, sheet, total, len(header), st.total); err != nil {
		return err
	}
	if err := balanceFormat(f, st, sheet, monthBalanceCol, 2, total); err != nil {
		return err
	}

	return f.SetColWidth(sheet, "A", columnName(len(header)), columnWidth)
}

func writeHeader(f *excelize.File, st *styles, sheet string, header []string) error {
	values := make([]interface{}, len(header))
	for i, h := range header {
		values[i] = h
	}
	if err := setRow(f, sheet, 1, values); err != nil {
		return err
	}
	return styleRow(f, sheet, 1, len(header), st.header)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	from, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

// balanceFormat colors a balance column green, or red when the value is negative
func balanceFormat(f *excelize.File, st *styles, sheet string, col, fromRow, toRow int) error {
	first, err := excelize.CoordinatesToCellName(col, fromRow)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(col, toRow)
	if err != nil {
		return err
	}

	return f.SetConditionalFormat(sheet, first+":"+last, []excelize.ConditionalFormatOptions{
		{Type: "formula", Criteria: fmt.Sprintf(`ISNUMBER(SEARCH("-",%s))`, first), Format: st.negative},
		{Type: "formula", Criteria: fmt.Sprintf(`NOT(ISNUMBER(SEARCH("-",%s)))`, first), Format: st.positive},
	})
}

func columnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return "A"
	}
	return name
}

// SanitizeSheetName replaces characters xlsx forbids in sheet names and
// truncates to the 31 character limit
func SanitizeSheetName(name string) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return ' '
		}
		return r
	}, name)

	clean = strings.TrimSpace(clean)
	if clean == "" {
		clean = "Mês"
	}
	return truncateRunes(clean, maxSheetName)
}

// uniqueSheetName suffixes a name already in use with " (n)".
// Sheet names compare case-insensitively.
func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncateRunes(name, maxSheetName-utf8.RuneCountInString(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
