package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/username/timeclock-report/internal/attendance"
	"github.com/username/timeclock-report/internal/calendar"
	"github.com/username/timeclock-report/internal/overlay"
	"github.com/username/timeclock-report/internal/processor"
	"github.com/username/timeclock-report/internal/timesheet"
	"github.com/username/timeclock-report/pkg/dateutil"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func sampleResult() *processor.Result {
	ov := overlay.Overlays{
		Vacation: dateutil.NewDaySet(dateutil.NewDay(2024, time.January, 10)),
	}
	doc := attendance.Document{
		dateutil.NewDay(2024, time.January, 8): {
			Entries: []string{"08:00", "13:00"},
			Exits:   []string{"12:00", "17:30"},
			Worked:  8*time.Hour + 30*time.Minute,
		},
		dateutil.NewDay(2024, time.January, 9): {Entries: []string{"09:00"}, Worked: 6 * time.Hour},
	}
	holidays := calendar.HolidaysForYear(2024, false)

	janRows, jan := timesheet.ClassifyMonth(2024, time.January, doc, ov, holidays, timesheet.DefaultPolicy())
	febRows, feb := timesheet.ClassifyMonth(2024, time.February, attendance.Document{}, ov, holidays, timesheet.DefaultPolicy())

	return &processor.Result{
		Months: []processor.Month{
			{Source: "ponto_01_2024.html", Rows: janRows, Summary: jan},
			{Source: "ponto_02_2024.html", Rows: febRows, Summary: feb},
			{Source: "copia_01_2024.html", Rows: janRows, Summary: jan},
		},
		Consolidated: timesheet.Aggregate([]timesheet.MonthSummary{jan, feb, jan}),
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "PONTOS_CONSOLIDADOS.xlsx")
	result := sampleResult()

	if err := NewWriter(zap.NewNop()).WriteWorkbook(path, result); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	wantSheets := []string{ConsolidatedSheet, "Janeiro 2024", "Fevereiro 2024", "Janeiro 2024 (2)"}
	if len(sheets) != len(wantSheets) {
		t.Fatalf("sheets = %v, want %v", sheets, wantSheets)
	}
	for i := range wantSheets {
		if sheets[i] != wantSheets[i] {
			t.Errorf("sheets[%d] = %q, want %q", i, sheets[i], wantSheets[i])
		}
	}

	rows, err := f.GetRows(ConsolidatedSheet)
	if err != nil {
		t.Fatalf("GetRows(CONSOLIDADO) error = %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("consolidated rows = %d, want 5", len(rows))
	}
	if got := strings.Join(rows[0], "|"); got != "Mês|Total Trabalhado|Total Previsto|Diferença" {
		t.Errorf("consolidated header = %q", got)
	}
	labels := []string{rows[1][0], rows[2][0], rows[3][0]}
	if got := strings.Join(labels, "|"); got != "Janeiro 2024|Fevereiro 2024|Janeiro 2024 (2)" {
		t.Errorf("consolidated labels = %q, want the sheet names", got)
	}
	if rows[4][0] != timesheet.GrandTotalName {
		t.Errorf("last consolidated row = %q, want %q", rows[4][0], timesheet.GrandTotalName)
	}

	jan, err := f.GetRows("Janeiro 2024")
	if err != nil {
		t.Fatalf("GetRows(Janeiro 2024) error = %v", err)
	}
	header := strings.Join(jan[0], "|")
	if !strings.HasPrefix(header, "Data|Dia da Semana|Tipo do Dia|Total Trabalhado|Carga Prevista|Saldo do dia|Entrada 1|Saída 1|Entrada 2|Saída 2") {
		t.Errorf("month header = %q", header)
	}

	var found bool
	for _, row := range jan[1:] {
		if row[0] == "08/01/2024" {
			found = true
			if row[1] != "Segunda" || row[2] != "Normal" || row[3] != "08:30" || row[5] != "00:30" {
				t.Errorf("08/01/2024 row = %v", row)
			}
			if row[6] != "08:00" || row[9] != "17:30" {
				t.Errorf("08/01/2024 punches = %v", row[6:])
			}
		}
		if row[0] == "01/01/2024" && row[2] != "Feriado" {
			t.Errorf("01/01/2024 category = %q, want Feriado", row[2])
		}
		if row[0] == "10/01/2024" && row[2] != "Férias" {
			t.Errorf("10/01/2024 category = %q, want Férias", row[2])
		}
	}
	if !found {
		t.Error("08/01/2024 row missing")
	}
	if last := jan[len(jan)-1]; last[0] != MonthTotalName {
		t.Errorf("last month row = %v, want %s", last, MonthTotalName)
	}
}

func TestReadConsolidated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	result := sampleResult()

	if err := NewWriter(zap.NewNop()).WriteWorkbook(path, result); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}

	entries, err := ReadConsolidated(path)
	if err != nil {
		t.Fatalf("ReadConsolidated() error = %v", err)
	}

	want := ConsolidatedEntries(result)
	if len(entries) != len(want) {
		t.Fatalf("ReadConsolidated() = %d entries, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}

	if _, err := ReadConsolidated(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("ReadConsolidated() expected error for missing file, got nil")
	}
}

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Março 2024", "Março 2024"},
		{"forbidden characters", "Jan/2024: [a]*?\\", "Jan 2024   a"},
		{"truncated", strings.Repeat("á", 40), strings.Repeat("á", 31)},
		{"empty", "///", "Mês"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeSheetName(tt.input); got != tt.want {
				t.Errorf("SanitizeSheetName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUniqueSheetName(t *testing.T) {
	used := map[string]bool{"consolidado": true}

	if got := uniqueSheetName("Consolidado", used); got != "Consolidado (2)" {
		t.Errorf("uniqueSheetName() = %q, want %q", got, "Consolidado (2)")
	}

	long := strings.Repeat("x", 31)
	if got := uniqueSheetName(long, used); got != long {
		t.Errorf("uniqueSheetName() = %q, want unchanged", got)
	}
	got := uniqueSheetName(long, used)
	if got != strings.Repeat("x", 27)+" (2)" {
		t.Errorf("uniqueSheetName() duplicate = %q", got)
	}
}

func TestPrintConsolidated(t *testing.T) {
	entries := timesheet.Aggregate([]timesheet.MonthSummary{
		timesheet.NewMonthSummary(2024, time.January, timesheet.Totals{
			Worked: 170 * time.Hour, Expected: 176 * time.Hour, Balance: -6 * time.Hour,
		}),
	}).Entries()

	var buf bytes.Buffer
	if err := PrintConsolidated(&buf, entries); err != nil {
		t.Fatalf("PrintConsolidated() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("PrintConsolidated() printed %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[2], "Janeiro 2024") || !strings.HasSuffix(lines[2], "-06:00") {
		t.Errorf("month line = %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], timesheet.GrandTotalName) {
		t.Errorf("total line = %q", lines[3])
	}
}
