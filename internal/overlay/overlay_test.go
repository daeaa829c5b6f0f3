package overlay

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/username/timeclock-report/pkg/dateutil"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDates(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []dateutil.Day
	}{
		{
			name:    "single date",
			content: "2024-07-15\n",
			want:    []dateutil.Day{dateutil.NewDay(2024, time.July, 15)},
		},
		{
			name:    "inclusive range",
			content: "2024-01-01;2024-01-05\n",
			want: []dateutil.Day{
				dateutil.NewDay(2024, time.January, 1),
				dateutil.NewDay(2024, time.January, 2),
				dateutil.NewDay(2024, time.January, 3),
				dateutil.NewDay(2024, time.January, 4),
				dateutil.NewDay(2024, time.January, 5),
			},
		},
		{
			name:    "overlapping ranges deduplicate",
			content: "2024-01-01;2024-01-03\n2024-01-02;2024-01-04\n2024-01-03\n",
			want: []dateutil.Day{
				dateutil.NewDay(2024, time.January, 1),
				dateutil.NewDay(2024, time.January, 2),
				dateutil.NewDay(2024, time.January, 3),
				dateutil.NewDay(2024, time.January, 4),
			},
		},
		{
			name:    "range across month end",
			content: "2024-02-28;2024-03-01\n",
			want: []dateutil.Day{
				dateutil.NewDay(2024, time.February, 28),
				dateutil.NewDay(2024, time.February, 29),
				dateutil.NewDay(2024, time.March, 1),
			},
		},
		{
			name:    "comments blanks and malformed lines skipped",
			content: "# ferias\n\n  2024-03-10  \n15/03/2024\n2024-03-20;2024-03-18\n2024-03-01;2024-03-02;2024-03-03\n2024-13-01\n",
			want:    []dateutil.Day{dateutil.NewDay(2024, time.March, 10)},
		},
	}

	loader := NewLoader(zap.NewNop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "dates.txt", tt.content)

			set, err := loader.LoadDates(path)
			if err != nil {
				t.Fatalf("LoadDates() error = %v", err)
			}

			got := set.Sorted()
			if len(got) != len(tt.want) {
				t.Fatalf("LoadDates() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("LoadDates()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoadDates_MissingFile(t *testing.T) {
	set, err := NewLoader(zap.NewNop()).LoadDates(filepath.Join(t.TempDir(), "ferias.txt"))
	if err != nil {
		t.Fatalf("LoadDates() error = %v, want nil for missing file", err)
	}
	if set.Len() != 0 {
		t.Errorf("LoadDates() len = %d, want 0", set.Len())
	}
}

func TestLoadManual(t *testing.T) {
	path := writeFile(t, t.TempDir(), "manual.txt", `# ajustes
2024-01-08;08:00;12:00;13:00;17:30
2024-01-09;09:00;12:00;13:00
2024-01-10;22:00;02:00
2024-01-11;08:00;25:00
bad-date;08:00;12:00
2024-01-12
2024-01-15;08:00;;13:00;17:00
2024-01-16;08:00;12:00;
`)

	records, err := NewLoader(zap.NewNop()).LoadManual(path)
	if err != nil {
		t.Fatalf("LoadManual() error = %v", err)
	}

	tests := []struct {
		name    string
		day     dateutil.Day
		worked  time.Duration
		entries string
		exits   string
	}{
		{
			name:    "two full pairs",
			day:     dateutil.NewDay(2024, time.January, 8),
			worked:  8*time.Hour + 30*time.Minute,
			entries: "08:00,13:00",
			exits:   "12:00,17:30",
		},
		{
			name:    "trailing entry ignored for total",
			day:     dateutil.NewDay(2024, time.January, 9),
			worked:  3 * time.Hour,
			entries: "09:00,13:00",
			exits:   "12:00",
		},
		{
			name:    "pair crossing midnight",
			day:     dateutil.NewDay(2024, time.January, 10),
			worked:  4 * time.Hour,
			entries: "22:00",
			exits:   "02:00",
		},
		{
			name:    "trailing separator tolerated",
			day:     dateutil.NewDay(2024, time.January, 16),
			worked:  4 * time.Hour,
			entries: "08:00",
			exits:   "12:00",
		},
		{
			name:   "date without times",
			day:    dateutil.NewDay(2024, time.January, 12),
			worked: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := records[tt.day]
			if !ok {
				t.Fatalf("LoadManual() missing %s", tt.day)
			}
			if rec.Worked != tt.worked {
				t.Errorf("Worked = %v, want %v", rec.Worked, tt.worked)
			}
			if got := strings.Join(rec.Entries, ","); got != tt.entries {
				t.Errorf("Entries = %q, want %q", got, tt.entries)
			}
			if got := strings.Join(rec.Exits, ","); got != tt.exits {
				t.Errorf("Exits = %q, want %q", got, tt.exits)
			}
		})
	}

	if _, ok := records[dateutil.NewDay(2024, time.January, 11)]; ok {
		t.Error("LoadManual() kept a line with an out-of-range time")
	}
	if _, ok := records[dateutil.NewDay(2024, time.January, 15)]; ok {
		t.Error("LoadManual() kept a line with an empty time between punches")
	}
	if len(records) != 4 {
		t.Errorf("len(LoadManual()) = %d, want 4", len(records))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ferias.txt", "2024-01-15;2024-01-19\n")
	writeFile(t, dir, "atestado.txt", "2024-01-22\n")
	writeFile(t, dir, "manual.txt", "2024-01-23;08:00;16:00\n")

	o, err := NewLoader(zap.NewNop()).Load(Files{
		Dir:        dir,
		Vacation:   "ferias.txt",
		SickLeave:  "atestado.txt",
		PaidExcuse: "abono.txt",
		Birthday:   "aniversario.txt",
		Manual:     "manual.txt",
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if o.Vacation.Len() != 5 {
		t.Errorf("Vacation len = %d, want 5", o.Vacation.Len())
	}
	if !o.SickLeave.Has(dateutil.NewDay(2024, time.January, 22)) {
		t.Error("SickLeave missing 2024-01-22")
	}
	if o.PaidExcuse.Len() != 0 || o.Birthday.Len() != 0 || o.AshWednesday.Len() != 0 {
		t.Error("missing overlay files should load as empty sets")
	}
	if !o.Touches(dateutil.NewDay(2024, time.January, 23)) {
		t.Error("Touches() false for a manual day")
	}
	if o.Touches(dateutil.NewDay(2024, time.January, 24)) {
		t.Error("Touches() true for a plain day")
	}
	if !o.ManualInMonth(2024, time.January) || o.ManualInMonth(2024, time.February) {
		t.Error("ManualInMonth() mismatch")
	}
}
