package overlay

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/username/timeclock-report/internal/attendance"
	"github.com/username/timeclock-report/pkg/dateutil"
	"github.com/username/timeclock-report/pkg/duration"
	"go.uber.org/zap"
)

// Overlays holds the special-day categories loaded for a run.
// Overlays are read-only once loaded.
type Overlays struct {
	Vacation     dateutil.DaySet
	SickLeave    dateutil.DaySet
	PaidExcuse   dateutil.DaySet
	Birthday     dateutil.DaySet
	AshWednesday dateutil.DaySet
	Manual       map[dateutil.Day]attendance.Record
}

// Touches reports whether the day belongs to any overlay
func (o Overlays) Touches(d dateutil.Day) bool {
	if _, ok := o.Manual[d]; ok {
		return true
	}
	return o.Vacation.Has(d) ||
		o.SickLeave.Has(d) ||
		o.PaidExcuse.Has(d) ||
		o.Birthday.Has(d) ||
		o.AshWednesday.Has(d)
}

// ManualInMonth reports whether the manual overlay has any day in the month
func (o Overlays) ManualInMonth(year int, month time.Month) bool {
	for d := range o.Manual {
		if d.Year == year && d.Month == month {
			return true
		}
	}
	return false
}

// Loader reads overlay files
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a new overlay loader
func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

// Files names the overlay files, relative to Dir unless absolute.
// An empty name disables that overlay.
type Files struct {
	Dir          string
	Vacation     string
	SickLeave    string
	PaidExcuse   string
	Birthday     string
	AshWednesday string
	Manual       string
}

func (f Files) path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(f.Dir, name)
}

// Load loads every configured overlay file
func (l *Loader) Load(files Files) (Overlays, error) {
	var (
		o   Overlays
		err error
	)

	sets := []struct {
		name   string
		target *dateutil.DaySet
	}{
		{files.Vacation, &o.Vacation},
		{files.SickLeave, &o.SickLeave},
		{files.PaidExcuse, &o.PaidExcuse},
		{files.Birthday, &o.Birthday},
		{files.AshWednesday, &o.AshWednesday},
	}

	for _, s := range sets {
		if *s.target, err = l.LoadDates(files.path(s.name)); err != nil {
			return Overlays{}, err
		}
	}

	if o.Manual, err = l.LoadManual(files.path(files.Manual)); err != nil {
		return Overlays{}, err
	}

	return o, nil
}

// LoadDates loads a list of days from a file.
// Format, one entry per line:
//
//	2024-07-15
//	2024-01-01;2024-01-05   (inclusive range)
//
// Blank lines and # comments are ignored; malformed lines are logged and skipped.
// A missing file yields an empty set.
func (l *Loader) LoadDates(path string) (dateutil.DaySet, error) {
	set := dateutil.NewDaySet()

	lines, err := l.readLines(path)
	if err != nil || lines == nil {
		return set, err
	}

	for _, ln := range lines {
		parts := strings.Split(ln.text, ";")

		switch len(parts) {
		case 1:
			d, err := dateutil.ParseDay(strings.TrimSpace(parts[0]))
			if err != nil {
				l.warnLine(path, ln, err)
				continue
			}
			set.Add(d)

		case 2:
			from, err := dateutil.ParseDay(strings.TrimSpace(parts[0]))
			if err != nil {
				l.warnLine(path, ln, err)
				continue
			}
			to, err := dateutil.ParseDay(strings.TrimSpace(parts[1]))
			if err != nil {
				l.warnLine(path, ln, err)
				continue
			}
			if to.Before(from) {
				l.warnLine(path, ln, fmt.Errorf("range end %s before start %s", to, from))
				continue
			}
			for d := from; !to.Before(d); d = d.AddDays(1) {
				set.Add(d)
			}

		default:
			l.warnLine(path, ln, errors.New("expected a date or a date;date range"))
		}
	}

	l.logger.Info("Overlay loaded",
		zap.String("file", path),
		zap.Int("days", set.Len()))

	return set, nil
}

// LoadManual loads manual attendance entries.
// Format: YYYY-MM-DD;HH:MM;HH:MM;... with alternating clock-in / clock-out times.
// The total pairs entries positionally; a trailing unmatched clock-in is kept
// for display and ignored for the total. A clock-out earlier than its clock-in
// is taken to cross midnight.
func (l *Loader) LoadManual(path string) (map[dateutil.Day]attendance.Record, error) {
	records := make(map[dateutil.Day]attendance.Record)

	lines, err := l.readLines(path)
	if err != nil || lines == nil {
		return records, err
	}

	for _, ln := range lines {
		parts := strings.Split(ln.text, ";")

		day, err := dateutil.ParseDay(strings.TrimSpace(parts[0]))
		if err != nil {
			l.warnLine(path, ln, err)
			continue
		}

		rec, err := manualRecord(parts[1:])
		if err != nil {
			l.warnLine(path, ln, err)
			continue
		}

		if _, dup := records[day]; dup {
			l.logger.Warn("Duplicate manual entry, last one wins",
				zap.String("file", path),
				zap.Int("line", ln.number),
				zap.String("date", day.String()))
		}
		records[day] = rec
	}

	l.logger.Info("Manual overlay loaded",
		zap.String("file", path),
		zap.Int("days", len(records)))

	return records, nil
}

func manualRecord(times []string) (attendance.Record, error) {
	var rec attendance.Record

	// trailing separators are tolerated, a gap would shift the in/out positions
	for len(times) > 0 && strings.TrimSpace(times[len(times)-1]) == "" {
		times = times[:len(times)-1]
	}

	for i, raw := range times {
		t := strings.TrimSpace(raw)
		if t == "" {
			return attendance.Record{}, fmt.Errorf("empty time at position %d", i+1)
		}
		if _, err := clockTime(t); err != nil {
			return attendance.Record{}, err
		}
		if i%2 == 0 {
			rec.Entries = append(rec.Entries, t)
		} else {
			rec.Exits = append(rec.Exits, t)
		}
	}

	pairs := len(rec.Entries)
	if len(rec.Exits) < pairs {
		pairs = len(rec.Exits)
	}
	for i := 0; i < pairs; i++ {
		in, _ := clockTime(rec.Entries[i])
		out, _ := clockTime(rec.Exits[i])
		if out < in {
			out += 24 * time.Hour
		}
		rec.Worked += out - in
	}

	return rec, nil
}

// clockTime parses a time of day HH:MM as an offset from midnight
func clockTime(s string) (time.Duration, error) {
	d, err := duration.Parse(s)
	if err != nil {
		return 0, err
	}
	if d >= 24*time.Hour {
		return 0, fmt.Errorf("time of day out of range: %q", s)
	}
	return d, nil
}

type line struct {
	number int
	text   string
}

// readLines returns the meaningful lines of a file, nil when the file does not exist
func (l *Loader) readLines(path string) ([]line, error) {
	if path == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("Overlay file not found, skipping", zap.String("file", path))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open overlay file: %w", err)
	}
	defer file.Close()

	lines := []line{}
	scanner := bufio.NewScanner(file)
	number := 0
	for scanner.Scan() {
		number++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, line{number: number, text: text})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading overlay file %s: %w", path, err)
	}

	return lines, nil
}

func (l *Loader) warnLine(path string, ln line, err error) {
	l.logger.Warn("Invalid overlay line, skipping",
		zap.String("file", path),
		zap.Int("line", ln.number),
		zap.String("text", ln.text),
		zap.Error(err))
}
