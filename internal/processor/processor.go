package processor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/username/timeclock-report/internal/attendance"
	"github.com/username/timeclock-report/internal/calendar"
	"github.com/username/timeclock-report/internal/overlay"
	"github.com/username/timeclock-report/internal/timesheet"
	"github.com/username/timeclock-report/pkg/dateutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoAttendance is returned for a document with nothing to report
var ErrNoAttendance = errors.New("no attendance data")

// Options configures a Processor
type Options struct {
	Pattern             string // glob matched against file names, default *.html
	Workers             int
	Policy              timesheet.Policy
	AshWednesdayHalfDay bool // derive the Ash Wednesday overlay from the calendar
}

// Month is the classified content of one source document
type Month struct {
	Source  string
	Rows    []timesheet.DayRow
	Summary timesheet.MonthSummary
}

// Skipped records a document left out of the report
type Skipped struct {
	Source string
	Err    error
}

// Result is the outcome of a batch run
type Result struct {
	Months       []Month // in listing order
	Skipped      []Skipped
	Consolidated timesheet.Consolidated
}

// Processor turns a directory of exports into classified months
type Processor struct {
	extractor attendance.Extractor
	calendar  calendar.Calendar
	overlays  overlay.Overlays
	opts      Options
	logger    *zap.Logger
}

// New creates a new batch processor
func New(
	extractor attendance.Extractor,
	cal calendar.Calendar,
	overlays overlay.Overlays,
	opts Options,
	logger *zap.Logger,
) *Processor {
	if opts.Pattern == "" {
		opts.Pattern = "*.html"
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Policy == (timesheet.Policy{}) {
		opts.Policy = timesheet.DefaultPolicy()
	}

	return &Processor{
		extractor: extractor,
		calendar:  cal,
		overlays:  overlays,
		opts:      opts,
		logger:    logger,
	}
}

// ListSources returns the matching files of dir sorted by name
func (p *Processor) ListSources(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, p.opts.Pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid input pattern %q: %w", p.opts.Pattern, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run processes every source of dir. A failing document is skipped and
// recorded; only listing errors and cancellation abort the run.
func (p *Processor) Run(ctx context.Context, dir string) (*Result, error) {
	files, err := p.ListSources(dir)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Starting batch",
		zap.String("dir", dir),
		zap.Int("files", len(files)),
		zap.Int("workers", p.opts.Workers))

	months := make([]*Month, len(files))
	failures := make([]error, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			months[i], failures[i] = p.ProcessFile(file)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}

	result := &Result{}
	summaries := []timesheet.MonthSummary{}

	for i, file := range files {
		if failures[i] != nil {
			p.logger.Warn("Document skipped",
				zap.String("file", file),
				zap.Error(failures[i]))
			result.Skipped = append(result.Skipped, Skipped{Source: file, Err: failures[i]})
			continue
		}
		result.Months = append(result.Months, *months[i])
		summaries = append(summaries, months[i].Summary)
	}

	result.Consolidated = timesheet.Aggregate(summaries)

	p.logger.Info("Batch completed",
		zap.Int("months", len(result.Months)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}

// ProcessFile extracts and classifies a single document
func (p *Processor) ProcessFile(path string) (*Month, error) {
	doc, err := p.extractor.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract attendance: %w", err)
	}

	year, month, err := timesheet.ResolvePeriod(path, doc)
	if len(doc) == 0 && (err != nil || !p.overlays.ManualInMonth(year, month)) {
		return nil, ErrNoAttendance
	}
	if err != nil {
		return nil, err
	}

	doc = timesheet.MergeOverrides(doc, p.overlays.Manual)

	holidays, err := p.calendar.HolidaysForYear(year)
	if err != nil {
		return nil, fmt.Errorf("failed to get holidays for %d: %w", year, err)
	}

	rows, summary := timesheet.ClassifyMonth(year, month, doc, p.monthOverlays(year), holidays, p.opts.Policy)

	p.logger.Info("Month classified",
		zap.String("file", path),
		zap.String("month", summary.Name),
		zap.Int("days", len(rows)))

	return &Month{Source: path, Rows: rows, Summary: summary}, nil
}

// monthOverlays adds the year's Ash Wednesday to the loaded overlay when enabled
func (p *Processor) monthOverlays(year int) overlay.Overlays {
	if !p.opts.AshWednesdayHalfDay {
		return p.overlays
	}

	ov := p.overlays
	ash := dateutil.NewDaySet(calendar.AshWednesday(year))
	for d := range p.overlays.AshWednesday {
		ash.Add(d)
	}
	ov.AshWednesday = ash
	return ov
}
