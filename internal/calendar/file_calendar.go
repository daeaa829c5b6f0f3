package calendar

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/username/timeclock-report/pkg/dateutil"
	"go.uber.org/zap"
)

// FileCalendar implements Calendar using a local text file of extra holidays
// (municipal holidays, company-wide days off, ...)
type FileCalendar struct {
	filePath string
	logger   *zap.Logger
	data     map[int]HolidaySet // key: year
	loadOnce sync.Once
	loadErr  error
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
		data:     make(map[int]HolidaySet),
	}
}

// Load loads calendar data from file
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	count := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Format: YYYY-MM-DD [name] or DD/MM/YYYY [name]
		// Example: 2025-06-19 Aniversário da cidade
		parts := strings.SplitN(line, " ", 2)

		t, err := dateutil.ParseDate(parts[0])
		if err != nil {
			fc.logger.Warn("Failed to parse holiday date",
				zap.String("file", fc.filePath),
				zap.String("line", line),
				zap.Error(err))
			continue
		}
		date := dateutil.DayOf(t)

		name := "Feriado"
		if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
			name = strings.TrimSpace(parts[1])
		}

		hs, ok := fc.data[date.Year]
		if !ok {
			hs = make(HolidaySet)
			fc.data[date.Year] = hs
		}
		hs[date] = Holiday{Date: date, Name: name, Kind: HolidayKindExtra}
		count++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading calendar file: %w", err)
	}

	fc.logger.Info("Calendar file loaded",
		zap.String("file", fc.filePath),
		zap.Int("holidays", count),
		zap.Int("years", len(fc.data)))

	return nil
}

// HolidaysForYear returns the extra holidays listed for the year.
// The file is loaded lazily on first use.
func (fc *FileCalendar) HolidaysForYear(year int) (HolidaySet, error) {
	fc.loadOnce.Do(func() {
		fc.loadErr = fc.Load()
	})
	if fc.loadErr != nil {
		return nil, fc.loadErr
	}

	hs, ok := fc.data[year]
	if !ok {
		return HolidaySet{}, nil
	}
	return hs, nil
}
