package calendar

import (
	"fmt"

	"go.uber.org/zap"
)

// CompositeCalendar implements Calendar as the union of several calendars
// Primary: Computed (national rules)
// Secondary: FileCalendar (extra local holidays)
type CompositeCalendar struct {
	primary   Calendar
	secondary []Calendar
	logger    *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(primary Calendar, logger *zap.Logger, secondary ...Calendar) *CompositeCalendar {
	return &CompositeCalendar{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// HolidaysForYear returns the primary holidays merged with every secondary calendar.
// The primary must succeed; failing secondaries are logged and skipped.
func (cc *CompositeCalendar) HolidaysForYear(year int) (HolidaySet, error) {
	primary, err := cc.primary.HolidaysForYear(year)
	if err != nil {
		return nil, fmt.Errorf("failed to get primary holidays for %d: %w", year, err)
	}

	// Copy so the primary's cached set stays untouched
	result := make(HolidaySet, len(primary))
	result.merge(primary)

	for _, cal := range cc.secondary {
		extra, err := cal.HolidaysForYear(year)
		if err != nil {
			cc.logger.Warn("Secondary calendar failed, continuing with primary only",
				zap.Int("year", year),
				zap.Error(err))
			continue
		}
		result.merge(extra)
	}

	return result, nil
}
