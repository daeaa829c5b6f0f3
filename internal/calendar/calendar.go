package calendar

import (
	"time"

	"github.com/username/timeclock-report/pkg/dateutil"
)

// HolidayKind represents the origin of a holiday
type HolidayKind int

const (
	HolidayKindFixed HolidayKind = iota + 1
	HolidayKindMovable
	HolidayKindAshWednesday
	HolidayKindExtra
)

// Holiday represents a non-working calendar day
type Holiday struct {
	Date dateutil.Day
	Name string
	Kind HolidayKind
}

// HolidaySet maps a calendar day to its holiday
type HolidaySet map[dateutil.Day]Holiday

// Has reports whether the day is a holiday
func (hs HolidaySet) Has(d dateutil.Day) bool {
	_, ok := hs[d]
	return ok
}

// InMonth returns the holidays falling in the given month
func (hs HolidaySet) InMonth(year int, month time.Month) HolidaySet {
	result := make(HolidaySet)
	for d, h := range hs {
		if d.Year == year && d.Month == month {
			result[d] = h
		}
	}
	return result
}

// Sorted returns the holidays in chronological order
func (hs HolidaySet) Sorted() []Holiday {
	days := make([]dateutil.Day, 0, len(hs))
	for d := range hs {
		days = append(days, d)
	}
	dateutil.SortDays(days)

	holidays := make([]Holiday, len(days))
	for i, d := range days {
		holidays[i] = hs[d]
	}
	return holidays
}

// merge adds every holiday of other that is not already present
func (hs HolidaySet) merge(other HolidaySet) {
	for d, h := range other {
		if _, exists := hs[d]; !exists {
			hs[d] = h
		}
	}
}

// Calendar interface for looking up holidays
type Calendar interface {
	// HolidaysForYear returns every holiday of the given year
	HolidaysForYear(year int) (HolidaySet, error)
}
