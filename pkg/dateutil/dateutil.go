package dateutil

import (
	"fmt"
	"sort"
	"time"
)

// ISODate is the layout used for calendar days in overlay files and logs
const ISODate = "2006-01-02"

// Day identifies a calendar day independently of clock time and location
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDay returns the normalized Day for the given components.
// Out-of-range values roll over the way time.Date does.
func NewDay(year int, month time.Month, day int) Day {
	return DayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DayOf returns the calendar day of t in its own location
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Time returns the start of the day in UTC
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of the week
func (d Day) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// IsWeekend returns true for Saturday and Sunday
func (d Day) IsWeekend() bool {
	return IsWeekend(d.Time())
}

// AddDays returns the day n days after d (n may be negative)
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other
func (d Day) Before(other Day) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Format formats the day with a time layout
func (d Day) Format(layout string) string {
	return d.Time().Format(layout)
}

// String returns YYYY-MM-DD
func (d Day) String() string {
	return d.Format(ISODate)
}

// ParseDay parses a YYYY-MM-DD calendar day
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return Day{}, err
	}
	return DayOf(t), nil
}

// DaySet is a set of calendar days
type DaySet map[Day]struct{}

// NewDaySet builds a set from the given days
func NewDaySet(days ...Day) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s.Add(d)
	}
	return s
}

// Add inserts a day into the set
func (s DaySet) Add(d Day) {
	s[d] = struct{}{}
}

// Has reports whether the day is in the set. A nil set contains nothing.
func (s DaySet) Has(d Day) bool {
	_, ok := s[d]
	return ok
}

// Len returns the number of days in the set
func (s DaySet) Len() int {
	return len(s)
}

// Sorted returns the days in chronological order
func (s DaySet) Sorted() []Day {
	days := make([]Day, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	SortDays(days)
	return days
}

// SortDays sorts days chronologically in place
func SortDays(days []Day) {
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})
}

// DaysInMonth returns the number of days of the month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// ParseDate parses date string in various formats
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		ISODate,
		"02/01/2006",
		"02.01.2006",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", dateStr)
}
