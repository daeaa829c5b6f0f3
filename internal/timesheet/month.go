package timesheet

import (
	"fmt"
	"time"

	"github.com/username/timeclock-report/internal/attendance"
	"github.com/username/timeclock-report/internal/calendar"
	"github.com/username/timeclock-report/internal/overlay"
	"github.com/username/timeclock-report/pkg/dateutil"
	"github.com/username/timeclock-report/pkg/duration"
)

var weekdayNames = [...]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda",
	time.Tuesday:   "Terça",
	time.Wednesday: "Quarta",
	time.Thursday:  "Quinta",
	time.Friday:    "Sexta",
	time.Saturday:  "Sábado",
}

var monthNames = [...]string{
	time.January:   "Janeiro",
	time.February:  "Fevereiro",
	time.March:     "Março",
	time.April:     "Abril",
	time.May:       "Maio",
	time.June:      "Junho",
	time.July:      "Julho",
	time.August:    "Agosto",
	time.September: "Setembro",
	time.October:   "Outubro",
	time.November:  "Novembro",
	time.December:  "Dezembro",
}

// WeekdayName returns the pt-BR weekday name
func WeekdayName(w time.Weekday) string {
	return weekdayNames[w]
}

// MonthName returns the pt-BR month name
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	return monthNames[m]
}

// Punch is one clock-in / clock-out pair for display; a missing side is ""
type Punch struct {
	In  string
	Out string
}

// DayRow is one reported day
type DayRow struct {
	Date     dateutil.Day
	Weekday  string
	Category Category
	Outcome
	Punches []Punch
	Note    string // holiday name, when any
}

// WorkedText returns the worked duration as HH:MM
func (r DayRow) WorkedText() string { return duration.Format(r.Worked) }

// ExpectedText returns the expected duration as HH:MM
func (r DayRow) ExpectedText() string { return duration.Format(r.Expected) }

// BalanceText returns the balance as [-]HH:MM
func (r DayRow) BalanceText() string { return duration.Format(r.Balance) }

// Totals accumulates worked, expected and balance durations
type Totals struct {
	Worked   time.Duration
	Expected time.Duration
	Balance  time.Duration
}

// Add returns the sum of both totals
func (t Totals) Add(other Totals) Totals {
	return Totals{
		Worked:   t.Worked + other.Worked,
		Expected: t.Expected + other.Expected,
		Balance:  t.Balance + other.Balance,
	}
}

// MonthSummary holds the totals of one month
type MonthSummary struct {
	Year   int
	Month  time.Month
	Name   string
	Totals Totals
}

// NewMonthSummary creates a summary named "<Mês> <Ano>"
func NewMonthSummary(year int, month time.Month, totals Totals) MonthSummary {
	return MonthSummary{
		Year:   year,
		Month:  month,
		Name:   fmt.Sprintf("%s %d", MonthName(month), year),
		Totals: totals,
	}
}

// Summarize folds the counted rows into totals
func Summarize(rows []DayRow) Totals {
	var t Totals
	for _, r := range rows {
		if !r.Counted {
			continue
		}
		t = t.Add(Totals{Worked: r.Worked, Expected: r.Expected, Balance: r.Balance})
	}
	return t
}

// ClassifyMonth classifies every reported day of the month and sums the month.
//
// A day is reported when it has attendance, belongs to an overlay, is a
// holiday or falls on a weekend. Attendance outside the month is ignored.
func ClassifyMonth(
	year int,
	month time.Month,
	doc attendance.Document,
	ov overlay.Overlays,
	holidays calendar.HolidaySet,
	policy Policy,
) ([]DayRow, MonthSummary) {
	rows := []DayRow{}

	for dayNum := 1; dayNum <= dateutil.DaysInMonth(year, month); dayNum++ {
		day := dateutil.NewDay(year, month, dayNum)
		rec, hasRecord := doc[day]
		holiday, isHoliday := holidays[day]

		if !hasRecord && !isHoliday && !ov.Touches(day) && !day.IsWeekend() {
			continue
		}

		facts := DayFacts{
			Day:          day,
			Worked:       rec.Worked,
			Vacation:     ov.Vacation.Has(day),
			AshWednesday: ov.AshWednesday.Has(day),
			Holiday:      isHoliday,
			SickLeave:    ov.SickLeave.Has(day),
			PaidExcuse:   ov.PaidExcuse.Has(day),
			Birthday:     ov.Birthday.Has(day),
		}
		category, outcome := Classify(facts, policy)

		row := DayRow{
			Date:     day,
			Weekday:  WeekdayName(day.Weekday()),
			Category: category,
			Outcome:  outcome,
		}
		// vacation ignores the clock, so its punches are not shown
		if category != CategoryVacation {
			row.Punches = punches(rec)
		}
		if isHoliday {
			row.Note = holiday.Name
		}
		rows = append(rows, row)
	}

	return rows, NewMonthSummary(year, month, Summarize(rows))
}

func punches(rec attendance.Record) []Punch {
	n := len(rec.Entries)
	if len(rec.Exits) > n {
		n = len(rec.Exits)
	}

	result := make([]Punch, n)
	for i := range result {
		if i < len(rec.Entries) {
			result[i].In = rec.Entries[i]
		}
		if i < len(rec.Exits) {
			result[i].Out = rec.Exits[i]
		}
	}
	return result
}

// MaxPunches returns the widest punch list among the rows
func MaxPunches(rows []DayRow) int {
	widest := 0
	for _, r := range rows {
		if len(r.Punches) > widest {
			widest = len(r.Punches)
		}
	}
	return widest
}
