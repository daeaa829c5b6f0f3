package timesheet

import (
	"time"

	"github.com/username/timeclock-report/pkg/dateutil"
)

// Category is the classification of a reported day
type Category int

const (
	CategoryNormal Category = iota
	CategoryVacation
	CategoryWeekend
	CategoryAshWednesday
	CategoryHoliday
	CategorySickLeave
	CategoryPaidExcuse
	CategoryBirthday
)

var categoryLabels = map[Category]string{
	CategoryNormal:       "Normal",
	CategoryVacation:     "Férias",
	CategoryWeekend:      "Final de Semana",
	CategoryAshWednesday: "Quarta-feira de Cinzas",
	CategoryHoliday:      "Feriado",
	CategorySickLeave:    "Atestado",
	CategoryPaidExcuse:   "Abono",
	CategoryBirthday:     "Aniversário",
}

// String returns the report label of the category
func (c Category) String() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return "Desconhecido"
}

// Policy holds the expected workload constants
type Policy struct {
	FullDay time.Duration
	HalfDay time.Duration
}

// DefaultPolicy returns the 8h / 4h workload
func DefaultPolicy() Policy {
	return Policy{FullDay: 8 * time.Hour, HalfDay: 4 * time.Hour}
}

// DayFacts collects everything known about a day before classification
type DayFacts struct {
	Day          dateutil.Day
	Worked       time.Duration
	Vacation     bool
	AshWednesday bool
	Holiday      bool
	SickLeave    bool
	PaidExcuse   bool
	Birthday     bool
}

// Outcome is the settled workload of a classified day
type Outcome struct {
	Worked   time.Duration
	Expected time.Duration
	Balance  time.Duration
	Counted  bool // false when the day stays out of the month totals
}

type rule struct {
	category Category
	applies  func(f DayFacts) bool
	settle   func(p Policy, worked time.Duration) Outcome
}

// rules are evaluated in order, first match wins
var rules = []rule{
	{
		category: CategoryVacation,
		applies:  func(f DayFacts) bool { return f.Vacation },
		settle: func(Policy, time.Duration) Outcome {
			return Outcome{}
		},
	},
	{
		category: CategoryWeekend,
		applies:  func(f DayFacts) bool { return f.Day.IsWeekend() },
		settle:   surplus,
	},
	{
		category: CategoryAshWednesday,
		applies:  func(f DayFacts) bool { return f.AshWednesday },
		settle: func(p Policy, worked time.Duration) Outcome {
			return owed(p.HalfDay, worked)
		},
	},
	{
		category: CategoryHoliday,
		applies:  func(f DayFacts) bool { return f.Holiday },
		settle:   surplus,
	},
	{
		category: CategorySickLeave,
		applies:  func(f DayFacts) bool { return f.SickLeave },
		settle:   excused,
	},
	{
		category: CategoryPaidExcuse,
		applies:  func(f DayFacts) bool { return f.PaidExcuse },
		settle:   excused,
	},
	{
		category: CategoryBirthday,
		applies:  func(f DayFacts) bool { return f.Birthday },
		settle: func(p Policy, worked time.Duration) Outcome {
			return owed(p.HalfDay, worked)
		},
	},
}

// surplus: nothing expected, any work is balance
func surplus(_ Policy, worked time.Duration) Outcome {
	return Outcome{Worked: worked, Balance: worked, Counted: true}
}

// excused: full day expected, balance pinned to zero
func excused(p Policy, worked time.Duration) Outcome {
	return Outcome{Worked: worked, Expected: p.FullDay, Counted: true}
}

func owed(expected, worked time.Duration) Outcome {
	return Outcome{Worked: worked, Expected: expected, Balance: worked - expected, Counted: true}
}

// Classify returns the category of the first matching rule and its outcome
func Classify(f DayFacts, p Policy) (Category, Outcome) {
	for _, r := range rules {
		if r.applies(f) {
			return r.category, r.settle(p, f.Worked)
		}
	}
	return CategoryNormal, owed(p.FullDay, f.Worked)
}
