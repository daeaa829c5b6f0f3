package calendar

import (
	"sync"
	"time"

	"github.com/username/timeclock-report/pkg/dateutil"
	"go.uber.org/zap"
)

// EasterDate computes Easter Sunday (Gregorian) with the Meeus/Jones/Butcher algorithm
func EasterDate(year int) dateutil.Day {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return dateutil.Day{Year: year, Month: time.Month(month), Day: day}
}

// CarnivalTuesday returns Easter minus 47 days
func CarnivalTuesday(year int) dateutil.Day {
	return EasterDate(year).AddDays(-47)
}

// AshWednesday returns the day after Carnival Tuesday
func AshWednesday(year int) dateutil.Day {
	return CarnivalTuesday(year).AddDays(1)
}

var fixedHolidays = []struct {
	month time.Month
	day   int
	name  string
}{
	{time.January, 1, "Confraternização Universal"},
	{time.April, 21, "Tiradentes"},
	{time.May, 1, "Dia do Trabalho"},
	{time.September, 7, "Independência do Brasil"},
	{time.October, 12, "Nossa Senhora Aparecida"},
	{time.November, 2, "Finados"},
	{time.November, 15, "Proclamação da República"},
	{time.November, 20, "Dia da Consciência Negra"},
	{time.November, 30, "Dia do Evangélico"},
	{time.December, 25, "Natal"},
}

// FixedHolidays returns the ten calendar-fixed holidays of the year
func FixedHolidays(year int) HolidaySet {
	hs := make(HolidaySet, len(fixedHolidays))
	for _, fh := range fixedHolidays {
		d := dateutil.Day{Year: year, Month: fh.month, Day: fh.day}
		hs[d] = Holiday{Date: d, Name: fh.name, Kind: HolidayKindFixed}
	}
	return hs
}

// MovableHolidays returns the Easter-derived holidays of the year.
// Easter Sunday itself is only included when includeEaster is set.
func MovableHolidays(year int, includeEaster bool) HolidaySet {
	easter := EasterDate(year)
	tuesday := CarnivalTuesday(year)

	movable := []Holiday{
		{Date: tuesday.AddDays(-1), Name: "Segunda-feira de Carnaval", Kind: HolidayKindMovable},
		{Date: tuesday, Name: "Terça-feira de Carnaval", Kind: HolidayKindMovable},
		{Date: tuesday.AddDays(1), Name: "Quarta-feira de Cinzas", Kind: HolidayKindAshWednesday},
		{Date: easter.AddDays(-2), Name: "Sexta-feira Santa", Kind: HolidayKindMovable},
		{Date: easter.AddDays(60), Name: "Corpus Christi", Kind: HolidayKindMovable},
	}
	if includeEaster {
		movable = append(movable, Holiday{Date: easter, Name: "Páscoa", Kind: HolidayKindMovable})
	}

	hs := make(HolidaySet, len(movable))
	for _, h := range movable {
		hs[h.Date] = h
	}
	return hs
}

// HolidaysForYear returns the union of fixed and movable holidays
func HolidaysForYear(year int, includeEaster bool) HolidaySet {
	hs := FixedHolidays(year)
	hs.merge(MovableHolidays(year, includeEaster))
	return hs
}

// Computed implements Calendar with the rule-based holiday set, cached per year
type Computed struct {
	includeEaster bool
	logger        *zap.Logger
	cache         map[int]HolidaySet
	cacheMu       sync.RWMutex
}

// NewComputed creates a new rule-based calendar
func NewComputed(includeEaster bool, logger *zap.Logger) *Computed {
	return &Computed{
		includeEaster: includeEaster,
		logger:        logger,
		cache:         make(map[int]HolidaySet),
	}
}

// HolidaysForYear returns the holiday set of the year.
// The returned set is shared and must not be modified.
func (c *Computed) HolidaysForYear(year int) (HolidaySet, error) {
	c.cacheMu.RLock()
	if cached, ok := c.cache[year]; ok {
		c.cacheMu.RUnlock()
		return cached, nil
	}
	c.cacheMu.RUnlock()

	hs := HolidaysForYear(year, c.includeEaster)

	c.cacheMu.Lock()
	c.cache[year] = hs
	c.cacheMu.Unlock()

	c.logger.Debug("Holidays computed",
		zap.Int("year", year),
		zap.String("easter", EasterDate(year).String()),
		zap.Int("count", len(hs)))

	return hs, nil
}
