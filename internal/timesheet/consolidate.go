package timesheet

// GrandTotalName labels the synthetic last entry of the consolidated listing
const GrandTotalName = "TOTAL GERAL"

// Consolidated holds the months of a run in processing order and their sum
type Consolidated struct {
	Months []MonthSummary
	Total  Totals
}

// Entry is one line of the consolidated listing
type Entry struct {
	Name   string
	Totals Totals
}

// Aggregate sums the month summaries, keeping their order
func Aggregate(months []MonthSummary) Consolidated {
	c := Consolidated{Months: make([]MonthSummary, len(months))}
	copy(c.Months, months)

	for _, m := range months {
		c.Total = c.Total.Add(m.Totals)
	}
	return c
}

// Entries lists the months followed by the grand total
func (c Consolidated) Entries() []Entry {
	entries := make([]Entry, 0, len(c.Months)+1)
	for _, m := range c.Months {
		entries = append(entries, Entry{Name: m.Name, Totals: m.Totals})
	}
	return append(entries, Entry{Name: GrandTotalName, Totals: c.Total})
}
