package attendance

import (
	"time"

	"github.com/username/timeclock-report/pkg/dateutil"
)

// Record represents the clock observations of a single day.
// Worked is summed independently by the source and is authoritative even
// when Entries and Exits are incomplete or of different lengths.
type Record struct {
	Entries []string      // clock-in times, HH:MM
	Exits   []string      // clock-out times, HH:MM
	Worked  time.Duration // total worked duration of the day
}

// Document maps each calendar day of a source export to its record
type Document map[dateutil.Day]Record

// Earliest returns the first day of the document, false if it is empty
func (d Document) Earliest() (dateutil.Day, bool) {
	var earliest dateutil.Day
	found := false
	for day := range d {
		if !found || day.Before(earliest) {
			earliest = day
			found = true
		}
	}
	return earliest, found
}

// Clone returns a shallow copy of the document
func (d Document) Clone() Document {
	c := make(Document, len(d))
	for day, rec := range d {
		c[day] = rec
	}
	return c
}
