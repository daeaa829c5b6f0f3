package timesheet

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/username/timeclock-report/internal/attendance"
	"github.com/username/timeclock-report/pkg/dateutil"
)

var periodRegex = regexp.MustCompile(`(\d{2})_(\d{4})`)

// AmbiguousPeriodError is returned when a document's month cannot be determined
type AmbiguousPeriodError struct {
	Source string
}

func (e *AmbiguousPeriodError) Error() string {
	return fmt.Sprintf("cannot determine month/year of %q", e.Source)
}

// ResolvePeriod determines the month of a document: the first MM_YYYY token
// of the file name with a valid month, else the earliest attendance day.
func ResolvePeriod(source string, doc attendance.Document) (int, time.Month, error) {
	for _, m := range periodRegex.FindAllStringSubmatch(filepath.Base(source), -1) {
		month, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return year, time.Month(month), nil
		}
	}

	if earliest, ok := doc.Earliest(); ok {
		return earliest.Year, earliest.Month, nil
	}

	return 0, 0, &AmbiguousPeriodError{Source: source}
}

// MergeOverrides returns the document with every manual record replacing the
// scraped record of its day. The input document is not modified.
func MergeOverrides(doc attendance.Document, manual map[dateutil.Day]attendance.Record) attendance.Document {
	merged := doc.Clone()
	for day, rec := range manual {
		merged[day] = rec
	}
	return merged
}
