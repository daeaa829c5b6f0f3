package duration

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var hhmmRegex = regexp.MustCompile(`^(\d+):(\d{2})$`)

const maxMinutes = math.MaxInt64 / int64(time.Minute)

// FormatError is returned when a text is not a valid HH:MM duration
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid HH:MM duration: %q", e.Input)
}

// Parse parses "HH:MM" into a duration. Hours may exceed 24.
// Example: "08:30" -> 8h30m, "125:05" -> 125h5m
func Parse(text string) (time.Duration, error) {
	m := hhmmRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, &FormatError{Input: text}
	}

	hours, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, &FormatError{Input: text}
	}
	minutes, _ := strconv.ParseInt(m[2], 10, 64)
	if minutes > 59 {
		return 0, &FormatError{Input: text}
	}
	// must fit in a time.Duration
	if hours > (maxMinutes-minutes)/60 {
		return 0, &FormatError{Input: text}
	}

	return time.Duration(hours*60+minutes) * time.Minute, nil
}

// Format renders a duration as [-]HH:MM, truncated to whole minutes
func Format(d time.Duration) string {
	totalMinutes := int64(d / time.Minute)

	sign := ""
	if totalMinutes < 0 {
		sign = "-"
		totalMinutes = -totalMinutes
	}

	return fmt.Sprintf("%s%02d:%02d", sign, totalMinutes/60, totalMinutes%60)
}

// ParseSigned parses [+-]HH:MM and returns zero on any malformed input.
// Used when re-reading values previously produced by Format.
func ParseSigned(text string) time.Duration {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0
	}

	sign := time.Duration(1)
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}

	d, err := Parse(s)
	if err != nil {
		return 0
	}
	return sign * d
}
