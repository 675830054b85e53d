package conform

import (
	"strings"
	"time"
)

// Valid 8-digit date codes fall inside this window; anything else becomes
// a null date.
const (
	dateCodeMin = 19000101
	dateCodeMax = 20500101
)

// birthDateFloor is the earliest believable birth date; anything before it
// is treated as an entry error.
var birthDateFloor = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// dateFromCode converts an 8-digit YYYYMMDD integer into a date. Codes that
// are missing, outside the accepted window, or not a real calendar date
// resolve to nil.
func dateFromCode(code *int) *time.Time {
	if code == nil {
		return nil
	}
	v := *code
	if v < dateCodeMin || v > dateCodeMax {
		return nil
	}

	year := v / 10000
	month := (v / 100) % 100
	day := v % 100

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components (e.g. Feb 30 becomes
	// Mar 2); a round-trip mismatch means the code was not a real date.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return nil
	}
	return &t
}

// stripArtifacts removes whitespace and the control characters that survive
// delimited-text bulk loads: tab, newline, carriage return and the
// non-breaking space.
func stripArtifacts(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\u00a0':
			return -1
		}
		return r
	}, s)
}
