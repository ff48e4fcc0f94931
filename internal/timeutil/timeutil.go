package timeutil

import "time"

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// GermanDateLayout is the day-first date format used by the federation site
// and the expense form (DD.MM.YYYY).
const GermanDateLayout = "02.01.2006"

// GermanDateTimeLayout is the schedule timestamp format on the federation site.
const GermanDateTimeLayout = "02.01.2006 15:04"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseGermanDate parses a DD.MM.YYYY date string.
func ParseGermanDate(value string) (time.Time, error) {
	return time.Parse(GermanDateLayout, value)
}

// FormatGermanDate formats a time as DD.MM.YYYY in its current location.
func FormatGermanDate(t time.Time) string {
	return t.Format(GermanDateLayout)
}

// SameCalendarDay reports whether a and b fall on the same month and day in
// loc, ignoring the year. A nil loc means UTC. Zero times never match.
func SameCalendarDay(a, b time.Time, loc *time.Location) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	if loc == nil {
		loc = time.UTC
	}
	a, b = a.In(loc), b.In(loc)
	return a.Month() == b.Month() && a.Day() == b.Day()
}
