// Package dates converts between the form format (YYYY-MM-DD) and the
// backend's DD/MM/YYYY, and flags TAT dates that have come due.
package dates

import (
	"fmt"
	"strings"
	"time"
)

const (
	ISOLayout     = "2006-01-02"
	DisplayLayout = "02/01/2006"
)

// ToDisplay converts YYYY-MM-DD to DD/MM/YYYY. Values already in DD/MM/YYYY
// pass through, and a trailing time part ("2024-05-01 10:22:00") is dropped.
func ToDisplay(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if t, err := time.Parse(DisplayLayout, value); err == nil {
		return t.Format(DisplayLayout), nil
	}
	t, err := time.Parse(ISOLayout, datePart(value))
	if err != nil {
		return "", fmt.Errorf("invalid date %q", value)
	}
	return t.Format(DisplayLayout), nil
}

// ToISO converts DD/MM/YYYY to YYYY-MM-DD for <input type="date">. Values
// already in ISO form pass through.
func ToISO(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if t, err := time.Parse(ISOLayout, datePart(value)); err == nil {
		return t.Format(ISOLayout), nil
	}
	t, err := time.Parse(DisplayLayout, datePart(value))
	if err != nil {
		return "", fmt.Errorf("invalid date %q", value)
	}
	return t.Format(ISOLayout), nil
}

// DisplayOrRaw is ToDisplay for rendering: unparseable values are shown as
// the backend sent them.
func DisplayOrRaw(value string) string {
	out, err := ToDisplay(value)
	if err != nil {
		return strings.TrimSpace(value)
	}
	return out
}

// ISOOrEmpty is ToISO for prefilling date inputs.
func ISOOrEmpty(value string) string {
	out, err := ToISO(value)
	if err != nil {
		return ""
	}
	return out
}

// IsOverdue reports whether a DD/MM/YYYY date is on or before today's date.
// Only the calendar day counts; unparseable input is never overdue.
func IsOverdue(ddmmyyyy string, today time.Time) bool {
	t, err := time.ParseInLocation(DisplayLayout, datePart(strings.TrimSpace(ddmmyyyy)), today.Location())
	if err != nil {
		return false
	}
	y, m, d := today.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return !t.After(midnight)
}

func datePart(value string) string {
	if i := strings.IndexAny(value, " T"); i > 0 {
		return value[:i]
	}
	return value
}
