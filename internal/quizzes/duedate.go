package quizzes

import (
	"strings"
	"time"

	"github.com/JaimeStill/campus/pkg/validation"
)

// Layouts carrying their own offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
}

// Layouts without an offset, read in the service location. The minute-only
// form is what datetime-local inputs submit.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDueDate reads a due date and rejects any point before the start of
// the current day in loc. Values without an offset are read in loc, so plain
// dates are midnight there.
func ParseDueDate(value string, now time.Time, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, validation.Field(fieldDueDate, "is required")
	}

	due, ok := parseDueDate(value, loc)
	if !ok {
		return time.Time{}, validation.Field(fieldDueDate, "must be a valid date")
	}

	if due.Before(StartOfDay(now, loc)) {
		return time.Time{}, validation.Field(fieldDueDate, "cannot be in the past")
	}

	return due.UTC(), nil
}

func parseDueDate(value string, loc *time.Location) (time.Time, bool) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StartOfDay returns midnight of the calendar day containing t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
