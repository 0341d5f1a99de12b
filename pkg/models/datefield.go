package models

import (
	"strings"
	"time"
)

const (
	// NotApplicable is the cell text for an unscheduled date.
	NotApplicable = "N/A"
	// Done marks a touchpoint the operator has sent.
	Done = "DONE"
	// DateLayout is the cell format of a scheduled date.
	DateLayout = "2006-01-02"
)

// DateField is either a scheduled calendar date or not applicable.
// The zero value is not applicable.
type DateField struct {
	date time.Time
	ok   bool
}

// Scheduled returns a DateField for the calendar day of t.
func Scheduled(t time.Time) DateField {
	return DateField{date: Day(t), ok: true}
}

// Unscheduled returns the not-applicable DateField.
func Unscheduled() DateField {
	return DateField{}
}

// IsScheduled reports whether the field carries a date.
func (d DateField) IsScheduled() bool { return d.ok }

// Date returns the scheduled day and whether it is set.
func (d DateField) Date() (time.Time, bool) { return d.date, d.ok }

// AddDays offsets a scheduled date; unscheduled stays unscheduled.
func (d DateField) AddDays(n int) DateField {
	if !d.ok {
		return d
	}
	return DateField{date: d.date.AddDate(0, 0, n), ok: true}
}

// String renders the cell text.
func (d DateField) String() string {
	if !d.ok {
		return NotApplicable
	}
	return d.date.Format(DateLayout)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, dd := t.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

var cellLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01-02-06",
	"1/2/06",
	"1/2/2006",
	"1/2/06 15:04",
	"02.01.2006",
}

// ParseDateCell parses a cell that may hold a date with or without time of day.
// "N/A", empty and non-date text parse as unscheduled.
func ParseDateCell(s string) DateField {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, NotApplicable) {
		return Unscheduled()
	}
	for _, layout := range cellLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Scheduled(t)
		}
	}
	return Unscheduled()
}
