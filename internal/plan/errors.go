package plan

import "fmt"

// MalformedTableError is returned when a continuation row has no record to attach to.
type MalformedTableError struct {
	// Index of the offending row in the source table.
	Index  int
	DayKey string
	Row    ContentRow
}

func (e *MalformedTableError) Error() string {
	return fmt.Sprintf(
		"malformed table: continuation row %d (day %q, position %q) has no preceding course",
		e.Index, e.DayKey, e.Row.Position,
	)
}

// DateDecodeError is returned for a day key that is not a recognized date/weekday pair.
type DateDecodeError struct {
	DayKey string
	Course string
	Reason string
}

func (e *DateDecodeError) Error() string {
	if e.Course == "" {
		return fmt.Sprintf("decode day key %q: %s", e.DayKey, e.Reason)
	}
	return fmt.Sprintf("decode day key %q of course %q: %s", e.DayKey, e.Course, e.Reason)
}
