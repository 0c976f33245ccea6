package plan

import "strings"

// normalizeState is the accumulator threaded through the row pass.
type normalizeState struct {
	started bool
	dayKey  string
	// index into records of the open record per course, for the current day only
	open map[string]int
	// index into records of the most recently touched record, -1 if there is none
	last    int
	records []RawDayRecord
}

func newNormalizeState() normalizeState {
	return normalizeState{
		open: map[string]int{},
		last: -1,
	}
}

func isEmptyCell(cell string) bool {
	// TrimSpace also trims U+00A0, which the provider uses for empty cells
	return strings.TrimSpace(cell) == ""
}

func (s normalizeState) step(index int, row SourceRow) (normalizeState, error) {
	if !s.started || row.DayKey != s.dayKey {
		s.started = true
		s.dayKey = row.DayKey
		s.open = map[string]int{}
		s.last = -1
	}

	if isEmptyCell(row.Course) {
		if s.last < 0 {
			return s, &MalformedTableError{
				Index:  index,
				DayKey: row.DayKey,
				Row:    row.Content,
			}
		}
		s.records[s.last].Rows = append(s.records[s.last].Rows, row.Content)
		return s, nil
	}

	course := strings.TrimSpace(row.Course)
	idx, ok := s.open[course]
	if !ok {
		idx = len(s.records)
		s.records = append(s.records, RawDayRecord{
			DayKey: row.DayKey,
			Course: course,
		})
		s.open[course] = idx
	}
	s.records[idx].Rows = append(s.records[idx].Rows, row.Content)
	s.last = idx

	return s, nil
}

// Normalize reshapes source rows into per-day, per-course records in source order.
//
// A row with an empty course cell continues the most recently touched record of the
// same day, whatever its course. Rows of a course that already has a record on the
// current day are appended to that record. A continuation row without a record to
// continue results in a *MalformedTableError.
func Normalize(rows []SourceRow) ([]RawDayRecord, error) {
	state := newNormalizeState()
	var err error
	for i, row := range rows {
		state, err = state.step(i, row)
		if err != nil {
			return nil, err
		}
	}
	if state.records == nil {
		return []RawDayRecord{}, nil
	}
	return state.records, nil
}
