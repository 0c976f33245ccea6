package plan

import (
	"time"
)

// ContentRow is one substitution line, one period of one course.
type ContentRow struct {
	// Position is the period ("4."), a break marker ("MiPau") or free text.
	Position string `json:"position"`
	Teacher  string `json:"teacher"`
	Subject  string `json:"subject"`
	Room     string `json:"room"`
	Topic    string `json:"topic"`
	Info     string `json:"info"`
}

// SourceRow is a single row of the provider's table, in table order.
type SourceRow struct {
	DayKey string
	// Course is the leading cell, empty for continuation rows.
	Course  string
	Content ContentRow
}

// RawDayRecord holds the rows of one course on one day, as they appeared in the table.
type RawDayRecord struct {
	DayKey string       `json:"dayKey"`
	Course string       `json:"course"`
	Rows   []ContentRow `json:"rows"`
}

type SubstitutionDay struct {
	// ID is sequential per course, starting at "1".
	ID      string       `json:"id"`
	Date    string       `json:"date"`
	WeekDay []string     `json:"weekDay"`
	Content []ContentRow `json:"content"`
}

type Course struct {
	Substitution []SubstitutionDay `json:"substitution"`
}

// Document is the multi-course document that is persisted and served.
type Document struct {
	CreatedAt time.Time `json:"createdAt"`
	Courses   Courses   `json:"courses"`
}

// EachRow calls fn with a pointer to every content row of the document, in order.
func (d *Document) EachRow(fn func(course string, row *ContentRow)) {
	for _, name := range d.Courses.names {
		course := d.Courses.byName[name]
		for i := range course.Substitution {
			content := course.Substitution[i].Content
			for j := range content {
				fn(name, &content[j])
			}
		}
	}
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{CreatedAt: d.CreatedAt}
	for _, name := range d.Courses.names {
		src := d.Courses.byName[name]
		course := out.Courses.getOrAdd(name)
		for _, day := range src.Substitution {
			day.WeekDay = cloneSlice(day.WeekDay)
			day.Content = cloneSlice(day.Content)
			course.Substitution = append(course.Substitution, day)
		}
	}
	return out
}

// cloneSlice copies s, keeping nil and empty apart so the JSON form stays the same.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
