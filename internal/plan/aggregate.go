package plan

import (
	"errors"
	"strconv"
	"time"
)

// carryPositions copies rows, rows without a position take the position of the row before.
func carryPositions(rows []ContentRow) []ContentRow {
	out := make([]ContentRow, len(rows))
	lastPosition := ""
	for i, row := range rows {
		if isEmptyCell(row.Position) {
			row.Position = lastPosition
		} else {
			lastPosition = row.Position
		}
		out[i] = row
	}
	return out
}

// Aggregate groups records by course into a Document created at createdAt.
//
// Days of a course keep the order of the records and get ids "1", "2", ... per course.
// Records with an undecodable day key are skipped, the document is still returned
// along with the joined *DateDecodeError of every skipped record.
func Aggregate(records []RawDayRecord, createdAt time.Time) (Document, error) {
	doc := Document{CreatedAt: createdAt}
	nextId := map[string]int{}

	var errList []error
	for _, record := range records {
		decoded, err := DecodeDayKey(record.DayKey)
		if err != nil {
			var decodeErr *DateDecodeError
			if errors.As(err, &decodeErr) {
				decodeErr.Course = record.Course
			}
			errList = append(errList, err)
			continue
		}

		nextId[record.Course]++
		course := doc.Courses.getOrAdd(record.Course)
		course.Substitution = append(course.Substitution, SubstitutionDay{
			ID:      strconv.Itoa(nextId[record.Course]),
			Date:    decoded.FormatDate(),
			WeekDay: decoded.WeekDays,
			Content: carryPositions(record.Rows),
		})
	}

	return doc, errors.Join(errList...)
}
