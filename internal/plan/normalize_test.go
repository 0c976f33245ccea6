package plan

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const thursday = "Donnerstag, 13.03.2025"
const friday = "Freitag, 14.03.2025"

func row(day, course, position, teacher string) SourceRow {
	return SourceRow{
		DayKey: day,
		Course: course,
		Content: ContentRow{
			Position: position,
			Teacher:  teacher,
			Subject:  "D",
			Room:     "103",
		},
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name     string
		rows     []SourceRow
		expected []RawDayRecord
	}{
		{
			name: "continuation joins the previous course",
			rows: []SourceRow{
				row(thursday, "10a", "4.", "X"),
				row(thursday, "", "5.", "X"),
			},
			expected: []RawDayRecord{
				{DayKey: thursday, Course: "10a", Rows: []ContentRow{
					row("", "", "4.", "X").Content,
					row("", "", "5.", "X").Content,
				}},
			},
		},
		{
			name: "continuation follows recency, not course name",
			rows: []SourceRow{
				row(thursday, "10a", "1.", "A"),
				row(thursday, "5b", "2.", "B"),
				row(thursday, " ", "3.", "C"),
				row(thursday, "10a", "4.", "D"),
				row(thursday, " ", "5.", "E"),
			},
			expected: []RawDayRecord{
				{DayKey: thursday, Course: "10a", Rows: []ContentRow{
					row("", "", "1.", "A").Content,
					row("", "", "4.", "D").Content,
					row("", "", "5.", "E").Content,
				}},
				{DayKey: thursday, Course: "5b", Rows: []ContentRow{
					row("", "", "2.", "B").Content,
					row("", "", "3.", "C").Content,
				}},
			},
		},
		{
			name: "day boundary starts new records",
			rows: []SourceRow{
				row(thursday, "10a", "1.", "A"),
				row(friday, "10a", "2.", "B"),
				row(friday, "", "3.", "C"),
				row(friday, "MSS13", "4.", "D"),
			},
			expected: []RawDayRecord{
				{DayKey: thursday, Course: "10a", Rows: []ContentRow{
					row("", "", "1.", "A").Content,
				}},
				{DayKey: friday, Course: "10a", Rows: []ContentRow{
					row("", "", "2.", "B").Content,
					row("", "", "3.", "C").Content,
				}},
				{DayKey: friday, Course: "MSS13", Rows: []ContentRow{
					row("", "", "4.", "D").Content,
				}},
			},
		},
		{
			name:     "empty table",
			rows:     nil,
			expected: []RawDayRecord{},
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			records, err := Normalize(test.rows)
			require.NoError(t, err)
			if diff := cmp.Diff(test.expected, records); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestNormalizeMalformed(t *testing.T) {
	cases := []struct {
		name  string
		rows  []SourceRow
		index int
	}{
		{
			name:  "continuation first",
			rows:  []SourceRow{row(thursday, "", "1.", "A")},
			index: 0,
		},
		{
			name: "continuation right after a day boundary",
			rows: []SourceRow{
				row(thursday, "10a", "1.", "A"),
				row(friday, "", "2.", "B"),
			},
			index: 1,
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			records, err := Normalize(test.rows)
			require.Nil(t, records)

			var malformed *MalformedTableError
			require.True(t, errors.As(err, &malformed))
			require.Equal(t, test.index, malformed.Index)
			require.Equal(t, test.rows[test.index].DayKey, malformed.DayKey)
		})
	}
}

func TestNormalizeKeepsEveryRowOnce(t *testing.T) {
	rows := []SourceRow{
		row(thursday, "10a", "1.", "r0"),
		row(thursday, "", "2.", "r1"),
		row(thursday, "5b", "3.", "r2"),
		row(thursday, "10a", "4.", "r3"),
		row(thursday, "", "5.", "r4"),
		row(friday, "5b", "1.", "r5"),
		row(friday, "", "2.", "r6"),
		row(friday, "", "3.", "r7"),
		row(thursday, "10a", "6.", "r8"),
	}

	records, err := Normalize(rows)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, record := range records {
		for _, r := range record.Rows {
			seen[r.Teacher]++
		}
	}
	require.Len(t, seen, len(rows))
	for teacher, n := range seen {
		require.Equal(t, 1, n, "row %s", teacher)
	}

	// thursday appears again after friday, that is a new section of the table
	require.Len(t, records, 4)
	require.Equal(t, thursday, records[3].DayKey)
	require.Equal(t, "10a", records[3].Course)
}
