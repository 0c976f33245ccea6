package teachers

import (
	"dsbplan-backend/internal/components/telemetry"
	"dsbplan-backend/internal/plan"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testDocument(t *testing.T) plan.Document {
	t.Helper()
	records := []plan.RawDayRecord{
		{DayKey: "Donnerstag, 13.03.2025", Course: "10a", Rows: []plan.ContentRow{
			{Position: "4.", Teacher: "X", Subject: "D", Room: "103"},
			{Position: "5.", Teacher: "Y", Subject: "(Ek)", Room: "103"},
		}},
		{DayKey: "Donnerstag, 13.03.2025", Course: "MSS13", Rows: []plan.ContentRow{
			{Position: "1.", Teacher: "+Me (Mi)", Subject: "M", Room: "204"},
		}},
		{DayKey: "Freitag, 14.03.2025", Course: "10a", Rows: []plan.ContentRow{
			{Position: "2.", Teacher: "Bal, Stü", Subject: "Inf", Room: "PC1"},
		}},
	}
	doc, err := plan.Aggregate(records, time.Date(2025, time.March, 13, 7, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return doc
}

func teachersOf(doc *plan.Document) []string {
	var out []string
	doc.EachRow(func(_ string, row *plan.ContentRow) {
		out = append(out, row.Teacher)
	})
	return out
}

func TestSubstituteTeachers(t *testing.T) {
	doc := testDocument(t)
	rec := telemetry.NewRecorder()

	changes := SubstituteTeachers(&doc, testTeachers, rec)
	require.Equal(t, 3, changes)
	require.Equal(t, []string{"Ms. Example", "Y", "Ballmann, Stüber", "+Meyer (Miller)"}, teachersOf(&doc))

	// subjects are not touched unless asked for
	tenth, _ := doc.Courses.Get("10a")
	require.Equal(t, "D", tenth.Substitution[0].Content[0].Subject)

	counts := rec.Find("count", report_pass_changes)
	require.Len(t, counts, 1)
	require.Equal(t, []any{int64(3)}, counts[0].Params)
}

func TestSubstituteTeachersIdempotent(t *testing.T) {
	once := testDocument(t)
	SubstituteTeachers(&once, testTeachers, telemetry.NewRecorder())

	twice := testDocument(t)
	SubstituteTeachers(&twice, testTeachers, telemetry.NewRecorder())
	changes := SubstituteTeachers(&twice, testTeachers, telemetry.NewRecorder())
	require.Equal(t, 0, changes)

	diff := cmp.Diff(once, twice, cmp.AllowUnexported(plan.Courses{}))
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestPassKeepsStructure(t *testing.T) {
	before := testDocument(t)
	after := testDocument(t)
	NewPass(testTeachers, telemetry.NewRecorder()).WithSubjects(DefaultSubjects).Apply(&after)

	require.Equal(t, before.Courses.Names(), after.Courses.Names())
	for _, name := range before.Courses.Names() {
		b, _ := before.Courses.Get(name)
		a, _ := after.Courses.Get(name)
		require.Len(t, a.Substitution, len(b.Substitution))
		for i := range b.Substitution {
			require.Equal(t, b.Substitution[i].ID, a.Substitution[i].ID)
			require.Equal(t, b.Substitution[i].Date, a.Substitution[i].Date)
			require.Len(t, a.Substitution[i].Content, len(b.Substitution[i].Content))
		}
	}
}

func TestPassSubjects(t *testing.T) {
	doc := testDocument(t)
	stats := NewPass(testTeachers, telemetry.NewRecorder()).WithSubjects(DefaultSubjects).Apply(&doc)
	require.Equal(t, 3, stats.TeacherChanges)
	require.Equal(t, 3, stats.SubjectChanges)

	var subjects []string
	doc.EachRow(func(_ string, row *plan.ContentRow) {
		subjects = append(subjects, row.Subject)
	})
	// MSS13 keeps its subject codes
	require.Equal(t, []string{"Deutsch", "(Erdkunde)", "Informatik", "M"}, subjects)
}

func TestSubstituteTeachersIdempotentWithDecoratedNames(t *testing.T) {
	directory := NewDirectory(map[string]string{
		"X":  "Müller (Me)",
		"Me": "Meyer",
	})

	once := testDocument(t)
	SubstituteTeachers(&once, directory, telemetry.NewRecorder())
	require.Equal(t, []string{"Müller (Me)", "Y", "Bal, Stü", "+Meyer (Mi)"}, teachersOf(&once))

	twice := testDocument(t)
	SubstituteTeachers(&twice, directory, telemetry.NewRecorder())
	changes := SubstituteTeachers(&twice, directory, telemetry.NewRecorder())
	require.Equal(t, 0, changes)

	if diff := cmp.Diff(once, twice, cmp.AllowUnexported(plan.Courses{})); diff != "" {
		t.Fatal(diff)
	}
}
