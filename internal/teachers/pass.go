package teachers

import (
	"dsbplan-backend/internal/components/telemetry"
	"dsbplan-backend/internal/plan"
	"strings"
)

const (
	report_pass_teacher = "pass.teacher"
	report_pass_subject = "pass.subject"
	report_pass_changes = "pass.changes"
)

type Stats struct {
	TeacherChanges int
	SubjectChanges int
}

// Pass rewrites codes in the content rows of a document. Structure, order and ids of
// the document are never touched.
type Pass struct {
	teachers Directory
	subjects *Directory
	tel      telemetry.API
}

func NewPass(teachers Directory, tel telemetry.API) Pass {
	return Pass{
		teachers: teachers,
		tel:      telemetry.NewScopedAPI("teachers", tel),
	}
}

// WithSubjects also replaces subject abbreviations, except in MSS courses.
func (p Pass) WithSubjects(subjects Directory) Pass {
	p.subjects = &subjects
	return p
}

func (p Pass) Apply(doc *plan.Document) Stats {
	var stats Stats
	doc.EachRow(func(course string, row *plan.ContentRow) {
		teacher, changed := p.teachers.ReplaceField(row.Teacher)
		if changed && teacher != row.Teacher {
			p.tel.ReportDebug(report_pass_teacher, row.Teacher, teacher)
			row.Teacher = teacher
			stats.TeacherChanges++
		}

		if p.subjects == nil || strings.HasPrefix(course, skipSubjectsPrefix) {
			return
		}
		subject, changed := p.subjects.ReplaceField(row.Subject)
		if changed && subject != row.Subject {
			p.tel.ReportDebug(report_pass_subject, row.Subject, subject)
			row.Subject = subject
			stats.SubjectChanges++
		}
	})
	p.tel.ReportCount(report_pass_changes, int64(stats.TeacherChanges+stats.SubjectChanges))
	return stats
}

// SubstituteTeachers replaces the teacher field of every row with its display name,
// rows with unknown teachers are left as is. It returns the number of changed rows.
func SubstituteTeachers(doc *plan.Document, directory Directory, tel telemetry.API) int {
	return NewPass(directory, tel).Apply(doc).TeacherChanges
}
