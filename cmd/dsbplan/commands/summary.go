package commands

import (
	"dsbplan-backend/internal/pipeline"
	"dsbplan-backend/internal/plan"
	"dsbplan-backend/internal/schema"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

func renderSummary(w io.Writer, doc plan.Document) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Course", "Days", "Dates", "Rows"})

	totalDays, totalRows := 0, 0
	for _, name := range doc.Courses.Names() {
		course, _ := doc.Courses.Get(name)
		dates := make([]string, len(course.Substitution))
		rows := 0
		for i, day := range course.Substitution {
			dates[i] = day.Date
			rows += len(day.Content)
		}
		totalDays += len(course.Substitution)
		totalRows += rows
		t.AppendRow(table.Row{name, len(course.Substitution), strings.Join(dates, ", "), rows})
	}

	t.AppendFooter(table.Row{"Total", totalDays, "", totalRows})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// renderViolations prints the violation list of a *schema.SchemaValidationError, other
// errors are printed as is.
func renderViolations(w io.Writer, err error) {
	var validationErr *schema.SchemaValidationError
	if !errors.As(err, &validationErr) {
		io.WriteString(w, err.Error()+"\n")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Path", "Violation"})
	for _, v := range validationErr.Violations {
		t.AppendRow(table.Row{v.Path, v.Message})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// reportResult logs the outcome of a pipeline run.
func reportResult(w io.Writer, result pipeline.Result) {
	if !result.Changed {
		slog.Info("no changes detected in raw data")
		return
	}
	if result.DecodeErrors != nil {
		slog.Warn("skipped days with undecodable day keys", "err", result.DecodeErrors)
	}
	if result.Validation != nil {
		slog.Error("document does not match the schema")
		renderViolations(w, result.Validation)
	}
	slog.Info(
		"substituted codes",
		"teachers", result.Stats.TeacherChanges,
		"subjects", result.Stats.SubjectChanges,
	)
	renderSummary(w, result.Document)
}
