package pipeline

import (
	"context"
	"dsbplan-backend/internal/components/assert"
	"dsbplan-backend/internal/components/chrono"
	"dsbplan-backend/internal/components/telemetry"
	"dsbplan-backend/internal/plan"
	"dsbplan-backend/internal/schema"
	"dsbplan-backend/internal/store"
	"dsbplan-backend/internal/teachers"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("dsbplan.internal.pipeline")

const (
	report_pipeline_unchanged   = "pipeline.unchanged"
	report_pipeline_decode_day  = "pipeline.decode-day"
	report_pipeline_validate    = "pipeline.validate"
	report_pipeline_write       = "pipeline.write"
	report_pipeline_raw_records = "pipeline.raw-records"
)

// Options are the output settings of a run, an empty path disables that output.
type Options struct {
	RawFile             string
	FormattedFile       string
	TeacherReplacedFile string
	// Strict makes a validation failure fatal, no file is written then.
	Strict bool
	// Force runs the whole pipeline even when the raw records did not change.
	Force bool
	// Subjects also replaces subject abbreviations.
	Subjects bool
}

type Pipeline struct {
	opts      Options
	pass      teachers.Pass
	validator schema.Validator
	clock     chrono.API
	tel       telemetry.API
	// out receives the raw records when set.
	out io.Writer
}

func New(
	opts Options,
	directory teachers.Directory,
	validator schema.Validator,
	clock chrono.API,
	tel telemetry.API,
	out io.Writer,
) Pipeline {
	assert.NotNil(validator)
	assert.NotNil(clock)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("pipeline", tel)
	pass := teachers.NewPass(directory, tel)
	if opts.Subjects {
		pass = pass.WithSubjects(teachers.DefaultSubjects)
	}

	return Pipeline{
		opts:      opts,
		pass:      pass,
		validator: validator,
		clock:     clock,
		tel:       tel,
		out:       out,
	}
}

type Result struct {
	// Changed is false when the run stopped early because the raw records were unchanged.
	Changed bool
	// Formatted is the aggregated document before teacher substitution.
	Formatted plan.Document
	// Document is the final, substituted document.
	Document plan.Document
	Stats    teachers.Stats
	// DecodeErrors holds the joined *plan.DateDecodeError of the skipped days.
	DecodeErrors error
	// Validation is the *schema.SchemaValidationError of the final document, if any.
	Validation error
}

// Run normalizes the scraped rows and continues with RunRecords unless the records equal
// the saved raw file. The raw file is saved after RunRecords succeeded. A malformed table
// aborts the run before anything is written.
func (p Pipeline) Run(ctx context.Context, rows []plan.SourceRow) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	records, err := plan.Normalize(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "normalize")
		return Result{}, err
	}
	p.tel.ReportCount(report_pipeline_raw_records, int64(len(records)))
	span.SetAttributes(attribute.Int("records", len(records)))

	if p.out != nil {
		err = p.print(records)
		if err != nil {
			return Result{}, err
		}
	}

	if p.opts.RawFile == "" {
		return p.RunRecords(ctx, records)
	}

	changed, err := store.Differs(p.opts.RawFile, records)
	if err != nil {
		p.tel.ReportBroken(report_pipeline_write, err, p.opts.RawFile)
		return Result{}, fmt.Errorf("compare raw records: %w", err)
	}
	if !changed && !p.opts.Force {
		p.tel.ReportDebug(report_pipeline_unchanged, p.opts.RawFile)
		return Result{Changed: false}, nil
	}

	result, err := p.RunRecords(ctx, records)
	if err != nil {
		return result, err
	}

	// the raw file is only saved once the outputs derived from it are written, a failed
	// run is retried on the same records next time
	err = store.WriteJSON(p.opts.RawFile, records)
	if err != nil {
		p.tel.ReportBroken(report_pipeline_write, err, p.opts.RawFile)
		return result, fmt.Errorf("write raw records: %w", err)
	}
	return result, nil
}

func (p Pipeline) print(records []plan.RawDayRecord) error {
	encoder := json.NewEncoder(p.out)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

// RunRecords aggregates raw records into the formatted document, substitutes teachers
// and validates the result.
//
// Undecodable days are skipped and reported in Result.DecodeErrors. A validation failure
// is reported in Result.Validation and only returned as error in strict mode, in which
// case no output file is written.
func (p Pipeline) RunRecords(ctx context.Context, records []plan.RawDayRecord) (Result, error) {
	_, span := tracer.Start(ctx, "RunRecords")
	defer span.End()

	formatted, decodeErr := plan.Aggregate(records, p.clock.Now())
	if decodeErr != nil {
		for _, err := range unwrapJoined(decodeErr) {
			p.tel.ReportWarning(report_pipeline_decode_day, err)
		}
	}

	final := formatted.Clone()
	stats := p.pass.Apply(&final)

	result := Result{
		Changed:      true,
		Formatted:    formatted,
		Document:     final,
		Stats:        stats,
		DecodeErrors: decodeErr,
	}

	err := p.validator.Validate(final)
	if err != nil {
		result.Validation = err
		span.RecordError(err)
		p.tel.ReportBroken(report_pipeline_validate, err)
		if p.opts.Strict {
			span.SetStatus(codes.Error, "validate")
			return result, err
		}
	}

	err = p.write(p.opts.FormattedFile, formatted)
	if err != nil {
		return result, err
	}
	err = p.write(p.opts.TeacherReplacedFile, final)
	if err != nil {
		return result, err
	}

	span.SetAttributes(
		attribute.Int("courses", final.Courses.Len()),
		attribute.Int("teacher_changes", stats.TeacherChanges),
	)
	return result, nil
}

func (p Pipeline) write(path string, doc plan.Document) error {
	if path == "" {
		return nil
	}
	err := store.WriteJSON(path, doc)
	if err != nil {
		p.tel.ReportBroken(report_pipeline_write, err, path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func unwrapJoined(err error) []error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	return joined.Unwrap()
}

// IsValidationError reports whether err carries a schema violation list.
func IsValidationError(err error) bool {
	var validationErr *schema.SchemaValidationError
	return errors.As(err, &validationErr)
}
