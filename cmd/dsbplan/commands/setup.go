package commands

import (
	"dsbplan-backend/internal/components/chrono"
	"dsbplan-backend/internal/components/telemetry"
	"dsbplan-backend/internal/pipeline"
	"dsbplan-backend/internal/schema"
	"dsbplan-backend/internal/teachers"
	"dsbplan-backend/pkg/serviceutil"
	"io"
	"log/slog"
	"os"
)

type environment struct {
	cfg      Config
	tel      telemetry.API
	clock    chrono.API
	pipeline pipeline.Pipeline
}

// setup loads everything a run depends on, a missing teacher directory or schema is
// fatal before anything is fetched or written.
func setup(cfg Config, force bool) environment {
	tel := telemetry.SlogAPI{}

	clock, err := chrono.NewStandardImpl(cfg.Timezone)
	if err != nil {
		serviceutil.Fatal("failed to load timezone", err)
	}

	directory, err := teachers.LoadDirectory(cfg.TeacherDict, cfg.TeacherNameField)
	if err != nil {
		serviceutil.Fatal("failed to load teacher directory", err)
	}
	slog.Debug("loaded teacher directory", "path", cfg.TeacherDict, "teachers", directory.Len())

	validator, err := schema.New(cfg.SchemaFile, cfg.SkipValidator)
	if err != nil {
		serviceutil.Fatal("failed to load schema", err)
	}

	var out io.Writer
	if flags.printOutput {
		out = os.Stdout
	}
	opts := pipeline.Options{
		RawFile:             cfg.RawFile,
		FormattedFile:       cfg.FormattedFile,
		TeacherReplacedFile: cfg.TeacherReplacedFile,
		Strict:              cfg.Strict,
		Force:               force,
		Subjects:            cfg.Subjects,
	}

	return environment{
		cfg:      cfg,
		tel:      tel,
		clock:    clock,
		pipeline: pipeline.New(opts, directory, validator, clock, tel, out),
	}
}
