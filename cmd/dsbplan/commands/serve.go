package commands

import (
	"context"
	"dsbplan-backend/internal/apiserver"
	"dsbplan-backend/internal/components/chrono"
	"dsbplan-backend/pkg/serviceutil"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

// scheduledRunner runs the pipeline at most once at a time, a tick that arrives while a
// run is in progress is dropped.
type scheduledRunner struct {
	env    environment
	server apiserver.Server
	mutex  *sync.Mutex
}

func (r scheduledRunner) run(ctx context.Context) {
	if !r.mutex.TryLock() {
		slog.Warn("previous run is still in progress, skipping")
		return
	}
	defer r.mutex.Unlock()

	logger := slog.With("run", uuid.NewString())
	logger.Info("starting scheduled run")
	result, err := r.env.fetchAndRun(ctx)
	if err != nil {
		logger.Error("scheduled run failed", "err", err)
		return
	}
	if !result.Changed {
		logger.Info("no changes detected in raw data")
		return
	}
	if result.Validation != nil {
		renderViolations(os.Stderr, result.Validation)
	}
	r.server.Invalidate()
	logger.Info(
		"scheduled run complete",
		"courses", result.Document.Courses.Len(),
		"teachers", result.Stats.TeacherChanges,
	)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the pipeline on a schedule and serves the teacher-replaced document over HTTP.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig(cmd)
		env := setup(cfg, false)

		server := apiserver.NewServer(cfg.TeacherReplacedFile, apiserver.DefaultTTL, env.tel)
		runner := scheduledRunner{
			env:    env,
			server: server,
			mutex:  &sync.Mutex{},
		}

		cron := chrono.NewStandardCron(env.clock, env.tel)
		defer cron.Stop()
		err := cron.Cron(cfg.Cron, func() {
			runner.run(ctx)
		})
		if err != nil {
			serviceutil.Fatal("invalid cron spec", err)
		}
		go runner.run(ctx)

		slog.Info("serving", "cron", cfg.Cron, "now", env.clock.Now().Format(time.DateTime))
		serviceutil.StartHttpServer(ctx, cfg.Port, server.Handler())
	},
}
