package chrono

import (
	"dsbplan-backend/internal/components/telemetry"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCronLogger(t *testing.T) {
	rec := telemetry.NewRecorder()
	logger := cronLogger{tel: rec}

	logger.Info("schedule", "entry", 1, "next", "soon")
	logger.Error(errors.New("boom"), "run job", "entry", 1)

	debug := rec.Find("debug", "cron: schedule")
	require.Len(t, debug, 1)
	require.Equal(t, []any{"entry: 1", "next: soon"}, debug[0].Params)

	broken := rec.Find("broken", "cron")
	require.Len(t, broken, 1)
	require.EqualError(t, broken[0].Params[0].(error), "run job: boom")
	require.Equal(t, "entry: 1", broken[0].Params[1])
}

func TestStandardCronRejectsBadSpec(t *testing.T) {
	clock := NewFixedImpl(time.Date(2025, time.March, 13, 8, 0, 0, 0, time.UTC))
	c := NewStandardCron(clock, telemetry.NewRecorder())
	defer c.Stop()

	require.Error(t, c.Cron("not a spec", func() {}))
	require.NoError(t, c.Cron("@every 2m", func() {}))
}
