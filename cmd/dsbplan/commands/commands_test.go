package commands

import (
	"bytes"
	"dsbplan-backend/internal/plan"
	"dsbplan-backend/internal/schema"
	"dsbplan-backend/internal/teachers"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	directory := teachers.NewDirectory(map[string]string{
		"Bal": "Ballmann",
		"Stü": "Stüber",
		"Me":  "Meyer",
	})

	suggestions := suggest(directory, "Ball", 5)
	require.NotEmpty(t, suggestions)
	require.Equal(t, "Bal", suggestions[0].code)

	require.Empty(t, suggest(directory, "zzzzzz", 5))
	require.Len(t, suggest(directory, "Ballmann", 0), 0)
}

func TestRenderSummary(t *testing.T) {
	doc, err := plan.Aggregate([]plan.RawDayRecord{
		{DayKey: "13.03.2025 Donnerstag", Course: "10a", Rows: []plan.ContentRow{{Position: "1."}, {Position: "2."}}},
		{DayKey: "14.03.2025 Freitag", Course: "10a", Rows: []plan.ContentRow{{Position: "3."}}},
		{DayKey: "14.03.2025 Freitag", Course: "5b", Rows: []plan.ContentRow{{Position: "4."}}},
	}, time.Now())
	require.NoError(t, err)

	out := bytes.NewBuffer(nil)
	renderSummary(out, doc)
	require.Contains(t, out.String(), "10a")
	require.Contains(t, out.String(), "13-03-2025, 14-03-2025")
	require.Contains(t, out.String(), "5b")
}

func TestRenderViolations(t *testing.T) {
	out := bytes.NewBuffer(nil)
	renderViolations(out, &schema.SchemaValidationError{Violations: []schema.Violation{
		{Path: "/courses/10a/substitution/0/date", Message: "does not match pattern"},
	}})
	require.Contains(t, out.String(), "/courses/10a/substitution/0/date")
	require.Contains(t, out.String(), "does not match pattern")

	out.Reset()
	renderViolations(out, errors.New("parse document: unexpected end"))
	require.Equal(t, "parse document: unexpected end\n", out.String())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
		provider_url: "https://example.com/plan/index.htm",
		raw_file: "out/raw.json",
		strict: true
	}`), 0600))

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().AddFlagSet(rootCmd.PersistentFlags())
	require.NoError(t, cmd.Flags().Parse([]string{
		"--config", path,
		"--teacher-dict", "other/lehrer.json",
	}))

	cfg := loadConfig(cmd)
	require.Equal(t, "https://example.com/plan/index.htm", cfg.ProviderUrl)
	require.Equal(t, "out/raw.json", cfg.RawFile)
	require.Equal(t, "other/lehrer.json", cfg.TeacherDict)
	require.True(t, cfg.Strict)
	require.Equal(t, defaultConfig.FormattedFile, cfg.FormattedFile)
	require.Equal(t, 5555, cfg.Port)
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("DSBPLAN_PROVIDER_URL=https://example.com/env/index.htm\n"), 0600))
	t.Cleanup(func() { os.Unsetenv(providerUrlEnv) })

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().AddFlagSet(rootCmd.PersistentFlags())
	require.NoError(t, cmd.Flags().Parse([]string{
		"--config", filepath.Join(dir, "config.json5"),
		"--env-file", envPath,
	}))

	cfg := loadConfig(cmd)
	require.Equal(t, "https://example.com/env/index.htm", cfg.ProviderUrl)
	require.Equal(t, defaultConfig.RawFile, cfg.RawFile)
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, validateConfig(defaultConfig))

	cfg := defaultConfig
	cfg.Port = 0
	cfg.ProviderUrl = "not a url"
	cfg.RawFile = ""
	err := validateConfig(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Port")
	require.Contains(t, err.Error(), "ProviderUrl")
	require.Contains(t, err.Error(), "RawFile")
}
