package commands

import (
	"context"
	"dsbplan-backend/internal/davinci"
	"dsbplan-backend/internal/pipeline"
	"dsbplan-backend/internal/plan"
	"dsbplan-backend/pkg/restyutil"
	"dsbplan-backend/pkg/serviceutil"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var runForce bool

func init() {
	runCmd.Flags().BoolVar(&runForce, "force", false, "Run the whole pipeline even if the raw data did not change.")
	rootCmd.AddCommand(runCmd)
}

// fetchAndRun fetches the plan and runs the pipeline on it. Days that could not be
// fetched are left out, a fetch that yields nothing at all is an error.
func (e environment) fetchAndRun(ctx context.Context) (pipeline.Result, error) {
	if e.cfg.ProviderUrl == "" {
		return pipeline.Result{}, errors.New("no provider url configured")
	}
	client, err := davinci.NewClient(e.cfg.ProviderUrl, e.tel)
	if err != nil {
		return pipeline.Result{}, err
	}
	if flags.dumpHttp != "" {
		output, err := restyutil.NewFilesystemOutput(flags.dumpHttp)
		if err != nil {
			return pipeline.Result{}, err
		}
		client = client.DumpTo(output)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	rows, err := client.FetchRows(ctx)
	if err != nil {
		if len(rows) == 0 {
			return pipeline.Result{}, err
		}
		slog.Warn("some days could not be fetched", "err", err)
	}

	return e.pipeline.Run(ctx, rows)
}

var runCmd = &cobra.Command{
	Use:   "run [--force]",
	Short: "Fetches the plan once and writes the raw, formatted and teacher-replaced files.",
	Run: func(cmd *cobra.Command, args []string) {
		env := setup(loadConfig(cmd), runForce)

		t1 := time.Now()
		result, err := env.fetchAndRun(cmd.Context())
		if err != nil {
			var malformed *plan.MalformedTableError
			if errors.As(err, &malformed) {
				serviceutil.Fatal("the plan table is malformed, nothing was written", err)
			}
			if pipeline.IsValidationError(err) {
				renderViolations(os.Stderr, err)
				serviceutil.Fatal("document does not match the schema, formatted files were not written", err)
			}
			serviceutil.Fatal("run failed", err)
		}
		reportResult(os.Stdout, result)

		slog.Info("run complete", "seconds", time.Since(t1).Seconds())
	},
}
