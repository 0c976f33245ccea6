package commands

import (
	"dsbplan-backend/internal/pipeline"
	"dsbplan-backend/internal/plan"
	"dsbplan-backend/internal/store"
	"dsbplan-backend/pkg/serviceutil"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(formatCmd)
}

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Runs the pipeline on a previously saved raw file without fetching.",
	Run: func(cmd *cobra.Command, args []string) {
		env := setup(loadConfig(cmd), true)

		records, err := store.ReadJSON[[]plan.RawDayRecord](env.cfg.RawFile)
		if err != nil {
			serviceutil.Fatal("failed to read raw file", err)
		}

		result, err := env.pipeline.RunRecords(cmd.Context(), records)
		if err != nil {
			if pipeline.IsValidationError(err) {
				renderViolations(os.Stderr, err)
			}
			serviceutil.Fatal("format failed", err)
		}
		reportResult(os.Stdout, result)
	},
}
