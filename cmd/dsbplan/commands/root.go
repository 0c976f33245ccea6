package commands

import (
	"context"
	"dsbplan-backend/internal/components/telemetry"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dsbplan",
	Short: "dsbplan scrapes the substitution plan and publishes it as course-grouped JSON.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(flags.verbose)
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
