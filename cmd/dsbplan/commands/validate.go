package commands

import (
	"dsbplan-backend/internal/schema"
	"dsbplan-backend/pkg/serviceutil"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [document.json]",
	Short: "Validates a document against the schema, defaults to the teacher-replaced file.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		path := cfg.TeacherReplacedFile
		if len(args) > 0 {
			path = args[0]
		}

		validator, err := schema.LoadOrDefault(cfg.SchemaFile)
		if err != nil {
			serviceutil.Fatal("failed to load schema", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			serviceutil.Fatal("failed to read document", err)
		}

		err = validator.ValidateJSON(data)
		if err != nil {
			renderViolations(os.Stdout, err)
			os.Exit(1)
		}
		fmt.Printf("%s is valid\n", path)
	},
}
