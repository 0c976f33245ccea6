package commands

import (
	"dsbplan-backend/internal/teachers"
	"dsbplan-backend/pkg/configutil"
	"dsbplan-backend/pkg/serviceutil"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type Config struct {
	// ProviderUrl is the page of the DaVinci export that holds the day index.
	ProviderUrl         string `json:"provider_url" validate:"omitempty,http_url"`
	RawFile             string `json:"raw_file" validate:"required"`
	FormattedFile       string `json:"formatted_file" validate:"required"`
	TeacherDict         string `json:"teacher_dict" validate:"required"`
	TeacherNameField    string `json:"teacher_name_field"`
	TeacherReplacedFile string `json:"teacher_replaced_file" validate:"required"`
	SchemaFile          string `json:"schema_file"`
	SkipValidator       bool   `json:"skip_validator"`
	Strict              bool   `json:"strict"`
	Subjects            bool   `json:"subjects"`
	Cron                string `json:"cron" validate:"required"`
	Port                int    `json:"port" validate:"min=1,max=65535"`
	Timezone            string `json:"timezone" validate:"required"`
}

// providerUrlEnv overrides provider_url, it is usually set in the env file.
const providerUrlEnv = "DSBPLAN_PROVIDER_URL"

var defaultConfig = Config{
	RawFile:             "json/scraped.json",
	FormattedFile:       "json/formatted.json",
	TeacherDict:         "schema/lehrer.json",
	TeacherNameField:    teachers.DefaultNameField,
	TeacherReplacedFile: "json/teacher_replaced.json",
	SchemaFile:          "schema/schema.json",
	Cron:                "@every 2m",
	Port:                5555,
	Timezone:            "Europe/Berlin",
}

var flags struct {
	config  string
	envFile string
	verbose bool

	providerUrl         string
	rawFile             string
	formattedFile       string
	teacherDict         string
	teacherReplacedFile string
	schemaFile          string
	skipValidator       bool
	strict              bool
	subjects            bool
	printOutput         bool
	dumpHttp            string
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.config, "config", "config.json5", "The config file, config.local.json5 next to it overrides it.")
	pf.StringVar(&flags.envFile, "env-file", ".env", "Path to the .env file.")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging.")

	pf.StringVar(&flags.providerUrl, "provider-url", "", "The page of the plan that holds the day index.")
	pf.StringVar(&flags.rawFile, "raw-file", defaultConfig.RawFile, "Where to save the raw day-based data.")
	pf.StringVar(&flags.formattedFile, "output-formatted-file", defaultConfig.FormattedFile, "Where to save the formatted multi-course JSON.")
	pf.StringVar(&flags.teacherDict, "teacher-dict", defaultConfig.TeacherDict, "Path to the teacher dictionary file.")
	pf.StringVar(&flags.teacherReplacedFile, "teacher-replaced-file", defaultConfig.TeacherReplacedFile, "Where to save the teacher-replaced JSON.")
	pf.StringVar(&flags.schemaFile, "schema-file", defaultConfig.SchemaFile, "Path to the JSON schema file.")
	pf.BoolVar(&flags.skipValidator, "skip-validator", false, "Skip JSON schema validation.")
	pf.BoolVar(&flags.strict, "strict", false, "Fail without writing the formatted files when validation fails.")
	pf.BoolVar(&flags.subjects, "subjects", false, "Also replace subject abbreviations.")
	pf.BoolVarP(&flags.printOutput, "print-output", "p", false, "Print the raw day-based JSON output.")
	pf.StringVar(&flags.dumpHttp, "dump-http", "", "Write every provider request and response to this directory.")
}

// loadConfig reads the config file, then the environment, then the flags that were set
// explicitly, later sources win.
func loadConfig(cmd *cobra.Command) Config {
	cfg, err := configutil.ReadConfigOr(flags.config, defaultConfig)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	err = godotenv.Load(flags.envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		serviceutil.Fatal("failed to read env file", err)
	}
	if providerUrl := os.Getenv(providerUrlEnv); providerUrl != "" {
		cfg.ProviderUrl = providerUrl
	}

	set := cmd.Flags().Changed
	if set("provider-url") {
		cfg.ProviderUrl = flags.providerUrl
	}
	if set("raw-file") {
		cfg.RawFile = flags.rawFile
	}
	if set("output-formatted-file") {
		cfg.FormattedFile = flags.formattedFile
	}
	if set("teacher-dict") {
		cfg.TeacherDict = flags.teacherDict
	}
	if set("teacher-replaced-file") {
		cfg.TeacherReplacedFile = flags.teacherReplacedFile
	}
	if set("schema-file") {
		cfg.SchemaFile = flags.schemaFile
	}
	if set("skip-validator") {
		cfg.SkipValidator = flags.skipValidator
	}
	if set("strict") {
		cfg.Strict = flags.strict
	}
	if set("subjects") {
		cfg.Subjects = flags.subjects
	}

	err = validateConfig(cfg)
	if err != nil {
		serviceutil.Fatal("invalid config", err)
	}
	return cfg
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

func validateConfig(cfg Config) error {
	err := configValidator.Struct(cfg)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, len(fieldErrs))
	for i, fieldErr := range fieldErrs {
		messages[i] = fmt.Sprintf("%s: failed %q", fieldErr.Field(), fieldErr.Tag())
	}
	return errors.New(strings.Join(messages, ", "))
}
