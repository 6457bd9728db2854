package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/IO-n-A/quant-fin/internal/buildinfo"
	"github.com/IO-n-A/quant-fin/internal/log"
)

// EnvLogLevel sets the log level when --log-level is not given.
const EnvLogLevel = "INCOMEREPORT_LOG_LEVEL"

const defaultEnvFile = ".env"

type globalOptions struct {
	logLevel string
	logJSON  bool
	envFile  string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "incomereport",
		Short:   "Separate regular from irregular income in bank statement exports",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.loadEnvFile()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (default $"+EnvLogLevel+" or info)")
	rootCmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "emit logs as JSON")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", defaultEnvFile, "dotenv file with INCOMEREPORT_* overrides")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newReportCommand(opts))

	return rootCmd
}

// loadEnvFile exports the dotenv file into the process environment without
// overriding variables that are already set. A missing default file is fine.
func (o *globalOptions) loadEnvFile() error {
	if o.envFile == "" {
		return nil
	}
	err := godotenv.Load(o.envFile)
	if errors.Is(err, fs.ErrNotExist) && o.envFile == defaultEnvFile {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", o.envFile, err)
	}
	return nil
}

// newRunID tags one invocation across its log records and run log row.
func newRunID() string {
	return uuid.NewString()
}

// logger builds the run logger; every record carries runID.
func (o *globalOptions) logger(cmd *cobra.Command, runID string) (*log.Logger, error) {
	level := o.logLevel
	if level == "" {
		level = os.Getenv(EnvLogLevel)
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	cfg.Output = cmd.ErrOrStderr()
	cfg.JSON = o.logJSON
	l := log.New(cfg).With(log.FieldRunID, runID)
	log.SetDefault(l)
	return l, nil
}
