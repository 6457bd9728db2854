package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/IO-n-A/quant-fin/internal/aggregate"
	"github.com/IO-n-A/quant-fin/internal/archive"
	"github.com/IO-n-A/quant-fin/internal/config"
	"github.com/IO-n-A/quant-fin/internal/log"
	"github.com/IO-n-A/quant-fin/internal/pipeline"
	"github.com/IO-n-A/quant-fin/internal/report"
	"github.com/IO-n-A/quant-fin/internal/statement"
	"github.com/IO-n-A/quant-fin/internal/summary"
)

// NoIncomingMessage is printed when no statement holds a credit.
const NoIncomingMessage = "No incoming transactions found."

type reportOptions struct {
	configPath string
	dir        string
	format     string
	out        string
	archiveDir string
	eps        float64
	minSamples int
	delimiter  string
	workers    int
}

func newReportCommand(global *globalOptions) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report [statement.csv ...]",
		Short: "Classify incoming payments and print the income report",
		Long: `Reads the given statement exports (or every CSV in --dir, or the sources
declared in incomereport.yaml), keeps the incoming payments, clusters them by
amount and day of month, and reports regular and irregular income.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, global, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "config file (default ./"+config.FileName+" when present)")
	f.StringVar(&opts.dir, "dir", "", "directory of statement CSV files")
	f.StringVar(&opts.format, "format", "", "report format: text, rtf or xlsx")
	f.StringVar(&opts.out, "out", "", "write the report to this file instead of stdout")
	f.StringVar(&opts.archiveDir, "archive", "", "also write the CSV archive files to this directory")
	f.Float64Var(&opts.eps, "eps", 0, "DBSCAN neighborhood radius on standardized features")
	f.IntVar(&opts.minSamples, "min-samples", 0, "DBSCAN minimum neighborhood size")
	f.StringVar(&opts.delimiter, "delimiter", "", "field delimiter for the given files")
	f.IntVar(&opts.workers, "workers", 0, "number of statements parsed in parallel")

	return cmd
}

func runReport(cmd *cobra.Command, global *globalOptions, opts *reportOptions, args []string) error {
	cfg, baseDir, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}
	opts.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	sources, err := opts.sources(cfg, baseDir, args)
	if err != nil {
		return err
	}

	runID := newRunID()
	logger, err := global.logger(cmd, runID)
	if err != nil {
		return err
	}
	logger.Debug("starting report", log.FieldCount, len(sources), "format", cfg.Output.Format)

	rep, err := pipeline.Run(cmd.Context(), cfg, sources, logger)
	if errors.Is(err, aggregate.ErrNoIncoming) {
		fmt.Fprintln(cmd.OutOrStdout(), NoIncomingMessage)
		return nil
	}
	if err != nil {
		return err
	}

	if err := writeReport(cmd, cfg.Output, rep); err != nil {
		return err
	}

	if cfg.Output.ArchiveDir != "" {
		if err := archive.WriteDir(cfg.Output.ArchiveDir, rep); err != nil {
			return fmt.Errorf("writing archive: %w", err)
		}
		entry := archive.NewRunEntry(runID, len(sources), rep, time.Now())
		if err := archive.AppendRun(cfg.Output.ArchiveDir, entry); err != nil {
			return fmt.Errorf("writing run log: %w", err)
		}
		logger.WithComponent(log.ComponentReport).Info("archive written", log.FieldPath, cfg.Output.ArchiveDir)
	}
	return nil
}

// loadConfig reads the explicit config file, or ./incomereport.yaml when it
// exists, or falls back to defaults. baseDir anchors relative source paths.
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		if _, err := os.Stat(config.FileName); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), ".", nil
		}
		path = config.FileName
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	base := filepath.Dir(path)
	cfg.Output.Path = relativeTo(base, cfg.Output.Path)
	cfg.Output.ArchiveDir = relativeTo(base, cfg.Output.ArchiveDir)
	return cfg, base, nil
}

func relativeTo(base, path string) string {
	if path == "" || path == "-" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// apply copies explicitly set flags over the config.
func (o *reportOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("format") {
		cfg.Output.Format = o.format
	}
	if f.Changed("out") {
		cfg.Output.Path = o.out
	}
	if f.Changed("archive") {
		cfg.Output.ArchiveDir = o.archiveDir
	}
	if f.Changed("eps") {
		cfg.Clustering.Epsilon = o.eps
	}
	if f.Changed("min-samples") {
		cfg.Clustering.MinSamples = o.minSamples
	}
	if f.Changed("workers") {
		cfg.Workers = o.workers
	}
}

// sources picks the statements to read: positional files first, then
// --dir, then the configured sources, then the import directory next to
// the config file.
func (o *reportOptions) sources(cfg *config.Config, baseDir string, args []string) ([]config.Source, error) {
	var sources []config.Source
	switch {
	case len(args) > 0:
		for _, a := range args {
			sources = append(sources, statement.SourceForFile(a))
		}
		o.overrideDelimiter(sources)
	case o.dir != "":
		found, err := statement.Scan(o.dir)
		if err != nil {
			return nil, err
		}
		sources = found
		o.overrideDelimiter(sources)
	case len(cfg.Sources) > 0:
		for _, src := range cfg.Sources {
			src.Path = relativeTo(baseDir, src.Path)
			sources = append(sources, src)
		}
	default:
		importDir := filepath.Join(baseDir, ImportDir)
		found, err := statement.Scan(importDir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		sources = found
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no statements to read: pass CSV files, --dir, or declare sources in %s", config.FileName)
	}
	return sources, nil
}

func (o *reportOptions) overrideDelimiter(sources []config.Source) {
	if o.delimiter == "" {
		return
	}
	for i := range sources {
		sources[i].Delimiter = o.delimiter
	}
}

func writeReport(cmd *cobra.Command, out config.Output, rep *summary.Report) error {
	r, err := report.ForFormat(out.Format)
	if err != nil {
		return err
	}

	path := out.Path
	if path == "" && out.Format == "xlsx" {
		path = "income_report" + report.Extension(out.Format)
	}
	if path == "" || path == "-" {
		return r.Render(cmd.OutOrStdout(), rep)
	}

	if err := writeFile(path, func(w io.Writer) error { return r.Render(w, rep) }); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
