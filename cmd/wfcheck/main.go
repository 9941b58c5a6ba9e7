package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wfcheck/internal/config"
	"wfcheck/internal/core"
	"wfcheck/internal/logging"
	"wfcheck/internal/metrics"
	"wfcheck/internal/output"
	"wfcheck/internal/storage"
	"wfcheck/pkg/utils"
)

const usageLine = "Usage: wfcheck <workflow-file1> [workflow-file2] ..."

var (
	// errFailed means at least one document failed; the details are already printed
	errFailed = errors.New("validation failed")
	errUsage  = errors.New("no workflow files given")
)

// app carries flags and the state built from them
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfgFile   string
	format    string
	workers   int
	reportDir string
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger zerolog.Logger
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit status
func execute(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		switch {
		case errors.Is(err, errFailed):
		case errors.Is(err, errUsage):
			fmt.Fprintln(stderr, usageLine)
		default:
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wfcheck <workflow-file1> [workflow-file2] ...",
		Short: "Structural validator for CI workflow files",
		Long: `wfcheck checks CI workflow definitions for structural defects and
reports every problem it finds in one pass.

Checks:
  - name, on (triggers) and jobs are present and not empty
  - trigger configurations are not empty (warning)
  - every job is a mapping with runs-on and a non-empty steps list

Directories are expanded to the *.yml and *.yaml files they contain.
Exit status is 1 when any file cannot be read, does not parse, or has an
error finding. Warnings never change the exit status.

A file named like a subcommand (watch, submit) is read as that subcommand.
Put it after "--" or give it a path prefix such as ./watch.

Examples:
  wfcheck .github/workflows
  wfcheck ci.yml release.yml --format json
  wfcheck -- watch`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runCheck,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file path")
	flags.StringVar(&a.format, "format", "text", "output format: text or json")
	flags.IntVarP(&a.workers, "workers", "w", 4, "documents validated in parallel")
	flags.StringVar(&a.reportDir, "report-dir", "", "save a JSON summary of the run in this directory")
	flags.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "console", "log format: json or console")

	root.AddCommand(a.watchCmd(), a.submitCmd())
	return root
}

// setup loads configuration, lets explicit flags override it and builds the logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFallback(a.cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Runner.Format = a.format
	}
	if flags.Changed("workers") {
		cfg.Runner.Workers = a.workers
	}
	if flags.Changed("report-dir") {
		cfg.Runner.ReportDir = a.reportDir
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.New(cfg.Logging.Level, cfg.Logging.Format, a.stderr)
	return nil
}

func (a *app) newRunner() *core.Runner {
	m := metrics.New(prometheus.NewRegistry())
	return core.NewRunner(a.cfg.Runner.Workers, m, a.logger)
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	printer, err := output.New(a.cfg.Runner.Format, a.stdout)
	if err != nil {
		return err
	}

	started := time.Now()
	files := core.Discover(args)
	results := a.newRunner().Run(cmd.Context(), files)
	if err := printer.Print(results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	a.logger.Debug().Int("files", len(results)).Int("failed", failed).Dur("took", time.Since(started)).Msg("run finished")

	if a.cfg.Runner.ReportDir != "" {
		if err := a.saveReport(started, results, failed); err != nil {
			a.logger.Warn().Err(err).Msg("cannot save run summary")
		}
	}

	if failed > 0 {
		return errFailed
	}
	return nil
}

type runSummary struct {
	RunID     string              `json:"run_id"`
	StartedAt time.Time           `json:"started_at"`
	Files     int                 `json:"files"`
	Failed    int                 `json:"failed"`
	Results   []output.JSONResult `json:"results"`
}

func (a *app) saveReport(started time.Time, results []core.Result, failed int) error {
	summary := runSummary{
		RunID:     uuid.NewString(),
		StartedAt: started.UTC(),
		Files:     len(results),
		Failed:    failed,
	}
	for _, r := range results {
		summary.Results = append(summary.Results, output.ToJSON(r))
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}

	path, err := storage.NewReportStorage(a.cfg.Runner.ReportDir).SaveReport(summary.RunID, data)
	if err != nil {
		return err
	}
	digest, err := utils.HashFile(path)
	if err != nil {
		return fmt.Errorf("hash run summary: %w", err)
	}
	a.logger.Info().Str("path", path).Str("sha256", digest).Str("run_id", summary.RunID).Msg("run summary saved")
	return nil
}
