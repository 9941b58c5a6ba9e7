package core

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"wfcheck/internal/metrics"
	"wfcheck/pkg/utils"
)

// Result is the outcome of checking one file. Exactly one of ReadErr,
// ParseErr and Report is set.
type Result struct {
	File     string
	Digest   string // sha256 of the bytes that were validated
	Report   *Report
	ParseErr *ParseError
	ReadErr  error
	Took     time.Duration
}

// Failed reports whether the file should fail the run. Warnings alone never do.
func (r Result) Failed() bool {
	if r.ReadErr != nil || r.ParseErr != nil {
		return true
	}
	return r.Report == nil || !r.Report.Valid()
}

// Runner ties together file reading, validation, hashing and metrics
type Runner struct {
	Workers int
	Metrics *metrics.Collector
	Logger  zerolog.Logger

	readFile func(string) ([]byte, error)
}

func NewRunner(workers int, m *metrics.Collector, logger zerolog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		Workers:  workers,
		Metrics:  m,
		Logger:   logger,
		readFile: os.ReadFile,
	}
}

// Run checks every path and returns results in the order of paths.
// A failure on one file never stops the others. Once ctx is done no new
// file is started; the remaining ones carry ctx's error.
func (r *Runner) Run(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))

	var g errgroup.Group
	g.SetLimit(r.Workers)
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			results[i] = Result{File: path, ReadErr: err}
			continue
		}
		i, path := i, path
		g.Go(func() error {
			results[i] = r.CheckFile(path)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// CheckFile reads and validates a single file
func (r *Runner) CheckFile(path string) Result {
	data, err := r.readFile(path)
	if err != nil {
		r.Logger.Debug().Err(err).Str("file", path).Msg("cannot read document")
		r.Metrics.ObserveDocument(metrics.ResultReadError, 0)
		return Result{File: path, ReadErr: err}
	}
	return r.CheckBytes(path, data)
}

// CheckBytes validates data that was obtained elsewhere, file is only used
// to identify the document in the result
func (r *Runner) CheckBytes(file string, data []byte) Result {
	start := time.Now()
	res := Result{File: file, Digest: utils.HashBytes(data)}

	doc, err := ParseDocument(data)
	var report *Report
	if err == nil {
		report = ValidateDocument(doc)
	}
	res.Took = time.Since(start)

	var pe *ParseError
	if errors.As(err, &pe) {
		res.ParseErr = pe
		r.Metrics.ObserveDocument(metrics.ResultParseError, res.Took)
		r.Logger.Debug().Str("file", file).Str("error", pe.Error()).Msg("document failed to parse")
		return res
	}

	res.Report = report
	outcome := metrics.ResultValid
	if !report.Valid() {
		outcome = metrics.ResultInvalid
	}
	r.Metrics.ObserveDocument(outcome, res.Took)
	for _, f := range report.Findings() {
		r.Metrics.ObserveFinding(string(f.Severity), f.Rule)
	}

	triggers := doc.Triggers()
	r.Logger.Debug().
		Str("file", file).
		Str("digest", res.Digest).
		Stringer("trigger_shape", triggers.Shape).
		Strs("triggers", triggers.Names()).
		Int("errors", report.Errors()).
		Int("warnings", report.Warnings()).
		Dur("took", res.Took).
		Msg("document validated")
	return res
}
