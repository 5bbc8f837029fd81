// Package batch runs every repository of a batch file in order and stops at the first fatal error.
package batch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/gitbatch/internal/config"
	ferrors "git.home.luguber.info/inful/gitbatch/internal/foundation/errors"
	"git.home.luguber.info/inful/gitbatch/internal/logfields"
	"git.home.luguber.info/inful/gitbatch/internal/manifest"
	"git.home.luguber.info/inful/gitbatch/internal/materialize"
	"git.home.luguber.info/inful/gitbatch/internal/metrics"
	"git.home.luguber.info/inful/gitbatch/internal/report"
	"git.home.luguber.info/inful/gitbatch/internal/version"
)

// Materializer is the per-repository pipeline.
type Materializer interface {
	Materialize(ctx context.Context, spec manifest.Spec) (materialize.Outcome, error)
}

// Runner wires configuration, parsing and materialization.
type Runner struct {
	cfg          *config.Config
	parser       *manifest.Parser
	materializer Materializer
	logger       *slog.Logger
	recorder     metrics.Recorder
	now          func() time.Time
}

// NewRunner creates a Runner. Nil logger and recorder fall back to defaults.
func NewRunner(cfg *config.Config, m Materializer, logger *slog.Logger, recorder metrics.Recorder) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Runner{
		cfg:          cfg,
		parser:       manifest.NewParser(cfg.DefaultBranch, logger),
		materializer: m,
		logger:       logger,
		recorder:     recorder,
		now:          time.Now,
	}
}

// Run parses the batch file and materializes every spec in file order.
// Parsing completes before any clone starts. The returned report is never
// nil, even when err is set.
func (r *Runner) Run(ctx context.Context) (*report.Report, error) {
	start := r.now()
	runID := uuid.NewString()
	logger := r.logger.With(logfields.RunID(runID))
	rep := report.New(runID, r.cfg.InputFile, start)
	rep.Version = version.Resolved()

	err := r.run(ctx, logger, rep)

	status, outcome := report.StatusSuccess, metrics.RunSuccess
	switch {
	case err != nil && errors.Is(err, context.Canceled):
		status, outcome = report.StatusCanceled, metrics.RunCanceled
	case err != nil:
		status, outcome = report.StatusFailed, metrics.RunFailed
	}
	end := r.now()
	rep.Finish(status, reportError(err), end)
	r.recorder.ObserveRunDuration(end.Sub(start))
	r.recorder.IncRunOutcome(outcome)

	counts := rep.Counts()
	logger.Info("Batch finished",
		slog.String("status", status),
		slog.Int("done", counts[string(metrics.OutcomeDone)]),
		slog.Int("skipped", counts[string(metrics.OutcomeSkipped)]),
		slog.Int("failed", counts[string(metrics.OutcomeFailed)]),
		logfields.DurationMS(float64(end.Sub(start).Milliseconds())))
	return rep, err
}

func (r *Runner) run(ctx context.Context, logger *slog.Logger, rep *report.Report) error {
	if data, err := os.ReadFile(r.cfg.InputFile); err == nil { // #nosec G304 -- configured batch file
		rep.InputHash = report.HashInput(data)
	}

	specs, err := r.parser.ParseFile(r.cfg.InputFile)
	if err != nil {
		return err
	}
	logger.Debug("Batch file parsed", logfields.Path(r.cfg.InputFile), slog.Int("repositories", len(specs)))

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return ferrors.RuntimeError("run interrupted").WithCause(err).Build()
		}
		logger.Info("Processing repository",
			logfields.Repository(spec.Name), logfields.URL(spec.URL), logfields.Branch(spec.Branch),
			logfields.Path(spec.Path), logfields.Dest(spec.DisplayDest()), logfields.Line(spec.Line))

		out, err := r.materializer.Materialize(ctx, spec)
		rep.Add(record(out))
		if err != nil {
			return err
		}
	}
	return nil
}

func record(out materialize.Outcome) report.Repository {
	return report.Repository{
		Line:     out.Spec.Line,
		Name:     out.Spec.Name,
		URL:      out.Spec.URL,
		Branch:   out.Spec.Branch,
		Path:     out.Spec.Path,
		Dest:     out.Spec.DisplayDest(),
		Outcome:  string(out.Label()),
		Reason:   out.Reason,
		Commit:   out.Commit,
		Attempts: out.Attempts,
		Duration: out.Duration.Milliseconds(),
	}
}

// reportError keeps the report free of internal wrapping noise.
func reportError(err error) error {
	if err == nil {
		return nil
	}
	if ce, ok := ferrors.AsClassified(err); ok {
		return errors.New(ce.Message())
	}
	return err
}
