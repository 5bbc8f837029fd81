// Package commands holds the gitbatch command line definition and wires the run together.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/gitbatch/internal/batch"
	"git.home.luguber.info/inful/gitbatch/internal/config"
	ferrors "git.home.luguber.info/inful/gitbatch/internal/foundation/errors"
	"git.home.luguber.info/inful/gitbatch/internal/git"
	"git.home.luguber.info/inful/gitbatch/internal/logfields"
	"git.home.luguber.info/inful/gitbatch/internal/logging"
	"git.home.luguber.info/inful/gitbatch/internal/materialize"
	"git.home.luguber.info/inful/gitbatch/internal/metrics"
	"git.home.luguber.info/inful/gitbatch/internal/retry"
)

// Description is shown at the top of --help.
const Description = "Clone single branch from all repositories listed in a file"

// CLI definition & global flags. There are no subcommands.
type CLI struct {
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`
	Verbose     int              `short:"v" type:"counter" help:"Increase log level (repeatable)"`
	Quiet       int              `short:"q" type:"counter" help:"Decrease log level (repeatable)"`
	LogFormat   string           `name:"log-format" placeholder:"text|json" help:"Log output format. Overrides GIT_BATCH_LOG_FORMAT."`
	Report      string           `name:"report" type:"path" help:"Write a YAML run report to this file. Overrides GIT_BATCH_REPORT_FILE."`
	MetricsFile string           `name:"metrics-file" type:"path" help:"Write Prometheus metrics in text format to this file. Overrides GIT_BATCH_METRICS_FILE."`

	level slog.Level
}

// AfterApply runs after flag parsing; it resolves the log level and installs
// a bootstrap logger until the configuration is known.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	c.level = logging.LevelFor(c.Verbose, c.Quiet)
	slog.SetDefault(logging.New(c.level, config.DefaultLogFormat, os.Stderr))
	return nil
}

// Execute runs the batch and returns the process exit code. Logs, including
// the final fatal message, go to stderr.
func (c *CLI) Execute(ctx context.Context, stderr io.Writer) int {
	c.level = logging.LevelFor(c.Verbose, c.Quiet)
	bootstrap := logging.New(c.level, config.DefaultLogFormat, stderr)

	cfg, err := config.Load(ctx)
	if err == nil {
		err = c.applyOverrides(cfg)
	}
	if err != nil {
		return ferrors.NewCLIErrorAdapter(c.verbose(), bootstrap).Report(err, nil)
	}

	logger := logging.New(c.level, cfg.LogFormat, stderr)
	slog.SetDefault(logger)
	adapter := ferrors.NewCLIErrorAdapter(c.verbose(), logger)
	return adapter.Report(c.run(ctx, cfg, logger, stderr), nil)
}

func (c *CLI) verbose() bool { return c.level <= slog.LevelDebug }

// applyOverrides lets flags win over the environment.
func (c *CLI) applyOverrides(cfg *config.Config) error {
	if c.LogFormat != "" {
		cfg.LogFormat = config.NormalizeLogFormat(c.LogFormat)
	}
	if c.Report != "" {
		cfg.ReportFile = c.Report
	}
	if c.MetricsFile != "" {
		cfg.MetricsFile = c.MetricsFile
	}
	return cfg.Validate()
}

func (c *CLI) run(ctx context.Context, cfg *config.Config, logger *slog.Logger, stderr io.Writer) error {
	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		prom     *metrics.PrometheusRecorder
	)
	if cfg.MetricsFile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		recorder = prom
	}

	opts := []git.Option{git.WithRetryPolicy(retry.FromConfig(cfg))}
	if c.verbose() {
		opts = append(opts, git.WithProgress(stderr))
	}
	client := git.NewClient(logger, opts...)
	runner := batch.NewRunner(cfg, materialize.New(cfg, client, logger, recorder), logger, recorder)

	logger.Debug("Starting batch",
		logfields.Path(cfg.InputFile),
		slog.Bool("ignore_existing", cfg.IgnoreExisting),
		slog.Bool("ignore_missing", cfg.IgnoreMissing),
		slog.String("level", logging.LevelName(c.level)))

	rep, runErr := runner.Run(ctx)

	var outputs []error
	if cfg.ReportFile != "" {
		if err := rep.WriteFile(cfg.ReportFile); err != nil {
			outputs = append(outputs, err)
		}
	}
	if prom != nil {
		if err := prom.WriteTextfile(cfg.MetricsFile); err != nil {
			outputs = append(outputs, err)
		}
	}
	for _, err := range outputs {
		logger.Warn("Failed to write run output", logfields.Error(err))
	}
	if runErr == nil && len(outputs) > 0 {
		return ferrors.FileSystemError("failed to write run output").WithCause(outputs[0]).Build()
	}
	return runErr
}
