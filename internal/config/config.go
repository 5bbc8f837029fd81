// Package config builds the process-wide run configuration from the environment.
// It is constructed once at startup and treated as read-only afterwards.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"

	ferrors "git.home.luguber.info/inful/gitbatch/internal/foundation/errors"
	"git.home.luguber.info/inful/gitbatch/internal/pathutil"
)

// Default values applied when the corresponding variable is unset.
const (
	DefaultInputFile     = ".batchfile"
	DefaultBranch        = "main"
	DefaultLogFormat     = LogFormatText
	DefaultRetryBackoff  = RetryBackoffLinear
	EnvInputFile         = "GIT_BATCH_INPUT_FILE"
	EnvIgnoreExisting    = "GIT_BATCH_IGNORE_EXISTING_REPO"
	EnvIgnoreMissing     = "GIT_BATCH_IGNORE_MISSING_REMOTE"
	EnvDefaultBranch     = "GIT_BATCH_DEFAULT_BRANCH"
	EnvLogFormat         = "GIT_BATCH_LOG_FORMAT"
	EnvCloneRetries      = "GIT_BATCH_CLONE_RETRIES"
	EnvCloneRetryBackoff = "GIT_BATCH_CLONE_RETRY_BACKOFF"
	EnvReportFile        = "GIT_BATCH_REPORT_FILE"
	EnvMetricsFile       = "GIT_BATCH_METRICS_FILE"
)

// Config is the run configuration.
type Config struct {
	InputFile      string // absolute path of the manifest
	DefaultBranch  string
	IgnoreExisting bool
	IgnoreMissing  bool
	LogFormat      string
	CloneRetries   int
	RetryBackoff   RetryBackoffMode
	ReportFile     string // absolute; empty disables the run report
	MetricsFile    string // absolute; empty disables the metrics textfile
}

type envSpec struct {
	InputFile      string `env:"GIT_BATCH_INPUT_FILE, default=.batchfile"`
	DefaultBranch  string `env:"GIT_BATCH_DEFAULT_BRANCH, default=main"`
	IgnoreExisting Bool   `env:"GIT_BATCH_IGNORE_EXISTING_REPO, default=true"`
	IgnoreMissing  Bool   `env:"GIT_BATCH_IGNORE_MISSING_REMOTE, default=true"`
	LogFormat      string `env:"GIT_BATCH_LOG_FORMAT, default=text"`
	CloneRetries   int    `env:"GIT_BATCH_CLONE_RETRIES, default=0"`
	RetryBackoff   string `env:"GIT_BATCH_CLONE_RETRY_BACKOFF, default=linear"`
	ReportFile     string `env:"GIT_BATCH_REPORT_FILE"`
	MetricsFile    string `env:"GIT_BATCH_METRICS_FILE"`
}

// Load reads .env files from the working directory and then decodes the process environment.
func Load(ctx context.Context) (*Config, error) {
	if _, err := loadEnvFile(); err != nil {
		return nil, ferrors.ConfigError("failed to load environment file").WithCause(err).Build()
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith decodes the configuration from the given lookuper without touching .env files.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var spec envSpec
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &spec, Lookuper: lookuper}); err != nil {
		return nil, ferrors.ConfigError("invalid environment configuration").WithCause(err).Build()
	}

	cfg := &Config{
		DefaultBranch:  spec.DefaultBranch,
		IgnoreExisting: bool(spec.IgnoreExisting),
		IgnoreMissing:  bool(spec.IgnoreMissing),
		LogFormat:      NormalizeLogFormat(spec.LogFormat),
		CloneRetries:   spec.CloneRetries,
		RetryBackoff:   NormalizeRetryBackoff(spec.RetryBackoff),
	}

	var err error
	if cfg.InputFile, err = normalizeField(EnvInputFile, spec.InputFile); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = normalizeField(EnvReportFile, spec.ReportFile); err != nil {
		return nil, err
	}
	if cfg.MetricsFile, err = normalizeField(EnvMetricsFile, spec.MetricsFile); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that the environment decoding cannot express.
func (c *Config) Validate() error {
	switch {
	case c.InputFile == "":
		return ferrors.ConfigError("input file must not be empty").WithContext("env", EnvInputFile).Build()
	case c.DefaultBranch == "":
		return ferrors.ConfigError("default branch must not be empty").WithContext("env", EnvDefaultBranch).Build()
	case !logFormats.Valid(c.LogFormat):
		return ferrors.ConfigError(fmt.Sprintf("unsupported log format %q (want %s)", c.LogFormat, strings.Join(logFormats.ValidKeys(), " or "))).
			WithContext("env", EnvLogFormat).Build()
	case c.CloneRetries < 0:
		return ferrors.ConfigError("clone retries must not be negative").WithContext("env", EnvCloneRetries).Build()
	case c.RetryBackoff == "":
		return ferrors.ConfigError("unsupported retry backoff (want fixed, linear or exponential)").
			WithContext("env", EnvCloneRetryBackoff).Build()
	}
	return nil
}

func normalizeField(env, raw string) (string, error) {
	p, err := pathutil.Normalize(raw)
	if err != nil {
		return "", ferrors.ConfigError("invalid path in "+env).WithCause(err).Build()
	}
	return p, nil
}
