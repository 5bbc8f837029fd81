package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/gitbatch/internal/foundation/errors"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, DefaultInputFile), cfg.InputFile)
	assert.Equal(t, DefaultBranch, cfg.DefaultBranch)
	assert.True(t, cfg.IgnoreExisting)
	assert.True(t, cfg.IgnoreMissing)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 0, cfg.CloneRetries)
	assert.Equal(t, RetryBackoffLinear, cfg.RetryBackoff)
	assert.Empty(t, cfg.ReportFile)
	assert.Empty(t, cfg.MetricsFile)
}

func TestLoadWithOverrides(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		EnvInputFile:         "~/batches/docs",
		EnvIgnoreExisting:    "No",
		EnvIgnoreMissing:     " off ",
		EnvDefaultBranch:     "develop",
		EnvLogFormat:         "json",
		EnvCloneRetries:      "3",
		EnvCloneRetryBackoff: "Exponential",
		EnvReportFile:        "/tmp/report.yaml",
		EnvMetricsFile:       "/tmp/gitbatch.prom",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/home/tester/batches/docs", cfg.InputFile)
	assert.False(t, cfg.IgnoreExisting)
	assert.False(t, cfg.IgnoreMissing)
	assert.Equal(t, "develop", cfg.DefaultBranch)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 3, cfg.CloneRetries)
	assert.Equal(t, RetryBackoffExponential, cfg.RetryBackoff)
	assert.Equal(t, "/tmp/report.yaml", cfg.ReportFile)
	assert.Equal(t, "/tmp/gitbatch.prom", cfg.MetricsFile)
}

func TestLoadWithRejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"bad bool":       {EnvIgnoreExisting: "maybe"},
		"bad format":     {EnvLogFormat: "xml"},
		"negative retry": {EnvCloneRetries: "-1"},
		"bad retry":      {EnvCloneRetries: "many"},
		"bad backoff":    {EnvCloneRetryBackoff: "random"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig), "got %v", err)
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("GIT_BATCH_DEFAULT_BRANCH=trunk\n"), 0o600))
	// godotenv.Load never overrides existing variables; make sure ours is unset
	// and restored after the test.
	t.Setenv(EnvDefaultBranch, "")
	require.NoError(t, os.Unsetenv(EnvDefaultBranch))

	wd, err := os.Getwd()
	require.NoError(t, err)

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "trunk", cfg.DefaultBranch)
	assert.Equal(t, filepath.Join(wd, DefaultInputFile), cfg.InputFile)
}

func TestNormalizeRetryBackoff(t *testing.T) {
	assert.Equal(t, RetryBackoffFixed, NormalizeRetryBackoff(" FIXED "))
	assert.Equal(t, RetryBackoffLinear, NormalizeRetryBackoff("linear"))
	assert.Equal(t, RetryBackoffMode(""), NormalizeRetryBackoff("jitter"))
}

func TestNormalizeLogFormat(t *testing.T) {
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat(" JSON "))
	assert.Equal(t, LogFormatText, NormalizeLogFormat("Text"))
	assert.Equal(t, "xml", NormalizeLogFormat("xml"))
}
