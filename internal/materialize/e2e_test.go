package materialize

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gitbatch/internal/config"
	ferrors "git.home.luguber.info/inful/gitbatch/internal/foundation/errors"
	"git.home.luguber.info/inful/gitbatch/internal/git"
	"git.home.luguber.info/inful/gitbatch/internal/manifest"
	helpers "git.home.luguber.info/inful/gitbatch/internal/testutil/testutils"
)

// newOriginWithFeature builds an origin repository whose "feature" branch has a docs/ tree
// that the default branch does not.
func newOriginWithFeature(t *testing.T) string {
	t.Helper()
	origin := helpers.NewOrigin(t, "r.git")
	origin.Commit(map[string]string{"README.md": "main"}, "initial")
	origin.Checkout("feature")
	origin.Commit(map[string]string{"docs/index.md": "index", "docs/guide/setup.md": "setup", "src/main.go": "package main"}, "docs")
	return origin.Dir
}

func parseOne(t *testing.T, line string) manifest.Spec {
	t.Helper()
	specs, err := manifest.NewParser("main", nil).Parse(strings.NewReader(line + "\n"))
	require.NoError(t, err)
	require.Len(t, specs, 1)
	return specs[0]
}

func realMaterializer(t *testing.T, ignoreExisting, ignoreMissing bool) *Materializer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{IgnoreExisting: ignoreExisting, IgnoreMissing: ignoreMissing}
	return New(cfg, git.NewClient(logger), logger, nil).WithWorkDir(t.TempDir())
}

func TestEndToEndSubpathOfFeatureBranch(t *testing.T) {
	origin := newOriginWithFeature(t)
	out := filepath.Join(t.TempDir(), "out")
	spec := parseOne(t, fmt.Sprintf("%s;feature:docs;%s", origin, out))

	outcome, err := realMaterializer(t, false, false).Materialize(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, StateDone, outcome.State)
	assert.Len(t, outcome.Commit, 40)
	assert.Equal(t, []string{"guide/setup.md", "index.md"}, helpers.ListFiles(t, out))
}

func TestEndToEndMissingSubpath(t *testing.T) {
	origin := newOriginWithFeature(t)
	out := filepath.Join(t.TempDir(), "out")
	spec := parseOne(t, fmt.Sprintf("%s;main:docs;%s", origin, out))

	_, err := realMaterializer(t, true, true).Materialize(context.Background(), spec)
	require.Error(t, err)

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Contains(t, ce.Message(), "r.git")
	assert.Contains(t, ce.Message(), "docs")
	helpers.NewFileAssertions(t, out).AssertNotExists(".")
}

func TestEndToEndMissingBranchSkipped(t *testing.T) {
	origin := newOriginWithFeature(t)
	out := filepath.Join(t.TempDir(), "out")
	spec := parseOne(t, fmt.Sprintf("%s;does-not-exist;%s", origin, out))

	outcome, err := realMaterializer(t, true, true).Materialize(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, StateSkipped, outcome.State)
	helpers.NewFileAssertions(t, out).AssertNotExists(".")
}

func TestEndToEndWholeRepositoryExcludesGitDir(t *testing.T) {
	origin := newOriginWithFeature(t)
	out := filepath.Join(t.TempDir(), "out")
	spec := parseOne(t, fmt.Sprintf("%s;;%s", origin, out))

	outcome, err := realMaterializer(t, true, true).Materialize(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, StateDone, outcome.State)
	assert.Equal(t, []string{"README.md"}, helpers.ListFiles(t, out))
}
