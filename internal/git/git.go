package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/gitbatch/internal/logfields"
	"git.home.luguber.info/inful/gitbatch/internal/retry"
)

// CloneRequest describes one single-branch clone.
type CloneRequest struct {
	URL    string
	Branch string
	Dir    string // target directory; must be missing or empty
}

// CloneResult is what a successful clone produced.
type CloneResult struct {
	Dir      string
	Commit   string // HEAD commit hash, empty when it could not be resolved
	Attempts int
	Duration time.Duration
}

// Client handles Git operations.
type Client struct {
	logger   *slog.Logger
	policy   retry.Policy
	progress io.Writer
}

// Option configures a Client.
type Option func(*Client)

// WithRetryPolicy sets the policy used for transient clone failures.
func WithRetryPolicy(p retry.Policy) Option { return func(c *Client) { c.policy = p } }

// WithProgress streams go-git's sideband progress to w.
func WithProgress(w io.Writer) Option { return func(c *Client) { c.progress = w } }

// NewClient creates a Client. A nil logger falls back to slog.Default().
func NewClient(logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{logger: logger, policy: retry.DefaultPolicy()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clone clones req.Branch of req.URL into req.Dir, single-branch.
func (c *Client) Clone(ctx context.Context, req CloneRequest) (CloneResult, error) {
	start := time.Now()
	res := CloneResult{Dir: req.Dir}

	if err := ensureEmpty(req.Dir); err != nil {
		return res, err
	}

	err := c.policy.Do(ctx, IsTransient, func(attempt int) error {
		res.Attempts = attempt
		if attempt > 1 {
			c.logger.Warn("Retrying clone", logfields.URL(req.URL), logfields.Branch(req.Branch), logfields.Attempt(attempt))
			// a failed attempt may leave a partial checkout behind
			if err := os.RemoveAll(req.Dir); err != nil {
				return &CloneError{URL: req.URL, Err: err}
			}
		}
		commit, err := c.cloneOnce(ctx, req)
		res.Commit = commit
		return err
	})
	res.Duration = time.Since(start)
	return res, err
}

func (c *Client) cloneOnce(ctx context.Context, req CloneRequest) (string, error) {
	c.logger.Debug("Cloning repository", logfields.URL(req.URL), logfields.Branch(req.Branch), logfields.Path(req.Dir))

	opts := &gogit.CloneOptions{
		URL:           req.URL,
		ReferenceName: plumbing.NewBranchReferenceName(req.Branch),
		SingleBranch:  true,
		Tags:          gogit.NoTags,
		Progress:      c.progress,
	}
	repository, err := gogit.PlainCloneContext(ctx, req.Dir, false, opts)
	if err != nil {
		return "", classifyCloneError(req, err)
	}

	ref, err := repository.Head()
	if err != nil {
		c.logger.Info("Repository cloned", logfields.URL(req.URL), logfields.Branch(req.Branch))
		return "", nil
	}
	commit := ref.Hash().String()
	c.logger.Info("Repository cloned", logfields.URL(req.URL), logfields.Branch(req.Branch), logfields.Commit(commit[:8]))
	return commit, nil
}

// ensureEmpty accepts a missing or empty directory.
func ensureEmpty(dir string) error {
	entries, err := os.ReadDir(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		var perr *fs.PathError
		if errors.As(err, &perr) && !isDir(dir) {
			return &AlreadyExistsError{Dir: dir, Err: fs.ErrExist}
		}
		return fmt.Errorf("inspect clone target %s: %w", dir, err)
	case len(entries) > 0:
		return &AlreadyExistsError{Dir: dir, Err: fs.ErrExist}
	}
	return nil
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
