package materialize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/gitbatch/internal/config"
	ferrors "git.home.luguber.info/inful/gitbatch/internal/foundation/errors"
	"git.home.luguber.info/inful/gitbatch/internal/git"
	"git.home.luguber.info/inful/gitbatch/internal/logfields"
	"git.home.luguber.info/inful/gitbatch/internal/manifest"
	"git.home.luguber.info/inful/gitbatch/internal/metrics"
	"git.home.luguber.info/inful/gitbatch/internal/treecopy"
	"git.home.luguber.info/inful/gitbatch/internal/workspace"
)

// vcsDir is never copied to a destination.
const vcsDir = ".git"

// Cloner clones a single branch into an empty directory.
type Cloner interface {
	Clone(ctx context.Context, req git.CloneRequest) (git.CloneResult, error)
}

// Materializer clones, locates and copies one repository at a time.
type Materializer struct {
	ignoreExisting bool
	ignoreMissing  bool
	cloner         Cloner
	logger         *slog.Logger
	recorder       metrics.Recorder
	workDir        string
}

// New creates a Materializer. A nil logger falls back to slog.Default and a nil
// recorder to metrics.NoopRecorder.
func New(cfg *config.Config, cloner Cloner, logger *slog.Logger, recorder metrics.Recorder) *Materializer {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Materializer{
		ignoreExisting: cfg.IgnoreExisting,
		ignoreMissing:  cfg.IgnoreMissing,
		cloner:         cloner,
		logger:         logger,
		recorder:       recorder,
	}
}

// WithWorkDir places temporary clones below dir instead of os.TempDir.
func (m *Materializer) WithWorkDir(dir string) *Materializer { m.workDir = dir; return m }

// job carries the per-repository state between steps.
type job struct {
	spec   manifest.Spec
	tmp    string
	root   string // tmp with symlinks resolved
	src    string
	logger *slog.Logger
}

type step struct {
	state State
	run   func(context.Context, *job) StepResult
}

// Materialize runs the state machine for spec. The returned error is non-nil
// exactly when the outcome is StateFailed, and it is always a ClassifiedError.
func (m *Materializer) Materialize(ctx context.Context, spec manifest.Spec) (Outcome, error) {
	start := time.Now()
	out := Outcome{Spec: spec, State: StateParsed}
	logger := m.logger.With(logfields.Repository(spec.Name))

	steps := []step{
		{StateCloning, func(ctx context.Context, j *job) StepResult { return m.clone(ctx, j, &out) }},
		{StateLocating, m.locate},
		{StateCopying, m.copy},
	}

	err := workspace.Scoped(m.workDir, logger, func(tmp string) error {
		j := &job{spec: spec, tmp: tmp, logger: logger}
		for _, s := range steps {
			out.State = s.state
			stepStart := time.Now()
			res := s.run(ctx, j)
			m.recorder.ObserveStageDuration(s.state.String(), time.Since(stepStart))
			if res.Reason != "" {
				out.Reason = res.Reason
			}
			switch res.Kind {
			case Skipped:
				out.State = StateSkipped
				return nil
			case Fatal:
				out.State = StateFailed
				return res.Err
			}
			if s.state == StateCloning {
				out.State = StateCloned
			}
		}
		out.State = StateDone
		return nil
	})
	out.Duration = time.Since(start)

	if err != nil {
		if _, ok := ferrors.AsClassified(err); !ok {
			// workspace creation or cleanup failed
			err = ferrors.FileSystemError(fmt.Sprintf("temporary directory error: %v", err)).WithCause(err).Build()
		}
		out.State = StateFailed
		out.Reason = reasonOf(err)
	}
	m.recorder.IncRepositoryOutcome(out.Label())
	logger.Debug("Repository finished", logfields.Outcome(out.State.String()), logfields.DurationMS(float64(out.Duration.Milliseconds())))
	return out, err
}

func (m *Materializer) clone(ctx context.Context, j *job, out *Outcome) StepResult {
	spec := j.spec
	res, err := m.cloner.Clone(ctx, git.CloneRequest{URL: spec.URL, Branch: spec.Branch, Dir: j.tmp})
	out.Attempts = res.Attempts
	m.recorder.ObserveCloneDuration(spec.Name, res.Duration, err == nil)
	if res.Attempts > 1 {
		m.recorder.IncCloneRetries(spec.Name, res.Attempts-1)
	}
	if err == nil {
		out.Commit = res.Commit
		return success()
	}

	msg := "Git error: " + translate(err.Error(), j)
	var (
		branchErr *git.BranchNotFoundError
		existsErr *git.AlreadyExistsError
	)
	switch {
	case errors.As(err, &branchErr):
		if m.ignoreMissing {
			j.logger.Warn("Remote branch not found, skipping repository",
				logfields.URL(spec.URL), logfields.Branch(spec.Branch))
			return skipped(fmt.Sprintf("remote branch %s not found", spec.Branch))
		}
		return fatal(git.Classify(err, msg))
	case errors.As(err, &existsErr):
		if res := m.existingDestination(j, err); res.Kind == Fatal {
			return res
		}
		// nothing was cloned, so there is nothing left to copy
		return skipped(alreadyExistsMessage(spec))
	default:
		return fatal(git.Classify(err, msg))
	}
}

func (m *Materializer) locate(_ context.Context, j *job) StepResult {
	if !j.spec.HasPath() {
		j.src = j.tmp
		return success()
	}

	notFound := func(cause error) StepResult {
		b := ferrors.NotFoundError(fmt.Sprintf("directory '%s' not found in repository '%s'", j.spec.Path, j.spec.Name)).
			WithContext("path", j.spec.Path).
			WithContext("repository", j.spec.Name)
		if cause != nil {
			b = b.WithCause(cause)
		}
		return fatal(b.Build())
	}

	root, err := filepath.EvalSymlinks(j.tmp)
	if err != nil {
		return fatal(ferrors.FileSystemError("failed to resolve clone directory").WithCause(err).Build())
	}
	j.root = root
	src, err := filepath.EvalSymlinks(filepath.Join(root, j.spec.Path))
	if err != nil {
		return notFound(err)
	}
	if !within(root, src) {
		return notFound(nil)
	}
	info, err := os.Stat(src)
	if err != nil {
		return notFound(err)
	}
	if !info.IsDir() {
		return notFound(nil)
	}
	j.src = src
	return success()
}

func (m *Materializer) copy(_ context.Context, j *job) StepResult {
	spec := j.spec
	reason := ""

	if _, err := os.Lstat(spec.Dest); err == nil {
		res := m.existingDestination(j, fs.ErrExist)
		if res.Kind == Fatal {
			return res
		}
		reason = res.Reason
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fatal(ferrors.FileSystemError(fmt.Sprintf("cannot inspect destination '%s'", spec.DisplayDest())).
			WithCause(err).WithContext("dest", spec.Dest).Build())
	}

	err := treecopy.Copy(j.src, spec.Dest, treecopy.Options{
		Ignore:      treecopy.IgnoreNames(vcsDir),
		DirsExistOK: m.ignoreExisting,
	})
	switch {
	case err == nil:
		j.logger.Info("Repository materialized", logfields.Dest(spec.DisplayDest()))
		return successWith(reason)
	case errors.Is(err, fs.ErrExist):
		// the destination appeared after the check above
		res := m.existingDestination(j, err)
		if res.Kind == Fatal {
			return res
		}
		return successWith(res.Reason)
	default:
		return fatal(ferrors.FileSystemError("Copy error: "+translate(err.Error(), j)).
			WithCause(err).WithContext("dest", spec.Dest).Build())
	}
}

// existingDestination applies the existing-destination policy. With
// ignoreExisting set it warns and lets processing continue; otherwise the
// run ends with an already_exists error.
func (m *Materializer) existingDestination(j *job, cause error) StepResult {
	msg := alreadyExistsMessage(j.spec)
	if m.ignoreExisting {
		j.logger.Warn(msg, logfields.Dest(j.spec.Dest))
		return successWith(msg)
	}
	return fatal(ferrors.AlreadyExistsError(msg).
		WithCause(cause).
		WithContext("dest", j.spec.Dest).
		Build())
}

func alreadyExistsMessage(spec manifest.Spec) string {
	return "directory already exists: " + spec.DisplayDest()
}

// translate replaces the temporary clone path with the destination as the
// user wrote it.
func translate(text string, j *job) string {
	for _, p := range []string{j.root, j.tmp} {
		if p != "" {
			text = strings.ReplaceAll(text, p, j.spec.DisplayDest())
		}
	}
	return text
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func reasonOf(err error) string {
	if err == nil {
		return ""
	}
	if ce, ok := ferrors.AsClassified(err); ok {
		return ce.Message()
	}
	return err.Error()
}
