package metrics

import "time"

// OutcomeLabel enumerates the final state of one repository.
type OutcomeLabel string

const (
	OutcomeDone    OutcomeLabel = "done"
	OutcomeSkipped OutcomeLabel = "skipped"
	OutcomeFailed  OutcomeLabel = "failed"
)

// RunOutcomeLabel enumerates the final state of a whole run.
type RunOutcomeLabel string

const (
	RunSuccess  RunOutcomeLabel = "success"
	RunFailed   RunOutcomeLabel = "failed"
	RunCanceled RunOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for a batch run. All methods must be
// safe to call on the NoopRecorder so callers never need nil checks.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveCloneDuration(repo string, d time.Duration, success bool)
	IncCloneRetries(repo string, n int)
	IncRepositoryOutcome(outcome OutcomeLabel)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome RunOutcomeLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)       {}
func (NoopRecorder) ObserveCloneDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncCloneRetries(string, int)                      {}
func (NoopRecorder) IncRepositoryOutcome(OutcomeLabel)                {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                 {}
func (NoopRecorder) IncRunOutcome(RunOutcomeLabel)                    {}
