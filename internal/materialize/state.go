package materialize

import (
	"time"

	"git.home.luguber.info/inful/gitbatch/internal/manifest"
	"git.home.luguber.info/inful/gitbatch/internal/metrics"
)

// State is the position of one repository in the materialization state machine.
type State int

const (
	StateParsed State = iota
	StateCloning
	StateCloned
	StateSkipped
	StateLocating
	StateCopying
	StateDone
	StateFailed
)

var stateNames = [...]string{"parsed", "cloning", "cloned", "skipped", "locating", "copying", "done", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further step follows s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateSkipped || s == StateFailed
}

// StepKind classifies the result of a single step.
type StepKind int

const (
	Success StepKind = iota
	Skipped
	Fatal
)

func (k StepKind) String() string {
	switch k {
	case Success:
		return "success"
	case Skipped:
		return "skipped"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// StepResult is what a step hands back to the state machine.
// Reason is set for Skipped results and for successes that needed the
// existing-destination policy; Err is set for Fatal results.
type StepResult struct {
	Kind   StepKind
	Reason string
	Err    error
}

func success() StepResult                  { return StepResult{Kind: Success} }
func successWith(reason string) StepResult { return StepResult{Kind: Success, Reason: reason} }
func skipped(reason string) StepResult     { return StepResult{Kind: Skipped, Reason: reason} }
func fatal(err error) StepResult           { return StepResult{Kind: Fatal, Err: err, Reason: reasonOf(err)} }

// Outcome is the final record for one repository.
type Outcome struct {
	Spec     manifest.Spec
	State    State
	Reason   string
	Commit   string
	Attempts int
	Duration time.Duration
}

// Label maps the final state to the metrics outcome label.
func (o Outcome) Label() metrics.OutcomeLabel {
	switch o.State {
	case StateDone:
		return metrics.OutcomeDone
	case StateSkipped:
		return metrics.OutcomeSkipped
	default:
		return metrics.OutcomeFailed
	}
}
