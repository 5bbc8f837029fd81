package metrics

import (
	"sync"
	"time"
)

// testRecorder counts calls.
type testRecorder struct {
	mu       sync.Mutex
	stages   map[string]int
	outcomes map[OutcomeLabel]int
	runs     map[RunOutcomeLabel]int
	clones   int
	retries  int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{stages: map[string]int{}, outcomes: map[OutcomeLabel]int{}, runs: map[RunOutcomeLabel]int{}}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stages[stage]++
}

func (t *testRecorder) ObserveCloneDuration(string, time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clones++
}

func (t *testRecorder) IncCloneRetries(_ string, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.retries += n
}

func (t *testRecorder) IncRepositoryOutcome(o OutcomeLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outcomes[o]++
}

func (t *testRecorder) ObserveRunDuration(time.Duration) {}

func (t *testRecorder) IncRunOutcome(o RunOutcomeLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runs[o]++
}

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
	_ Recorder = newTestRecorder()
)
