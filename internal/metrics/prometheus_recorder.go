package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "gitbatch"

// PrometheusRecorder implements Recorder using Prometheus metrics on a private registry.
type PrometheusRecorder struct {
	reg                *prom.Registry
	stageDuration      *prom.HistogramVec
	cloneDuration      *prom.HistogramVec
	cloneRetries       *prom.CounterVec
	repositoryOutcomes *prom.CounterVec
	runDuration        prom.Histogram
	runOutcomes        *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the metrics on reg (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of materialization stages (clone, locate, copy)",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		cloneDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "clone_repo_duration_seconds",
			Help:      "Duration of individual repository clone operations",
			Buckets:   prom.DefBuckets,
		}, []string{"repo", "result"}),
		cloneRetries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "clone_retries_total",
			Help:      "Clone attempts repeated after a transient failure",
		}, []string{"repo"}),
		repositoryOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "repository_outcomes_total",
			Help:      "Repositories by final outcome",
		}, []string{"outcome"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total batch run duration",
			Buckets:   prom.DefBuckets,
		}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Batch runs by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.stageDuration, pr.cloneDuration, pr.cloneRetries, pr.repositoryOutcomes, pr.runDuration, pr.runOutcomes)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveCloneDuration(repo string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.cloneDuration.WithLabelValues(repo, res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCloneRetries(repo string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.cloneRetries.WithLabelValues(repo).Add(float64(n))
}

func (p *PrometheusRecorder) IncRepositoryOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.repositoryOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcomeLabel) {
	if p == nil {
		return
	}
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
}

// Registry exposes the registry the recorder writes to.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

// WriteTextfile writes all gathered metrics to path in the Prometheus text
// exposition format, for the node exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
