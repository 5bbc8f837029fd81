// Package metrics provides the observability hooks for a batch run.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never needs explicit nil checks:
//
//	m := materialize.New(cfg, cloner, logger, metrics.NoopRecorder{})
//
// When a metrics file is configured the CLI swaps in a PrometheusRecorder and,
// once the run is over, writes its registry to disk in the text exposition
// format so a node exporter textfile collector can pick it up.
package metrics
