// Package metrics is a small backend-agnostic layer for recording pipeline
// counters and step timings. The global backend defaults to a no-op, so
// instrumentation is always safe to call; a concrete backend (Pushgateway)
// is installed by the binaries when configured. It mirrors the pluggable
// pattern of the storage package.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a step duration in seconds.
	ObserveDuration(name string, seconds float64, labels Labels)
	// Flush pushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics stay optional.
type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)      {}
func (nopBackend) ObserveDuration(string, float64, Labels) {}
func (nopBackend) Flush() error                            { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error { return backend.Flush() }

// RecordStep records one pipeline step execution: success/failure count plus
// duration. step is "extract", "transform", "validate", "load" or "merge".
func RecordStep(step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"step": step, "status": status}
	backend.IncCounter("catalog_step_total", 1, lbls)
	backend.ObserveDuration("catalog_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a row-level counter for the given kind.
//
// Kinds mirror the run summary fields:
//   - "extracted"
//   - "parse_errors"
//   - "dropped"
//   - "loaded"
func RecordRows(kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("catalog_rows_total", float64(delta), Labels{"kind": kind})
}
