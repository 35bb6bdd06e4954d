package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	mu sync.Mutex

	counters   []counterCall
	durations  []durationCall
	flushCount int
}

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type durationCall struct {
	name    string
	seconds float64
	labels  Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters = append(f.counters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveDuration(name string, seconds float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.durations = append(f.durations, durationCall{name, seconds, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCount++
	return nil
}

func TestRecordStep_SuccessAndFailure(t *testing.T) {
	orig := backend
	defer func() { backend = orig }()

	fb := &fakeBackend{}
	backend = fb

	RecordStep("extract", nil, 2*time.Second)
	RecordStep("load", errors.New("boom"), 1500*time.Millisecond)

	if len(fb.counters) != 2 {
		t.Fatalf("expected 2 counter calls, got %d", len(fb.counters))
	}
	if len(fb.durations) != 2 {
		t.Fatalf("expected 2 duration calls, got %d", len(fb.durations))
	}

	c0 := fb.counters[0]
	if c0.name != "catalog_step_total" || c0.delta != 1 {
		t.Fatalf("counter[0] = %#v; want name=catalog_step_total, delta=1", c0)
	}
	if c0.labels["step"] != "extract" || c0.labels["status"] != "success" {
		t.Fatalf("counter[0] labels = %v; want step=extract, status=success", c0.labels)
	}

	d0 := fb.durations[0]
	if d0.name != "catalog_step_duration_seconds" {
		t.Fatalf("duration[0].name=%q; want catalog_step_duration_seconds", d0.name)
	}
	if d0.seconds < 2.0-0.001 || d0.seconds > 2.0+0.001 {
		t.Fatalf("duration[0].seconds=%v; want ~2.0", d0.seconds)
	}

	c1 := fb.counters[1]
	if c1.labels["step"] != "load" || c1.labels["status"] != "failure" {
		t.Fatalf("counter[1] labels = %v; want step=load, status=failure", c1.labels)
	}
	d1 := fb.durations[1]
	if d1.seconds < 1.5-0.001 || d1.seconds > 1.5+0.001 {
		t.Fatalf("duration[1].seconds=%v; want ~1.5", d1.seconds)
	}
}

func TestRecordRows(t *testing.T) {
	orig := backend
	defer func() { backend = orig }()

	fb := &fakeBackend{}
	backend = fb

	RecordRows("extracted", 3)
	RecordRows("dropped", 0) // should be ignored
	RecordRows("loaded", 5)

	if len(fb.counters) != 2 {
		t.Fatalf("expected 2 counter calls, got %d", len(fb.counters))
	}

	c0 := fb.counters[0]
	if c0.name != "catalog_rows_total" || c0.delta != 3 {
		t.Fatalf("counter[0] = %#v; want name=catalog_rows_total, delta=3", c0)
	}
	if c0.labels["kind"] != "extracted" {
		t.Fatalf("counter[0].labels[kind]=%q; want %q", c0.labels["kind"], "extracted")
	}

	c1 := fb.counters[1]
	if c1.delta != 5 || c1.labels["kind"] != "loaded" {
		t.Fatalf("counter[1] = %#v; want delta=5, kind=loaded", c1)
	}
}

func TestSetBackendAndFlush(t *testing.T) {
	orig := backend
	defer func() { backend = orig }()

	fb := &fakeBackend{}
	SetBackend(fb)

	if backend != fb {
		t.Fatal("SetBackend did not replace global backend")
	}

	if err := Flush(); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}
	if fb.flushCount != 1 {
		t.Fatalf("expected flushCount=1, got %d", fb.flushCount)
	}

	// SetBackend(nil) should not nil out the backend.
	SetBackend(nil)
	if backend != fb {
		t.Fatal("SetBackend(nil) should not change backend")
	}
}
