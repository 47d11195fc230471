package metrics

import (
	"errors"
	"testing"
	"time"
)

type capture struct {
	name   string
	delta  float64
	labels Labels
}

type captureBackend struct {
	counters  []capture
	durations []capture
	flushed   int
}

func (c *captureBackend) IncCounter(name string, delta float64, labels Labels) {
	c.counters = append(c.counters, capture{name, delta, labels})
}
func (c *captureBackend) ObserveDuration(name string, value float64, labels Labels) {
	c.durations = append(c.durations, capture{name, value, labels})
}
func (c *captureBackend) Flush() error {
	c.flushed++
	return nil
}

// install swaps in a capture backend and restores the previous one afterward.
func install(t *testing.T) *captureBackend {
	t.Helper()
	prev := backend
	b := &captureBackend{}
	SetBackend(b)
	t.Cleanup(func() { backend = prev })
	return b
}

func TestNopDefaultIsSafe(t *testing.T) {
	// Must not panic with nothing configured.
	RecordStep("job", "fetch", nil, time.Second)
	RecordRows("job", "parsed", 10)
	if err := Flush(); err != nil {
		t.Errorf("Flush: %v", err)
	}
}

func TestSetBackendIgnoresNil(t *testing.T) {
	b := install(t)
	SetBackend(nil)
	RecordRows("job", "parsed", 1)
	if len(b.counters) != 1 {
		t.Error("SetBackend(nil) replaced the active backend")
	}
}

func TestRecordStep(t *testing.T) {
	b := install(t)
	RecordStep("covid", "parse", nil, 2*time.Second)
	RecordStep("covid", "parse", errors.New("boom"), time.Second)

	if len(b.counters) != 2 || len(b.durations) != 2 {
		t.Fatalf("counters=%d durations=%d, want 2 each", len(b.counters), len(b.durations))
	}
	if b.counters[0].labels["status"] != "success" || b.counters[1].labels["status"] != "failure" {
		t.Errorf("statuses = %v, %v", b.counters[0].labels, b.counters[1].labels)
	}
	if b.counters[0].name != "pipeline_step_total" {
		t.Errorf("counter name = %q", b.counters[0].name)
	}
	if b.durations[0].delta != 2.0 {
		t.Errorf("duration seconds = %v, want 2", b.durations[0].delta)
	}
	if b.counters[0].labels["job"] != "covid" || b.counters[0].labels["step"] != "parse" {
		t.Errorf("labels = %v", b.counters[0].labels)
	}
}

func TestRecordRows(t *testing.T) {
	b := install(t)
	RecordRows("nypd", "cleaned", 25)
	RecordRows("nypd", "dropped", 0)
	RecordRows("nypd", "skipped", -3)

	if len(b.counters) != 1 {
		t.Fatalf("counters = %v, want only the positive delta", b.counters)
	}
	c := b.counters[0]
	if c.name != "pipeline_rows_total" || c.delta != 25 || c.labels["kind"] != "cleaned" {
		t.Errorf("counter = %+v", c)
	}
}
