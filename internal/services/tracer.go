package services

import (
	"sync"
	"time"
)

// MaxRetainedSpans bounds the in-memory span ring.
const MaxRetainedSpans = 100

// Span records the timing and outcome of a single traced operation.
type Span struct {
	Operation string            `json:"operation"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
	Duration  float64           `json:"duration_seconds"`
	Status    string            `json:"status"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Tracer keeps a bounded ring of recently completed spans and feeds
// operation timings into Prometheus. It is safe for concurrent use.
type Tracer struct {
	mu      sync.Mutex
	spans   []Span
	next    int
	full    bool
	metrics *Metrics
}

// NewTracer creates a tracer retaining up to MaxRetainedSpans completed
// spans. metrics may be nil in tests.
func NewTracer(metrics *Metrics) *Tracer {
	return &Tracer{
		spans:   make([]Span, MaxRetainedSpans),
		metrics: metrics,
	}
}

// ActiveSpan is a started but not yet finished span.
type ActiveSpan struct {
	tracer    *Tracer
	operation string
	start     time.Time
	metadata  map[string]string
}

// StartSpan begins timing the named operation.
func (t *Tracer) StartSpan(operation string, metadata map[string]string) *ActiveSpan {
	return &ActiveSpan{
		tracer:    t,
		operation: operation,
		start:     time.Now(),
		metadata:  metadata,
	}
}

// End finishes the span with the given status and records it.
func (s *ActiveSpan) End(status string) {
	end := time.Now()
	span := Span{
		Operation: s.operation,
		StartTime: s.start,
		EndTime:   end,
		Duration:  end.Sub(s.start).Seconds(),
		Status:    status,
		Metadata:  s.metadata,
	}
	s.tracer.record(span)
}

func (t *Tracer) record(span Span) {
	t.mu.Lock()
	t.spans[t.next] = span
	t.next = (t.next + 1) % len(t.spans)
	if t.next == 0 {
		t.full = true
	}
	t.mu.Unlock()

	if t.metrics != nil {
		t.metrics.OperationDuration.WithLabelValues(span.Operation, span.Status).Observe(span.Duration)
	}
}

// Observe runs fn under a span named op, marking the span "error" when
// fn returns a non-nil error and "success" otherwise.
func (t *Tracer) Observe(op string, fn func() error) error {
	span := t.StartSpan(op, nil)
	err := fn()
	if err != nil {
		span.End("error")
	} else {
		span.End("success")
	}
	return err
}

// Recent returns up to limit completed spans, newest first. limit <= 0
// returns everything retained.
func (t *Tracer) Recent(limit int) []Span {
	t.mu.Lock()
	defer t.mu.Unlock()

	size := t.next
	if t.full {
		size = len(t.spans)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]Span, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (t.next - 1 - i + len(t.spans)) % len(t.spans)
		out = append(out, t.spans[idx])
	}
	return out
}

// Count returns the number of spans currently retained.
func (t *Tracer) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.full {
		return len(t.spans)
	}
	return t.next
}
