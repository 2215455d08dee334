package telemetry

import (
	"context"
	"log/slog"
	"sync"
)

// Sink receives finished events. Delivery is fire-and-forget.
type Sink interface {
	Send(ctx context.Context, name string, attrs map[string]any) error
}

// Record is an event captured by MemorySink.
type Record struct {
	Name       string
	Attributes map[string]any
}

// MemorySink keeps sent events in memory.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{records: make([]Record, 0, 16)}
}

// Send appends the event.
func (s *MemorySink) Send(_ context.Context, name string, attrs map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, Record{Name: name, Attributes: attrs})
	return nil
}

// Records returns a copy of everything sent so far.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Names returns the names of the sent events in order.
func (s *MemorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Name)
	}
	return out
}

// LogSink writes events to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a sink logging at info level; nil uses slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Send logs the event name with a summary of its attributes.
func (s *LogSink) Send(ctx context.Context, name string, attrs map[string]any) error {
	args := []any{"event", name}
	for _, k := range []string{"eventId", "sessionIdentifier", "created", "distanceCompleted", "distanceRemaining", "rerouteCount"} {
		if v, ok := attrs[k]; ok {
			args = append(args, k, v)
		}
	}
	if before, ok := attrs["locationsBefore"].([]map[string]any); ok {
		args = append(args, "locationsBefore", len(before))
	}
	if after, ok := attrs["locationsAfter"].([]map[string]any); ok {
		args = append(args, "locationsAfter", len(after))
	}
	s.logger.InfoContext(ctx, "telemetry event", args...)
	return nil
}
