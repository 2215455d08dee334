package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/navcore/location"
	"github.com/theoremus-urban-solutions/navcore/session"
)

// DefaultCollectionWindow is how long an event waits for trailing fixes.
const DefaultCollectionWindow = 20 * time.Second

// Queue holds events until they mature. It is not safe for concurrent use.
type Queue struct {
	window  time.Duration
	session *session.State
	sink    Sink
	logger  *slog.Logger

	events []Event
}

// NewQueue creates a queue enriching events from s and sending them to sink.
func NewQueue(s *session.State, sink Sink, window time.Duration, logger *slog.Logger) *Queue {
	if window < 0 {
		window = DefaultCollectionWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		window:  window,
		session: s,
		sink:    sink,
		logger:  logger,
	}
}

// Window returns the collection window.
func (q *Queue) Window() time.Duration { return q.window }

// Len returns the number of queued events.
func (q *Queue) Len() int { return len(q.events) }

// Enqueue appends ev to the queue.
func (q *Queue) Enqueue(ev Event) {
	q.events = append(q.events, ev)
}

// FlushMatured sends every event older than the collection window, or every
// event when forceAll is set, in queue order. Sink failures are logged and
// the event is dropped. It returns the number of events removed.
func (q *Queue) FlushMatured(ctx context.Context, now time.Time, forceAll bool) int {
	var ready []Event
	kept := q.events[:0]
	for _, ev := range q.events {
		if forceAll || ev.matured(now, q.window) {
			ready = append(ready, ev)
			continue
		}
		kept = append(kept, ev)
	}
	// clear the tail so flushed attribute maps can be collected
	for i := len(kept); i < len(q.events); i++ {
		q.events[i] = Event{}
	}
	q.events = kept

	for _, ev := range ready {
		attrs := q.enrich(ev)
		if err := q.sink.Send(ctx, string(ev.Name), attrs); err != nil {
			q.logger.Error("telemetry: failed to send event", "event", ev.Name, "id", ev.ID.String(), "error", err)
		}
	}
	return len(ready)
}

// BackfillReroute merges attrs into the newest queued reroute event. It
// reports false when no reroute event is waiting.
func (q *Queue) BackfillReroute(attrs map[string]any) bool {
	for i := len(q.events) - 1; i >= 0; i-- {
		if q.events[i].Name == EventReroute {
			merge(q.events[i].Attributes, attrs)
			return true
		}
	}
	return false
}

// Update merges attrs into the queued event with the given id.
func (q *Queue) Update(id uuid.UUID, attrs map[string]any) bool {
	for i := range q.events {
		if q.events[i].ID == id {
			merge(q.events[i].Attributes, attrs)
			return true
		}
	}
	return false
}

func (q *Queue) enrich(ev Event) map[string]any {
	attrs := make(map[string]any, len(ev.Attributes)+6)
	merge(attrs, ev.Attributes)
	attrs["event"] = string(ev.Name)
	attrs["eventId"] = ev.ID.String()
	attrs["created"] = formatTime(ev.Created)

	var before, after []location.Fix
	if q.session != nil {
		attrs["sessionIdentifier"] = q.session.ID.String()
		before, after = q.session.History.Split(ev.Created)
	}
	attrs["locationsBefore"] = fixAttributes(before)
	attrs["locationsAfter"] = fixAttributes(after)
	return attrs
}

func fixAttributes(fixes []location.Fix) []map[string]any {
	out := make([]map[string]any, 0, len(fixes))
	for _, f := range fixes {
		out = append(out, f.Attributes())
	}
	return out
}

func merge(dst, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}
