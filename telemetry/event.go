package telemetry

import (
	"time"

	"github.com/google/uuid"
)

// Name identifies the kind of a telemetry event.
type Name string

const (
	EventDepart   Name = "depart"
	EventArrive   Name = "arrive"
	EventCancel   Name = "cancel"
	EventFeedback Name = "feedback"
	EventReroute  Name = "reroute"
)

// Event is a queued telemetry record.
type Event struct {
	ID         uuid.UUID
	Name       Name
	Created    time.Time
	Attributes map[string]any
}

// NewEvent returns an event with a fresh identifier. attrs is copied.
func NewEvent(name Name, created time.Time, attrs map[string]any) Event {
	a := make(map[string]any, len(attrs)+4)
	for k, v := range attrs {
		a[k] = v
	}
	return Event{
		ID:         uuid.New(),
		Name:       name,
		Created:    created,
		Attributes: a,
	}
}

func (e Event) matured(now time.Time, window time.Duration) bool {
	return now.Sub(e.Created) >= window
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
