package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/navcore/geo"
	"github.com/theoremus-urban-solutions/navcore/internal/testroute"
	"github.com/theoremus-urban-solutions/navcore/location"
	"github.com/theoremus-urban-solutions/navcore/session"
)

var t0 = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func newSession() *session.State {
	return session.New(testroute.Straight(1000), 40, t0)
}

func pushFixes(s *session.State, offsets ...time.Duration) {
	for i, off := range offsets {
		s.History.Push(location.Fix{
			Coordinate: geo.Coordinate{Lat: 0, Lon: float64(i) * 0.001},
			Course:     90,
			Speed:      10,
			Timestamp:  t0.Add(off),
		})
	}
}

type failingSink struct{ calls int }

func (s *failingSink) Send(context.Context, string, map[string]any) error {
	s.calls++
	return errors.New("connection refused")
}

func TestFlushMaturedWindow(t *testing.T) {
	tests := []struct {
		name     string
		at       time.Duration
		forceAll bool
		want     int
	}{
		{name: "before window", at: 3 * time.Second, want: 0},
		{name: "exactly at window", at: 5 * time.Second, want: 1},
		{name: "after window", at: 6 * time.Second, want: 1},
		{name: "forced", at: time.Second, forceAll: true, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := NewMemorySink()
			q := NewQueue(newSession(), sink, 5*time.Second, nil)
			q.Enqueue(NewEvent(EventReroute, t0, nil))

			n := q.FlushMatured(context.Background(), t0.Add(tt.at), tt.forceAll)
			assert.Equal(t, tt.want, n)
			assert.Len(t, sink.Records(), tt.want)
			assert.Equal(t, 1-tt.want, q.Len())
		})
	}
}

func TestFlushMaturedKeepsOrder(t *testing.T) {
	sink := NewMemorySink()
	q := NewQueue(newSession(), sink, 5*time.Second, nil)
	q.Enqueue(NewEvent(EventDepart, t0, nil))
	q.Enqueue(NewEvent(EventFeedback, t0.Add(time.Second), nil))
	q.Enqueue(NewEvent(EventReroute, t0.Add(10*time.Second), nil))

	assert.Equal(t, 2, q.FlushMatured(context.Background(), t0.Add(7*time.Second), false))
	assert.Equal(t, []string{"depart", "feedback"}, sink.Names())
	assert.Equal(t, 1, q.Len())

	assert.Equal(t, 1, q.FlushMatured(context.Background(), t0.Add(7*time.Second), true))
	assert.Equal(t, []string{"depart", "feedback", "reroute"}, sink.Names())
	assert.Zero(t, q.Len())
}

func TestFlushSplitsHistoryAroundEvent(t *testing.T) {
	s := newSession()
	pushFixes(s, 0, time.Second, 2*time.Second, 3*time.Second, 4*time.Second)

	sink := NewMemorySink()
	q := NewQueue(s, sink, 5*time.Second, nil)
	ev := NewEvent(EventReroute, t0.Add(2*time.Second), map[string]any{"distanceRemaining": 500.0})
	q.Enqueue(ev)
	q.FlushMatured(context.Background(), t0.Add(10*time.Second), false)

	records := sink.Records()
	require.Len(t, records, 1)
	attrs := records[0].Attributes
	assert.Len(t, attrs["locationsBefore"], 3)
	assert.Len(t, attrs["locationsAfter"], 2)
	assert.Equal(t, ev.ID.String(), attrs["eventId"])
	assert.Equal(t, s.ID.String(), attrs["sessionIdentifier"])
	assert.Equal(t, "reroute", attrs["event"])
	assert.Equal(t, 500.0, attrs["distanceRemaining"])
}

func TestFlushSinkErrorDropsEvent(t *testing.T) {
	sink := &failingSink{}
	q := NewQueue(newSession(), sink, 0, nil)
	q.Enqueue(NewEvent(EventDepart, t0, nil))
	q.Enqueue(NewEvent(EventArrive, t0, nil))

	assert.Equal(t, 2, q.FlushMatured(context.Background(), t0, false))
	assert.Equal(t, 2, sink.calls)
	assert.Zero(t, q.Len())
}

func TestBackfillRerouteUpdatesNewest(t *testing.T) {
	sink := NewMemorySink()
	q := NewQueue(newSession(), sink, time.Minute, nil)

	assert.False(t, q.BackfillReroute(map[string]any{"newDistanceRemaining": 1.0}))

	first := NewEvent(EventReroute, t0, nil)
	second := NewEvent(EventReroute, t0.Add(time.Second), nil)
	q.Enqueue(first)
	q.Enqueue(second)
	q.Enqueue(NewEvent(EventFeedback, t0.Add(2*time.Second), nil))

	assert.True(t, q.BackfillReroute(map[string]any{"newDistanceRemaining": 800.0}))
	q.FlushMatured(context.Background(), t0, true)

	records := sink.Records()
	require.Len(t, records, 3)
	assert.NotContains(t, records[0].Attributes, "newDistanceRemaining")
	assert.Equal(t, 800.0, records[1].Attributes["newDistanceRemaining"])
}

func TestNewEventCopiesAttributes(t *testing.T) {
	attrs := map[string]any{"a": 1}
	ev := NewEvent(EventDepart, t0, attrs)
	attrs["a"] = 2
	assert.Equal(t, 1, ev.Attributes["a"])
}
