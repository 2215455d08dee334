package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/navcore/geo"
	"github.com/theoremus-urban-solutions/navcore/internal/testroute"
	"github.com/theoremus-urban-solutions/navcore/location"
)

var t0 = time.Date(2025, 10, 3, 8, 0, 0, 0, time.UTC)

func fixAt(sec int) location.Fix {
	return location.Fix{
		Coordinate: geo.Coordinate{Lat: float64(sec) / 1000},
		Timestamp:  t0.Add(time.Duration(sec) * time.Second),
	}
}

func TestHistory_EvictsOldestFirst(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Push(fixAt(i))
	}

	require.Equal(t, 3, h.Len())
	snap := h.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, t0.Add(2*time.Second), snap[0].Timestamp)
	assert.Equal(t, t0.Add(4*time.Second), snap[2].Timestamp)

	latest, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, t0.Add(4*time.Second), latest.Timestamp)

	_, ok = h.At(3)
	assert.False(t, ok)
}

func TestHistory_DefaultCapacity(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, DefaultHistoryCapacity, h.Cap())

	for i := 0; i < 100; i++ {
		h.Push(fixAt(i))
	}
	assert.Equal(t, 40, h.Len())
	first, _ := h.At(0)
	assert.Equal(t, t0.Add(60*time.Second), first.Timestamp)

	_, ok := NewHistory(2).Latest()
	assert.False(t, ok, "empty buffer has no latest fix")
}

func TestHistory_Split(t *testing.T) {
	h := NewHistory(10)
	for i := 0; i < 6; i++ {
		h.Push(fixAt(i))
	}

	before, after := h.Split(t0.Add(2 * time.Second))
	assert.Len(t, before, 3, "fixes at or before the event")
	assert.Len(t, after, 3)
	assert.Equal(t, t0.Add(3*time.Second), after[0].Timestamp)

	before, after = h.Split(t0.Add(-time.Second))
	assert.Empty(t, before)
	assert.Len(t, after, 6)
}

func TestState_TimestampsSetOnce(t *testing.T) {
	s := New(testroute.Straight(1000), 0, t0)
	assert.NotEqual(t, uuid.Nil, s.ID)

	assert.True(t, s.MarkDeparted(t0))
	assert.False(t, s.MarkDeparted(t0.Add(time.Minute)))
	assert.Equal(t, t0, s.DepartedAt())

	assert.False(t, s.HasArrived())
	assert.True(t, s.MarkArrived(t0.Add(time.Hour)))
	assert.False(t, s.MarkArrived(t0.Add(2*time.Hour)))
	assert.Equal(t, t0.Add(time.Hour), s.ArrivedAt())
	assert.True(t, s.HasArrived())
}

func TestState_ReplaceRoute(t *testing.T) {
	original := testroute.Straight(1000)
	s := New(original, 0, t0)
	assert.Equal(t, -1, s.SecondsSinceLastReroute(t0))

	replacement := testroute.Straight(2000)
	s.ReplaceRoute(replacement, 250, t0.Add(time.Minute))
	s.ReplaceRoute(replacement, 100, t0.Add(2*time.Minute))

	assert.Same(t, original, s.OriginalRoute)
	assert.Same(t, replacement, s.CurrentRoute)
	assert.InDelta(t, 350, s.DistanceCompleted, 1e-9)
	assert.Equal(t, 2, s.RerouteCount)
	assert.Equal(t, 30, s.SecondsSinceLastReroute(t0.Add(150*time.Second)))
}
