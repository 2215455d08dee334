// Package session holds the trip-scoped state shared by the guidance engine
// and the telemetry recorder.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/navcore/route"
)

// State is the trip-scoped aggregate. It is written by the guidance engine
// and read by telemetry enrichment on the same serialized timeline.
type State struct {
	ID        uuid.UUID
	StartedAt time.Time

	departedAt time.Time
	arrivedAt  time.Time

	// DistanceCompleted accumulates traveled meters of replaced routes
	DistanceCompleted float64
	RerouteCount      int
	LastRerouteAt     time.Time

	OriginalRoute *route.Route
	CurrentRoute  *route.Route

	History *History
}

// New starts a session for the given route.
func New(r *route.Route, historyCapacity int, now time.Time) *State {
	return &State{
		ID:            uuid.New(),
		StartedAt:     now,
		OriginalRoute: r,
		CurrentRoute:  r,
		History:       NewHistory(historyCapacity),
	}
}

// MarkDeparted records the departure time once; later calls are ignored.
func (s *State) MarkDeparted(t time.Time) bool {
	if !s.departedAt.IsZero() {
		return false
	}
	s.departedAt = t
	return true
}

// MarkArrived records the arrival time once; later calls are ignored.
func (s *State) MarkArrived(t time.Time) bool {
	if !s.arrivedAt.IsZero() {
		return false
	}
	s.arrivedAt = t
	return true
}

// DepartedAt returns the departure time, zero until departed.
func (s *State) DepartedAt() time.Time { return s.departedAt }

// ArrivedAt returns the arrival time, zero until arrived.
func (s *State) ArrivedAt() time.Time { return s.arrivedAt }

// HasArrived reports whether the trip reached its destination.
func (s *State) HasArrived() bool { return !s.arrivedAt.IsZero() }

// ReplaceRoute folds the traveled distance of the outgoing route into the trip
// total and makes r current.
func (s *State) ReplaceRoute(r *route.Route, traveledOnPrevious float64, now time.Time) {
	s.DistanceCompleted += traveledOnPrevious
	s.CurrentRoute = r
	s.RerouteCount++
	s.LastRerouteAt = now
}

// SecondsSinceLastReroute returns -1 when the trip has not been rerouted.
func (s *State) SecondsSinceLastReroute(now time.Time) int {
	if s.LastRerouteAt.IsZero() {
		return -1
	}
	return int(now.Sub(s.LastRerouteAt).Seconds())
}
