package progress

import (
	"time"

	"github.com/theoremus-urban-solutions/navcore/route"
)

// RouteProgress tracks travel along a whole route. It is replaced, never
// reset, when the route changes.
type RouteProgress struct {
	route       *route.Route
	legProgress LegProgress
}

// New starts tracking r from its first leg and step with the given alert level.
func New(r *route.Route, level AlertLevel) *RouteProgress {
	rp := &RouteProgress{route: r}
	if leg, ok := r.Leg(0); ok {
		rp.legProgress = NewLegProgress(leg, 0, level)
	}
	return rp
}

// Route returns the route being tracked.
func (r *RouteProgress) Route() *route.Route { return r.route }

// LegProgress returns the progress along the current leg.
func (r *RouteProgress) LegProgress() *LegProgress { return &r.legProgress }

// AlertLevel is shorthand for the current leg's alert level.
func (r *RouteProgress) AlertLevel() AlertLevel { return r.legProgress.alertLevel }

// StepIndex is shorthand for the current leg's step index.
func (r *RouteProgress) StepIndex() int { return r.legProgress.stepIndex }

// DistanceTraveled returns the meters traveled since the route began.
func (r *RouteProgress) DistanceTraveled() float64 {
	d := 0.0
	for i := 0; i < r.legProgress.legIndex && i < len(r.route.Legs); i++ {
		d += r.route.Legs[i].Distance
	}
	return d + r.legProgress.DistanceTraveled()
}

// DistanceRemaining returns the meters left until the final waypoint.
func (r *RouteProgress) DistanceRemaining() float64 {
	d := r.legProgress.DistanceRemaining()
	for i := r.legProgress.legIndex + 1; i < len(r.route.Legs); i++ {
		d += r.route.Legs[i].Distance
	}
	return d
}

// DurationRemaining returns the expected time left until the final waypoint.
func (r *RouteProgress) DurationRemaining() time.Duration {
	d := r.legProgress.DurationRemaining()
	for i := r.legProgress.legIndex + 1; i < len(r.route.Legs); i++ {
		d += r.route.Legs[i].ExpectedTravelTime
	}
	return d
}

// FractionTraveled returns the traveled share of the route in [0,1].
func (r *RouteProgress) FractionTraveled() float64 {
	if r.route.Distance <= 0 {
		return 1
	}
	f := r.DistanceTraveled() / r.route.Distance
	if f > 1 {
		return 1
	}
	return f
}

// RemainingWaypoints returns the waypoints still ahead of the current leg.
func (r *RouteProgress) RemainingWaypoints() []route.Waypoint {
	wps := r.route.Options.Waypoints
	from := r.legProgress.legIndex + 1
	if from >= len(wps) {
		return nil
	}
	out := make([]route.Waypoint, len(wps)-from)
	copy(out, wps[from:])
	return out
}

// Snapshot returns an independent copy safe to hand to observers.
func (r *RouteProgress) Snapshot() RouteProgress {
	return *r
}
