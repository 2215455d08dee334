package guidance

import (
	"time"

	"github.com/theoremus-urban-solutions/navcore/location"
)

// driftGuard delays rerouting while the traveler is still on the departure
// step. A reroute is only allowed after the distance to the route start has
// been growing for longer than the grace interval. A distance equal to the
// previous one is ignored so a parked vehicle with jittery GPS never reroutes.
type driftGuard struct {
	grace time.Duration

	last  float64
	has   bool
	since time.Time // first fix of the current moving-away run
}

func newDriftGuard(grace time.Duration) driftGuard {
	return driftGuard{grace: grace}
}

// suppress records the fix's distance from the route start and reports
// whether the reroute must be held back.
func (g *driftGuard) suppress(fix location.Fix, distanceFromStart float64) bool {
	if !g.has {
		g.last = distanceFromStart
		g.has = true
		return true
	}
	switch {
	case distanceFromStart == g.last:
		return true
	case distanceFromStart < g.last:
		g.last = distanceFromStart
		g.since = time.Time{}
		return true
	}

	g.last = distanceFromStart
	if g.since.IsZero() {
		g.since = fix.Timestamp
	}
	return fix.Timestamp.Sub(g.since) <= g.grace
}

func (g *driftGuard) reset() {
	g.last = 0
	g.has = false
	g.since = time.Time{}
}
