package guidance

import (
	"context"
	"fmt"

	"github.com/theoremus-urban-solutions/navcore/location"
	"github.com/theoremus-urban-solutions/navcore/progress"
	"github.com/theoremus-urban-solutions/navcore/route"
)

// RerouteResult is the outcome of one asynchronous recalculation. It must be
// handed back to the engine with RerouteCompleted on the owner's timeline.
type RerouteResult struct {
	RequestID uint64
	Route     *route.Route
	Err       error
}

type rerouteState struct {
	base       context.Context
	cancelBase context.CancelFunc

	inFlight bool
	current  uint64
	cancel   context.CancelFunc
	results  chan RerouteResult
}

func newRerouteState() rerouteState {
	base, cancel := context.WithCancel(context.Background())
	return rerouteState{
		base:       base,
		cancelBase: cancel,
		results:    make(chan RerouteResult, 1),
	}
}

func (r *rerouteState) stop() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.cancelBase()
}

// Completions delivers recalculation results. The owner must pass every
// received value to RerouteCompleted.
func (e *Engine) Completions() <-chan RerouteResult { return e.reroute.results }

// IsRerouting reports whether a recalculation is outstanding.
func (e *Engine) IsRerouting() bool { return e.reroute.inFlight }

// startReroute requests a new route from fix to the remaining waypoints. At
// most one request is in flight.
func (e *Engine) startReroute(fix location.Fix) {
	if e.reroute.inFlight || e.closed {
		return
	}
	e.drift.reset()
	e.emit(Notification{Kind: WillReroute, Fix: fix})

	if e.directions == nil {
		e.emit(Notification{Kind: RerouteFailed, Err: fmt.Errorf("reroute: no directions service: %w", ErrNoRoute)})
		return
	}

	origin := route.NewWaypoint(fix.Coordinate, "")
	if fix.HasCourse() {
		origin.Heading = fix.Course
		origin.HeadingTolerance = e.cfg.RerouteHeadingTolerance
	}
	current := e.progress.Route().Options
	opts := route.Options{
		Waypoints: append([]route.Waypoint{origin}, e.progress.RemainingWaypoints()...),
		Profile:   current.ProfileOrDefault(),
	}

	e.reroute.inFlight = true
	e.reroute.current++
	id := e.reroute.current
	ctx, cancel := context.WithTimeout(e.reroute.base, e.cfg.RerouteTimeout)
	e.reroute.cancel = cancel

	e.logger.Info("requesting reroute", "request", id, "lat", fix.Coordinate.Lat, "lng", fix.Coordinate.Lon, "waypoints", len(opts.Waypoints))

	// one request at a time, so the buffered send never blocks
	results := e.reroute.results
	go func(svc Directions) {
		r, err := svc.Calculate(ctx, opts)
		if err == nil && r == nil {
			err = ErrNoRoute
		}
		results <- RerouteResult{RequestID: id, Route: r, Err: err}
	}(e.directions)
}

// RerouteCompleted applies a recalculation result. Results of superseded
// requests are ignored.
func (e *Engine) RerouteCompleted(res RerouteResult) {
	if !e.reroute.inFlight || res.RequestID != e.reroute.current {
		e.logger.Debug("ignoring stale reroute result", "request", res.RequestID)
		return
	}
	e.reroute.inFlight = false
	if e.reroute.cancel != nil {
		e.reroute.cancel()
		e.reroute.cancel = nil
	}

	err := res.Err
	if err == nil {
		err = validateRoute(res.Route)
	}
	if err != nil {
		e.logger.Warn("reroute failed", "request", res.RequestID, "error", err)
		e.emit(Notification{Kind: RerouteFailed, Err: err})
		return
	}

	traveled := e.progress.DistanceTraveled()
	first := res.Route.Legs[0].Steps[0]
	e.progress = progress.New(res.Route, e.levelForStep(first))
	e.session.ReplaceRoute(res.Route, traveled, e.now())
	e.drift.reset()

	e.logger.Info("rerouted", "request", res.RequestID, "distance", res.Route.Distance, "reroutes", e.session.RerouteCount)
	e.emit(Notification{Kind: DidReroute, Route: res.Route, Progress: e.progress.Snapshot()})
}
