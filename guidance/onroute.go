package guidance

import (
	"math"

	"github.com/theoremus-urban-solutions/navcore/geo"
	"github.com/theoremus-urban-solutions/navcore/location"
	"github.com/theoremus-urban-solutions/navcore/route"
)

// UserIsOnRoute reports whether the fix's look-ahead point lies within the
// acceptance radius of the current or the upcoming step.
func (e *Engine) UserIsOnRoute(fix location.Fix) bool {
	current, upcoming := e.checkOnRoute(fix)
	return current || upcoming
}

// checkOnRoute tests the look-ahead point against the current step first and
// then against the upcoming one.
func (e *Engine) checkOnRoute(fix location.Fix) (current, upcoming bool) {
	point := e.lookAhead(fix)
	radius := e.acceptanceRadius(fix)

	lp := e.progress.LegProgress()
	if within(lp.CurrentStep().Coordinates, point, radius) {
		return true, false
	}
	if next, ok := lp.UpcomingStep(); ok && within(next.Coordinates, point, radius) {
		return false, true
	}
	return false, false
}

// lookAhead projects the fix forward by speed × reaction time along its course.
func (e *Engine) lookAhead(fix location.Fix) geo.Coordinate {
	if !fix.HasSpeed() || !fix.HasCourse() {
		return fix.Coordinate
	}
	ahead := fix.Speed * e.cfg.ReactionTime.Seconds()
	return geo.Offset(fix.Coordinate, ahead, fix.Course)
}

func (e *Engine) acceptanceRadius(fix location.Fix) float64 {
	return math.Max(e.cfg.MinimumRadius, fix.HorizontalAccuracy+e.cfg.SnappingSlack)
}

func within(line []geo.Coordinate, p geo.Coordinate, radius float64) bool {
	proj, ok := geo.ClosestPoint(line, p)
	return ok && proj.Distance <= radius
}

// distanceFromStart measures from the first coordinate of step to the fix,
// snapped onto the step when it lies within radius of it.
func distanceFromStart(step route.Step, fix location.Fix, radius float64) float64 {
	if len(step.Coordinates) == 0 {
		return 0
	}
	at := fix.Coordinate
	if proj, ok := geo.ClosestPoint(step.Coordinates, at); ok && proj.Distance <= radius {
		at = proj.Coordinate
	}
	return geo.Distance(step.Coordinates[0], at)
}
