package guidance

import (
	"github.com/theoremus-urban-solutions/navcore/geo"
	"github.com/theoremus-urban-solutions/navcore/location"
	"github.com/theoremus-urban-solutions/navcore/progress"
	"github.com/theoremus-urban-solutions/navcore/route"
)

// monitorStepProgress updates the traveled distance and runs the alert-level
// state machine for an on-route fix. advanced is true when the step index
// already moved during this fix; a second advance is then not allowed.
func (e *Engine) monitorStepProgress(fix location.Fix, advanced bool, levelBefore progress.AlertLevel, indexBefore int) {
	lp := e.progress.LegProgress()
	step := lp.CurrentStep()
	sp := lp.CurrentStepProgress()
	sp.SetDistanceTraveled(geo.DistanceAlong(step.Coordinates, fix.Coordinate))

	remaining := sp.DistanceRemaining()
	seconds := secondsRemaining(remaining, fix.Speed)

	level := lp.AlertLevel()
	if level == progress.AlertNone {
		level = progress.AlertDepart
	}
	computed := level
	advance := false
	inZone := remaining <= e.cfg.ManeuverZoneRadius

	switch {
	case step.IsArrival():
		computed = progress.AlertArrive
	case inZone && level == progress.AlertDepart && seconds <= e.cfg.HighAlertInterval.Seconds():
		computed = progress.AlertHigh
	case inZone:
		sp.ObserveDistanceToManeuver(remaining)
		next, ok := lp.UpcomingStep()
		if !ok {
			break
		}
		if next.IsArrival() {
			computed = progress.AlertArrive
		} else if !advanced && e.headingMatches(fix, next) {
			computed = e.levelForStep(next)
			advance = true
		}
	case seconds <= e.cfg.HighAlertInterval.Seconds() && e.longEnough(step, lp.StepIndex(), e.cfg.MinimumDistanceForHighAlert):
		computed = progress.AlertHigh
	case seconds <= e.cfg.MediumAlertInterval.Seconds() && e.longEnough(step, lp.StepIndex(), e.cfg.MinimumDistanceForMediumAlert):
		computed = progress.AlertMedium
	}

	if advance {
		lp.AdvanceStep(computed)
		next := lp.CurrentStep()
		lp.CurrentStepProgress().SetDistanceTraveled(geo.DistanceAlong(next.Coordinates, fix.Coordinate))
		remaining = lp.StepProgress().DistanceRemaining()
		seconds = secondsRemaining(remaining, fix.Speed)
	} else {
		lp.Raise(computed)
	}

	if e.session.MarkDeparted(fix.Timestamp) {
		e.logger.Info("departed", "step", lp.StepIndex())
	}

	if lp.AlertLevel() != levelBefore || lp.StepIndex() != indexBefore {
		e.logger.Info("alert level changed", "step", lp.StepIndex(), "level", lp.AlertLevel().String(), "previous", levelBefore.String())
		e.emit(Notification{
			Kind:               AlertLevelChanged,
			Progress:           e.progress.Snapshot(),
			Fix:                fix,
			DistanceToManeuver: remaining,
		})
	}

	if lp.AlertLevel() == progress.AlertArrive && e.session.MarkArrived(fix.Timestamp) {
		e.logger.Info("arrived", "distance", e.session.DistanceCompleted+e.progress.DistanceTraveled())
	}

	e.emit(Notification{
		Kind:             ProgressChanged,
		Progress:         e.progress.Snapshot(),
		Fix:              fix,
		SecondsRemaining: seconds,
	})
}

// levelForStep is the level a freshly entered step starts at.
func (e *Engine) levelForStep(step route.Step) progress.AlertLevel {
	if step.IsArrival() {
		return progress.AlertArrive
	}
	if step.ExpectedTravelTime <= e.cfg.MediumAlertInterval {
		return progress.AlertMedium
	}
	return progress.AlertLow
}

// longEnough applies the step-length floor; it is waived on the first step so
// short steps near the trip start still alert.
func (e *Engine) longEnough(step route.Step, index int, floor float64) bool {
	return index == 0 || step.Distance > floor
}

func (e *Engine) headingMatches(fix location.Fix, next route.Step) bool {
	return fix.HasCourse() && geo.AngularDifference(fix.Course, next.FinalHeading) <= e.cfg.HeadingTolerance
}

func secondsRemaining(distance, speed float64) float64 {
	if speed <= 0 {
		return UnknownSecondsRemaining
	}
	return distance / speed
}
