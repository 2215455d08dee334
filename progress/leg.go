package progress

import (
	"time"

	"github.com/theoremus-urban-solutions/navcore/route"
)

// LegProgress tracks the current step and alert level within a leg.
type LegProgress struct {
	leg          route.Leg
	legIndex     int
	stepIndex    int
	alertLevel   AlertLevel
	stepProgress StepProgress
}

// NewLegProgress starts tracking a leg at its first step.
func NewLegProgress(leg route.Leg, legIndex int, level AlertLevel) LegProgress {
	lp := LegProgress{leg: leg, legIndex: legIndex, alertLevel: level}
	if step, ok := leg.Step(0); ok {
		lp.stepProgress = NewStepProgress(step)
	}
	return lp
}

func (l LegProgress) Leg() route.Leg                      { return l.leg }
func (l LegProgress) LegIndex() int                       { return l.legIndex }
func (l LegProgress) StepIndex() int                      { return l.stepIndex }
func (l LegProgress) AlertLevel() AlertLevel              { return l.alertLevel }
func (l LegProgress) StepProgress() StepProgress          { return l.stepProgress }
func (l *LegProgress) CurrentStepProgress() *StepProgress { return &l.stepProgress }

// CurrentStep returns the step being traveled.
func (l LegProgress) CurrentStep() route.Step { return l.stepProgress.step }

// UpcomingStep returns the step after the current one.
func (l LegProgress) UpcomingStep() (route.Step, bool) {
	return l.leg.Step(l.stepIndex + 1)
}

// FollowOnStep returns the step after the upcoming one.
func (l LegProgress) FollowOnStep() (route.Step, bool) {
	return l.leg.Step(l.stepIndex + 2)
}

// IsFinalStep reports whether the current step is the last of the leg.
func (l LegProgress) IsFinalStep() bool {
	return l.stepIndex >= len(l.leg.Steps)-1
}

// DistanceTraveled sums completed steps and the traveled share of the current one.
func (l LegProgress) DistanceTraveled() float64 {
	d := 0.0
	for i := 0; i < l.stepIndex && i < len(l.leg.Steps); i++ {
		d += l.leg.Steps[i].Distance
	}
	return d + l.stepProgress.distanceTraveled
}

// DistanceRemaining returns the meters left until the end of the leg.
func (l LegProgress) DistanceRemaining() float64 {
	d := l.stepProgress.DistanceRemaining()
	for i := l.stepIndex + 1; i < len(l.leg.Steps); i++ {
		d += l.leg.Steps[i].Distance
	}
	return d
}

// DurationRemaining returns the expected time left on the leg.
func (l LegProgress) DurationRemaining() time.Duration {
	d := l.stepProgress.DurationRemaining()
	for i := l.stepIndex + 1; i < len(l.leg.Steps); i++ {
		d += l.leg.Steps[i].ExpectedTravelTime
	}
	return d
}

// Raise applies level only when it is strictly higher than the current one.
func (l *LegProgress) Raise(level AlertLevel) bool {
	if level <= l.alertLevel {
		return false
	}
	l.alertLevel = level
	return true
}

// AdvanceStep moves to the next step and re-seeds the alert level, which may
// be lower than the previous one. Returns false on the final step.
func (l *LegProgress) AdvanceStep(level AlertLevel) bool {
	next, ok := l.leg.Step(l.stepIndex + 1)
	if !ok {
		return false
	}
	l.stepIndex++
	l.stepProgress = NewStepProgress(next)
	l.alertLevel = level
	return true
}
