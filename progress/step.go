package progress

import (
	"time"

	"github.com/theoremus-urban-solutions/navcore/route"
)

// StepProgress tracks travel along a single step.
type StepProgress struct {
	step             route.Step
	distanceTraveled float64

	// minimum distance to the maneuver seen while inside the maneuver zone
	watermark    float64
	hasWatermark bool
}

// NewStepProgress starts tracking a step from its beginning.
func NewStepProgress(step route.Step) StepProgress {
	return StepProgress{step: step}
}

// Step returns the step being tracked.
func (s StepProgress) Step() route.Step { return s.step }

// DistanceTraveled returns the meters traveled along the step.
func (s StepProgress) DistanceTraveled() float64 { return s.distanceTraveled }

// SetDistanceTraveled records the traveled distance, clamped to the step.
func (s *StepProgress) SetDistanceTraveled(d float64) {
	switch {
	case d < 0:
		d = 0
	case d > s.step.Distance:
		d = s.step.Distance
	}
	s.distanceTraveled = d
}

// DistanceRemaining returns the meters left until the end of the step.
func (s StepProgress) DistanceRemaining() float64 {
	r := s.step.Distance - s.distanceTraveled
	if r < 0 {
		return 0
	}
	return r
}

// FractionTraveled returns the traveled share of the step in [0,1].
func (s StepProgress) FractionTraveled() float64 {
	if s.step.Distance <= 0 {
		return 1
	}
	return s.distanceTraveled / s.step.Distance
}

// DurationRemaining scales the step's expected travel time by the distance left.
func (s StepProgress) DurationRemaining() time.Duration {
	return time.Duration((1 - s.FractionTraveled()) * float64(s.step.ExpectedTravelTime))
}

// Watermark returns the last known distance to the maneuver, if any.
func (s StepProgress) Watermark() (float64, bool) {
	return s.watermark, s.hasWatermark
}

// ObserveDistanceToManeuver lowers the watermark. It is set when unset or
// when d is less than or equal to the current value; returns whether it moved.
func (s *StepProgress) ObserveDistanceToManeuver(d float64) bool {
	if s.hasWatermark && d > s.watermark {
		return false
	}
	s.watermark = d
	s.hasWatermark = true
	return true
}

// MovingAway reports whether d exceeds the recorded watermark, meaning the
// traveler is now heading away from the maneuver point.
func (s StepProgress) MovingAway(d float64) bool {
	return s.hasWatermark && d > s.watermark
}
