package guidance

import (
	"math"
	"time"
)

// UnknownSecondsRemaining is used as the time to the end of a step when the
// traveler's speed is unknown.
const UnknownSecondsRemaining = float64(math.MaxInt32)

// Config holds the thresholds of the guidance state machine. Distances are in
// meters, angles in degrees.
type Config struct {
	// ReactionTime scales speed into the look-ahead distance used for the off-route test
	ReactionTime time.Duration
	// MinimumRadius is the smallest acceptance radius around the step geometry
	MinimumRadius float64
	// SnappingSlack is added to the fix's horizontal accuracy to get the acceptance radius
	SnappingSlack float64
	// ManeuverZoneRadius is the distance to the maneuver under which completion is evaluated
	ManeuverZoneRadius float64
	// HeadingTolerance is the largest course deviation accepted as a completed maneuver
	HeadingTolerance float64

	HighAlertInterval             time.Duration
	MediumAlertInterval           time.Duration
	MinimumDistanceForHighAlert   float64
	MinimumDistanceForMediumAlert float64

	// DepartureGraceInterval is how long the traveler may move away from the
	// start of the route before a reroute is requested
	DepartureGraceInterval time.Duration

	RerouteHeadingTolerance float64
	RerouteTimeout          time.Duration

	HistoryCapacity int
}

// DefaultConfig returns the thresholds used when none are configured.
func DefaultConfig() Config {
	return Config{
		ReactionTime:                  time.Second,
		MinimumRadius:                 50,
		SnappingSlack:                 10,
		ManeuverZoneRadius:            40,
		HeadingTolerance:              30,
		HighAlertInterval:             15 * time.Second,
		MediumAlertInterval:           70 * time.Second,
		MinimumDistanceForHighAlert:   100,
		MinimumDistanceForMediumAlert: 400,
		DepartureGraceInterval:        3 * time.Second,
		RerouteHeadingTolerance:       90,
		RerouteTimeout:                10 * time.Second,
		HistoryCapacity:               40,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ReactionTime < 0 {
		c.ReactionTime = 0
	}
	if c.MinimumRadius <= 0 {
		c.MinimumRadius = d.MinimumRadius
	}
	if c.SnappingSlack < 0 {
		c.SnappingSlack = 0
	}
	if c.ManeuverZoneRadius <= 0 {
		c.ManeuverZoneRadius = d.ManeuverZoneRadius
	}
	if c.HeadingTolerance <= 0 {
		c.HeadingTolerance = d.HeadingTolerance
	}
	if c.HighAlertInterval <= 0 {
		c.HighAlertInterval = d.HighAlertInterval
	}
	if c.MediumAlertInterval <= 0 {
		c.MediumAlertInterval = d.MediumAlertInterval
	}
	if c.DepartureGraceInterval <= 0 {
		c.DepartureGraceInterval = d.DepartureGraceInterval
	}
	if c.RerouteHeadingTolerance <= 0 {
		c.RerouteHeadingTolerance = d.RerouteHeadingTolerance
	}
	if c.RerouteTimeout <= 0 {
		c.RerouteTimeout = d.RerouteTimeout
	}
	if c.HistoryCapacity < 1 {
		c.HistoryCapacity = d.HistoryCapacity
	}
	return c
}
