package route

import (
	"time"

	"github.com/theoremus-urban-solutions/navcore/geo"
)

// ManeuverType is the kind of action required at the start of a step.
type ManeuverType string

const (
	ManeuverDepart       ManeuverType = "depart"
	ManeuverArrive       ManeuverType = "arrive"
	ManeuverTurn         ManeuverType = "turn"
	ManeuverContinue     ManeuverType = "continue"
	ManeuverMerge        ManeuverType = "merge"
	ManeuverOnRamp       ManeuverType = "on ramp"
	ManeuverOffRamp      ManeuverType = "off ramp"
	ManeuverFork         ManeuverType = "fork"
	ManeuverEndOfRoad    ManeuverType = "end of road"
	ManeuverNewName      ManeuverType = "new name"
	ManeuverRoundabout   ManeuverType = "roundabout"
	ManeuverRotary       ManeuverType = "rotary"
	ManeuverNotification ManeuverType = "notification"
)

// DefaultProfile is used when options do not name a routing profile.
const DefaultProfile = "driving"

// Step is one maneuver-to-maneuver segment of a leg.
type Step struct {
	Coordinates       []geo.Coordinate `json:"coordinates"`
	ManeuverType      ManeuverType     `json:"maneuverType"`
	ManeuverDirection string           `json:"maneuverDirection,omitempty"`
	ManeuverLocation  geo.Coordinate   `json:"maneuverLocation"`
	// Headings in degrees immediately before and after the maneuver
	InitialHeading     float64       `json:"initialHeading"`
	FinalHeading       float64       `json:"finalHeading"`
	Distance           float64       `json:"distance"`
	ExpectedTravelTime time.Duration `json:"expectedTravelTime"`
	Name               string        `json:"name,omitempty"`
	Instructions       string        `json:"instructions,omitempty"`
}

// IsArrival reports whether the step is the final arrival maneuver of a leg.
func (s Step) IsArrival() bool { return s.ManeuverType == ManeuverArrive }

// IsDeparture reports whether the step is the departure maneuver of a leg.
func (s Step) IsDeparture() bool { return s.ManeuverType == ManeuverDepart }

// Leg is the part of a route between two consecutive waypoints.
type Leg struct {
	Steps              []Step        `json:"steps"`
	Distance           float64       `json:"distance"`
	ExpectedTravelTime time.Duration `json:"expectedTravelTime"`
	Summary            string        `json:"summary,omitempty"`
}

// Step returns the step at index i.
func (l Leg) Step(i int) (Step, bool) {
	if i < 0 || i >= len(l.Steps) {
		return Step{}, false
	}
	return l.Steps[i], true
}

// Waypoint is a location the route must pass through.
type Waypoint struct {
	Coordinate geo.Coordinate `json:"coordinate"`
	// Heading biases the route start direction; negative means unset
	Heading          float64 `json:"heading"`
	HeadingTolerance float64 `json:"headingTolerance"`
	Name             string  `json:"name,omitempty"`
}

// HasHeading reports whether the waypoint carries a heading bias.
func (w Waypoint) HasHeading() bool { return w.Heading >= 0 }

// NewWaypoint returns a waypoint without a heading bias.
func NewWaypoint(c geo.Coordinate, name string) Waypoint {
	return Waypoint{Coordinate: c, Heading: -1, Name: name}
}

// Options is the request a route was calculated from.
type Options struct {
	Waypoints []Waypoint `json:"waypoints"`
	Profile   string     `json:"profile"`
}

// ProfileOrDefault returns the profile, falling back to DefaultProfile.
func (o Options) ProfileOrDefault() string {
	if o.Profile == "" {
		return DefaultProfile
	}
	return o.Profile
}

// Route is an ordered sequence of legs together with the options used to request it.
type Route struct {
	Legs               []Leg            `json:"legs"`
	Coordinates        []geo.Coordinate `json:"coordinates"`
	Distance           float64          `json:"distance"`
	ExpectedTravelTime time.Duration    `json:"expectedTravelTime"`
	Options            Options          `json:"options"`
}

// Leg returns the leg at index i.
func (r *Route) Leg(i int) (Leg, bool) {
	if r == nil || i < 0 || i >= len(r.Legs) {
		return Leg{}, false
	}
	return r.Legs[i], true
}

// Geometry returns the overview coordinates, falling back to the
// concatenation of every step polyline when no overview was supplied.
func (r *Route) Geometry() []geo.Coordinate {
	if r == nil {
		return nil
	}
	if len(r.Coordinates) > 0 {
		return r.Coordinates
	}
	var out []geo.Coordinate
	for _, leg := range r.Legs {
		for _, step := range leg.Steps {
			for _, c := range step.Coordinates {
				if n := len(out); n > 0 && out[n-1] == c {
					continue
				}
				out = append(out, c)
			}
		}
	}
	return out
}

// EncodedGeometry returns the route geometry as a polyline6 string.
func (r *Route) EncodedGeometry() string {
	return EncodePolyline(r.Geometry(), Precision6)
}
