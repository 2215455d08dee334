package directions

import (
	"fmt"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/navcore/geo"
	"github.com/theoremus-urban-solutions/navcore/route"
)

type response struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64   `json:"distance"`
	Duration float64   `json:"duration"`
	Geometry string    `json:"geometry"`
	Legs     []osrmLeg `json:"legs"`
}

type osrmLeg struct {
	Distance float64    `json:"distance"`
	Duration float64    `json:"duration"`
	Summary  string     `json:"summary"`
	Steps    []osrmStep `json:"steps"`
}

type osrmStep struct {
	Distance float64      `json:"distance"`
	Duration float64      `json:"duration"`
	Geometry string       `json:"geometry"`
	Name     string       `json:"name"`
	Maneuver osrmManeuver `json:"maneuver"`
}

type osrmManeuver struct {
	Type          string    `json:"type"`
	Modifier      string    `json:"modifier"`
	Location      []float64 `json:"location"`
	BearingBefore float64   `json:"bearing_before"`
	BearingAfter  float64   `json:"bearing_after"`
}

func (r osrmRoute) toRoute(opts route.Options) (*route.Route, error) {
	geometry, err := route.DecodePolyline(r.Geometry, route.Precision6)
	if err != nil {
		return nil, fmt.Errorf("osrm: route geometry: %w", err)
	}

	out := &route.Route{
		Coordinates:        geometry,
		Distance:           r.Distance,
		ExpectedTravelTime: seconds(r.Duration),
		Options:            opts,
		Legs:               make([]route.Leg, 0, len(r.Legs)),
	}
	for li, l := range r.Legs {
		leg := route.Leg{
			Distance:           l.Distance,
			ExpectedTravelTime: seconds(l.Duration),
			Summary:            l.Summary,
			Steps:              make([]route.Step, 0, len(l.Steps)),
		}
		for si, s := range l.Steps {
			step, err := s.toStep()
			if err != nil {
				return nil, fmt.Errorf("osrm: leg %d step %d: %w", li, si, err)
			}
			leg.Steps = append(leg.Steps, step)
		}
		out.Legs = append(out.Legs, leg)
	}
	return out, nil
}

func (s osrmStep) toStep() (route.Step, error) {
	coords, err := route.DecodePolyline(s.Geometry, route.Precision6)
	if err != nil {
		return route.Step{}, err
	}
	m := s.Maneuver
	var loc geo.Coordinate
	if len(m.Location) == 2 {
		loc = geo.Coordinate{Lat: m.Location[1], Lon: m.Location[0]}
	}
	kind := maneuverType(m.Type)
	return route.Step{
		Coordinates:        coords,
		ManeuverType:       kind,
		ManeuverDirection:  m.Modifier,
		ManeuverLocation:   loc,
		InitialHeading:     m.BearingBefore,
		FinalHeading:       m.BearingAfter,
		Distance:           s.Distance,
		ExpectedTravelTime: seconds(s.Duration),
		Name:               s.Name,
		Instructions:       instruction(kind, m.Modifier, s.Name),
	}, nil
}

func maneuverType(t string) route.ManeuverType {
	switch t {
	case "depart", "arrive", "turn", "continue", "merge", "on ramp", "off ramp",
		"fork", "end of road", "new name", "roundabout", "rotary", "notification":
		return route.ManeuverType(t)
	case "roundabout turn", "exit roundabout", "exit rotary":
		return route.ManeuverRoundabout
	}
	return route.ManeuverTurn
}

func instruction(kind route.ManeuverType, modifier, name string) string {
	var b strings.Builder
	switch kind {
	case route.ManeuverDepart:
		b.WriteString("Head")
		if modifier != "" {
			b.WriteString(" " + modifier)
		}
	case route.ManeuverArrive:
		return "You have arrived at your destination"
	case route.ManeuverContinue, route.ManeuverNewName:
		b.WriteString("Continue")
		if modifier != "" && modifier != "straight" {
			b.WriteString(" " + modifier)
		}
	default:
		b.WriteString(strings.ToUpper(string(kind[:1])) + string(kind[1:]))
		if modifier != "" {
			b.WriteString(" " + modifier)
		}
	}
	if name != "" {
		b.WriteString(" onto " + name)
	}
	return b.String()
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
