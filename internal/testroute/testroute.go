// Package testroute builds synthetic routes for tests.
package testroute

import (
	"time"

	"github.com/theoremus-urban-solutions/navcore/geo"
	"github.com/theoremus-urban-solutions/navcore/route"
)

// Origin is the default start of generated routes.
var Origin = geo.Coordinate{Lat: 0, Lon: 0}

// Leg describes one generated step: travel Distance meters along Bearing.
type Leg struct {
	Distance float64
	Bearing  float64
	Maneuver route.ManeuverType
}

// Build returns a single-leg route starting at origin, one step per Leg and a
// trailing arrive step. Expected travel times assume speed m/s.
func Build(origin geo.Coordinate, speed float64, legs ...Leg) *route.Route {
	steps := make([]route.Step, 0, len(legs)+1)
	cur := origin
	prevBearing := 0.0
	total := 0.0
	for i, s := range legs {
		end := geo.Offset(cur, s.Distance, s.Bearing)
		// intermediate vertex keeps segments short for projection accuracy
		mid := geo.Offset(cur, s.Distance/2, s.Bearing)
		m := s.Maneuver
		if m == "" {
			m = route.ManeuverTurn
			if i == 0 {
				m = route.ManeuverDepart
			}
		}
		steps = append(steps, route.Step{
			Coordinates:        []geo.Coordinate{cur, mid, end},
			ManeuverType:       m,
			ManeuverLocation:   cur,
			InitialHeading:     prevBearing,
			FinalHeading:       s.Bearing,
			Distance:           s.Distance,
			ExpectedTravelTime: seconds(s.Distance / speed),
		})
		total += s.Distance
		prevBearing = s.Bearing
		cur = end
	}
	steps = append(steps, route.Step{
		Coordinates:      []geo.Coordinate{cur, cur},
		ManeuverType:     route.ManeuverArrive,
		ManeuverLocation: cur,
		InitialHeading:   prevBearing,
		FinalHeading:     prevBearing,
	})

	return &route.Route{
		Legs: []route.Leg{{
			Steps:              steps,
			Distance:           total,
			ExpectedTravelTime: seconds(total / speed),
		}},
		Distance:           total,
		ExpectedTravelTime: seconds(total / speed),
		Options: route.Options{
			Waypoints: []route.Waypoint{route.NewWaypoint(origin, "origin"), route.NewWaypoint(cur, "destination")},
			Profile:   route.DefaultProfile,
		},
	}
}

// Straight returns a single depart step of the given length heading east, followed by arrival.
func Straight(distance float64) *route.Route {
	return Build(Origin, 10, Leg{Distance: distance, Bearing: 90})
}

// PointAlong returns the coordinate distance meters along the first step of r.
func PointAlong(r *route.Route, step int, distance float64) geo.Coordinate {
	c, _ := geo.CoordinateAt(r.Legs[0].Steps[step].Coordinates, distance)
	return c
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
