// Package route models a calculated route as delivered by the route
// calculation collaborator.
//
// A Route is an ordered list of Legs (one per pair of consecutive waypoints);
// each Leg is an ordered list of Steps, one per maneuver. Routes are treated
// as immutable once received: the guidance engine only ever replaces them.
//
// The package also carries the Options a route was requested with, so a
// reroute can be issued against the same profile and remaining waypoints,
// and polyline helpers used to ship geometry in telemetry payloads.
package route
