// Package directions calculates routes with an OSRM routing server.
//
// OSRM implements guidance.Directions. Requests ask for turn-by-turn steps
// and polyline6 geometry; a waypoint heading is sent as an OSRM bearing so
// the recalculated route starts in the traveler's direction.
package directions
