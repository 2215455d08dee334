// Package geo provides the geometry primitives used by route tracking.
//
// All functions are pure and operate on WGS-84 coordinates:
//   - great-circle distances (haversine)
//   - projection of a point onto a polyline and distance along it
//   - bearings, angular differences and degree wrapping
//   - forward projection of a point by distance and bearing
//
// Distances are in meters, angles in degrees.
package geo
