// Package navcore runs turn-by-turn guidance for a single trip.
//
// A Trip owns a guidance.Engine and a telemetry.Recorder and drives both from
// one goroutine: Run selects over incoming position fixes, route
// recalculation results and a periodic telemetry flush, so neither component
// needs locking. The subpackages can also be used directly:
//
//   - geo: distances, bearings and polyline projection
//   - route: the route model returned by a directions service
//   - progress: route, leg and step progress with the alert level
//   - session: trip-scoped state and the fix history
//   - guidance: the progress engine and reroute coordinator
//   - telemetry: the deferred event queue and its sinks
//   - directions: an OSRM client
//   - gtfsrt: positions from a GTFS-Realtime VehiclePositions feed
package navcore
