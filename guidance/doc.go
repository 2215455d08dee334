/*
Package guidance implements the real-time guidance state machine: it consumes
position fixes, tracks progress along the active route, detects when the
traveler has left it, raises maneuver alerts and coordinates route
recalculation.

# Entry points

An Engine has exactly two mutation paths, both of which must be called from a
single goroutine (the trip owner):

	eng.Advance(fixes...)            // every batch from the positioning source
	eng.RerouteCompleted(result)     // every value received from eng.Completions()

Route calculation is the only asynchronous operation. It runs on its own
goroutine and hands its result back through Completions so that all state
changes stay on the owner's timeline.

# Notifications

Observers registered at construction receive a Notification for each of the
six signal kinds: ProgressChanged, AlertLevelChanged, WillReroute, DidReroute,
RerouteFailed and PositionsReceived. Observers run synchronously inside
Advance/RerouteCompleted and must not call back into the engine.
*/
package guidance
