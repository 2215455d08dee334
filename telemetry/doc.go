// Package telemetry records trip lifecycle events and releases them to a sink
// once they have matured.
//
// Events are queued when they happen and held for a collection window so the
// fixes that follow an event can be attached to it. A flush moves every
// matured event out of the queue, splits the session's fix history around the
// event's creation time into locationsBefore and locationsAfter, and sends
// the enriched attributes to the Sink. Reroute events are completed in place
// once the new route is known.
//
// Recorder observes guidance notifications and produces depart, arrive,
// reroute, feedback and cancel events. Like the engine, it must be driven
// from a single goroutine.
package telemetry
