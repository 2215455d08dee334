package guidance

import (
	"github.com/theoremus-urban-solutions/navcore/location"
	"github.com/theoremus-urban-solutions/navcore/progress"
	"github.com/theoremus-urban-solutions/navcore/route"
)

// Kind tags a Notification.
type Kind int

const (
	ProgressChanged Kind = iota
	AlertLevelChanged
	WillReroute
	DidReroute
	RerouteFailed
	PositionsReceived
)

func (k Kind) String() string {
	switch k {
	case ProgressChanged:
		return "progress-changed"
	case AlertLevelChanged:
		return "alert-level-changed"
	case WillReroute:
		return "will-reroute"
	case DidReroute:
		return "did-reroute"
	case RerouteFailed:
		return "reroute-failed"
	case PositionsReceived:
		return "positions-received"
	}
	return "unknown"
}

// Notification is a signal emitted by the engine. Which fields are set
// depends on Kind:
//
//	ProgressChanged     Progress, Fix, SecondsRemaining
//	AlertLevelChanged   Progress, Fix, DistanceToManeuver
//	WillReroute         Fix
//	DidReroute          Route, Progress
//	RerouteFailed       Err
//	PositionsReceived   Fixes
type Notification struct {
	Kind               Kind
	Progress           progress.RouteProgress
	Fix                location.Fix
	Fixes              []location.Fix
	SecondsRemaining   float64
	DistanceToManeuver float64
	Route              *route.Route
	Err                error
}

// Observer receives engine notifications synchronously.
type Observer interface {
	Notify(Notification)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Notification)

// Notify calls f(n).
func (f ObserverFunc) Notify(n Notification) { f(n) }
