// Package location defines the position fix delivered by the positioning
// collaborator.
package location

import (
	"time"

	"github.com/theoremus-urban-solutions/navcore/geo"
)

// Fix is a single timestamped position/velocity/heading sample.
type Fix struct {
	Coordinate geo.Coordinate `json:"coordinate"`
	// HorizontalAccuracy is the radius of uncertainty in meters; negative means invalid
	HorizontalAccuracy float64 `json:"horizontalAccuracy"`
	VerticalAccuracy   float64 `json:"verticalAccuracy"`
	// Course in degrees clockwise from north; negative means unknown
	Course float64 `json:"course"`
	// Speed in m/s; zero or negative means unknown
	Speed     float64   `json:"speed"`
	Timestamp time.Time `json:"timestamp"`
}

// HasCourse reports whether the fix carries a usable heading.
func (f Fix) HasCourse() bool {
	return f.Course >= 0
}

// HasSpeed reports whether the fix carries a usable speed.
func (f Fix) HasSpeed() bool {
	return f.Speed > 0
}

// IsValid reports whether the fix can be used for guidance at all.
func (f Fix) IsValid() bool {
	return f.HorizontalAccuracy >= 0 && f.Coordinate.IsValid() && !f.Timestamp.IsZero()
}

// After reports whether f was taken strictly after other.
func (f Fix) After(other Fix) bool {
	return f.Timestamp.After(other.Timestamp)
}

// Attributes flattens the fix into the mapping used by telemetry payloads.
func (f Fix) Attributes() map[string]any {
	return map[string]any{
		"lat":                f.Coordinate.Lat,
		"lng":                f.Coordinate.Lon,
		"course":             f.Course,
		"speed":              f.Speed,
		"horizontalAccuracy": f.HorizontalAccuracy,
		"verticalAccuracy":   f.VerticalAccuracy,
		"timestamp":          f.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}
