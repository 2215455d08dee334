package config

import (
	"time"

	"github.com/theoremus-urban-solutions/navcore/guidance"
)

// GuidanceConfig holds the guidance thresholds. Zero values keep the defaults.
type GuidanceConfig struct {
	ReactionTimeMS                int     `yaml:"reactionTimeMS" validate:"gte=0"`
	MinimumRadius                 float64 `yaml:"minimumRadius" validate:"gte=0"`
	SnappingSlack                 float64 `yaml:"snappingSlack" validate:"gte=0"`
	ManeuverZoneRadius            float64 `yaml:"maneuverZoneRadius" validate:"gte=0"`
	HeadingTolerance              float64 `yaml:"headingTolerance" validate:"gte=0,lte=180"`
	HighAlertSeconds              int     `yaml:"highAlertSeconds" validate:"gte=0"`
	MediumAlertSeconds            int     `yaml:"mediumAlertSeconds" validate:"gte=0"`
	MinimumDistanceForHighAlert   float64 `yaml:"minimumDistanceForHighAlert" validate:"gte=0"`
	MinimumDistanceForMediumAlert float64 `yaml:"minimumDistanceForMediumAlert" validate:"gte=0"`
	DepartureGraceSeconds         int     `yaml:"departureGraceSeconds" validate:"gte=0"`
	RerouteHeadingTolerance       float64 `yaml:"rerouteHeadingTolerance" validate:"gte=0,lte=180"`
	RerouteTimeoutMS              int     `yaml:"rerouteTimeoutMS" validate:"gte=0"`
}

// TelemetryConfig configures the event queue and its sink.
type TelemetryConfig struct {
	CollectionWindowMS int    `yaml:"collectionWindowMS" validate:"gte=0"`
	HistoryCapacity    int    `yaml:"historyCapacity" validate:"gte=0"`
	Sink               string `yaml:"sink" validate:"omitempty,oneof=log postgres"`
	DSN                string `yaml:"dsn" validate:"required_if=Sink postgres"`
}

// DirectionsConfig points at the OSRM server.
type DirectionsConfig struct {
	BaseURL   string `yaml:"baseURL" validate:"required,url"`
	Profile   string `yaml:"profile"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// FeedConfig selects the GTFS-RT VehiclePositions feed and vehicle to follow.
type FeedConfig struct {
	VehiclePositionsURL string  `yaml:"vehiclePositionsURL" validate:"required"`
	VehicleID           string  `yaml:"vehicleID"`
	PollIntervalMS      int     `yaml:"pollIntervalMS" validate:"gte=0"`
	Accuracy            float64 `yaml:"accuracy" validate:"gte=0"`
}

// LoggingConfig sets the log level.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Guidance   GuidanceConfig   `yaml:"guidance"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Directions DirectionsConfig `yaml:"directions"`
	Feed       FeedConfig       `yaml:"feed"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// EngineConfig converts the guidance section, keeping defaults for unset values.
func (g GuidanceConfig) EngineConfig() guidance.Config {
	c := guidance.DefaultConfig()
	if g.ReactionTimeMS > 0 {
		c.ReactionTime = ms(g.ReactionTimeMS)
	}
	setFloat(&c.MinimumRadius, g.MinimumRadius)
	setFloat(&c.SnappingSlack, g.SnappingSlack)
	setFloat(&c.ManeuverZoneRadius, g.ManeuverZoneRadius)
	setFloat(&c.HeadingTolerance, g.HeadingTolerance)
	setFloat(&c.MinimumDistanceForHighAlert, g.MinimumDistanceForHighAlert)
	setFloat(&c.MinimumDistanceForMediumAlert, g.MinimumDistanceForMediumAlert)
	setFloat(&c.RerouteHeadingTolerance, g.RerouteHeadingTolerance)
	if g.HighAlertSeconds > 0 {
		c.HighAlertInterval = time.Duration(g.HighAlertSeconds) * time.Second
	}
	if g.MediumAlertSeconds > 0 {
		c.MediumAlertInterval = time.Duration(g.MediumAlertSeconds) * time.Second
	}
	if g.DepartureGraceSeconds > 0 {
		c.DepartureGraceInterval = time.Duration(g.DepartureGraceSeconds) * time.Second
	}
	if g.RerouteTimeoutMS > 0 {
		c.RerouteTimeout = ms(g.RerouteTimeoutMS)
	}
	return c
}

// CollectionWindow returns the telemetry collection window.
func (t TelemetryConfig) CollectionWindow() time.Duration { return ms(t.CollectionWindowMS) }

// Timeout returns the per-request timeout.
func (d DirectionsConfig) Timeout() time.Duration { return ms(d.TimeoutMS) }

// PollInterval returns the feed polling interval; zero means read once.
func (f FeedConfig) PollInterval() time.Duration { return ms(f.PollIntervalMS) }

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func setFloat(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}
