package gtfsrt

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/theoremus-urban-solutions/navcore/location"
)

// Source polls a VehiclePositions feed for one vehicle.
type Source struct {
	client    *Client
	url       string
	vehicleID string
	interval  time.Duration
	accuracy  float64
	logger    *slog.Logger
}

// NewSource creates a source. An interval of zero reads the feed once.
func NewSource(client *Client, url, vehicleID string, interval time.Duration, accuracy float64, logger *slog.Logger) *Source {
	if client == nil {
		client = NewClient(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		client:    client,
		url:       url,
		vehicleID: vehicleID,
		interval:  interval,
		accuracy:  accuracy,
		logger:    logger,
	}
}

// Fixes starts polling and returns the channel fixes are delivered on. The
// channel is closed when ctx is done, or after the single read when the
// interval is zero.
func (s *Source) Fixes(ctx context.Context) <-chan location.Fix {
	out := make(chan location.Fix, 16)
	go func() {
		defer close(out)
		var last time.Time
		for {
			fixes, err := s.poll(ctx)
			switch {
			case errors.Is(err, ErrVehicleNotFound):
				s.logger.Warn("vehicle not in feed", "vehicle", s.vehicleID)
			case err != nil:
				s.logger.Error("feed poll failed", "url", s.url, "error", err)
			}
			for _, f := range fixes {
				if !f.Timestamp.After(last) {
					continue
				}
				select {
				case out <- f:
					last = f.Timestamp
				case <-ctx.Done():
					return
				}
			}

			if s.interval <= 0 {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.interval):
			}
		}
	}()
	return out
}

func (s *Source) poll(ctx context.Context) ([]location.Fix, error) {
	data, err := s.client.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}
	return DecodeFixes(data, s.vehicleID, s.accuracy)
}
