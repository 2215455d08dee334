package gtfsrt

import (
	"errors"
	"fmt"
	"sort"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/navcore/geo"
	"github.com/theoremus-urban-solutions/navcore/location"
)

// ErrVehicleNotFound is returned when the feed has no position for the vehicle.
var ErrVehicleNotFound = errors.New("vehicle not found in feed")

// DecodeFixes parses a VehiclePositions feed and returns the positions of
// vehicleID in timestamp order. The vehicle is matched on its descriptor id,
// then its label, then the entity id. accuracy is used as the horizontal
// accuracy of every fix since the feed carries none. Positions with neither a
// vehicle nor a header timestamp are skipped.
func DecodeFixes(data []byte, vehicleID string, accuracy float64) ([]location.Fix, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("gtfsrt: failed to parse feed: %w", err)
	}

	var headerTS uint64
	if fm.Header != nil {
		headerTS = fm.Header.GetTimestamp()
	}

	var fixes []location.Fix
	for _, e := range fm.Entity {
		vp := e.GetVehicle()
		if vp == nil || vp.Position == nil || !matches(e, vehicleID) {
			continue
		}
		ts := vp.GetTimestamp()
		if ts == 0 {
			ts = headerTS
		}
		if ts == 0 {
			continue
		}
		fix := toFix(vp.Position, ts, accuracy)
		if !fix.IsValid() {
			continue
		}
		fixes = append(fixes, fix)
	}
	if len(fixes) == 0 {
		return nil, fmt.Errorf("gtfsrt: %q: %w", vehicleID, ErrVehicleNotFound)
	}

	sort.SliceStable(fixes, func(i, j int) bool {
		return fixes[i].Timestamp.Before(fixes[j].Timestamp)
	})
	return fixes, nil
}

func matches(e *gtfsrtpb.FeedEntity, vehicleID string) bool {
	if vehicleID == "" {
		return true
	}
	if d := e.GetVehicle().GetVehicle(); d != nil {
		if d.GetId() == vehicleID || d.GetLabel() == vehicleID {
			return true
		}
	}
	return e.GetId() == vehicleID
}

func toFix(p *gtfsrtpb.Position, ts uint64, accuracy float64) location.Fix {
	fix := location.Fix{
		Coordinate: geo.Coordinate{
			Lat: float64(p.GetLatitude()),
			Lon: float64(p.GetLongitude()),
		},
		HorizontalAccuracy: accuracy,
		VerticalAccuracy:   -1,
		Course:             -1,
		Speed:              -1,
		Timestamp:          time.Unix(int64(ts), 0).UTC(),
	}
	if p.Bearing != nil {
		fix.Course = geo.Wrap(float64(p.GetBearing()), 0, 360)
	}
	if p.Speed != nil {
		fix.Speed = float64(p.GetSpeed())
	}
	return fix
}
