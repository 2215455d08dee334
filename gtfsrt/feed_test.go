package gtfsrt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/navcore/location"
)

const feedTS = 1714550400

type position struct {
	entity, vehicle, label string
	lat, lon               float32
	bearing, speed         *float32
	ts                     uint64
}

func buildFeed(t *testing.T, positions ...position) []byte {
	t.Helper()
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(feedTS),
		},
	}
	for _, p := range positions {
		vp := &gtfsrtpb.VehiclePosition{
			Vehicle: &gtfsrtpb.VehicleDescriptor{Id: proto.String(p.vehicle), Label: proto.String(p.label)},
			Position: &gtfsrtpb.Position{
				Latitude:  proto.Float32(p.lat),
				Longitude: proto.Float32(p.lon),
				Bearing:   p.bearing,
				Speed:     p.speed,
			},
		}
		if p.ts != 0 {
			vp.Timestamp = proto.Uint64(p.ts)
		}
		fm.Entity = append(fm.Entity, &gtfsrtpb.FeedEntity{Id: proto.String(p.entity), Vehicle: vp})
	}
	b, err := proto.Marshal(fm)
	require.NoError(t, err)
	return b
}

func TestDecodeFixes(t *testing.T) {
	data := buildFeed(t,
		position{entity: "e1", vehicle: "bus-7", label: "7", lat: 42.6977, lon: 23.3219, bearing: proto.Float32(-90), speed: proto.Float32(8.5), ts: feedTS + 20},
		position{entity: "e2", vehicle: "bus-9", label: "9", lat: 42.70, lon: 23.33, ts: feedTS + 5},
		position{entity: "e3", vehicle: "bus-7", label: "7", lat: 42.6970, lon: 23.3210, ts: feedTS + 10},
	)

	fixes, err := DecodeFixes(data, "bus-7", 12)
	require.NoError(t, err)
	require.Len(t, fixes, 2)

	assert.Equal(t, time.Unix(feedTS+10, 0).UTC(), fixes[0].Timestamp)
	assert.False(t, fixes[0].HasCourse())
	assert.False(t, fixes[0].HasSpeed())

	f := fixes[1]
	assert.InDelta(t, 42.6977, f.Coordinate.Lat, 1e-5)
	assert.InDelta(t, 23.3219, f.Coordinate.Lon, 1e-5)
	assert.InDelta(t, 270, f.Course, 1e-9)
	assert.InDelta(t, 8.5, f.Speed, 1e-6)
	assert.Equal(t, 12.0, f.HorizontalAccuracy)
}

func TestDecodeFixesMatching(t *testing.T) {
	data := buildFeed(t,
		position{entity: "e1", vehicle: "v1", label: "L1", lat: 1, lon: 1},
		position{entity: "e2", vehicle: "v2", label: "L2", lat: 2, lon: 2},
	)

	tests := []struct {
		name      string
		vehicleID string
		want      int
		wantErr   error
	}{
		{name: "by id", vehicleID: "v2", want: 1},
		{name: "by label", vehicleID: "L1", want: 1},
		{name: "by entity", vehicleID: "e2", want: 1},
		{name: "all vehicles", vehicleID: "", want: 2},
		{name: "unknown", vehicleID: "nope", wantErr: ErrVehicleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixes, err := DecodeFixes(data, tt.vehicleID, 5)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, fixes, tt.want)
			// header timestamp fills in missing vehicle timestamps
			assert.Equal(t, int64(feedTS), fixes[0].Timestamp.Unix())
		})
	}
}

func TestDecodeFixesSkipsUntimedPositions(t *testing.T) {
	entity := func(id string, ts *uint64) *gtfsrtpb.FeedEntity {
		return &gtfsrtpb.FeedEntity{
			Id: proto.String(id),
			Vehicle: &gtfsrtpb.VehiclePosition{
				Vehicle:   &gtfsrtpb.VehicleDescriptor{Id: proto.String("v1")},
				Position:  &gtfsrtpb.Position{Latitude: proto.Float32(1), Longitude: proto.Float32(1)},
				Timestamp: ts,
			},
		}
	}
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{GtfsRealtimeVersion: proto.String("2.0")},
		Entity: []*gtfsrtpb.FeedEntity{entity("e1", nil), entity("e2", proto.Uint64(feedTS))},
	}
	data, err := proto.Marshal(fm)
	require.NoError(t, err)

	fixes, err := DecodeFixes(data, "v1", 5)
	require.NoError(t, err)
	require.Len(t, fixes, 1)
	assert.Equal(t, int64(feedTS), fixes[0].Timestamp.Unix())

	fm.Entity = fm.Entity[:1]
	data, err = proto.Marshal(fm)
	require.NoError(t, err)
	_, err = DecodeFixes(data, "v1", 5)
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestDecodeFixesInvalidPayload(t *testing.T) {
	_, err := DecodeFixes([]byte("not a protobuf"), "v1", 5)
	assert.ErrorContains(t, err, "failed to parse feed")
}

func TestClientFetch(t *testing.T) {
	data := buildFeed(t, position{entity: "e1", vehicle: "v1", lat: 1, lon: 1})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	c := NewClient(nil)
	got, err := c.Fetch(context.Background(), srv.URL+"/vp.pbf")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = c.Fetch(context.Background(), srv.URL+"/missing")
	assert.ErrorContains(t, err, "HTTP 404")

	path := filepath.Join(t.TempDir(), "vp.pbf")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	got, err = c.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = c.Fetch(context.Background(), filepath.Join(t.TempDir(), "none.pbf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSourceOneshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vp.pbf")
	data := buildFeed(t,
		position{entity: "a", vehicle: "v1", lat: 1, lon: 1, ts: feedTS + 2},
		position{entity: "b", vehicle: "v1", lat: 1.001, lon: 1, ts: feedTS + 1},
	)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	src := NewSource(nil, path, "v1", 0, 10, nil)
	var got []location.Fix
	for f := range src.Fixes(context.Background()) {
		got = append(got, f)
	}
	require.Len(t, got, 2)
	assert.True(t, got[1].After(got[0]))
}

func TestSourcePollingDeliversOnlyNewFixes(t *testing.T) {
	feeds := [][]byte{
		buildFeed(t, position{entity: "a", vehicle: "v1", lat: 1, lon: 1, ts: feedTS}),
		buildFeed(t, position{entity: "a", vehicle: "v1", lat: 1, lon: 1, ts: feedTS}),
		buildFeed(t, position{entity: "a", vehicle: "v1", lat: 1.001, lon: 1, ts: feedTS + 5}),
	}
	calls := make(chan int32, 16)
	var n atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := n.Add(1)
		i := int(c) - 1
		if i >= len(feeds) {
			i = len(feeds) - 1
		}
		select {
		case calls <- c:
		default:
		}
		_, _ = w.Write(feeds[i])
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fixes := NewSource(NewClient(srv.Client()), srv.URL, "v1", 10*time.Millisecond, 10, nil).Fixes(ctx)

	first := <-fixes
	second := <-fixes
	assert.Equal(t, int64(feedTS), first.Timestamp.Unix())
	assert.Equal(t, int64(feedTS+5), second.Timestamp.Unix())
	assert.GreaterOrEqual(t, len(calls), 3)

	cancel()
	for range fixes {
	}
}
