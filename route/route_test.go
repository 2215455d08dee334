package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/navcore/geo"
)

func TestEncodePolyline_KnownValue(t *testing.T) {
	coords := []geo.Coordinate{
		{Lat: 38.5, Lon: -120.2},
		{Lat: 40.7, Lon: -120.95},
		{Lat: 43.252, Lon: -126.453},
	}

	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", EncodePolyline(coords, Precision5))

	decoded, err := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@", Precision5)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	for i := range coords {
		assert.InDelta(t, coords[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, coords[i].Lon, decoded[i].Lon, 1e-5)
	}
}

func TestEncodePolyline_Precision6(t *testing.T) {
	coords := []geo.Coordinate{{Lat: 42.697708, Lon: 23.321868}, {Lat: 42.698001, Lon: 23.325111}}

	decoded, err := DecodePolyline(EncodePolyline(coords, Precision6), Precision6)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.InDelta(t, coords[1].Lat, decoded[1].Lat, 1e-6)
	assert.InDelta(t, coords[1].Lon, decoded[1].Lon, 1e-6)

	assert.Empty(t, EncodePolyline(nil, Precision6))
	empty, err := DecodePolyline("", Precision6)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestRoute_GeometryFallsBackToSteps(t *testing.T) {
	a := geo.Coordinate{Lat: 0, Lon: 0}
	b := geo.Coordinate{Lat: 0, Lon: 0.01}
	c := geo.Coordinate{Lat: 0.01, Lon: 0.01}

	r := &Route{Legs: []Leg{{Steps: []Step{
		{Coordinates: []geo.Coordinate{a, b}, ManeuverType: ManeuverDepart},
		{Coordinates: []geo.Coordinate{b, c}, ManeuverType: ManeuverTurn},
		{Coordinates: []geo.Coordinate{c}, ManeuverType: ManeuverArrive},
	}}}}

	assert.Equal(t, []geo.Coordinate{a, b, c}, r.Geometry())

	r.Coordinates = []geo.Coordinate{a, c}
	assert.Equal(t, []geo.Coordinate{a, c}, r.Geometry())

	var nilRoute *Route
	assert.Nil(t, nilRoute.Geometry())
}

func TestLegAndStepAccessors(t *testing.T) {
	r := &Route{Legs: []Leg{{Steps: []Step{{ManeuverType: ManeuverDepart}, {ManeuverType: ManeuverArrive}}}}}

	leg, ok := r.Leg(0)
	require.True(t, ok)
	_, ok = r.Leg(1)
	assert.False(t, ok)

	s, ok := leg.Step(1)
	require.True(t, ok)
	assert.True(t, s.IsArrival())
	_, ok = leg.Step(-1)
	assert.False(t, ok)
}

func TestOptions_Profile(t *testing.T) {
	assert.Equal(t, DefaultProfile, Options{}.ProfileOrDefault())
	assert.Equal(t, "cycling", Options{Profile: "cycling"}.ProfileOrDefault())
	assert.False(t, NewWaypoint(geo.Coordinate{}, "origin").HasHeading())
}
