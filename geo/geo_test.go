package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metersPerDegree = 111194.93

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Coordinate
		expected float64
	}{
		{name: "same point", a: Coordinate{Lat: 42.69, Lon: 23.32}, b: Coordinate{Lat: 42.69, Lon: 23.32}, expected: 0},
		{name: "one degree of latitude", a: Coordinate{}, b: Coordinate{Lat: 1}, expected: metersPerDegree},
		{name: "one degree of longitude at equator", a: Coordinate{}, b: Coordinate{Lon: 1}, expected: metersPerDegree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Distance(tt.a, tt.b), 1)
		})
	}
}

func TestBearing(t *testing.T) {
	origin := Coordinate{}
	assert.InDelta(t, 0, Bearing(origin, Coordinate{Lat: 1}), 1e-9)
	assert.InDelta(t, 90, Bearing(origin, Coordinate{Lon: 1}), 1e-9)
	assert.InDelta(t, 180, Bearing(origin, Coordinate{Lat: -1}), 1e-9)
	assert.InDelta(t, 270, Bearing(origin, Coordinate{Lon: -1}), 1e-9)
}

func TestAngularDifference(t *testing.T) {
	tests := []struct {
		a, b     float64
		expected float64
	}{
		{a: 90, b: 90, expected: 0},
		{a: 350, b: 10, expected: 20},
		{a: 10, b: 350, expected: 20},
		{a: 0, b: 180, expected: 180},
		{a: -10, b: 370, expected: 20},
		{a: 45, b: 300, expected: 105},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, AngularDifference(tt.a, tt.b), 1e-9, "a=%v b=%v", tt.a, tt.b)
	}
}

func TestWrap(t *testing.T) {
	assert.InDelta(t, 350, Wrap(-10, 0, 360), 1e-9)
	assert.InDelta(t, 0, Wrap(360, 0, 360), 1e-9)
	assert.InDelta(t, 10, Wrap(730, 0, 360), 1e-9)
	assert.InDelta(t, -170, Wrap(190, -180, 180), 1e-9)
	assert.InDelta(t, 5, Wrap(5, 3, 3), 1e-9, "empty interval leaves value untouched")
}

func TestOffset(t *testing.T) {
	origin := Coordinate{Lat: 42.6977, Lon: 23.3219}

	for _, bearing := range []float64{0, 45, 90, 200, 315} {
		p := Offset(origin, 1000, bearing)
		assert.InDelta(t, 1000, Distance(origin, p), 0.5, "bearing %v", bearing)
		assert.InDelta(t, 0, AngularDifference(bearing, Bearing(origin, p)), 0.1, "bearing %v", bearing)
	}

	assert.Equal(t, origin, Offset(origin, 0, 123))
}

func TestClosestPoint(t *testing.T) {
	line := []Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.01}}

	t.Run("projects onto segment", func(t *testing.T) {
		p, ok := ClosestPoint(line, Coordinate{Lat: 0.001, Lon: 0.005})
		require.True(t, ok)
		assert.InDelta(t, 0.005, p.Coordinate.Lon, 1e-9)
		assert.InDelta(t, 0, p.Coordinate.Lat, 1e-9)
		assert.InDelta(t, 0.001*metersPerDegree, p.Distance, 0.5)
		assert.Equal(t, 0, p.Index)
		assert.InDelta(t, 0.5, p.Fraction, 1e-6)
	})

	t.Run("clamps before start", func(t *testing.T) {
		p, ok := ClosestPoint(line, Coordinate{Lat: 0, Lon: -0.01})
		require.True(t, ok)
		assert.Equal(t, line[0], p.Coordinate)
		assert.InDelta(t, 0, p.Fraction, 1e-9)
	})

	t.Run("ties resolve to first segment", func(t *testing.T) {
		backAndForth := []Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.01}, {Lat: 0, Lon: 0}}
		p, ok := ClosestPoint(backAndForth, Coordinate{Lat: 0.001, Lon: 0.005})
		require.True(t, ok)
		assert.Equal(t, 0, p.Index)
	})

	t.Run("single vertex", func(t *testing.T) {
		p, ok := ClosestPoint(line[:1], Coordinate{Lat: 0.001})
		require.True(t, ok)
		assert.Equal(t, line[0], p.Coordinate)
		assert.InDelta(t, 0.001*metersPerDegree, p.Distance, 0.5)
	})

	t.Run("empty polyline", func(t *testing.T) {
		_, ok := ClosestPoint(nil, Coordinate{})
		assert.False(t, ok)
	})
}

func TestDistanceAlong(t *testing.T) {
	line := []Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.01}, {Lat: 0, Lon: 0.02}}

	assert.InDelta(t, 0, DistanceAlong(line, Coordinate{Lat: 0, Lon: -0.005}), 1e-6)
	assert.InDelta(t, 0.015*metersPerDegree, DistanceAlong(line, Coordinate{Lat: 0.0005, Lon: 0.015}), 1)
	assert.InDelta(t, Length(line), DistanceAlong(line, Coordinate{Lat: 0, Lon: 0.03}), 1e-6)
	assert.Equal(t, 0.0, DistanceAlong(nil, Coordinate{}))
}

func TestCoordinateAt(t *testing.T) {
	line := []Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.01}, {Lat: 0, Lon: 0.02}}

	p, ok := CoordinateAt(line, 0.015*metersPerDegree)
	require.True(t, ok)
	assert.InDelta(t, 0.015, p.Lon, 1e-6)

	p, _ = CoordinateAt(line, -5)
	assert.Equal(t, line[0], p)

	p, _ = CoordinateAt(line, 1e9)
	assert.Equal(t, line[2], p)

	_, ok = CoordinateAt(nil, 10)
	assert.False(t, ok)
}
