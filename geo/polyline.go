package geo

import "math"

// tieEpsilon is the distance in meters under which two projections are considered equally close.
const tieEpsilon = 1e-6

// Projection is the result of snapping a point onto a polyline.
type Projection struct {
	Coordinate Coordinate
	// Distance from the query point to Coordinate in meters
	Distance float64
	// Index of the segment start vertex
	Index int
	// Fraction along the segment in [0,1]
	Fraction float64
}

// Length returns the total length of the polyline in meters.
func Length(line []Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(line); i++ {
		total += Distance(line[i-1], line[i])
	}
	return total
}

// ClosestPoint returns the nearest point on the polyline to the query point.
// Ties are resolved in favour of the earliest segment. Returns false for an
// empty polyline.
func ClosestPoint(line []Coordinate, to Coordinate) (Projection, bool) {
	switch len(line) {
	case 0:
		return Projection{}, false
	case 1:
		return Projection{Coordinate: line[0], Distance: Distance(line[0], to)}, true
	}

	best := Projection{Distance: math.MaxFloat64}
	for i := 0; i < len(line)-1; i++ {
		p, t := projectOnSegment(line[i], line[i+1], to)
		d := Distance(p, to)
		if d < best.Distance-tieEpsilon {
			best = Projection{Coordinate: p, Distance: d, Index: i, Fraction: t}
		}
	}
	return best, true
}

// DistanceAlong returns the distance from the start of the polyline to the
// projection of the point onto it. A point projecting beyond the end yields
// the full length.
func DistanceAlong(line []Coordinate, from Coordinate) float64 {
	p, ok := ClosestPoint(line, from)
	if !ok || len(line) == 1 {
		return 0
	}
	along := 0.0
	for i := 0; i < p.Index; i++ {
		along += Distance(line[i], line[i+1])
	}
	return along + Distance(line[p.Index], p.Coordinate)
}

// CoordinateAt returns the point lying the given distance along the polyline.
// Distances outside the polyline clamp to its endpoints.
func CoordinateAt(line []Coordinate, distance float64) (Coordinate, bool) {
	if len(line) == 0 {
		return Coordinate{}, false
	}
	if distance <= 0 {
		return line[0], true
	}
	traveled := 0.0
	for i := 0; i < len(line)-1; i++ {
		seg := Distance(line[i], line[i+1])
		if traveled+seg >= distance {
			if seg == 0 {
				return line[i], true
			}
			return Offset(line[i], distance-traveled, Bearing(line[i], line[i+1])), true
		}
		traveled += seg
	}
	return line[len(line)-1], true
}

// projectOnSegment projects p onto segment a-b in a local equirectangular
// frame centred on a, clamping the parameter to the segment.
func projectOnSegment(a, b, p Coordinate) (Coordinate, float64) {
	k := math.Cos(toRad(a.Lat))
	vx := (b.Lon - a.Lon) * k
	vy := b.Lat - a.Lat
	wx := (p.Lon - a.Lon) * k
	wy := p.Lat - a.Lat

	denom := vx*vx + vy*vy
	t := 0.0
	if denom > 0 {
		t = (wx*vx + wy*vy) / denom
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	return Coordinate{Lat: a.Lat + t*(b.Lat-a.Lat), Lon: a.Lon + t*(b.Lon-a.Lon)}, t
}
