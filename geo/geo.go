package geo

import "math"

// EarthRadiusM is the mean radius of Earth in meters.
const EarthRadiusM = 6371000.0

// Coordinate holds lat/lon in degrees
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsValid reports whether the coordinate lies within WGS-84 bounds.
func (c Coordinate) IsValid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180 &&
		!math.IsNaN(c.Lat) && !math.IsNaN(c.Lon)
}

// Distance returns the great-circle distance between two points in meters.
func Distance(a, b Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)
	la1 := toRad(a.Lat)
	la2 := toRad(b.Lat)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bearing returns the initial bearing from one point to another in [0,360).
func Bearing(from, to Coordinate) float64 {
	la1 := toRad(from.Lat)
	la2 := toRad(to.Lat)
	dLon := toRad(to.Lon - from.Lon)
	y := math.Sin(dLon) * math.Cos(la2)
	x := math.Cos(la1)*math.Sin(la2) - math.Sin(la1)*math.Cos(la2)*math.Cos(dLon)
	return Wrap(toDeg(math.Atan2(y, x)), 0, 360)
}

// AngularDifference returns the shortest-arc difference between two headings in [0,180].
func AngularDifference(a, b float64) float64 {
	d := math.Abs(Wrap(a, 0, 360) - Wrap(b, 0, 360))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Wrap wraps x into the half-open interval [min, max).
func Wrap(x, min, max float64) float64 {
	d := max - min
	if d <= 0 {
		return x
	}
	w := math.Mod(x-min, d)
	if w < 0 {
		w += d
	}
	return w + min
}

// Offset projects origin forward by distance meters along bearing degrees.
func Offset(origin Coordinate, distance, bearing float64) Coordinate {
	if distance == 0 {
		return origin
	}
	delta := distance / EarthRadiusM
	theta := toRad(bearing)
	la1 := toRad(origin.Lat)
	lo1 := toRad(origin.Lon)

	la2 := math.Asin(math.Sin(la1)*math.Cos(delta) + math.Cos(la1)*math.Sin(delta)*math.Cos(theta))
	lo2 := lo1 + math.Atan2(math.Sin(theta)*math.Sin(delta)*math.Cos(la1), math.Cos(delta)-math.Sin(la1)*math.Sin(la2))

	return Coordinate{Lat: toDeg(la2), Lon: Wrap(toDeg(lo2), -180, 180)}
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
func toDeg(rad float64) float64 { return rad * 180 / math.Pi }
