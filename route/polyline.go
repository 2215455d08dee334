package route

import (
	"fmt"

	"github.com/twpayne/go-polyline"

	"github.com/theoremus-urban-solutions/navcore/geo"
)

// Precision is the number of decimal places retained by an encoded polyline.
type Precision int

const (
	Precision5 Precision = 5
	Precision6 Precision = 6
)

func codec(p Precision) polyline.Codec {
	scale := 1e5
	if p == Precision6 {
		scale = 1e6
	}
	return polyline.Codec{Dim: 2, Scale: scale}
}

// EncodePolyline encodes coordinates using the Google polyline algorithm.
func EncodePolyline(coords []geo.Coordinate, p Precision) string {
	if len(coords) == 0 {
		return ""
	}
	pairs := make([][]float64, len(coords))
	for i, c := range coords {
		pairs[i] = []float64{c.Lat, c.Lon}
	}
	return string(codec(p).EncodeCoords(nil, pairs))
}

// DecodePolyline decodes a Google polyline string.
func DecodePolyline(s string, p Precision) ([]geo.Coordinate, error) {
	if s == "" {
		return nil, nil
	}
	pairs, rest, err := codec(p).DecodeCoords([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("decode polyline: %d trailing bytes", len(rest))
	}
	out := make([]geo.Coordinate, len(pairs))
	for i, pair := range pairs {
		out[i] = geo.Coordinate{Lat: pair[0], Lon: pair[1]}
	}
	return out, nil
}
