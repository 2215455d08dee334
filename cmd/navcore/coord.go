package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/navcore/geo"
)

// parseCoord parses "lat,lon".
func parseCoord(input string) (geo.Coordinate, error) {
	parts := strings.Split(input, ",")
	if len(parts) != 2 {
		return geo.Coordinate{}, fmt.Errorf("invalid coordinate: %s", input)
	}

	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return geo.Coordinate{}, fmt.Errorf("invalid lat/lon: %s", input)
	}
	c := geo.Coordinate{Lat: lat, Lon: lon}
	if !c.IsValid() {
		return geo.Coordinate{}, fmt.Errorf("coordinate out of range: %s", input)
	}
	return c, nil
}
