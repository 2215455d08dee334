// Package gtfsrt turns a GTFS-Realtime VehiclePositions feed into position
// fixes for one vehicle.
//
// The feed is read from an HTTP(S) URL or a local .pbf file. DecodeFixes
// extracts the vehicle's positions from a single feed message; Source polls
// the feed and delivers fixes newer than the last one it sent.
package gtfsrt
