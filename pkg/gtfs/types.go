// Package gtfs reads a GTFS feed directory and assembles per-mode transit
// networks from its timetables. Buses are filtered out during ingestion.
package gtfs

import (
	"github.com/urbanmesh/linescout/pkg/network"
)

// GTFS route_type values the engine understands.
const (
	routeTypeTram      = 0
	routeTypeMetro     = 1
	routeTypeHeavyRail = 2
	routeTypeBus       = 3
)

// Stop is one stops.txt record.
type Stop struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

// Route is one routes.txt record.
type Route struct {
	ID        string
	ShortName string
	Type      int
}

// Trip is one trips.txt record.
type Trip struct {
	ID      string
	RouteID string
}

// StopTime is one stop_times.txt record with times in seconds since midnight
// (times past 24:00:00 are kept as-is, per the GTFS convention).
type StopTime struct {
	TripID           string
	StopID           string
	Sequence         int
	ArrivalSeconds   float64
	DepartureSeconds float64
}

// Dataset holds a parsed feed. StopTimes are grouped by trip and sorted by
// stop sequence.
type Dataset struct {
	Stops     map[string]Stop
	Routes    map[string]Route
	Trips     map[string]Trip
	StopTimes map[string][]StopTime
}

// ModeForRouteType maps a GTFS route_type to an engine mode. The second
// return is false for types out of scope (buses and anything exotic).
func ModeForRouteType(routeType int) (network.Mode, bool) {
	switch routeType {
	case routeTypeTram:
		return network.ModeTram, true
	case routeTypeMetro:
		return network.ModeMetro, true
	case routeTypeHeavyRail:
		return network.ModeHeavyRail, true
	default:
		return "", false
	}
}
