package gtfs

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Load reads stops, routes, trips and stop_times from a GTFS directory.
// Rows missing required columns are skipped rather than failing the feed;
// public feeds are rarely pristine and cleaning is ingestion's job.
func Load(dir string) (*Dataset, error) {
	ds := &Dataset{
		Stops:     make(map[string]Stop),
		Routes:    make(map[string]Route),
		Trips:     make(map[string]Trip),
		StopTimes: make(map[string][]StopTime),
	}

	if err := readCSV(filepath.Join(dir, "stops.txt"), ds.consumeStops); err != nil {
		return nil, err
	}
	if err := readCSV(filepath.Join(dir, "routes.txt"), ds.consumeRoutes); err != nil {
		return nil, err
	}
	if err := readCSV(filepath.Join(dir, "trips.txt"), ds.consumeTrips); err != nil {
		return nil, err
	}
	if err := readCSV(filepath.Join(dir, "stop_times.txt"), ds.consumeStopTimes); err != nil {
		return nil, err
	}

	for tripID := range ds.StopTimes {
		times := ds.StopTimes[tripID]
		sort.Slice(times, func(i, j int) bool { return times[i].Sequence < times[j].Sequence })
		ds.StopTimes[tripID] = times
	}
	return ds, nil
}

func readCSV(path string, consume func(head []string, rows [][]string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil
	}
	consume(rows[0], rows[1:])
	return nil
}

// colIndex finds a column by name, case-insensitively.
func colIndex(head []string, col string) int {
	for i, h := range head {
		if strings.EqualFold(strings.TrimSpace(h), col) {
			return i
		}
	}
	return -1
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (ds *Dataset) consumeStops(head []string, rows [][]string) {
	sID := colIndex(head, "stop_id")
	sName := colIndex(head, "stop_name")
	sLat := colIndex(head, "stop_lat")
	sLon := colIndex(head, "stop_lon")
	for _, row := range rows {
		id := field(row, sID)
		if id == "" {
			continue
		}
		lat, _ := strconv.ParseFloat(field(row, sLat), 64)
		lon, _ := strconv.ParseFloat(field(row, sLon), 64)
		ds.Stops[id] = Stop{
			ID:   id,
			Name: field(row, sName),
			Lat:  lat,
			Lon:  lon,
		}
	}
}

func (ds *Dataset) consumeRoutes(head []string, rows [][]string) {
	rID := colIndex(head, "route_id")
	rSN := colIndex(head, "route_short_name")
	rType := colIndex(head, "route_type")
	for _, row := range rows {
		id := field(row, rID)
		if id == "" {
			continue
		}
		typeInt, err := strconv.Atoi(field(row, rType))
		if err != nil {
			continue
		}
		ds.Routes[id] = Route{
			ID:        id,
			ShortName: field(row, rSN),
			Type:      typeInt,
		}
	}
}

func (ds *Dataset) consumeTrips(head []string, rows [][]string) {
	tID := colIndex(head, "trip_id")
	rID := colIndex(head, "route_id")
	for _, row := range rows {
		tripID := field(row, tID)
		routeID := field(row, rID)
		if tripID == "" || routeID == "" {
			continue
		}
		ds.Trips[tripID] = Trip{ID: tripID, RouteID: routeID}
	}
}

func (ds *Dataset) consumeStopTimes(head []string, rows [][]string) {
	tID := colIndex(head, "trip_id")
	sID := colIndex(head, "stop_id")
	seq := colIndex(head, "stop_sequence")
	arr := colIndex(head, "arrival_time")
	dep := colIndex(head, "departure_time")
	for _, row := range rows {
		tripID := field(row, tID)
		stopID := field(row, sID)
		if tripID == "" || stopID == "" {
			continue
		}
		sequence, err := strconv.Atoi(field(row, seq))
		if err != nil {
			continue
		}
		arrSec, arrOK := parseGTFSTime(field(row, arr))
		depSec, depOK := parseGTFSTime(field(row, dep))
		if !arrOK && !depOK {
			continue
		}
		if !arrOK {
			arrSec = depSec
		}
		if !depOK {
			depSec = arrSec
		}
		ds.StopTimes[tripID] = append(ds.StopTimes[tripID], StopTime{
			TripID:           tripID,
			StopID:           stopID,
			Sequence:         sequence,
			ArrivalSeconds:   arrSec,
			DepartureSeconds: depSec,
		})
	}
}

// parseGTFSTime parses "HH:MM:SS" into seconds since midnight. Hours may
// exceed 23 for trips running past midnight.
func parseGTFSTime(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	sec, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil || h < 0 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, false
	}
	return float64(h*3600 + m*60 + sec), true
}
