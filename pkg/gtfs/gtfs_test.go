package gtfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/urbanmesh/linescout/pkg/network"
)

func writeFeed(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// A two-line feed: metro line M1 over A-B-C and tram line T1 over B-D.
// Stop B is shared by name, so the combined graph gets transfer edges there.
func sampleFeed(t *testing.T) string {
	t.Helper()
	return writeFeed(t, map[string]string{
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"a,Alpha,48.85,2.30\n" +
			"b1,Bravo,48.86,2.31\n" +
			"b2,Bravo,48.86,2.31\n" +
			"c,Charlie,48.87,2.32\n" +
			"d,Delta,48.88,2.33\n",
		"routes.txt": "route_id,route_short_name,route_type\n" +
			"r1,M1,1\n" +
			"r2,T1,0\n" +
			"r3,B9,3\n",
		"trips.txt": "route_id,trip_id\n" +
			"r1,t1\n" +
			"r2,t2\n" +
			"r3,t3\n",
		"stop_times.txt": "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
			"t1,a,1,08:00:00,08:00:30\n" +
			"t1,b1,2,08:02:30,08:03:00\n" +
			"t1,c,3,08:05:00,08:05:30\n" +
			"t2,b2,1,09:00:00,09:00:20\n" +
			"t2,d,2,09:02:20,09:02:40\n" +
			"t3,a,1,10:00:00,10:00:00\n" +
			"t3,d,2,10:10:00,10:10:00\n",
	})
}

func TestLoadFeed(t *testing.T) {
	ds, err := Load(sampleFeed(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Stops) != 5 {
		t.Errorf("stops = %d, want 5", len(ds.Stops))
	}
	if len(ds.Routes) != 3 {
		t.Errorf("routes = %d, want 3", len(ds.Routes))
	}
	if got := ds.Routes["r1"].ShortName; got != "M1" {
		t.Errorf("r1 short name = %q, want M1", got)
	}
	times := ds.StopTimes["t1"]
	if len(times) != 3 {
		t.Fatalf("t1 stop_times = %d, want 3", len(times))
	}
	if times[0].StopID != "a" || times[2].StopID != "c" {
		t.Errorf("t1 not sorted by sequence: %v", times)
	}
	if times[0].DepartureSeconds != 8*3600+30 {
		t.Errorf("departure = %v, want %v", times[0].DepartureSeconds, 8*3600+30)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := writeFeed(t, map[string]string{
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n",
	})
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for missing routes.txt")
	}
}

func TestLoadSkipsBadRows(t *testing.T) {
	dir := writeFeed(t, map[string]string{
		"stops.txt":  "stop_id,stop_name,stop_lat,stop_lon\na,Alpha,48.85,2.30\n,NoID,1,1\n",
		"routes.txt": "route_id,route_short_name,route_type\nr1,M1,1\nr2,M2,notanumber\n",
		"trips.txt":  "route_id,trip_id\nr1,t1\n",
		"stop_times.txt": "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
			"t1,a,1,08:00:00,08:00:00\n" +
			"t1,a,two,08:01:00,08:01:00\n" +
			"t1,a,3,garbage,garbage\n",
	})
	ds, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Stops) != 1 {
		t.Errorf("stops = %d, want 1", len(ds.Stops))
	}
	if len(ds.Routes) != 1 {
		t.Errorf("routes = %d, want 1", len(ds.Routes))
	}
	if len(ds.StopTimes["t1"]) != 1 {
		t.Errorf("t1 stop_times = %d, want 1", len(ds.StopTimes["t1"]))
	}
}

func TestParseGTFSTime(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"00:00:00", 0, true},
		{"08:30:15", 8*3600 + 30*60 + 15, true},
		{"25:10:00", 25*3600 + 10*60, true},
		{"", 0, false},
		{"8:61:00", 0, false},
		{"noon", 0, false},
	}
	for _, c := range cases {
		got, ok := parseGTFSTime(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("parseGTFSTime(%q) = (%v, %v), want (%v, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestModeForRouteType(t *testing.T) {
	if m, ok := ModeForRouteType(1); !ok || m != network.ModeMetro {
		t.Errorf("route_type 1 = (%v, %v), want metro", m, ok)
	}
	if _, ok := ModeForRouteType(3); ok {
		t.Error("buses must be dropped")
	}
	if _, ok := ModeForRouteType(7); ok {
		t.Error("funiculars must be dropped")
	}
}

func TestBuildNetworks(t *testing.T) {
	ds, err := Load(sampleFeed(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	modes := append(network.Modes(), network.ModeCombined)
	graphs, err := BuildNetworks(ds, modes, AssembleOptions{
		TransferTimeSeconds:    60,
		TransferPenaltySeconds: 300,
	})
	if err != nil {
		t.Fatalf("BuildNetworks: %v", err)
	}

	metro := graphs[network.ModeMetro]
	if metro == nil {
		t.Fatal("missing metro graph")
	}
	if metro.StopCount() != 3 {
		t.Errorf("metro stops = %d, want 3", metro.StopCount())
	}
	if !metro.HasEdge("M1 - Alpha", "M1 - Bravo") {
		t.Error("missing metro edge Alpha->Bravo")
	}
	// arrival 08:02:30 minus departure 08:00:30
	if e, ok := findEdge(metro, "M1 - Alpha", "M1 - Bravo"); !ok || e.Weight != 120 {
		t.Errorf("Alpha->Bravo weight = %v, want 120", e.Weight)
	}

	tram := graphs[network.ModeTram]
	if tram.StopCount() != 2 {
		t.Errorf("tram stops = %d, want 2", tram.StopCount())
	}
	if tram.HasEdge("T1 - Bravo", "M1 - Bravo") {
		t.Error("cross-mode transfer leaked into the tram graph")
	}

	// Bus route r3 must not appear anywhere.
	for _, g := range graphs {
		for _, id := range g.StopIDs() {
			if g.Stop(id).Line == "B9" {
				t.Fatalf("bus stop %s leaked into %s graph", id, g.Mode())
			}
		}
	}

	combined := graphs[network.ModeCombined]
	if combined.StopCount() != 5 {
		t.Errorf("combined stops = %d, want 5", combined.StopCount())
	}
	e, ok := findEdge(combined, "M1 - Bravo", "T1 - Bravo")
	if !ok {
		t.Fatal("missing transfer edge at Bravo in combined graph")
	}
	if !e.Transfer {
		t.Error("Bravo link not marked as transfer")
	}
	// 60s walk + 300s boarding penalty
	if e.Weight != 360 {
		t.Errorf("transfer weight = %v, want 360", e.Weight)
	}
	if !combined.HasEdge("T1 - Bravo", "M1 - Bravo") {
		t.Error("transfer edge must exist in both directions")
	}
}

func findEdge(g *network.NetworkGraph, from, to string) (network.Edge, bool) {
	for _, e := range g.Neighbors(from) {
		if e.To == to {
			return e, true
		}
	}
	return network.Edge{}, false
}

func TestBuildNetworksSkipsNonPositiveTravel(t *testing.T) {
	dir := writeFeed(t, map[string]string{
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"a,Alpha,48.85,2.30\nb,Bravo,48.86,2.31\nc,Charlie,48.87,2.32\n",
		"routes.txt": "route_id,route_short_name,route_type\nr1,M1,1\n",
		"trips.txt":  "route_id,trip_id\nr1,t1\n",
		"stop_times.txt": "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
			"t1,a,1,08:00:00,08:05:00\n" +
			"t1,b,2,08:04:00,08:04:30\n" + // arrives before previous departure
			"t1,c,3,08:06:00,08:06:00\n",
	})
	ds, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	graphs, err := BuildNetworks(ds, []network.Mode{network.ModeMetro}, AssembleOptions{})
	if err != nil {
		t.Fatalf("BuildNetworks: %v", err)
	}
	metro := graphs[network.ModeMetro]
	if metro.HasEdge("M1 - Alpha", "M1 - Bravo") {
		t.Error("non-positive travel time must not produce an edge")
	}
	if !metro.HasEdge("M1 - Bravo", "M1 - Charlie") {
		t.Error("valid follow-on hop should survive a skipped pair")
	}
}

func TestBuildNetworksUnknownStopRows(t *testing.T) {
	dir := writeFeed(t, map[string]string{
		"stops.txt":  "stop_id,stop_name,stop_lat,stop_lon\na,Alpha,48.85,2.30\nb,Bravo,48.86,2.31\n",
		"routes.txt": "route_id,route_short_name,route_type\nr1,M1,1\n",
		"trips.txt":  "route_id,trip_id\nr1,t1\n",
		"stop_times.txt": "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
			"t1,a,1,08:00:00,08:00:00\n" +
			"t1,ghost,2,08:02:00,08:02:00\n" +
			"t1,b,3,08:04:00,08:04:00\n",
	})
	ds, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	graphs, err := BuildNetworks(ds, []network.Mode{network.ModeMetro}, AssembleOptions{})
	if err != nil {
		t.Fatalf("BuildNetworks: %v", err)
	}
	metro := graphs[network.ModeMetro]
	if metro.StopCount() != 2 {
		t.Errorf("stops = %d, want 2", metro.StopCount())
	}
	if metro.HasEdge("M1 - Alpha", "M1 - Bravo") {
		t.Error("hop across an unknown stop must not be bridged")
	}
}
