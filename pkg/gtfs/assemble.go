package gtfs

import (
	"fmt"
	"sort"

	"github.com/urbanmesh/linescout/pkg/network"
)

// AssembleOptions tunes graph assembly.
type AssembleOptions struct {
	// TransferTimeSeconds is the base walking time between co-located stops.
	TransferTimeSeconds float64
	// TransferPenaltySeconds is the boarding penalty added to transfer
	// edges at build time.
	TransferPenaltySeconds float64
}

// lineStop is a line-qualified stop under assembly. The ID convention
// "<line> - <name>" merges same-name platforms of one line into a single
// stop while keeping each line's stop at a shared station distinct.
type lineStop struct {
	id   string
	name string
	line string
	mode network.Mode
	lat  float64
	lon  float64
}

// serviceLink is a directed travel-time observation between two line stops.
type serviceLink struct {
	from    string
	to      string
	seconds float64
}

// BuildNetworks assembles one graph per requested mode plus the combined
// graph from the parsed feed. Bus routes and route types outside the mode
// set are dropped. Travel times come from consecutive stop_time pairs;
// transfer edges link co-located stops of different lines.
func BuildNetworks(ds *Dataset, modes []network.Mode, opts AssembleOptions) (map[network.Mode]*network.NetworkGraph, error) {
	wanted := make(map[network.Mode]bool, len(modes))
	for _, m := range modes {
		wanted[m] = true
	}

	stops := make(map[string]lineStop)
	var links []serviceLink

	for tripID, times := range ds.StopTimes {
		trip, ok := ds.Trips[tripID]
		if !ok {
			continue
		}
		route, ok := ds.Routes[trip.RouteID]
		if !ok {
			continue
		}
		mode, ok := ModeForRouteType(route.Type)
		if !ok || !(wanted[mode] || wanted[network.ModeCombined]) {
			continue
		}
		line := route.ShortName
		if line == "" {
			line = route.ID
		}

		var prev *StopTime
		var prevID string
		for i := range times {
			st := times[i]
			rec, ok := ds.Stops[st.StopID]
			if !ok {
				prev = nil
				continue
			}
			id := fmt.Sprintf("%s - %s", line, rec.Name)
			if existing, seen := stops[id]; !seen {
				stops[id] = lineStop{
					id:   id,
					name: rec.Name,
					line: line,
					mode: mode,
					lat:  rec.Lat,
					lon:  rec.Lon,
				}
			} else if existing.mode != mode {
				// A line name shared across modes would merge stops of
				// different graphs; qualify by mode to keep them apart.
				id = fmt.Sprintf("%s [%s] - %s", line, mode, rec.Name)
				if _, seen := stops[id]; !seen {
					stops[id] = lineStop{id: id, name: rec.Name, line: line, mode: mode, lat: rec.Lat, lon: rec.Lon}
				}
			}

			if prev != nil && prevID != id {
				travel := st.ArrivalSeconds - prev.DepartureSeconds
				if travel > 0 {
					links = append(links, serviceLink{from: prevID, to: id, seconds: travel})
				}
			}
			prev = &times[i]
			prevID = id
		}
	}

	builders := make(map[network.Mode]*network.Builder)
	for _, m := range modes {
		builders[m] = network.NewBuilder(m).SetTransferPenalty(opts.TransferPenaltySeconds)
	}
	combined := builders[network.ModeCombined]

	// Deterministic insertion order keeps builds reproducible
	stopIDs := make([]string, 0, len(stops))
	for id := range stops {
		stopIDs = append(stopIDs, id)
	}
	sort.Strings(stopIDs)

	byName := make(map[string][]lineStop)
	for _, id := range stopIDs {
		ls := stops[id]
		netStop := network.Stop{
			ID:   ls.id,
			Name: ls.name,
			Line: ls.line,
			Mode: ls.mode,
			Lat:  ls.lat,
			Lon:  ls.lon,
		}
		if b, ok := builders[ls.mode]; ok {
			if err := b.AddStop(netStop); err != nil {
				return nil, err
			}
		}
		if combined != nil {
			if err := combined.AddStop(netStop); err != nil {
				return nil, err
			}
		}
		byName[ls.name] = append(byName[ls.name], ls)
	}

	for _, l := range links {
		mode := stops[l.from].mode
		if b, ok := builders[mode]; ok {
			if err := b.AddEdge(l.from, l.to, l.seconds); err != nil {
				return nil, err
			}
		}
		if combined != nil {
			if err := combined.AddEdge(l.from, l.to, l.seconds); err != nil {
				return nil, err
			}
		}
	}

	// Transfer edges between co-located stops of different lines, in both
	// directions. Same-mode transfers live in the mode graph; cross-mode
	// transfers exist only in the combined graph.
	transferTime := opts.TransferTimeSeconds
	if transferTime <= 0 {
		transferTime = 60
	}
	for _, group := range byName {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if a.mode == b.mode {
					if bld, ok := builders[a.mode]; ok {
						if err := addTransferBoth(bld, a.id, b.id, transferTime); err != nil {
							return nil, err
						}
					}
				}
				if combined != nil {
					if err := addTransferBoth(combined, a.id, b.id, transferTime); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	graphs := make(map[network.Mode]*network.NetworkGraph, len(builders))
	for mode, b := range builders {
		g, err := b.Build()
		if err != nil {
			return nil, err
		}
		graphs[mode] = g
	}
	return graphs, nil
}

func addTransferBoth(b *network.Builder, a, c string, seconds float64) error {
	if err := b.AddTransferEdge(a, c, seconds); err != nil {
		return err
	}
	return b.AddTransferEdge(c, a, seconds)
}
