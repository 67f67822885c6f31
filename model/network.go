// Package model holds the static data model of the simulated railway:
// infrastructure elements (OCP, Track, TrackSection), the Network
// graph built from them, and the Train that traverses it.
package model

import (
	"github.com/e11824496/pytrainsim/simerr"
	lvgraph "github.com/katalvlaran/lvlath/graph"
)

// Network holds name->OCP and name->Track maps and answers shortest-
// path queries over track length.
//
// RecordReservations replaces the original's process-wide
// record_reservations_default global (§9 design notes): it is passed
// once at construction and applies to every element the Network
// creates from then on.
type Network struct {
	RecordReservations bool

	ocps   map[string]*OCP
	tracks map[string]*Track
}

// NewNetwork builds an empty network. recordReservations controls
// whether OCPs/Tracks/TrackSections created through this Network
// attach a Recorder.
func NewNetwork(recordReservations bool) *Network {
	return &Network{
		RecordReservations: recordReservations,
		ocps:               make(map[string]*OCP),
		tracks:             make(map[string]*Track),
	}
}

// AddOCP registers ocp under its name. Returns a TopologyError on
// duplicate name.
func (n *Network) AddOCP(ocp *OCP) error {
	if _, exists := n.ocps[ocp.Name]; exists {
		return simerr.NewTopology("duplicate OCP %q", ocp.Name)
	}
	n.ocps[ocp.Name] = ocp
	return nil
}

// NewOCP builds and registers an OCP.
func (n *Network) NewOCP(name string, geo *GeoPoint) (*OCP, error) {
	ocp := NewOCP(name, geo)
	if !n.RecordReservations {
		ocp.Recorder = nil
	}
	if err := n.AddOCP(ocp); err != nil {
		return nil, err
	}
	return ocp, nil
}

// AddTrack registers track under its canonical name. Returns a
// TopologyError on duplicate name or malformed capacity.
func (n *Network) AddTrack(track *Track) error {
	if _, exists := n.tracks[track.Name]; exists {
		return simerr.NewTopology("duplicate track %q", track.Name)
	}
	if track.Capacity != Unbounded && track.Capacity < 1 {
		return simerr.NewTopology("track %q has non-positive capacity %d", track.Name, track.Capacity)
	}
	n.tracks[track.Name] = track
	return nil
}

// NewTrack builds, registers and returns a track from startName to
// endName, looking both OCPs up by name.
func (n *Network) NewTrack(startName, endName string, lengthM float64, capacity int, maxSpeed float64) (*Track, error) {
	start, ok := n.ocps[startName]
	if !ok {
		return nil, simerr.NewTopology("unknown OCP %q referenced by track start", startName)
	}
	end, ok := n.ocps[endName]
	if !ok {
		return nil, simerr.NewTopology("unknown OCP %q referenced by track end", endName)
	}
	track := NewTrack(start, end, lengthM, capacity, maxSpeed, n.RecordReservations)
	if err := n.AddTrack(track); err != nil {
		return nil, err
	}
	return track, nil
}

// GetOCP looks up an OCP by name.
func (n *Network) GetOCP(name string) (*OCP, bool) {
	ocp, ok := n.ocps[name]
	return ocp, ok
}

// GetTrack looks up a track by canonical name.
func (n *Network) GetTrack(name string) (*Track, bool) {
	t, ok := n.tracks[name]
	return t, ok
}

// GetTrackByOCPNames looks up the track running from startName to
// endName, if registered.
func (n *Network) GetTrackByOCPNames(startName, endName string) (*Track, bool) {
	return n.GetTrack(TrackName(startName, endName))
}

// OCPs returns every registered OCP, in no particular order.
func (n *Network) OCPs() []*OCP {
	out := make([]*OCP, 0, len(n.ocps))
	for _, o := range n.ocps {
		out = append(out, o)
	}
	return out
}

// Tracks returns every registered track, in no particular order.
func (n *Network) Tracks() []*Track {
	out := make([]*Track, 0, len(n.tracks))
	for _, t := range n.tracks {
		out = append(out, t)
	}
	return out
}

// Validate reports every topology error found in one pass: unknown
// OCP references, malformed capacity, and tracks that are not
// registered in their start OCP's outgoing set exactly once (§3
// invariant). Unlike a parser that raises on first error, this is
// meant to surface the whole list to an operator before a run starts.
func (n *Network) Validate() []error {
	var errs []error
	for _, t := range n.tracks {
		if o, ok := n.ocps[t.Start.Name]; !ok || o != t.Start {
			errs = append(errs, simerr.NewTopology("track %q starts at unknown OCP %q", t.Name, t.Start.Name))
		}
		if o, ok := n.ocps[t.End.Name]; !ok || o != t.End {
			errs = append(errs, simerr.NewTopology("track %q ends at unknown OCP %q", t.Name, t.End.Name))
		}
		if t.Capacity != Unbounded && t.Capacity < 1 {
			errs = append(errs, simerr.NewTopology("track %q has non-positive capacity %d", t.Name, t.Capacity))
		}
		count := 0
		for _, out := range t.Start.Outgoing {
			if out == t {
				count++
			}
		}
		if count != 1 {
			errs = append(errs, simerr.NewTopology("track %q registered %d times in %q's outgoing set", t.Name, count, t.Start.Name))
		}
	}
	return errs
}

// shortestPathHopBound upper-bounds the hop count baked into the
// Dijkstra tie-break weight; see ShortestPath.
const shortestPathHopBound = 1_000_000

// lengthScale converts metre lengths to the integer domain lvlath's
// Dijkstra requires, at millimetre precision.
const lengthScale = 1000

// ShortestPath returns the ordered list of tracks from startName to
// endName minimising total length, using Dijkstra over track lengths.
// Ties are broken toward fewer tracks: each edge weight is
// length_mm*shortestPathHopBound + 1, so minimising the summed weight
// lexicographically minimises total length first and hop count second
// (see DESIGN.md). Returns an empty slice if unreachable or if the
// path would exceed maxHops (0 = unbounded).
func (n *Network) ShortestPath(startName, endName string, maxHops int) []*Track {
	if startName == endName {
		return nil
	}
	g := lvgraph.NewGraph(true, true)
	for _, t := range n.tracks {
		weight := int64(t.LengthM*lengthScale)*shortestPathHopBound + 1
		g.AddEdge(t.Start.Name, t.End.Name, weight)
	}
	if !g.HasVertex(startName) {
		return nil
	}
	_, parent, err := g.Dijkstra(startName)
	if err != nil {
		return nil
	}
	if _, ok := parent[endName]; !ok && endName != startName {
		return nil
	}

	// reconstruct start->end by walking parents back from endName
	var names []string
	cur := endName
	for cur != startName {
		p, ok := parent[cur]
		if !ok {
			return nil
		}
		names = append(names, cur)
		cur = p
		if maxHops > 0 && len(names) > maxHops {
			return nil
		}
	}
	names = append(names, startName)
	// reverse into start->end order
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}

	tracks := make([]*Track, 0, len(names)-1)
	for i := 0; i+1 < len(names); i++ {
		t, ok := n.GetTrackByOCPNames(names[i], names[i+1])
		if !ok {
			return nil
		}
		tracks = append(tracks, t)
	}
	if maxHops > 0 && len(tracks) > maxHops {
		return nil
	}
	return tracks
}
