// Package data holds the engine's JSON loaders: one illustrative
// network-description format and one schedule format, each decoded
// into raw structures and then built into the real domain model
// (§6's "Inputs (abstract)" — tabular/railML ingestion beyond this is
// explicitly out of scope).
package data

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/e11824496/pytrainsim/model"
)

type rawOCP struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

type rawTrack struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	LengthM  float64 `json:"length_m"`
	Capacity int     `json:"capacity"`
	MaxSpeed float64 `json:"max_speed"`
	Sections int     `json:"sections,omitempty"` // 0 = FB, leave unsplit
	Reverse  bool    `json:"reverse,omitempty"`   // infer a return track at half capacity
}

type rawNetwork struct {
	OCPs   []rawOCP   `json:"ocps"`
	Tracks []rawTrack `json:"tracks"`
}

// LoadNetworkFromReader decodes a network description and builds a
// model.Network. recordReservations controls whether every created
// element attaches a reservation Recorder.
func LoadNetworkFromReader(r io.Reader, recordReservations bool) (*model.Network, error) {
	dec := json.NewDecoder(r)
	var raw rawNetwork
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode network: %w", err)
	}

	net := model.NewNetwork(recordReservations)
	for _, o := range raw.OCPs {
		var geo *model.GeoPoint
		if o.Lat != nil && o.Lng != nil {
			geo = &model.GeoPoint{Lat: *o.Lat, Lng: *o.Lng}
		}
		if _, err := net.NewOCP(o.Name, geo); err != nil {
			return nil, err
		}
	}
	for _, t := range raw.Tracks {
		track, err := net.NewTrack(t.From, t.To, t.LengthM, t.Capacity, t.MaxSpeed)
		if err != nil {
			return nil, err
		}
		if t.Sections > 0 {
			track.Subdivide(t.Sections, recordReservations)
		}
		if t.Reverse {
			revCap := t.Capacity / 2
			if t.Capacity == model.Unbounded {
				revCap = model.Unbounded
			} else if revCap < 1 {
				revCap = 1
			}
			revTrack, err := net.NewTrack(t.To, t.From, t.LengthM, revCap, t.MaxSpeed)
			if err != nil {
				return nil, err
			}
			if t.Sections > 0 {
				revTrack.Subdivide(t.Sections, recordReservations)
			}
		}
	}
	return net, nil
}
