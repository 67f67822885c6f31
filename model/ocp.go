package model

// GeoPoint is an optional geographic coordinate for an OCP.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// OCP is a named location where trains may stop: a station, junction
// or signal box. It has infinite capacity and never blocks. OCPs are
// created at network load and are immutable afterwards.
type OCP struct {
	*InfraElement
	Geo      *GeoPoint
	Outgoing []*Track // tracks registered as leaving this OCP
}

// NewOCP builds an unbounded-capacity OCP.
func NewOCP(name string, geo *GeoPoint) *OCP {
	return &OCP{
		InfraElement: NewInfraElement(name, Unbounded, true),
		Geo:          geo,
	}
}

// AddOutgoing registers track as leaving this OCP exactly once.
func (o *OCP) AddOutgoing(t *Track) {
	for _, existing := range o.Outgoing {
		if existing == t {
			return
		}
	}
	o.Outgoing = append(o.Outgoing, t)
}
