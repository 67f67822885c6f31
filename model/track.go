package model

import "fmt"

// TrackName returns the canonical "{start}_{end}" name of a track.
func TrackName(start, end string) string {
	return fmt.Sprintf("%s_%s", start, end)
}

// Track is a directed edge (start OCP -> end OCP) with a length in
// metres, an integer capacity >= 1, and a maximum speed in m/s. For
// moving-block resolution it owns an ordered list of TrackSections
// partitioning its length.
type Track struct {
	*InfraElement
	Start    *OCP
	End      *OCP
	LengthM  float64
	MaxSpeed float64 // m/s
	Sections []*TrackSection
}

// NewTrack builds a track from start to end with the given length,
// capacity and speed limit. Record enables reservation logging on the
// track itself (used by FB/LB resolution, which reserve at track or
// section granularity respectively).
func NewTrack(start, end *OCP, lengthM float64, capacity int, maxSpeed float64, record bool) *Track {
	name := TrackName(start.Name, end.Name)
	t := &Track{
		InfraElement: NewInfraElement(name, capacity, record),
		Start:        start,
		End:          end,
		LengthM:      lengthM,
		MaxSpeed:     maxSpeed,
	}
	start.AddOutgoing(t)
	return t
}

// SetCapacity changes the track's capacity and propagates it to every
// owned section (§3 invariant).
func (t *Track) SetCapacity(capacity int) {
	t.Capacity = capacity
	for _, s := range t.Sections {
		s.Capacity = capacity
	}
}

// Subdivide partitions the track into n sections of equal length
// (Σlengths == track length), each sharing the track's capacity, and
// replaces any existing sections. Used by moving-block and
// length-block network construction.
func (t *Track) Subdivide(n int, record bool) []*TrackSection {
	if n <= 0 {
		n = 1
	}
	sections := make([]*TrackSection, 0, n)
	each := t.LengthM / float64(n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%s#%d", t.Name, i)
		sections = append(sections, &TrackSection{
			InfraElement: NewInfraElement(name, t.Capacity, record),
			Track:        t,
			Index:        i,
			LengthM:      each,
			total:        n,
		})
	}
	t.Sections = sections
	return sections
}
