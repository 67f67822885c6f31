package model

import (
	"time"

	"github.com/e11824496/pytrainsim/simerr"
)

// Holder identifies whoever reserves an InfraElement — a train name.
type Holder = string

// FreeCallback is invoked once, at most, when capacity becomes
// available on the element it was registered on.
type FreeCallback func()

// Reservation is one (holder, start, end?) record on a Recorder.
// End is the zero time while the reservation is open.
type Reservation struct {
	Holder Holder
	Start  time.Time
	End    time.Time
}

// Open reports whether the reservation has not yet been closed.
func (r Reservation) Open() bool { return r.End.IsZero() }

// Recorder is an append-only per-resource reservation log. One open
// record per holder at a time; Release closes the holder's most
// recent open record.
type Recorder struct {
	name    string
	records []Reservation
}

// NewRecorder builds a Recorder for the named resource.
func NewRecorder(name string) *Recorder {
	return &Recorder{name: name}
}

// Open appends a new open reservation for holder at t.
func (r *Recorder) Open(holder Holder, t time.Time) {
	r.records = append(r.records, Reservation{Holder: holder, Start: t})
}

// Close closes the most recent open reservation held by holder.
// Fatal (InvariantError) if holder has no open reservation: a release
// by a non-holder.
func (r *Recorder) Close(holder Holder, t time.Time) error {
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].Holder == holder && r.records[i].Open() {
			r.records[i].End = t
			return nil
		}
	}
	return simerr.NewInvariant("release of %q by non-holder %q: no open reservation", r.name, holder)
}

// Records returns the full reservation log, in append order.
func (r *Recorder) Records() []Reservation { return append([]Reservation(nil), r.records...) }

// AllClosed reports whether every record in the log has a non-null
// end time not before its start time (§8 invariant 3).
func (r *Recorder) AllClosed() bool {
	for _, rec := range r.records {
		if rec.Open() || rec.End.Before(rec.Start) {
			return false
		}
	}
	return true
}

// Reset clears the recorder's log.
func (r *Recorder) Reset() { r.records = nil }

// Unbounded marks an InfraElement with infinite capacity (OCPs never
// block, per §3).
const Unbounded = -1

// InfraElement is the abstract base of OCP, Track and TrackSection:
// a named capacity-bounded resource with atomic reserve/release, a
// FIFO free-callback queue, and an optional reservation recorder.
type InfraElement struct {
	Name      string
	Capacity  int // Unbounded (-1) for infinite capacity
	Occupancy int
	callbacks []FreeCallback
	Recorder  *Recorder // nil when this network was built without recording
}

// NewInfraElement builds an element with the given capacity.
// Pass record=true to attach a Recorder.
func NewInfraElement(name string, capacity int, record bool) *InfraElement {
	e := &InfraElement{Name: name, Capacity: capacity}
	if record {
		e.Recorder = NewRecorder(name)
	}
	return e
}

// HasCapacity reports whether the element can admit one more holder.
func (e *InfraElement) HasCapacity() bool {
	return e.Capacity == Unbounded || e.Occupancy < e.Capacity
}

// Reserve attempts to admit holder at time t. Returns false without
// side effects if the element is at capacity.
func (e *InfraElement) Reserve(holder Holder, t time.Time) bool {
	if !e.HasCapacity() {
		return false
	}
	e.Occupancy++
	if e.Recorder != nil {
		e.Recorder.Open(holder, t)
	}
	return true
}

// Release vacates holder's hold at time t, then drains one queued
// free-callback if capacity is available afterwards. Fatal if
// occupancy would go negative.
func (e *InfraElement) Release(holder Holder, t time.Time) error {
	if e.Recorder != nil {
		if err := e.Recorder.Close(holder, t); err != nil {
			return err
		}
	}
	if e.Occupancy <= 0 {
		return simerr.NewInvariant("release of %q would drive occupancy negative", e.Name)
	}
	e.Occupancy--
	e.drainOne()
	return nil
}

// RegisterFreeCallback appends cb to the FIFO queue, firing it
// immediately (and removing it) if capacity is already available.
// Per §9 design notes, a synchronous fire from within Release or from
// here must be tolerated by the caller.
func (e *InfraElement) RegisterFreeCallback(cb FreeCallback) {
	if cb == nil {
		return
	}
	if e.HasCapacity() {
		cb()
		return
	}
	e.callbacks = append(e.callbacks, cb)
}

// drainOne fires the oldest queued callback, iff capacity is
// available after the preceding release. At most one callback fires
// per freed capacity unit, preserving FIFO registration order.
func (e *InfraElement) drainOne() {
	if len(e.callbacks) == 0 || !e.HasCapacity() {
		return
	}
	cb := e.callbacks[0]
	e.callbacks = e.callbacks[1:]
	cb()
}

// Reset clears occupancy, queued callbacks and the recorder.
func (e *InfraElement) Reset() {
	e.Occupancy = 0
	e.callbacks = nil
	if e.Recorder != nil {
		e.Recorder.Reset()
	}
}
