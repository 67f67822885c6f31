// Package simerr defines the error taxonomy used across the simulator:
// topology errors (fatal at load), schedule errors (recoverable per
// train) and invariant errors (fatal, abort the run).
package simerr

import "fmt"

// Topology wraps a fatal network-construction error: unknown OCP
// reference, missing track, malformed capacity.
type Topology struct {
	Msg string
}

func (e *Topology) Error() string { return "topology: " + e.Msg }

// NewTopology builds a Topology error.
func NewTopology(format string, args ...any) *Topology {
	return &Topology{Msg: fmt.Sprintf(format, args...)}
}

// Schedule wraps a recoverable per-train error: unparseable row,
// impossible ordering. The caller logs and skips the train.
type Schedule struct {
	TrainID string
	Msg     string
}

func (e *Schedule) Error() string {
	return fmt.Sprintf("schedule error for train %q: %s", e.TrainID, e.Msg)
}

// NewSchedule builds a Schedule error for the named train.
func NewSchedule(trainID, format string, args ...any) *Schedule {
	return &Schedule{TrainID: trainID, Msg: fmt.Sprintf(format, args...)}
}

// Invariant wraps a fatal core-invariant violation: negative occupancy,
// non-monotone event time, brake distance too short, release by a
// non-holder. The run is corrupt once this is raised.
type Invariant struct {
	Msg string
}

func (e *Invariant) Error() string { return "invariant violated: " + e.Msg }

// NewInvariant builds an Invariant error.
func NewInvariant(format string, args ...any) *Invariant {
	return &Invariant{Msg: fmt.Sprintf(format, args...)}
}
