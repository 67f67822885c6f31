package train

import (
	"time"

	"github.com/e11824496/pytrainsim/kinematics"
	"github.com/e11824496/pytrainsim/simerr"
)

// TraversalRow is one per-OCP visit: scheduled/simulated arrival and
// departure, keyed by the task and trainpart that produced it.
type TraversalRow struct {
	TaskID             string
	TrainPartID        string
	OCP                string
	ScheduledArrival   time.Time
	SimulatedArrival   time.Time
	ScheduledDeparture time.Time
	SimulatedDeparture time.Time
}

// Train is an ordered task list with a cursor, a traversal log, a
// finish-callback registry and a set of prerequisite predecessor
// trains (§3).
type Train struct {
	Name     string
	Category string

	// Kinematics is only meaningful for moving-block trains; fixed-
	// block trains leave it at its zero value.
	Kinematics kinematics.Profile
	Speed      float64 // current speed, m/s (MB only)

	Tasks  []Task
	Cursor int

	Log []*TraversalRow

	Predecessors []*Train
	Finished     bool
	finishCBs    []func()

	// ReservedSections tracks MBDriveTasks this train has pre-reserved
	// ahead of its cursor via lookahead (§4.5); released individually
	// as each section's own task releases.
	ReservedSections []*MBDriveTask
}

// NewTrain builds an empty train; call SetTasks once its task list is
// built by the schedule transformer.
func NewTrain(name, category string) *Train {
	return &Train{Name: name, Category: category}
}

// SetTasks installs the train's task list and wires each task's owner
// back to this train.
func (tr *Train) SetTasks(tasks []Task) {
	tr.Tasks = tasks
	for _, t := range tasks {
		if b, ok := taskOwner(t); ok {
			b.train = tr
		}
	}
}

// taskOwner extracts the shared taskBase from a concrete task, so
// SetTasks can back-reference the train without a setter on the Task
// interface.
func taskOwner(t Task) (*taskBase, bool) {
	switch v := t.(type) {
	case *StartTask:
		return &v.taskBase, true
	case *StopTask:
		return &v.taskBase, true
	case *DriveTask:
		return &v.taskBase, true
	case *MBDriveTask:
		return &v.taskBase, true
	case *EndTask:
		return &v.taskBase, true
	default:
		return nil, false
	}
}

// CurrentTask returns the task at the cursor, or nil past the end.
func (tr *Train) CurrentTask() Task {
	if tr.Cursor < 0 || tr.Cursor >= len(tr.Tasks) {
		return nil
	}
	return tr.Tasks[tr.Cursor]
}

// PeekNextTask returns the task after the cursor without advancing,
// or nil if the current task is the last.
func (tr *Train) PeekNextTask() Task {
	if tr.Cursor+1 >= len(tr.Tasks) {
		return nil
	}
	return tr.Tasks[tr.Cursor+1]
}

// Advance moves the cursor to the next task. Fatal if already past
// the end.
func (tr *Train) Advance() error {
	if tr.Cursor+1 >= len(tr.Tasks) {
		return simerr.NewInvariant("train %q: advance past last task", tr.Name)
	}
	tr.Cursor++
	return nil
}

// AddPredecessor records a trainpart this train must wait for before
// its StartTask can fire.
func (tr *Train) AddPredecessor(p *Train) {
	tr.Predecessors = append(tr.Predecessors, p)
}

// OnFinish registers cb to run once, when this train finishes.
func (tr *Train) OnFinish(cb func()) {
	if tr.Finished {
		cb()
		return
	}
	tr.finishCBs = append(tr.finishCBs, cb)
}

// Finish marks the train finished (monotone: false->true, once) and
// fires every registered finish callback.
func (tr *Train) Finish() {
	if tr.Finished {
		return
	}
	tr.Finished = true
	cbs := tr.finishCBs
	tr.finishCBs = nil
	for _, cb := range cbs {
		cb()
	}
}

// logArrival appends a new traversal row for an OCP visit, with the
// departure fields initialised to the arrival times, and returns it.
// It always appends; it does not look for an existing row for the
// same OCP.
func (tr *Train) logArrival(taskID, trainpartID, ocp string, scheduled, simulated time.Time) *TraversalRow {
	row := &TraversalRow{
		TaskID:             taskID,
		TrainPartID:        trainpartID,
		OCP:                ocp,
		ScheduledArrival:   scheduled,
		SimulatedArrival:   simulated,
		ScheduledDeparture: scheduled,
		SimulatedDeparture: simulated,
	}
	tr.Log = append(tr.Log, row)
	return row
}

// logDeparture fills in the departure fields of the most recent
// traversal row for ocp. If no such row exists (malformed task
// sequence) it is a no-op: StopTasks always follow a logged arrival
// in a well-formed schedule.
func (tr *Train) logDeparture(ocp string, scheduled, simulated time.Time) {
	for i := len(tr.Log) - 1; i >= 0; i-- {
		if tr.Log[i].OCP == ocp {
			tr.Log[i].ScheduledDeparture = scheduled
			tr.Log[i].SimulatedDeparture = simulated
			return
		}
	}
}
