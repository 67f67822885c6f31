package train

import (
	"time"

	"github.com/e11824496/pytrainsim/model"
)

// StopTask holds an OCP for MinStop duration. OCPs have unbounded
// capacity so reserve/release always succeed.
type StopTask struct {
	taskBase
	OCP                     *model.OCP
	TrainPartID             string
	MinStop                 time.Duration
	scheduledCompletionTime time.Time
	scheduledArrival        time.Time
}

// NewStopTask builds a StopTask at ocp with the given schedule
// metadata. scheduledArrival is the schedule's arrival instant at
// this OCP (scheduledCompletionTime - the entry's stop duration),
// used only to seed a traversal row when this is the train's first
// stop (no preceding drive task logged an arrival).
func NewStopTask(id, trainpartID string, ocp *model.OCP, minStop time.Duration, scheduledArrival, scheduledCompletionTime time.Time) *StopTask {
	return &StopTask{
		taskBase:                taskBase{id: id},
		OCP:                     ocp,
		TrainPartID:             trainpartID,
		MinStop:                 minStop,
		scheduledCompletionTime: scheduledCompletionTime,
		scheduledArrival:        scheduledArrival,
	}
}

// InfraAvailable is always true: OCPs never block.
func (t *StopTask) InfraAvailable() bool { return t.OCP.HasCapacity() }

// ReserveInfra reserves the OCP.
func (t *StopTask) ReserveInfra(at time.Time) error {
	t.OCP.Reserve(t.train.Name, at)
	return nil
}

// ReleaseInfra releases the OCP.
func (t *StopTask) ReleaseInfra(at time.Time) error {
	return t.OCP.Release(t.train.Name, at)
}

// RegisterFreeCallback delegates to the OCP, which always has
// capacity so cb fires immediately.
func (t *StopTask) RegisterFreeCallback(cb model.FreeCallback) {
	t.OCP.RegisterFreeCallback(cb)
}

// Start seeds an arrival row if none was logged by a preceding drive
// task (i.e. this is the train's first stop).
func (t *StopTask) Start(at time.Time) {
	if n := len(t.train.Log); n == 0 || t.train.Log[n-1].OCP != t.OCP.Name {
		t.train.logArrival(t.ID(), t.TrainPartID, t.OCP.Name, t.scheduledArrival, at)
	}
}

// Complete logs the departure row for this OCP.
func (t *StopTask) Complete(at time.Time) error {
	t.train.logDeparture(t.OCP.Name, t.scheduledCompletionTime, at)
	return nil
}

// Duration is the OCP entry's minimum stop time.
func (t *StopTask) Duration() time.Duration { return t.MinStop }

// ScheduledCompletionTime is this stop's scheduled departure.
func (t *StopTask) ScheduledCompletionTime() time.Time { return t.scheduledCompletionTime }
