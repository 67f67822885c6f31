package train

import (
	"time"

	"github.com/e11824496/pytrainsim/model"
	"github.com/e11824496/pytrainsim/simerr"
)

// DriveTask moves a train across one or more infrastructure elements
// held atomically: the whole track sequence of a schedule hop for
// fixed-block resolution, or a single TrackSection for length-block
// resolution (§4.4, §4.7). It never runs kinematics — its duration is
// the schedule's fixed minimum travel time.
type DriveTask struct {
	taskBase
	Resources               []*model.InfraElement
	TrainPartID             string
	MinTravel               time.Duration
	DestOCP                 *model.OCP // logged on completion iff IsLast
	IsLast                  bool
	scheduledCompletionTime time.Time
	reserved                bool
}

// NewDriveTask builds a DriveTask holding resources atomically.
// destOCP/isLast describe whether this task's completion should log
// an arrival at destOCP (the final sub-entry of an FB hop, or the
// final section of an LB track sequence).
func NewDriveTask(id, trainpartID string, resources []*model.InfraElement, minTravel time.Duration, destOCP *model.OCP, isLast bool, scheduledCompletionTime time.Time) *DriveTask {
	return &DriveTask{
		taskBase:                taskBase{id: id},
		Resources:               resources,
		TrainPartID:             trainpartID,
		MinTravel:               minTravel,
		DestOCP:                 destOCP,
		IsLast:                  isLast,
		scheduledCompletionTime: scheduledCompletionTime,
	}
}

// InfraAvailable reports whether every held resource has capacity.
func (t *DriveTask) InfraAvailable() bool {
	for _, r := range t.Resources {
		if !r.HasCapacity() {
			return false
		}
	}
	return true
}

// ReserveInfra reserves every resource atomically: if any fails, the
// ones already taken are rolled back rather than left partially held.
func (t *DriveTask) ReserveInfra(at time.Time) error {
	reserved := make([]*model.InfraElement, 0, len(t.Resources))
	for _, r := range t.Resources {
		if !r.Reserve(t.train.Name, at) {
			for _, done := range reserved {
				_ = done.Release(t.train.Name, at)
			}
			return simerr.NewInvariant("drive task %q: partial reservation of %q", t.id, r.Name)
		}
		reserved = append(reserved, r)
	}
	t.reserved = true
	return nil
}

// ReleaseInfra releases every held resource.
func (t *DriveTask) ReleaseInfra(at time.Time) error {
	for _, r := range t.Resources {
		if err := r.Release(t.train.Name, at); err != nil {
			return err
		}
	}
	t.reserved = false
	return nil
}

// RegisterFreeCallback registers only on the first resource still
// lacking capacity, to avoid the callback double-firing when several
// resources free up. Registering on an already-free resource would
// fire cb immediately and re-enter before the blocking resource ever
// frees.
func (t *DriveTask) RegisterFreeCallback(cb model.FreeCallback) {
	for _, r := range t.Resources {
		if !r.HasCapacity() {
			r.RegisterFreeCallback(cb)
			return
		}
	}
	cb()
}

// Start is a no-op: DriveTask logs nothing at the start of travel.
func (t *DriveTask) Start(time.Time) {}

// Complete logs an arrival at DestOCP if this is the last held
// resource of the schedule hop.
func (t *DriveTask) Complete(at time.Time) error {
	if t.IsLast && t.DestOCP != nil {
		t.train.logArrival(t.id, t.TrainPartID, t.DestOCP.Name, t.scheduledCompletionTime, at)
	}
	return nil
}

// Duration is the schedule's fixed minimum travel time.
func (t *DriveTask) Duration() time.Duration { return t.MinTravel }

// ScheduledCompletionTime is the schedule's target completion instant.
func (t *DriveTask) ScheduledCompletionTime() time.Time { return t.scheduledCompletionTime }
