package train

import (
	"time"

	"github.com/e11824496/pytrainsim/model"
)

// EndTask is the final task of every trainpart. It holds no
// infrastructure; releasing it marks the train finished, which fires
// every callback registered by a dependent trainpart's StartTask.
type EndTask struct {
	taskBase
	scheduledCompletionTime time.Time
}

// NewEndTask builds an EndTask with the given scheduled completion.
func NewEndTask(id string, scheduledCompletionTime time.Time) *EndTask {
	return &EndTask{
		taskBase:                taskBase{id: id},
		scheduledCompletionTime: scheduledCompletionTime,
	}
}

// InfraAvailable is always true: EndTask holds no infrastructure.
func (t *EndTask) InfraAvailable() bool { return true }

// ReserveInfra is a no-op.
func (t *EndTask) ReserveInfra(time.Time) error { return nil }

// ReleaseInfra marks the train finished, firing any dependents waiting
// on it as a predecessor.
func (t *EndTask) ReleaseInfra(time.Time) error {
	t.train.Finish()
	return nil
}

// RegisterFreeCallback fires cb immediately: EndTask never blocks.
func (t *EndTask) RegisterFreeCallback(cb model.FreeCallback) {
	if cb != nil {
		cb()
	}
}

// Start is a no-op.
func (t *EndTask) Start(time.Time) {}

// Complete is a no-op; the train finishes on ReleaseInfra.
func (t *EndTask) Complete(time.Time) error { return nil }

// Duration is always zero.
func (t *EndTask) Duration() time.Duration { return 0 }

// ScheduledCompletionTime returns the trainpart's final scheduled
// instant.
func (t *EndTask) ScheduledCompletionTime() time.Time { return t.scheduledCompletionTime }
