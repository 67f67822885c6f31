package train

import (
	"time"

	"github.com/e11824496/pytrainsim/model"
)

// StartTask is the first task of every train. It blocks until every
// predecessor trainpart has finished, then hands off to the train's
// first real task with zero duration of its own.
type StartTask struct {
	taskBase
	// ScheduledCompletionTime is schedule-start minus the starting
	// OCP's min-stop time (§4.4).
	scheduledCompletionTime time.Time
}

// NewStartTask builds a StartTask with the given id and scheduled
// completion time.
func NewStartTask(id string, scheduledCompletionTime time.Time) *StartTask {
	return &StartTask{
		taskBase:                taskBase{id: id},
		scheduledCompletionTime: scheduledCompletionTime,
	}
}

// InfraAvailable reports whether every predecessor train has finished.
func (t *StartTask) InfraAvailable() bool {
	for _, p := range t.train.Predecessors {
		if !p.Finished {
			return false
		}
	}
	return true
}

// ReserveInfra is a no-op: StartTask holds no infrastructure.
func (t *StartTask) ReserveInfra(time.Time) error { return nil }

// ReleaseInfra is a no-op: StartTask holds no infrastructure.
func (t *StartTask) ReleaseInfra(time.Time) error { return nil }

// RegisterFreeCallback builds an N-of-N barrier across every
// predecessor's finish event, firing cb exactly once when the last
// one finishes (or immediately if all have already finished).
func (t *StartTask) RegisterFreeCallback(cb model.FreeCallback) {
	if cb == nil {
		return
	}
	if t.InfraAvailable() {
		cb()
		return
	}
	remaining := 0
	for _, p := range t.train.Predecessors {
		if !p.Finished {
			remaining++
		}
	}
	for _, p := range t.train.Predecessors {
		if p.Finished {
			continue
		}
		p.OnFinish(func() {
			remaining--
			if remaining == 0 {
				cb()
			}
		})
	}
}

// Start is a no-op marker; StartTask carries no state transition of
// its own beyond gating the first real task.
func (t *StartTask) Start(time.Time) {}

// Complete is a no-op; StartTask logs nothing.
func (t *StartTask) Complete(time.Time) error { return nil }

// Duration is always zero.
func (t *StartTask) Duration() time.Duration { return 0 }

// ScheduledCompletionTime returns schedule-start minus the starting
// OCP's min-stop time.
func (t *StartTask) ScheduledCompletionTime() time.Time { return t.scheduledCompletionTime }
