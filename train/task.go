// Package train holds the Train that traverses the network and the
// Task state machine it runs: Start, Stop, Drive (FB/LB), MBDrive and
// End. Tasks and Train are mutually recursive (a StartTask waits on
// its train's predecessors' Train.Finished; an EndTask flips its own
// train's Finished flag) so both live in one package, mirroring how
// the teacher's model package keeps Bus and its board/alight task
// logic together rather than splitting across packages.
package train

import (
	"time"

	"github.com/e11824496/pytrainsim/model"
)

// Task is the contract every unit of train work exposes to the
// simulation runner (§2, §4.4).
type Task interface {
	// ID is the stable string used for delay-oracle lookup.
	ID() string
	// Train is the owning train.
	Train() *Train
	// InfraAvailable reports whether every resource this task needs
	// is currently free to reserve.
	InfraAvailable() bool
	// ReserveInfra reserves every resource this task needs, atomically.
	ReserveInfra(t time.Time) error
	// ReleaseInfra releases every resource this task holds.
	ReleaseInfra(t time.Time) error
	// RegisterFreeCallback arranges for cb to fire once capacity
	// frees up for this task.
	RegisterFreeCallback(cb model.FreeCallback)
	// Start marks the task as begun at time t.
	Start(t time.Time)
	// Complete marks the task as finished at time t, emitting any
	// traversal-log rows this task is responsible for.
	Complete(t time.Time) error
	// Duration is this task's own estimate of how long it takes,
	// independent of accumulated delay.
	Duration() time.Duration
	// ScheduledCompletionTime is the schedule's wall-clock target for
	// this task's completion; tasks with no such constraint return
	// the zero time (instants compare as "no constraint" per §4.5).
	ScheduledCompletionTime() time.Time
}

// taskBase factors the ID/Train/owner plumbing shared by every task.
type taskBase struct {
	id    string
	train *Train
}

func (b *taskBase) ID() string    { return b.id }
func (b *taskBase) Train() *Train { return b.train }
