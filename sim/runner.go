// Package sim implements the single-threaded discrete-event runner
// (§4.6): a monotonic clock, a min-heap of events, a delay oracle and
// the two event kinds that drive every task through its lifecycle.
package sim

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/e11824496/pytrainsim/delay"
	"github.com/e11824496/pytrainsim/event"
	"github.com/e11824496/pytrainsim/metrics"
	"github.com/e11824496/pytrainsim/simerr"
	"github.com/e11824496/pytrainsim/train"
)

// Runner owns the event queue and the simulated clock. All state
// mutation happens synchronously inside Run's call stack (§5); there
// is no concurrency to coordinate.
type Runner struct {
	Queue       event.Queue
	CurrentTime time.Time
	DelayOracle delay.Oracle

	Log     *logrus.Logger
	Metrics *metrics.Registry // nil disables instrumentation
}

// NewRunner builds a Runner starting at the zero instant with oracle
// as its delay source. A nil oracle is treated as delay.Zero{}.
func NewRunner(oracle delay.Oracle, log *logrus.Logger) *Runner {
	if oracle == nil {
		oracle = delay.Zero{}
	}
	if log == nil {
		log = logrus.New()
	}
	return &Runner{DelayOracle: oracle, Log: log}
}

// ScheduleTrain enqueues a train's first task at its StartTask's
// scheduled completion time (start OCP's scheduled time minus its
// minimum stop duration).
func (r *Runner) ScheduleTrain(tr *train.Train) {
	first := tr.CurrentTask()
	if first == nil {
		return
	}
	r.Queue.Push(first.ScheduledCompletionTime(), event.Start, first)
}

// Run drains the queue to exhaustion, advancing the simulated clock
// one event at a time. Returns the first fatal (invariant) error
// encountered; schedule errors are the caller's responsibility to
// keep out of the queue before Run starts (§7).
func (r *Runner) Run() error {
	for {
		ev := r.Queue.Pop()
		if ev == nil {
			return nil
		}
		if ev.Time.Before(r.CurrentTime) {
			return simerr.NewInvariant("event at %s scheduled before current time %s", ev.Time, r.CurrentTime)
		}
		r.CurrentTime = ev.Time
		if r.Metrics != nil {
			r.Metrics.EventsProcessed.Inc()
		}

		var err error
		switch ev.Kind {
		case event.Start:
			err = r.executeStart(ev)
		case event.AttemptEnd:
			err = r.executeAttemptEnd(ev)
		}
		if err != nil {
			r.Log.WithError(err).WithFields(logrus.Fields{
				"task": ev.Task.ID(),
				"kind": ev.Kind.String(),
				"time": ev.Time,
			}).Error("simulation aborted")
			return err
		}
	}
}

// executeStart implements StartEvent.execute (§4.6).
func (r *Runner) executeStart(ev *event.Event) error {
	task := ev.Task
	if !task.InfraAvailable() {
		task.RegisterFreeCallback(func() {
			r.Queue.Push(r.CurrentTime, event.Start, task)
		})
		return nil
	}

	completion := r.completionTime(task)
	if err := task.ReserveInfra(r.CurrentTime); err != nil {
		return err
	}
	task.Start(ev.Time)
	r.Queue.Push(completion, event.AttemptEnd, task)
	return nil
}

// executeAttemptEnd implements AttemptEnd.execute (§4.6).
func (r *Runner) executeAttemptEnd(ev *event.Event) error {
	task := ev.Task
	tr := task.Train()
	next := tr.PeekNextTask()

	if next == nil {
		if err := task.Complete(ev.Time); err != nil {
			return err
		}
		return task.ReleaseInfra(r.CurrentTime)
	}

	if !next.InfraAvailable() {
		next.RegisterFreeCallback(func() {
			r.Queue.Push(r.CurrentTime, event.AttemptEnd, task)
		})
		return nil
	}

	if err := task.Complete(ev.Time); err != nil {
		return err
	}
	if err := task.ReleaseInfra(r.CurrentTime); err != nil {
		return err
	}
	if err := next.ReserveInfra(r.CurrentTime); err != nil {
		return err
	}
	if err := tr.Advance(); err != nil {
		return err
	}
	next.Start(ev.Time)

	completion := r.completionTime(next)
	r.Queue.Push(completion, event.AttemptEnd, next)
	return nil
}

// completionTime computes max(task.ScheduledCompletionTime(),
// current_time + task.Duration()) + delay_oracle(task). A task with
// no scheduled constraint returns the zero time from
// ScheduledCompletionTime, which always compares before any real
// instant, so max naturally resolves to the duration-based estimate.
func (r *Runner) completionTime(task train.Task) time.Time {
	estimate := r.CurrentTime.Add(task.Duration())
	completion := estimate
	if task.ScheduledCompletionTime().After(completion) {
		completion = task.ScheduledCompletionTime()
	}
	primary := r.DelayOracle.Delay(task)
	completion = completion.Add(primary)
	if r.Metrics != nil {
		r.Metrics.TaskDelay.Observe(primary.Seconds())
	}
	return completion
}
