// Package event implements the simulation's discrete-event queue: a
// min-heap ordered by simulated time, ties broken by insertion order.
package event

import (
	"container/heap"
	"time"

	"github.com/e11824496/pytrainsim/train"
)

// Kind distinguishes the two event shapes the runner executes (§4.6).
type Kind int

const (
	// Start attempts to begin a task: reserve its infra and schedule
	// its completion, or wait for a free callback.
	Start Kind = iota
	// AttemptEnd attempts to complete a task and hand off to the next
	// one in its train, or wait for the next task's infra to free up.
	AttemptEnd
)

func (k Kind) String() string {
	if k == Start {
		return "start"
	}
	return "attempt_end"
}

// Event is one entry in the runner's queue.
type Event struct {
	Time time.Time
	Kind Kind
	Task train.Task

	seq int64 // insertion order, for stable ties
}

// Queue is a time-ordered min-heap of events. The zero value is ready
// to use. Not safe for concurrent use — the simulation is single
// threaded by design (§5).
type Queue struct {
	items []*Event
	next  int64
}

// Push enqueues an event at the given time for the given task.
func (q *Queue) Push(at time.Time, kind Kind, task train.Task) {
	e := &Event{Time: at, Kind: kind, Task: task, seq: q.next}
	q.next++
	heap.Push((*queueHeap)(q), e)
}

// Pop removes and returns the earliest-time event, or nil if the queue
// is empty.
func (q *Queue) Pop() *Event {
	if len(q.items) == 0 {
		return nil
	}
	return heap.Pop((*queueHeap)(q)).(*Event)
}

// Len reports the number of queued events.
func (q *Queue) Len() int { return len(q.items) }

// queueHeap adapts Queue to container/heap.Interface. The pack's own
// graph library (katalvlaran/lvlath) implements its internal priority
// queues the same way, directly against container/heap rather than a
// third-party queue package, so the event queue follows that
// precedent instead of introducing a new dependency for one data
// structure.
type queueHeap Queue

func (h *queueHeap) Len() int { return len(h.items) }

func (h *queueHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.Time.Equal(b.Time) {
		return a.seq < b.seq
	}
	return a.Time.Before(b.Time)
}

func (h *queueHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *queueHeap) Push(x any) { h.items = append(h.items, x.(*Event)) }

func (h *queueHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	h.items = old[:n-1]
	return item
}
