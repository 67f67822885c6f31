// Package delay implements the primary-delay oracles: pluggable
// functions from a task to a non-negative extra duration, injected by
// the runner when computing a task's completion time (§4.6).
package delay

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/e11824496/pytrainsim/train"
)

// Oracle returns the extra (non-negative) duration the runner adds on
// top of a task's completion time, max(scheduled completion, current
// time + duration).
type Oracle interface {
	Delay(task train.Task) time.Duration
}

// Zero never delays anything.
type Zero struct{}

// Delay always returns zero.
func (Zero) Delay(train.Task) time.Duration { return 0 }

// Constant adds the same fixed duration to every task.
type Constant struct {
	D time.Duration
}

// Delay returns D, clamped to non-negative.
func (c Constant) Delay(train.Task) time.Duration {
	if c.D < 0 {
		return 0
	}
	return c.D
}

// Normal samples a delay from a normal distribution, clamped at zero.
// Rand is seeded by the caller so a run is reproducible given a seed.
type Normal struct {
	Mean   time.Duration
	StdDev time.Duration
	Rand   *rand.Rand
}

// NewNormal builds a Normal oracle with its own seeded source.
func NewNormal(mean, stdDev time.Duration, seed int64) *Normal {
	return &Normal{Mean: mean, StdDev: stdDev, Rand: rand.New(rand.NewSource(seed))}
}

// Delay draws one sample, clamped to non-negative.
func (n *Normal) Delay(train.Task) time.Duration {
	sample := float64(n.Mean) + n.Rand.NormFloat64()*float64(n.StdDev)
	if sample < 0 {
		return 0
	}
	return time.Duration(sample)
}

// Pareto samples a delay from a Pareto(Shape, Scale) distribution via
// inverse transform sampling, clamped at zero. A heavy-tailed model of
// rare, large primary delays.
type Pareto struct {
	Shape float64
	Scale time.Duration
	Rand  *rand.Rand
}

// NewPareto builds a Pareto oracle with its own seeded source.
func NewPareto(shape float64, scale time.Duration, seed int64) *Pareto {
	return &Pareto{Shape: shape, Scale: scale, Rand: rand.New(rand.NewSource(seed))}
}

// Delay draws one sample via inverse-CDF sampling.
func (p *Pareto) Delay(train.Task) time.Duration {
	if p.Shape <= 0 {
		return 0
	}
	u := p.Rand.Float64()
	for u == 0 {
		u = p.Rand.Float64()
	}
	sample := float64(p.Scale) / math.Pow(u, 1/p.Shape)
	if sample < 0 {
		return 0
	}
	return time.Duration(sample)
}

// DelayTaskID strips an MBDriveTask's "_{section_idx}" suffix so every
// section of one physical track maps to the same table row (§4.7).
func DelayTaskID(taskID string) string {
	idx := strings.LastIndex(taskID, "_")
	if idx < 0 {
		return taskID
	}
	suffix := taskID[idx+1:]
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return taskID
		}
	}
	if suffix == "" {
		return taskID
	}
	return taskID[:idx]
}

// Table looks up a fixed delay by the task's delay-task-id, falling
// back to zero for ids it doesn't recognize.
type Table struct {
	Delays map[string]time.Duration
}

// NewTable builds a Table from a delay-task-id -> duration map.
func NewTable(delays map[string]time.Duration) *Table {
	return &Table{Delays: delays}
}

// Delay looks up task.ID() (after stripping any section suffix).
func (t *Table) Delay(task train.Task) time.Duration {
	d, ok := t.Delays[DelayTaskID(task.ID())]
	if !ok || d < 0 {
		return 0
	}
	return d
}

// Ensemble composes per-category oracles, falling back to Default for
// categories it has no entry for.
type Ensemble struct {
	ByCategory map[string]Oracle
	Default    Oracle
}

// NewEnsemble builds an Ensemble; a nil def defaults to Zero{}.
func NewEnsemble(byCategory map[string]Oracle, def Oracle) *Ensemble {
	if def == nil {
		def = Zero{}
	}
	return &Ensemble{ByCategory: byCategory, Default: def}
}

// Delay dispatches on task.Train().Category.
func (e *Ensemble) Delay(task train.Task) time.Duration {
	if o, ok := e.ByCategory[task.Train().Category]; ok {
		return o.Delay(task)
	}
	return e.Default.Delay(task)
}
