// Package schedule transforms a flat per-train timetable into the
// linked Task list a Train runs (§4.7). It owns the arrival-id policy
// that keeps a single physical TrackEntry's sub-reservations
// addressable, and maps the top-level resolution selector onto the
// FB/MB/LB task shapes.
package schedule

import (
	"fmt"
	"time"

	"github.com/e11824496/pytrainsim/model"
	"github.com/e11824496/pytrainsim/simerr"
	"github.com/e11824496/pytrainsim/train"
)

// Resolution selects the transformer and the track/section granularity
// a schedule is expanded against (§6).
type Resolution int

const (
	FB Resolution = iota
	MB
	LB
)

// Row is one scheduled OCP visit: arrival/departure at OCP, then the
// run time to the next row's OCP (ignored on the final row).
type Row struct {
	OCP                string
	ScheduledArrival   time.Time
	ScheduledDeparture time.Time
	StopDuration       time.Duration
	RunDuration        time.Duration
	ArrivalID          string
	StopID             string
	StopFlag           bool
}

// Normalize sets StopFlag on every row, replacing any value the caller
// set: a row is a real stop iff arrival and departure differ, and the
// first row is always a stop.
func Normalize(rows []Row) []Row {
	for i := range rows {
		if i == 0 {
			rows[i].StopFlag = true
			continue
		}
		if rows[i].ScheduledArrival.Equal(rows[i].ScheduledDeparture) {
			rows[i].StopFlag = false
		} else {
			rows[i].StopFlag = true
		}
	}
	return rows
}

// TrainPart describes one scheduled journey: its rows, its category
// (for kinematics/delay lookup) and the trainpart ids it must wait on.
type TrainPart struct {
	ID           string
	Category     string
	Rows         []Row
	Predecessors []string
}

// Transformer builds task lists against a fixed network and
// resolution.
type Transformer struct {
	Network    *model.Network
	Resolution Resolution
}

// NewTransformer builds a Transformer for net at the given resolution.
func NewTransformer(net *model.Network, res Resolution) *Transformer {
	return &Transformer{Network: net, Resolution: res}
}

// Build expands part into a Train with its task list wired, per §4.7.
// maxHops bounds the FB/MB/LB shortest-path lookups between scheduled
// OCP pairs.
func (tf *Transformer) Build(part TrainPart, kin func(category string) (float64, float64, float64), maxHops int) (*train.Train, error) {
	if len(part.Rows) < 2 {
		return nil, simerr.NewSchedule(part.ID, "needs at least two rows (origin and one hop)")
	}
	rows := part.Rows

	tr := train.NewTrain(part.ID, part.Category)
	if acc, dec, rel := kin(part.Category); tf.Resolution != FB {
		tr.Kinematics.Accel, tr.Kinematics.Decel, tr.Kinematics.RelMaxSpeed = acc, dec, rel
	}

	var tasks []train.Task

	startOCP, ok := tf.Network.GetOCP(rows[0].OCP)
	if !ok {
		return nil, simerr.NewSchedule(part.ID, "unknown origin OCP %q", rows[0].OCP)
	}
	startCompletion := rows[0].ScheduledDeparture.Add(-rows[0].StopDuration)
	tasks = append(tasks, train.NewStartTask(part.ID+"_start", startCompletion))
	tasks = append(tasks, train.NewStopTask(rows[0].StopID, part.ID, startOCP, rows[0].StopDuration, rows[0].ScheduledArrival, rows[0].ScheduledDeparture))

	for i := 1; i < len(rows); i++ {
		from, to := rows[i-1].OCP, rows[i].OCP
		path := tf.Network.ShortestPath(from, to, maxHops)
		if len(path) == 0 {
			return nil, simerr.NewSchedule(part.ID, "no path from %q to %q", from, to)
		}
		destOCP, ok := tf.Network.GetOCP(to)
		if !ok {
			return nil, simerr.NewSchedule(part.ID, "unknown destination OCP %q", to)
		}

		hop := rows[i]
		hop.RunDuration = rows[i-1].RunDuration
		driveTasks, err := tf.buildHop(part, hop, path, destOCP)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, driveTasks...)

		stopDur := rows[i].StopDuration
		if !rows[i].StopFlag {
			stopDur = 0
		}
		tasks = append(tasks, train.NewStopTask(rows[i].StopID, part.ID, destOCP, stopDur, rows[i].ScheduledArrival, rows[i].ScheduledDeparture))
	}

	tasks = append(tasks, train.NewEndTask(part.ID+"_end", rows[len(rows)-1].ScheduledDeparture))
	tr.SetTasks(tasks)
	return tr, nil
}

// buildHop builds the drive task(s) covering one TrackEntry (the
// travel segment between two consecutive rows).
func (tf *Transformer) buildHop(part TrainPart, row Row, path []*model.Track, destOCP *model.OCP) ([]train.Task, error) {
	switch tf.Resolution {
	case FB:
		return tf.buildFBHop(part, row, path, destOCP)
	case MB:
		return tf.buildMBHop(part, row, path, destOCP)
	case LB:
		return tf.buildLBHop(part, row, path, destOCP)
	default:
		return nil, simerr.NewSchedule(part.ID, "unknown resolution %d", tf.Resolution)
	}
}

// buildFBHop reserves every track of the hop atomically in a single
// DriveTask (§4.4).
func (tf *Transformer) buildFBHop(part TrainPart, row Row, path []*model.Track, destOCP *model.OCP) ([]train.Task, error) {
	resources := make([]*model.InfraElement, 0, len(path))
	for _, t := range path {
		resources = append(resources, t.InfraElement)
	}
	d := train.NewDriveTask(row.ArrivalID, part.ID, resources, row.RunDuration, destOCP, true, row.ScheduledArrival)
	return []train.Task{d}, nil
}

// buildMBHop builds one MBDriveTask per TrackSection of every track on
// the path and links the whole chain. The row's run time is not used:
// MB durations come from kinematics. Task ids follow §4.7's arrival-id
// policy: the row's arrival id, plus "_{track index}" on every track
// but the last, plus "_{section index}". Only the final section of the
// final track carries the row's scheduled completion time.
func (tf *Transformer) buildMBHop(part TrainPart, row Row, path []*model.Track, destOCP *model.OCP) ([]train.Task, error) {
	var tasks []train.Task
	var chain []*train.MBDriveTask

	for ti, t := range path {
		sections := ensureSections(t)
		trackIsLast := ti == len(path)-1
		baseID := row.ArrivalID
		if !trackIsLast {
			baseID = fmt.Sprintf("%s_%d", row.ArrivalID, ti)
		}
		for _, s := range sections {
			isLastSection := trackIsLast && s.IsLast()
			id := fmt.Sprintf("%s_%d", baseID, s.Index)
			completion := time.Time{}
			if isLastSection {
				completion = row.ScheduledArrival
			}
			mb := train.NewMBDriveTask(id, part.ID, s, destOCP, isLastSection, completion)
			chain = append(chain, mb)
			tasks = append(tasks, mb)
		}
	}
	for i := 0; i+1 < len(chain); i++ {
		chain[i].SetNext(chain[i+1])
	}
	return tasks, nil
}

// buildLBHop mirrors buildMBHop's section shape and naming, but uses
// fixed-duration DriveTasks instead of kinematic lookahead (§4.7).
func (tf *Transformer) buildLBHop(part TrainPart, row Row, path []*model.Track, destOCP *model.OCP) ([]train.Task, error) {
	totalSections := 0
	for _, t := range path {
		totalSections += len(ensureSections(t))
	}
	if totalSections == 0 {
		return nil, simerr.NewSchedule(part.ID, "hop to %q has no sections", destOCP.Name)
	}
	perSection := row.RunDuration / time.Duration(totalSections)

	var tasks []train.Task
	for ti, t := range path {
		sections := ensureSections(t)
		trackIsLast := ti == len(path)-1
		baseID := row.ArrivalID
		if !trackIsLast {
			baseID = fmt.Sprintf("%s_%d", row.ArrivalID, ti)
		}
		for _, s := range sections {
			isLastSection := trackIsLast && s.IsLast()
			id := fmt.Sprintf("%s_%d", baseID, s.Index)
			completion := time.Time{}
			if isLastSection {
				completion = row.ScheduledArrival
			}
			d := train.NewDriveTask(id, part.ID, []*model.InfraElement{s.InfraElement}, perSection, destOCP, isLastSection, completion)
			tasks = append(tasks, d)
		}
	}
	return tasks, nil
}

// ensureSections returns a track's sections, lazily subdividing into a
// single whole-track section if the network builder never did so.
func ensureSections(t *model.Track) []*model.TrackSection {
	if len(t.Sections) == 0 {
		return t.Subdivide(1, t.Recorder != nil)
	}
	return t.Sections
}
