package train

import (
	"math"
	"time"

	"github.com/e11824496/pytrainsim/model"
	"github.com/e11824496/pytrainsim/simerr"
)

// brakeSpeedEpsilon is the tolerance below which an exit speed counts
// as a full stop for the brake-distance safety check (§4.5).
const brakeSpeedEpsilon = 0.01

// MBDriveTask moves a train across one TrackSection under moving-block
// resolution. Entry and exit speeds are determined by a forward
// lookahead across the chain of downstream sections (§4.5): a train is
// never committed to a section from which it cannot brake to a safe
// speed given what is already reserved ahead of it.
type MBDriveTask struct {
	taskBase
	Section       *model.TrackSection
	Next          *MBDriveTask // nil at the final section of the path
	TrainPartID   string
	DestOCP       *model.OCP
	IsLastSection bool

	// scheduledCompletionTime binds only the final section; every
	// other section reports the zero time ("no constraint").
	scheduledCompletionTime time.Time

	reserved  bool
	capV      float64 // this section's speed ceiling, set by the most recent lookahead that reached it
	capVSet   bool
	exitSpeed float64 // stashed by ReserveInfra, consumed by Complete and Duration
}

// NewMBDriveTask builds an MBDriveTask for one TrackSection. Link the
// chain front-to-back with SetNext once every task of a path exists;
// the final task is left with Next == nil.
func NewMBDriveTask(id, trainpartID string, section *model.TrackSection, destOCP *model.OCP, isLastSection bool, scheduledCompletionTime time.Time) *MBDriveTask {
	return &MBDriveTask{
		taskBase:                taskBase{id: id},
		Section:                 section,
		TrainPartID:             trainpartID,
		DestOCP:                 destOCP,
		IsLastSection:           isLastSection,
		scheduledCompletionTime: scheduledCompletionTime,
	}
}

// SetNext links this task to the next MBDriveTask in the train's path.
func (t *MBDriveTask) SetNext(next *MBDriveTask) { t.Next = next }

func (t *MBDriveTask) trackCap() float64 {
	return t.Section.Track.MaxSpeed * t.train.Kinematics.RelMaxSpeed
}

// possibleEntrySpeed reports the fastest speed the train may enter
// this section at, bounded above by maxEntry, without reserving
// anything. It returns the ordered chain of tasks — starting with t —
// that a caller intending to act on this entry speed should reserve,
// and caches each visited task's speed ceiling (capV) along the way
// for that task's own later Duration call.
func (t *MBDriveTask) possibleEntrySpeed(maxEntry float64) (float64, []*MBDriveTask) {
	if !t.Section.HasCapacity() && !t.reserved {
		return 0, nil
	}
	profile := t.train.Kinematics
	capV := math.Min(maxEntry, t.trackCap())
	t.capV, t.capVSet = capV, true

	exitCeiling := profile.MinExitSpeed(t.Section.LengthM, capV)
	var exit float64
	var chain []*MBDriveTask
	if exitCeiling > 0 && t.Next != nil {
		nextEntry, nextChain := t.Next.possibleEntrySpeed(exitCeiling)
		exit = math.Min(exitCeiling, nextEntry)
		chain = nextChain
	}
	entry := math.Min(capV, profile.MaxEntrySpeed(t.Section.LengthM, exit))
	return entry, append([]*MBDriveTask{t}, chain...)
}

// InfraAvailable reports whether this section has capacity, or is
// already held by this train's own earlier lookahead reservation.
func (t *MBDriveTask) InfraAvailable() bool {
	return t.reserved || t.Section.HasCapacity()
}

// ReserveInfra reserves this section (unless an earlier lookahead
// already pre-reserved it) plus every section of the forward
// brake-path lookahead chain, then runs the brake-distance safety
// check: a train may never be committed to entering a section it
// cannot stop within, given what lies ahead.
func (t *MBDriveTask) ReserveInfra(at time.Time) error {
	profile := t.train.Kinematics
	if !t.reserved {
		if !t.Section.Reserve(t.train.Name, at) {
			return simerr.NewInvariant("mbdrive task %q: section %q unavailable at reserve time", t.id, t.Section.Name)
		}
		t.reserved = true
		t.train.ReservedSections = append(t.train.ReservedSections, t)
	}

	maxExit := math.Min(profile.MaxExitSpeed(t.Section.LengthM, t.train.Speed), t.trackCap())
	var exitSpeed float64
	var chain []*MBDriveTask
	if t.Next != nil {
		exitSpeed, chain = t.Next.possibleEntrySpeed(maxExit)
	}

	for _, c := range chain {
		if c.reserved {
			continue
		}
		if !c.Section.Reserve(c.train.Name, at) {
			return simerr.NewInvariant("mbdrive task %q: lookahead reservation of %q failed", t.id, c.Section.Name)
		}
		c.reserved = true
		c.train.ReservedSections = append(c.train.ReservedSections, c)
	}

	if exitSpeed == 0 && profile.MinExitSpeed(t.Section.LengthM, t.train.Speed) > brakeSpeedEpsilon {
		return simerr.NewInvariant("brake distance too short at section %q", t.Section.Name)
	}

	if !t.capVSet {
		t.capV, t.capVSet = maxExit, true
	}
	t.exitSpeed = exitSpeed
	return nil
}

// RegisterFreeCallback registers on this section only.
func (t *MBDriveTask) RegisterFreeCallback(cb model.FreeCallback) {
	t.Section.RegisterFreeCallback(cb)
}

// Start is a no-op: MBDriveTask logs nothing at the start of travel.
func (t *MBDriveTask) Start(time.Time) {}

// Complete sets the train's live speed to the reserved exit speed and,
// for the final section of the path, logs the destination arrival.
func (t *MBDriveTask) Complete(at time.Time) error {
	t.train.Speed = t.exitSpeed
	if t.IsLastSection && t.DestOCP != nil {
		t.train.logArrival(t.id, t.TrainPartID, t.DestOCP.Name, t.scheduledCompletionTime, at)
	}
	return nil
}

// ReleaseInfra releases this section and drops it from the train's
// pre-reserved-ahead list.
func (t *MBDriveTask) ReleaseInfra(at time.Time) error {
	if err := t.Section.Release(t.train.Name, at); err != nil {
		return err
	}
	t.reserved = false
	kept := t.train.ReservedSections[:0]
	for _, s := range t.train.ReservedSections {
		if s != t {
			kept = append(kept, s)
		}
	}
	t.train.ReservedSections = kept
	return nil
}

// Duration runs the kinematic profile across this section for the
// cached entry speed, speed ceiling and reserved exit speed.
func (t *MBDriveTask) Duration() time.Duration {
	seconds := t.train.Kinematics.RunDuration(t.Section.LengthM, t.capV, t.train.Speed, t.exitSpeed)
	return time.Duration(seconds * float64(time.Second))
}

// ScheduledCompletionTime is the trainpart's target completion time
// for the final section only; every other section returns the zero
// time, which the event loop's max() treats as "no constraint".
func (t *MBDriveTask) ScheduledCompletionTime() time.Time {
	if t.IsLastSection {
		return t.scheduledCompletionTime
	}
	return time.Time{}
}
