package train

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e11824496/pytrainsim/kinematics"
	"github.com/e11824496/pytrainsim/model"
)

func buildMBChain(t *testing.T, lengths []float64, capacity int) (*Train, *model.OCP, []*MBDriveTask) {
	t.Helper()
	start := model.NewOCP("A", nil)
	end := model.NewOCP("B", nil)
	track := model.NewTrack(start, end, 0, capacity, 10, false)
	for _, l := range lengths {
		track.LengthM += l
	}
	sections := track.Subdivide(len(lengths), false)
	for i, s := range sections {
		s.LengthM = lengths[i]
	}

	tr := NewTrain("T1", "passenger")
	tr.Kinematics = kinematics.Profile{Accel: 1, Decel: -1, RelMaxSpeed: 1}

	var chain []*MBDriveTask
	for i, s := range sections {
		isLast := i == len(sections)-1
		completion := time.Time{}
		if isLast {
			completion = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		}
		chain = append(chain, NewMBDriveTask(s.Name, "T1", s, end, isLast, completion))
	}
	for i := 0; i+1 < len(chain); i++ {
		chain[i].SetNext(chain[i+1])
	}
	tr.SetTasks(taskSlice(chain))
	return tr, end, chain
}

func taskSlice(chain []*MBDriveTask) []Task {
	out := make([]Task, len(chain))
	for i, c := range chain {
		out[i] = c
	}
	return out
}

func TestMBDriveTaskReservesChainAndSetsExitSpeed(t *testing.T) {
	_, _, chain := buildMBChain(t, []float64{500, 500}, 1)

	require.NoError(t, chain[0].ReserveInfra(time.Now()))
	assert.True(t, chain[0].InfraAvailable())
	assert.True(t, chain[1].InfraAvailable(), "lookahead must pre-reserve the next section")
	assert.Greater(t, chain[0].capV, 0.0)
}

func TestMBDriveTaskCompleteSetsTrainSpeedAndLogsFinalArrival(t *testing.T) {
	tr, end, chain := buildMBChain(t, []float64{500, 500}, 1)

	require.NoError(t, chain[0].ReserveInfra(time.Now()))
	require.NoError(t, chain[0].Complete(time.Now()))
	assert.Equal(t, tr.Speed, chain[0].exitSpeed)
	assert.Empty(t, tr.Log, "only the final section logs an arrival")

	require.NoError(t, chain[1].ReserveInfra(time.Now()))
	require.NoError(t, chain[1].Complete(time.Now()))
	require.Len(t, tr.Log, 1)
	assert.Equal(t, end.Name, tr.Log[0].OCP)
}

func TestMBDriveTaskBrakeDistanceTooShortIsFatal(t *testing.T) {
	// A single very short final section after a high-speed entry leaves
	// no room to brake to a stop: the safety check must fail closed.
	_, _, chain := buildMBChain(t, []float64{1}, 1)
	tr := chain[0].train
	tr.Speed = 50 // already moving far faster than 1m can absorb under decel=-1

	err := chain[0].ReserveInfra(time.Now())
	require.Error(t, err)
}

func TestMBDriveTaskInfraUnavailableWhenSectionAtCapacity(t *testing.T) {
	_, _, chain := buildMBChain(t, []float64{500, 500}, 1)
	require.True(t, chain[0].Section.Reserve("other-train", time.Now()))

	assert.False(t, chain[0].InfraAvailable())
	fired := false
	chain[0].RegisterFreeCallback(func() { fired = true })
	assert.False(t, fired)

	require.NoError(t, chain[0].Section.Release("other-train", time.Now()))
	assert.True(t, fired, "release must drain the registered callback")
}

func TestMBDriveTaskReleaseInfraDropsFromReservedSections(t *testing.T) {
	tr, _, chain := buildMBChain(t, []float64{500, 500}, 1)
	require.NoError(t, chain[0].ReserveInfra(time.Now()))
	require.NotEmpty(t, tr.ReservedSections)

	require.NoError(t, chain[0].ReleaseInfra(time.Now()))
	for _, s := range tr.ReservedSections {
		assert.NotEqual(t, chain[0], s)
	}
}
