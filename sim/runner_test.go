package sim

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e11824496/pytrainsim/model"
	"github.com/e11824496/pytrainsim/schedule"
)

func flatKin(string) (float64, float64, float64) { return 1, -1, 1 }

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func singleTrackNetwork(t *testing.T, capacity int) *model.Network {
	t.Helper()
	net := model.NewNetwork(true)
	_, err := net.NewOCP("A", nil)
	require.NoError(t, err)
	_, err = net.NewOCP("B", nil)
	require.NoError(t, err)
	_, err = net.NewTrack("A", "B", 1000, capacity, 10)
	require.NoError(t, err)
	return net
}

func twoRowPart(id string, depart time.Time, runDuration time.Duration) schedule.TrainPart {
	rows := schedule.Normalize([]schedule.Row{
		{OCP: "A", ScheduledArrival: depart, ScheduledDeparture: depart, RunDuration: runDuration, ArrivalID: id + "_arr0", StopID: id + "_s0"},
		{OCP: "B", ScheduledArrival: depart.Add(runDuration), ScheduledDeparture: depart.Add(runDuration), ArrivalID: id + "_arr1", StopID: id + "_s1"},
	})
	return schedule.TrainPart{ID: id, Category: "passenger", Rows: rows}
}

// TestSingleFBTrainArrivesAtScheduledTime is scenario 1: a single train
// on an uncontested FB track arrives exactly at its scheduled time and
// leaves one closed reservation spanning the whole hop.
func TestSingleFBTrainArrivesAtScheduledTime(t *testing.T) {
	net := singleTrackNetwork(t, 1)
	depart := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tf := schedule.NewTransformer(net, schedule.FB)
	tr, err := tf.Build(twoRowPart("T1", depart, 10*time.Minute), flatKin, 0)
	require.NoError(t, err)

	r := NewRunner(nil, quietLog())
	r.ScheduleTrain(tr)
	require.NoError(t, r.Run())

	require.Len(t, tr.Log, 2)
	arrivalAtB := tr.Log[1]
	assert.Equal(t, depart.Add(10*time.Minute), arrivalAtB.SimulatedArrival)

	track, ok := net.GetTrackByOCPNames("A", "B")
	require.True(t, ok)
	records := track.Recorder.Records()
	require.Len(t, records, 1)
	assert.Equal(t, depart, records[0].Start)
	assert.Equal(t, depart.Add(10*time.Minute), records[0].End)
}

// TestFBCapacityBlockingDelaysSecondTrain is scenario 2: two trains
// scheduled back-to-back on a single-capacity FB track. The second
// train cannot enter until the first releases the track, so its
// simulated arrival is pushed back past its own schedule.
func TestFBCapacityBlockingDelaysSecondTrain(t *testing.T) {
	net := singleTrackNetwork(t, 1)
	depart := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tf := schedule.NewTransformer(net, schedule.FB)
	t1, err := tf.Build(twoRowPart("T1", depart, 10*time.Minute), flatKin, 0)
	require.NoError(t, err)
	// T2 is scheduled to depart at 12:05, five minutes into T1's hop,
	// but the track has capacity 1 so it must wait for T1 to clear.
	t2, err := tf.Build(twoRowPart("T2", depart.Add(5*time.Minute), 10*time.Minute), flatKin, 0)
	require.NoError(t, err)

	r := NewRunner(nil, quietLog())
	r.ScheduleTrain(t1)
	r.ScheduleTrain(t2)
	require.NoError(t, r.Run())

	require.Len(t, t2.Log, 2)
	// T1 releases the track at 12:10; T2 cannot have reserved it before then.
	assert.False(t, t2.Log[1].SimulatedArrival.Before(depart.Add(20*time.Minute)),
		"T2 must not complete its hop before T1 has released the track")
}

// TestPredecessorBarrierDelaysDependentTrainStart is scenario 5: T2
// depends on T1. T1 finishes later than T2's own scheduled start, so
// T2's StartTask only fires once T1 finishes.
func TestPredecessorBarrierDelaysDependentTrainStart(t *testing.T) {
	net := model.NewNetwork(true)
	_, err := net.NewOCP("A", nil)
	require.NoError(t, err)
	_, err = net.NewOCP("B", nil)
	require.NoError(t, err)
	_, err = net.NewTrack("A", "B", 1000, model.Unbounded, 10)
	require.NoError(t, err)

	tf := schedule.NewTransformer(net, schedule.FB)

	t1Finish := time.Date(2026, 1, 1, 10, 30, 0, 0, time.UTC)
	t1, err := tf.Build(twoRowPart("T1", t1Finish.Add(-10*time.Minute), 10*time.Minute), flatKin, 0)
	require.NoError(t, err)

	t2Scheduled := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t2, err := tf.Build(twoRowPart("T2", t2Scheduled, 10*time.Minute), flatKin, 0)
	require.NoError(t, err)
	t2.AddPredecessor(t1)

	r := NewRunner(nil, quietLog())
	r.ScheduleTrain(t1)
	r.ScheduleTrain(t2)
	require.NoError(t, r.Run())

	require.Len(t, t2.Log, 2)
	// T2's first stop's arrival is seeded at Start time, which cannot
	// fire before T1 finishes at 10:30, well past T2's own 10:00 schedule.
	assert.False(t, t2.Log[0].SimulatedArrival.Before(t1Finish),
		"T2 must not start before its predecessor T1 finishes")
}
