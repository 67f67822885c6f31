package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e11824496/pytrainsim/model"
	"github.com/e11824496/pytrainsim/train"
)

func TestWriteResultsDefaultsMissingDepartureToArrival(t *testing.T) {
	tr := train.NewTrain("T1", "passenger")
	arr := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr.Log = append(tr.Log, &train.TraversalRow{
		TaskID: "t1", TrainPartID: "T1", OCP: "B",
		ScheduledArrival: arr, SimulatedArrival: arr,
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "results.csv")
	require.NoError(t, WriteResults(path, []*train.Train{tr}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2) // header + 1 row

	row := records[1]
	assert.Equal(t, "B", row[2])
	assert.Equal(t, row[3], row[5], "missing scheduled departure defaults to arrival")
	assert.Equal(t, row[4], row[6], "missing simulated departure defaults to arrival")
}

func TestWriteTrackReservationsWritesTrackAndSectionRows(t *testing.T) {
	net := model.NewNetwork(true)
	a, _ := net.NewOCP("A", nil)
	b, _ := net.NewOCP("B", nil)
	_ = a
	_ = b
	track, err := net.NewTrack("A", "B", 1000, 1, 10)
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(10 * time.Minute)
	require.True(t, track.Reserve("T1", now))
	require.NoError(t, track.Release("T1", later))

	dir := t.TempDir()
	path := filepath.Join(dir, "track_reservations.csv")
	require.NoError(t, WriteTrackReservations(path, net))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "T1", records[1][0])
	assert.Equal(t, "A_B", records[1][3])
}

func TestWriteStatsStampsRunIDAndFieldsAsJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.txt")
	require.NoError(t, WriteStats(path, 12.5, 3, 2))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var stats Stats
	require.NoError(t, json.Unmarshal(data, &stats))

	assert.Equal(t, 12.5, stats.DurationSeconds)
	assert.Equal(t, 3, stats.NumberOfTrainSchedules)
	assert.Equal(t, 2, stats.NumberOfTrains)
	assert.NotEmpty(t, stats.RunID)
}
