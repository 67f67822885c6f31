// Package report writes the simulation's three output artifacts:
// per-OCP traversal rows, per-resource reservation intervals, and a
// run summary (§6).
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/e11824496/pytrainsim/model"
	"github.com/e11824496/pytrainsim/train"
)

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

// WriteResults writes results.csv: one row per OCP visit across every
// train. Departure columns default to the arrival timestamps when a
// row's ScheduledDeparture/SimulatedDeparture were never filled in
// (the train didn't stop).
func WriteResults(path string, trains []*train.Train) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"task_id", "trainpart_id", "ocp",
		"scheduled_arrival", "simulated_arrival",
		"scheduled_departure", "simulated_departure",
	}); err != nil {
		return err
	}

	for _, tr := range trains {
		for _, row := range tr.Log {
			dep := row.ScheduledDeparture
			simDep := row.SimulatedDeparture
			if dep.IsZero() {
				dep = row.ScheduledArrival
			}
			if simDep.IsZero() {
				simDep = row.SimulatedArrival
			}
			record := []string{
				row.TaskID, row.TrainPartID, row.OCP,
				formatTime(row.ScheduledArrival), formatTime(row.SimulatedArrival),
				formatTime(dep), formatTime(simDep),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}
	return w.Error()
}

// WriteTrackReservations writes track_reservations.csv: one row per
// recorded reservation interval on every track and, for moving-block
// networks, every track section. An interval still open is written
// with an empty end_time.
func WriteTrackReservations(path string, net *model.Network) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"trainpart_id", "start_time", "end_time", "track", "section"}); err != nil {
		return err
	}

	for _, t := range net.Tracks() {
		if t.Recorder != nil {
			for _, rec := range t.Recorder.Records() {
				if err := w.Write([]string{rec.Holder, formatTime(rec.Start), formatTime(rec.End), t.Name, ""}); err != nil {
					return err
				}
			}
		}
		for _, s := range t.Sections {
			if s.Recorder == nil {
				continue
			}
			for _, rec := range s.Recorder.Records() {
				if err := w.Write([]string{rec.Holder, formatTime(rec.Start), formatTime(rec.End), t.Name, s.Name}); err != nil {
					return err
				}
			}
		}
	}
	return w.Error()
}

// Stats is the run summary written to stats.txt (§6, plus a run_id
// the original has no equivalent for — see DESIGN.md).
type Stats struct {
	DurationSeconds        float64 `json:"duration_seconds"`
	NumberOfTrainSchedules int     `json:"number_of_train_schedules"`
	NumberOfTrains         int     `json:"number_of_trains"`
	RunID                  string  `json:"run_id"`
}

// WriteStats writes stats.txt as JSON, stamping a fresh run id.
func WriteStats(path string, durationSeconds float64, numberOfTrainSchedules, numberOfTrains int) error {
	stats := Stats{
		DurationSeconds:        durationSeconds,
		NumberOfTrainSchedules: numberOfTrainSchedules,
		NumberOfTrains:         numberOfTrains,
		RunID:                  uuid.NewString(),
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
