package data

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/e11824496/pytrainsim/schedule"
)

type rawRow struct {
	OCP                string  `json:"ocp"`
	ScheduledArrival   string  `json:"scheduled_arrival"`
	ScheduledDeparture string  `json:"scheduled_departure"`
	StopDurationS      float64 `json:"stop_duration_s"`
	RunDurationS       float64 `json:"run_duration_s"`
	ArrivalID          string  `json:"arrival_id"`
	StopID             string  `json:"stop_id"`
}

type rawTrainPart struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	Predecessors []string `json:"previous_trainparts"`
	Rows         []rawRow `json:"rows"`
}

// LoadScheduleFromReader decodes a list of trainparts into
// schedule.TrainPart values, ready for a Transformer.
func LoadScheduleFromReader(r io.Reader) ([]schedule.TrainPart, error) {
	dec := json.NewDecoder(r)
	var raw []rawTrainPart
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}

	parts := make([]schedule.TrainPart, 0, len(raw))
	for _, rp := range raw {
		rows := make([]schedule.Row, 0, len(rp.Rows))
		for _, rr := range rp.Rows {
			arr, err := time.Parse(time.RFC3339, rr.ScheduledArrival)
			if err != nil {
				return nil, fmt.Errorf("trainpart %q: parsing scheduled_arrival %q: %w", rp.ID, rr.ScheduledArrival, err)
			}
			dep, err := time.Parse(time.RFC3339, rr.ScheduledDeparture)
			if err != nil {
				return nil, fmt.Errorf("trainpart %q: parsing scheduled_departure %q: %w", rp.ID, rr.ScheduledDeparture, err)
			}
			rows = append(rows, schedule.Row{
				OCP:                rr.OCP,
				ScheduledArrival:   arr,
				ScheduledDeparture: dep,
				StopDuration:       time.Duration(rr.StopDurationS * float64(time.Second)),
				RunDuration:        time.Duration(rr.RunDurationS * float64(time.Second)),
				ArrivalID:          rr.ArrivalID,
				StopID:             rr.StopID,
			})
		}
		parts = append(parts, schedule.TrainPart{
			ID:           rp.ID,
			Category:     rp.Category,
			Rows:         schedule.Normalize(rows),
			Predecessors: rp.Predecessors,
		})
	}
	return parts, nil
}
