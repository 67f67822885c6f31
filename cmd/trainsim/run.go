package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/e11824496/pytrainsim/config"
	"github.com/e11824496/pytrainsim/data"
	"github.com/e11824496/pytrainsim/delay"
	"github.com/e11824496/pytrainsim/model"
	"github.com/e11824496/pytrainsim/report"
	"github.com/e11824496/pytrainsim/schedule"
	"github.com/e11824496/pytrainsim/sim"
	"github.com/e11824496/pytrainsim/simerr"
	"github.com/e11824496/pytrainsim/train"
)

func newRunCmd() *cobra.Command {
	var configPath string
	var resolutionOverride string
	var outOverride string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation from a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return errors.New("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if resolutionOverride != "" {
				cfg.Resolution = resolutionOverride
			}
			if outOverride != "" {
				cfg.OutputDir = outOverride
			}
			return runSimulation(cfg, logrus.StandardLogger())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the run's YAML config")
	cmd.Flags().StringVar(&resolutionOverride, "resolution", "", "override the config's resolution (fb|mb|lb)")
	cmd.Flags().StringVar(&outOverride, "out", "", "override the config's output_dir")
	return cmd
}

func resolutionOf(s string) (schedule.Resolution, error) {
	switch s {
	case "fb":
		return schedule.FB, nil
	case "mb":
		return schedule.MB, nil
	case "lb":
		return schedule.LB, nil
	default:
		return 0, simerr.NewTopology("unknown resolution %q", s)
	}
}

func runSimulation(cfg *config.Config, log *logrus.Logger) error {
	res, err := resolutionOf(cfg.Resolution)
	if err != nil {
		return err
	}

	net, parts, err := loadNetworkAndSchedule(cfg, res)
	if err != nil {
		return err
	}

	oracle, err := buildDelayOracle(cfg.Delay)
	if err != nil {
		return err
	}

	kin := func(category string) (float64, float64, float64) {
		c, ok := cfg.Categories[category]
		if !ok {
			return 1, -1, 1
		}
		return c.Accel, c.Decel, c.RelMaxSpeed
	}

	tf := schedule.NewTransformer(net, res)
	trainsByID := make(map[string]*train.Train, len(parts))
	var trains []*train.Train

	for _, part := range parts {
		tr, err := tf.Build(part, kin, cfg.MaxHops)
		if err != nil {
			var sched *simerr.Schedule
			if errors.As(err, &sched) {
				log.WithError(err).Warn("skipping trainpart")
				continue
			}
			return err
		}
		trainsByID[part.ID] = tr
		trains = append(trains, tr)
	}

	for _, part := range parts {
		tr, ok := trainsByID[part.ID]
		if !ok {
			continue
		}
		for _, predID := range part.Predecessors {
			if pred, ok := trainsByID[predID]; ok {
				tr.AddPredecessor(pred)
			}
		}
	}

	runner := sim.NewRunner(oracle, log)
	for _, tr := range trains {
		runner.ScheduleTrain(tr)
	}

	start := time.Now()
	if err := runner.Run(); err != nil {
		return fmt.Errorf("simulation aborted: %w", err)
	}
	duration := time.Since(start).Seconds()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}
	if err := report.WriteResults(filepath.Join(cfg.OutputDir, "results.csv"), trains); err != nil {
		return err
	}
	if err := report.WriteTrackReservations(filepath.Join(cfg.OutputDir, "track_reservations.csv"), net); err != nil {
		return err
	}
	if err := report.WriteStats(filepath.Join(cfg.OutputDir, "stats.txt"), duration, len(parts), len(trains)); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"trains": len(trains), "seconds": duration}).Info("simulation complete")
	return nil
}

func loadNetworkAndSchedule(cfg *config.Config, res schedule.Resolution) (*model.Network, []schedule.TrainPart, error) {
	netFile, err := os.Open(cfg.NetworkPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening network file: %w", err)
	}
	defer netFile.Close()
	net, err := data.LoadNetworkFromReader(netFile, cfg.RecordReservations)
	if err != nil {
		return nil, nil, err
	}

	schedFile, err := os.Open(cfg.SchedulePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening schedule file: %w", err)
	}
	defer schedFile.Close()
	parts, err := data.LoadScheduleFromReader(schedFile)
	if err != nil {
		return nil, nil, err
	}

	if res != schedule.FB {
		for _, t := range net.Tracks() {
			if len(t.Sections) == 0 {
				t.Subdivide(1, cfg.RecordReservations)
			}
		}
	}

	return net, parts, nil
}

func buildDelayOracle(cfg config.DelayConfig) (delay.Oracle, error) {
	switch cfg.Type {
	case "", "zero":
		return delay.Zero{}, nil
	case "constant":
		return delay.Constant{D: time.Duration(cfg.ConstantSeconds * float64(time.Second))}, nil
	case "normal":
		return delay.NewNormal(
			time.Duration(cfg.MeanSeconds*float64(time.Second)),
			time.Duration(cfg.StdDevSeconds*float64(time.Second)),
			cfg.Seed,
		), nil
	case "pareto":
		return delay.NewPareto(cfg.Shape, time.Duration(cfg.ScaleSeconds*float64(time.Second)), cfg.Seed), nil
	case "table":
		table := make(map[string]time.Duration, len(cfg.TableSecondsByTaskID))
		for id, seconds := range cfg.TableSecondsByTaskID {
			table[id] = time.Duration(seconds * float64(time.Second))
		}
		return delay.NewTable(table), nil
	case "ensemble":
		byCategory := make(map[string]delay.Oracle, len(cfg.ByCategory))
		for category, sub := range cfg.ByCategory {
			o, err := buildDelayOracle(sub)
			if err != nil {
				return nil, err
			}
			byCategory[category] = o
		}
		var def delay.Oracle
		if cfg.Default != nil {
			var err error
			def, err = buildDelayOracle(*cfg.Default)
			if err != nil {
				return nil, err
			}
		}
		return delay.NewEnsemble(byCategory, def), nil
	default:
		return nil, simerr.NewTopology("unknown delay oracle type %q", cfg.Type)
	}
}
