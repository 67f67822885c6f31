package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/e11824496/pytrainsim/config"
	"github.com/e11824496/pytrainsim/data"
)

func newValidateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load the network and schedule and report topology errors without simulating",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			res, err := resolutionOf(cfg.Resolution)
			if err != nil {
				return err
			}

			net, _, err := loadNetworkAndSchedule(cfg, res)
			if err != nil {
				return err
			}

			errs := net.Validate()
			if len(errs) == 0 {
				fmt.Println("network is valid")
				return nil
			}
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, e)
			}
			return fmt.Errorf("%d topology error(s) found", len(errs))
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the run's YAML config")
	return cmd
}
