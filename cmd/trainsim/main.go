// Command trainsim runs the railway traffic simulator from a YAML
// config: load network and schedule, transform the schedule into
// tasks at the configured resolution, run the event loop, and write
// the three output artifacts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "trainsim",
		Short: "Discrete-event railway traffic simulator",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newValidateCmd())
	return root
}
