// Command ldsim compiles and simulates logic definition files.
//
// Usage: ldsim <command> [flags] file ...
//
// Commands:
//
//	load <file>                     parse + build, report errors
//	run <file>                      cold-start and simulate
//	continue <file>                 simulate without cold-start (state from a prior load)
//	switch <file> <name>=<0|1>      one-off switch edit before a run
//	monitor add|remove <file> <signame>
//
// Grounded on the teacher's lang/ya driver: validate flags/args early,
// build one context, run the pipeline, report through stderr and a
// fixed exit code table, never panic across the command boundary.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ldsim/internal/config"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if exit, ok := err.(errExit); ok {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "ldsim: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "ldsim",
		Short:         "Logic definition language compiler and simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("trace-format", config.DefaultTraceFormat, "trace export format: table|json|yaml")
	root.PersistentFlags().String("log-level", config.DefaultLogLevel, "log level: trace|debug|info|warn|error|json")
	root.PersistentFlags().Int("max-sweeps", config.DefaultMaxSweeps, "combinational settle sweep bound before oscillation is declared")
	root.PersistentFlags().Bool("dump-network", false, "print the fully resolved device/connection graph after loading")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a .ldsim.yaml config file")

	root.AddCommand(newLoadCmd(), newRunCmd(), newContinueCmd(), newSwitchCmd(), newMonitorCmd())
	return root
}

func loadConfig(cmd *cobra.Command, cfgFile string) (*config.Config, error) {
	v, err := config.New(cmd, cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return config.Load(v)
}
