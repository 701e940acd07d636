package main

import (
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var cycles int

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Load a file, cold-start, and simulate N cycles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := prepare(cmd, args[0])
			if err != nil {
				return err
			}
			return runAndReport(p.ctx, p.cfg, p.cfg.Cycles, true)
		},
	}
	cmd.Flags().IntVar(&cycles, "cycles", 1, "number of cycles to simulate")
	return cmd
}

func newContinueCmd() *cobra.Command {
	var cycles int

	cmd := &cobra.Command{
		Use:   "continue <file>",
		Short: "Load a file and simulate N more cycles without cold-starting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := prepare(cmd, args[0])
			if err != nil {
				return err
			}
			return runAndReport(p.ctx, p.cfg, p.cfg.Cycles, false)
		},
	}
	cmd.Flags().IntVar(&cycles, "cycles", 1, "number of cycles to simulate")
	return cmd
}
