package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMonitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Add or remove a monitor point (add_monitor / remove_monitor)",
	}
	cmd.AddCommand(newMonitorAddCmd(), newMonitorRemoveCmd())
	return cmd
}

func newMonitorAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <file> <signame>",
		Short: "Begin observing a signame",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := prepare(cmd, args[0])
			if err != nil {
				return err
			}
			if err := p.ctx.AddMonitor(args[1]); err != nil {
				return err
			}
			fmt.Printf("monitoring %s\n", args[1])
			return nil
		},
	}
}

func newMonitorRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <file> <signame>",
		Short: "Stop observing a signame",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := prepare(cmd, args[0])
			if err != nil {
				return err
			}
			if !p.ctx.RemoveMonitor(args[1]) {
				return fmt.Errorf("no such monitor %q", args[1])
			}
			fmt.Printf("stopped monitoring %s\n", args[1])
			return nil
		},
	}
}
