package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ldsim/internal/token"
)

func newSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <file> <name>=<0|1>",
		Short: "Set a switch's value before a run (set_switch)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := prepare(cmd, args[0])
			if err != nil {
				return err
			}
			name, value, found := strings.Cut(args[1], "=")
			if !found {
				return fmt.Errorf("switch argument must be name=0 or name=1, got %q", args[1])
			}
			var sig token.Signal
			switch value {
			case "0":
				sig = token.Low
			case "1":
				sig = token.High
			default:
				return fmt.Errorf("switch value must be 0 or 1, got %q", value)
			}
			if !p.ctx.SetSwitch(name, sig) {
				return fmt.Errorf("no such switch %q", name)
			}
			fmt.Printf("%s = %s\n", name, sig)
			return nil
		},
	}
}
