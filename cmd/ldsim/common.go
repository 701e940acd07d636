package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ldsim/internal/circuit"
	"ldsim/internal/config"
	"ldsim/internal/logging"
)

// prepared bundles everything a subcommand needs after flag/config
// resolution and a successful load, so each Run func stays a thin
// sequence of pipeline steps (teacher idiom: one context, one pass).
type prepared struct {
	ctx *circuit.Context
	cfg *config.Config
}

func prepare(cmd *cobra.Command, path string) (*prepared, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(cmd, cfgFile)
	if err != nil {
		return nil, err
	}

	log := logging.New(cfg.LogLevel, os.Stderr)

	ctx := circuit.New()
	ctx.SetMaxSweeps(cfg.MaxSweeps)

	ok, err := ctx.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	for _, e := range ctx.Errors.Errors() {
		fmt.Fprintln(os.Stderr, e.Display())
	}
	log.Info().Str("file", path).Bool("ok", ok).Int("errors", ctx.Errors.Count()).Msg("load")

	if cfg.DumpNetwork {
		dumpNetwork(ctx)
	}
	if !ok {
		return &prepared{ctx: ctx, cfg: cfg}, errExit{circuit.ExitCompileErrors}
	}
	return &prepared{ctx: ctx, cfg: cfg}, nil
}

// errExit carries a process exit code up through cobra's RunE chain
// without printing an extra message (the diagnostics were already
// written by prepare/run).
type errExit struct{ code int }

func (e errExit) Error() string { return "" }

func runAndReport(ctx *circuit.Context, cfg *config.Config, cycles int, coldStart bool) error {
	log := logging.New(cfg.LogLevel, os.Stderr)

	var ok bool
	if coldStart {
		ok = ctx.Run(cycles)
	} else {
		ok = ctx.Continue(cycles)
	}

	runLog := logging.RunFields(log, ctx.RunID().String(), ctx.CyclesRun())
	runLog.Info().Bool("ok", ok).Int("cycles_run", ctx.CyclesRun()).Msg("simulate")

	if !ok {
		fmt.Fprintf(os.Stderr, "ldsim: oscillation detected after %d cycles (run %s)\n", ctx.CyclesRun(), ctx.RunID())
		printTraces(ctx, cfg.TraceFormat)
		return errExit{circuit.ExitOscillation}
	}
	printTraces(ctx, cfg.TraceFormat)
	return nil
}
