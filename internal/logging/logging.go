// Package logging builds the structured logger the cmd/ldsim driver
// uses for its per-load and per-run records (SPEC_FULL.md §2.2).
// ErrorBus diagnostics are not logged as records of their own; they are
// printed with their caret-pointer display beside the structured line.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds a logger. level is one of zerolog's level names
// (trace/debug/info/warn/error) or the literal "json", which selects
// the machine-parseable writer instead of the interactive console one.
func New(level string, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	var writer io.Writer = out
	parseLevel := level
	if strings.EqualFold(level, "json") {
		parseLevel = "info"
	} else {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(parseLevel))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

// RunFields returns a logger carrying the correlation fields (run ID
// and cycle count) for the records of one run/continue invocation.
func RunFields(log zerolog.Logger, runID string, cycle int) zerolog.Logger {
	return log.With().Str("run_id", runID).Int("cycle", cycle).Logger()
}
