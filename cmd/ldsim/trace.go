package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"ldsim/internal/circuit"
	"ldsim/internal/token"
)

// printTraces renders ctx.Traces() in the requested format, a CLI
// supplement over spec.md §6's in-process traces() API.
func printTraces(ctx *circuit.Context, format string) {
	traces := ctx.Traces()
	if len(traces) == 0 {
		return
	}

	names := make([]string, 0, len(traces))
	for n := range traces {
		names = append(names, n)
	}
	sort.Strings(names)

	switch strings.ToLower(format) {
	case "json":
		out := make(map[string][]string, len(traces))
		for _, n := range names {
			out[n] = signalStrings(traces[n])
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	case "yaml":
		out := make(map[string][]string, len(traces))
		for _, n := range names {
			out[n] = signalStrings(traces[n])
		}
		data, err := yaml.Marshal(out)
		if err == nil {
			os.Stdout.Write(data)
		}
	default: // "table"
		for _, n := range names {
			fmt.Printf("%-24s %s\n", n, strings.Join(signalStrings(traces[n]), " "))
		}
	}
}

func signalStrings(signals []token.Signal) []string {
	out := make([]string, len(signals))
	for i, s := range signals {
		out[i] = s.String()
	}
	return out
}

// dumpNetwork prints the fully resolved device/connection graph after
// sub-circuit expansion (--dump-network, SPEC_FULL.md §4).
func dumpNetwork(ctx *circuit.Context) {
	fmt.Fprintln(os.Stderr, "--- network ---")
	for _, src := range ctx.Net.Sources() {
		fmt.Fprintf(os.Stderr, "  %d.%d -> %d.%d\n", src.SrcDevice, src.SrcPort, src.DstDevice, src.DstPort)
	}
	fmt.Fprintln(os.Stderr, "--- monitors ---")
	for _, k := range ctx.Mon.Keys() {
		if k.Port != nil {
			fmt.Fprintf(os.Stderr, "  device %d port %d\n", k.Device, *k.Port)
		} else {
			fmt.Fprintf(os.Stderr, "  device %d\n", k.Device)
		}
	}
}
