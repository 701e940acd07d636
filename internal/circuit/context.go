// Package circuit threads the Names/ErrorBus/Devices/Network/Monitors
// stores through a single owning Context, exposing the runtime command
// surface (spec.md §6) that a CLI or GUI driver consumes: load, switch
// edits, monitor/connection edits, run/continue, and trace export.
//
// Grounded on the teacher's `lang/ya` driver (lang/ya/main.go), which
// threads one set of pipeline state through explicit function calls
// rather than package-level globals.
package circuit

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/google/uuid"

	"ldsim/internal/devices"
	"ldsim/internal/errs"
	"ldsim/internal/monitors"
	"ldsim/internal/names"
	"ldsim/internal/network"
	"ldsim/internal/parser"
	"ldsim/internal/token"
)

// okCode is the sentinel every Store/Network/Bus is constructed with to
// mean "no error" (mirrors internal/parser's convention so codes from
// Devices/Network/Monitors compare directly against it).
const okCode = -1

// Exit codes for a CLI driver (spec.md §6).
const (
	ExitOK            = 0
	ExitCompileErrors = 1
	ExitOscillation   = 2
)

// Context owns one compiled circuit and its simulation state.
type Context struct {
	Names   *names.Table
	Errors  *errs.Bus
	Devices *devices.Store
	Net     *network.Network
	Mon     *monitors.Store

	loaded     bool
	cyclesRun  int
	oscillated bool
	lastRunID  uuid.UUID
	rng        *rand.Rand
}

// New builds an empty Context, ready for Load.
func New() *Context {
	tbl := names.New()
	bus := errs.New(tbl)
	ds := devices.NewStore(bus.Semantic.DeviceAlreadyPresent, bus.Semantic.CircuitAlreadyPresent, bus.Semantic.InvalidPinCount, okCode)
	net := network.NewNetwork(ds, bus.Semantic.DeviceAbsent, bus.Semantic.PortAbsent, bus.Semantic.NotAnInput,
		bus.Semantic.NotAnOutput, bus.Semantic.InputAlreadyConnected, bus.Semantic.InputToInput, bus.Semantic.OutputToOutput, okCode)
	mon := monitors.NewStore(ds, bus.Semantic.DeviceAbsent, bus.Semantic.PortAbsent, bus.Semantic.NotAnOutput, okCode)
	return &Context{
		Names:   tbl,
		Errors:  bus,
		Devices: ds,
		Net:     net,
		Mon:     mon,
		rng:     rand.New(rand.NewSource(1)),
	}
}

// SetMaxSweeps overrides the oscillation sweep bound (--max-sweeps).
func (c *Context) SetMaxSweeps(n int) {
	if n > 0 {
		c.Net.MaxSweeps = n
	}
}

// Load reads path, parses it, and builds the network. Returns whether
// parsing completed without syntax or semantic errors; the accumulated
// diagnostics are always available via c.Errors regardless.
func (c *Context) Load(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	p := parser.New(string(data), c.Names, c.Errors, c.Devices, c.Net, c.Mon)
	p.Parse()
	c.loaded = c.Errors.Count() == 0
	return c.loaded, nil
}

// splitSigname splits "name" or "name.port" into its parts, the same shape
// the file grammar's signame production accepts.
func splitSigname(s string) (device, port string, hasPort bool) {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

// resolveEndpoint resolves a runtime-API signame to a (device, port)
// pair, rewriting through a sub-circuit template's declared port maps
// as the parser does at compile time (spec.md §4.5), except that a
// circuit input used as a sink resolves to its first fan-out target
// only, where the parser connects every target. asOutput selects the
// circuit template side to consult (Outputs for a source reference,
// Inputs[0] for a sink reference).
func (c *Context) resolveEndpoint(signame string, asOutput bool) (deviceID, portID int, ok bool) {
	dev, port, hasPort := splitSigname(signame)
	id, exists := c.Names.Query(dev)
	if !exists {
		return 0, 0, false
	}

	if c.Devices.IsCircuit(id) {
		if !hasPort {
			return 0, 0, false
		}
		tmpl, _ := c.Devices.GetCircuit(id)
		portNameID, exists := c.Names.Query(port)
		if !exists {
			return 0, 0, false
		}
		if asOutput {
			inner, ok := tmpl.Outputs[portNameID]
			if !ok {
				return 0, 0, false
			}
			return inner.Device, inner.Port, true
		}
		targets, ok := tmpl.Inputs[portNameID]
		if !ok || len(targets) == 0 {
			return 0, 0, false
		}
		return targets[0].Device, targets[0].Port, true
	}

	d, exists := c.Devices.GetDevice(id)
	if !exists {
		return 0, 0, false
	}
	portID = devices.SinglePort
	if hasPort {
		pid, ok := devices.PortNameToID(d, port)
		if !ok {
			return 0, 0, false
		}
		portID = pid
	}
	return id, portID, true
}

// SetSwitch edits a switch at rest or between runs. Reports false if
// name does not resolve to a SWITCH device.
func (c *Context) SetSwitch(name string, sig token.Signal) bool {
	id, exists := c.Names.Query(name)
	if !exists {
		return false
	}
	return c.Devices.SetSwitch(id, sig)
}

// AddMonitor begins observing a signame (spec.md §6 add_monitor).
func (c *Context) AddMonitor(signame string) error {
	deviceID, portID, ok := c.resolveEndpoint(signame, true)
	if !ok {
		return fmt.Errorf("add_monitor: no such signal %q", signame)
	}
	var pp *int
	if portID != devices.SinglePort {
		pp = &portID
	}
	if code := c.Mon.MakeMonitor(deviceID, pp); code != okCode {
		return fmt.Errorf("add_monitor: %s", signame)
	}
	return nil
}

// RemoveMonitor stops observing a signame.
func (c *Context) RemoveMonitor(signame string) bool {
	deviceID, portID, ok := c.resolveEndpoint(signame, true)
	if !ok {
		return false
	}
	var pp *int
	if portID != devices.SinglePort {
		pp = &portID
	}
	return c.Mon.RemoveMonitor(deviceID, pp)
}

// AddConnection wires src (a source signame) to dst (a sink signame),
// rewriting either side through a sub-circuit template first.
func (c *Context) AddConnection(src, dst string) error {
	srcDev, srcPort, ok := c.resolveEndpoint(src, true)
	if !ok {
		return fmt.Errorf("add_connection: no such source %q", src)
	}
	dstDev, dstPort, ok := c.resolveEndpoint(dst, false)
	if !ok {
		return fmt.Errorf("add_connection: no such sink %q", dst)
	}
	if code := c.Net.MakeConnection(srcDev, srcPort, dstDev, dstPort); code != okCode {
		return fmt.Errorf("add_connection: %s -> %s rejected", src, dst)
	}
	return nil
}

// RemoveConnection drops whatever feeds dst's input, if anything.
func (c *Context) RemoveConnection(dst string) bool {
	dstDev, dstPort, ok := c.resolveEndpoint(dst, false)
	if !ok {
		return false
	}
	return c.Net.RemoveConnection(dstDev, dstPort)
}

// Run cold-starts the simulation (randomizing clock phase and D-type
// memory, and clearing every monitor's recorded sequence) before
// running cycles cycles. Returns false if oscillation was detected,
// stopping the run early.
func (c *Context) Run(cycles int) bool {
	c.Devices.ColdStartup(c.rng)
	c.Mon.ResetMonitors()
	c.cyclesRun = 0
	c.lastRunID = uuid.New()
	return c.Continue(cycles)
}

// Continue runs cycles more cycles without cold-starting, carrying
// forward whatever state the simulation is already in.
func (c *Context) Continue(cycles int) bool {
	if c.lastRunID == uuid.Nil {
		c.lastRunID = uuid.New()
	}
	c.oscillated = false
	for i := 0; i < cycles; i++ {
		if !c.Net.ExecuteNetwork() {
			c.oscillated = true
			return false
		}
		c.Mon.RecordSignals()
		c.cyclesRun++
	}
	return true
}

// Traces returns every monitored signal's recorded history, keyed by
// its canonical signame ("device" or "device.port").
func (c *Context) Traces() map[string][]token.Signal {
	out := make(map[string][]token.Signal)
	for _, k := range c.Mon.Keys() {
		seq, ok := c.Mon.Sequence(k.Device, k.Port)
		if !ok {
			continue
		}
		out[c.signameFor(k.Device, k.Port)] = seq
	}
	return out
}

func (c *Context) signameFor(deviceID int, port *int) string {
	name, _ := c.Names.Stringify(deviceID)
	d, ok := c.Devices.GetDevice(deviceID)
	if !ok || port == nil {
		return name
	}
	portName, ok := devices.PortIDToName(d, *port)
	if !ok || portName == "" {
		return name
	}
	return name + "." + portName
}

// ExitCode reports the spec.md §6 exit code for the current state:
// 0 success, 1 compile errors present, 2 oscillation detected.
func (c *Context) ExitCode() int {
	if c.Errors.Count() > 0 {
		return ExitCompileErrors
	}
	if c.oscillated {
		return ExitOscillation
	}
	return ExitOK
}

// RunID returns the correlation ID minted by the most recent Run (or by
// the first Continue when no Run preceded it); later Continue calls
// reuse it. The driver attaches it to its structured log line and its
// oscillation message; the trace export does not carry it.
func (c *Context) RunID() uuid.UUID { return c.lastRunID }

// CyclesRun returns how many cycles have completed since the last Run.
func (c *Context) CyclesRun() int { return c.cyclesRun }
