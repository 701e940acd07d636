// Package network connects device ports, propagates signals one
// simulation cycle at a time, and resolves sub-circuit endpoints down
// to primitive device ports.
//
// Grounded on sim/tsp/tsp.go's ModelNode parent/child graph
// construction for the connect/rewrite machinery, and emul/execute.go's
// step-the-model loop shape for the iterate-to-fixpoint sweep in
// ExecuteNetwork.
package network

import (
	"ldsim/internal/devices"
	"ldsim/internal/token"
)

// MaxSweeps bounds how many combinational fixpoint iterations
// ExecuteNetwork will run before declaring oscillation (spec.md §4.5).
const DefaultMaxSweeps = 10

// connection records that dst's input port is driven by src's output
// port.
type connection struct {
	srcDevice, srcPort int
	dstDevice, dstPort int
}

// Network owns the device store and the set of connections between
// device ports.
type Network struct {
	Devices   *devices.Store
	MaxSweeps int

	conns []connection
	// inputSource maps (dstDevice, dstPort) -> index into conns, so
	// "is this input already connected" is O(1).
	inputSource map[portKey]int

	CodeDeviceAbsent          int
	CodePortAbsent            int
	CodeNotAnInput            int
	CodeNotAnOutput           int
	CodeInputAlreadyConnected int
	CodeInputToInput          int
	CodeOutputToOutput        int
	codeOK                    int
}

type portKey struct {
	device, port int
}

// NewNetwork builds a Network over store, using the given error codes
// for the network-level semantic failures listed in spec.md §4.5.
func NewNetwork(store *devices.Store, deviceAbsent, portAbsent, notAnInput, notAnOutput, inputAlreadyConnected, inputToInput, outputToOutput, okCode int) *Network {
	return &Network{
		Devices:                   store,
		MaxSweeps:                 DefaultMaxSweeps,
		inputSource:               make(map[portKey]int),
		CodeDeviceAbsent:          deviceAbsent,
		CodePortAbsent:            portAbsent,
		CodeNotAnInput:            notAnInput,
		CodeNotAnOutput:           notAnOutput,
		CodeInputAlreadyConnected: inputAlreadyConnected,
		CodeInputToInput:          inputToInput,
		CodeOutputToOutput:        outputToOutput,
		codeOK:                    okCode,
	}
}

// endpointKind classifies whether a named port on a device is an input,
// an output, or doesn't exist.
type endpointKind int

const (
	endpointMissing endpointKind = iota
	endpointInput
	endpointOutput
)

func (n *Network) classify(deviceID, portID int, isInputSide bool) (*devices.Device, endpointKind, int) {
	d, ok := n.Devices.GetDevice(deviceID)
	if !ok {
		return nil, endpointMissing, n.CodeDeviceAbsent
	}
	if isInputSide {
		if devices.PortIsInput(d, portID) {
			return d, endpointInput, n.codeOK
		}
		if devices.PortIsOutput(d, portID) {
			return d, endpointOutput, n.CodeNotAnInput
		}
		return d, endpointMissing, n.CodePortAbsent
	}
	if devices.PortIsOutput(d, portID) {
		return d, endpointOutput, n.codeOK
	}
	if devices.PortIsInput(d, portID) {
		return d, endpointInput, n.CodeNotAnOutput
	}
	return d, endpointMissing, n.CodePortAbsent
}

// MakeConnection wires srcDevice.srcPort (an output) to
// dstDevice.dstPort (an input). See spec.md §4.5 for the validation
// order.
func (n *Network) MakeConnection(srcDevice, srcPort, dstDevice, dstPort int) int {
	_, srcKind, srcCode := n.classify(srcDevice, srcPort, false)
	if srcCode != n.codeOK {
		if srcKind == endpointInput {
			// The source side names an input port: both ends of this
			// connection reference inputs.
			return n.CodeInputToInput
		}
		return srcCode
	}
	dstDev, dstKind, dstCode := n.classify(dstDevice, dstPort, true)
	if dstCode != n.codeOK {
		if dstKind == endpointOutput {
			// The sink side names an output port: both ends reference
			// outputs.
			return n.CodeOutputToOutput
		}
		return dstCode
	}

	key := portKey{dstDevice, dstPort}
	if _, exists := n.inputSource[key]; exists {
		return n.CodeInputAlreadyConnected
	}

	srcDev, _ := n.Devices.GetDevice(srcDevice)
	conn := connection{srcDevice, srcPort, dstDevice, dstPort}
	n.conns = append(n.conns, conn)
	n.inputSource[key] = len(n.conns) - 1

	latched := srcDev.Outputs[srcPort]
	dstDev.Inputs[dstPort] = &latched
	return n.codeOK
}

// RemoveConnection drops the connection feeding dstDevice.dstPort, if
// any, and reports whether one existed.
func (n *Network) RemoveConnection(dstDevice, dstPort int) bool {
	key := portKey{dstDevice, dstPort}
	idx, ok := n.inputSource[key]
	if !ok {
		return false
	}
	n.conns[idx] = connection{}
	delete(n.inputSource, key)
	if d, ok := n.Devices.GetDevice(dstDevice); ok {
		d.Inputs[dstPort] = nil
	}
	return true
}

// Sources returns every (srcDevice,srcPort)->(dstDevice,dstPort) edge,
// for diagnostics such as --dump-network.
func (n *Network) Sources() []struct{ SrcDevice, SrcPort, DstDevice, DstPort int } {
	var out []struct{ SrcDevice, SrcPort, DstDevice, DstPort int }
	for key, idx := range n.inputSource {
		c := n.conns[idx]
		_ = key
		out = append(out, struct{ SrcDevice, SrcPort, DstDevice, DstPort int }{c.srcDevice, c.srcPort, c.dstDevice, c.dstPort})
	}
	return out
}

// ExecuteNetwork runs one simulation cycle: clocks update first, then
// combinational propagation runs to fixpoint. Returns false if the
// sweep bound is exceeded (oscillation).
func (n *Network) ExecuteNetwork() bool {
	maxSweeps := n.MaxSweeps
	if maxSweeps <= 0 {
		maxSweeps = DefaultMaxSweeps
	}

	// A transient Rising/Falling marker lives for exactly the cycle it
	// was emitted in; clear last cycle's before computing this one.
	n.settleClockEdges()
	n.stepClocks()
	// Push the fresh clock outputs (and any now-settled levels) onto
	// whatever they drive before the first combinational sweep reads
	// its inputs.
	n.propagate()

	for sweep := 0; sweep < maxSweeps; sweep++ {
		changed := n.computeOutputs()
		n.propagate()
		if !changed {
			return true
		}
	}
	return false
}

func (n *Network) stepClocks() {
	clockKind := devices.CLOCK
	for _, id := range n.Devices.FindDevices(&clockKind) {
		d, _ := n.Devices.GetDevice(id)
		d.ClockCounter--
		if d.ClockCounter <= 0 {
			if d.Outputs[devices.SinglePort] == token.Low {
				d.Outputs[devices.SinglePort] = token.Rising
			} else {
				d.Outputs[devices.SinglePort] = token.Falling
			}
			d.ClockCounter = d.ClockHalfPeriod - 1
		}
	}
}

// settleClockEdges turns a transient Rising/Falling clock output back
// into a steady Low/High after the cycle it was emitted for, so the
// marker is visible to propagation for exactly one cycle (spec.md §3).
func (n *Network) settleClockEdges() {
	clockKind := devices.CLOCK
	for _, id := range n.Devices.FindDevices(&clockKind) {
		d, _ := n.Devices.GetDevice(id)
		switch d.Outputs[devices.SinglePort] {
		case token.Rising:
			d.Outputs[devices.SinglePort] = token.High
		case token.Falling:
			d.Outputs[devices.SinglePort] = token.Low
		}
	}
}

// computeOutputs recomputes every non-clock, non-switch device's
// output(s) from its currently latched inputs. Returns whether any
// output changed.
func (n *Network) computeOutputs() bool {
	changed := false
	for _, id := range n.Devices.FindDevices(nil) {
		d, _ := n.Devices.GetDevice(id)
		switch d.Kind {
		case devices.CLOCK, devices.SWITCH:
			continue
		case devices.DTYPE:
			if n.stepDtype(d) {
				changed = true
			}
		default:
			if n.stepGate(d) {
				changed = true
			}
		}
	}
	return changed
}

func (n *Network) stepGate(d *devices.Device) bool {
	levels := make([]token.Signal, 0, d.FanIn)
	for i := 0; i < d.FanIn; i++ {
		in := d.Inputs[i]
		if in == nil {
			levels = append(levels, token.Low)
		} else {
			levels = append(levels, in.AsLevel())
		}
	}

	var result token.Signal
	switch d.Kind {
	case AND, NAND:
		result = token.High
		for _, v := range levels {
			if v == token.Low {
				result = token.Low
				break
			}
		}
		if d.Kind == NAND {
			result = invert(result)
		}
	case OR, NOR:
		result = token.Low
		for _, v := range levels {
			if v == token.High {
				result = token.High
				break
			}
		}
		if d.Kind == NOR {
			result = invert(result)
		}
	case XOR:
		result = token.Low
		if levels[0] != levels[1] {
			result = token.High
		}
	case NOT:
		result = invert(levels[0])
	default:
		return false
	}

	old := d.Outputs[devices.SinglePort]
	d.Outputs[devices.SinglePort] = result
	return old != result
}

func invert(s token.Signal) token.Signal {
	if s == token.High {
		return token.Low
	}
	return token.High
}

// stepDtype applies D-type edge semantics: a Rising edge on CLK
// latches DATA into Q/QBAR; SET/CLEAR force Q asynchronously, with
// CLEAR taking precedence when both are asserted (spec.md §4.5).
func (n *Network) stepDtype(d *devices.Device) bool {
	oldQ, oldQBar := d.Outputs[devices.PortQ], d.Outputs[devices.PortQBAR]

	clk := d.Inputs[devices.PortCLK]
	set := asserted(d.Inputs[devices.PortSET])
	clear := asserted(d.Inputs[devices.PortCLEAR])

	if clk != nil && *clk == token.Rising {
		data := token.Low
		if in := d.Inputs[devices.PortDATA]; in != nil {
			data = in.AsLevel()
		}
		d.DtypeMemory = data
	}

	q := d.DtypeMemory
	if clear {
		q = token.Low
	} else if set {
		q = token.High
	}

	d.Outputs[devices.PortQ] = q
	d.Outputs[devices.PortQBAR] = invert(q)

	return oldQ != d.Outputs[devices.PortQ] || oldQBar != d.Outputs[devices.PortQBAR]
}

func asserted(s *token.Signal) bool {
	return s != nil && s.AsLevel() == token.High
}

// propagate pushes every device's current output onto every input it
// drives, per the recorded connections.
func (n *Network) propagate() {
	for _, c := range n.conns {
		if c == (connection{}) {
			continue
		}
		srcDev, ok := n.Devices.GetDevice(c.srcDevice)
		if !ok {
			continue
		}
		dstDev, ok := n.Devices.GetDevice(c.dstDevice)
		if !ok {
			continue
		}
		v := srcDev.Outputs[c.srcPort]
		dstDev.Inputs[c.dstPort] = &v
	}
}

// Gate kind aliases so stepGate reads naturally without importing
// devices.AND etc. repeatedly.
const (
	AND  = devices.AND
	OR   = devices.OR
	NAND = devices.NAND
	NOR  = devices.NOR
	XOR  = devices.XOR
	NOT  = devices.NOT
)
