package parser

import "ldsim/internal/devices"

// resolveDeviceName interns the (possibly circuit-prefixed) device name
// a signame referred to, in the scope the reference appeared in.
func (p *Parser) resolveDeviceName(raw string) int {
	return p.names.Intern(p.prefixedName(raw))[0]
}

// resolveSource resolves one signame used as a connection/monitor
// source (an output): either a primitive device's output port, or,
// when the name is a sub-circuit, the single inner device/port its
// declared OUTPUT port maps to.
func (p *Parser) resolveSource(dev, port string, hasPort bool) (deviceID, portID int, ok bool, code int) {
	id := p.resolveDeviceName(dev)

	if p.Devices.IsCircuit(id) {
		if !hasPort {
			return 0, 0, false, p.Errors.Semantic.PortAbsent
		}
		tmpl, _ := p.Devices.GetCircuit(id)
		portNameID := p.names.Intern(port)[0]
		inner, exists := tmpl.Outputs[portNameID]
		if !exists {
			return 0, 0, false, p.Errors.Semantic.PortAbsent
		}
		return inner.Device, inner.Port, true, okCode
	}

	d, exists := p.Devices.GetDevice(id)
	if !exists {
		return 0, 0, false, p.Errors.Semantic.DeviceAbsent
	}
	portID = devices.SinglePort
	if hasPort {
		pid, ok := devices.PortNameToID(d, port)
		if !ok {
			return 0, 0, false, p.Errors.Semantic.PortAbsent
		}
		portID = pid
	}
	return id, portID, true, okCode
}

// resolveSinks resolves one signame used as a connection sink (an
// input): a primitive device's input port, or, when the name is a
// sub-circuit, every inner target its declared INPUT port fans out to.
func (p *Parser) resolveSinks(dev, port string, hasPort bool) (targets []devices.InnerPort, ok bool, code int) {
	id := p.resolveDeviceName(dev)

	if p.Devices.IsCircuit(id) {
		if !hasPort {
			return nil, false, p.Errors.Semantic.PortAbsent
		}
		tmpl, _ := p.Devices.GetCircuit(id)
		portNameID := p.names.Intern(port)[0]
		inner, exists := tmpl.Inputs[portNameID]
		if !exists || len(inner) == 0 {
			return nil, false, p.Errors.Semantic.PortAbsent
		}
		return inner, true, okCode
	}

	d, exists := p.Devices.GetDevice(id)
	if !exists {
		return nil, false, p.Errors.Semantic.DeviceAbsent
	}
	portID := devices.SinglePort
	if hasPort {
		pid, ok := devices.PortNameToID(d, port)
		if !ok {
			return nil, false, p.Errors.Semantic.PortAbsent
		}
		portID = pid
	}
	return []devices.InnerPort{{Device: id, Port: portID}}, true, okCode
}

// applyConnect wires a CONNECT statement's two signames, rewriting
// either side through a sub-circuit template first if it names one.
func (p *Parser) applyConnect(srcDev, srcPort string, srcHasPort bool, dstDev, dstPort string, dstHasPort bool, line, col int) {
	srcID, srcPortID, ok, code := p.resolveSource(srcDev, srcPort, srcHasPort)
	if !ok {
		p.reportSemantic(code, line, col)
		return
	}
	sinks, ok, code := p.resolveSinks(dstDev, dstPort, dstHasPort)
	if !ok {
		p.reportSemantic(code, line, col)
		return
	}
	for _, sink := range sinks {
		if c := p.Net.MakeConnection(srcID, srcPortID, sink.Device, sink.Port); c != okCode {
			p.reportSemantic(c, line, col)
		}
	}
}

// applyMonitor begins observing one signame, rewriting it through a
// sub-circuit template's declared OUTPUT port if it names one.
func (p *Parser) applyMonitor(dev, port string, hasPort bool, line, col int) {
	deviceID, portID, ok, code := p.resolveSource(dev, port, hasPort)
	if !ok {
		p.reportSemantic(code, line, col)
		return
	}
	var pp *int
	if portID != devices.SinglePort {
		pp = &portID
	}
	if c := p.Mon.MakeMonitor(deviceID, pp); c != okCode {
		p.reportSemantic(c, line, col)
	}
}

// applyCircuitInput records that circuitName's declared INPUT port
// portName fans out to one more inner (device, port) target. Targets
// must be primitive devices declared within the same circuit body; a
// target that is itself a nested sub-circuit, or doesn't exist, is
// reported as a port-absent/device-absent semantic error.
func (p *Parser) applyCircuitInput(circuitName, portName, dev, port string, hasPort bool, line, col int) {
	circuitID := p.names.Intern(circuitName)[0]
	tmpl, exists := p.Devices.GetCircuit(circuitID)
	if !exists {
		return // circuit registration itself already failed and was reported
	}

	id := p.resolveDeviceName(dev)
	d, exists := p.Devices.GetDevice(id)
	if !exists {
		p.reportSemantic(p.Errors.Semantic.DeviceAbsent, line, col)
		return
	}
	portID := devices.SinglePort
	if hasPort {
		pid, ok := devices.PortNameToID(d, port)
		if !ok {
			p.reportSemantic(p.Errors.Semantic.PortAbsent, line, col)
			return
		}
		portID = pid
	}

	portNameID := p.names.Intern(portName)[0]
	tmpl.Inputs[portNameID] = append(tmpl.Inputs[portNameID], devices.InnerPort{Device: id, Port: portID})
}

// applyCircuitOutput records that circuitName's declared OUTPUT port
// portName is sourced from exactly one inner (device, port) target.
func (p *Parser) applyCircuitOutput(circuitName, portName, dev, port string, hasPort bool, line, col int) {
	circuitID := p.names.Intern(circuitName)[0]
	tmpl, exists := p.Devices.GetCircuit(circuitID)
	if !exists {
		return
	}

	id := p.resolveDeviceName(dev)
	d, exists := p.Devices.GetDevice(id)
	if !exists {
		p.reportSemantic(p.Errors.Semantic.DeviceAbsent, line, col)
		return
	}
	portID := devices.SinglePort
	if hasPort {
		pid, ok := devices.PortNameToID(d, port)
		if !ok {
			p.reportSemantic(p.Errors.Semantic.PortAbsent, line, col)
			return
		}
		portID = pid
	}

	portNameID := p.names.Intern(portName)[0]
	tmpl.Outputs[portNameID] = devices.InnerPort{Device: id, Port: portID}
}
