package devices

import (
	"fmt"
	"strconv"
	"strings"
)

// dtypePortNames gives the fixed port vocabulary for a DTYPE device:
// CLK/SET/CLEAR/DATA are inputs, Q/QBAR are outputs (spec.md §4.4).
var dtypePortNames = map[string]int{
	"CLK": PortCLK, "SET": PortSET, "CLEAR": PortCLEAR, "DATA": PortDATA,
	"Q": PortQ, "QBAR": PortQBAR,
}

var dtypePortIDs = map[int]string{
	PortCLK: "CLK", PortSET: "SET", PortCLEAR: "CLEAR", PortDATA: "DATA",
	PortQ: "Q", PortQBAR: "QBAR",
}

// PortNameToID resolves a port name string (e.g. "I3", "Q", "CLK") to a
// port ID on d, and reports whether such a port exists.
func PortNameToID(d *Device, portName string) (int, bool) {
	if d.Kind == DTYPE {
		id, ok := dtypePortNames[portName]
		return id, ok
	}
	if !strings.HasPrefix(portName, "I") {
		return 0, false
	}
	n, err := strconv.Atoi(portName[1:])
	if err != nil || n < 1 {
		return 0, false
	}
	portID := n - 1
	if _, ok := d.Inputs[portID]; !ok {
		return 0, false
	}
	return portID, true
}

// PortIDToName is the inverse of PortNameToID for an input port ID, or
// resolves a gate/switch/clock's single output (empty string, since
// spec.md uses None/SinglePort as "the" output and it has no name in
// the definition-file grammar).
func PortIDToName(d *Device, portID int) (string, bool) {
	if d.Kind == DTYPE {
		name, ok := dtypePortIDs[portID]
		return name, ok
	}
	if portID == SinglePort {
		return "", true
	}
	if _, ok := d.Inputs[portID]; ok {
		return fmt.Sprintf("I%d", portID+1), true
	}
	return "", false
}
