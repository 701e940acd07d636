// Package devices constructs and stores primitive devices and
// sub-circuit templates, and validates device-level properties.
//
// Every kind shares one Device struct: the kind-specific fields (switch
// state, clock half-period and counter, D-type memory) sit side by side
// on it and stay at their zero values on kinds that do not use them;
// there is no per-kind payload type. Grounded on the teacher's
// emul/cpu.go and emul/spr.go per-register-kind struct for the CPU's
// special registers.
package devices

import (
	"math/rand"

	"ldsim/internal/token"
)

// Kind identifies which primitive a Device implements.
type Kind int

const (
	AND Kind = iota
	OR
	NAND
	NOR
	XOR
	NOT
	CLOCK
	SWITCH
	DTYPE
)

func (k Kind) String() string {
	switch k {
	case AND:
		return "AND"
	case OR:
		return "OR"
	case NAND:
		return "NAND"
	case NOR:
		return "NOR"
	case XOR:
		return "XOR"
	case NOT:
		return "NOT"
	case CLOCK:
		return "CLOCK"
	case SWITCH:
		return "SWITCH"
	case DTYPE:
		return "DTYPE"
	default:
		return "?"
	}
}

func (k Kind) IsGate() bool {
	switch k {
	case AND, OR, NAND, NOR, XOR, NOT:
		return true
	}
	return false
}

// The canonical single output port ID used by gates, switches, and
// clocks. D-types use the named Q/QBAR ports instead.
const SinglePort = -1

// D-type port IDs, fixed regardless of the name interner.
const (
	PortCLK = iota
	PortSET
	PortCLEAR
	PortDATA
	PortQ
	PortQBAR
)

// Device is one constructed circuit element.
type Device struct {
	ID      int
	Kind    Kind
	FanIn   int // number of input ports for gates; unused otherwise
	Inputs  map[int]*token.Signal
	Outputs map[int]token.Signal

	// Kind-specific state.
	SwitchState     token.Signal
	ClockHalfPeriod int
	ClockCounter    int
	DtypeMemory     token.Signal
}

// CircuitTemplate is a named, reusable sub-circuit: its declared inputs
// fan out to one or more inner device input ports, and each declared
// output maps to exactly one inner device output port.
type CircuitTemplate struct {
	ID      int
	Inputs  map[int][]InnerPort // circuit input port -> inner targets
	Outputs map[int]InnerPort   // circuit output port -> inner source
}

// InnerPort names a (device, port) pair inside an expanded sub-circuit.
type InnerPort struct {
	Device int
	Port   int
}

// ErrCode is an opaque error-code value as minted by errs.Bus; devices
// never constructs messages itself, only returns the code for the
// caller (the parser) to hand to the error bus.
type ErrCode = int

// Store owns every constructed Device and CircuitTemplate.
type Store struct {
	devices  map[int]*Device
	circuits map[int]*CircuitTemplate
	order    []int // device IDs in creation order, for deterministic iteration

	// Codes, supplied by the caller at construction so devices never
	// depends on the errs package's own dependency graph.
	CodeDeviceAlreadyPresent  ErrCode
	CodeCircuitAlreadyPresent ErrCode
	CodeInvalidPinCount       ErrCode
	codeOK                    ErrCode
}

// NewStore builds an empty Store. okCode is returned by MakeDevice and
// MakeCircuit on success (callers typically pass a sentinel < 0, since
// every real error code is >= 0 as minted by names.Table).
func NewStore(deviceAlreadyPresent, circuitAlreadyPresent, invalidPinCount, okCode ErrCode) *Store {
	return &Store{
		devices:                   make(map[int]*Device),
		circuits:                  make(map[int]*CircuitTemplate),
		CodeDeviceAlreadyPresent:  deviceAlreadyPresent,
		CodeCircuitAlreadyPresent: circuitAlreadyPresent,
		CodeInvalidPinCount:       invalidPinCount,
		codeOK:                    okCode,
	}
}

// MakeDevice constructs a primitive device of the given kind. property
// carries the fan-in (gates), half-period (clock), or initial state
// (switch); hasProperty distinguishes "absent" from "zero".
func (s *Store) MakeDevice(id int, kind Kind, property int, hasProperty bool) ErrCode {
	if _, exists := s.devices[id]; exists {
		return s.CodeDeviceAlreadyPresent
	}

	d := &Device{
		ID:      id,
		Kind:    kind,
		Inputs:  make(map[int]*token.Signal),
		Outputs: make(map[int]token.Signal),
	}

	switch kind {
	case SWITCH:
		if !hasProperty || (property != 0 && property != 1) {
			return s.CodeInvalidPinCount
		}
		d.SwitchState = token.Low
		if property == 1 {
			d.SwitchState = token.High
		}
		d.Outputs[SinglePort] = d.SwitchState

	case CLOCK:
		if !hasProperty || property < 1 {
			return s.CodeInvalidPinCount
		}
		d.ClockHalfPeriod = property
		d.ClockCounter = property - 1
		d.Outputs[SinglePort] = token.Low

	case AND, OR, NAND, NOR:
		if !hasProperty || property < 1 || property > 16 {
			return s.CodeInvalidPinCount
		}
		d.FanIn = property
		for i := 0; i < property; i++ {
			d.Inputs[i] = nil
		}
		d.Outputs[SinglePort] = token.Blank

	case XOR:
		if hasProperty {
			return s.CodeInvalidPinCount
		}
		d.FanIn = 2
		d.Inputs[0] = nil
		d.Inputs[1] = nil
		d.Outputs[SinglePort] = token.Blank

	case NOT:
		if hasProperty {
			return s.CodeInvalidPinCount
		}
		d.FanIn = 1
		d.Inputs[0] = nil
		d.Outputs[SinglePort] = token.Blank

	case DTYPE:
		if hasProperty {
			return s.CodeInvalidPinCount
		}
		d.Inputs[PortCLK] = nil
		d.Inputs[PortSET] = nil
		d.Inputs[PortCLEAR] = nil
		d.Inputs[PortDATA] = nil
		d.Outputs[PortQ] = token.Low
		d.Outputs[PortQBAR] = token.High
		d.DtypeMemory = token.Low
	}

	s.devices[id] = d
	s.order = append(s.order, id)
	return s.codeOK
}

// MakeCircuit registers a new, empty sub-circuit template.
func (s *Store) MakeCircuit(id int) (*CircuitTemplate, ErrCode) {
	if _, exists := s.circuits[id]; exists {
		return nil, s.CodeCircuitAlreadyPresent
	}
	c := &CircuitTemplate{
		ID:      id,
		Inputs:  make(map[int][]InnerPort),
		Outputs: make(map[int]InnerPort),
	}
	s.circuits[id] = c
	return c, s.codeOK
}

// SetSwitch mutates a switch's resting state. Returns false if id is
// not a SWITCH device.
func (s *Store) SetSwitch(id int, sig token.Signal) bool {
	d, ok := s.devices[id]
	if !ok || d.Kind != SWITCH {
		return false
	}
	d.SwitchState = sig
	d.Outputs[SinglePort] = sig
	return true
}

// GetDevice returns the device with the given ID, if any.
func (s *Store) GetDevice(id int) (*Device, bool) {
	d, ok := s.devices[id]
	return d, ok
}

// GetCircuit returns the sub-circuit template with the given ID, if any.
func (s *Store) GetCircuit(id int) (*CircuitTemplate, bool) {
	c, ok := s.circuits[id]
	return c, ok
}

// IsCircuit reports whether id names a registered sub-circuit template
// (as opposed to a primitive device).
func (s *Store) IsCircuit(id int) bool {
	_, ok := s.circuits[id]
	return ok
}

// FindDevices returns every device ID, optionally filtered to one kind,
// in creation order.
func (s *Store) FindDevices(kind *Kind) []int {
	var out []int
	for _, id := range s.order {
		if kind == nil || s.devices[id].Kind == *kind {
			out = append(out, id)
		}
	}
	return out
}

// ColdStartup randomizes every clock's phase and current output, and
// every D-type's internal memory, per spec.md §4.4.
func (s *Store) ColdStartup(rng *rand.Rand) {
	for _, id := range s.order {
		d := s.devices[id]
		switch d.Kind {
		case CLOCK:
			d.ClockCounter = rng.Intn(d.ClockHalfPeriod)
			if rng.Intn(2) == 0 {
				d.Outputs[SinglePort] = token.Low
			} else {
				d.Outputs[SinglePort] = token.High
			}
		case DTYPE:
			if rng.Intn(2) == 0 {
				d.DtypeMemory = token.Low
			} else {
				d.DtypeMemory = token.High
			}
			d.Outputs[PortQ] = d.DtypeMemory
			if d.DtypeMemory == token.Low {
				d.Outputs[PortQBAR] = token.High
			} else {
				d.Outputs[PortQBAR] = token.Low
			}
		}
	}
}

// PortIsInput reports whether portID names an existing input port on d
// (for gates, one of its FanIn inputs).
func PortIsInput(d *Device, portID int) bool {
	_, ok := d.Inputs[portID]
	return ok
}

// PortIsOutput reports whether portID names an output port on d.
func PortIsOutput(d *Device, portID int) bool {
	_, ok := d.Outputs[portID]
	return ok
}
