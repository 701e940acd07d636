// Package monitors tracks which (device, output-port) pairs are
// observed and records their signal history one sample per simulated
// cycle.
//
// Grounded on the teacher's emul/trace.go, its own per-cycle recorder
// for the CPU emulator's register file, adapted here to key on
// (device, port) pairs instead of register names.
package monitors

import (
	"ldsim/internal/devices"
	"ldsim/internal/token"
)

// Key identifies one monitored point: a device and an optional port
// (nil for a gate/switch/clock's single canonical output).
type Key struct {
	Device int
	Port   *int
}

func (k Key) normalized() Key {
	if k.Port == nil {
		return k
	}
	p := *k.Port
	return Key{Device: k.Device, Port: &p}
}

func (k Key) rawKey() (int, int, bool) {
	if k.Port == nil {
		return k.Device, 0, false
	}
	return k.Device, *k.Port, true
}

// Store owns every monitor's recorded sequence.
type Store struct {
	devices *devices.Store
	order   []Key
	seq     map[rawKey][]token.Signal

	CodeDeviceAbsent int
	CodePortAbsent   int
	CodeNotAnOutput  int
	codeOK           int
}

type rawKey struct {
	device  int
	port    int
	hasPort bool
}

// NewStore builds an empty monitor Store over the given device store.
func NewStore(devStore *devices.Store, deviceAbsent, portAbsent, notAnOutput, okCode int) *Store {
	return &Store{
		devices:          devStore,
		seq:              make(map[rawKey][]token.Signal),
		CodeDeviceAbsent: deviceAbsent,
		CodePortAbsent:   portAbsent,
		CodeNotAnOutput:  notAnOutput,
		codeOK:           okCode,
	}
}

func toRaw(device int, port *int) rawKey {
	if port == nil {
		return rawKey{device: device}
	}
	return rawKey{device: device, port: *port, hasPort: true}
}

// MakeMonitor begins observing device.port (or device's single
// canonical output if port is nil). Per spec.md §9's resolution of the
// "MONITOR name with no port on a multi-output device" ambiguity, a nil
// port on a device with no canonical single output (i.e. DTYPE) is
// treated as port-absent rather than silently monitoring everything.
func (s *Store) MakeMonitor(device int, port *int) int {
	d, ok := s.devices.GetDevice(device)
	if !ok {
		return s.CodeDeviceAbsent
	}

	portID := devices.SinglePort
	if port != nil {
		portID = *port
	} else if d.Kind == devices.DTYPE {
		return s.CodePortAbsent
	}

	if !devices.PortIsOutput(d, portID) {
		if devices.PortIsInput(d, portID) {
			return s.CodeNotAnOutput
		}
		return s.CodePortAbsent
	}

	key := Key{Device: device, Port: port}
	raw := toRaw(device, port)
	if _, exists := s.seq[raw]; exists {
		return s.codeOK
	}
	s.seq[raw] = []token.Signal{}
	s.order = append(s.order, key.normalized())
	return s.codeOK
}

// RemoveMonitor stops observing device.port and discards its recorded
// sequence. Reports whether a monitor existed.
func (s *Store) RemoveMonitor(device int, port *int) bool {
	raw := toRaw(device, port)
	if _, exists := s.seq[raw]; !exists {
		return false
	}
	delete(s.seq, raw)
	for i, k := range s.order {
		kd, kp, kh := k.rawKey()
		rd, rp, rh := raw.device, raw.port, raw.hasPort
		if kd == rd && kh == rh && (!kh || kp == rp) {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// RecordSignals appends the current output value of every monitored
// port to its sequence. Call once per cycle, after ExecuteNetwork
// returns (i.e. after the propagation fixpoint).
func (s *Store) RecordSignals() {
	for _, k := range s.order {
		d, ok := s.devices.GetDevice(k.Device)
		if !ok {
			continue
		}
		portID := devices.SinglePort
		if k.Port != nil {
			portID = *k.Port
		}
		raw := toRaw(k.Device, k.Port)
		s.seq[raw] = append(s.seq[raw], d.Outputs[portID])
	}
}

// ResetMonitors clears every monitor's recorded sequence without
// removing the monitors themselves (called on simulation restart).
func (s *Store) ResetMonitors() {
	for raw := range s.seq {
		s.seq[raw] = []token.Signal{}
	}
}

// Sequence returns the recorded signal history for a monitor.
func (s *Store) Sequence(device int, port *int) ([]token.Signal, bool) {
	seq, ok := s.seq[toRaw(device, port)]
	return seq, ok
}

// Keys returns every monitored (device, port) pair, in creation order.
func (s *Store) Keys() []Key {
	return append([]Key(nil), s.order...)
}
