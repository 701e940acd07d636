package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ldsim/internal/devices"
	"ldsim/internal/errs"
	"ldsim/internal/monitors"
	"ldsim/internal/names"
	"ldsim/internal/network"
	"ldsim/internal/token"
)

func newFixture(src string) *Parser {
	tbl := names.New()
	bus := errs.New(tbl)
	ds := devices.NewStore(bus.Semantic.DeviceAlreadyPresent, bus.Semantic.CircuitAlreadyPresent, bus.Semantic.InvalidPinCount, okCode)
	net := network.NewNetwork(ds, bus.Semantic.DeviceAbsent, bus.Semantic.PortAbsent, bus.Semantic.NotAnInput,
		bus.Semantic.NotAnOutput, bus.Semantic.InputAlreadyConnected, bus.Semantic.InputToInput, bus.Semantic.OutputToOutput, okCode)
	mon := monitors.NewStore(ds, bus.Semantic.DeviceAbsent, bus.Semantic.PortAbsent, bus.Semantic.NotAnOutput, okCode)
	return New(src, tbl, bus, ds, net, mon)
}

func TestParseSwitchAndGate(t *testing.T) {
	p := newFixture("SWITCH a = 1, b = 0; AND g(IN=2); CONNECT a -> g.I1, b -> g.I2;")
	require.True(t, p.Parse())
	assert.Equal(t, 0, p.Errors.Count())

	gID, _ := p.names.Query("g")
	g, ok := p.Devices.GetDevice(gID)
	require.True(t, ok)
	assert.Equal(t, devices.AND, g.Kind)

	ok = p.Net.ExecuteNetwork()
	require.True(t, ok)
	assert.Equal(t, token.Low, g.Outputs[devices.SinglePort])
}

// Loop expansion: "NAME[i TO j]" declares contiguous NAMEi..NAMEj
// devices (spec.md §4.6).
func TestParseLoopExpansion(t *testing.T) {
	p := newFixture("SWITCH s[1 TO 3] = 1;")
	require.True(t, p.Parse())
	assert.Equal(t, 0, p.Errors.Count())

	for i := 1; i <= 3; i++ {
		id, ok := p.names.Query("s" + string(rune('0'+i)))
		require.True(t, ok)
		d, ok := p.Devices.GetDevice(id)
		require.True(t, ok)
		assert.Equal(t, devices.SWITCH, d.Kind)
		assert.Equal(t, token.High, d.SwitchState)
	}
}

// A missing '=' in a SWITCH declaration is a syntax error; the
// statement's side effects never apply.
func TestParseMissingEqualsIsSyntaxError(t *testing.T) {
	p := newFixture("SWITCH a 1;")
	require.True(t, p.Parse())
	require.Equal(t, 1, p.Errors.SyntaxCount())

	_, exists := p.names.Query("a")
	if exists {
		id, _ := p.names.Query("a")
		_, present := p.Devices.GetDevice(id)
		assert.False(t, present, "a syntax error must suppress device creation")
	}
}

// Connecting two input ports to each other is an input-to-input
// semantic error, and does not suppress later statements.
func TestParseInputToInputThenLaterStatementStillApplies(t *testing.T) {
	p := newFixture(`
		AND and1(IN=2);
		AND and2(IN=2);
		CONNECT and1.I1 -> and2.I1;
		SWITCH ok = 1;
	`)
	require.True(t, p.Parse())
	require.Equal(t, 1, p.Errors.Count())
	assert.Equal(t, errs.Semantic, p.Errors.Errors()[0].Namespace)
	assert.Equal(t, p.Errors.Semantic.InputToInput, p.Errors.Errors()[0].Code)

	okID, exists := p.names.Query("ok")
	require.True(t, exists)
	_, present := p.Devices.GetDevice(okID)
	assert.True(t, present, "a semantic error in one statement must not suppress later statements")
}

func TestParseEmptyFile(t *testing.T) {
	p := newFixture("   \n # just a comment\n")
	ok := p.Parse()
	assert.False(t, ok)
	require.Equal(t, 1, p.Errors.SyntaxCount())
	assert.Equal(t, p.Errors.Syntax.EmptyFile, p.Errors.Errors()[0].Code)
}

// Sub-circuits: device names inside CIRCUIT NAME { } are prefixed
// "name_device", and INPUT/OUTPUT declarations remap the circuit's
// external ports onto those inner devices (spec.md §4.6).
func TestParseSubCircuitPortRemap(t *testing.T) {
	p := newFixture(`
		CIRCUIT inv2 {
			NOT n1;
			NOT n2;
			CONNECT n1 -> n2.I1;
			INPUT in = n1.I1;
			OUTPUT out = n2;
		}
		SWITCH driver = 1;
		CONNECT driver -> inv2.in;
		MONITOR inv2.out;
	`)
	require.True(t, p.Parse())
	assert.Equal(t, 0, p.Errors.Count())

	n1ID, ok := p.names.Query("inv2_n1")
	require.True(t, ok)
	n2ID, ok := p.names.Query("inv2_n2")
	require.True(t, ok)

	require.True(t, p.Net.ExecuteNetwork())
	n1, _ := p.Devices.GetDevice(n1ID)
	n2, _ := p.Devices.GetDevice(n2ID)
	assert.Equal(t, token.Low, n1.Outputs[devices.SinglePort])
	assert.Equal(t, token.High, n2.Outputs[devices.SinglePort])

	seq, ok := p.Mon.Sequence(n2ID, nil)
	require.True(t, ok)
	require.Len(t, seq, 0) // RecordSignals not yet called; MONITOR only registers
}

// A CIRCUIT port referenced with no declared mapping resolves to
// port-absent rather than silently doing nothing.
func TestParseSubCircuitUnmappedPortIsAbsent(t *testing.T) {
	p := newFixture(`
		CIRCUIT box {
			NOT n;
			OUTPUT out = n;
		}
		SWITCH driver = 1;
		CONNECT driver -> box.missing;
	`)
	require.True(t, p.Parse())
	require.Equal(t, 1, p.Errors.Count())
	assert.Equal(t, p.Errors.Semantic.PortAbsent, p.Errors.Errors()[0].Code)
}
