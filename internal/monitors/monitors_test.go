package monitors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ldsim/internal/devices"
	"ldsim/internal/token"
)

const (
	storeDevicePresent = 3000
	storeCircuitPres   = 3001
	storeInvalidPin    = 3002
	codeOK             = -1

	codeDeviceAbsent = 4000
	codePortAbsent   = 4001
	codeNotAnOutput  = 4002
)

func newDeviceStore() *devices.Store {
	return devices.NewStore(storeDevicePresent, storeCircuitPres, storeInvalidPin, codeOK)
}

func intp(v int) *int { return &v }

func TestMakeMonitorOnGateOutput(t *testing.T) {
	ds := newDeviceStore()
	require.Equal(t, codeOK, ds.MakeDevice(1, devices.AND, 2, true))
	ms := NewStore(ds, codeDeviceAbsent, codePortAbsent, codeNotAnOutput, codeOK)

	assert.Equal(t, codeOK, ms.MakeMonitor(1, nil))
}

func TestMakeMonitorDtypeRequiresPort(t *testing.T) {
	ds := newDeviceStore()
	require.Equal(t, codeOK, ds.MakeDevice(1, devices.DTYPE, 0, false))
	ms := NewStore(ds, codeDeviceAbsent, codePortAbsent, codeNotAnOutput, codeOK)

	assert.Equal(t, codePortAbsent, ms.MakeMonitor(1, nil), "no port on a multi-output device is port-absent")
	assert.Equal(t, codeOK, ms.MakeMonitor(1, intp(devices.PortQ)))
}

func TestMakeMonitorRejectsInputPort(t *testing.T) {
	ds := newDeviceStore()
	require.Equal(t, codeOK, ds.MakeDevice(1, devices.AND, 2, true))
	ms := NewStore(ds, codeDeviceAbsent, codePortAbsent, codeNotAnOutput, codeOK)

	assert.Equal(t, codeNotAnOutput, ms.MakeMonitor(1, intp(0)))
}

func TestMakeMonitorDeviceAbsent(t *testing.T) {
	ds := newDeviceStore()
	ms := NewStore(ds, codeDeviceAbsent, codePortAbsent, codeNotAnOutput, codeOK)
	assert.Equal(t, codeDeviceAbsent, ms.MakeMonitor(1, nil))
}

func TestRecordSignalsAppendsOnePerCycle(t *testing.T) {
	ds := newDeviceStore()
	require.Equal(t, codeOK, ds.MakeDevice(1, devices.SWITCH, 1, true))
	ms := NewStore(ds, codeDeviceAbsent, codePortAbsent, codeNotAnOutput, codeOK)
	require.Equal(t, codeOK, ms.MakeMonitor(1, nil))

	for i := 0; i < 3; i++ {
		ms.RecordSignals()
	}
	seq, ok := ms.Sequence(1, nil)
	require.True(t, ok)
	assert.Len(t, seq, 3)
	for _, v := range seq {
		assert.Equal(t, token.High, v)
	}
}

func TestResetMonitorsClearsSequences(t *testing.T) {
	ds := newDeviceStore()
	require.Equal(t, codeOK, ds.MakeDevice(1, devices.SWITCH, 1, true))
	ms := NewStore(ds, codeDeviceAbsent, codePortAbsent, codeNotAnOutput, codeOK)
	require.Equal(t, codeOK, ms.MakeMonitor(1, nil))
	ms.RecordSignals()
	ms.RecordSignals()

	ms.ResetMonitors()
	seq, ok := ms.Sequence(1, nil)
	require.True(t, ok)
	assert.Empty(t, seq)
}

func TestRemoveMonitor(t *testing.T) {
	ds := newDeviceStore()
	require.Equal(t, codeOK, ds.MakeDevice(1, devices.SWITCH, 1, true))
	ms := NewStore(ds, codeDeviceAbsent, codePortAbsent, codeNotAnOutput, codeOK)
	require.Equal(t, codeOK, ms.MakeMonitor(1, nil))

	assert.True(t, ms.RemoveMonitor(1, nil))
	assert.False(t, ms.RemoveMonitor(1, nil))
	assert.Empty(t, ms.Keys())
}
