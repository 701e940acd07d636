package circuit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ldsim/internal/token"
)

func writeTemp(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "circuit.def")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestLoadAndRunNandGate(t *testing.T) {
	path := writeTemp(t, `
		SWITCH a = 1, b = 1;
		NAND g(IN=2);
		CONNECT a -> g.I1, b -> g.I2;
		MONITOR g;
	`)
	ctx := New()
	ok, err := ctx.Load(path)
	require.NoError(t, err)
	require.True(t, ok)

	require.True(t, ctx.Run(3))
	assert.Equal(t, ExitOK, ctx.ExitCode())

	traces := ctx.Traces()
	seq, present := traces["g"]
	require.True(t, present)
	require.Len(t, seq, 3)
	for _, s := range seq {
		assert.Equal(t, token.Low, s.AsLevel())
	}
}

func TestLoadReportsCompileErrorExitCode(t *testing.T) {
	path := writeTemp(t, "SWITCH a 1;")
	ctx := New()
	ok, err := ctx.Load(path)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ExitCompileErrors, ctx.ExitCode())
}

func TestRuntimeSwitchAndConnectionEdits(t *testing.T) {
	path := writeTemp(t, `
		SWITCH a = 0;
		NOT n;
	`)
	ctx := New()
	ok, err := ctx.Load(path)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, ctx.AddConnection("a", "n.I1"))
	require.NoError(t, ctx.AddMonitor("n"))

	require.True(t, ctx.SetSwitch("a", token.High))
	require.True(t, ctx.Run(2))

	traces := ctx.Traces()
	seq, present := traces["n"]
	require.True(t, present)
	require.Len(t, seq, 2)
	assert.Equal(t, token.Low, seq[0].AsLevel())
}

func TestRunColdStartsBetweenRunsContinueDoesNot(t *testing.T) {
	path := writeTemp(t, `
		SWITCH a = 1;
		NOT n;
		CONNECT a -> n.I1;
		MONITOR n;
	`)
	ctx := New()
	ok, err := ctx.Load(path)
	require.NoError(t, err)
	require.True(t, ok)

	require.True(t, ctx.Run(1))
	assert.Equal(t, 1, ctx.CyclesRun())

	require.True(t, ctx.Continue(2))
	assert.Equal(t, 3, ctx.CyclesRun())

	require.True(t, ctx.Run(1))
	assert.Equal(t, 1, ctx.CyclesRun())
}

func TestSubCircuitRuntimeConnectionThroughTemplate(t *testing.T) {
	path := writeTemp(t, `
		CIRCUIT inv2 {
			NOT n1;
			NOT n2;
			CONNECT n1 -> n2.I1;
			INPUT in = n1.I1;
			OUTPUT out = n2;
		}
		SWITCH driver = 1;
	`)
	ctx := New()
	ok, err := ctx.Load(path)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, ctx.AddConnection("driver", "inv2.in"))
	require.NoError(t, ctx.AddMonitor("inv2.out"))
	require.True(t, ctx.Run(1))

	traces := ctx.Traces()
	_, present := traces["inv2_n2"]
	assert.True(t, present)
}
