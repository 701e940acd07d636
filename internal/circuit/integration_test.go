package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// An SR latch built from two cross-coupled NOR gates inside a
// sub-circuit, driven and monitored entirely through the file's own
// top-level statements -- exercises circuit registration, INPUT/OUTPUT
// port remapping, and CONNECT/MONITOR signame resolution together.
func TestLoadAndRunSRLatchFixture(t *testing.T) {
	ctx := New()
	ok, err := ctx.Load("../../testdata/sr_latch.def")
	require.NoError(t, err)
	require.True(t, ok, "fixture should compile without errors: %v", ctx.Errors.Errors())

	require.True(t, ctx.Run(4))
	assert.Equal(t, ExitOK, ctx.ExitCode())

	traces := ctx.Traces()
	qSeq, present := traces["srlatch_top"]
	require.True(t, present)
	assert.Len(t, qSeq, 4)
	qbarSeq, present := traces["srlatch_bottom"]
	require.True(t, present)
	assert.Len(t, qbarSeq, 4)
}
