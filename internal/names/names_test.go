package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternRoundTrip(t *testing.T) {
	tbl := New()
	ids := tbl.Intern("and1", "sw1", "and1")

	assert.Equal(t, ids[0], ids[2], "re-interning the same string must return the same ID")
	assert.NotEqual(t, ids[0], ids[1])

	for i, want := range []string{"and1", "sw1"} {
		got, ok := tbl.Stringify(ids[i])
		require.True(t, ok)
		assert.Equal(t, want, got)

		backID, ok := tbl.Query(want)
		require.True(t, ok)
		assert.Equal(t, ids[i], backID)
	}
}

func TestQueryAbsent(t *testing.T) {
	tbl := New()
	_, ok := tbl.Query("nope")
	assert.False(t, ok)
}

func TestStringifyOutOfRange(t *testing.T) {
	tbl := New()
	tbl.Intern("a")
	_, ok := tbl.Stringify(99)
	assert.False(t, ok)
	_, ok = tbl.Stringify(-1)
	assert.False(t, ok)
}

func TestReserveErrorCodesDistinctFromNames(t *testing.T) {
	tbl := New()
	nameIDs := tbl.Intern("foo")
	codeIDs := tbl.ReserveErrorCodes(5)
	moreNames := tbl.Intern("bar")

	require.Len(t, codeIDs, 5)
	for i := 1; i < len(codeIDs); i++ {
		assert.Equal(t, codeIDs[i-1]+1, codeIDs[i], "reserved codes must be contiguous")
	}
	assert.NotContains(t, codeIDs, nameIDs[0])
	assert.NotContains(t, codeIDs, moreNames[0])

	for _, id := range codeIDs {
		_, ok := tbl.Stringify(id)
		assert.False(t, ok, "a reserved error code has no backing string")
	}
}
