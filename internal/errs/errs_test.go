package errs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ldsim/internal/names"
)

func TestCodesAreDistinctFromNameIDs(t *testing.T) {
	tbl := names.New()
	nameIDs := tbl.Intern("foo", "bar")
	bus := New(tbl)

	assert.True(t, bus.IsSyntaxCode(bus.Syntax.MissingSemicolon))
	assert.True(t, bus.IsSemanticCode(bus.Semantic.PortAbsent))
	assert.False(t, bus.IsSyntaxCode(nameIDs[0]))
	assert.False(t, bus.IsSemanticCode(nameIDs[1]))
}

func TestDisplayFormat(t *testing.T) {
	tbl := names.New()
	bus := New(tbl)
	col := 5
	bus.Add(Syntax, bus.Syntax.MissingEquals, 3, "SWITCH sw = 0", &col, true)

	out := bus.Errors()[0].Display()
	lines := strings.Split(out, "\n")
	assert.Equal(t, "ERROR: Syntax Error on line 3:", lines[0])
	assert.Equal(t, "SWITCH sw = 0", lines[1])
	assert.Equal(t, "     ^", lines[2])
	assert.Equal(t, "expected '='", lines[3])
}

func TestDisplayOmitsCaretWhenColumnNil(t *testing.T) {
	tbl := names.New()
	bus := New(tbl)
	bus.Add(Semantic, bus.Semantic.DeviceAbsent, 1, "CONNECT a -> b;", nil, true)
	out := bus.Errors()[0].Display()
	assert.NotContains(t, out, "^")
}

func TestRelocationSkipsWhitespace(t *testing.T) {
	tbl := names.New()
	bus := New(tbl)
	col := 7
	bus.Add(Semantic, bus.Semantic.PortAbsent, 1, "CONNECT    a.z -> b;", &col, false)
	got := *bus.Errors()[0].Column
	assert.Equal(t, 11, got) // first non-whitespace at/after col 7 is 'a' at index 11
}

func TestOverrideDisablesRelocation(t *testing.T) {
	tbl := names.New()
	bus := New(tbl)
	col := 7
	bus.Add(Semantic, bus.Semantic.PortAbsent, 1, "CONNECT    a.z -> b;", &col, true)
	got := *bus.Errors()[0].Column
	assert.Equal(t, 7, got)
}

func TestSyntaxCountTracksOnlySyntaxErrors(t *testing.T) {
	tbl := names.New()
	bus := New(tbl)
	bus.Add(Syntax, bus.Syntax.MissingComma, 1, "", nil, true)
	bus.Add(Semantic, bus.Semantic.DeviceAbsent, 2, "", nil, true)
	bus.Add(Syntax, bus.Syntax.NotName, 3, "", nil, true)

	assert.Equal(t, 3, bus.Count())
	assert.Equal(t, 2, bus.SyntaxCount())
}
