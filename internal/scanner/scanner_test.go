package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ldsim/internal/names"
	"ldsim/internal/token"
)

func TestScannerTokenSequence(t *testing.T) {
	src := "#TEST\nAND and1(IN=4);#;->\n,->2a.[OUT]TO"
	tbl := names.New()
	s := New(src, tbl)

	want := []token.Kind{
		token.Keyword, token.Name, token.OpenParen, token.In, token.Equals,
		token.Number, token.CloseParen, token.Semicolon, token.Comma,
		token.Connection, token.Number, token.Name, token.Fullstop,
		token.OpenBracket, token.Out, token.CloseBracket, token.To, token.Eof,
	}

	var got []token.Symbol
	for {
		tok := s.NextToken()
		got = append(got, tok)
		if tok.Kind == token.Eof {
			break
		}
	}

	require.Len(t, got, len(want))
	for i, k := range want {
		assert.Equalf(t, k, got[i].Kind, "token %d", i)
	}

	andName, ok := tbl.Stringify(got[0].NameID)
	require.True(t, ok)
	assert.Equal(t, "AND", andName)

	and1Name, ok := tbl.Stringify(got[1].NameID)
	require.True(t, ok)
	assert.Equal(t, "and1", and1Name)

	assert.Equal(t, 4, got[5].Value)
	assert.Equal(t, 2, got[10].Value)
}

func TestScannerEmptyFile(t *testing.T) {
	src := "   \n  # just a comment\n\t\n"
	tbl := names.New()
	s := New(src, tbl)
	assert.True(t, s.Empty())
	assert.Equal(t, token.Eof, s.NextToken().Kind)
}

func TestScannerRepeatsEOF(t *testing.T) {
	tbl := names.New()
	s := New("", tbl)
	assert.Equal(t, token.Eof, s.NextToken().Kind)
	assert.Equal(t, token.Eof, s.NextToken().Kind)
}

func TestScannerCommentsAndWhitespaceAlternate(t *testing.T) {
	tbl := names.New()
	s := New("  # one\n   # two\n   NAME", tbl)
	tok := s.NextToken()
	assert.Equal(t, token.Name, tok.Kind)
}

func TestScannerLineAndColumn(t *testing.T) {
	tbl := names.New()
	s := New("AND a1(IN=2);\nNOT n1;", tbl)
	_ = s.NextToken()    // AND
	tok := s.NextToken() // a1
	assert.Equal(t, 1, tok.Line)
	assert.Equal(t, 4, tok.Column)
}
