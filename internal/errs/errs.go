// Package errs implements the two-tier (syntax/semantic) diagnostic bus:
// a fixed error-code set per namespace, a human-readable message table,
// and the caret-style display format.
//
// Grounded on the teacher's collect-and-continue pattern in
// lang/sem/analyzer.go (error/errorAt append to a slice instead of
// panicking), generalized to spec.md §4.3's two-namespace design with
// codes minted from the shared names.Table ID space.
package errs

import (
	"fmt"
	"strings"

	"ldsim/internal/names"
)

// Namespace distinguishes syntax from semantic diagnostics.
type Namespace int

const (
	Syntax Namespace = iota
	Semantic
)

func (n Namespace) String() string {
	if n == Syntax {
		return "Syntax"
	}
	return "Semantic"
}

// Code set names, one field per spec.md §4.3 error. Each field holds an
// ID reserved from the shared names.Table so that code identity and
// name identity share one counter.
type SyntaxCodes struct {
	MissingSemicolon  int
	MissingComma      int
	MissingEquals     int
	MissingPort       int
	MissingOpenParen  int
	MissingCloseParen int
	MissingCloseBrack int
	MissingOpenBrace  int
	MissingCloseBrace int
	MissingTo         int
	MissingIn         int
	MissingConnection int
	MissingPeriod     int
	NotName           int
	NotNumber         int
	NotBinaryDigit    int
	ReservedName      int
	MissingKeyword    int
	MissingOut        int
	InvalidCircuitKw  int
	EmptyFile         int
}

type SemanticCodes struct {
	InvalidPinCount       int
	LoopIndexBadOrder     int
	DeviceAlreadyPresent  int
	CircuitAlreadyPresent int
	InputToInput          int
	OutputToOutput        int
	InputAlreadyConnected int
	PortAbsent            int
	DeviceAbsent          int
	NotAnInput            int
	NotAnOutput           int
}

// relocated marks which semantic codes get the "syntactic marker"
// column relocation (spec.md §9 Open Question): hop forward to the
// first non-whitespace column following the reported one, never
// crossing a newline, unless the caller passes override=true.
var relocated map[int]bool

// Error is one accumulated diagnostic.
type Error struct {
	Namespace Namespace
	Code      int
	Line      int
	LineText  string
	Column    *int // nil omits the caret line entirely
	Message   string
}

// Bus accumulates diagnostics and formats them for display.
type Bus struct {
	names    *names.Table
	messages map[int]string
	Syntax   SyntaxCodes
	Semantic SemanticCodes

	errors      []Error
	syntaxCount int
}

// New reserves the fixed code sets from tbl and builds the message
// tables. Call once per compile.
func New(tbl *names.Table) *Bus {
	b := &Bus{names: tbl, messages: make(map[int]string)}
	relocated = make(map[int]bool)

	sc := tbl.ReserveErrorCodes(21)
	b.Syntax = SyntaxCodes{
		MissingSemicolon: sc[0], MissingComma: sc[1], MissingEquals: sc[2],
		MissingPort: sc[3], MissingOpenParen: sc[4], MissingCloseParen: sc[5],
		MissingCloseBrack: sc[6], MissingOpenBrace: sc[7], MissingCloseBrace: sc[8],
		MissingTo: sc[9], MissingIn: sc[10], MissingConnection: sc[11],
		MissingPeriod: sc[12], NotName: sc[13], NotNumber: sc[14],
		NotBinaryDigit: sc[15], ReservedName: sc[16], MissingKeyword: sc[17],
		MissingOut: sc[18], InvalidCircuitKw: sc[19], EmptyFile: sc[20],
	}
	b.messages[b.Syntax.MissingSemicolon] = "expected ';'"
	b.messages[b.Syntax.MissingComma] = "expected ','"
	b.messages[b.Syntax.MissingEquals] = "expected '='"
	b.messages[b.Syntax.MissingPort] = "expected a port name"
	b.messages[b.Syntax.MissingOpenParen] = "expected '('"
	b.messages[b.Syntax.MissingCloseParen] = "expected ')'"
	b.messages[b.Syntax.MissingCloseBrack] = "expected ']'"
	b.messages[b.Syntax.MissingOpenBrace] = "expected '{'"
	b.messages[b.Syntax.MissingCloseBrace] = "expected '}'"
	b.messages[b.Syntax.MissingTo] = "expected TO"
	b.messages[b.Syntax.MissingIn] = "expected IN"
	b.messages[b.Syntax.MissingConnection] = "expected '->'"
	b.messages[b.Syntax.MissingPeriod] = "expected PERIOD"
	b.messages[b.Syntax.NotName] = "expected a name"
	b.messages[b.Syntax.NotNumber] = "expected a number"
	b.messages[b.Syntax.NotBinaryDigit] = "expected 0 or 1"
	b.messages[b.Syntax.ReservedName] = "name is reserved"
	b.messages[b.Syntax.MissingKeyword] = "expected a device or CONNECT/MONITOR/CIRCUIT keyword"
	b.messages[b.Syntax.MissingOut] = "expected OUT"
	b.messages[b.Syntax.InvalidCircuitKw] = "keyword not legal inside a CIRCUIT block"
	b.messages[b.Syntax.EmptyFile] = "definition file is empty"

	mc := tbl.ReserveErrorCodes(11)
	b.Semantic = SemanticCodes{
		InvalidPinCount: mc[0], LoopIndexBadOrder: mc[1],
		DeviceAlreadyPresent: mc[2], CircuitAlreadyPresent: mc[3],
		InputToInput: mc[4], OutputToOutput: mc[5],
		InputAlreadyConnected: mc[6], PortAbsent: mc[7], DeviceAbsent: mc[8],
		NotAnInput: mc[9], NotAnOutput: mc[10],
	}
	b.messages[b.Semantic.InvalidPinCount] = "invalid pin count for this device kind"
	b.messages[b.Semantic.LoopIndexBadOrder] = "loop end index must be >= start index"
	b.messages[b.Semantic.DeviceAlreadyPresent] = "a device with this name already exists"
	b.messages[b.Semantic.CircuitAlreadyPresent] = "a circuit with this name already exists"
	b.messages[b.Semantic.InputToInput] = "cannot connect an input to an input"
	b.messages[b.Semantic.OutputToOutput] = "cannot connect an output to an output"
	b.messages[b.Semantic.InputAlreadyConnected] = "this input is already connected"
	b.messages[b.Semantic.PortAbsent] = "no such port on this device"
	b.messages[b.Semantic.DeviceAbsent] = "no such device"
	b.messages[b.Semantic.NotAnInput] = "this port is not an input"
	b.messages[b.Semantic.NotAnOutput] = "this port is not an output"

	for _, c := range []int{b.Semantic.InvalidPinCount, b.Semantic.PortAbsent, b.Semantic.DeviceAbsent} {
		relocated[c] = true
	}

	return b
}

// IsSyntaxCode reports whether id is a known syntax error code.
func (b *Bus) IsSyntaxCode(id int) bool {
	for _, v := range []int{
		b.Syntax.MissingSemicolon, b.Syntax.MissingComma, b.Syntax.MissingEquals,
		b.Syntax.MissingPort, b.Syntax.MissingOpenParen, b.Syntax.MissingCloseParen,
		b.Syntax.MissingCloseBrack, b.Syntax.MissingOpenBrace, b.Syntax.MissingCloseBrace,
		b.Syntax.MissingTo, b.Syntax.MissingIn, b.Syntax.MissingConnection,
		b.Syntax.MissingPeriod, b.Syntax.NotName, b.Syntax.NotNumber,
		b.Syntax.NotBinaryDigit, b.Syntax.ReservedName, b.Syntax.MissingKeyword,
		b.Syntax.MissingOut, b.Syntax.InvalidCircuitKw, b.Syntax.EmptyFile,
	} {
		if v == id {
			return true
		}
	}
	return false
}

// IsSemanticCode reports whether id is a known semantic error code.
func (b *Bus) IsSemanticCode(id int) bool {
	_, ok := b.messages[id]
	return ok && !b.IsSyntaxCode(id)
}

// Add appends a diagnostic. column may be nil to omit the caret line.
// Certain semantic codes have their column relocated to the first
// non-whitespace column following the reported one, unless override is
// true.
func (b *Bus) Add(ns Namespace, code int, line int, lineText string, column *int, override bool) {
	col := column
	if !override && relocated[code] && column != nil {
		c := relocateColumn(lineText, *column)
		col = &c
	}
	e := Error{
		Namespace: ns,
		Code:      code,
		Line:      line,
		LineText:  lineText,
		Column:    col,
		Message:   b.messages[code],
	}
	b.errors = append(b.errors, e)
	if ns == Syntax {
		b.syntaxCount++
	}
}

func relocateColumn(lineText string, from int) int {
	for i := from; i < len(lineText); i++ {
		if !strings.ContainsRune(" \t", rune(lineText[i])) {
			return i
		}
	}
	return from
}

// Errors returns every accumulated diagnostic, in order.
func (b *Bus) Errors() []Error { return b.errors }

// Count returns the total number of diagnostics accumulated.
func (b *Bus) Count() int { return len(b.errors) }

// SyntaxCount returns the number of syntax diagnostics accumulated.
func (b *Bus) SyntaxCount() int { return b.syntaxCount }

// Display formats e as:
//
//	ERROR: Syntax|Semantic Error on line N:
//	<line>
//	<spaces>^
//	<message>
func (e Error) Display() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ERROR: %s Error on line %d:\n", e.Namespace, e.Line)
	sb.WriteString(e.LineText)
	sb.WriteByte('\n')
	if e.Column != nil {
		sb.WriteString(strings.Repeat(" ", *e.Column))
		sb.WriteString("^\n")
	}
	sb.WriteString(e.Message)
	return sb.String()
}
