// Package parser implements the recursive-descent parser over the
// definition-file grammar (spec.md §6): syntax validation with
// collect-and-continue error recovery, loop expansion, sub-circuit
// scope handling, and network construction.
//
// Grounded on the teacher's lang/parse/parser.go (statement-loop
// structure of its largest hand-rolled recursive-descent parser) and
// lang/sem/reader.go's two-pass, parse-into-holder-then-apply
// discipline.
package parser

import (
	"fmt"

	"ldsim/internal/devices"
	"ldsim/internal/errs"
	"ldsim/internal/monitors"
	"ldsim/internal/names"
	"ldsim/internal/network"
	"ldsim/internal/scanner"
	"ldsim/internal/token"
)

// okCode is the sentinel every Store/Network/Bus in this module is
// constructed with to mean "no error" (see internal/circuit's wiring); real
// error codes are always >= 0, minted by names.Table.
const okCode = -1

// isStopSymbol reports whether t is in the set a skip-to-stopping-symbol recovery halts on:
// `; , KEYWORD EOF }` (spec.md §4.7).
func isStopSymbol(t token.Symbol) bool {
	switch t.Kind {
	case token.Semicolon, token.Comma, token.Keyword, token.Eof, token.CloseBrace:
		return true
	}
	return false
}

// Parser drives the scanner and accumulates devices, connections, and
// monitors into the owned Network/Devices/Monitors stores.
type Parser struct {
	scan    *scanner.Scanner
	names   *names.Table
	Errors  *errs.Bus
	Devices *devices.Store
	Net     *network.Network
	Mon     *monitors.Store

	cur        token.Symbol
	localError bool
	holders    []func()

	circuitPrefix string // "" at top level, "foo" inside CIRCUIT foo { ... }

	kw map[string]int // keyword name -> interned ID, for dispatch
}

// New builds a Parser over src. tbl/bus/ds/net/mon must be freshly
// constructed and are mutated in place as parsing proceeds.
func New(src string, tbl *names.Table, bus *errs.Bus, ds *devices.Store, net *network.Network, mon *monitors.Store) *Parser {
	p := &Parser{
		scan:    scanner.New(src, tbl),
		names:   tbl,
		Errors:  bus,
		Devices: ds,
		Net:     net,
		Mon:     mon,
		kw:      make(map[string]int),
	}
	for _, w := range []string{"AND", "OR", "NAND", "NOR", "XOR", "NOT", "DTYPE",
		"CLOCK", "SWITCH", "CONNECT", "CIRCUIT", "MONITOR", "INPUT", "OUTPUT"} {
		p.kw[w] = tbl.Intern(w)[0]
	}
	return p
}

func (p *Parser) advance() { p.cur = p.scan.NextToken() }

// Parse consumes the entire source, accumulating errors and building
// the network. Returns true if the file contained at least one
// statement (false triggers the empty-file error, already recorded).
func (p *Parser) Parse() bool {
	p.advance()
	if p.cur.Kind == token.Eof {
		p.reportSyntax(p.Errors.Syntax.EmptyFile)
		return false
	}

	for p.cur.Kind != token.Eof {
		if p.circuitPrefix != "" && p.cur.Kind == token.CloseBrace {
			return true
		}
		p.parseOneStatement(false)
	}
	return true
}

// parseOneStatement parses and (if clean) applies a single top-level or
// circuit-body statement. inCircuitBody indicates whether INPUT/OUTPUT
// are legal here.
func (p *Parser) parseOneStatement(inCircuitBody bool) {
	p.holders = nil
	p.localError = false

	if p.cur.Kind != token.Keyword {
		p.reportSyntax(p.Errors.Syntax.MissingKeyword)
		p.advance()
		p.skipToStopSymbol()
		p.consumeSemicolonIfPresent()
		return
	}

	switch p.cur.NameID {
	case p.kw["SWITCH"]:
		p.parseSwitchStmt()
	case p.kw["CLOCK"]:
		p.parseClockStmt()
	case p.kw["AND"], p.kw["OR"], p.kw["NAND"], p.kw["NOR"]:
		p.parseGateStmt()
	case p.kw["XOR"]:
		p.parseSimpleDeviceList(devices.XOR)
	case p.kw["NOT"]:
		p.parseSimpleDeviceList(devices.NOT)
	case p.kw["DTYPE"]:
		p.parseSimpleDeviceList(devices.DTYPE)
	case p.kw["CONNECT"]:
		p.parseConnectStmt()
	case p.kw["MONITOR"]:
		p.parseMonitorStmt()
	case p.kw["CIRCUIT"]:
		if inCircuitBody {
			p.reportSyntax(p.Errors.Syntax.InvalidCircuitKw)
			p.advance()
			p.skipToStopSymbol()
			p.consumeSemicolonIfPresent()
			return
		}
		p.parseCircuitStmt()
		return // circuit statement manages its own nested statements/apply
	case p.kw["INPUT"]:
		if !inCircuitBody {
			p.reportSyntax(p.Errors.Syntax.MissingKeyword)
			p.advance()
			p.skipToStopSymbol()
			p.consumeSemicolonIfPresent()
			return
		}
		p.parseInputStmt()
	case p.kw["OUTPUT"]:
		if !inCircuitBody {
			p.reportSyntax(p.Errors.Syntax.MissingKeyword)
			p.advance()
			p.skipToStopSymbol()
			p.consumeSemicolonIfPresent()
			return
		}
		p.parseOutputStmt()
	default:
		p.reportSyntax(p.Errors.Syntax.MissingKeyword)
		p.skipToStopSymbol()
		p.consumeSemicolonIfPresent()
		return
	}

	if p.localError {
		// Resync past the failed statement's own ';' so it is not read
		// again as the start of the next statement.
		p.skipToStopSymbol()
		p.consumeSemicolonIfPresent()
	}
	p.applyIfClean()
}

func (p *Parser) applyIfClean() {
	if !p.localError {
		for _, h := range p.holders {
			h()
		}
	}
	p.holders = nil
}

// --- error reporting & recovery -------------------------------------------------

func (p *Parser) reportSyntax(code int) {
	c := p.cur.Column
	p.Errors.Add(errs.Syntax, code, p.cur.Line, lineTextFor(p, p.cur.Line), &c, false)
	p.localError = true
}

func (p *Parser) reportSemantic(code int, line int, col int) {
	text := lineTextFor(p, line)
	c := col
	p.Errors.Add(errs.Semantic, code, line, text, &c, false)
}

func lineTextFor(p *Parser, line int) string {
	_, text, _ := p.scan.LineDetails(&line)
	return text
}

func (p *Parser) skipToStopSymbol() {
	for !isStopSymbol(p.cur) {
		p.advance()
	}
}

func (p *Parser) consumeSemicolonIfPresent() {
	if p.cur.Kind == token.Semicolon {
		p.advance()
	}
}

// expect checks p.cur.Kind == want; on mismatch it reports code and
// recovers to the next stopping symbol. Returns whether it matched.
func (p *Parser) expect(want token.Kind, code int) bool {
	if p.cur.Kind == want {
		p.advance()
		return true
	}
	p.reportSyntax(code)
	p.skipToStopSymbol()
	return false
}

// --- shared building blocks -------------------------------------------------

// prefixedName returns the string to intern for a device name declared
// in the current scope: "foo_X" inside CIRCUIT foo, "X" at top level.
func (p *Parser) prefixedName(raw string) string {
	if p.circuitPrefix == "" {
		return raw
	}
	return p.circuitPrefix + "_" + raw
}

// loopRange optionally parses "[" NUMBER TO NUMBER "]". ok is false on
// a syntax error (already recovered); hasLoop is false if no '[' was
// present at all (not an error).
func (p *Parser) loopRange() (hasLoop bool, i, j int, ok bool) {
	if p.cur.Kind != token.OpenBracket {
		return false, 0, 0, true
	}
	p.advance()
	if p.cur.Kind != token.Number {
		p.reportSyntax(p.Errors.Syntax.NotNumber)
		p.skipToStopSymbol()
		return true, 0, 0, false
	}
	i = p.cur.Value
	p.advance()
	if !p.expect(token.To, p.Errors.Syntax.MissingTo) {
		return true, 0, 0, false
	}
	if p.cur.Kind != token.Number {
		p.reportSyntax(p.Errors.Syntax.NotNumber)
		p.skipToStopSymbol()
		return true, 0, 0, false
	}
	j = p.cur.Value
	p.advance()
	if !p.expect(token.CloseBracket, p.Errors.Syntax.MissingCloseBrack) {
		return true, 0, 0, false
	}
	return true, i, j, true
}

// deviceNameList parses "NAME [loop]" and returns the interned,
// prefixed IDs for every device this declaration names (more than one
// when a loop is present), plus the originating line/column for error
// reporting. ok is false if a syntax error occurred.
func (p *Parser) deviceNameList() (ids []int, line, col int, ok bool) {
	if p.cur.Kind != token.Name {
		p.reportSyntax(p.Errors.Syntax.NotName)
		p.skipToStopSymbol()
		return nil, 0, 0, false
	}
	line, col = p.cur.Line, p.cur.Column
	base, _ := p.names.Stringify(p.cur.NameID)
	p.advance()

	hasLoop, i, j, ok := p.loopRange()
	if !ok {
		return nil, line, col, false
	}
	if !hasLoop {
		return []int{p.names.Intern(p.prefixedName(base))[0]}, line, col, true
	}
	if i > j {
		p.reportSemantic(p.Errors.Semantic.LoopIndexBadOrder, line, col)
		return nil, line, col, true // semantic error, not syntax: statement continues
	}
	for k := i; k <= j; k++ {
		name := fmt.Sprintf("%s%d", base, k)
		ids = append(ids, p.names.Intern(p.prefixedName(name))[0])
	}
	return ids, line, col, true
}

// signame parses NAME ["." NAME] and returns the raw (not yet
// circuit-prefixed) device name string and, if present, the raw
// port-name string.
func (p *Parser) signame() (device string, port string, hasPort bool, ok bool) {
	if p.cur.Kind != token.Name {
		p.reportSyntax(p.Errors.Syntax.NotName)
		p.skipToStopSymbol()
		return "", "", false, false
	}
	device, _ = p.names.Stringify(p.cur.NameID)
	p.advance()

	if p.cur.Kind == token.Fullstop {
		p.advance()
		if p.cur.Kind != token.Name {
			p.reportSyntax(p.Errors.Syntax.MissingPort)
			p.skipToStopSymbol()
			return "", "", false, false
		}
		port, _ = p.names.Stringify(p.cur.NameID)
		p.advance()
		return device, port, true, true
	}
	return device, "", false, true
}
