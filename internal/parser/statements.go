package parser

import (
	"ldsim/internal/devices"
	"ldsim/internal/token"
)

// parseSwitchStmt: "SWITCH" sw_decl ("," sw_decl)* ";"
// sw_decl: NAME [loop] "=" BIT
func (p *Parser) parseSwitchStmt() {
	p.advance() // SWITCH
	for {
		ids, line, col, ok := p.deviceNameList()
		if !ok {
			return
		}
		if !p.expect(token.Equals, p.Errors.Syntax.MissingEquals) {
			return
		}
		if p.cur.Kind != token.Number || (p.cur.Value != 0 && p.cur.Value != 1) {
			p.reportSyntax(p.Errors.Syntax.NotBinaryDigit)
			return
		}
		bit := p.cur.Value
		p.advance()

		for _, id := range ids {
			id := id
			p.holders = append(p.holders, func() {
				code := p.Devices.MakeDevice(id, devices.SWITCH, bit, true)
				if code != okCode {
					p.reportSemantic(code, line, col)
				}
			})
		}

		if p.cur.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.Semicolon, p.Errors.Syntax.MissingSemicolon)
}

// parseClockStmt: "CLOCK" c_decl ("," c_decl)* ";"
// c_decl: NAME [loop] "(" "PERIOD" "=" NUMBER ")"
func (p *Parser) parseClockStmt() {
	p.advance() // CLOCK
	for {
		ids, line, col, ok := p.deviceNameList()
		if !ok {
			return
		}
		if !p.expect(token.OpenParen, p.Errors.Syntax.MissingOpenParen) {
			return
		}
		if !p.expect(token.Period, p.Errors.Syntax.MissingPeriod) {
			return
		}
		if !p.expect(token.Equals, p.Errors.Syntax.MissingEquals) {
			return
		}
		if p.cur.Kind != token.Number {
			p.reportSyntax(p.Errors.Syntax.NotNumber)
			return
		}
		period := p.cur.Value
		p.advance()
		if !p.expect(token.CloseParen, p.Errors.Syntax.MissingCloseParen) {
			return
		}

		for _, id := range ids {
			id := id
			p.holders = append(p.holders, func() {
				code := p.Devices.MakeDevice(id, devices.CLOCK, period, true)
				if code != okCode {
					p.reportSemantic(code, line, col)
				}
			})
		}

		if p.cur.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.Semicolon, p.Errors.Syntax.MissingSemicolon)
}

// parseGateStmt: ("AND"|"OR"|"NAND"|"NOR") g_decl ("," g_decl)* ";"
// g_decl: NAME [loop] "(" "IN" "=" NUMBER ")"
func (p *Parser) parseGateStmt() {
	var kind devices.Kind
	switch p.cur.NameID {
	case p.kw["AND"]:
		kind = devices.AND
	case p.kw["OR"]:
		kind = devices.OR
	case p.kw["NAND"]:
		kind = devices.NAND
	case p.kw["NOR"]:
		kind = devices.NOR
	}
	p.advance()

	for {
		ids, line, col, ok := p.deviceNameList()
		if !ok {
			return
		}
		if !p.expect(token.OpenParen, p.Errors.Syntax.MissingOpenParen) {
			return
		}
		if !p.expect(token.In, p.Errors.Syntax.MissingIn) {
			return
		}
		if !p.expect(token.Equals, p.Errors.Syntax.MissingEquals) {
			return
		}
		if p.cur.Kind != token.Number {
			p.reportSyntax(p.Errors.Syntax.NotNumber)
			return
		}
		fanIn := p.cur.Value
		p.advance()
		if !p.expect(token.CloseParen, p.Errors.Syntax.MissingCloseParen) {
			return
		}

		for _, id := range ids {
			id, k := id, kind
			p.holders = append(p.holders, func() {
				code := p.Devices.MakeDevice(id, k, fanIn, true)
				if code != okCode {
					p.reportSemantic(code, line, col)
				}
			})
		}

		if p.cur.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.Semicolon, p.Errors.Syntax.MissingSemicolon)
}

// parseSimpleDeviceList handles XOR/NOT/DTYPE: KEYWORD NAME [loop]
// ("," NAME [loop])* ";" -- no property.
func (p *Parser) parseSimpleDeviceList(kind devices.Kind) {
	p.advance() // keyword
	for {
		ids, line, col, ok := p.deviceNameList()
		if !ok {
			return
		}
		for _, id := range ids {
			id := id
			p.holders = append(p.holders, func() {
				code := p.Devices.MakeDevice(id, kind, 0, false)
				if code != okCode {
					p.reportSemantic(code, line, col)
				}
			})
		}
		if p.cur.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.Semicolon, p.Errors.Syntax.MissingSemicolon)
}

// parseConnectStmt: "CONNECT" conn ("," conn)* ";"; conn: signame "->" signame
func (p *Parser) parseConnectStmt() {
	p.advance() // CONNECT
	for {
		srcDev, srcPort, srcHasPort, ok := p.signame()
		if !ok {
			return
		}
		line, col := p.cur.Line, p.cur.Column
		if !p.expect(token.Connection, p.Errors.Syntax.MissingConnection) {
			return
		}
		dstDev, dstPort, dstHasPort, ok := p.signame()
		if !ok {
			return
		}

		p.holders = append(p.holders, func() {
			p.applyConnect(srcDev, srcPort, srcHasPort, dstDev, dstPort, dstHasPort, line, col)
		})

		if p.cur.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.Semicolon, p.Errors.Syntax.MissingSemicolon)
}

// parseMonitorStmt: "MONITOR" signame ("," signame)* ";"
func (p *Parser) parseMonitorStmt() {
	p.advance() // MONITOR
	for {
		dev, port, hasPort, ok := p.signame()
		if !ok {
			return
		}
		line, col := p.cur.Line, p.cur.Column
		p.holders = append(p.holders, func() {
			p.applyMonitor(dev, port, hasPort, line, col)
		})
		if p.cur.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.Semicolon, p.Errors.Syntax.MissingSemicolon)
}

// parseCircuitStmt: "CIRCUIT" NAME "{" circ_body "}"
func (p *Parser) parseCircuitStmt() {
	p.advance() // CIRCUIT
	if p.cur.Kind != token.Name {
		p.reportSyntax(p.Errors.Syntax.NotName)
		p.skipToStopSymbol()
		return
	}
	circuitName, _ := p.names.Stringify(p.cur.NameID)
	circuitID := p.names.Intern(circuitName)[0]
	line, col := p.cur.Line, p.cur.Column
	p.advance()

	if !p.expect(token.OpenBrace, p.Errors.Syntax.MissingOpenBrace) {
		return
	}

	// Registered immediately (not as a holder): the nested INPUT/OUTPUT
	// statements need a live template to populate as they parse.
	_, code := p.Devices.MakeCircuit(circuitID)
	if code != okCode {
		p.reportSemantic(code, line, col)
	}

	savedPrefix := p.circuitPrefix
	p.circuitPrefix = circuitName
	for p.cur.Kind != token.CloseBrace && p.cur.Kind != token.Eof {
		p.parseOneStatement(true)
	}
	p.circuitPrefix = savedPrefix

	p.expect(token.CloseBrace, p.Errors.Syntax.MissingCloseBrace)
}

// parseInputStmt: "INPUT" NAME "=" signame ("," NAME "=" signame)* ";"
// Each NAME=signame clause appends one more inner fan-out target to
// that declared port; the same NAME may recur (in this statement or a
// later one) to add further targets (spec.md §4.6, §6 grammar).
func (p *Parser) parseInputStmt() {
	p.advance() // INPUT
	circuitName := p.circuitPrefix
	for {
		if p.cur.Kind != token.Name {
			p.reportSyntax(p.Errors.Syntax.NotName)
			p.skipToStopSymbol()
			return
		}
		portName, _ := p.names.Stringify(p.cur.NameID)
		line, col := p.cur.Line, p.cur.Column
		p.advance()
		if !p.expect(token.Equals, p.Errors.Syntax.MissingEquals) {
			return
		}
		dev, port, hasPort, ok := p.signame()
		if !ok {
			return
		}
		p.holders = append(p.holders, func() {
			p.applyCircuitInput(circuitName, portName, dev, port, hasPort, line, col)
		})

		if p.cur.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.Semicolon, p.Errors.Syntax.MissingSemicolon)
}

// parseOutputStmt: "OUTPUT" NAME "=" signame ("," NAME "=" signame)* ";"
// Each NAME=signame clause sets that declared port's single source,
// overwriting any earlier mapping for the same NAME.
func (p *Parser) parseOutputStmt() {
	p.advance() // OUTPUT
	circuitName := p.circuitPrefix
	for {
		if p.cur.Kind != token.Name {
			p.reportSyntax(p.Errors.Syntax.NotName)
			p.skipToStopSymbol()
			return
		}
		portName, _ := p.names.Stringify(p.cur.NameID)
		line, col := p.cur.Line, p.cur.Column
		p.advance()
		if !p.expect(token.Equals, p.Errors.Syntax.MissingEquals) {
			return
		}
		dev, port, hasPort, ok := p.signame()
		if !ok {
			return
		}
		p.holders = append(p.holders, func() {
			p.applyCircuitOutput(circuitName, portName, dev, port, hasPort, line, col)
		})

		if p.cur.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.Semicolon, p.Errors.Syntax.MissingSemicolon)
}
