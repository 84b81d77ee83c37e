package parser

import (
	"strconv"

	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/token"
)

var compoundOps = map[token.Kind]token.Kind{
	token.PLUS_EQ:    token.PLUS,
	token.MINUS_EQ:   token.MINUS,
	token.STAR_EQ:    token.STAR,
	token.SLASH_EQ:   token.SLASH,
	token.PERCENT_EQ: token.PERCENT,
}

func (p *Parser) parseExpr() ast.Expr { return p.parseAssign() }

func (p *Parser) parseAssign() ast.Expr {
	left := p.parseOr()

	if p.curIs(token.ASSIGN) {
		pos := p.cur.Pos
		p.next()
		value := p.parseAssign()
		return &ast.AssignExpr{P: pos, Target: left, Value: value}
	}
	if op, ok := compoundOps[p.cur.Kind]; ok {
		pos := p.cur.Pos
		p.next()
		value := p.parseAssign()
		return &ast.AssignExpr{P: pos, Target: left, Value: value, CompoundOp: op}
	}
	return left
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.curIs(token.OR) {
		pos := p.cur.Pos
		p.next()
		right := p.parseAnd()
		left = &ast.BinaryExpr{P: pos, Op: token.OR, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.curIs(token.AND) {
		pos := p.cur.Pos
		p.next()
		right := p.parseEquality()
		left = &ast.BinaryExpr{P: pos, Op: token.AND, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for p.curIs(token.EQ) || p.curIs(token.NEQ) {
		op := p.cur.Kind
		pos := p.cur.Pos
		p.next()
		right := p.parseRelational()
		left = &ast.BinaryExpr{P: pos, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseAdditive()
	for p.curIs(token.LT) || p.curIs(token.GT) || p.curIs(token.LE) || p.curIs(token.GE) {
		op := p.cur.Kind
		pos := p.cur.Pos
		p.next()
		right := p.parseAdditive()
		left = &ast.BinaryExpr{P: pos, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.curIs(token.PLUS) || p.curIs(token.MINUS) {
		op := p.cur.Kind
		pos := p.cur.Pos
		p.next()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{P: pos, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.curIs(token.STAR) || p.curIs(token.SLASH) || p.curIs(token.PERCENT) {
		op := p.cur.Kind
		pos := p.cur.Pos
		p.next()
		right := p.parseUnary()
		left = &ast.BinaryExpr{P: pos, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.curIs(token.NOT) || p.curIs(token.MINUS) {
		op := p.cur.Kind
		pos := p.cur.Pos
		p.next()
		x := p.parseUnary()
		return &ast.UnaryExpr{P: pos, Op: op, X: x}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.cur.Kind {
		case token.LPAREN:
			x = p.parseCall(x)
		case token.LBRACKET:
			pos := p.cur.Pos
			p.next()
			idx := p.parseExpr()
			p.expect(token.RBRACKET)
			x = &ast.IndexExpr{P: pos, X: x, Index: idx}
		case token.DOT:
			pos := p.cur.Pos
			p.next()
			if !p.curIs(token.IDENT) {
				p.errorf(diag.KindParse, "expected property name after '.'")
				return x
			}
			name := p.intern(p.cur.Literal)
			p.next()
			x = &ast.PropertyExpr{P: pos, X: x, Name: name}
		default:
			return x
		}
	}
}

func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.next() // '('
	var args []ast.Expr
	if !p.curIs(token.RPAREN) {
		for {
			args = append(args, p.parseExpr())
			if !p.curIs(token.COMMA) {
				break
			}
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return &ast.CallExpr{P: pos, Callee: callee, Args: args}
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.cur.Pos
	switch p.cur.Kind {
	case token.NIL:
		p.next()
		return &ast.NilLit{P: pos}
	case token.TRUE:
		p.next()
		return &ast.BoolLit{P: pos, Value: true}
	case token.FALSE:
		p.next()
		return &ast.BoolLit{P: pos, Value: false}
	case token.THIS:
		p.next()
		return &ast.ThisExpr{P: pos}
	case token.NUMBER:
		lit := p.cur.Literal
		p.next()
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			p.diags.Addf(diag.StageLex, diag.KindLexical, pos, "invalid number literal %q", lit)
		}
		return &ast.NumberLit{P: pos, Value: v}
	case token.STRING:
		idx := p.intern(p.cur.Literal)
		p.next()
		return &ast.StringLit{P: pos, Index: idx}
	case token.IDENT:
		name := p.intern(p.cur.Literal)
		p.next()
		return &ast.Identifier{P: pos, Name: name}
	case token.LPAREN:
		p.next()
		x := p.parseExpr()
		p.expect(token.RPAREN)
		return x
	case token.LBRACKET:
		return p.parseArrayLit()
	case token.HASH_LBRACE:
		return p.parseHashLit(false)
	case token.DOLLAR_LBRACE:
		return p.parseHashLit(true)
	case token.LAM:
		return p.parseLambdaLit()
	default:
		p.errorf(diag.KindParse, "unexpected token %s %q", p.cur.Kind, p.cur.Literal)
		tok := p.cur
		p.next()
		return &ast.NilLit{P: tok.Pos}
	}
}

func (p *Parser) parseArrayLit() ast.Expr {
	pos := p.cur.Pos
	p.next() // '['
	lit := &ast.ArrayLit{P: pos}
	if !p.curIs(token.RBRACKET) {
		for {
			lit.Elements = append(lit.Elements, p.parseExpr())
			if !p.curIs(token.COMMA) {
				break
			}
			p.next()
		}
	}
	p.expect(token.RBRACKET)
	return lit
}
