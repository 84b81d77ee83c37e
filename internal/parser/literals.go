package parser

import (
	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/token"
)

// parseHashLit parses `#{ ... }` (mutable=false) or `${ ... }`
// (mutable=true) hash literals:
//
//	#{ k -> v, k2 { get ident, set |p| { ... } } }
func (p *Parser) parseHashLit(mutable bool) ast.Expr {
	pos := p.cur.Pos
	p.next() // '#{' or '${'

	lit := &ast.HashLit{P: pos, Mutable: mutable}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		entry := p.parseHashEntry()
		if entry != nil {
			lit.Entries = append(lit.Entries, entry)
		}
		if !p.curIs(token.COMMA) {
			break
		}
		p.next()
	}
	p.expect(token.RBRACE)
	return lit
}

func (p *Parser) parseHashEntry() *ast.HashEntry {
	if !p.curIs(token.IDENT) {
		p.errorf(diag.KindParse, "expected hash key")
		return nil
	}
	key := p.intern(p.cur.Literal)
	p.next()

	if p.curIs(token.ARROW) {
		p.next()
		value := p.parseExpr()
		return &ast.HashEntry{Key: key, Kind: ast.AccessValue, Value: value}
	}

	if p.curIs(token.LBRACE) {
		p.next()
		entry := &ast.HashEntry{Key: key, Kind: ast.AccessAccessor}
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			switch p.cur.Kind {
			case token.GET:
				p.next()
				entry.Get = p.parseAccessFunc(false)
			case token.SET:
				p.next()
				entry.Set = p.parseAccessFunc(true)
			default:
				p.errorf(diag.KindParse, "expected 'get' or 'set' in accessor block")
				p.next()
			}
			if p.curIs(token.COMMA) {
				p.next()
			}
		}
		p.expect(token.RBRACE)
		return entry
	}

	p.errorf(diag.KindParse, "expected '->' or '{' after hash key")
	return nil
}

// parseAccessFunc parses the body of a `get`/`set` clause: either a bare
// identifier naming a captured cell in the enclosing scope, or an
// inline `||`/`|p|` parameter list followed by a block, which the
// resolver turns into a nested closure.
func (p *Parser) parseAccessFunc(isSetter bool) *ast.AccessFunc {
	pos := p.cur.Pos
	if p.curIs(token.IDENT) {
		name := p.intern(p.cur.Literal)
		p.next()
		return &ast.AccessFunc{P: pos, FKind: ast.AccessFuncCaptured, Name: name}
	}

	params := p.parsePipeParamList()
	body := p.parseLambdaBody()
	closure := &ast.Closure{P: pos, Params: params, Body: body}

	var idx int
	if isSetter {
		idx = len(p.setters)
		p.setters = append(p.setters, closure)
	} else {
		idx = len(p.getters)
		p.getters = append(p.getters, closure)
	}
	return &ast.AccessFunc{P: pos, FKind: ast.AccessFuncClosure, ClosureID: idx}
}
