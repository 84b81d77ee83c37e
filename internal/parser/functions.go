package parser

import (
	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/token"
)

func (p *Parser) parseProcedure() *ast.Procedure {
	pos := p.cur.Pos
	public := false
	if p.curIs(token.PUBLIC) {
		public = true
		p.next()
		if !p.curIs(token.PROC) {
			p.errorf(diag.KindParse, "expected 'proc' after 'public'")
			return nil
		}
	}
	p.next() // consume 'proc'

	if !p.curIs(token.IDENT) {
		p.errorf(diag.KindParse, "expected procedure name")
		return nil
	}
	name := p.intern(p.cur.Literal)
	p.next()

	if !p.expect(token.LPAREN) {
		return nil
	}
	params := p.parseParamList(token.RPAREN)
	p.expect(token.RPAREN)

	body := p.parseBlock()
	return &ast.Procedure{P: pos, Name: name, Params: params, Body: body, Public: public}
}

// parseParamList parses a comma-separated parameter list up to (not
// consuming) the closing token. A parameter prefixed with `...` is the
// variadic tail and must be last.
func (p *Parser) parseParamList(closing token.Kind) ast.ParamList {
	var pl ast.ParamList
	if p.curIs(closing) {
		return pl
	}
	for {
		variadic := false
		if p.curIs(token.ELLIPSIS) {
			variadic = true
			p.next()
		}
		if !p.curIs(token.IDENT) {
			p.errorf(diag.KindParse, "expected parameter name")
			break
		}
		param := ast.Param{Name: p.intern(p.cur.Literal)}
		p.next()
		if variadic {
			if pl.Variadic != nil {
				p.errorf(diag.KindParse, "multiple variadic parameters")
			}
			pl.Variadic = &param
		} else {
			if pl.Variadic != nil {
				p.errorf(diag.KindParse, "parameter after variadic parameter")
			}
			pl.Params = append(pl.Params, param)
		}
		if !p.curIs(token.COMMA) {
			break
		}
		p.next()
	}
	return pl
}

// parsePipeParamList parses `||` or `|a, b, ...c|` lambda parameter
// syntax.
func (p *Parser) parsePipeParamList() ast.ParamList {
	if p.curIs(token.OR) {
		p.next() // `||` lexes as a single OR token
		return ast.ParamList{}
	}
	if !p.expect(token.PIPE) {
		return ast.ParamList{}
	}
	pl := p.parseParamList(token.PIPE)
	p.expect(token.PIPE)
	return pl
}

func (p *Parser) parseLambdaBody() *ast.LambdaBody {
	if p.curIs(token.LBRACE) {
		return &ast.LambdaBody{Block: p.parseBlock()}
	}
	return &ast.LambdaBody{Expr: p.parseExpr()}
}

func (p *Parser) parseLambdaLit() ast.Expr {
	pos := p.cur.Pos
	p.next() // consume 'lam'
	params := p.parsePipeParamList()
	body := p.parseLambdaBody()
	idx := len(p.lambdas)
	p.lambdas = append(p.lambdas, &ast.Lambda{P: pos, Params: params, Body: body})
	return &ast.LambdaRef{P: pos, Index: idx}
}
