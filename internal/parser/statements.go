package parser

import (
	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/token"
)

func (p *Parser) parseBlock() *ast.Block {
	pos := p.cur.Pos
	blk := &ast.Block{P: pos}
	if !p.expect(token.LBRACE) {
		return blk
	}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			blk.Stmts = append(blk.Stmts, stmt)
		}
	}
	p.expect(token.RBRACE)
	return blk
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Kind {
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.DECL, token.IM:
		return p.parseDecl()
	case token.BREAK:
		return p.parseControlFlow(ast.CFBreak)
	case token.CONTINUE:
		return p.parseControlFlow(ast.CFContinue)
	case token.RETURN:
		return p.parseControlFlow(ast.CFReturn)
	case token.PROC, token.PUBLIC:
		pos := p.cur.Pos
		proc := p.parseProcedure()
		if proc == nil {
			return nil
		}
		return &ast.ProcDeclStmt{P: pos, Proc: proc}
	case token.SEMI:
		p.next()
		return nil
	default:
		pos := p.cur.Pos
		x := p.parseExpr()
		p.expect(token.SEMI)
		return &ast.ExprStmt{P: pos, X: x}
	}
}

func (p *Parser) parseIf() *ast.IfStmt {
	pos := p.cur.Pos
	p.next() // 'if'
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	then := p.parseBlock()

	stmt := &ast.IfStmt{P: pos, Cond: cond, Then: then}
	for p.curIs(token.ELSE) && p.peekIs(token.IF) {
		p.next() // 'else'
		p.next() // 'if'
		p.expect(token.LPAREN)
		c := p.parseExpr()
		p.expect(token.RPAREN)
		b := p.parseBlock()
		stmt.ElseIfs = append(stmt.ElseIfs, &ast.ElseIf{Cond: c, Body: b})
	}
	if p.curIs(token.ELSE) {
		p.next()
		stmt.Else = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	pos := p.cur.Pos
	p.next()
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.WhileStmt{P: pos, Cond: cond, Body: body}
}

func (p *Parser) parseFor() *ast.ForStmt {
	pos := p.cur.Pos
	p.next()
	p.expect(token.LPAREN)

	stmt := &ast.ForStmt{P: pos}
	if !p.curIs(token.SEMI) {
		stmt.Init = p.parseDeclNoSemi()
	}
	p.expect(token.SEMI)

	if !p.curIs(token.SEMI) {
		stmt.Cond = p.parseExpr()
	}
	p.expect(token.SEMI)

	if !p.curIs(token.RPAREN) {
		stmt.Step = p.parseExpr()
	}
	p.expect(token.RPAREN)

	stmt.Body = p.parseBlock()
	return stmt
}

func (p *Parser) parseDecl() *ast.DeclStmt {
	d := p.parseDeclNoSemi()
	p.expect(token.SEMI)
	return d
}

func (p *Parser) parseDeclNoSemi() *ast.DeclStmt {
	pos := p.cur.Pos
	mutable := p.curIs(token.DECL)
	p.next() // consume 'decl' or 'im'

	d := &ast.DeclStmt{P: pos, Mutable: mutable}
	for {
		if !p.curIs(token.IDENT) {
			p.errorf(diag.KindParse, "expected identifier in declaration")
			break
		}
		name := p.intern(p.cur.Literal)
		p.next()
		var init ast.Expr
		if p.curIs(token.ASSIGN) {
			p.next()
			init = p.parseExpr()
		} else {
			init = &ast.NilLit{P: p.cur.Pos}
		}
		d.Decls = append(d.Decls, &ast.Declarator{Name: name, Init: init})
		if !p.curIs(token.COMMA) {
			break
		}
		p.next()
	}
	return d
}

func (p *Parser) parseControlFlow(kind ast.ControlFlowKind) *ast.ControlFlowStmt {
	pos := p.cur.Pos
	p.next() // consume keyword
	stmt := &ast.ControlFlowStmt{P: pos, Kind: kind}
	if kind == ast.CFReturn && !p.curIs(token.SEMI) {
		stmt.Value = p.parseExpr()
	}
	p.expect(token.SEMI)
	return stmt
}
