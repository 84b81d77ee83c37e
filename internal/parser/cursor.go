// Package parser turns a token stream into Grib's unresolved syntax
// tree, in the recursive-descent style used throughout this codebase.
package parser

import (
	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/intern"
	"github.com/cwbudde/grib/internal/lexer"
	"github.com/cwbudde/grib/internal/token"
)

// ModuleLoader loads and parses a custom-module source file referenced
// by an `import ... from "path"` clause that doesn't name a native
// package.
type ModuleLoader func(path string) (*ast.Module, error)

// Parser is a single-pass recursive-descent parser with one token of
// lookahead.
type Parser struct {
	l       *lexer.Lexer
	strings *intern.Table
	file    string
	loader  ModuleLoader

	cur  token.Token
	peek token.Token

	diags        *diag.Bag
	lexErrSynced int

	lambdas []*ast.Lambda
	getters []*ast.Closure
	setters []*ast.Closure
}

// New creates a Parser over src. strings is the shared interner; file
// is used in diagnostics. loader (may be nil) resolves non-native
// import paths into parsed modules.
func New(src, file string, strings *intern.Table, loader ModuleLoader) *Parser {
	p := &Parser{
		l:       lexer.New(src),
		strings: strings,
		file:    file,
		loader:  loader,
		diags:   &diag.Bag{},
	}
	p.next()
	p.next()
	p.syncLexErrors()
	return p
}

// syncLexErrors copies any lexical errors the underlying lexer has
// accumulated since the last sync into diags. The lexer is driven
// lazily (one token ahead of the parser's cursor), so errors can
// surface at any point during parsing, not just at construction.
func (p *Parser) syncLexErrors() {
	errs := p.l.Errors()
	for _, le := range errs[p.lexErrSynced:] {
		p.diags.Add(&diag.Diagnostic{Stage: diag.StageLex, Kind: diag.KindLexical, Pos: le.Pos, File: p.file, Message: le.Message})
	}
	p.lexErrSynced = len(errs)
}

// Diagnostics returns accumulated lexical+parse diagnostics.
func (p *Parser) Diagnostics() *diag.Bag {
	p.syncLexErrors()
	return p.diags
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

// expect consumes cur if it matches k, reporting a parse error and
// returning false otherwise (caller should stop trying to extend the
// current construct).
func (p *Parser) expect(k token.Kind) bool {
	if p.curIs(k) {
		p.next()
		return true
	}
	p.errorf(diag.KindParse, "expected %s, found %s %q", k, p.cur.Kind, p.cur.Literal)
	return false
}

func (p *Parser) errorf(kind diag.Kind, format string, args ...any) {
	p.diags.Addf(diag.StageParse, kind, p.cur.Pos, format, args...)
}

func (p *Parser) intern(s string) intern.ID { return p.strings.Intern(s) }
