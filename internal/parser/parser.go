package parser

import (
	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/token"
)

var nativePackages = map[string]bool{"console": true, "fmt": true, "math": true}

// ParseProgram parses a complete source file into a Program: leading
// import clauses, top-level `proc` declarations, and a trailing block
// of executable statements, in any interleaving.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Strings: p.strings, Body: &ast.Block{P: p.cur.Pos}}

	for !p.curIs(token.EOF) {
		switch {
		case p.curIs(token.IMPORT):
			if imp := p.parseImport(); imp != nil {
				imp.Module = p.resolveImportModule(imp)
				prog.Imports = append(prog.Imports, imp)
			}
		case p.curIs(token.PUBLIC) || p.curIs(token.PROC):
			if proc := p.parseProcedure(); proc != nil {
				prog.Procedures = append(prog.Procedures, proc)
			}
		default:
			if stmt := p.parseStatement(); stmt != nil {
				prog.Body.Stmts = append(prog.Body.Stmts, stmt)
			}
		}
	}

	prog.Lambdas = p.lambdas
	prog.Getters = p.getters
	prog.Setters = p.setters
	return prog
}

// resolveImportModule loads a non-native import's target file through
// the configured loader and returns the parsed module. It returns nil
// for native imports, when no loader is configured, and when loading
// fails (recording a ModuleLoadFailure diagnostic in that last case).
func (p *Parser) resolveImportModule(imp *ast.Import) *ast.Module {
	if imp.IsNative || p.loader == nil {
		return nil
	}
	mod, err := p.loader(imp.Path)
	if err != nil {
		p.diags.Addf(diag.StageParse, diag.KindModuleLoadFailure, imp.Pos(), "failed to load module %q: %v", imp.Path, err)
		return nil
	}
	return mod
}

func (p *Parser) parseImport() *ast.Import {
	pos := p.cur.Pos
	p.next() // consume 'import'

	imp := &ast.Import{P: pos}

	switch {
	case p.curIs(token.STAR):
		imp.Form = ast.ImportWildcard
		p.next()
	case p.curIs(token.PIPE):
		imp.Form = ast.ImportList
		p.next()
		if !p.curIs(token.PIPE) {
			for {
				if !p.curIs(token.IDENT) {
					p.errorf(diag.KindParse, "expected identifier in import list")
					break
				}
				imp.Names = append(imp.Names, p.intern(p.cur.Literal))
				p.next()
				if !p.curIs(token.COMMA) {
					break
				}
				p.next()
			}
		}
		p.expect(token.PIPE)
	case p.curIs(token.IDENT):
		imp.Form = ast.ImportWhole
		imp.Alias = p.intern(p.cur.Literal)
		p.next()
	default:
		p.errorf(diag.KindParse, "invalid import clause")
	}

	if !p.expect(token.FROM) {
		return imp
	}
	if !p.curIs(token.STRING) {
		p.errorf(diag.KindParse, "expected string path after 'from'")
		return imp
	}
	imp.Path = p.cur.Literal
	imp.IsNative = nativePackages[imp.Path]
	p.next()
	p.expect(token.SEMI)
	return imp
}
