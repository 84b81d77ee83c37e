package parser

import (
	"os"
	"path/filepath"

	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/intern"
	"github.com/cwbudde/grib/internal/token"
)

// ParseModuleFile reads and parses a custom-module source file: a
// sequence of `import` clauses followed by `public`/private `proc`
// declarations, with no top-level executable statements. baseDir
// resolves relative import paths found inside the module, recursively.
func ParseModuleFile(path string, strings *intern.Table) (*ast.Module, *diag.Bag) {
	content, err := os.ReadFile(path)
	bag := &diag.Bag{}
	if err != nil {
		bag.Addf(diag.StageParse, diag.KindModuleLoadFailure, token.Position{}, "cannot read module %q: %v", path, err)
		return nil, bag
	}

	baseDir := filepath.Dir(path)
	loader := func(rel string) (*ast.Module, error) {
		full := filepath.Join(baseDir, rel)
		mod, sub := ParseModuleFile(full, strings)
		bag.Merge(sub)
		return mod, nil
	}

	p := New(string(content), path, strings, loader)
	mod := &ast.Module{Path: path, Name: filepath.Base(path)}

	for !p.curIs(token.EOF) {
		switch {
		case p.curIs(token.IMPORT):
			if imp := p.parseImport(); imp != nil {
				imp.Module = p.resolveImportModule(imp)
				mod.Imports = append(mod.Imports, imp)
			}
		case p.curIs(token.PUBLIC) || p.curIs(token.PROC):
			proc := p.parseProcedure()
			if proc == nil {
				continue
			}
			if proc.Public {
				mod.Public = append(mod.Public, proc)
			} else {
				mod.Private = append(mod.Private, proc)
			}
		default:
			p.errorf(diag.KindParse, "unexpected top-level statement in module %q", path)
			p.next()
		}
	}

	mod.Lambdas = p.lambdas
	mod.Getters = p.getters
	mod.Setters = p.setters

	bag.Merge(p.Diagnostics())
	return mod, bag
}
