package resolver

import (
	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/token"
)

// nativeSymbols enumerates the callable names each built-in package
// exports, so `import |a, b| from "console";`-style named imports can
// be checked the same way a custom module's public procedures are.
var nativeSymbols = map[string]map[string]bool{
	"console": {"println": true, "print": true, "readln": true},
	"fmt":     {"toNum": true, "toStr": true, "toBool": true},
	"math": {
		"floor": true, "ceil": true, "round": true, "sqrt": true,
		"abs": true, "max": true, "min": true, "pow": true,
		"PI": true, "E": true,
	},
}

// registerImports binds every top-level import clause into the global
// scope, in source order, before any procedure body is walked.
func (r *Resolver) registerImports() {
	for _, imp := range r.prog.Imports {
		switch imp.Form {
		case ast.ImportWhole:
			kind := bindImportedModule
			if imp.IsNative {
				kind = bindImportedNative
			}
			r.declareGlobal(&binding{name: imp.Alias, kind: kind, module: imp.Path}, imp.P)

		case ast.ImportList:
			seen := make(map[string]bool, len(imp.Names))
			for _, n := range imp.Names {
				nameStr := r.name(n)
				if seen[nameStr] {
					r.errorf(diag.KindInvalidRedefinition, imp.P, "%q imported more than once", nameStr)
					continue
				}
				seen[nameStr] = true
				if !r.importedSymbolExists(imp, nameStr) {
					r.errorf(diag.KindIdentifierNotFound, imp.P, "%q is not exported by %q", nameStr, imp.Path)
					continue
				}
				r.declareGlobal(&binding{name: n, kind: bindImportedFunc, module: imp.Path}, imp.P)
			}

		case ast.ImportWildcard:
			if imp.IsNative {
				r.errorf(diag.KindParse, imp.P, "wildcard import is only valid for custom modules")
				continue
			}
			if imp.Module == nil {
				continue // load failure already reported by the parser
			}
			for _, proc := range imp.Module.Public {
				r.declareGlobal(&binding{name: proc.Name, kind: bindImportedFunc, module: imp.Path}, imp.P)
			}
		}
	}
}

func (r *Resolver) importedSymbolExists(imp *ast.Import, nameStr string) bool {
	if imp.IsNative {
		pkg, ok := nativeSymbols[imp.Path]
		return ok && pkg[nameStr]
	}
	if imp.Module == nil {
		return false // load failure already reported by the parser
	}
	for _, proc := range imp.Module.Public {
		if r.name(proc.Name) == nameStr {
			return true
		}
	}
	return false
}

// registerTopLevelProcedures binds every procedure declared at module
// top level into the global scope. A name collision is an
// InvalidRedefinition unless the prior entry is an import, which a
// same-named procedure is free to shadow.
func (r *Resolver) registerTopLevelProcedures() {
	for i, proc := range r.prog.Procedures {
		r.declareGlobal(&binding{name: proc.Name, kind: bindTopLevelFunc, procIdx: i}, proc.P)
	}
}

// declareGlobal installs b into the module-level scope, reporting
// InvalidRedefinition on a genuine (non-import) collision.
func (r *Resolver) declareGlobal(b *binding, pos token.Position) {
	if prev, redef := r.global.declareHere(b); redef {
		r.errorf(diag.KindInvalidRedefinition, pos, "%q is already defined", r.name(prev.name))
		return
	}
}
