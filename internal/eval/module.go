package eval

import (
	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/intern"
	"github.com/cwbudde/grib/internal/resolver"
)

// buildModuleRegistry walks every import reachable from prog — and
// transitively, every import reachable from the custom modules those
// imports load — collecting each *ast.Module by its canonical path.
// A *ast.StaticRef that names a custom module (Module field) is
// resolved against this map rather than re-walking the import tree at
// call time.
func buildModuleRegistry(prog *ast.Program) map[string]*ast.Module {
	reg := make(map[string]*ast.Module)
	walkImports(prog.Imports, reg)
	return reg
}

// buildModuleProcedures precomputes, for every registered module, the
// same public-then-private procedure ordering resolver.ResolveModule
// assigned ProcIdx values against, so StaticTopLevelFunc/StaticImportedFunc
// references into a module index straight into it.
func buildModuleProcedures(modules map[string]*ast.Module) map[string][]*ast.Procedure {
	procs := make(map[string][]*ast.Procedure, len(modules))
	for path, mod := range modules {
		procs[path] = resolver.ModuleProcedures(mod)
	}
	return procs
}

func walkImports(imports []*ast.Import, reg map[string]*ast.Module) {
	for _, imp := range imports {
		if imp.IsNative || imp.Module == nil {
			continue
		}
		if _, seen := reg[imp.Path]; seen {
			continue
		}
		reg[imp.Path] = imp.Module
		walkImports(imp.Module.Imports, reg)
	}
}

// findPublicProc returns the index of mod's public procedure named
// name and true, or (0, false) if none exports that name. The index
// doubles as that procedure's position in resolver.ModuleProcedures's
// ordering, since Public always comes first.
func findPublicProc(mod *ast.Module, name string, strings *intern.Table) (int, bool) {
	for i, proc := range mod.Public {
		if strings.Lookup(proc.Name) == name {
			return i, true
		}
	}
	return 0, false
}
