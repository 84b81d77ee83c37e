package resolver

import (
	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/intern"
)

// ResolveModule resolves a custom module's procedures the same way a
// top-level program's procedures are resolved: each gets a fresh frame
// rooted at the module's own global scope (its imports and sibling
// procedures), never a top-level block. ModuleProcedures returns the
// exact (public-then-private) ordering ResolveModule assigned ProcIdx
// values against, so a caller compiling the module for evaluation can
// index into the same slice a resolved *ast.StaticRef.ProcIdx refers to.
func ResolveModule(mod *ast.Module, strings *intern.Table) *diag.Bag {
	r := New(&ast.Program{
		Strings:    strings,
		Imports:    mod.Imports,
		Procedures: ModuleProcedures(mod),
		Lambdas:    mod.Lambdas,
		Getters:    mod.Getters,
		Setters:    mod.Setters,
		Body:       &ast.Block{},
	})
	return r.Resolve()
}

// ModuleProcedures returns mod's procedures in the fixed public-then-
// private order ResolveModule resolves them in and StaticRef.ProcIdx
// values index into.
func ModuleProcedures(mod *ast.Module) []*ast.Procedure {
	procs := make([]*ast.Procedure, 0, len(mod.Public)+len(mod.Private))
	procs = append(procs, mod.Public...)
	procs = append(procs, mod.Private...)
	return procs
}
