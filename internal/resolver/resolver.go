// Package resolver implements Grib's semantic analysis pass: it walks
// a freshly parsed *ast.Program in place, rewriting every identifier
// reference into a stack or static reference, classifying which
// locals must be promoted to heap cells because a lambda captures
// them, and computing the allocation counters the evaluator uses to
// keep the runtime stack balanced across blocks, loops, and function
// calls.
//
// A resolver is single-use: construct one with New, call Resolve once,
// and inspect the returned diagnostics bag.
package resolver

import (
	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/intern"
	"github.com/cwbudde/grib/internal/token"
)

// Resolver holds the mutable state threaded through one resolution
// pass. Nothing here is safe for concurrent or repeated use.
type Resolver struct {
	prog    *ast.Program
	strings *intern.Table
	diags   *diag.Bag

	scope     *blockScope
	global    *blockScope // level 0: procedures and imports only
	funcStack []*funcCtx
	loopStack []*loopCtx
}

// New creates a Resolver for prog. The program must already carry its
// string interner (set by the parser).
func New(prog *ast.Program) *Resolver {
	return &Resolver{
		prog:    prog,
		strings: prog.Strings,
		diags:   &diag.Bag{},
	}
}

// Resolve runs the full two-phase analysis: registering top-level
// names, then walking procedure bodies, the top-level block, and every
// lambda/closure body reached along the way. It returns the bag of
// diagnostics accumulated; a non-empty bag means the program must not
// be executed.
func (r *Resolver) Resolve() *diag.Bag {
	r.global = newBlockScope(nil)

	r.registerImports()
	r.registerTopLevelProcedures()

	for _, proc := range r.prog.Procedures {
		r.resolveProcedure(proc)
	}

	topScope := newBlockScope(r.global)
	r.scope = topScope
	moduleFrame := &funcCtx{isModule: true}
	r.funcStack = append(r.funcStack, moduleFrame)
	r.prog.Body.Allocations = r.resolveStmtList(r.prog.Body.Stmts)
	r.finishFrame(moduleFrame)
	r.funcStack = r.funcStack[:len(r.funcStack)-1]

	return r.diags
}

func (r *Resolver) errorf(kind diag.Kind, pos token.Position, format string, args ...any) {
	r.diags.Addf(diag.StageResolve, kind, pos, format, args...)
}

func (r *Resolver) name(id intern.ID) string { return r.strings.Lookup(id) }

// currentFunc returns the innermost active function/lambda/module
// frame. Resolve always keeps at least one frame pushed while walking
// a body, so this is only nil before Resolve starts.
func (r *Resolver) currentFunc() *funcCtx {
	if len(r.funcStack) == 0 {
		return nil
	}
	return r.funcStack[len(r.funcStack)-1]
}

// inRealFunction reports whether the innermost enclosing frame is an
// actual procedure or lambda body, as opposed to the synthetic
// top-level module frame — this gates `return`.
func (r *Resolver) inRealFunction() bool {
	for i := len(r.funcStack) - 1; i >= 0; i-- {
		if !r.funcStack[i].isModule {
			return true
		}
	}
	return false
}
