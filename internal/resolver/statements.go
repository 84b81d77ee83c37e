package resolver

import (
	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/token"
)

// resolveProcedure resolves one top-level procedure body in its own,
// fresh frame rooted directly at the global scope: procedures are not
// closures, so they never see the top-level block's locals, only other
// procedures and imports.
func (r *Resolver) resolveProcedure(proc *ast.Procedure) {
	r.scope = newBlockScope(r.global)
	fc := &funcCtx{}
	r.funcStack = append(r.funcStack, fc)
	r.bindParams(&proc.Params, proc.P)
	proc.Body.Allocations = r.resolveStmtList(proc.Body.Stmts)
	r.finishFrame(fc)
	r.funcStack = r.funcStack[:len(r.funcStack)-1]
	r.scope = nil
}

// finishFrame runs every writeback queued for fc now that its body is
// fully resolved and no later statement can still add a capture.
func (r *Resolver) finishFrame(fc *funcCtx) {
	for _, wb := range fc.writebacks {
		wb()
	}
}

// bindParams declares every parameter (including a variadic tail, if
// present) as a local of the current frame, in order, and arranges for
// its final captured flag to be written back once the frame finishes.
func (r *Resolver) bindParams(pl *ast.ParamList, pos token.Position) {
	fc := r.currentFunc()
	for i := range pl.Params {
		p := &pl.Params[i]
		b := r.declareLocal(p.Name, bindParam, pos)
		fc.writebacks = append(fc.writebacks, func() { p.Captured = b.captured })
	}
	if pl.Variadic != nil {
		p := pl.Variadic
		b := r.declareLocal(p.Name, bindParam, pos)
		fc.writebacks = append(fc.writebacks, func() { p.Captured = b.captured })
	}
}

// resolveStmtList resolves stmts in place within the current scope and
// returns the number of direct declarators they contain (a block's or
// for-loop's allocations count).
func (r *Resolver) resolveStmtList(stmts []ast.Stmt) int {
	before := r.currentFunc().depth
	for _, s := range stmts {
		r.resolveStmt(s)
	}
	return r.currentFunc().depth - before
}

func (r *Resolver) resolveBlock(b *ast.Block) {
	r.scope = newBlockScope(r.scope)
	fc := r.currentFunc()
	baseDepth := fc.depth
	b.Allocations = r.resolveStmtList(b.Stmts)
	fc.depth = baseDepth // locals of a finished block free their stack positions
	r.scope = r.scope.parent
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		r.resolveBlock(n)
	case *ast.IfStmt:
		r.resolveExprInPlace(&n.Cond)
		r.resolveBlock(n.Then)
		for _, ei := range n.ElseIfs {
			r.resolveExprInPlace(&ei.Cond)
			r.resolveBlock(ei.Body)
		}
		if n.Else != nil {
			r.resolveBlock(n.Else)
		}
	case *ast.WhileStmt:
		r.resolveExprInPlace(&n.Cond)
		entryDepth := r.currentFunc().depth
		r.resolveLoopBody(n.Body, entryDepth, entryDepth)
	case *ast.ForStmt:
		r.resolveForStmt(n)
	case *ast.DeclStmt:
		r.resolveDecl(n)
	case *ast.ControlFlowStmt:
		r.resolveControlFlow(n)
	case *ast.ExprStmt:
		r.resolveExprInPlace(&n.X)
	case *ast.ProcDeclStmt:
		r.errorf(diag.KindFunctionNotAtTopLevel, n.Proc.P, "%q is declared outside module top level", r.name(n.Proc.Name))
	default:
		panic("resolver: unhandled statement type")
	}
}

// resolveLoopBody resolves a while/for body inside its own loop
// context so break/continue inside it see the right unwind depths.
func (r *Resolver) resolveLoopBody(body *ast.Block, breakDepth, continueDepth int) {
	r.loopStack = append(r.loopStack, &loopCtx{breakDepth: breakDepth, continueDepth: continueDepth})
	r.resolveBlock(body)
	r.loopStack = r.loopStack[:len(r.loopStack)-1]
}

func (r *Resolver) resolveForStmt(n *ast.ForStmt) {
	r.scope = newBlockScope(r.scope)
	fc := r.currentFunc()
	baseDepth := fc.depth

	if n.Init != nil {
		r.resolveDecl(n.Init)
	}
	n.Allocations = fc.depth - baseDepth
	afterInitDepth := fc.depth

	if n.Cond != nil {
		r.resolveExprInPlace(&n.Cond)
	}
	if n.Step != nil {
		r.resolveExprInPlace(&n.Step)
	}

	r.resolveLoopBody(n.Body, baseDepth, afterInitDepth)

	fc.depth = baseDepth
	r.scope = r.scope.parent
}

func (r *Resolver) resolveDecl(n *ast.DeclStmt) {
	fc := r.currentFunc()
	for _, d := range n.Decls {
		r.resolveExprInPlace(&d.Init)
		kind := bindMutable
		if !n.Mutable {
			kind = bindImmutable
		}
		b := r.declareLocal(d.Name, kind, n.P)
		d.StackPos = b.stackPos
		fc.writebacks = append(fc.writebacks, func() { d.Captured = b.captured })
	}
}

func (r *Resolver) resolveControlFlow(n *ast.ControlFlowStmt) {
	switch n.Kind {
	case ast.CFBreak, ast.CFContinue:
		if len(r.loopStack) == 0 {
			kind := diag.KindInvalidBreak
			if n.Kind == ast.CFContinue {
				kind = diag.KindInvalidContinue
			}
			r.errorf(kind, n.P, "not inside a loop")
			return
		}
		top := r.loopStack[len(r.loopStack)-1]
		target := top.breakDepth
		if n.Kind == ast.CFContinue {
			target = top.continueDepth
		}
		n.Allocations = r.currentFunc().depth - target
	case ast.CFReturn:
		if !r.inRealFunction() {
			r.errorf(diag.KindInvalidReturn, n.P, "not inside a function")
			return
		}
		if n.Value != nil {
			r.resolveExprInPlace(&n.Value)
		}
		n.Allocations = r.currentFunc().depth
	}
}
