package resolver

import (
	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/token"
)

// resolveExprInPlace resolves *slot and overwrites it with the
// replacement node when resolution rewrites the expression (an
// Identifier becoming a StackRef/StaticRef, or a LambdaRef's target
// body being resolved in place without changing the node itself).
func (r *Resolver) resolveExprInPlace(slot *ast.Expr) {
	switch n := (*slot).(type) {
	case *ast.NilLit, *ast.BoolLit, *ast.NumberLit, *ast.StringLit:
		// already fully resolved; nothing references an outer scope

	case *ast.Identifier:
		*slot = r.resolveIdentifierUse(n)

	case *ast.ThisExpr:
		if fc := r.currentFunc(); fc == nil || !fc.isLambda {
			r.errorf(diag.KindInvalidThis, n.P, "'this' used outside a lambda body")
		}

	case *ast.LambdaRef:
		r.resolveLambda(n.Index)

	case *ast.BinaryExpr:
		r.resolveExprInPlace(&n.Left)
		r.resolveExprInPlace(&n.Right)

	case *ast.UnaryExpr:
		r.resolveExprInPlace(&n.X)

	case *ast.AssignExpr:
		r.resolveAssignExpr(n)

	case *ast.IndexExpr:
		r.resolveExprInPlace(&n.X)
		r.resolveExprInPlace(&n.Index)

	case *ast.PropertyExpr:
		r.resolveExprInPlace(&n.X)

	case *ast.ArrayLit:
		for i := range n.Elements {
			r.resolveExprInPlace(&n.Elements[i])
		}

	case *ast.HashLit:
		r.resolveHashLit(n)

	case *ast.CallExpr:
		r.resolveExprInPlace(&n.Callee)
		for i := range n.Args {
			r.resolveExprInPlace(&n.Args[i])
		}

	default:
		panic("resolver: unhandled expression type")
	}
}

func (r *Resolver) resolveAssignExpr(n *ast.AssignExpr) {
	switch target := n.Target.(type) {
	case *ast.Identifier:
		n.Target = r.resolveAssignTarget(target)
	case *ast.IndexExpr:
		r.resolveExprInPlace(&target.X)
		r.resolveExprInPlace(&target.Index)
	case *ast.PropertyExpr:
		r.resolveExprInPlace(&target.X)
	default:
		r.errorf(diag.KindInvalidLeftExpression, n.P, "invalid assignment target")
	}
	r.resolveExprInPlace(&n.Value)
}

func (r *Resolver) resolveHashLit(n *ast.HashLit) {
	for _, entry := range n.Entries {
		switch entry.Kind {
		case ast.AccessValue:
			r.resolveExprInPlace(&entry.Value)
		case ast.AccessAccessor:
			if entry.Get != nil {
				r.resolveAccessFunc(entry.Get, false)
			}
			if entry.Set != nil {
				r.resolveAccessFunc(entry.Set, true)
			}
		}
	}
}

// resolveAccessFunc resolves one getter/setter clause: a bare
// identifier promotes that enclosing variable to a captured cell,
// while an inline block resolves as a nested closure with its own
// capture set.
func (r *Resolver) resolveAccessFunc(af *ast.AccessFunc, isSetter bool) {
	switch af.FKind {
	case ast.AccessFuncCaptured:
		b := r.lookup(af.Name)
		if b == nil {
			r.errorf(diag.KindIdentifierNotFound, af.P, "%q is not defined", r.name(af.Name))
			return
		}
		if !b.kind.isLocal() {
			r.errorf(diag.KindInvalidLeftExpression, af.P, "%q cannot be captured by an accessor", r.name(af.Name))
			return
		}
		if isSetter && (b.kind == bindImmutable || b.kind == bindParam) {
			r.errorf(diag.KindImmutableModification, af.P, "setter source %q is immutable", r.name(af.Name))
		}
		af.Pointer = r.useAccessorCapture(b)

	case ast.AccessFuncClosure:
		r.resolveClosure(af.ClosureID, isSetter)
	}
}

// resolveLambda resolves one Program.Lambdas entry in its own frame,
// nested lexically where the LambdaRef expression appeared, then
// records the capture set the body accumulated.
func (r *Resolver) resolveLambda(idx int) {
	lam := r.prog.Lambdas[idx]
	r.resolveFunctionLike(&lam.Params, lam.Body, lam.P, func(entries []ast.CaptureEntry) {
		lam.Captures = entries
	})
}

func (r *Resolver) resolveClosure(idx int, isSetter bool) {
	var closure *ast.Closure
	if isSetter {
		closure = r.prog.Setters[idx]
	} else {
		closure = r.prog.Getters[idx]
	}
	r.resolveFunctionLike(&closure.Params, closure.Body, closure.P, func(entries []ast.CaptureEntry) {
		closure.Captures = entries
	})
}

// resolveFunctionLike resolves the shared shape of a lambda and a
// closure: a fresh frame nested in the current lexical scope, its
// parameters, and its block-or-expression body, finishing with the
// frame's accumulated capture set handed to store.
func (r *Resolver) resolveFunctionLike(params *ast.ParamList, body *ast.LambdaBody, pos token.Position, store func([]ast.CaptureEntry)) {
	outerScope := r.scope
	r.scope = newBlockScope(outerScope)
	fc := &funcCtx{isLambda: true}
	r.funcStack = append(r.funcStack, fc)

	r.bindParams(params, pos)
	if body.Block != nil {
		body.Block.Allocations = r.resolveStmtList(body.Block.Stmts)
	} else {
		r.resolveExprInPlace(&body.Expr)
	}

	r.finishFrame(fc)
	store(fc.captureEntries())

	r.funcStack = r.funcStack[:len(r.funcStack)-1]
	r.scope = outerScope
}
