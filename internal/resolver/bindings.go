package resolver

import (
	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/intern"
	"github.com/cwbudde/grib/internal/token"
)

// declareLocal binds name as a new local (mutable, immutable, or
// parameter) in the current block scope and assigns it the next free
// stack position in the current function frame. It reports
// InvalidRedefinition on a same-block collision that isn't an import.
func (r *Resolver) declareLocal(name intern.ID, kind bindKind, pos token.Position) *binding {
	fc := r.currentFunc()
	b := &binding{
		name:         name,
		kind:         kind,
		level:        r.scope.level,
		stackPos:     fc.depth,
		ownerFuncIdx: len(r.funcStack) - 1,
	}
	if prev, redef := r.scope.declareHere(b); redef {
		r.errorf(diag.KindInvalidRedefinition, pos, "%q is already declared in this block", r.name(prev.name))
	}
	fc.depth++
	return b
}

// lookup finds name's nearest binding, first in the current lexical
// scope chain and, failing that, in the module-global scope (top-level
// procedures and imports).
func (r *Resolver) lookup(name intern.ID) *binding {
	if b := r.scope.lookup(name); b != nil {
		return b
	}
	return r.global.lookup(name)
}

// resolveIdentifierUse looks up id and returns its replacement node: a
// *ast.StackRef for a local/parameter (propagating a capture through
// every enclosing lambda frame between its owner and here), or a
// *ast.StaticRef for a top-level procedure or import. On failure it
// reports IdentifierNotFound and returns a harmless nil literal so the
// tree stays well-formed for any further (doomed) analysis.
func (r *Resolver) resolveIdentifierUse(id *ast.Identifier) ast.Expr {
	b := r.lookup(id.Name)
	if b == nil {
		r.errorf(diag.KindIdentifierNotFound, id.P, "%q is not defined", r.name(id.Name))
		return &ast.NilLit{P: id.P}
	}
	if b.kind.isLocal() {
		return &ast.StackRef{P: id.P, Pointer: r.useLocal(b)}
	}
	return r.staticRefFor(b, id.P)
}

// resolveAssignTarget is like resolveIdentifierUse but additionally
// rejects assignment to an immutable binding.
func (r *Resolver) resolveAssignTarget(id *ast.Identifier) ast.Expr {
	b := r.lookup(id.Name)
	if b == nil {
		r.errorf(diag.KindIdentifierNotFound, id.P, "%q is not defined", r.name(id.Name))
		return &ast.NilLit{P: id.P}
	}
	if !b.kind.isLocal() {
		r.errorf(diag.KindInvalidLeftExpression, id.P, "cannot assign to %q", r.name(id.Name))
		return &ast.NilLit{P: id.P}
	}
	if b.kind == bindImmutable || b.kind == bindParam {
		r.errorf(diag.KindImmutableModification, id.P, "%q is immutable", r.name(id.Name))
	}
	return &ast.StackRef{P: id.P, Pointer: r.useLocal(b)}
}

func (r *Resolver) staticRefFor(b *binding, pos token.Position) *ast.StaticRef {
	switch b.kind {
	case bindTopLevelFunc:
		return &ast.StaticRef{P: pos, Kind: ast.StaticTopLevelFunc, Name: b.name, ProcIdx: b.procIdx}
	case bindImportedModule:
		return &ast.StaticRef{P: pos, Kind: ast.StaticImportedModule, Name: b.name, Module: b.module}
	case bindImportedNative:
		return &ast.StaticRef{P: pos, Kind: ast.StaticImportedNative, Name: b.name, Module: b.module}
	default: // bindImportedFunc
		return &ast.StaticRef{P: pos, Kind: ast.StaticImportedFunc, Name: b.name, Module: b.module}
	}
}

// useLocal resolves one reference to a local binding into a stack
// pointer relative to the currently active frame, threading a capture
// entry through every lambda frame after the binding's owner, up to
// and including the use site's own frame. The first lambda hop points directly at the
// owner's stack slot; every hop after that points at the previous
// lambda's own captured environment, keyed by the identifier itself —
// matching how the evaluator's captured-environment heap value is laid
// out (identifier index to captured-cell heap index).
func (r *Resolver) useLocal(b *binding) ast.StackPointer {
	ownerIdx := b.ownerFuncIdx
	currentIdx := len(r.funcStack) - 1
	if ownerIdx == currentIdx {
		return ast.StackPointer{Kind: ast.Offset, Index: b.stackPos}
	}
	b.captured = true
	return r.chainCapture(b, ownerIdx, currentIdx)
}

// useAccessorCapture resolves a hash accessor's bare-identifier form
// (`get ident` / `set ident`), which always promotes the referenced
// variable to a captured cell — even when the hash literal is built in
// the very frame that owns it — since the hash value, and the cell it
// points at, may outlive that frame.
func (r *Resolver) useAccessorCapture(b *binding) ast.StackPointer {
	b.captured = true
	ownerIdx := b.ownerFuncIdx
	currentIdx := len(r.funcStack) - 1
	if ownerIdx == currentIdx {
		return ast.StackPointer{Kind: ast.Offset, Index: b.stackPos}
	}
	return r.chainCapture(b, ownerIdx, currentIdx)
}

// chainCapture threads a capture entry for b through every lambda
// frame from ownerIdx+1 through currentIdx inclusive and returns the
// pointer the use site (at currentIdx) reads from.
func (r *Resolver) chainCapture(b *binding, ownerIdx, currentIdx int) ast.StackPointer {
	for i := ownerIdx + 1; i <= currentIdx; i++ {
		fc := r.funcStack[i]
		if fc.captures == nil {
			fc.captures = make(map[intern.ID]*captureInfo)
		}
		if _, ok := fc.captures[b.name]; ok {
			continue
		}
		src := sourcePointer{captured: true, index: int(b.name)}
		if i == ownerIdx+1 {
			src = sourcePointer{captured: false, index: b.stackPos}
		}
		fc.captures[b.name] = &captureInfo{source: src}
		fc.order = append(fc.order, b.name)
	}
	return ast.StackPointer{Kind: ast.Captured, Index: int(b.name)}
}

// captureEntries converts a funcCtx's accumulated capture set into the
// ordered slice stored on the Lambda/Closure AST record.
func (fc *funcCtx) captureEntries() []ast.CaptureEntry {
	if len(fc.order) == 0 {
		return nil
	}
	entries := make([]ast.CaptureEntry, len(fc.order))
	for i, name := range fc.order {
		info := fc.captures[name]
		kind := ast.Offset
		if info.source.captured {
			kind = ast.Captured
		}
		entries[i] = ast.CaptureEntry{Name: name, Source: ast.StackPointer{Kind: kind, Index: info.source.index}}
	}
	return entries
}
