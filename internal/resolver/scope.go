package resolver

import "github.com/cwbudde/grib/internal/intern"

// bindKind classifies what an identifier was introduced as.
type bindKind int

const (
	bindMutable bindKind = iota
	bindImmutable
	bindParam
	bindTopLevelFunc
	bindImportedFunc
	bindImportedModule
	bindImportedNative
)

func (k bindKind) isImport() bool {
	return k == bindImportedFunc || k == bindImportedModule || k == bindImportedNative
}

func (k bindKind) isLocal() bool {
	return k == bindMutable || k == bindImmutable || k == bindParam
}

// binding is one name's definition as seen by the resolver.
type binding struct {
	name     intern.ID
	kind     bindKind
	level    int  // lexical nesting depth at definition
	stackPos int  // frame-relative position, valid when kind.isLocal()
	captured bool // promoted to a heap cell because some lambda captures it

	// ownerFuncIdx is the index into the resolver's funcStack active when
	// this binding was declared, valid when kind.isLocal(). A use from a
	// deeper funcStack index is a capture; one from the same index is a
	// direct frame-relative reference.
	ownerFuncIdx int

	procIdx int    // index into Program.Procedures, valid for bindTopLevelFunc
	module  string // import path/package name, valid for the three imported kinds
}

// blockScope is one lexical block's name table. Scopes chain to their
// lexically enclosing block; lookup walks the chain outward.
type blockScope struct {
	names  map[intern.ID]*binding
	parent *blockScope
	level  int
}

func newBlockScope(parent *blockScope) *blockScope {
	level := 0
	if parent != nil {
		level = parent.level + 1
	}
	return &blockScope{names: make(map[intern.ID]*binding), parent: parent, level: level}
}

// declareHere checks only this block's own table, never the parents'.
// A name already present may be redeclared without error exactly when
// the existing entry is an import: a local declaration is always free
// to shadow a name an import clause introduced into the same block.
func (s *blockScope) declareHere(b *binding) (existing *binding, redefinition bool) {
	if prev, ok := s.names[b.name]; ok && !prev.kind.isImport() {
		return prev, true
	}
	s.names[b.name] = b
	return nil, false
}

// lookup walks outward from s and returns the nearest binding for name,
// or nil if none is in scope.
func (s *blockScope) lookup(name intern.ID) *binding {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.names[name]; ok {
			return b
		}
	}
	return nil
}

// funcCtx tracks one active function or lambda body being resolved:
// the running local-declaration depth (fnc_alloc) and, for lambdas, the
// in-progress capture set.
type funcCtx struct {
	isLambda bool
	isModule bool // true only for the synthetic top-level-block frame
	depth    int  // count of locals declared since this function's body opened

	captures map[intern.ID]*captureInfo
	order    []intern.ID // insertion order, for deterministic Lambda.Captures output

	// writebacks runs once this frame's body has fully resolved, copying
	// each local's final captured flag onto its AST node (a Declarator or
	// a Param) now that no further lambda in the frame can still add to
	// it.
	writebacks []func()
}

type captureInfo struct {
	source sourcePointer
}

// sourcePointer mirrors ast.StackPointer but is computed incrementally
// while a binding's final location may still be inside an enclosing,
// not-yet-finished funcCtx.
type sourcePointer struct {
	captured bool
	index    int
}

// loopCtx tracks one active loop's two unwind targets. breakDepth is
// where a break must return to: loop-body entry for a while loop, but
// before the init declarator(s) for a for loop, since breaking out
// also drops the loop variable. continueDepth is where a continue
// returns to: always loop-body entry (after a for loop's init has
// run), since continuing must preserve the loop variable across
// iterations rather than re-running its initializer.
type loopCtx struct {
	breakDepth    int
	continueDepth int
}
