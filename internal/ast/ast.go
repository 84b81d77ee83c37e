// Package ast defines Grib's syntax tree: immutable-after-parsing node
// shapes that the resolver (internal/resolver) annotates in place and
// the evaluator (internal/eval) walks directly.
//
// Before resolution, identifier references appear as *Identifier nodes.
// After a successful resolution pass no *Identifier node remains
// anywhere in a reachable subtree — every reference has been rewritten
// to a *StackRef or a *StaticRef.
package ast

import (
	"github.com/cwbudde/grib/internal/intern"
	"github.com/cwbudde/grib/internal/token"
)

// Node is the base interface implemented by every tree node.
type Node interface {
	Pos() token.Position
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that performs an action.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root of a parsed (and, after resolution, resolved) tree.
type Program struct {
	Strings    *intern.Table
	Imports    []*Import
	Procedures []*Procedure
	Lambdas    []*Lambda
	Getters    []*Closure
	Setters    []*Closure
	Body       *Block
}

func (p *Program) Pos() token.Position {
	if p.Body != nil {
		return p.Body.Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

// ============================== Literals ==============================

// NilLit is the `nil` literal.
type NilLit struct{ P token.Position }

func (n *NilLit) Pos() token.Position { return n.P }
func (*NilLit) exprNode()             {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	P     token.Position
	Value bool
}

func (n *BoolLit) Pos() token.Position { return n.P }
func (*BoolLit) exprNode()             {}

// NumberLit is a numeric literal, stored as the f64 it denotes.
type NumberLit struct {
	P     token.Position
	Value float64
}

func (n *NumberLit) Pos() token.Position { return n.P }
func (*NumberLit) exprNode()             {}

// StringLit is a string literal, stored as an interned index.
type StringLit struct {
	P     token.Position
	Index intern.ID
}

func (n *StringLit) Pos() token.Position { return n.P }
func (*StringLit) exprNode()             {}

// ============================ Identifiers ============================

// Identifier is a raw, pre-resolution name reference. It must not
// appear anywhere in a tree that has completed resolution successfully.
type Identifier struct {
	P    token.Position
	Name intern.ID
}

func (n *Identifier) Pos() token.Position { return n.P }
func (*Identifier) exprNode()             {}

// StackPointerKind distinguishes a plain stack offset from a pointer
// into the active lambda's captured environment.
type StackPointerKind int

const (
	// Offset is a stack slot index relative to the current frame's base.
	Offset StackPointerKind = iota
	// Captured is an index into the active lambda's captured environment.
	Captured
)

// StackPointer is the resolved location of a local variable or
// parameter: either a stack slot (Offset, relative to the current
// frame) or an entry of the current frame's captured environment
// (Captured, keyed by identifier index).
type StackPointer struct {
	Kind  StackPointerKind
	Index int
}

// CaptureEntry names one identifier a lambda's body reaches outside its
// own frame, together with Source: where the evaluator fetches that
// identifier's current cell handle in the frame active at the moment
// the lambda literal is evaluated. Source is an Offset pointer when the
// identifier is a direct local of the immediately enclosing function,
// or itself a Captured pointer when the enclosing function is a lambda
// that already captured it from further out, so nested lambdas chain
// captures through however many enclosing frames separate them from
// the identifier's true owner.
type CaptureEntry struct {
	Name   intern.ID
	Source StackPointer
}

// StackRef is a post-resolution reference to a stack slot or captured
// cell. The resolver rewrites every successfully resolved mutable
// identifier use (and assignment target) to one of these.
type StackRef struct {
	P       token.Position
	Pointer StackPointer
}

func (n *StackRef) Pos() token.Position { return n.P }
func (*StackRef) exprNode()             {}

// StaticKind distinguishes the three kinds of compile-time-known value
// a StaticRef can inline.
type StaticKind int

const (
	StaticTopLevelFunc StaticKind = iota
	StaticImportedFunc
	StaticImportedModule
	StaticImportedNative
)

// StaticRef inlines a reference to a value known entirely at resolution
// time: a top-level procedure, an imported function, an imported
// module object, or an imported native package.
type StaticRef struct {
	P        token.Position
	Kind     StaticKind
	Name     intern.ID
	Module   string // for StaticImportedFunc/StaticImportedModule/StaticImportedNative
	ProcIdx  int    // index into Program.Procedures, for StaticTopLevelFunc
}

func (n *StaticRef) Pos() token.Position { return n.P }
func (*StaticRef) exprNode()             {}

// ThisExpr is the `this` reference, legal only inside a lambda body.
type ThisExpr struct{ P token.Position }

func (n *ThisExpr) Pos() token.Position { return n.P }
func (*ThisExpr) exprNode()             {}

// LambdaRef is a lambda literal expression: an index into Program.Lambdas.
type LambdaRef struct {
	P     token.Position
	Index int
}

func (n *LambdaRef) Pos() token.Position { return n.P }
func (*LambdaRef) exprNode()             {}
