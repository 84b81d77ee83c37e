package ast

import (
	"github.com/cwbudde/grib/internal/intern"
	"github.com/cwbudde/grib/internal/token"
)

// BinaryExpr is a binary operator application; Op is one of the
// arithmetic, comparison, or logical token kinds
// (+ - * / % == != < > <= >= && ||).
type BinaryExpr struct {
	P     token.Position
	Left  Expr
	Right Expr
	Op    token.Kind
}

func (n *BinaryExpr) Pos() token.Position { return n.P }
func (*BinaryExpr) exprNode()             {}

// UnaryExpr is `!x` or `-x`.
type UnaryExpr struct {
	P  token.Position
	X  Expr
	Op token.Kind
}

func (n *UnaryExpr) Pos() token.Position { return n.P }
func (*UnaryExpr) exprNode()             {}

// AssignExpr assigns Value to Target. Target is, after resolution, one
// of *StackRef, *IndexExpr, or *PropertyExpr. CompoundOp is
// the arithmetic operator of a `+=`-style compound assignment
// (token.ILLEGAL for a plain `=`); the evaluator reads Target's current
// location exactly once regardless, so a compound assignment to an
// index or property expression never double-evaluates its receiver.
type AssignExpr struct {
	P          token.Position
	Target     Expr
	Value      Expr
	CompoundOp token.Kind
}

func (n *AssignExpr) Pos() token.Position { return n.P }
func (*AssignExpr) exprNode()             {}

// IndexExpr is `x[i]` — array, string, hash, or module-object indexing.
type IndexExpr struct {
	P     token.Position
	X     Expr
	Index Expr
}

func (n *IndexExpr) Pos() token.Position { return n.P }
func (*IndexExpr) exprNode()             {}

// PropertyExpr is `x.name` — a hash accessor/direct-value property read.
type PropertyExpr struct {
	P    token.Position
	X    Expr
	Name intern.ID
}

func (n *PropertyExpr) Pos() token.Position { return n.P }
func (*PropertyExpr) exprNode()             {}

// ArrayLit is `[e, e, ...]`.
type ArrayLit struct {
	P        token.Position
	Elements []Expr
}

func (n *ArrayLit) Pos() token.Position { return n.P }
func (*ArrayLit) exprNode()             {}

// AccessKind distinguishes a direct hash value from an accessor pair.
type AccessKind int

const (
	AccessValue AccessKind = iota
	AccessAccessor
)

// AccessFuncKind distinguishes the two legal forms of a hash-property
// getter/setter.
type AccessFuncKind int

const (
	// AccessFuncNone marks an absent getter or setter.
	AccessFuncNone AccessFuncKind = iota
	// AccessFuncCaptured is `get ident` / `set ident` — a captured cell
	// reference into the enclosing mutable variable.
	AccessFuncCaptured
	// AccessFuncClosure is an inline `get || {...}` / `set |p| {...}`
	// block, resolved as a nested lambda/closure.
	AccessFuncClosure
)

// AccessFunc is one accessor (get or set) of a hash property: either a
// captured-cell reference into an enclosing mutable variable, or a
// closure (inline lambda-like block).
//
// Before resolution, FKind==AccessFuncCaptured carries Name (the raw
// identifier the parser saw); the resolver looks it up in the
// enclosing scope and overwrites Pointer with the resolved location.
type AccessFunc struct {
	P         token.Position
	FKind     AccessFuncKind
	Name      intern.ID    // raw name, valid pre-resolution when FKind == AccessFuncCaptured
	Pointer   StackPointer // resolved location, valid post-resolution when FKind == AccessFuncCaptured
	ClosureID int          // index into Program.Getters/Setters, valid when FKind == AccessFuncClosure
}

// HashEntry is one key of a hash literal: either a direct value or an
// accessor pair.
type HashEntry struct {
	Key   intern.ID
	Kind  AccessKind
	Value Expr        // valid when Kind == AccessValue
	Get   *AccessFunc // valid when Kind == AccessAccessor and a getter is present
	Set   *AccessFunc // valid when Kind == AccessAccessor and a setter is present
}

// HashLit is `#{ ... }` (frozen) or `${ ... }` (mutable).
type HashLit struct {
	P       token.Position
	Entries []*HashEntry
	Mutable bool
}

func (n *HashLit) Pos() token.Position { return n.P }
func (*HashLit) exprNode()             {}

// CallExpr is a function/procedure/lambda invocation.
type CallExpr struct {
	P      token.Position
	Callee Expr
	Args   []Expr
}

func (n *CallExpr) Pos() token.Position { return n.P }
func (*CallExpr) exprNode()             {}

// Closure is a getter/setter body resolved as a nested lambda: it has
// its own parameter list, body, and capture set exactly like a Lambda
// but is stored separately (Program.Getters / Program.Setters) since
// it is never referenced by a LambdaRef expression.
type Closure struct {
	P        token.Position
	Params   ParamList
	Body     *LambdaBody
	Captures []CaptureEntry
}

func (n *Closure) Pos() token.Position { return n.P }
