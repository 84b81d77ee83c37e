package eval

import (
	"fmt"
	"os"

	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/value"
)

// cfKind distinguishes why execution is unwinding.
type cfKind int

const (
	cfNone cfKind = iota
	cfBreak
	cfContinue
	cfReturn
)

// controlFlow is the sum type block and statement execution propagates
// upward: none on normal completion, or one of break/continue/return
// carrying whatever value a return produced. Unlike the statement
// node's precomputed Allocations, no popping is deferred to whoever
// receives a controlFlow — the ControlFlowStmt itself already drained
// the stack back to its target depth by the time this value exists.
type controlFlow struct {
	kind cfKind
	val  value.Value
}

var none = controlFlow{}

func (c controlFlow) isNone() bool { return c.kind == cfNone }

// execBlock runs b's statements in order and, on normal completion,
// pops its own declarators back off the stack. A break/continue/return
// already popped everything it needs to by the time it reaches here,
// so it passes through without any further adjustment.
func (m *Machine) execBlock(b *ast.Block) (controlFlow, error) {
	cf, err := m.execStmtList(b.Stmts)
	if err != nil {
		return none, err
	}
	if cf.isNone() {
		m.stack.PopN(b.Allocations)
	}
	return cf, nil
}

func (m *Machine) execStmtList(stmts []ast.Stmt) (controlFlow, error) {
	for _, s := range stmts {
		cf, err := m.execStmt(s)
		if err != nil {
			return none, err
		}
		if !cf.isNone() {
			return cf, nil
		}
	}
	return none, nil
}

func (m *Machine) execStmt(s ast.Stmt) (controlFlow, error) {
	if m.trace {
		fmt.Fprintf(os.Stderr, "trace: %T at %s\n", s, s.Pos())
	}
	switch n := s.(type) {
	case *ast.Block:
		return m.execBlock(n)
	case *ast.ExprStmt:
		_, err := m.evalExpr(n.X)
		return none, err
	case *ast.IfStmt:
		return m.execIf(n)
	case *ast.WhileStmt:
		return m.execWhile(n)
	case *ast.ForStmt:
		return m.execFor(n)
	case *ast.DeclStmt:
		return none, m.execDecl(n)
	case *ast.ControlFlowStmt:
		return m.execControlFlow(n)
	case *ast.ProcDeclStmt:
		// The resolver rejects any program containing one of these with
		// FunctionNotAtTopLevel; a successfully resolved tree never
		// reaches here carrying one.
		panic("eval: ProcDeclStmt survived resolution")
	default:
		panic("eval: unhandled statement type")
	}
}

func (m *Machine) execIf(n *ast.IfStmt) (controlFlow, error) {
	cond, err := m.evalExpr(n.Cond)
	if err != nil {
		return none, err
	}
	if value.Truthy(cond, m) {
		return m.execBlock(n.Then)
	}
	for _, ei := range n.ElseIfs {
		c, err := m.evalExpr(ei.Cond)
		if err != nil {
			return none, err
		}
		if value.Truthy(c, m) {
			return m.execBlock(ei.Body)
		}
	}
	if n.Else != nil {
		return m.execBlock(n.Else)
	}
	return none, nil
}

func (m *Machine) execWhile(n *ast.WhileStmt) (controlFlow, error) {
	for {
		cond, err := m.evalExpr(n.Cond)
		if err != nil {
			return none, err
		}
		if !value.Truthy(cond, m) {
			return none, nil
		}
		cf, err := m.execBlock(n.Body)
		if err != nil {
			return none, err
		}
		switch cf.kind {
		case cfBreak:
			return none, nil
		case cfReturn:
			return cf, nil
		case cfContinue, cfNone:
			// fall through to the next condition check
		}
	}
}

func (m *Machine) execFor(n *ast.ForStmt) (controlFlow, error) {
	if n.Init != nil {
		if err := m.execDecl(n.Init); err != nil {
			return none, err
		}
	}
	for {
		if n.Cond != nil {
			cond, err := m.evalExpr(n.Cond)
			if err != nil {
				return none, err
			}
			if !value.Truthy(cond, m) {
				break
			}
		}
		cf, err := m.execBlock(n.Body)
		if err != nil {
			return none, err
		}
		switch cf.kind {
		case cfBreak:
			// The break statement already popped back past the init
			// declarator(s) (see resolver's breakDepth); the for
			// statement is fully unwound.
			return none, nil
		case cfReturn:
			return cf, nil
		}
		if n.Step != nil {
			if _, err := m.evalExpr(n.Step); err != nil {
				return none, err
			}
		}
	}
	// Normal exit via a false condition: the init declarator(s) are
	// still live on the stack (break would have already dropped them,
	// continue never touches them) and must be popped here.
	m.stack.PopN(n.Allocations)
	return none, nil
}

// execDecl evaluates each declarator's initializer in turn and pushes
// its value, promoting it to a heap cell first when the resolver
// marked it captured.
func (m *Machine) execDecl(n *ast.DeclStmt) error {
	for _, d := range n.Decls {
		v, err := m.evalExpr(d.Init)
		if err != nil {
			return err
		}
		if d.Captured {
			cell := m.heap.AllocCell(v)
			if err := m.stack.PushCell(cell); err != nil {
				return err
			}
		} else if err := m.stack.Push(v); err != nil {
			return err
		}
	}
	return nil
}

// execControlFlow evaluates a break/continue/return, draining the
// stack back to its precomputed target depth before reporting which
// kind it was to the caller.
func (m *Machine) execControlFlow(n *ast.ControlFlowStmt) (controlFlow, error) {
	switch n.Kind {
	case ast.CFBreak:
		m.stack.PopN(n.Allocations)
		return controlFlow{kind: cfBreak}, nil
	case ast.CFContinue:
		m.stack.PopN(n.Allocations)
		return controlFlow{kind: cfContinue}, nil
	case ast.CFReturn:
		var v value.Value
		if n.Value != nil {
			var err error
			v, err = m.evalExpr(n.Value)
			if err != nil {
				return none, err
			}
		}
		m.stack.PopN(n.Allocations)
		return controlFlow{kind: cfReturn, val: v}, nil
	default:
		panic("eval: unhandled control-flow kind")
	}
}
