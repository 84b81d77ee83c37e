package eval

import (
	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/heap"
	"github.com/cwbudde/grib/internal/intern"
	"github.com/cwbudde/grib/internal/token"
	"github.com/cwbudde/grib/internal/value"
)

func (m *Machine) evalExpr(e ast.Expr) (value.Value, error) {
	switch n := e.(type) {
	case *ast.NilLit:
		return value.NilValue(), nil
	case *ast.BoolLit:
		return value.BoolValue(n.Value), nil
	case *ast.NumberLit:
		return value.NumberValue(n.Value), nil
	case *ast.StringLit:
		return value.InternedString(n.Index), nil
	case *ast.StackRef:
		return m.getStackRef(n.Pointer), nil
	case *ast.StaticRef:
		return m.evalStaticRef(n), nil
	case *ast.ThisExpr:
		return m.stack.CurrentFrame().This, nil
	case *ast.LambdaRef:
		return m.makeLambda(n.Index), nil
	case *ast.BinaryExpr:
		return m.evalBinary(n)
	case *ast.UnaryExpr:
		return m.evalUnary(n)
	case *ast.AssignExpr:
		return m.evalAssign(n)
	case *ast.IndexExpr:
		x, err := m.evalExpr(n.X)
		if err != nil {
			return value.NilValue(), err
		}
		idx, err := m.evalExpr(n.Index)
		if err != nil {
			return value.NilValue(), err
		}
		return m.readIndex(x, idx)
	case *ast.PropertyExpr:
		x, err := m.evalExpr(n.X)
		if err != nil {
			return value.NilValue(), err
		}
		return m.readProperty(x, n.Name)
	case *ast.ArrayLit:
		elems := make([]value.Value, len(n.Elements))
		for i, el := range n.Elements {
			v, err := m.evalExpr(el)
			if err != nil {
				return value.NilValue(), err
			}
			elems[i] = v
		}
		idx := m.heap.AllocArray(elems)
		m.maybeCollect()
		return value.HeapValue(idx), nil
	case *ast.HashLit:
		return m.evalHashLit(n)
	case *ast.CallExpr:
		return m.evalCall(n)
	case *ast.Identifier:
		panic("eval: Identifier survived resolution")
	default:
		panic("eval: unhandled expression type")
	}
}

func (m *Machine) getStackRef(p ast.StackPointer) value.Value {
	switch p.Kind {
	case ast.Offset:
		slot := m.stack.Slot(m.stack.Base() + p.Index)
		if slot.Captured {
			return m.heap.Cell(slot.Cell)
		}
		return slot.Val
	case ast.Captured:
		cellIdx := m.currentEnv()[intern.ID(p.Index)]
		return m.heap.Cell(cellIdx)
	default:
		panic("eval: unhandled stack pointer kind")
	}
}

func (m *Machine) setStackRef(p ast.StackPointer, v value.Value) {
	switch p.Kind {
	case ast.Offset:
		slot := m.stack.Slot(m.stack.Base() + p.Index)
		if slot.Captured {
			m.heap.SetCell(slot.Cell, v)
			return
		}
		slot.Val = v
	case ast.Captured:
		cellIdx := m.currentEnv()[intern.ID(p.Index)]
		m.heap.SetCell(cellIdx, v)
	default:
		panic("eval: unhandled stack pointer kind")
	}
}

// currentEnv returns the captured environment of the innermost active
// lambda/closure frame. Only StackPointers inside a lambda/closure body
// ever carry Kind == Captured, so a frame reaching this always has one.
func (m *Machine) currentEnv() map[intern.ID]int {
	return m.heap.Env(m.stack.CurrentFrame().Env)
}

func (m *Machine) evalStaticRef(n *ast.StaticRef) value.Value {
	switch n.Kind {
	case ast.StaticTopLevelFunc:
		return value.ProcedureCallable(m.currentModule, n.ProcIdx)
	case ast.StaticImportedModule:
		return value.CustomModule(n.Module)
	case ast.StaticImportedNative:
		return value.NativeModule(n.Module)
	case ast.StaticImportedFunc:
		return m.resolveImportedFunc(n.Module, n.Name)
	default:
		panic("eval: unhandled static-ref kind")
	}
}

func (m *Machine) evalUnary(n *ast.UnaryExpr) (value.Value, error) {
	x, err := m.evalExpr(n.X)
	if err != nil {
		return value.NilValue(), err
	}
	switch n.Op {
	case token.NOT:
		return value.BoolValue(!value.Truthy(x, m)), nil
	case token.MINUS:
		return value.NumberValue(-value.CastNum(x, m)), nil
	default:
		panic("eval: unhandled unary operator")
	}
}

func (m *Machine) evalBinary(n *ast.BinaryExpr) (value.Value, error) {
	// && and || short-circuit: the right operand is evaluated only when
	// the left doesn't already decide the result, and the operand that
	// decides it is what's returned (not a coerced bool).
	if n.Op == token.AND || n.Op == token.OR {
		left, err := m.evalExpr(n.Left)
		if err != nil {
			return value.NilValue(), err
		}
		truthy := value.Truthy(left, m)
		if (n.Op == token.AND && !truthy) || (n.Op == token.OR && truthy) {
			return left, nil
		}
		return m.evalExpr(n.Right)
	}

	left, err := m.evalExpr(n.Left)
	if err != nil {
		return value.NilValue(), err
	}
	right, err := m.evalExpr(n.Right)
	if err != nil {
		return value.NilValue(), err
	}
	return m.applyBinary(n.Op, left, right), nil
}

func (m *Machine) evalAssign(n *ast.AssignExpr) (value.Value, error) {
	switch target := n.Target.(type) {
	case *ast.StackRef:
		newVal, err := m.computeAssignValue(n, m.getStackRef(target.Pointer))
		if err != nil {
			return value.NilValue(), err
		}
		m.setStackRef(target.Pointer, newVal)
		return newVal, nil

	case *ast.IndexExpr:
		x, err := m.evalExpr(target.X)
		if err != nil {
			return value.NilValue(), err
		}
		idx, err := m.evalExpr(target.Index)
		if err != nil {
			return value.NilValue(), err
		}
		cur, err := m.readIndex(x, idx)
		if err != nil {
			return value.NilValue(), err
		}
		newVal, err := m.computeAssignValue(n, cur)
		if err != nil {
			return value.NilValue(), err
		}
		if err := m.writeIndex(x, idx, newVal); err != nil {
			return value.NilValue(), err
		}
		return newVal, nil

	case *ast.PropertyExpr:
		x, err := m.evalExpr(target.X)
		if err != nil {
			return value.NilValue(), err
		}
		cur, err := m.readProperty(x, target.Name)
		if err != nil {
			return value.NilValue(), err
		}
		newVal, err := m.computeAssignValue(n, cur)
		if err != nil {
			return value.NilValue(), err
		}
		if err := m.writeProperty(x, target.Name, newVal); err != nil {
			return value.NilValue(), err
		}
		return newVal, nil

	default:
		panic("eval: invalid assignment target")
	}
}

// computeAssignValue evaluates n.Value once and, for a compound
// assignment, combines it with the target's already-read current
// value via CompoundOp.
func (m *Machine) computeAssignValue(n *ast.AssignExpr, cur value.Value) (value.Value, error) {
	rhs, err := m.evalExpr(n.Value)
	if err != nil {
		return value.NilValue(), err
	}
	if n.CompoundOp == token.ILLEGAL {
		return rhs, nil
	}
	return m.applyBinary(n.CompoundOp, cur, rhs), nil
}

func (m *Machine) indexKey(idx value.Value) string { return m.Render(idx) }

func (m *Machine) readIndex(x, idx value.Value) (value.Value, error) {
	switch x.Kind {
	case value.Heap:
		s := m.heap.Slot(x.Heap)
		switch s.Kind {
		case heap.Array:
			i, ok := value.CastInd(idx, m)
			if !ok || i >= len(s.Arr) {
				return value.NilValue(), nil
			}
			return s.Arr[i], nil
		case heap.Hash:
			return m.readHashKey(x.Heap, m.indexKey(idx))
		default:
			return value.NilValue(), nil
		}
	case value.String:
		i, ok := value.CastInd(idx, m)
		text := x.Text(m)
		if !ok || i >= len(text) {
			return value.NilValue(), nil
		}
		return value.CharString(text[i]), nil
	case value.Module:
		return m.lookupModuleMember(x, m.indexKey(idx)), nil
	default:
		return value.NilValue(), nil
	}
}

func (m *Machine) writeIndex(x, idx, v value.Value) error {
	if x.Kind != value.Heap {
		return nil // strings and modules ignore index writes
	}
	s := m.heap.Slot(x.Heap)
	switch s.Kind {
	case heap.Array:
		i, ok := value.CastInd(idx, m)
		if !ok || i >= len(s.Arr) {
			return nil // out-of-bounds write is a no-op
		}
		s.Arr[i] = v
		return nil
	case heap.Hash:
		return m.writeHashKey(x.Heap, m.indexKey(idx), v)
	default:
		return nil
	}
}

func (m *Machine) readProperty(x value.Value, name intern.ID) (value.Value, error) {
	switch x.Kind {
	case value.Heap:
		s := m.heap.Slot(x.Heap)
		if s.Kind != heap.Hash {
			return value.NilValue(), nil
		}
		return m.readHashKey(x.Heap, m.strings.Lookup(name))
	case value.Module:
		return m.lookupModuleMember(x, m.strings.Lookup(name)), nil
	default:
		return value.NilValue(), nil
	}
}

func (m *Machine) writeProperty(x value.Value, name intern.ID, v value.Value) error {
	if x.Kind != value.Heap {
		return nil
	}
	s := m.heap.Slot(x.Heap)
	if s.Kind != heap.Hash {
		return nil
	}
	return m.writeHashKey(x.Heap, m.strings.Lookup(name), v)
}

func (m *Machine) readHashKey(hashIdx int, key string) (value.Value, error) {
	obj := m.heap.HashObject(hashIdx)
	p, ok := obj.Get(key)
	if !ok {
		return value.NilValue(), nil
	}
	if p.Kind == heap.ValueProperty {
		return p.Value, nil
	}
	if p.Get == nil {
		return value.NilValue(), nil
	}
	return m.callAccessor(p.Get, hashIdx, nil, false)
}

func (m *Machine) writeHashKey(hashIdx int, key string, v value.Value) error {
	obj := m.heap.HashObject(hashIdx)
	p, ok := obj.Get(key)
	if !ok {
		if !obj.Mutable() {
			return nil
		}
		obj.Set(key, &heap.Property{Kind: heap.ValueProperty, Value: v})
		return nil
	}
	switch p.Kind {
	case heap.ValueProperty:
		if !obj.Mutable() {
			return nil
		}
		p.Value = v
		return nil
	case heap.AccessorProperty:
		if p.Set == nil {
			return nil
		}
		_, err := m.callAccessor(p.Set, hashIdx, []value.Value{v}, true)
		return err
	default:
		return nil
	}
}
