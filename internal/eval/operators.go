package eval

import (
	"math"

	"github.com/cwbudde/grib/internal/heap"
	"github.com/cwbudde/grib/internal/token"
	"github.com/cwbudde/grib/internal/value"
)

// applyBinary evaluates one of + - * / % == != < > <= >= against two
// already-evaluated operands. && and || are handled by evalBinary
// itself, since they need to short-circuit before the right operand is
// even evaluated.
func (m *Machine) applyBinary(op token.Kind, left, right value.Value) value.Value {
	switch op {
	case token.PLUS:
		return m.applyPlus(left, right)
	case token.MINUS:
		return value.NumberValue(value.CastNum(left, m) - value.CastNum(right, m))
	case token.STAR:
		return m.applyStar(left, right)
	case token.SLASH:
		return value.NumberValue(value.CastNum(left, m) / value.CastNum(right, m))
	case token.PERCENT:
		return value.NumberValue(math.Mod(value.CastNum(left, m), value.CastNum(right, m)))
	case token.EQ:
		return value.BoolValue(m.valuesEqual(left, right))
	case token.NEQ:
		return value.BoolValue(!m.valuesEqual(left, right))
	case token.LT, token.GT, token.LE, token.GE:
		return value.BoolValue(m.compare(op, left, right))
	default:
		panic("eval: unhandled binary operator")
	}
}

// applyPlus special-cases an array left operand (append right as a
// single new element, never flattening a right-hand array) and string
// concatenation (either operand being a string renders the other to
// text); everything else adds numerically.
func (m *Machine) applyPlus(left, right value.Value) value.Value {
	if left.Kind == value.Heap {
		if s := m.heap.Slot(left.Heap); s.Kind == heap.Array {
			appended := make([]value.Value, len(s.Arr)+1)
			copy(appended, s.Arr)
			appended[len(s.Arr)] = right
			idx := m.heap.AllocArray(appended)
			m.maybeCollect()
			return value.HeapValue(idx)
		}
	}
	if left.Kind == value.String || right.Kind == value.String {
		return m.NewString(m.Render(left) + m.Render(right))
	}
	return value.NumberValue(value.CastNum(left, m) + value.CastNum(right, m))
}

// applyStar special-cases an array left operand as repetition (tile
// the array's elements n times, where n is the right operand coerced
// to a non-negative integer count) and multiplies numerically
// otherwise.
func (m *Machine) applyStar(left, right value.Value) value.Value {
	if left.Kind == value.Heap {
		if s := m.heap.Slot(left.Heap); s.Kind == heap.Array {
			n, ok := value.CastInd(right, m)
			if !ok {
				n = 0
			}
			tiled := make([]value.Value, 0, len(s.Arr)*n)
			for i := 0; i < n; i++ {
				tiled = append(tiled, s.Arr...)
			}
			idx := m.heap.AllocArray(tiled)
			m.maybeCollect()
			return value.HeapValue(idx)
		}
	}
	return value.NumberValue(value.CastNum(left, m) * value.CastNum(right, m))
}

// compare implements < > <= >=: lexicographic when both operands are
// strings, numeric (via CastNum coercion) otherwise.
func (m *Machine) compare(op token.Kind, left, right value.Value) bool {
	if left.Kind == value.String && right.Kind == value.String {
		l, r := left.Text(m), right.Text(m)
		switch op {
		case token.LT:
			return l < r
		case token.GT:
			return l > r
		case token.LE:
			return l <= r
		default: // token.GE
			return l >= r
		}
	}
	l, r := value.CastNum(left, m), value.CastNum(right, m)
	switch op {
	case token.LT:
		return l < r
	case token.GT:
		return l > r
	case token.LE:
		return l <= r
	default: // token.GE
		return l >= r
	}
}

// valuesEqual implements ==/!=: operands of different Kind are never
// equal (no cross-kind coercion, unlike CastNum/Truthy), matching the
// language's rule that equality answers "are these the same kind of
// thing with the same content", not "do these coerce to the same
// number". Heap-backed values (arrays, hashes, owned strings reached
// indirectly) compare by heap identity, not deep structural equality.
func (m *Machine) valuesEqual(left, right value.Value) bool {
	if left.Kind != right.Kind {
		return false
	}
	switch left.Kind {
	case value.Nil:
		return true
	case value.Bool:
		return left.B == right.B
	case value.Number:
		return left.Num == right.Num
	case value.String:
		return left.Text(m) == right.Text(m)
	case value.Heap:
		return left.Heap == right.Heap
	case value.Module:
		return left.Mod.Kind == right.Mod.Kind && left.Mod.Name == right.Mod.Name
	case value.Callable:
		return m.callablesEqual(left.Call, right.Call)
	default:
		panic("eval: unhandled value kind in equality")
	}
}

func (m *Machine) callablesEqual(a, b value.CallableHandle) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case value.CallNative:
		return a.NativePkg == b.NativePkg && a.NativeFn == b.NativeFn
	case value.CallProcedure:
		return a.ModulePath == b.ModulePath && a.ProcIdx == b.ProcIdx
	case value.CallLambda:
		return a.ModulePath == b.ModulePath && a.Index == b.Index && a.Env == b.Env
	default:
		return false
	}
}
