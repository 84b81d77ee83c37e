package eval

import (
	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/heap"
	"github.com/cwbudde/grib/internal/intern"
	"github.com/cwbudde/grib/internal/native"
	"github.com/cwbudde/grib/internal/value"
)

func (m *Machine) evalCall(n *ast.CallExpr) (value.Value, error) {
	callee, err := m.evalExpr(n.Callee)
	if err != nil {
		return value.NilValue(), err
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := m.evalExpr(a)
		if err != nil {
			return value.NilValue(), err
		}
		args[i] = v
	}
	return m.callValue(callee, args)
}

// callValue dispatches a call to whichever of native/procedure/lambda
// fn names. Calling a non-callable value is not an error — consistent
// with CastNum/Truthy's coerce-don't-fail philosophy, it simply yields
// nil.
func (m *Machine) callValue(fn value.Value, args []value.Value) (value.Value, error) {
	if fn.Kind != value.Callable {
		return value.NilValue(), nil
	}
	c := fn.Call
	switch c.Kind {
	case value.CallNative:
		f, ok := native.Lookup(c.NativePkg, c.NativeFn)
		if !ok {
			return value.NilValue(), nil
		}
		return f(m, args), nil
	case value.CallProcedure:
		proc := m.procedureAt(c.ModulePath, c.ProcIdx)
		return m.invokeCallable(c.ModulePath, &proc.Params, &ast.LambdaBody{Block: proc.Body}, -1, nil, args)
	case value.CallLambda:
		lam := m.lambdaAt(c.ModulePath, c.Index)
		return m.invokeCallable(c.ModulePath, &lam.Params, lam.Body, c.Env, c.This, args)
	default:
		panic("eval: unhandled callable kind")
	}
}

// invokeCallable binds args against params in a fresh frame (env is the
// captured environment to run the body against, or -1; this is the
// bound receiver, or nil) and runs body, returning its result.
func (m *Machine) invokeCallable(modulePath string, params *ast.ParamList, body *ast.LambdaBody, env int, this *value.Value, args []value.Value) (value.Value, error) {
	thisVal := value.NilValue()
	if this != nil {
		thisVal = *this
	}
	m.stack.PushFrame(thisVal, env)

	paramSlots := len(params.Params)
	for i := range params.Params {
		if err := m.pushParam(params.Params[i].Captured, arg(args, i)); err != nil {
			m.stack.PopFrame()
			return value.NilValue(), err
		}
	}
	if params.Variadic != nil {
		var rest []value.Value
		if len(args) > paramSlots {
			rest = append(rest, args[paramSlots:]...)
		}
		arrIdx := m.heap.AllocArray(rest)
		if err := m.pushParam(params.Variadic.Captured, value.HeapValue(arrIdx)); err != nil {
			m.stack.PopFrame()
			return value.NilValue(), err
		}
		paramSlots++
	}

	prevModule := m.currentModule
	m.currentModule = modulePath

	var result value.Value
	var err error
	if body.Block != nil {
		var cf controlFlow
		cf, err = m.execBlock(body.Block)
		if err == nil && cf.kind == cfReturn {
			result = cf.val
			// The return statement's own Allocations already unwound the
			// frame all the way down to 0 (params included), so there is
			// nothing left for this call to pop.
			paramSlots = 0
		}
	} else {
		result, err = m.evalExpr(body.Expr)
	}

	m.currentModule = prevModule
	if paramSlots > 0 {
		m.stack.PopN(paramSlots)
	}
	m.stack.PopFrame()
	return result, err
}

func (m *Machine) pushParam(captured bool, v value.Value) error {
	if captured {
		return m.stack.PushCell(m.heap.AllocCell(v))
	}
	return m.stack.Push(v)
}

func arg(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.NilValue()
}

// resolveCellIndex resolves a StackPointer to the heap index of the
// captured cell it denotes, used when snapshotting a lambda's capture
// environment or binding a hash accessor's `get ident`/`set ident`
// form. An Offset pointer's slot is always already a captured cell by
// this point — the resolver promotes a binding the moment anything
// captures it, before any use of that binding's StackPointer can occur.
func (m *Machine) resolveCellIndex(p ast.StackPointer) int {
	switch p.Kind {
	case ast.Offset:
		return m.stack.Slot(m.stack.Base() + p.Index).Cell
	case ast.Captured:
		return m.currentEnv()[intern.ID(p.Index)]
	default:
		panic("eval: unhandled stack pointer kind")
	}
}

func (m *Machine) makeLambda(index int) value.Value {
	lam := m.lambdaAt(m.currentModule, index)
	env := m.captureEnv(lam.Captures)
	return value.LambdaCallable(m.currentModule, index, env, nil)
}

// captureEnv snapshots the current frame's view of each capture into a
// fresh heap environment, or returns -1 if there is nothing to capture.
func (m *Machine) captureEnv(captures []ast.CaptureEntry) int {
	if len(captures) == 0 {
		return -1
	}
	envMap := make(map[intern.ID]int, len(captures))
	for _, c := range captures {
		envMap[c.Name] = m.resolveCellIndex(c.Source)
	}
	idx := m.heap.AllocEnv(envMap)
	m.maybeCollect()
	return idx
}

func (m *Machine) evalHashLit(n *ast.HashLit) (value.Value, error) {
	hashIdx := m.heap.AllocHash(n.Mutable)
	obj := m.heap.HashObject(hashIdx)
	for _, e := range n.Entries {
		key := m.strings.Lookup(e.Key)
		switch e.Kind {
		case ast.AccessValue:
			v, err := m.evalExpr(e.Value)
			if err != nil {
				return value.NilValue(), err
			}
			obj.Set(key, &heap.Property{Kind: heap.ValueProperty, Value: v})
		case ast.AccessAccessor:
			obj.Set(key, &heap.Property{
				Kind: heap.AccessorProperty,
				Get:  m.buildAccessor(e.Get, false),
				Set:  m.buildAccessor(e.Set, true),
			})
		default:
			panic("eval: unhandled hash-entry kind")
		}
	}
	m.maybeCollect()
	return value.HeapValue(hashIdx), nil
}

func (m *Machine) buildAccessor(af *ast.AccessFunc, isSetter bool) *heap.Accessor {
	if af == nil || af.FKind == ast.AccessFuncNone {
		return nil
	}
	switch af.FKind {
	case ast.AccessFuncCaptured:
		return &heap.Accessor{Kind: heap.CapturedAccessor, CellIndex: m.resolveCellIndex(af.Pointer)}
	case ast.AccessFuncClosure:
		closure := m.closureAt(m.currentModule, af.ClosureID, isSetter)
		return &heap.Accessor{
			Kind:         heap.ClosureAccessor,
			ClosureIndex: af.ClosureID,
			ModulePath:   m.currentModule,
			Env:          m.captureEnv(closure.Captures),
		}
	default:
		panic("eval: unhandled access-func kind")
	}
}

// callAccessor invokes a get (isSetter == false, args empty) or set
// (isSetter == true, args holding the one assigned value) accessor
// against the hash at hashIdx.
func (m *Machine) callAccessor(a *heap.Accessor, hashIdx int, args []value.Value, isSetter bool) (value.Value, error) {
	if a == nil {
		return value.NilValue(), nil
	}
	switch a.Kind {
	case heap.CapturedAccessor:
		if isSetter {
			if len(args) > 0 {
				m.heap.SetCell(a.CellIndex, args[0])
			}
			return value.NilValue(), nil
		}
		return m.heap.Cell(a.CellIndex), nil
	case heap.ClosureAccessor:
		closure := m.closureAt(a.ModulePath, a.ClosureIndex, isSetter)
		this := value.HeapValue(hashIdx)
		return m.invokeCallable(a.ModulePath, &closure.Params, closure.Body, a.Env, &this, args)
	default:
		panic("eval: unhandled accessor kind")
	}
}

func (m *Machine) resolveImportedFunc(modulePath string, name intern.ID) value.Value {
	nameStr := m.strings.Lookup(name)
	if mod, ok := m.modules[modulePath]; ok {
		if idx, ok := findPublicProc(mod, nameStr, m.strings); ok {
			return value.ProcedureCallable(modulePath, idx)
		}
		return value.NilValue()
	}
	return m.nativeMember(modulePath, nameStr)
}

func (m *Machine) lookupModuleMember(modVal value.Value, name string) value.Value {
	switch modVal.Mod.Kind {
	case value.ModuleNative:
		return m.nativeMember(modVal.Mod.Name, name)
	case value.ModuleCustom:
		mod, ok := m.modules[modVal.Mod.Name]
		if !ok {
			return value.NilValue()
		}
		if idx, ok := findPublicProc(mod, name, m.strings); ok {
			return value.ProcedureCallable(modVal.Mod.Name, idx)
		}
		return value.NilValue()
	default:
		panic("eval: unhandled module kind")
	}
}

func (m *Machine) nativeMember(pkgName, name string) value.Value {
	pkg, ok := native.Packages[pkgName]
	if !ok {
		return value.NilValue()
	}
	if _, ok := pkg.Funcs[name]; ok {
		return value.NativeCallable(pkgName, name)
	}
	if c, ok := pkg.Consts[name]; ok {
		return c
	}
	return value.NilValue()
}

func (m *Machine) procedureAt(modulePath string, idx int) *ast.Procedure {
	if modulePath == "" {
		return m.prog.Procedures[idx]
	}
	return m.modProcs[modulePath][idx]
}

func (m *Machine) lambdaAt(modulePath string, idx int) *ast.Lambda {
	if modulePath == "" {
		return m.prog.Lambdas[idx]
	}
	return m.modules[modulePath].Lambdas[idx]
}

func (m *Machine) closureAt(modulePath string, idx int, isSetter bool) *ast.Closure {
	if modulePath == "" {
		if isSetter {
			return m.prog.Setters[idx]
		}
		return m.prog.Getters[idx]
	}
	mod := m.modules[modulePath]
	if isSetter {
		return mod.Setters[idx]
	}
	return mod.Getters[idx]
}
