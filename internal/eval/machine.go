// Package eval implements Grib's tree-walking evaluator: it executes a
// resolved *ast.Program directly, maintaining the runtime stack and
// heap defined by internal/rt and internal/heap and dispatching to
// internal/native for host-provided functions.
package eval

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/heap"
	"github.com/cwbudde/grib/internal/intern"
	"github.com/cwbudde/grib/internal/rt"
	"github.com/cwbudde/grib/internal/value"
)

// Config tunes the resources one Machine run is allowed: stack slots
// and the allocation count that triggers a GC sweep.
type Config struct {
	StackCapacity int
	GCThreshold   int
	TraceCalls    bool
}

// Machine is one execution of a resolved program: the string interner
// it was parsed with, a stack and heap sized per Config, and the
// module registry reachable from its imports. A Machine is single-use.
type Machine struct {
	prog     *ast.Program
	strings  *intern.Table
	stack    *rt.Stack
	heap     *heap.Heap
	modules  map[string]*ast.Module
	modProcs map[string][]*ast.Procedure

	// currentModule is the import path of the module whose procedure is
	// presently executing, or "" for the main program. It lets a
	// resolved *ast.StaticRef with Kind == StaticTopLevelFunc produce a
	// ProcedureCallable scoped to the right Procedures slice: the
	// reference's ProcIdx is only meaningful relative to whichever
	// program (main or one custom module) it was resolved inside.
	currentModule string

	trace bool
}

// New builds a Machine ready to run prog, which must already have
// passed resolver.Resolve (and its custom modules ResolveModule)
// successfully.
func New(prog *ast.Program, cfg Config) *Machine {
	if cfg.StackCapacity <= 0 {
		cfg.StackCapacity = 65536
	}
	m := &Machine{
		prog:    prog,
		strings: prog.Strings,
		stack:   rt.New(cfg.StackCapacity),
		heap:    heap.New(cfg.GCThreshold),
		trace:   cfg.TraceCalls,
	}
	m.modules = buildModuleRegistry(prog)
	m.modProcs = buildModuleProcedures(m.modules)
	return m
}

// Run executes the program's top-level block to completion. A non-nil
// error is always a fatal runtime condition (stack overflow); Grib's
// own operators never raise one.
func (m *Machine) Run() error {
	cf, err := m.execBlock(m.prog.Body)
	if err != nil {
		return err
	}
	// A bare `return` at module top level is rejected by the resolver,
	// so only Break/Continue could otherwise leak out here, and those
	// are resolver errors too (InvalidBreak/InvalidContinue) — by the
	// time Run executes a successfully resolved program, cf is always
	// none.
	_ = cf
	return nil
}

// RuntimeError wraps a fatal runtime condition (today, only stack
// overflow) as a diag.Diagnostic so the CLI can report it the same way
// it reports compile-time errors.
func RuntimeError(err error) *diag.Diagnostic {
	if err == nil {
		return nil
	}
	kind := diag.KindStackOverflow
	return &diag.Diagnostic{Stage: diag.StageRuntime, Kind: kind, Message: err.Error()}
}

// ----------------------------------------------------------------------
// value.Host implementation
// ----------------------------------------------------------------------

func (m *Machine) Lookup(id intern.ID) string { return m.strings.Lookup(id) }

func (m *Machine) HeapString(idx int) (string, bool) { return m.heap.HeapString(idx) }

func (m *Machine) NewString(s string) value.Value {
	return value.HeapString(m.allocString(s))
}

// Render produces a value's display text, the form console.println and
// fmt.toStr use. Arrays render as their elements joined by commas;
// hashes render as a brace-delimited, key-sorted property list so
// output (and test snapshots) are deterministic despite the hash's
// unordered storage.
func (m *Machine) Render(v value.Value) string {
	switch v.Kind {
	case value.Nil:
		return "nil"
	case value.Bool:
		if v.B {
			return "true"
		}
		return "false"
	case value.Number:
		return formatNumber(v.Num)
	case value.String:
		return v.Text(m)
	case value.Callable:
		return "<callable>"
	case value.Module:
		return fmt.Sprintf("<module %s>", v.Mod.Name)
	case value.Heap:
		return m.renderHeap(v.Heap)
	default:
		panic("eval: unhandled value kind in Render")
	}
}

func (m *Machine) renderHeap(idx int) string {
	s := m.heap.Slot(idx)
	switch s.Kind {
	case heap.Array:
		parts := make([]string, len(s.Arr))
		for i, e := range s.Arr {
			parts[i] = m.Render(e)
		}
		return strings.Join(parts, ",")
	case heap.Hash:
		keys := s.Obj.Keys()
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			prop, _ := s.Obj.Get(k)
			parts = append(parts, k+":"+m.renderProperty(idx, prop))
		}
		return "{" + strings.Join(parts, ",") + "}"
	case heap.Str:
		return s.Text
	default:
		panic("eval: unhandled heap kind in renderHeap")
	}
}

func (m *Machine) renderProperty(hashIdx int, p *heap.Property) string {
	if p.Kind == heap.ValueProperty {
		return m.Render(p.Value)
	}
	v, err := m.callAccessor(p.Get, hashIdx, nil, false)
	if err != nil {
		return "nil"
	}
	return m.Render(v)
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func (m *Machine) allocString(s string) int { return m.heap.AllocString(s) }

// maybeCollect runs a GC sweep if the heap has accumulated enough
// allocations since the last one, using every live stack slot and call
// frame as roots.
func (m *Machine) maybeCollect() {
	if !m.heap.ShouldCollect() {
		return
	}
	values, cells := m.stack.Roots()
	frames := m.stack.FrameRoots()
	roots := make([]heap.Root, len(frames))
	for i, f := range frames {
		roots[i] = heap.Root{This: f.This, Env: f.Env}
	}
	m.heap.Collect(values, cells, roots)
}
