// Package value defines Grib's runtime value representation: the
// tagged union every stack slot, heap array element, and hash property
// holds. Values are small and copied by assignment; anything that
// needs identity or sharing (arrays, hashes, owned strings, captured
// cells) lives on the heap and is referenced by index.
package value

import "github.com/cwbudde/grib/internal/intern"

// Kind tags which field of a Value is meaningful.
type Kind byte

const (
	Nil Kind = iota
	Bool
	Number
	String
	Callable
	Module
	Heap
)

func (k Kind) String() string {
	switch k {
	case Nil:
		return "nil"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Callable:
		return "callable"
	case Module:
		return "module"
	case Heap:
		return "heap"
	default:
		return "unknown"
	}
}

// StringKind distinguishes the four ways a Value can denote string
// data without always forcing a heap allocation: a literal interned at
// parse time, an owned string built at runtime (concatenation, native
// return) living on the heap, a single byte pulled out of a string by
// indexing, or a fixed value baked into the interpreter itself.
type StringKind byte

const (
	StrInterned StringKind = iota
	StrHeap
	StrChar
	StrStatic
)

// StringHandle is the payload of a Value with Kind == String.
type StringHandle struct {
	Kind     StringKind
	Interned intern.ID // valid when Kind == StrInterned
	Heap     int       // heap index of an owned string, valid when Kind == StrHeap
	Char     byte      // valid when Kind == StrChar
	Static   string    // valid when Kind == StrStatic
}

// CallableKind distinguishes the three things a Value with Kind ==
// Callable can invoke.
type CallableKind byte

const (
	CallNative CallableKind = iota
	CallProcedure
	CallLambda
)

// CallableHandle is the payload of a Value with Kind == Callable.
type CallableHandle struct {
	Kind CallableKind

	// NativePkg/NativeFn name the registered native function, valid
	// when Kind == CallNative.
	NativePkg string
	NativeFn  string

	// ModulePath is empty for a top-level procedure, else the custom
	// module that owns ProcIdx; valid when Kind == CallProcedure.
	ModulePath string
	ProcIdx    int // valid when Kind == CallProcedure

	// Index is the lambda's slot in its owning Program/Module's Lambdas
	// pool, valid when Kind == CallLambda.
	Index int
	// Env is the heap index of the lambda's captured environment, or
	// -1 if it captures nothing. Valid when Kind == CallLambda.
	Env int
	// This is the lambda's bound receiver; a nil pointer means unbound.
	// LambdaCallable leaves it nil, and accessor closures receive their
	// hash as `this` at call time instead. Valid when Kind == CallLambda.
	This *Value
	// ModulePath, reused here, names the module a lambda literal was
	// defined in so its body can be looked up in the right Lambdas
	// pool; empty for a lambda from the main program.
}

// ModuleKind distinguishes a native package handle from a custom
// module handle.
type ModuleKind byte

const (
	ModuleNative ModuleKind = iota
	ModuleCustom
)

// ModuleHandle is the payload of a Value with Kind == Module.
type ModuleHandle struct {
	Kind ModuleKind
	Name string // native package name, or custom module's import path
}

// Value is Grib's runtime value: exactly one of the fields below is
// meaningful, selected by Kind.
type Value struct {
	Kind Kind
	Num  float64
	B    bool
	Str  StringHandle
	Call CallableHandle
	Mod  ModuleHandle
	Heap int
}

func NilValue() Value              { return Value{Kind: Nil} }
func BoolValue(b bool) Value       { return Value{Kind: Bool, B: b} }
func NumberValue(n float64) Value  { return Value{Kind: Number, Num: n} }
func HeapValue(idx int) Value      { return Value{Kind: Heap, Heap: idx} }

func InternedString(id intern.ID) Value {
	return Value{Kind: String, Str: StringHandle{Kind: StrInterned, Interned: id}}
}

func HeapString(idx int) Value {
	return Value{Kind: String, Str: StringHandle{Kind: StrHeap, Heap: idx}}
}

func CharString(c byte) Value {
	return Value{Kind: String, Str: StringHandle{Kind: StrChar, Char: c}}
}

func StaticString(s string) Value {
	return Value{Kind: String, Str: StringHandle{Kind: StrStatic, Static: s}}
}

func NativeCallable(pkg, fn string) Value {
	return Value{Kind: Callable, Call: CallableHandle{Kind: CallNative, NativePkg: pkg, NativeFn: fn}}
}

func ProcedureCallable(modulePath string, procIdx int) Value {
	return Value{Kind: Callable, Call: CallableHandle{Kind: CallProcedure, ModulePath: modulePath, ProcIdx: procIdx}}
}

func LambdaCallable(modulePath string, index, env int, this *Value) Value {
	return Value{Kind: Callable, Call: CallableHandle{Kind: CallLambda, ModulePath: modulePath, Index: index, Env: env, This: this}}
}

func NativeModule(name string) Value {
	return Value{Kind: Module, Mod: ModuleHandle{Kind: ModuleNative, Name: name}}
}

func CustomModule(path string) Value {
	return Value{Kind: Module, Mod: ModuleHandle{Kind: ModuleCustom, Name: path}}
}

// Ptr reports the heap index v references, if any: a direct heap
// value, or a heap-owned string. Used by the collector to find roots
// without knowing about every Value variant that can carry one.
func (v Value) Ptr() (int, bool) {
	switch {
	case v.Kind == Heap:
		return v.Heap, true
	case v.Kind == String && v.Str.Kind == StrHeap:
		return v.Str.Heap, true
	default:
		return 0, false
	}
}

// Strings resolves the two ways a Value's text content can be stored
// out of line: an interned literal (by identifier index) or an owned
// string living on the heap (by heap index). Implemented by
// *intern.Table and *heap.Heap respectively; eval composes the two
// into a single Strings so string values never need Text to know
// about either package directly.
type Strings interface {
	Lookup(id intern.ID) string
	HeapString(idx int) (string, bool)
}

// Text renders v's string content. It panics if v.Kind != String;
// callers that aren't sure should check Kind first.
func (v Value) Text(s Strings) string {
	switch v.Str.Kind {
	case StrInterned:
		return s.Lookup(v.Str.Interned)
	case StrHeap:
		str, _ := s.HeapString(v.Str.Heap)
		return str
	case StrChar:
		return string(v.Str.Char)
	default: // StrStatic
		return v.Str.Static
	}
}

// Host is the capability a native function needs: Strings (to resolve
// literal/owned string content for CastNum/Truthy), plus producing a
// value's full display text (which may require walking a heap-
// allocated array or hash) and allocating a new owned string to
// return. Implemented by the evaluator, which owns both the string
// interner and the heap.
type Host interface {
	Strings
	Render(v Value) string
	NewString(s string) Value
}
