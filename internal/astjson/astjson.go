// Package astjson serializes a resolved or pre-resolution *ast.Program
// to JSON for golden-file and round-trip testing, and provides
// structural (key-order-independent) comparison and field-patching
// helpers over that serialized form.
package astjson

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/intern"
	"github.com/cwbudde/grib/internal/token"
)

// Encoder renders ast nodes to a generic, JSON-marshalable tree,
// spelling out interned names and string indices as their resolved
// text so golden files read as source rather than index soup.
type Encoder struct {
	strings *intern.Table
}

// NewEncoder builds an Encoder that resolves interned identifiers
// against strings.
func NewEncoder(strings *intern.Table) *Encoder {
	return &Encoder{strings: strings}
}

// Program serializes a whole program to indented JSON.
func (e *Encoder) Program(prog *ast.Program) ([]byte, error) {
	return json.MarshalIndent(e.program(prog), "", "  ")
}

func (e *Encoder) name(id intern.ID) string {
	if e.strings == nil {
		return ""
	}
	return e.strings.Lookup(id)
}

func (e *Encoder) pos(p token.Position) map[string]any {
	return map[string]any{"line": p.Line, "column": p.Column}
}

func (e *Encoder) program(p *ast.Program) map[string]any {
	return map[string]any{
		"kind":       "Program",
		"imports":    e.importList(p.Imports),
		"procedures": e.procList(p.Procedures),
		"body":       e.block(p.Body),
	}
}

func (e *Encoder) importList(imports []*ast.Import) []any {
	out := make([]any, len(imports))
	for i, imp := range imports {
		m := map[string]any{
			"kind":     "Import",
			"pos":      e.pos(imp.Pos()),
			"path":     imp.Path,
			"form":     importFormName(imp.Form),
			"isNative": imp.IsNative,
		}
		if imp.Form == ast.ImportWhole {
			m["alias"] = e.name(imp.Alias)
		}
		if len(imp.Names) > 0 {
			names := make([]string, len(imp.Names))
			for i, n := range imp.Names {
				names[i] = e.name(n)
			}
			m["names"] = names
		}
		out[i] = m
	}
	return out
}

func importFormName(f ast.ImportForm) string {
	switch f {
	case ast.ImportWhole:
		return "whole"
	case ast.ImportList:
		return "list"
	case ast.ImportWildcard:
		return "wildcard"
	default:
		return "unknown"
	}
}

func (e *Encoder) procList(procs []*ast.Procedure) []any {
	out := make([]any, len(procs))
	for i, p := range procs {
		out[i] = e.procedure(p)
	}
	return out
}

func (e *Encoder) procedure(p *ast.Procedure) map[string]any {
	return map[string]any{
		"kind":   "Procedure",
		"pos":    e.pos(p.Pos()),
		"name":   e.name(p.Name),
		"public": p.Public,
		"params": e.paramList(p.Params),
		"body":   e.block(p.Body),
	}
}

func (e *Encoder) paramList(pl ast.ParamList) map[string]any {
	params := make([]any, len(pl.Params))
	for i, prm := range pl.Params {
		params[i] = e.param(prm)
	}
	m := map[string]any{"params": params}
	if pl.Variadic != nil {
		m["variadic"] = e.param(*pl.Variadic)
	}
	return m
}

func (e *Encoder) param(p ast.Param) map[string]any {
	return map[string]any{"name": e.name(p.Name), "captured": p.Captured}
}

func (e *Encoder) block(b *ast.Block) map[string]any {
	if b == nil {
		return nil
	}
	stmts := make([]any, len(b.Stmts))
	for i, s := range b.Stmts {
		stmts[i] = e.stmt(s)
	}
	return map[string]any{
		"kind":        "Block",
		"pos":         e.pos(b.Pos()),
		"allocations": b.Allocations,
		"stmts":       stmts,
	}
}

func (e *Encoder) stmt(s ast.Stmt) map[string]any {
	if s == nil {
		return nil
	}
	switch n := s.(type) {
	case *ast.Block:
		return e.block(n)
	case *ast.ProcDeclStmt:
		return map[string]any{"kind": "ProcDeclStmt", "pos": e.pos(n.Pos()), "proc": e.procedure(n.Proc)}
	case *ast.ExprStmt:
		return map[string]any{"kind": "ExprStmt", "pos": e.pos(n.Pos()), "expr": e.expr(n.X)}
	case *ast.IfStmt:
		elseIfs := make([]any, len(n.ElseIfs))
		for i, ei := range n.ElseIfs {
			elseIfs[i] = map[string]any{"cond": e.expr(ei.Cond), "body": e.block(ei.Body)}
		}
		m := map[string]any{
			"kind": "IfStmt", "pos": e.pos(n.Pos()),
			"cond": e.expr(n.Cond), "then": e.block(n.Then), "elseIfs": elseIfs,
		}
		if n.Else != nil {
			m["else"] = e.block(n.Else)
		}
		return m
	case *ast.WhileStmt:
		return map[string]any{"kind": "WhileStmt", "pos": e.pos(n.Pos()), "cond": e.expr(n.Cond), "body": e.block(n.Body)}
	case *ast.ForStmt:
		m := map[string]any{
			"kind": "ForStmt", "pos": e.pos(n.Pos()),
			"body": e.block(n.Body), "allocations": n.Allocations,
		}
		if n.Init != nil {
			m["init"] = e.stmt(n.Init)
		}
		if n.Cond != nil {
			m["cond"] = e.expr(n.Cond)
		}
		if n.Step != nil {
			m["step"] = e.expr(n.Step)
		}
		return m
	case *ast.DeclStmt:
		decls := make([]any, len(n.Decls))
		for i, d := range n.Decls {
			decls[i] = map[string]any{
				"name": e.name(d.Name), "captured": d.Captured,
				"stackPos": d.StackPos, "init": e.expr(d.Init),
			}
		}
		return map[string]any{"kind": "DeclStmt", "pos": e.pos(n.Pos()), "mutable": n.Mutable, "decls": decls}
	case *ast.ControlFlowStmt:
		m := map[string]any{
			"kind": "ControlFlowStmt", "pos": e.pos(n.Pos()),
			"cfKind": cfKindName(n.Kind), "allocations": n.Allocations,
		}
		if n.Value != nil {
			m["value"] = e.expr(n.Value)
		}
		return m
	default:
		return map[string]any{"kind": "UnknownStmt"}
	}
}

func cfKindName(k ast.ControlFlowKind) string {
	switch k {
	case ast.CFBreak:
		return "break"
	case ast.CFContinue:
		return "continue"
	case ast.CFReturn:
		return "return"
	default:
		return "unknown"
	}
}

func (e *Encoder) expr(x ast.Expr) map[string]any {
	if x == nil {
		return nil
	}
	switch n := x.(type) {
	case *ast.NilLit:
		return map[string]any{"kind": "NilLit", "pos": e.pos(n.Pos())}
	case *ast.BoolLit:
		return map[string]any{"kind": "BoolLit", "pos": e.pos(n.Pos()), "value": n.Value}
	case *ast.NumberLit:
		return map[string]any{"kind": "NumberLit", "pos": e.pos(n.Pos()), "value": n.Value}
	case *ast.StringLit:
		return map[string]any{"kind": "StringLit", "pos": e.pos(n.Pos()), "value": e.name(n.Index)}
	case *ast.Identifier:
		return map[string]any{"kind": "Identifier", "pos": e.pos(n.Pos()), "name": e.name(n.Name)}
	case *ast.StackRef:
		return map[string]any{"kind": "StackRef", "pos": e.pos(n.Pos()), "pointer": e.stackPointer(n.Pointer)}
	case *ast.StaticRef:
		return map[string]any{
			"kind": "StaticRef", "pos": e.pos(n.Pos()), "refKind": staticKindName(n.Kind),
			"name": e.name(n.Name), "module": n.Module, "procIdx": n.ProcIdx,
		}
	case *ast.ThisExpr:
		return map[string]any{"kind": "ThisExpr", "pos": e.pos(n.Pos())}
	case *ast.LambdaRef:
		return map[string]any{"kind": "LambdaRef", "pos": e.pos(n.Pos()), "index": n.Index}
	case *ast.BinaryExpr:
		return map[string]any{
			"kind": "BinaryExpr", "pos": e.pos(n.Pos()), "op": n.Op.String(),
			"left": e.expr(n.Left), "right": e.expr(n.Right),
		}
	case *ast.UnaryExpr:
		return map[string]any{"kind": "UnaryExpr", "pos": e.pos(n.Pos()), "op": n.Op.String(), "x": e.expr(n.X)}
	case *ast.AssignExpr:
		m := map[string]any{
			"kind": "AssignExpr", "pos": e.pos(n.Pos()),
			"target": e.expr(n.Target), "value": e.expr(n.Value),
		}
		if n.CompoundOp != token.ILLEGAL {
			m["compoundOp"] = n.CompoundOp.String()
		}
		return m
	case *ast.IndexExpr:
		return map[string]any{"kind": "IndexExpr", "pos": e.pos(n.Pos()), "x": e.expr(n.X), "index": e.expr(n.Index)}
	case *ast.PropertyExpr:
		return map[string]any{"kind": "PropertyExpr", "pos": e.pos(n.Pos()), "x": e.expr(n.X), "name": e.name(n.Name)}
	case *ast.ArrayLit:
		elems := make([]any, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = e.expr(el)
		}
		return map[string]any{"kind": "ArrayLit", "pos": e.pos(n.Pos()), "elements": elems}
	case *ast.HashLit:
		entries := make([]any, len(n.Entries))
		for i, ent := range n.Entries {
			entries[i] = e.hashEntry(ent)
		}
		return map[string]any{"kind": "HashLit", "pos": e.pos(n.Pos()), "mutable": n.Mutable, "entries": entries}
	case *ast.CallExpr:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = e.expr(a)
		}
		return map[string]any{"kind": "CallExpr", "pos": e.pos(n.Pos()), "callee": e.expr(n.Callee), "args": args}
	default:
		return map[string]any{"kind": "UnknownExpr"}
	}
}

func (e *Encoder) hashEntry(h *ast.HashEntry) map[string]any {
	m := map[string]any{"key": e.name(h.Key)}
	if h.Kind == ast.AccessValue {
		m["value"] = e.expr(h.Value)
		return m
	}
	if h.Get != nil {
		m["get"] = e.accessFunc(h.Get)
	}
	if h.Set != nil {
		m["set"] = e.accessFunc(h.Set)
	}
	return m
}

func (e *Encoder) accessFunc(a *ast.AccessFunc) map[string]any {
	switch a.FKind {
	case ast.AccessFuncCaptured:
		return map[string]any{"form": "captured", "pointer": e.stackPointer(a.Pointer)}
	case ast.AccessFuncClosure:
		return map[string]any{"form": "closure", "closureId": a.ClosureID}
	default:
		return map[string]any{"form": "none"}
	}
}

func (e *Encoder) stackPointer(p ast.StackPointer) map[string]any {
	kind := "offset"
	if p.Kind == ast.Captured {
		kind = "captured"
	}
	return map[string]any{"kind": kind, "index": p.Index}
}

func staticKindName(k ast.StaticKind) string {
	switch k {
	case ast.StaticTopLevelFunc:
		return "topLevelFunc"
	case ast.StaticImportedFunc:
		return "importedFunc"
	case ast.StaticImportedModule:
		return "importedModule"
	case ast.StaticImportedNative:
		return "importedNative"
	default:
		return "unknown"
	}
}

// Equal reports whether a and b are the same JSON document up to key
// order: object keys are compared as sets, array elements positionally.
func Equal(a, b []byte) bool {
	return valuesEqual(gjson.ParseBytes(a), gjson.ParseBytes(b))
}

func valuesEqual(a, b gjson.Result) bool {
	switch {
	case a.IsObject() && b.IsObject():
		am, bm := a.Map(), b.Map()
		if len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !valuesEqual(av, bv) {
				return false
			}
		}
		return true
	case a.IsArray() && b.IsArray():
		aa, ba := a.Array(), b.Array()
		if len(aa) != len(ba) {
			return false
		}
		for i := range aa {
			if !valuesEqual(aa[i], ba[i]) {
				return false
			}
		}
		return true
	default:
		return a.Raw == b.Raw
	}
}

// PatchField sets the JSON value at path (gjson/sjson dotted-path
// syntax) to value without unmarshaling and remarshaling doc — the
// surgical edit round-trip tests use to perturb one field (e.g. a
// position) and confirm Equal then reports a difference.
func PatchField(doc []byte, path string, value any) ([]byte, error) {
	return sjson.SetBytes(doc, path, value)
}
