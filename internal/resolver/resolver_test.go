package resolver_test

import (
	"testing"

	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/intern"
	"github.com/cwbudde/grib/internal/parser"
	"github.com/cwbudde/grib/internal/resolver"
)

func firstKind(t *testing.T, src string) diag.Kind {
	t.Helper()
	strs := intern.New()
	p := parser.New(src, "resolver.grib", strs, nil)
	prog := p.ParseProgram()
	if bag := p.Diagnostics(); bag.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %s", src, bag.FormatAll(false))
	}
	r := resolver.New(prog)
	bag := r.Resolve()
	if !bag.HasErrors() {
		t.Fatalf("expected resolve error for %q, got none", src)
	}
	return bag.First().Kind
}

func TestSelfReferencingInitializerIsIdentifierNotFound(t *testing.T) {
	got := firstKind(t, `decl x = x + 1;`)
	if got != diag.KindIdentifierNotFound {
		t.Errorf("kind = %s, want %s", got, diag.KindIdentifierNotFound)
	}
}

func TestThisAtModuleTopLevelIsInvalidThis(t *testing.T) {
	got := firstKind(t, `decl x = this;`)
	if got != diag.KindInvalidThis {
		t.Errorf("kind = %s, want %s", got, diag.KindInvalidThis)
	}
}

func TestBreakOutsideLoopIsInvalidBreak(t *testing.T) {
	got := firstKind(t, `break;`)
	if got != diag.KindInvalidBreak {
		t.Errorf("kind = %s, want %s", got, diag.KindInvalidBreak)
	}
}

func TestReturnOutsideFunctionIsInvalidReturn(t *testing.T) {
	got := firstKind(t, `return 1;`)
	if got != diag.KindInvalidReturn {
		t.Errorf("kind = %s, want %s", got, diag.KindInvalidReturn)
	}
}

func TestProcNotAtTopLevelIsFunctionNotAtTopLevel(t *testing.T) {
	got := firstKind(t, `if (true) { proc g() {} }`)
	if got != diag.KindFunctionNotAtTopLevel {
		t.Errorf("kind = %s, want %s", got, diag.KindFunctionNotAtTopLevel)
	}
}

func TestWritingImmutableBindingIsImmutableModification(t *testing.T) {
	got := firstKind(t, `im x = 1; x = 2;`)
	if got != diag.KindImmutableModification {
		t.Errorf("kind = %s, want %s", got, diag.KindImmutableModification)
	}
}

// A lambda body that references an outer `decl` marks that declaration
// captured, promoting it to a cell rather than leaving it a plain stack
// slot.
func TestLambdaCaptureMarksOuterDeclCaptured(t *testing.T) {
	strs := intern.New()
	src := `decl count = 0; im inc = lam || { count = count + 1; return count; };`
	p := parser.New(src, "capture.grib", strs, nil)
	prog := p.ParseProgram()
	if bag := p.Diagnostics(); bag.HasErrors() {
		t.Fatalf("parse errors: %s", bag.FormatAll(false))
	}
	r := resolver.New(prog)
	if bag := r.Resolve(); bag.HasErrors() {
		t.Fatalf("resolve errors: %s", bag.FormatAll(false))
	}
	if len(prog.Body.Stmts) == 0 {
		t.Fatal("expected at least one top-level statement")
	}
	decl, ok := prog.Body.Stmts[0].(*ast.DeclStmt)
	if !ok {
		t.Fatalf("first statement is %T, not *ast.DeclStmt", prog.Body.Stmts[0])
	}
	if len(decl.Decls) != 1 || !decl.Decls[0].Captured {
		t.Errorf("expected count's declarator to be marked captured, got %+v", decl.Decls)
	}
}
