package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/diag"
	"github.com/cwbudde/grib/internal/eval"
	"github.com/cwbudde/grib/internal/intern"
	"github.com/cwbudde/grib/internal/parser"
	"github.com/cwbudde/grib/internal/resolver"
)

// Exit codes, refining spec's "nonzero on error" into a stable,
// documented contract: which pipeline stage failed is visible without
// parsing stderr.
const (
	exitOK       = 0
	exitLexical  = 1
	exitParse    = 2
	exitResolve  = 3
	exitRuntime  = 4
)

// cliError carries the exit code a failed RunE should produce, the way
// the bare "return fmt.Errorf(...)" pattern in a single-exit-code CLI
// can't.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }

func fail(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func failf(code int, format string, args ...any) error {
	return fail(code, fmt.Errorf(format, args...))
}

// readInput resolves a run/lex/parse/resolve subcommand's source: an
// inline -e/--eval string or a file argument, shared by every
// subcommand that accepts them. With neither, it returns an error;
// stdin is not read.
func readInput(evalExpr string, args []string) (src, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 0 {
		return "", "", fmt.Errorf("either provide a file path or use -e/--eval for inline code")
	}
	filename = args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return string(content), filename, nil
}

// moduleLoader resolves an `import ... from "path"` clause relative to
// baseDir, recursively parsing any module it reaches and merging every
// diagnostic (its own and its nested imports') into bag — the same
// shape parser.ParseModuleFile builds for a module loading another
// module, extended to the top-level program's own imports.
func moduleLoader(baseDir string, strings *intern.Table, bag *diag.Bag) parser.ModuleLoader {
	return func(rel string) (*ast.Module, error) {
		full := filepath.Join(baseDir, rel)
		mod, sub := parser.ParseModuleFile(full, strings)
		bag.Merge(sub)
		return mod, nil
	}
}

// parseSource lexes and parses src into a Program, collecting every
// lexical and parse diagnostic (including ones raised while loading
// imported modules) into a single bag.
func parseSource(src, filename string) (*ast.Program, *intern.Table, *diag.Bag) {
	strings := intern.New()
	bag := &diag.Bag{}
	loader := moduleLoader(filepath.Dir(filename), strings, bag)
	p := parser.New(src, filename, strings, loader)
	prog := p.ParseProgram()
	bag.Merge(p.Diagnostics())
	return prog, strings, bag
}

// resolveProgram runs semantic resolution over an already-parsed
// program and every custom module its imports reach, returning the
// diagnostics it produced.
func resolveProgram(prog *ast.Program) *diag.Bag {
	bag := resolver.New(prog).Resolve()
	seen := make(map[*ast.Module]bool)
	var walk func(imports []*ast.Import)
	walk = func(imports []*ast.Import) {
		for _, imp := range imports {
			if imp.IsNative || imp.Module == nil || seen[imp.Module] {
				continue
			}
			seen[imp.Module] = true
			bag.Merge(resolver.ResolveModule(imp.Module, prog.Strings))
			walk(imp.Module.Imports)
		}
	}
	walk(prog.Imports)
	return bag
}

// compileResult bundles everything a run/resolve subcommand needs past
// a successful parse+resolve, and the exit code a failure at any stage
// should produce.
type compileResult struct {
	prog    *ast.Program
	strings *intern.Table
}

// compile runs lex -> parse -> resolve, reporting the first stage's
// diagnostics (if any) to stderr and returning the exit code that
// stage's Non-goals-refining contract assigns it.
func compile(src, filename string) (*compileResult, error) {
	prog, strings, bag := parseSource(src, filename)
	if bag.HasErrors() {
		code := exitParse
		if onlyLexErrors(bag) {
			code = exitLexical
		}
		return nil, fail(code, reportErr(bag, src))
	}
	if rbag := resolveProgram(prog); rbag.HasErrors() {
		return nil, fail(exitResolve, reportErr(rbag, src))
	}
	return &compileResult{prog: prog, strings: strings}, nil
}

func onlyLexErrors(bag *diag.Bag) bool {
	for _, d := range bag.Items() {
		if d.Stage != diag.StageLex {
			return false
		}
	}
	return true
}

func reportErr(bag *diag.Bag, src string) error {
	items := bag.Sorted()
	if len(items) == 1 {
		return fmt.Errorf("%s", items[0].FormatSource(src, false))
	}
	return fmt.Errorf("%s", bag.FormatAll(false))
}

// runProgram resolves prog's entry point into a Machine and executes
// it, wrapping any fatal runtime condition as the exitRuntime case.
func runProgram(prog *ast.Program, cfg eval.Config) error {
	m := eval.New(prog, cfg)
	if err := m.Run(); err != nil {
		d := eval.RuntimeError(err)
		return fail(exitRuntime, fmt.Errorf("%s", d.Format(false)))
	}
	return nil
}
