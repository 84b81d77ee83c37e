package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/cwbudde/grib/internal/ast"
	"github.com/cwbudde/grib/internal/config"
)

var (
	runEval         string
	runDumpAST      bool
	runDumpResolved bool
	runTrace        bool
	runConfigPath   string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Lex, parse, resolve, and evaluate a Grib program",
	Long: `Run a Grib program end to end: tokenize, parse, resolve identifiers
and captures, assign stack slots, then evaluate the resolved tree.

Examples:
  grib run script.grib
  grib run -e "console.println(\"hi\");"
  grib run --trace script.grib
  grib run --config grib.yaml script.grib`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEval, "eval", "e", "", "run inline code instead of reading from file")
	runCmd.Flags().BoolVar(&runDumpAST, "dump-ast", false, "dump the parsed AST before resolving")
	runCmd.Flags().BoolVar(&runDumpResolved, "dump-resolved", false, "dump the resolved AST before evaluating")
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "print one line per evaluated statement to stderr")
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to a grib.yaml (default: grib.yaml next to the script)")
}

func runScript(cmd *cobra.Command, args []string) error {
	src, filename, err := readInput(runEval, args)
	if err != nil {
		return failf(exitParse, "%s", err)
	}

	cfg, err := loadConfig(filename)
	if err != nil {
		return failf(exitRuntime, "failed to load config: %v", err)
	}

	prog, _, bag := parseSource(src, filename)
	if bag.HasErrors() {
		code := exitParse
		if onlyLexErrors(bag) {
			code = exitLexical
		}
		return fail(code, reportErr(bag, src))
	}
	if runDumpAST {
		pretty.Println(prog)
	}

	if rbag := resolveProgram(prog); rbag.HasErrors() {
		return fail(exitResolve, reportErr(rbag, src))
	}
	if runDumpResolved {
		pretty.Println(prog)
	}

	if err := rejectDisabledNatives(prog, cfg); err != nil {
		return failf(exitResolve, "%s", err)
	}

	return runProgram(prog, cfg.EvalConfig(runTrace))
}

// loadConfig reads runConfigPath, or grib.yaml next to filename if
// --config was not given and such a file exists; Default otherwise.
func loadConfig(filename string) (config.Config, error) {
	path := runConfigPath
	if path == "" {
		candidate := filepath.Join(filepath.Dir(filename), "grib.yaml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// rejectDisabledNatives fails the run before evaluation (not silently
// at call time) when the program imports a native package grib.yaml
// didn't enable.
func rejectDisabledNatives(prog *ast.Program, cfg config.Config) error {
	for _, imp := range prog.Imports {
		if !imp.IsNative {
			continue
		}
		pkg := imp.Path
		if !cfg.NativeEnabled(pkg) {
			return fmt.Errorf("native package %q is disabled by configuration", pkg)
		}
	}
	return nil
}
