package cmd

import (
	"bytes"
	"testing"

	"github.com/cwbudde/grib/internal/native"
)

// execWithArgs runs the root command with args, capturing whatever
// console.println wrote, and returns it alongside the process exit
// code Execute would have returned.
func execWithArgs(t *testing.T, args ...string) (stdout string, code int) {
	t.Helper()

	runEval, runDumpAST, runDumpResolved, runTrace, runConfigPath = "", false, false, false, ""

	var buf bytes.Buffer
	prev := native.Stdout
	native.Stdout = &buf
	defer func() { native.Stdout = prev }()

	rootCmd.SetArgs(args)
	code = Execute()
	return buf.String(), code
}

func TestRunEvalSuccessExitsZero(t *testing.T) {
	out, code := execWithArgs(t, "run", "-e", `import console from "console"; console.println(1+1);`)
	if code != exitOK {
		t.Fatalf("exit code = %d, want %d", code, exitOK)
	}
	if out != "2\n" {
		t.Errorf("stdout = %q, want %q", out, "2\n")
	}
}

// `@` starts a line comment, so it swallows the trailing `;` and the
// declaration reaches end of input unterminated — always a nonzero
// exit. This only pins down the exit code's sign, not which stage's
// code it lands on.
func TestRunCommentSwallowingSemicolonExitsNonZero(t *testing.T) {
	_, code := execWithArgs(t, "run", "-e", `decl x = 1 @ ;`)
	if code == exitOK {
		t.Fatal("expected a nonzero exit code for a declaration left unterminated by a comment")
	}
}

func TestRunResolveErrorExitsThree(t *testing.T) {
	_, code := execWithArgs(t, "run", "-e", `break;`)
	if code != exitResolve {
		t.Fatalf("exit code = %d, want %d", code, exitResolve)
	}
}
