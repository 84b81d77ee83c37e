package eval_test

import "testing"

func TestArrayRepetitionTilesElements(t *testing.T) {
	src := `
import console from "console";
im a = [1, 2] * 3;
console.println(a);
`
	got := runScript(t, src)
	want := "1,2,1,2,1,2\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestCrossKindEqualityDefaultsToNotEqual(t *testing.T) {
	src := `
import console from "console";
console.println(1 == "1");
console.println(1 != "1");
console.println(nil != false);
`
	got := runScript(t, src)
	want := "false\ntrue\ntrue\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestCallingNonCallableYieldsNil(t *testing.T) {
	src := `
import console from "console";
decl x = 5;
console.println(x());
`
	got := runScript(t, src)
	want := "nil\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestOrReturnsDecidingOperand(t *testing.T) {
	src := `
import console from "console";
console.println(0 || "fallback");
console.println("set" && "also set");
`
	got := runScript(t, src)
	want := "fallback\nalso set\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
