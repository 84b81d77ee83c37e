package value_test

import (
	"math"
	"testing"

	"github.com/cwbudde/grib/internal/intern"
	"github.com/cwbudde/grib/internal/value"
)

// fixedStrings resolves every interned ID to the same text, enough for
// tests that only ever build String values via value.StaticString.
type fixedStrings struct{}

func (fixedStrings) Lookup(intern.ID) string       { return "" }
func (fixedStrings) HeapString(int) (string, bool) { return "", false }

func TestCastNumCoercesEachKind(t *testing.T) {
	var s fixedStrings
	cases := []struct {
		name string
		v    value.Value
		want float64
	}{
		{"nil", value.NilValue(), 0},
		{"true", value.BoolValue(true), 1},
		{"false", value.BoolValue(false), 0},
		{"number", value.NumberValue(3.5), 3.5},
		{"numeric string", value.StaticString("42"), 42},
	}
	for _, c := range cases {
		if got := value.CastNum(c.v, s); got != c.want {
			t.Errorf("%s: CastNum = %v, want %v", c.name, got, c.want)
		}
	}

	if got := value.CastNum(value.StaticString("nope"), s); !math.IsNaN(got) {
		t.Errorf("CastNum(non-numeric string) = %v, want NaN", got)
	}
	if got := value.CastNum(value.NativeModule("console"), s); !math.IsNaN(got) {
		t.Errorf("CastNum(module) = %v, want NaN", got)
	}
}

func TestCastIndRejectsNonIntegralInputs(t *testing.T) {
	var s fixedStrings
	if n, ok := value.CastInd(value.NumberValue(3.9), s); !ok || n != 3 {
		t.Errorf("CastInd(3.9) = (%d, %v), want (3, true)", n, ok)
	}
	if _, ok := value.CastInd(value.NumberValue(-1), s); ok {
		t.Error("CastInd(-1) should reject negative indices")
	}
	if _, ok := value.CastInd(value.StaticString("nope"), s); ok {
		t.Error("CastInd(non-numeric string) should reject")
	}
	if _, ok := value.CastInd(value.NumberValue(math.Inf(1)), s); ok {
		t.Error("CastInd(+Inf) should reject")
	}
}

func TestTruthyMatchesFalsyValueSet(t *testing.T) {
	var s fixedStrings
	falsy := []value.Value{
		value.NilValue(),
		value.BoolValue(false),
		value.NumberValue(0),
		value.StaticString(""),
	}
	for _, v := range falsy {
		if value.Truthy(v, s) {
			t.Errorf("Truthy(%v) = true, want false", v)
		}
	}

	truthy := []value.Value{
		value.BoolValue(true),
		value.NumberValue(-1),
		value.StaticString("0"),
		value.NativeModule("console"),
		value.HeapValue(0),
	}
	for _, v := range truthy {
		if !value.Truthy(v, s) {
			t.Errorf("Truthy(%v) = false, want true", v)
		}
	}
}
