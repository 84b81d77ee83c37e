package value

import (
	"math"
	"strconv"
)

// CastNum implements the language's numeric coercion: Nil is 0, Bool
// is 0/1, Number is itself, String parses as a float (NaN if it
// doesn't parse), and everything else (Callable, Module, Heap) is NaN.
func CastNum(v Value, s Strings) float64 {
	switch v.Kind {
	case Nil:
		return 0
	case Bool:
		if v.B {
			return 1
		}
		return 0
	case Number:
		return v.Num
	case String:
		f, err := strconv.ParseFloat(v.Text(s), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default: // Callable, Module, Heap
		return math.NaN()
	}
}

// CastInd truncates CastNum toward zero and requires the result be a
// finite, non-negative integer that fits an int; ok is false otherwise
// (used for out-of-bounds array/string index checks, which read as Nil
// or no-op rather than erroring).
func CastInd(v Value, s Strings) (int, bool) {
	n := math.Trunc(CastNum(v, s))
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 || n >= math.MaxInt {
		return 0, false
	}
	return int(n), true
}

// Truthy implements the language's boolean coercion: Nil, false, 0,
// and "" are false; everything else, including callables, modules, and
// heap pointers, is true.
func Truthy(v Value, s Strings) bool {
	switch v.Kind {
	case Nil:
		return false
	case Bool:
		return v.B
	case Number:
		return v.Num != 0
	case String:
		return v.Text(s) != ""
	default: // Callable, Module, Heap
		return true
	}
}
