// Package native implements Grib's built-in host packages: console,
// fmt, and math. Each is a plain registry of Go functions dispatched
// by name; the evaluator (the only thing that can supply a
// value.Host) is the sole caller.
package native

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cwbudde/grib/internal/value"
)

// Func is a native function's signature: the evaluator's rendering,
// string-allocation, and string-resolution capability, plus the
// already-evaluated argument vector, producing the call's result.
type Func func(h value.Host, args []value.Value) value.Value

// Package is one registrable host package's exported surface: callable
// functions and module-level constant bindings (e.g. math.PI).
type Package struct {
	Name   string
	Funcs  map[string]Func
	Consts map[string]value.Value
}

func arg(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.NilValue()
}

// Stdout and Stdin are package-level so a hosting CLI can redirect
// them (capturing output in tests) without threading an io.Writer
// through every call site.
var (
	Stdout io.Writer = os.Stdout
	Stdin            = bufio.NewReader(io.Reader(os.Stdin))
)

var Console = Package{
	Name: "console",
	Funcs: map[string]Func{
		"println": func(h value.Host, args []value.Value) value.Value {
			for i, a := range args {
				if i > 0 {
					fmt.Fprint(Stdout, " ")
				}
				fmt.Fprint(Stdout, h.Render(a))
			}
			fmt.Fprintln(Stdout)
			return value.NilValue()
		},
		"print": func(h value.Host, args []value.Value) value.Value {
			for i, a := range args {
				if i > 0 {
					fmt.Fprint(Stdout, " ")
				}
				fmt.Fprint(Stdout, h.Render(a))
			}
			return value.NilValue()
		},
		"readln": func(h value.Host, args []value.Value) value.Value {
			line, err := Stdin.ReadString('\n')
			if err != nil && line == "" {
				return value.NilValue()
			}
			for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
				line = line[:len(line)-1]
			}
			return h.NewString(line)
		},
	},
}

var Fmt = Package{
	Name: "fmt",
	Funcs: map[string]Func{
		"toNum": func(h value.Host, args []value.Value) value.Value {
			return value.NumberValue(value.CastNum(arg(args, 0), h))
		},
		"toStr": func(h value.Host, args []value.Value) value.Value {
			return h.NewString(h.Render(arg(args, 0)))
		},
		"toBool": func(h value.Host, args []value.Value) value.Value {
			return value.BoolValue(value.Truthy(arg(args, 0), h))
		},
	},
}

var Math = Package{
	Name: "math",
	Funcs: map[string]Func{
		"floor": unary(math.Floor),
		"ceil":  unary(math.Ceil),
		"round": unary(math.Round),
		"sqrt":  unary(math.Sqrt),
		"abs":   unary(math.Abs),
		"pow": func(h value.Host, args []value.Value) value.Value {
			return value.NumberValue(math.Pow(value.CastNum(arg(args, 0), h), value.CastNum(arg(args, 1), h)))
		},
		"max": func(h value.Host, args []value.Value) value.Value {
			return value.NumberValue(math.Max(value.CastNum(arg(args, 0), h), value.CastNum(arg(args, 1), h)))
		},
		"min": func(h value.Host, args []value.Value) value.Value {
			return value.NumberValue(math.Min(value.CastNum(arg(args, 0), h), value.CastNum(arg(args, 1), h)))
		},
	},
	Consts: map[string]value.Value{
		"PI": value.NumberValue(math.Pi),
		"E":  value.NumberValue(math.E),
	},
}

func unary(f func(float64) float64) Func {
	return func(h value.Host, args []value.Value) value.Value {
		return value.NumberValue(f(value.CastNum(arg(args, 0), h)))
	}
}

// Packages lists every registrable native package by name.
var Packages = map[string]Package{
	Console.Name: Console,
	Fmt.Name:     Fmt,
	Math.Name:    Math,
}

// Lookup finds the function named fn within package pkg.
func Lookup(pkg, fn string) (Func, bool) {
	p, ok := Packages[pkg]
	if !ok {
		return nil, false
	}
	f, ok := p.Funcs[fn]
	return f, ok
}
