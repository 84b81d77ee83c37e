// Package diag implements Grib's compiler diagnostics: a taxonomy of
// named error conditions plus the source-pointer formatting used to
// report them.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"github.com/cwbudde/grib/internal/token"
)

// Stage identifies which pipeline phase produced a Diagnostic.
type Stage string

const (
	StageLex      Stage = "lex"
	StageParse    Stage = "parse"
	StageResolve  Stage = "resolve"
	StageRuntime  Stage = "runtime"
)

// Kind enumerates the named error conditions the resolver and runtime report.
type Kind string

const (
	KindLexical               Kind = "LexicalError"
	KindParse                 Kind = "ParseError"
	KindIdentifierNotFound    Kind = "IdentifierNotFound"
	KindImmutableModification Kind = "ImmutableModification"
	KindInvalidRedefinition   Kind = "InvalidRedefinition"
	KindInvalidThis           Kind = "InvalidThis"
	KindInvalidReturn         Kind = "InvalidReturn"
	KindInvalidBreak          Kind = "InvalidBreak"
	KindInvalidContinue       Kind = "InvalidContinue"
	KindInvalidLeftExpression Kind = "InvalidLeftExpression"
	KindFunctionNotAtTopLevel Kind = "FunctionNotAtTopLevel"
	KindModuleLoadFailure     Kind = "ModuleLoadFailure"
	KindStackOverflow         Kind = "StackOverflow"
)

// Diagnostic is a single compile-time or fatal runtime error, located
// in source.
type Diagnostic struct {
	Message string
	File    string
	Pos     token.Position
	Kind    Kind
	Stage   Stage
}

func (d *Diagnostic) Error() string { return d.Format(false) }

// Format renders the diagnostic's kind, location and message, without
// any source line; FormatSource adds the source line and caret.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", d.Kind, d.File, d.Pos.Line, d.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at %d:%d\n", d.Kind, d.Pos.Line, d.Pos.Column)
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

// FormatSource renders the diagnostic with the offending source line
// and a caret pointing at the column.
func (d *Diagnostic) FormatSource(source string, color bool) string {
	lines := strings.Split(source, "\n")
	if d.Pos.Line < 1 || d.Pos.Line > len(lines) {
		return d.Format(color)
	}
	line := lines[d.Pos.Line-1]

	var sb strings.Builder
	sb.WriteString(d.Format(color))
	sb.WriteString("\n")

	lineNum := fmt.Sprintf("%4d | ", d.Pos.Line)
	sb.WriteString(lineNum)
	sb.WriteString(line)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", len(lineNum)+max0(d.Pos.Column-1)))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString("^")
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Bag accumulates diagnostics during lexing/parsing/resolution.
// Compilation aborts before execution once the bag is non-empty; the
// CLI reports every diagnostic of the failing stage, in Sorted order.
type Bag struct {
	items []*Diagnostic
}

func (b *Bag) Add(d *Diagnostic) { b.items = append(b.items, d) }

// Merge appends every diagnostic from other into b.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

func (b *Bag) Addf(stage Stage, kind Kind, pos token.Position, format string, args ...any) {
	b.Add(&Diagnostic{Stage: stage, Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (b *Bag) HasErrors() bool { return len(b.items) > 0 }

func (b *Bag) Items() []*Diagnostic { return b.items }

func (b *Bag) First() *Diagnostic {
	if len(b.items) == 0 {
		return nil
	}
	return b.items[0]
}

// Sorted returns the diagnostics ordered by file then by the natural
// order of their "line:column" position string, so position 9:1 sorts
// before 10:1 instead of lexicographically after it.
func (b *Bag) Sorted() []*Diagnostic {
	out := make([]*Diagnostic, len(b.items))
	copy(out, b.items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return natural.Less(out[i].Pos.String(), out[j].Pos.String())
	})
	return out
}

// FormatAll renders every diagnostic in natural order, numbered when
// there is more than one (go-dws's FormatErrors shape).
func (b *Bag) FormatAll(color bool) string {
	items := b.Sorted()
	if len(items) == 0 {
		return ""
	}
	if len(items) == 1 {
		return items[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "compilation failed with %d error(s):\n\n", len(items))
	for i, d := range items {
		fmt.Fprintf(&sb, "[%d/%d] %s\n", i+1, len(items), d.Format(color))
		if i < len(items)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
