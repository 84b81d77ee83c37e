package cmd

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"
	"github.com/spf13/cobra"

	"github.com/cwbudde/grib/internal/lexer"
	"github.com/cwbudde/grib/internal/token"
)

var (
	lexEval       string
	lexShowPos    bool
	lexOnlyErrors bool
	lexListKinds  bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Grib file or expression",
	Long: `Tokenize a Grib program and print the resulting tokens.

Examples:
  grib lex script.grib
  grib lex -e "decl x = 1;"
  grib lex --show-pos script.grib
  grib lex --only-errors script.grib`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexOnlyErrors, "only-errors", false, "show only illegal tokens")
	lexCmd.Flags().BoolVar(&lexListKinds, "list-kinds", false, "list every token kind and exit")
}

func runLex(cmd *cobra.Command, args []string) error {
	if lexListKinds {
		printTokenKinds()
		return nil
	}

	src, filename, err := readInput(lexEval, args)
	if err != nil {
		return failf(exitLexical, "%s", err)
	}
	if verbose {
		fmt.Printf("Tokenizing: %s (%d bytes)\n---\n", filename, len(src))
	}

	l := lexer.New(src)
	errorCount := 0
	for {
		tok := l.NextToken()
		if lexOnlyErrors && tok.Kind != token.ILLEGAL {
			if tok.Kind == token.EOF {
				break
			}
			continue
		}
		if tok.Kind == token.ILLEGAL {
			errorCount++
		}
		printToken(tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	if errorCount > 0 {
		return failf(exitLexical, "found %d illegal token(s)", errorCount)
	}
	return nil
}

func printToken(tok token.Token) {
	out := fmt.Sprintf("[%-10s] %q", tok.Kind, tok.Literal)
	if lexShowPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(out)
}

// printTokenKinds lists every named token kind in alphabetical order,
// a small grep-ability aid for scripting against `grib lex`'s output.
func printTokenKinds() {
	names := []string{}
	for k := token.ILLEGAL; k <= token.PERCENT_EQ; k++ {
		names = append(names, k.String())
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	for _, n := range names {
		fmt.Println(n)
	}
}
