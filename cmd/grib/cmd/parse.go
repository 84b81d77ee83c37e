package cmd

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/cwbudde/grib/internal/astjson"
)

var (
	parseEval    string
	parseDumpAST bool
	parseJSON    bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse Grib source and display the AST before resolution",
	Long: `Parse Grib source into its unresolved syntax tree.

Use --dump-ast to pretty-print every field of the tree (kr/pretty).
Use --json to emit the tidwall/gjson-comparable serialized form
instead, the same shape the test harness diffs for golden files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "pretty-print the full AST structure")
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "emit the serialized-AST JSON form")
}

func runParse(cmd *cobra.Command, args []string) error {
	src, filename, err := readInput(parseEval, args)
	if err != nil {
		return failf(exitParse, "%s", err)
	}

	prog, strings, bag := parseSource(src, filename)
	if bag.HasErrors() {
		code := exitParse
		if onlyLexErrors(bag) {
			code = exitLexical
		}
		return fail(code, reportErr(bag, src))
	}

	switch {
	case parseJSON:
		data, err := astjson.NewEncoder(strings).Program(prog)
		if err != nil {
			return failf(exitParse, "failed to serialize AST: %v", err)
		}
		fmt.Println(string(data))
	case parseDumpAST:
		pretty.Println(prog)
	default:
		fmt.Printf("parsed %d top-level statement(s), %d procedure(s), %d import(s)\n",
			len(prog.Body.Stmts), len(prog.Procedures), len(prog.Imports))
	}
	return nil
}
