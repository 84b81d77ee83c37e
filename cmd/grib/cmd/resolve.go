package cmd

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/cwbudde/grib/internal/astjson"
)

var (
	resolveEval        string
	resolveDumpResolved bool
	resolveJSON        bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Resolve a Grib program without executing it",
	Long: `Run scope resolution, capture inference, and stack-slot assignment
over a parsed program, then print the resolved tree — every
Identifier rewritten to a StackRef or StaticRef, every Block carrying
its Allocations count.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&resolveEval, "eval", "e", "", "resolve inline code instead of reading from file")
	resolveCmd.Flags().BoolVar(&resolveDumpResolved, "dump-resolved", true, "pretty-print the resolved AST")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "emit the serialized-AST JSON form instead")
}

func runResolve(cmd *cobra.Command, args []string) error {
	src, filename, err := readInput(resolveEval, args)
	if err != nil {
		return failf(exitResolve, "%s", err)
	}

	result, err := compile(src, filename)
	if err != nil {
		return err
	}

	if resolveJSON {
		data, err := astjson.NewEncoder(result.strings).Program(result.prog)
		if err != nil {
			return failf(exitResolve, "failed to serialize AST: %v", err)
		}
		fmt.Println(string(data))
		return nil
	}
	if resolveDumpResolved {
		pretty.Println(result.prog)
	}
	return nil
}
