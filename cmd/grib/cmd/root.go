package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set by build flags.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "grib",
	Short: "Grib interpreter",
	Long: `grib is a Go implementation of the Grib scripting language.

Grib is a small dynamically-typed language with lexically scoped
closures, first-class lambdas, and hash objects with get/set accessor
properties, interpreted over a resolved syntax tree: identifier
resolution, capture inference, and stack-slot assignment all happen
once, ahead of execution, rather than by re-walking scopes at runtime.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// Execute runs the root command and returns the process exit code:
// 0 success, 1 lexical error, 2 parse error, 3 resolution error, 4
// runtime error, matching whichever stage's cliError the failing
// subcommand produced.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if ce, ok := err.(*cliError); ok {
			fmt.Fprintln(os.Stderr, ce.Error())
			return ce.code
		}
		fmt.Fprintln(os.Stderr, err)
		return exitParse
	}
	return exitOK
}
