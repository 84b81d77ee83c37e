// Command grib is the CLI entry point for the Grib interpreter:
// lex/parse/resolve/run subcommands over the resolver+evaluator in
// internal/.
package main

import (
	"os"

	"github.com/cwbudde/grib/cmd/grib/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
