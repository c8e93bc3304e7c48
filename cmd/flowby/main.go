// Command flowby is the CLI entry point: run/lex/parse/version
// subcommands wired through a cobra root command (cmd/flowby/cmd),
// following the shape of the teacher's cmd/dwscript binary.
package main

import (
	"fmt"
	"os"

	"github.com/flowby/flowby/cmd/flowby/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
