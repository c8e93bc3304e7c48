package cmd

import (
	"fmt"
	"os"

	"github.com/flowby/flowby/internal/errors"
	"github.com/flowby/flowby/internal/lexer"
	"github.com/flowby/flowby/internal/parser"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the AST for a Flowby script without running it",
	Long: `Parse a Flowby script and print its AST along with any VR-006
unused-variable warnings, without interpreting it.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	filename := args[0]
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	input := string(src)

	noColor, _ := cmd.Flags().GetBool("no-color")
	color := !noColor

	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fe := errors.New(errors.ParserError, e.Pos, e.Message, input, filename)
			fmt.Fprintln(os.Stderr, fe.FormatWithContext(2, color))
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	fmt.Println(program.String())

	for _, w := range p.Warnings() {
		fmt.Fprintf(os.Stderr, "warning %s at %d:%d: %s\n", w.Code, w.Pos.Line, w.Pos.Column, w.Message)
	}

	return nil
}
