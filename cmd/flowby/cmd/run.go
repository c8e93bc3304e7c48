package cmd

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flowby/flowby/internal/config"
	"github.com/flowby/flowby/internal/errors"
	"github.com/flowby/flowby/internal/host"
	"github.com/flowby/flowby/internal/interp"
	"github.com/flowby/flowby/internal/lexer"
	"github.com/flowby/flowby/internal/module"
	"github.com/flowby/flowby/internal/parser"
	"github.com/flowby/flowby/internal/token"
	"github.com/spf13/cobra"
)

var (
	runDumpAST      bool
	runTrace        bool
	runShowWarnings bool
)

func tokenPosition(line int) token.Position {
	return token.Position{Line: line, Column: 1}
}

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a Flowby script",
	Long: `Lex, parse, and interpret a Flowby script.

Examples:
  flowby run script.flow
  flowby run --dump-ast script.flow
  flowby run --show-warnings script.flow`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runDumpAST, "dump-ast", false, "dump the parsed AST before running")
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "print a trace line when the run starts (statements are not traced individually)")
	runCmd.Flags().BoolVar(&runShowWarnings, "show-warnings", false, "print VR-006 unused-variable warnings")
}

func runScript(cmd *cobra.Command, args []string) error {
	filename := args[0]
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	input := string(src)

	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()

	noColor, _ := cmd.Flags().GetBool("no-color")
	color := !noColor

	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fe := errors.New(errors.ParserError, e.Pos, e.Message, input, filename)
			fmt.Fprintln(os.Stderr, fe.FormatWithContext(2, color))
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	if runShowWarnings {
		for _, w := range p.Warnings() {
			fmt.Fprintf(os.Stderr, "warning %s at %d:%d: %s\n", w.Code, w.Pos.Line, w.Pos.Column, w.Message)
		}
	}

	if runDumpAST {
		fmt.Println(program.String())
	}

	dir := filepath.Dir(filename)
	env, err := config.Load(filename, os.Getenv("DOTENV_DIR"))
	if err != nil {
		return fmt.Errorf("failed to load .env configuration: %w", err)
	}

	h := host.NewCLIHost(os.Stdin, os.Stdout, os.Stderr, env, false, color)
	ip := interp.New(h, dir)

	if runTrace {
		fmt.Fprintf(os.Stderr, "[trace] running %s\n", filename)
	}

	runErr := ip.Run(program)
	if runErr == nil {
		return nil
	}

	var exitErr *interp.ExitError
	if stderrors.As(runErr, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintln(os.Stderr, exitErr.Message)
		}
		os.Exit(exitErr.Code)
		return nil
	}

	var rtErr *interp.RuntimeError
	if stderrors.As(runErr, &rtErr) {
		fe := errors.New(rtErr.Kind, tokenPosition(rtErr.Line), rtErr.Message, input, filename)
		fmt.Fprintln(os.Stderr, fe.FormatWithContext(2, color))
		return fmt.Errorf("execution failed")
	}

	var modErr *module.Error
	if stderrors.As(runErr, &modErr) {
		fmt.Fprintln(os.Stderr, modErr.Error())
		return fmt.Errorf("execution failed")
	}

	return runErr
}
