package cmd

import (
	"fmt"
	"os"

	"github.com/flowby/flowby/internal/lexer"
	"github.com/flowby/flowby/internal/token"
	"github.com/spf13/cobra"
)

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Print the raw token stream for a Flowby script",
	Long: `Tokenize a Flowby script and print the resulting tokens, a
debugging aid for the lexer's indentation algorithm.`,
	Args: cobra.ExactArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func lexScript(_ *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	l := lexer.New(string(src))
	for {
		tok := l.NextToken()
		printToken(tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	if errs := l.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "lexer error at %d:%d: %s\n", e.Pos.Line, e.Pos.Column, e.Message)
		}
		return fmt.Errorf("lexing failed with %d error(s)", len(errs))
	}
	return nil
}

func printToken(tok token.Token) {
	if tok.Literal == "" {
		fmt.Printf("[%-10s] @%d:%d\n", tok.Kind, tok.Pos.Line, tok.Pos.Column)
		return
	}
	fmt.Printf("[%-10s] %q @%d:%d\n", tok.Kind, tok.Literal, tok.Pos.Line, tok.Pos.Column)
}
