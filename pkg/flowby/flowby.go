// Package flowby is the embedder-facing façade over the interpreter
// core: a small Engine type with New/Run/RunFile, grounded on the
// shape of the teacher's pkg/dwscript engine (New() plus
// Parse/Compile/Eval), trimmed to the two entry points an embedder
// actually needs once lexing, parsing, and module loading are already
// handled internally by Run/RunFile.
package flowby

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flowby/flowby/internal/ast"
	"github.com/flowby/flowby/internal/config"
	"github.com/flowby/flowby/internal/host"
	"github.com/flowby/flowby/internal/interp"
	"github.com/flowby/flowby/internal/lexer"
	"github.com/flowby/flowby/internal/parser"
)

// Engine runs Flowby source against a configurable Host.
type Engine struct {
	host host.Host
	dir  string
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithHost overrides the default NullHost with one that can perform
// real actions, resolve system variables, or reach a real namespace
// implementation.
func WithHost(h host.Host) Option {
	return func(e *Engine) { e.host = h }
}

// WithBaseDir sets the directory relative imports resolve against for
// source run through Run (RunFile derives this from the file's own
// path instead).
func WithBaseDir(dir string) Option {
	return func(e *Engine) { e.dir = dir }
}

// New builds an Engine. With no options it runs scripts against a
// NullHost and resolves imports relative to the current directory.
func New(opts ...Option) *Engine {
	e := &Engine{host: host.NewNullHost(), dir: "."}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run parses and interprets source as a standalone script (§4.1).
func (e *Engine) Run(source string) error {
	program, err := parseSource(source, "<embedded>")
	if err != nil {
		return err
	}
	ip := interp.New(e.host, e.dir)
	return ip.Run(program)
}

// RunFile reads, parses, and interprets the Flowby script at path,
// resolving its imports relative to its own directory and layering
// its `.env` configuration the way `flowby run` does (§6.6) unless the
// Engine was built with WithHost, which takes precedence over the
// default CLIHost-less environment lookup.
func (e *Engine) RunFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("flowby: failed to read %s: %w", path, err)
	}
	program, err := parseSource(string(src), path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	h := e.host
	if _, isNull := h.(*host.NullHost); isNull {
		env, err := config.Load(path, os.Getenv("DOTENV_DIR"))
		if err != nil {
			return fmt.Errorf("flowby: failed to load .env configuration: %w", err)
		}
		h = host.NewCLIHost(os.Stdin, os.Stdout, os.Stderr, env, false, false)
	}
	ip := interp.New(h, dir)
	return ip.Run(program)
}

func parseSource(source, filename string) (*ast.Program, error) {
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("flowby: %s: parsing failed with %d error(s): %w", filename, len(errs), errs[0])
	}
	return program, nil
}
