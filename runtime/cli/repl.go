// Package cli hosts the interactive loop: it reads lines, repaints them
// with annotations while they are being typed, and hands committed lines
// to the evaluator.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/JustAGod1/fosh/runtime/annotator"
	"github.com/JustAGod1/fosh/runtime/builtin"
	"github.com/JustAGod1/fosh/runtime/diag"
	"github.com/JustAGod1/fosh/runtime/engine"
	"github.com/JustAGod1/fosh/runtime/executor"
	"github.com/JustAGod1/fosh/runtime/parser"
)

// Options configures a REPL.
type Options struct {
	Prompt   string
	Universe *engine.Universe
	Registry *annotator.Registry
	Input    *os.File
	Output   *os.File
}

// REPL owns one read-evaluate-print loop over the configured streams.
type REPL struct {
	prompt    string
	universe  *engine.Universe
	registry  *annotator.Registry
	evaluator *executor.Evaluator
	input     *os.File
	output    *os.File

	// lastTree is the tree of the line currently being evaluated; the
	// reporter callback needs it to resolve blamed spans.
	lastTree *parser.Tree
}

func New(opts Options) *REPL {
	if opts.Prompt == "" {
		opts.Prompt = "$ "
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Registry == nil {
		opts.Registry = annotator.NewRegistry()
	}
	r := &REPL{
		prompt:   opts.Prompt,
		universe: opts.Universe,
		registry: opts.Registry,
		input:    opts.Input,
		output:   opts.Output,
	}
	r.evaluator = executor.New(opts.Universe)
	r.evaluator.Reporter = func(bundle *diag.Bundle) {
		r.printBundle(r.lastTree, bundle)
	}
	return r
}

var errInterrupted = errors.New("interrupted")

// Run loops until EOF. It returns nil on a clean EOF and an error only
// for fatal terminal failures.
func (r *REPL) Run() error {
	interactive := term.IsTerminal(int(r.input.Fd()))
	reader := bufio.NewReader(r.input)
	for {
		var line string
		var err error
		if interactive {
			line, err = r.editLine()
		} else {
			line, err = readPlainLine(reader)
		}
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, errInterrupted):
			fmt.Fprint(r.output, "^C\r\n")
			continue
		case err != nil:
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := r.evaluate(line); err != nil {
			if errors.Is(err, builtin.ErrExit) {
				return nil
			}
			return err
		}
	}
}

// readPlainLine reads a \n-delimited line from a non-terminal stream,
// honoring DEL as backspace and NUL/ETX/EOT as end of input.
func readPlainLine(reader *bufio.Reader) (string, error) {
	var buf []byte
	for {
		b, err := reader.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(buf) > 0 {
				return string(buf), nil
			}
			return "", err
		}
		switch b {
		case '\n':
			return string(buf), nil
		case 0x7f:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
		case 0x00, 0x03, 0x04:
			return "", io.EOF
		default:
			buf = append(buf, b)
		}
	}
}

// evaluate parses and runs one committed line, then prints either the
// result entity or the accumulated diagnostics.
func (r *REPL) evaluate(line string) error {
	tree := parser.Parse(line)
	r.lastTree = tree

	if syntax := syntaxBundle(tree); !syntax.Empty() {
		r.printBundle(tree, syntax)
		return nil
	}

	cfg := &engine.ExecConfig{Node: tree.Root().Id()}
	result, err := r.evaluator.Eval(tree, cfg)
	if err != nil {
		if errors.Is(err, builtin.ErrExit) {
			return err
		}
		r.printBundle(tree, diag.AsBundle(err, tree.Root().Id(), diag.Execution))
		return nil
	}
	r.printResult(result)
	return nil
}

// syntaxBundle collects the parser's recovery nodes as Syntax
// diagnostics.
func syntaxBundle(tree *parser.Tree) *diag.Bundle {
	bundle := diag.NewBundle()
	for _, node := range tree.ErroredNodes() {
		bundle.Blame(node.Id(), diag.Syntax, "expected %s", node.Kind())
	}
	return bundle
}

// printResult renders a result entity as its name plus a property
// summary.
func (r *REPL) printResult(result *engine.Entity) {
	if result == nil {
		return
	}
	names := result.PropertyNames()
	if len(names) == 0 {
		fmt.Fprintf(r.output, "%s\r\n", result.Name())
		return
	}
	parts := make([]string, 0, len(names))
	for _, name := range names {
		property, _ := result.Property(name)
		if v, ok := property.Implicit(engine.TypeNumber); ok {
			parts = append(parts, name+" = "+v.Display())
		} else if v, ok := property.Implicit(engine.TypeString); ok {
			parts = append(parts, name+" = "+v.Display())
		} else {
			parts = append(parts, name)
		}
	}
	fmt.Fprintf(r.output, "%s { %s }\r\n", result.Name(), strings.Join(parts, ", "))
}

func (r *REPL) printBundle(tree *parser.Tree, bundle *diag.Bundle) {
	if tree == nil || bundle.Empty() {
		return
	}
	for _, id := range bundle.Ids() {
		d := bundle.PerNode[id]
		span := tree.Root().Span()
		if node := tree.FindNode(id); node != nil {
			span = node.Span()
		}
		fmt.Fprint(r.output, formatReport(tree.Source(), span, d))
	}
}
