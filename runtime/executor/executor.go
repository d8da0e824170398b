// Package executor walks the parse tree and runs it: it resolves
// properties, validates call arguments, wires file descriptors for
// pipelines, and launches external processes or in-process
// pseudo-executions.
//
// Evaluation is single-threaded and synchronous. Descriptor ownership
// follows one rule throughout: eval functions borrow the config they are
// handed and clone it for every dispatch, so after Eval returns the
// caller's descriptors are untouched and everything the evaluator
// created is closed.
package executor

import (
	"log/slog"
	"os"

	"github.com/JustAGod1/fosh/core/invariant"
	"github.com/JustAGod1/fosh/core/types"
	"github.com/JustAGod1/fosh/runtime/diag"
	"github.com/JustAGod1/fosh/runtime/engine"
	"github.com/JustAGod1/fosh/runtime/parser"
)

// Evaluator evaluates one line at a time against a universe.
type Evaluator struct {
	universe *engine.Universe

	// Reporter receives the diagnostics of non-final ;-separated stages,
	// which are reported without stopping the rest of the line.
	Reporter func(*diag.Bundle)
}

func New(universe *engine.Universe) *Evaluator {
	invariant.NotNil(universe, "universe")
	return &Evaluator{universe: universe}
}

// Eval runs the tree with the caller's config. The config's descriptors
// are left intact.
func (ev *Evaluator) Eval(tree *parser.Tree, cfg *engine.ExecConfig) (*engine.Entity, error) {
	root := tree.Root()
	if root.Kind() == types.Delimited && len(root.Children()) == 0 {
		return nil, nil
	}
	return ev.evalDelimited(root, cfg).finish()
}

// state is a not-yet-finished evaluation step: a plain value, a composed
// execution, or a failure.
type state struct {
	value     *engine.Entity
	execution engine.Execution
	err       error
}

func valueState(v *engine.Entity) state      { return state{value: v} }
func executionState(e engine.Execution) state { return state{execution: e} }
func errState(err error) state               { return state{err: err} }

// finish forces the step: executions run, values and errors pass
// through.
func (s state) finish() (*engine.Entity, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.execution != nil {
		return s.execution.Execute()
	}
	return s.value, nil
}

// operands drops the separator leaves of a composition node.
func operands(node *parser.PTNode, separator types.Kind) []*parser.PTNode {
	var out []*parser.PTNode
	for _, child := range node.Children() {
		if child.Kind() != separator {
			out = append(out, child)
		}
	}
	return out
}

// evalDelimited runs ;-separated stages in order. Failures are reported
// but do not stop the line; the last stage's result is returned.
func (ev *Evaluator) evalDelimited(node *parser.PTNode, cfg *engine.ExecConfig) state {
	if node.Kind() != types.Delimited {
		return ev.evalSequenced(node, cfg)
	}
	children := operands(node, types.SemiColon)
	if len(children) == 0 {
		return valueState(nil)
	}
	for _, child := range children[:len(children)-1] {
		if _, err := ev.evalSequenced(child, cfg).finish(); err != nil {
			ev.report(child, err)
		}
	}
	return ev.evalSequenced(children[len(children)-1], cfg)
}

// evalSequenced runs &-separated stages in order, aborting on the first
// failing stage. A stage fails if it errors or finishes with a non-zero
// status.
func (ev *Evaluator) evalSequenced(node *parser.PTNode, cfg *engine.ExecConfig) state {
	if node.Kind() != types.Sequenced {
		return ev.evalPiped(node, cfg)
	}
	children := operands(node, types.Ampersand)
	for _, child := range children[:len(children)-1] {
		v, err := ev.evalPiped(child, cfg).finish()
		if err != nil {
			return errState(err)
		}
		if status(v) != 0 {
			return valueState(v)
		}
	}
	return ev.evalPiped(children[len(children)-1], cfg)
}

// status extracts the exit status of a result entity; entities without
// one count as success.
func status(v *engine.Entity) int {
	if v == nil {
		return 0
	}
	prop, ok := v.Property("status")
	if !ok {
		return 0
	}
	if n, ok := prop.Implicit(engine.TypeNumber); ok {
		return int(n.(engine.NumberValue))
	}
	return 0
}

// evalPiped wires a pipeline. For N stages it creates N-1 anonymous
// pipes, hands each stage a freshly cloned config, and only then runs
// the executions in FIFO order: every stage must exist before the first
// one runs, or a pseudo-execution in the middle would block with no
// downstream to drain it.
func (ev *Evaluator) evalPiped(node *parser.PTNode, cfg *engine.ExecConfig) state {
	if node.Kind() != types.Piped {
		return ev.evalAtom(node, cfg)
	}
	children := operands(node, types.Pipe)

	states := make([]state, 0, len(children))
	var lastRead *os.File
	for i, child := range children {
		childCfg := &engine.ExecConfig{Node: child.Id()}

		var err error
		if i == 0 {
			childCfg.Stdin, err = dupFile(cfg.Stdin)
		} else {
			childCfg.Stdin, err = dupFile(lastRead)
			lastRead.Close()
			lastRead = nil
		}
		if err != nil {
			childCfg.Close()
			return ev.abortPipeline(states, nil, diag.Single(node.Id(), diag.CannotCloneFd, "cannot clone stdin: %s", err))
		}

		if i < len(children)-1 {
			r, w, perr := os.Pipe()
			if perr != nil {
				childCfg.Close()
				return ev.abortPipeline(states, nil, diag.Single(node.Id(), diag.CannotCreatePipe, "cannot create pipe: %s", perr))
			}
			childCfg.Stdout = w
			lastRead = r
		} else {
			childCfg.Stdout, err = dupFile(cfg.Stdout)
			if err != nil {
				childCfg.Close()
				return ev.abortPipeline(states, lastRead, diag.Single(node.Id(), diag.CannotCloneFd, "cannot clone stdout: %s", err))
			}
		}

		childCfg.Stderr, err = dupFile(cfg.Stderr)
		if err != nil {
			childCfg.Close()
			return ev.abortPipeline(states, lastRead, diag.Single(node.Id(), diag.CannotCloneFd, "cannot clone stderr: %s", err))
		}

		states = append(states, ev.evalAtom(child, childCfg))
		childCfg.Close()
	}

	// FIFO: run in spawn order; a failing stage lands in the bundle but
	// never stops the stages already running from being awaited.
	bundle := diag.NewBundle()
	var last *engine.Entity
	for i, st := range states {
		v, err := st.finish()
		if err != nil {
			bundle.Merge(diag.AsBundle(err, children[i].Id(), diag.Execution))
			continue
		}
		if i == len(states)-1 {
			last = v
		}
	}
	if !bundle.Empty() {
		return errState(bundle)
	}
	return valueState(last)
}

// abortPipeline handles infrastructure failures: pseudo-executions that
// were already composed release their descriptors, and the dangling
// read end is closed. Processes already running are left to finish
// against closed pipes.
func (ev *Evaluator) abortPipeline(states []state, lastRead *os.File, bundle *diag.Bundle) state {
	if lastRead != nil {
		lastRead.Close()
	}
	for _, st := range states {
		if pseudo, ok := st.execution.(*engine.PseudoExecution); ok {
			pseudo.Release()
		}
	}
	return errState(bundle)
}

func dupFile(f *os.File) (*os.File, error) {
	return engine.DupFile(f)
}

// report forwards a non-final stage failure without stopping the line.
func (ev *Evaluator) report(node *parser.PTNode, err error) {
	bundle := diag.AsBundle(err, node.Id(), diag.Execution)
	if ev.Reporter != nil {
		ev.Reporter(bundle)
		return
	}
	slog.Debug("unreported stage failure", "error", bundle.Error())
}

func (ev *Evaluator) evalAtom(node *parser.PTNode, cfg *engine.ExecConfig) state {
	if node.Errored() {
		return errState(diag.Single(node.Id(), diag.Syntax, "expected %s", node.Kind()))
	}
	switch node.Kind() {
	case types.Function:
		return ev.evalValue(node.Children()[1], cfg)
	case types.Command:
		return ev.evalCommand(node, cfg)
	default:
		invariant.Unreachable("expected command or function, got %s", node.Kind())
		return state{}
	}
}
