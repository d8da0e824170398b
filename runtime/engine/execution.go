package engine

import (
	"errors"
	"os"
	"os/exec"

	"github.com/JustAGod1/fosh/runtime/diag"
	"github.com/JustAGod1/fosh/runtime/parser"
)

// Execution is a unit of work the evaluator has composed but not yet
// run: either a spawned OS process or an in-process pseudo-execution.
// Pipelines are built entirely out of Executions before the first
// Execute call.
type Execution interface {
	Execute() (*Entity, error)
}

// ProcessExecution wraps a child process that has already been started.
// Execute waits for it and lifts the exit status into a result entity; a
// non-zero status is not an error.
type ProcessExecution struct {
	universe *Universe
	name     string
	cmd      *exec.Cmd
	node     parser.NodeId
}

// NewProcessExecution adopts a started command. The caller has already
// handed the child its fds and closed its own duplicates.
func (u *Universe) NewProcessExecution(name string, cmd *exec.Cmd, node parser.NodeId) *ProcessExecution {
	return &ProcessExecution{universe: u, name: name, cmd: cmd, node: node}
}

func (p *ProcessExecution) Execute() (*Entity, error) {
	status := 0
	if err := p.cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, diag.Single(p.node, diag.Execution, "wait for %s: %s", p.name, err)
		}
		status = exitErr.ExitCode()
	}
	return p.universe.StatusEntity(p.name, status), nil
}

// StatusEntity builds the result entity of a finished process: its
// status property carries the exit code, and the entity itself coerces
// to that number.
func (u *Universe) StatusEntity(name string, status int) *Entity {
	return u.MakeEntity(name).
		WithProperty("status", u.NumberEntity(float64(status))).
		WithImplicit(TypeNumber, func(*Entity) Value {
			return NumberValue(float64(status))
		})
}

// Comms carries the resolved streams a pseudo-execution reads and
// writes.
type Comms struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// PseudoExecution runs a thunk in-process with the three fds the caller
// provided. It owns its config: the descriptors are released when the
// execution has run, not before, so a downstream pipe stays writable
// until then.
type PseudoExecution struct {
	cfg   *ExecConfig
	thunk func(*Comms) (*Entity, error)
}

// NewPseudoExecution wraps fn. Ownership of cfg transfers to the
// execution.
func NewPseudoExecution(cfg *ExecConfig, fn func(*Comms) (*Entity, error)) *PseudoExecution {
	return &PseudoExecution{cfg: cfg, thunk: fn}
}

func (p *PseudoExecution) Execute() (*Entity, error) {
	defer p.cfg.Close()
	comms := &Comms{
		Stdin:  p.cfg.InputOr(os.Stdin),
		Stdout: p.cfg.OutputOr(os.Stdout),
		Stderr: p.cfg.ErrOr(os.Stderr),
	}
	return p.thunk(comms)
}

// Release closes the config without running the thunk. Used when a
// pipeline is abandoned before execution.
func (p *PseudoExecution) Release() {
	p.cfg.Close()
}
