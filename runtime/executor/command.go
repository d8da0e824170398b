package executor

import (
	"log/slog"
	"os"
	"os/exec"

	"github.com/JustAGod1/fosh/core/types"
	"github.com/JustAGod1/fosh/runtime/diag"
	"github.com/JustAGod1/fosh/runtime/engine"
	"github.com/JustAGod1/fosh/runtime/parser"
)

// evalCommand turns an external command node into a synthetic callee and
// dispatches it: the child is spawned with the config's descriptors and
// wrapped as an execution that waits on demand.
func (ev *Evaluator) evalCommand(node *parser.PTNode, cfg *engine.ExecConfig) state {
	children := node.Children()
	nameNode := children[0]
	if nameNode.Errored() || nameNode.Text() == "" {
		return errState(diag.Single(nameNode.Id(), diag.Syntax, "expected %s", nameNode.Kind()))
	}

	argv := []string{nameNode.Text()}
	for _, arg := range children[1].Children() {
		switch arg.Kind() {
		case types.Literal:
			argv = append(argv, arg.Text())
		case types.StringLiteral:
			argv = append(argv, engine.StringContents(arg))
		}
	}

	callee := &engine.Callee{
		Dispatch: func(_ *engine.Entity, _ []*engine.Entity, owned *engine.ExecConfig) (engine.Execution, error) {
			return ev.spawn(argv, owned)
		},
	}

	clone, err := cfg.Clone()
	if err != nil {
		return errState(diag.Single(node.Id(), diag.CannotCloneFd, "cannot clone execution config: %s", err))
	}
	clone.Node = node.Id()
	execution, err := callee.Dispatch(nil, nil, clone)
	if err != nil {
		return errState(err)
	}
	return executionState(execution)
}

// spawn starts argv with the owned config. The child receives duplicates
// of the config's descriptors; the config itself is closed as soon as
// the child is running, so the caller's originals stay open and nothing
// of ours outlives the spawn.
func (ev *Evaluator) spawn(argv []string, cfg *engine.ExecConfig) (engine.Execution, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = cfg.InputOr(os.Stdin)
	cmd.Stdout = cfg.OutputOr(os.Stdout)
	cmd.Stderr = cfg.ErrOr(os.Stderr)

	if err := cmd.Start(); err != nil {
		node := cfg.Node
		cfg.Close()
		return nil, diag.Single(node, diag.Execution, "cannot spawn %s: %s", argv[0], err)
	}
	slog.Debug("spawned", "argv", argv, "pid", cmd.Process.Pid)
	cfg.Close()
	return ev.universe.NewProcessExecution(argv[0], cmd, cfg.Node), nil
}
