package executor

import (
	"github.com/JustAGod1/fosh/core/invariant"
	"github.com/JustAGod1/fosh/core/types"
	"github.com/JustAGod1/fosh/runtime/diag"
	"github.com/JustAGod1/fosh/runtime/engine"
	"github.com/JustAGod1/fosh/runtime/parser"
)

func (ev *Evaluator) evalValue(node *parser.PTNode, cfg *engine.ExecConfig) state {
	if node.Errored() {
		return errState(diag.Single(node.Id(), diag.Syntax, "expected %s", node.Kind()))
	}
	switch node.Kind() {
	case types.StringLiteral, types.NumberLiteral:
		return ev.evalPrimitive(node)
	case types.BracedCommand:
		return ev.evalDelimited(node.Children()[1], cfg)
	case types.PropertyInsn:
		return ev.evalPropertyInsn(node, cfg)
	case types.PropertyCall:
		return ev.evalPropertyCall(node, cfg)
	default:
		invariant.Unreachable("unexpected value node %s", node.Kind())
		return state{}
	}
}

func (ev *Evaluator) evalPrimitive(node *parser.PTNode) state {
	entity := ev.universe.Infer(node)
	if entity == nil {
		return errState(diag.Single(node.Id(), diag.Semantic, "could not infer value of %q", node.Text()))
	}
	return valueState(entity)
}

// evalPropertyInsn resolves a property by name. No invocation happens
// here; a bare $cd is the cd entity itself.
func (ev *Evaluator) evalPropertyInsn(node *parser.PTNode, cfg *engine.ExecConfig) state {
	children := node.Children()

	var left *engine.Entity
	var name *parser.PTNode
	if len(children) > 1 {
		v, err := ev.evalValue(children[0], cfg).finish()
		if err != nil {
			return errState(err)
		}
		left = v
		name = children[len(children)-1]
	} else {
		left = ev.universe.Global()
		name = children[0]
	}

	if name.Errored() {
		return errState(diag.Single(name.Id(), diag.Syntax, "expected %s", name.Kind()))
	}
	property, ok := left.Property(name.Text())
	if !ok {
		return errState(diag.Single(node.Id(), diag.Semantic,
			"property %s does not exist in %s", name.Text(), left.Name()))
	}
	return valueState(property)
}

func (ev *Evaluator) evalPropertyCall(node *parser.PTNode, cfg *engine.ExecConfig) state {
	children := node.Children()
	v, err := ev.evalPropertyInsn(children[0], cfg).finish()
	if err != nil {
		return errState(err)
	}
	parens := children[1]

	var params []*parser.PTNode
	var args []*engine.Entity
	for _, child := range parens.Children() {
		if child.Kind() != types.Parameter {
			continue
		}
		arg, err := ev.evalValue(child.Children()[0], cfg).finish()
		if err != nil {
			return errState(err)
		}
		params = append(params, child)
		args = append(args, arg)
	}

	callee := v.Callee()
	if callee == nil {
		return errState(diag.Single(node.Id(), diag.Semantic, "property %s is not callable", v.Name()))
	}
	if len(callee.Arguments) != len(args) {
		return errState(diag.Single(parens.Id(), diag.Semantic,
			"expected %d arguments, got %d", len(callee.Arguments), len(args)))
	}
	for i, arg := range args {
		if !callee.Arguments[i].Accepts(arg) {
			return errState(diag.Single(params[i].Id(), diag.Semantic,
				"argument is not of type %s", callee.Arguments[i].Types[0]))
		}
	}

	clone, err := cfg.Clone()
	if err != nil {
		return errState(diag.Single(node.Id(), diag.CannotCloneFd, "cannot clone execution config: %s", err))
	}
	clone.Node = node.Id()
	execution, err := callee.Dispatch(v, args, clone)
	if err != nil {
		clone.Close()
		return errState(diag.AsBundle(err, node.Id(), diag.Execution))
	}
	return executionState(execution)
}
