package engine

import (
	"strconv"

	"github.com/JustAGod1/fosh/core/types"
	"github.com/JustAGod1/fosh/runtime/parser"
)

// Infer maps an expression node to an entity without executing anything.
// It never spawns processes or touches descriptors, and returns nil for
// execution-only kinds and unresolvable names. nil is not an error:
// completion and highlighting degrade gracefully around it.
func (u *Universe) Infer(node *parser.PTNode) *Entity {
	if node == nil {
		return nil
	}
	switch node.Kind() {
	case types.StringLiteral:
		return u.StringEntity(stringContents(node))
	case types.NumberLiteral:
		f, err := strconv.ParseFloat(node.Text(), 64)
		if err != nil {
			return nil
		}
		return u.NumberEntity(f)
	case types.PropertyName:
		left := u.InferLeft(node)
		if left == nil {
			return nil
		}
		property, _ := left.Property(node.Text())
		return property
	case types.PropertyInsn:
		return u.inferPropertyInsn(node)
	case types.PropertyCall:
		return u.inferPropertyCall(node)
	case types.Function:
		children := node.Children()
		if len(children) < 2 {
			return nil
		}
		return u.Infer(children[1])
	default:
		// Commands and the composition levels are evaluation-only.
		return nil
	}
}

// InferLeft resolves the entity a property name is looked up on: the
// inferred left-hand of its chain, or Global at depth zero.
func (u *Universe) InferLeft(name *parser.PTNode) *Entity {
	parent := name.Parent()
	if parent == nil || parent.Kind() != types.PropertyInsn {
		return u.global
	}
	if len(parent.Children()) == 1 || name.Position() == 0 {
		return u.global
	}
	return u.Infer(parent.Children()[0])
}

func (u *Universe) inferPropertyInsn(node *parser.PTNode) *Entity {
	children := node.Children()
	if len(children) == 0 {
		return nil
	}
	if len(children) == 1 {
		property, _ := u.global.Property(children[0].Text())
		return property
	}
	left := u.Infer(children[0])
	if left == nil {
		return nil
	}
	property, _ := left.Property(children[len(children)-1].Text())
	return property
}

func (u *Universe) inferPropertyCall(node *parser.PTNode) *Entity {
	children := node.Children()
	if len(children) < 2 {
		return nil
	}
	callable := u.Infer(children[0])
	if callable == nil || callable.Callee() == nil || callable.Callee().ResultPrototype == nil {
		return nil
	}
	var args []*Entity
	for _, param := range children[1].Children() {
		if param.Kind() != types.Parameter {
			continue
		}
		if len(param.Children()) == 0 {
			args = append(args, nil)
			continue
		}
		args = append(args, u.Infer(param.Children()[0]))
	}
	return callable.Callee().ResultPrototype(callable, args)
}

// stringContents extracts the semantic value of a string literal: the
// bytes between the quotes. With a missing closing quote the body
// extends to end of line.
func stringContents(node *parser.PTNode) string {
	if body := node.FindChildWithKind(types.Literal); body != nil {
		return body.Text()
	}
	return ""
}

// StringContents is the exported accessor used by the evaluator and the
// annotators.
func StringContents(node *parser.PTNode) string {
	return stringContents(node)
}
