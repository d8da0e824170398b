package parser

import (
	"github.com/JustAGod1/fosh/core/types"

	"github.com/JustAGod1/fosh/runtime/lexer"
)

// Node is an abstract syntax node produced by the grammar. The evaluator
// and annotators never see it directly; Build lowers it into the arena
// parse tree.
type Node struct {
	Span     types.Span
	Kind     types.Kind
	Expected types.Kind // set when Kind == types.Error
	Children []*Node
}

// IsError reports whether the node was synthesized by a recovery
// production.
func (n *Node) IsError() bool {
	return n.Kind == types.Error
}

func leaf(tok lexer.Token, kind types.Kind) *Node {
	return &Node{Span: tok.Span(), Kind: kind}
}

// interior builds a node whose span covers its children. A node without
// children gets a zero-width span at the given position.
func interior(kind types.Kind, at int, children ...*Node) *Node {
	n := &Node{Kind: kind, Children: children, Span: types.Span{Start: at, End: at}}
	if len(children) > 0 {
		n.Span = types.Span{Start: children[0].Span.Start, End: children[len(children)-1].Span.End}
	}
	return n
}

// errorAt synthesizes a zero-width Error node carrying the kind that
// should have been present at pos.
func errorAt(pos int, expected types.Kind) *Node {
	return &Node{
		Span:     types.Span{Start: pos, End: pos},
		Kind:     types.Error,
		Expected: expected,
	}
}

// errorTok synthesizes an Error node covering a consumed token.
func errorTok(tok lexer.Token, expected types.Kind) *Node {
	return &Node{Span: tok.Span(), Kind: types.Error, Expected: expected}
}
