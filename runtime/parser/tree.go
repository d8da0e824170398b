package parser

import (
	"github.com/JustAGod1/fosh/core/invariant"
	"github.com/JustAGod1/fosh/core/types"
)

// NodeId addresses a parse tree node. Ids are assigned by a pre-order
// DFS counter during Build, which makes them stable for the lifetime of
// the tree and cheap to resolve (they index the arena directly).
type NodeId int

// Tree is the concrete parse tree for one line. All nodes live in a
// single arena allocated up front; parent and root back-references are
// set exactly once during Build and never rewritten.
type Tree struct {
	source string
	arena  []PTNode
	root   *PTNode
}

// PTNode is one concrete node. Error nodes keep the kind that should
// have been present so downstream passes can treat them uniformly;
// Errored distinguishes them from genuinely parsed nodes.
type PTNode struct {
	tree     *Tree
	id       NodeId
	kind     types.Kind
	errored  bool
	span     types.Span
	parent   *PTNode
	children []*PTNode
	position int
}

// Build lowers the abstract tree into the arena representation.
func Build(source string, root *Node) *Tree {
	invariant.NotNil(root, "root")
	tree := &Tree{source: source, arena: make([]PTNode, 0, countNodes(root))}
	tree.root = tree.build(root, nil, 0)
	return tree
}

func countNodes(n *Node) int {
	total := 1
	for _, c := range n.Children {
		total += countNodes(c)
	}
	return total
}

func (t *Tree) build(n *Node, parent *PTNode, position int) *PTNode {
	// The arena was sized by countNodes; growing it here would move
	// nodes that are already referenced.
	invariant.Invariant(len(t.arena) < cap(t.arena), "arena exhausted at node %d", len(t.arena))
	kind := n.Kind
	if n.IsError() {
		kind = n.Expected
	}
	t.arena = append(t.arena, PTNode{
		tree:     t,
		id:       NodeId(len(t.arena)),
		kind:     kind,
		errored:  n.IsError(),
		span:     n.Span,
		parent:   parent,
		position: position,
	})
	node := &t.arena[len(t.arena)-1]
	for i, child := range n.Children {
		node.children = append(node.children, t.build(child, node, i))
	}
	return node
}

// Root returns the root node.
func (t *Tree) Root() *PTNode {
	return t.root
}

// Source returns the line the tree was parsed from.
func (t *Tree) Source() string {
	return t.source
}

// FindNode resolves a NodeId.
func (t *Tree) FindNode(id NodeId) *PTNode {
	if int(id) < 0 || int(id) >= len(t.arena) {
		return nil
	}
	return &t.arena[id]
}

// ErroredNodes collects every node committed by a recovery production,
// in pre-order.
func (t *Tree) ErroredNodes() []*PTNode {
	var out []*PTNode
	t.root.Walk(func(n *PTNode) {
		if n.errored {
			out = append(out, n)
		}
	})
	return out
}

// Collect appends every node matching the predicate, in pre-order.
func (t *Tree) Collect(predicate func(*PTNode) bool) []*PTNode {
	var out []*PTNode
	t.root.Walk(func(n *PTNode) {
		if predicate(n) {
			out = append(out, n)
		}
	})
	return out
}

func (n *PTNode) Id() NodeId        { return n.id }
func (n *PTNode) Kind() types.Kind  { return n.kind }
func (n *PTNode) Errored() bool     { return n.errored }
func (n *PTNode) Span() types.Span  { return n.span }
func (n *PTNode) Parent() *PTNode   { return n.parent }
func (n *PTNode) Children() []*PTNode { return n.children }
func (n *PTNode) Position() int     { return n.position }
func (n *PTNode) Root() *PTNode     { return n.tree.root }
func (n *PTNode) Tree() *Tree       { return n.tree }

// Text returns the slice of the source line the node covers.
func (n *PTNode) Text() string {
	return n.span.Slice(n.tree.source)
}

func (n *PTNode) IsLeaf() bool {
	return len(n.children) == 0
}

// Walk visits the subtree in pre-order.
func (n *PTNode) Walk(visitor func(*PTNode)) {
	visitor(n)
	for _, child := range n.children {
		child.Walk(visitor)
	}
}

// FindLeafAt returns the leaf whose span contains pos.
func (n *PTNode) FindLeafAt(pos int) *PTNode {
	if n.IsLeaf() {
		if n.span.Contains(pos) {
			return n
		}
		return nil
	}
	for _, child := range n.children {
		if found := child.FindLeafAt(pos); found != nil {
			return found
		}
	}
	return nil
}

// FindChildWithKind returns the first direct child of the given kind.
func (n *PTNode) FindChildWithKind(kind types.Kind) *PTNode {
	for _, child := range n.children {
		if child.kind == kind {
			return child
		}
	}
	return nil
}

// FindChildWithKindRec returns the first node of the given kind in
// pre-order, including the receiver. Asking for types.Error matches
// recovery nodes regardless of their recorded expected kind.
func (n *PTNode) FindChildWithKindRec(kind types.Kind) *PTNode {
	if n.kind == kind || (kind == types.Error && n.errored) {
		return n
	}
	for _, child := range n.children {
		if found := child.FindChildWithKindRec(kind); found != nil {
			return found
		}
	}
	return nil
}

// FindParentWithKind walks up from the receiver (inclusive) to the root.
func (n *PTNode) FindParentWithKind(kind types.Kind) *PTNode {
	if n.kind == kind {
		return n
	}
	if n.parent == nil {
		return nil
	}
	return n.parent.FindParentWithKind(kind)
}
