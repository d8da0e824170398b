// Package diag carries node-indexed diagnostics through inference and
// execution. A bundle blames one or more parse tree nodes; the REPL
// renders each blamed span with an underline and the attached hints.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JustAGod1/fosh/runtime/parser"
)

// Kind classifies a diagnostic.
type Kind int

const (
	Syntax Kind = iota
	Semantic
	Execution
	CannotCloneFd
	CannotCreatePipe
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "Syntax"
	case Semantic:
		return "Semantic"
	case Execution:
		return "Execution"
	case CannotCloneFd:
		return "CannotCloneFd"
	case CannotCreatePipe:
		return "CannotCreatePipe"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Diagnostic is everything attached to one blamed node.
type Diagnostic struct {
	Kind  Kind
	Hints []string
	Notes []string
}

// Bundle maps blamed nodes to their diagnostics. It implements error so
// evaluation paths can return it directly; one failure may blame several
// nodes.
type Bundle struct {
	PerNode map[parser.NodeId]*Diagnostic
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{PerNode: make(map[parser.NodeId]*Diagnostic)}
}

// Single is the common case: one node, one kind, one hint.
func Single(id parser.NodeId, kind Kind, format string, args ...any) *Bundle {
	return NewBundle().Blame(id, kind, format, args...)
}

// Blame attaches a diagnostic to the node, appending the hint when the
// node is already blamed.
func (b *Bundle) Blame(id parser.NodeId, kind Kind, format string, args ...any) *Bundle {
	d, ok := b.PerNode[id]
	if !ok {
		d = &Diagnostic{Kind: kind}
		b.PerNode[id] = d
	}
	d.Hints = append(d.Hints, fmt.Sprintf(format, args...))
	return b
}

// Note attaches an explanatory note to an already-blamed node.
func (b *Bundle) Note(id parser.NodeId, format string, args ...any) *Bundle {
	if d, ok := b.PerNode[id]; ok {
		d.Notes = append(d.Notes, fmt.Sprintf(format, args...))
	}
	return b
}

// Merge folds other into b.
func (b *Bundle) Merge(other *Bundle) {
	if other == nil {
		return
	}
	for id, d := range other.PerNode {
		if existing, ok := b.PerNode[id]; ok {
			existing.Hints = append(existing.Hints, d.Hints...)
			existing.Notes = append(existing.Notes, d.Notes...)
		} else {
			b.PerNode[id] = d
		}
	}
}

// Empty reports whether nothing has been blamed.
func (b *Bundle) Empty() bool {
	return b == nil || len(b.PerNode) == 0
}

// Ids returns the blamed node ids in ascending order.
func (b *Bundle) Ids() []parser.NodeId {
	ids := make([]parser.NodeId, 0, len(b.PerNode))
	for id := range b.PerNode {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (b *Bundle) Error() string {
	var sb strings.Builder
	for i, id := range b.Ids() {
		d := b.PerNode[id]
		if i > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%s: %s", d.Kind, strings.Join(d.Hints, ", "))
	}
	if sb.Len() == 0 {
		return "no diagnostics"
	}
	return sb.String()
}

// AsBundle converts any error into a bundle, blaming the given node when
// the error is not already one.
func AsBundle(err error, id parser.NodeId, kind Kind) *Bundle {
	if err == nil {
		return nil
	}
	if b, ok := err.(*Bundle); ok {
		return b
	}
	return Single(id, kind, "%s", err.Error())
}
