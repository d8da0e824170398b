package annotator

import (
	"strings"

	"github.com/JustAGod1/fosh/core/types"
	"github.com/JustAGod1/fosh/runtime/engine"
	"github.com/JustAGod1/fosh/runtime/parser"
)

// Annotator inspects the node under the cursor and writes into the sink.
// Implementations ignore nodes they are not interested in.
type Annotator interface {
	Annotate(node *parser.PTNode, sink *Sink)
}

// Registry fans a node out to every registered annotator.
type Registry struct {
	annotators []Annotator
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(a Annotator) {
	r.annotators = append(r.annotators, a)
}

// Annotate runs every annotator over the node.
func (r *Registry) Annotate(node *parser.PTNode, sink *Sink) {
	for _, a := range r.annotators {
		a.Annotate(node, sink)
	}
}

// AnnotateAt locates the leaf at the cursor and annotates it. A cursor
// sitting just past a token annotates that token.
func (r *Registry) AnnotateAt(tree *parser.Tree, pos int) *Sink {
	sink := NewSink()
	leaf := tree.Root().FindLeafAt(pos)
	if leaf == nil && pos > 0 {
		leaf = tree.Root().FindLeafAt(pos - 1)
	}
	if leaf != nil {
		r.Annotate(leaf, sink)
	}
	return sink
}

// PropertyNameAnnotator completes and validates property names against
// the inferred left-hand entity (Global at depth zero).
type PropertyNameAnnotator struct {
	Universe *engine.Universe
}

func (p *PropertyNameAnnotator) Annotate(node *parser.PTNode, sink *Sink) {
	if node.Kind() != types.PropertyName || node.Errored() {
		return
	}
	left := p.Universe.InferLeft(node)
	if left == nil {
		return
	}
	text := node.Text()
	exact := false
	for _, name := range left.PropertyNames() {
		if strings.HasPrefix(name, text) {
			sink.AddCompletion(name)
		}
		if name == text {
			exact = true
		}
	}
	if !exact {
		sink.AddError("")
	}
}

// ParameterAnnotator locates the enclosing call, picks the argument spec
// by position, and asks its completion contributor for candidates
// against the parameter's current value.
type ParameterAnnotator struct {
	Universe *engine.Universe
}

func (p *ParameterAnnotator) Annotate(node *parser.PTNode, sink *Sink) {
	param := node.FindParentWithKind(types.Parameter)
	if param == nil {
		return
	}
	call := param.FindParentWithKind(types.PropertyCall)
	if call == nil || len(call.Children()) < 2 {
		return
	}
	callable := p.Universe.Infer(call.Children()[0])
	if callable == nil || callable.Callee() == nil {
		return
	}
	index := parameterIndex(param)
	if index < 0 || index >= len(callable.Callee().Arguments) {
		return
	}
	arg := callable.Callee().Arguments[index]
	if len(arg.Types) > 0 {
		sink.AddHint(arg.Name + ": " + arg.Types[0].String())
	}
	if arg.Contributor == nil {
		return
	}
	for _, candidate := range arg.Contributor.Contribute(p.partialValue(param)) {
		sink.AddCompletion(candidate.Display())
	}
}

// partialValue is the parameter's inferred primitive value, defaulting
// to the empty string while nothing is typed yet.
func (p *ParameterAnnotator) partialValue(param *parser.PTNode) engine.Value {
	if len(param.Children()) == 0 {
		return engine.StringValue("")
	}
	entity := p.Universe.Infer(param.Children()[0])
	if entity == nil {
		return engine.StringValue("")
	}
	if v, ok := entity.Implicit(engine.TypeString); ok {
		return v
	}
	if v, ok := entity.Implicit(engine.TypeNumber); ok {
		return v
	}
	return engine.StringValue("")
}

func parameterIndex(param *parser.PTNode) int {
	parent := param.Parent()
	if parent == nil {
		return -1
	}
	index := 0
	for _, sibling := range parent.Children() {
		if sibling == param {
			return index
		}
		if sibling.Kind() == types.Parameter {
			index++
		}
	}
	return -1
}
