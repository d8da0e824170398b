package annotator_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustAGod1/fosh/runtime/annotator"
	"github.com/JustAGod1/fosh/runtime/engine"
	"github.com/JustAGod1/fosh/runtime/parser"
)

// annotate parses src with the cursor marked by ^ and runs the registry
// over the leaf under the cursor.
func annotate(t *testing.T, registry *annotator.Registry, src string) *annotator.Sink {
	t.Helper()
	pos := strings.Index(src, "^")
	require.GreaterOrEqual(t, pos, 0, "cursor marker missing in %q", src)
	line := strings.Replace(src, "^", "", 1)
	tree := parser.Parse(line)
	return registry.AnnotateAt(tree, pos)
}

func propertyRegistry(u *engine.Universe) *annotator.Registry {
	r := annotator.NewRegistry()
	r.Register(&annotator.PropertyNameAnnotator{Universe: u})
	r.Register(&annotator.ParameterAnnotator{Universe: u})
	return r
}

func TestGlobalPropertyCompletion(t *testing.T) {
	// Global is empty by default: no completions, and no exact match
	// means the span is flagged.
	bare := engine.NewUniverse()
	sink := annotate(t, propertyRegistry(bare), "$l^o")
	assert.Empty(t, sink.Completions)
	assert.Equal(t, []annotator.ColorTag{annotator.ColorError}, sink.Colors)

	// A fixture property makes the list exactly ["lol"].
	u := engine.NewUniverse()
	u.Global().WithProperty("lol", u.MakeEntity("lol"))
	sink = annotate(t, propertyRegistry(u), "$l^o")
	if diff := cmp.Diff([]string{"lol"}, sink.Completions); diff != "" {
		t.Errorf("completions mismatch:\n%s", diff)
	}
	assert.Equal(t, []annotator.ColorTag{annotator.ColorError}, sink.Colors)
}

func TestCompletionListsEveryPrefixMatch(t *testing.T) {
	u := engine.NewUniverse()
	u.Global().
		WithProperty("cd", u.MakeEntity("cd")).
		WithProperty("cp", u.MakeEntity("cp")).
		WithProperty("ls", u.MakeEntity("ls"))
	r := propertyRegistry(u)

	sink := annotate(t, r, "$ ^c")
	if diff := cmp.Diff([]string{"cd", "cp"}, sink.Completions); diff != "" {
		t.Errorf("completions mismatch:\n%s", diff)
	}
	assert.Equal(t, []annotator.ColorTag{annotator.ColorError}, sink.Colors)
}

func TestExactMatchIsNotAnError(t *testing.T) {
	u := engine.NewUniverse()
	u.Global().WithProperty("cd", u.MakeEntity("cd"))
	r := propertyRegistry(u)

	sink := annotate(t, r, "$ c^d")
	assert.Empty(t, sink.Colors)
	if diff := cmp.Diff([]string{"cd"}, sink.Completions); diff != "" {
		t.Errorf("completions mismatch:\n%s", diff)
	}
}

func TestChainedPropertyCompletion(t *testing.T) {
	u := engine.NewUniverse()
	result := u.MakeEntity("result").
		WithProperty("path", u.StringEntity("/")).
		WithProperty("status", u.NumberEntity(0))
	u.Global().WithProperty("cd", u.MakeEntity("cd").WithCallee(&engine.Callee{
		Arguments: []engine.Argument{{Name: "path", Types: []engine.Type{engine.TypeString}}},
		ResultPrototype: func(*engine.Entity, []*engine.Entity) *engine.Entity {
			return result
		},
	}))
	r := propertyRegistry(u)

	sink := annotate(t, r, `$cd("/tmp").pa^`)
	if diff := cmp.Diff([]string{"path"}, sink.Completions); diff != "" {
		t.Errorf("completions mismatch:\n%s", diff)
	}
}

func TestIllFormedLineDegradesSilently(t *testing.T) {
	u := engine.NewUniverse()
	u.Global().WithProperty("cd", u.MakeEntity("cd"))
	r := propertyRegistry(u)

	sink := annotate(t, r, `$ c^d("fk").`)
	assert.Empty(t, sink.Colors)
}

func TestCursorOnRecoveryNodeIsQuiet(t *testing.T) {
	u := engine.NewUniverse()
	r := propertyRegistry(u)

	sink := annotate(t, r, "$^")
	assert.Empty(t, sink.Colors)
	assert.Empty(t, sink.Completions)
}

type staticContributor struct {
	candidates []engine.Value
}

func (s staticContributor) Contribute(partial engine.Value) []engine.Value {
	return s.candidates
}

func TestParameterContributor(t *testing.T) {
	u := engine.NewUniverse()
	u.Global().WithProperty("cd", u.MakeEntity("cd").WithCallee(&engine.Callee{
		Arguments: []engine.Argument{{
			Name:        "path",
			Types:       []engine.Type{engine.TypeString},
			Contributor: staticContributor{candidates: []engine.Value{engine.StringValue("./here")}},
		}},
	}))
	r := propertyRegistry(u)

	sink := annotate(t, r, `$cd("^")`)
	if diff := cmp.Diff([]string{`"./here"`}, sink.Completions); diff != "" {
		t.Errorf("completions mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"path: String"}, sink.Hints); diff != "" {
		t.Errorf("hints mismatch:\n%s", diff)
	}
}

func TestParameterPositionPicksTheRightSpec(t *testing.T) {
	u := engine.NewUniverse()
	u.Global().WithProperty("two", u.MakeEntity("two").WithCallee(&engine.Callee{
		Arguments: []engine.Argument{
			{Name: "first", Types: []engine.Type{engine.TypeString}},
			{Name: "second", Types: []engine.Type{engine.TypeNumber},
				Contributor: staticContributor{candidates: []engine.Value{engine.NumberValue(8080)}}},
		},
	}))
	r := propertyRegistry(u)

	sink := annotate(t, r, `$two("a" 80^80)`)
	if diff := cmp.Diff([]string{"8080"}, sink.Completions); diff != "" {
		t.Errorf("completions mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"second: Number"}, sink.Hints); diff != "" {
		t.Errorf("hints mismatch:\n%s", diff)
	}
}

func TestParameterBeyondAritySaysNothing(t *testing.T) {
	u := engine.NewUniverse()
	u.Global().WithProperty("one", u.MakeEntity("one").WithCallee(&engine.Callee{
		Arguments: []engine.Argument{{Name: "only", Types: []engine.Type{engine.TypeString}}},
	}))
	r := propertyRegistry(u)

	sink := annotate(t, r, `$one("a" "b^")`)
	assert.Empty(t, sink.Completions)
	assert.Empty(t, sink.Hints)
}
