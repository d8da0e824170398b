package parser

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/JustAGod1/fosh/core/types"
	"github.com/JustAGod1/fosh/runtime/lexer"
)

func addSeedCorpus(f *testing.F) {
	f.Add("")
	f.Add("echo hello | grep ell")
	f.Add(`$cd("/tmp").path`)
	f.Add("${echo a ; echo b} | wc")
	f.Add("$foo(1, 2, 3).lmao;")
	f.Add(`$foo("unclosed`)
	f.Add("$.")
	f.Add("}}}")
	f.Add(`"`)
	f.Add("false & echo never")
}

// FuzzParseNoPanic: parsing is total. Every input yields a tree, and
// ill-formed input is marked by Error nodes instead of a failure.
func FuzzParseNoPanic(f *testing.F) {
	addSeedCorpus(f)
	f.Fuzz(func(t *testing.T, src string) {
		tree := Parse(src)
		if tree == nil || tree.Root() == nil {
			t.Fatalf("Parse(%q) returned no tree", src)
		}
	})
}

// FuzzParseLeafOrder: leaf spans stay ordered and inside the line for
// arbitrary input.
func FuzzParseLeafOrder(f *testing.F) {
	addSeedCorpus(f)
	f.Fuzz(func(t *testing.T, src string) {
		tree := Parse(src)
		last := 0
		tree.Root().Walk(func(n *PTNode) {
			if !n.IsLeaf() {
				return
			}
			span := n.Span()
			if span.Start < last || span.End < span.Start || span.End > len(src) {
				t.Fatalf("leaf %s has span %v after offset %d in %q", n.Kind(), span, last, src)
			}
			last = span.End
		})
	})
}

var fuzzTerminals = []types.Kind{
	types.Ampersand,
	types.Pipe,
	types.SemiColon,
	types.Dollar,
	types.OpenParen,
	types.OpenParen,
	types.CloseParen,
	types.OpenBrace,
	types.CloseBrace,
	types.DoubleQuote,
	types.NumberLiteral,
	types.Dot,
	types.Comma,
	types.Literal,
	types.Identifier,
	types.Error,
}

// TestRandomTokenSequencesAlwaysParse drives the grammar with token
// streams no lexer could emit. The parser must return a tree for all of
// them.
func TestRandomTokenSequencesAlwaysParse(t *testing.T) {
	rng := rand.New(rand.NewSource(77))

	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(10)
		tokens := make([]lexer.Token, 0, n)
		for i := 0; i < n; i++ {
			kind := fuzzTerminals[rng.Intn(len(fuzzTerminals))]
			tokens = append(tokens, lexer.Token{Start: i, Kind: kind, End: i + 1})
		}
		src := strings.Repeat("x", n)

		root := ParseTokens(src, tokens)
		if root == nil {
			t.Fatalf("iteration %d: no tree for %v", iter, tokens)
		}
		tree := Build(src, root)
		count := 0
		tree.Root().Walk(func(*PTNode) { count++ })
		if count == 0 {
			t.Fatalf("iteration %d: empty tree for %v", iter, tokens)
		}
	}
}
