// Package parser implements the error-recovering grammar and the concrete
// parse tree every downstream pass consumes.
//
// The grammar, lowest precedence first:
//
//	Delimited  := Sequenced (";" Sequenced)*
//	Sequenced  := Piped     ("&" Piped)*
//	Piped      := Atom      ("|" Atom)*
//	Atom       := Command | Function
//	Function   := "$" Value
//	Value      := StringLiteral | NumberLiteral | BracedCommand | PropertyInsn
//	BracedCommand := "{" Delimited "}"
//	PropertyInsn  := PropertyCall | PropertyInsn "." PropertyCall
//	PropertyCall  := PropertyName ParenthesizedArgumentsList?
//	Command    := CommandName CommandArguments
//
// Parsing never fails. Every production has recovery rules that commit a
// synthesized Error node carrying the kind that should have been present,
// so the editor gets a well-formed tree on every keystroke.
package parser

import (
	"github.com/JustAGod1/fosh/core/types"
	"github.com/JustAGod1/fosh/runtime/lexer"
)

// Parse tokenizes src and returns the concrete parse tree. It is total:
// ill-formed input yields a tree containing Error nodes, never a failure.
func Parse(src string) *Tree {
	return Build(src, ParseTokens(src, lexer.Tokenize(src)))
}

// ParseTokens runs the grammar over an explicit token stream. Used by the
// fuzz tests to feed token sequences no source line could produce.
func ParseTokens(src string, tokens []lexer.Token) *Node {
	p := &parser{src: src, tokens: tokens}
	root := p.parseDelimited()

	// Anything the grammar could not place still ends up in the tree.
	if _, ok := p.peek(); ok {
		children := []*Node{root}
		for {
			tok, ok := p.peek()
			if !ok {
				break
			}
			p.next()
			children = append(children, errorTok(tok, types.Command))
		}
		root = interior(types.Delimited, root.Span.Start, children...)
	}
	return root
}

type parser struct {
	src    string
	tokens []lexer.Token
	pos    int
}

func (p *parser) peek() (lexer.Token, bool) {
	if p.pos >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) at(kind types.Kind) bool {
	tok, ok := p.peek()
	return ok && tok.Kind == kind
}

func (p *parser) next() lexer.Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

// here returns the byte position recovery nodes should pin to: the start
// of the upcoming token, or end of input.
func (p *parser) here() int {
	if tok, ok := p.peek(); ok {
		return tok.Start
	}
	return len(p.src)
}

func (p *parser) parseDelimited() *Node {
	if _, ok := p.peek(); !ok {
		return interior(types.Delimited, p.here())
	}
	children := []*Node{p.parseSequenced()}
	for p.at(types.SemiColon) {
		children = append(children, leaf(p.next(), types.SemiColon), p.parseSequenced())
	}
	if len(children) == 1 {
		return children[0]
	}
	return interior(types.Delimited, children[0].Span.Start, children...)
}

func (p *parser) parseSequenced() *Node {
	children := []*Node{p.parsePiped()}
	for p.at(types.Ampersand) {
		children = append(children, leaf(p.next(), types.Ampersand), p.parsePiped())
	}
	if len(children) == 1 {
		return children[0]
	}
	return interior(types.Sequenced, children[0].Span.Start, children...)
}

func (p *parser) parsePiped() *Node {
	children := []*Node{p.parseAtom()}
	for p.at(types.Pipe) {
		children = append(children, leaf(p.next(), types.Pipe), p.parseAtom())
	}
	if len(children) == 1 {
		return children[0]
	}
	return interior(types.Piped, children[0].Span.Start, children...)
}

func (p *parser) parseAtom() *Node {
	tok, ok := p.peek()
	if !ok {
		return errorAt(p.here(), types.Command)
	}
	switch tok.Kind {
	case types.Dollar:
		return p.parseFunction()
	case types.Literal, types.DoubleQuote:
		return p.parseCommand()
	case types.CloseBrace:
		// Left for the enclosing BracedCommand (or the top level) to
		// report; consuming it here would swallow block terminators.
		return errorAt(p.here(), types.Command)
	default:
		return errorTok(p.next(), types.Command)
	}
}

func (p *parser) parseFunction() *Node {
	dollar := leaf(p.next(), types.Dollar)
	value := p.parseValue()
	return interior(types.Function, dollar.Span.Start, dollar, value)
}

func (p *parser) parseValue() *Node {
	tok, ok := p.peek()
	if !ok {
		return errorAt(p.here(), types.PropertyInsn)
	}
	switch tok.Kind {
	case types.DoubleQuote:
		return p.parseString()
	case types.NumberLiteral:
		return leaf(p.next(), types.NumberLiteral)
	case types.OpenBrace:
		return p.parseBraced()
	case types.Identifier:
		return p.parsePropertyChain()
	case types.CloseBrace, types.CloseParen, types.SemiColon, types.Ampersand, types.Pipe:
		// Boundary tokens belong to the enclosing production; leave them
		// for it and pin the missing value here.
		return errorAt(p.here(), types.PropertyInsn)
	default:
		return errorTok(p.next(), types.PropertyInsn)
	}
}

// parseString assembles "..." from the quote, body and closing quote
// tokens. A missing closing quote yields an Error leaf at end of line;
// the body still carries everything up to there.
func (p *parser) parseString() *Node {
	children := []*Node{leaf(p.next(), types.DoubleQuote)}
	if p.at(types.Literal) {
		children = append(children, leaf(p.next(), types.Literal))
	}
	if p.at(types.DoubleQuote) {
		children = append(children, leaf(p.next(), types.DoubleQuote))
	} else {
		children = append(children, errorAt(p.here(), types.DoubleQuote))
	}
	return interior(types.StringLiteral, children[0].Span.Start, children...)
}

func (p *parser) parseBraced() *Node {
	open := leaf(p.next(), types.OpenBrace)
	body := p.parseDelimitedInBraces()
	var close *Node
	if p.at(types.CloseBrace) {
		close = leaf(p.next(), types.CloseBrace)
	} else {
		close = errorAt(p.here(), types.CloseBrace)
	}
	return interior(types.BracedCommand, open.Span.Start, open, body, close)
}

// parseDelimitedInBraces parses the body of { ... }; unlike the top-level
// entry it must produce an (empty) Delimited even when the next token is
// the closing brace.
func (p *parser) parseDelimitedInBraces() *Node {
	if !p.atBodyStart() {
		return interior(types.Delimited, p.here())
	}
	return p.parseDelimited()
}

func (p *parser) atBodyStart() bool {
	tok, ok := p.peek()
	return ok && tok.Kind != types.CloseBrace
}

func (p *parser) parsePropertyChain() *Node {
	name := leaf(p.next(), types.PropertyName)
	node := interior(types.PropertyInsn, name.Span.Start, name)
	node = p.maybeCall(node)
	for p.at(types.Dot) {
		dot := leaf(p.next(), types.Dot)
		var right *Node
		if p.at(types.Identifier) {
			right = leaf(p.next(), types.PropertyName)
		} else {
			right = errorAt(p.here(), types.PropertyName)
		}
		node = interior(types.PropertyInsn, node.Span.Start, node, dot, right)
		node = p.maybeCall(node)
	}
	return node
}

func (p *parser) maybeCall(insn *Node) *Node {
	if !p.at(types.OpenParen) {
		return insn
	}
	parens := p.parseParens()
	return interior(types.PropertyCall, insn.Span.Start, insn, parens)
}

func (p *parser) parseParens() *Node {
	children := []*Node{leaf(p.next(), types.OpenParen)}
	for {
		tok, ok := p.peek()
		if !ok {
			children = append(children, errorAt(p.here(), types.CloseParen))
			break
		}
		switch tok.Kind {
		case types.CloseParen:
			children = append(children, leaf(p.next(), types.CloseParen))
		case types.Comma:
			children = append(children, leaf(p.next(), types.Comma))
			continue
		case types.SemiColon, types.Ampersand, types.Pipe, types.CloseBrace:
			// The separator has already flipped the lexer out of
			// expression mode; the list is unterminated.
			children = append(children, errorAt(p.here(), types.CloseParen))
		default:
			value := p.parseValue()
			children = append(children, interior(types.Parameter, value.Span.Start, value))
			continue
		}
		break
	}
	return interior(types.ParenthesizedArgumentsList, children[0].Span.Start, children...)
}

func (p *parser) parseCommand() *Node {
	var name *Node
	if p.at(types.Literal) {
		name = leaf(p.next(), types.CommandName)
	} else {
		name = errorAt(p.here(), types.CommandName)
	}
	argStart := p.here()
	var args []*Node
	for {
		switch {
		case p.at(types.Literal):
			args = append(args, leaf(p.next(), types.Literal))
		case p.at(types.DoubleQuote):
			args = append(args, p.parseString())
		default:
			arguments := interior(types.CommandArguments, argStart, args...)
			return interior(types.Command, name.Span.Start, name, arguments)
		}
	}
}
