// Package types holds the syntax kinds and spans shared by the lexer,
// parser and every downstream pass. There is a single closed tag set:
// terminals come straight from the tokenizer, nonterminals are produced
// by the grammar, and the parse tree reuses both directly.
package types

import "fmt"

// Kind identifies a terminal token or a syntax node.
type Kind uint8

const (
	// Error is produced by the tokenizer on unrecognized input and by
	// the parser's recovery productions. An Error node records the kind
	// that should have been present (see parser.Node.Expected).
	Error Kind = iota

	// Terminals
	Ampersand     // &
	Pipe          // |
	SemiColon     // ;
	Dollar        // $
	Literal       // bare word in command mode, or string body
	OpenBrace     // {
	CloseBrace    // }
	DoubleQuote   // "
	OpenParen     // (
	CloseParen    // )
	Dot           // .
	Comma         // ,
	NumberLiteral // 42, 3.14
	Identifier    // property and function names

	// Nonterminals
	Delimited        // a ; b
	Sequenced        // a & b
	Piped            // a | b
	Command          // external command invocation
	CommandName      // first word of a command
	CommandArguments // remaining words of a command
	Function         // $ value
	StringLiteral    // "..."
	BracedCommand    // { ... }
	PropertyInsn     // a.b
	PropertyCall     // a.b(...)
	PropertyName     // the b in a.b
	ParenthesizedArgumentsList
	Parameter
)

var kindNames = [...]string{
	Error:                      "Error",
	Ampersand:                  "Ampersand",
	Pipe:                       "Pipe",
	SemiColon:                  "SemiColon",
	Dollar:                     "Dollar",
	Literal:                    "Literal",
	OpenBrace:                  "OpenBrace",
	CloseBrace:                 "CloseBrace",
	DoubleQuote:                "DoubleQuote",
	OpenParen:                  "OpenParen",
	CloseParen:                 "CloseParen",
	Dot:                        "Dot",
	Comma:                      "Comma",
	NumberLiteral:              "NumberLiteral",
	Identifier:                 "Identifier",
	Delimited:                  "Delimited",
	Sequenced:                  "Sequenced",
	Piped:                      "Piped",
	Command:                    "Command",
	CommandName:                "CommandName",
	CommandArguments:           "CommandArguments",
	Function:                   "Function",
	StringLiteral:              "StringLiteral",
	BracedCommand:              "BracedCommand",
	PropertyInsn:               "PropertyInsn",
	PropertyCall:               "PropertyCall",
	PropertyName:               "PropertyName",
	ParenthesizedArgumentsList: "ParenthesizedArgumentsList",
	Parameter:                  "Parameter",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsTerminal reports whether the kind is produced by the tokenizer.
func (k Kind) IsTerminal() bool {
	return k <= Identifier
}
