package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/JustAGod1/fosh/core/types"
	"github.com/JustAGod1/fosh/runtime/annotator"
	"github.com/JustAGod1/fosh/runtime/parser"
)

// editLine runs the raw-mode line editor: printables insert at the
// cursor, Left/Right move, Backspace deletes left, Enter commits and
// Ctrl-C aborts the line. Every keystroke reparses and repaints the line
// through the annotators.
func (r *REPL) editLine() (string, error) {
	fd := int(r.input.Fd())
	restore, err := term.MakeRaw(fd)
	if err != nil {
		return "", err
	}
	defer term.Restore(fd, restore)

	var line []rune
	cursor := 0
	r.repaint(line, cursor)

	buf := make([]byte, 1)
	for {
		if _, err := r.input.Read(buf); err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", err
		}
		switch buf[0] {
		case '\r', '\n':
			fmt.Fprint(r.output, "\r\n")
			return string(line), nil
		case 0x03:
			return "", errInterrupted
		case 0x04, 0x00:
			return "", io.EOF
		case 0x7f, 0x08:
			if cursor > 0 {
				line = append(line[:cursor-1], line[cursor:]...)
				cursor--
			}
		case 0x1b:
			move, err := r.readArrow()
			if err != nil {
				return "", err
			}
			cursor += move
			if cursor < 0 {
				cursor = 0
			}
			if cursor > len(line) {
				cursor = len(line)
			}
		default:
			if buf[0] >= 0x20 {
				line = append(line[:cursor], append([]rune{rune(buf[0])}, line[cursor:]...)...)
				cursor++
			}
		}
		r.repaint(line, cursor)
	}
}

// readArrow consumes the rest of a CSI sequence and returns the cursor
// delta it encodes. Unknown sequences move nothing.
func (r *REPL) readArrow() (int, error) {
	buf := make([]byte, 1)
	if _, err := r.input.Read(buf); err != nil {
		return 0, err
	}
	if buf[0] != '[' {
		return 0, nil
	}
	if _, err := r.input.Read(buf); err != nil {
		return 0, err
	}
	switch buf[0] {
	case 'C':
		return 1, nil
	case 'D':
		return -1, nil
	default:
		return 0, nil
	}
}

// ANSI fragments for the painter.
const (
	ansiReset   = "\x1b[0m"
	ansiRed     = "\x1b[31m"
	ansiGreen   = "\x1b[32m"
	ansiYellow  = "\x1b[33m"
	ansiMagenta = "\x1b[35m"
	ansiCyan    = "\x1b[36m"
)

// repaint redraws the prompt and the line with per-leaf colors, then
// parks the terminal cursor at the edit position.
func (r *REPL) repaint(line []rune, cursor int) {
	src := string(line)
	tree := parser.Parse(src)

	var sb strings.Builder
	sb.WriteString("\r\x1b[K")
	sb.WriteString(r.prompt)
	last := 0
	tree.Root().Walk(func(n *parser.PTNode) {
		if !n.IsLeaf() || n.Span().Len() == 0 {
			return
		}
		sb.WriteString(src[last:n.Span().Start])
		if color := r.leafColor(n); color != "" {
			sb.WriteString(color)
			sb.WriteString(n.Text())
			sb.WriteString(ansiReset)
		} else {
			sb.WriteString(n.Text())
		}
		last = n.Span().End
	})
	sb.WriteString(src[last:])
	if cursor == len(line) {
		sb.WriteString(r.completionGhost(tree, cursor))
	}
	// Park the cursor: prompt plus edit position from the left edge.
	fmt.Fprintf(r.output, "%s\r\x1b[%dC", sb.String(), len(r.prompt)+cursor)
}

// completionGhost renders the remainder of the best completion for the
// token being typed, dimmed, after the end of the line.
func (r *REPL) completionGhost(tree *parser.Tree, cursor int) string {
	sink := r.registry.AnnotateAt(tree, cursor)
	if len(sink.Completions) == 0 {
		return ""
	}
	leaf := tree.Root().FindLeafAt(cursor)
	if leaf == nil && cursor > 0 {
		leaf = tree.Root().FindLeafAt(cursor - 1)
	}
	if leaf == nil {
		return ""
	}
	candidate := sink.Completions[0]
	typed := leaf.Text()
	if !strings.HasPrefix(candidate, typed) || candidate == typed {
		return ""
	}
	return "\x1b[2m" + candidate[len(typed):] + ansiReset
}

// leafColor asks the annotators first (an Error flag wins) and falls
// back to a kind-based default.
func (r *REPL) leafColor(n *parser.PTNode) string {
	sink := annotator.NewSink()
	r.registry.Annotate(n, sink)
	for _, c := range sink.Colors {
		if c == annotator.ColorError {
			return ansiRed
		}
	}
	if n.Errored() {
		return ansiRed
	}
	return kindColor(n)
}

func kindColor(n *parser.PTNode) string {
	switch n.Kind() {
	case types.CommandName:
		return ansiMagenta
	case types.PropertyName:
		return ansiYellow
	case types.NumberLiteral:
		return ansiGreen
	case types.DoubleQuote:
		return ansiGreen
	case types.Literal:
		if p := n.Parent(); p != nil && p.Kind() == types.StringLiteral {
			return ansiGreen
		}
		return ""
	case types.Ampersand, types.Pipe, types.SemiColon, types.Dollar:
		return ansiCyan
	default:
		return ""
	}
}
