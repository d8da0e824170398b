package cli

import (
	"fmt"
	"strings"

	"github.com/JustAGod1/fosh/core/types"
	"github.com/JustAGod1/fosh/runtime/diag"
)

// formatReport renders one diagnostic: the error class, the offending
// part of the line with the blamed span underlined by ^^^, and the
// attached hints and notes. Long lines are windowed to roughly 80
// columns around the span.
func formatReport(text string, span types.Span, d *diag.Diagnostic) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\r\n", d.Kind)

	if len(text) <= 80 {
		highlight(&sb, text, span)
	} else {
		delta := 80 - span.Len() - 1
		if delta < 0 {
			delta = 0
		}
		start := span.Start - delta
		if start < 0 {
			start = 0
		}
		end := span.End + delta
		if end > len(text) {
			end = len(text)
		}
		highlight(&sb, text[start:end], types.Span{Start: span.Start - start, End: span.End - start})
	}

	for _, hint := range d.Hints {
		fmt.Fprintf(&sb, "hint: %s\r\n", hint)
	}
	for _, note := range d.Notes {
		fmt.Fprintf(&sb, "note: %s\r\n", note)
	}
	return sb.String()
}

func highlight(sb *strings.Builder, text string, span types.Span) {
	sb.WriteString(text)
	sb.WriteString("\r\n")
	width := span.End
	if width < span.Start+1 {
		// Zero-width spans (recovery at end of line) still get one caret.
		width = span.Start + 1
	}
	for i := 0; i < width; i++ {
		if i >= span.Start {
			sb.WriteByte('^')
		} else {
			sb.WriteByte(' ')
		}
	}
	sb.WriteString("\r\n")
}
