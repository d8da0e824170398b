// Package annotator runs the resolution machinery over a half-typed line
// to produce coloring, hints and completions at the cursor position.
package annotator

import "fmt"

// ColorTag names a highlight class. Mapping tags to concrete colors is
// the terminal's business.
type ColorTag int

const (
	ColorError ColorTag = iota
	ColorCommand
	ColorProperty
	ColorString
	ColorNumber
	ColorOperator
)

func (c ColorTag) String() string {
	switch c {
	case ColorError:
		return "Error"
	case ColorCommand:
		return "Command"
	case ColorProperty:
		return "Property"
	case ColorString:
		return "String"
	case ColorNumber:
		return "Number"
	case ColorOperator:
		return "Operator"
	default:
		return fmt.Sprintf("ColorTag(%d)", int(c))
	}
}

// Sink accumulates annotations in three ordered channels.
type Sink struct {
	Completions []string
	Colors      []ColorTag
	Hints       []string
}

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) AddCompletion(completion string) {
	s.Completions = append(s.Completions, completion)
}

func (s *Sink) AddColor(color ColorTag) {
	s.Colors = append(s.Colors, color)
}

func (s *Sink) AddHint(hint string) {
	s.Hints = append(s.Hints, hint)
}

// AddError flags the current span as erroneous, with an optional hint.
func (s *Sink) AddError(hint string) {
	if hint != "" {
		s.Hints = append(s.Hints, "Error: "+hint)
	}
	s.Colors = append(s.Colors, ColorError)
}
