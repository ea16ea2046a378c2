// Package story defines the narrative interpreter consumed by the dialogue
// engine and provides a small knot-graph runtime that implements it.
package story

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMoreContent is returned by Advance when the story has no next line.
	ErrNoMoreContent = errors.New("no more content")
	// ErrChoiceOutOfRange is returned by SelectChoice for an index that is
	// not currently offered.
	ErrChoiceOutOfRange = errors.New("choice index out of range")
	// ErrUnknownKnot reports a divert to a knot that does not exist.
	ErrUnknownKnot = errors.New("unknown knot")
)

// maxHops bounds divert chains through knots without lines.
const maxHops = 64

// Choice is an option currently offered by an interpreter.
type Choice struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Interpreter is a pull-based narrative interpreter.
type Interpreter interface {
	// HasMore reports whether Advance can produce another line.
	HasMore() bool
	// Advance returns the next line and its tags.
	Advance() (text string, tags []string, err error)
	// CurrentChoices returns the choices offered after the last line, in
	// interpreter order. Empty when none are offered.
	CurrentChoices() []Choice
	// SelectChoice follows the choice with the given index.
	SelectChoice(index int) error
}

// Story walks a Script.
type Story struct {
	script *Script
	knot   string
	line   int
	ended  bool
}

var _ Interpreter = (*Story)(nil)

// New starts a story at the script's start knot.
func New(script *Script) (*Story, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}
	s := &Story{script: script}
	if err := s.enter(script.Start); err != nil {
		return nil, err
	}
	return s, nil
}

// Load parses a JSON script and starts it.
func Load(data []byte) (Interpreter, error) {
	script, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return New(script)
}

// Knot returns the name of the knot the story is in.
func (s *Story) Knot() string {
	return s.knot
}

func (s *Story) HasMore() bool {
	return !s.ended && s.line < len(s.script.Knots[s.knot].Lines)
}

func (s *Story) Advance() (string, []string, error) {
	if !s.HasMore() {
		return "", nil, ErrNoMoreContent
	}
	l := s.script.Knots[s.knot].Lines[s.line]
	s.line++
	if err := s.settle(); err != nil {
		return "", nil, err
	}
	return l.Text, l.Tags, nil
}

func (s *Story) CurrentChoices() []Choice {
	if s.ended || s.HasMore() {
		return nil
	}
	opts := s.script.Knots[s.knot].Choices
	choices := make([]Choice, len(opts))
	for i, o := range opts {
		choices[i] = Choice{Index: i, Text: o.Text}
	}
	return choices
}

func (s *Story) SelectChoice(index int) error {
	choices := s.CurrentChoices()
	if index < 0 || index >= len(choices) {
		return fmt.Errorf("%w: %d of %d", ErrChoiceOutOfRange, index, len(choices))
	}
	return s.enter(s.script.Knots[s.knot].Choices[index].Divert)
}

// enter moves to the start of a knot and follows diverts past any knot
// that is already exhausted.
func (s *Story) enter(target string) error {
	if target == "" || target == End {
		s.ended = true
		return nil
	}
	if _, ok := s.script.Knots[target]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKnot, target)
	}
	s.knot = target
	s.line = 0
	return s.settle()
}

// settle follows diverts from exhausted knots until the story is at a line,
// at a set of choices, or ended.
func (s *Story) settle() error {
	for hops := 0; ; hops++ {
		k := s.script.Knots[s.knot]
		if s.line < len(k.Lines) || len(k.Choices) > 0 {
			return nil
		}
		if k.Divert == "" || k.Divert == End {
			s.ended = true
			return nil
		}
		if hops >= maxHops {
			return fmt.Errorf("divert loop through knot %q", s.knot)
		}
		if _, ok := s.script.Knots[k.Divert]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownKnot, k.Divert)
		}
		s.knot = k.Divert
		s.line = 0
	}
}
