package story

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// End is a divert target that finishes the story.
const End = "END"

// Line is one line of dialogue with its tags.
type Line struct {
	Text string   `json:"text" yaml:"text"`
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Option is a choice offered at the end of a knot.
type Option struct {
	Text   string `json:"text" yaml:"text"`
	Divert string `json:"divert" yaml:"divert"` // knot to continue at; empty or END finishes the story
}

// Knot is a named block of lines. After its last line the story offers the
// knot's choices, or follows Divert when there are none.
type Knot struct {
	Lines   []Line   `json:"lines" yaml:"lines"`
	Choices []Option `json:"choices,omitempty" yaml:"choices,omitempty"`
	Divert  string   `json:"divert,omitempty" yaml:"divert,omitempty"`
}

// Script is a compiled dialogue graph.
type Script struct {
	Start string          `json:"start" yaml:"start"`
	Knots map[string]Knot `json:"knots" yaml:"knots"`
}

// Parse decodes and validates a JSON script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that the start knot and every divert exist.
func (s *Script) Validate() error {
	var errs []error
	if s.Start == "" {
		errs = append(errs, errors.New("script has no start knot"))
	} else if _, ok := s.Knots[s.Start]; !ok {
		errs = append(errs, fmt.Errorf("%w: start %q", ErrUnknownKnot, s.Start))
	}

	for _, name := range s.KnotNames() {
		k := s.Knots[name]
		if !s.targetExists(k.Divert) {
			errs = append(errs, fmt.Errorf("%w: knot %q diverts to %q", ErrUnknownKnot, name, k.Divert))
		}
		for i, c := range k.Choices {
			if strings.TrimSpace(c.Text) == "" {
				errs = append(errs, fmt.Errorf("knot %q choice %d has no text", name, i))
			}
			if !s.targetExists(c.Divert) {
				errs = append(errs, fmt.Errorf("%w: knot %q choice %d diverts to %q", ErrUnknownKnot, name, i, c.Divert))
			}
		}
	}
	return errors.Join(errs...)
}

// KnotNames returns knot names in sorted order.
func (s *Script) KnotNames() []string {
	names := make([]string, 0, len(s.Knots))
	for name := range s.Knots {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Tags returns every tag in the script, in knot-name then line order.
func (s *Script) Tags() []string {
	var tags []string
	for _, name := range s.KnotNames() {
		for _, l := range s.Knots[name].Lines {
			tags = append(tags, l.Tags...)
		}
	}
	return tags
}

func (s *Script) targetExists(target string) bool {
	if target == "" || target == End {
		return true
	}
	_, ok := s.Knots[target]
	return ok
}
