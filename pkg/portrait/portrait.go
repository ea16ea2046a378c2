package portrait

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownEmotion = errors.New("unknown emotion")

// Emotion is one of the fixed portrait expressions.
type Emotion string

const (
	Neutral Emotion = "neutral"
	Happy   Emotion = "happy"
	Fear    Emotion = "fear"
	Angry   Emotion = "angry"
)

// Emotions lists every supported expression in display order.
var Emotions = []Emotion{Neutral, Happy, Fear, Angry}

// ParseEmotion validates an emotion label. Labels are matched exactly.
func ParseEmotion(label string) (Emotion, error) {
	switch e := Emotion(label); e {
	case Neutral, Happy, Fear, Angry:
		return e, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEmotion, label)
	}
}

// Set is the static image bundle for one character. Image values are opaque
// asset references (file paths, atlas keys) resolved by the renderer.
type Set struct {
	CharacterName string `json:"character_name" yaml:"character_name"`
	Neutral       string `json:"neutral" yaml:"neutral"`
	Happy         string `json:"happy,omitempty" yaml:"happy,omitempty"`
	Fear          string `json:"fear,omitempty" yaml:"fear,omitempty"`
	Angry         string `json:"angry,omitempty" yaml:"angry,omitempty"`
}

// Portrait returns the image for an emotion label.
func (s *Set) Portrait(label string) (string, error) {
	e, err := ParseEmotion(label)
	if err != nil {
		return "", fmt.Errorf("%s: %w", s.CharacterName, err)
	}
	switch e {
	case Happy:
		return s.Happy, nil
	case Fear:
		return s.Fear, nil
	case Angry:
		return s.Angry, nil
	default:
		return s.Neutral, nil
	}
}

// Data is the ordered list of portrait sets available to a dialogue.
// Lookups are case-sensitive exact matches on CharacterName.
type Data struct {
	// Default names the fallback set. When empty the first set is used.
	Default string `json:"default,omitempty" yaml:"default,omitempty"`
	Sets    []Set  `json:"portrait_sets" yaml:"portrait_sets"`
}

// Lookup finds a set by exact character name. When several sets share a
// name the last one wins.
func (d *Data) Lookup(name string) (*Set, bool) {
	if d == nil {
		return nil, false
	}
	var found *Set
	for i := range d.Sets {
		if d.Sets[i].CharacterName == name {
			found = &d.Sets[i]
		}
	}
	return found, found != nil
}

// DefaultSet returns the configured fallback set, or nil when there are no sets.
func (d *Data) DefaultSet() *Set {
	if d == nil || len(d.Sets) == 0 {
		return nil
	}
	if d.Default != "" {
		if s, ok := d.Lookup(d.Default); ok {
			return s
		}
	}
	return &d.Sets[0]
}

// Resolve looks a character up and falls back to the default set. The
// second return value reports whether the fallback was used.
func (d *Data) Resolve(name string) (*Set, bool) {
	if s, ok := d.Lookup(name); ok {
		return s, false
	}
	return d.DefaultSet(), true
}

// Empty reports whether portraits are effectively disabled.
func (d *Data) Empty() bool {
	return d == nil || len(d.Sets) == 0
}

// Validate checks that character names are present and unique.
func (d *Data) Validate() error {
	if d == nil {
		return nil
	}
	seen := make(map[string]bool, len(d.Sets))
	var problems []string
	for i, s := range d.Sets {
		if s.CharacterName == "" {
			problems = append(problems, fmt.Sprintf("portrait set %d has no character_name", i))
			continue
		}
		if seen[s.CharacterName] {
			problems = append(problems, fmt.Sprintf("duplicate portrait set %q", s.CharacterName))
		}
		seen[s.CharacterName] = true
	}
	if d.Default != "" && !seen[d.Default] {
		problems = append(problems, fmt.Sprintf("default portrait set %q not found", d.Default))
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
