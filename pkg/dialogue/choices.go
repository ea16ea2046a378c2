package dialogue

import (
	"fmt"

	"github.com/jwebster45206/dialogue-engine/pkg/story"
)

// ChoiceResolver holds the choices currently materialized for the player.
// Selection is purely by interpreter index.
type ChoiceResolver struct {
	choices []story.Choice
	focus   int
}

// Present materializes choices in interpreter order and focuses the first.
// It panics when choices is empty or the indexes do not run 0..n-1.
func (r *ChoiceResolver) Present(choices []story.Choice) {
	if len(choices) == 0 {
		panic("dialogue: Present called without choices")
	}
	for i, c := range choices {
		if c.Index != i {
			panic(fmt.Sprintf("dialogue: choice %d has index %d", i, c.Index))
		}
	}
	r.choices = append(r.choices[:0], choices...)
	r.focus = 0
}

// Select clears the materialized choices and returns the selected one. It
// panics when index is not materialized.
func (r *ChoiceResolver) Select(index int) story.Choice {
	if index < 0 || index >= len(r.choices) {
		panic(fmt.Sprintf("dialogue: %v: %d of %d", story.ErrChoiceOutOfRange, index, len(r.choices)))
	}
	c := r.choices[index]
	r.Clear()
	return c
}

// Clear discards every materialized choice.
func (r *ChoiceResolver) Clear() {
	r.choices = nil
	r.focus = 0
}

// Choices returns a copy of the materialized choices.
func (r *ChoiceResolver) Choices() []story.Choice {
	if len(r.choices) == 0 {
		return nil
	}
	return append([]story.Choice(nil), r.choices...)
}

// Len returns the number of materialized choices.
func (r *ChoiceResolver) Len() int { return len(r.choices) }

// Focus returns the focused index, or -1 when nothing is materialized.
func (r *ChoiceResolver) Focus() int {
	if len(r.choices) == 0 {
		return -1
	}
	return r.focus
}

// FocusNext moves focus down, wrapping to the first choice.
func (r *ChoiceResolver) FocusNext() {
	if n := len(r.choices); n > 0 {
		r.focus = (r.focus + 1) % n
	}
}

// FocusPrev moves focus up, wrapping to the last choice.
func (r *ChoiceResolver) FocusPrev() {
	if n := len(r.choices); n > 0 {
		r.focus = (r.focus - 1 + n) % n
	}
}
