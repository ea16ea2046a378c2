package dialogue

import (
	"github.com/jwebster45206/dialogue-engine/pkg/actor"
	"github.com/jwebster45206/dialogue-engine/pkg/story"
)

// View is everything a renderer needs to draw the current frame.
type View struct {
	SessionID string `json:"session_id,omitempty"`
	Mode      Mode   `json:"mode"`
	State     State  `json:"state"`

	Speaker  string `json:"speaker"`
	Portrait string `json:"portrait,omitempty"`
	Side     string `json:"side,omitempty"`

	Text      string `json:"text"`
	Revealed  string `json:"revealed"`
	Revealing bool   `json:"revealing"`

	ContinueVisible bool           `json:"continue_visible"`
	ChoicesVisible  bool           `json:"choices_visible"`
	Choices         []story.Choice `json:"choices,omitempty"`
	Focus           int            `json:"focus"`

	Actors []actor.State `json:"actors,omitempty"`
}
