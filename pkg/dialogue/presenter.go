package dialogue

import (
	"fmt"

	"github.com/jwebster45206/dialogue-engine/pkg/directive"
	"github.com/jwebster45206/dialogue-engine/pkg/story"
)

// UnknownSpeaker is shown until a line names its speaker.
const UnknownSpeaker = "???"

// Presenter is the mode-specific half of the session: it applies directives
// to its own presentation state and renders that state into a View.
type Presenter interface {
	Mode() Mode
	// Reset restores the presentation for a new session.
	Reset()
	// ApplyDirective applies one directive. Errors are warning-class; the
	// presenter is left as it was before the failed directive.
	ApplyDirective(d directive.Directive) error
	SetContinueAffordance(visible bool)
	ShowChoices(choices []story.Choice)
	HideChoices()
	// Update advances time-based presentation state.
	Update()
	Render(v *View)
}

// surface is the presentation state every mode shares.
type surface struct {
	speaker         string
	portrait        string
	continueVisible bool
	choicesVisible  bool
}

func (s *surface) reset() {
	*s = surface{speaker: UnknownSpeaker}
}

func (s *surface) SetContinueAffordance(visible bool) { s.continueVisible = visible }

func (s *surface) ShowChoices([]story.Choice) { s.choicesVisible = true }

func (s *surface) HideChoices() { s.choicesVisible = false }

func (s *surface) Update() {}

func (s *surface) render(v *View) {
	v.Speaker = s.speaker
	v.Portrait = s.portrait
	v.ContinueVisible = s.continueVisible
	v.ChoicesVisible = s.choicesVisible
}

func unrecognized(mode Mode, d directive.Directive) error {
	return fmt.Errorf("%w: %q in %s mode", ErrUnrecognizedDirective, d.Key, mode)
}

func invalidValue(d directive.Directive, want string) error {
	return fmt.Errorf("%w: %s=%q, want %s", ErrInvalidValue, d.Key, d.Value, want)
}

// parseSide maps "right"/"left" to true/false.
func parseSide(d directive.Directive) (bool, error) {
	switch d.Value {
	case "right":
		return true, nil
	case "left":
		return false, nil
	default:
		return false, invalidValue(d, "right or left")
	}
}
