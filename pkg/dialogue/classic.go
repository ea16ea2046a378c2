package dialogue

import (
	"fmt"

	"github.com/jwebster45206/dialogue-engine/pkg/directive"
	"github.com/jwebster45206/dialogue-engine/pkg/portrait"
)

// classicPresenter shows one speaker name and one portrait beside the text box.
type classicPresenter struct {
	surface
	portraits *portrait.Data

	// hasSpeaker is set by the first speaker directive; set stays nil in
	// degraded mode.
	hasSpeaker bool
	set        *portrait.Set
	side       string
}

func newClassicPresenter(portraits *portrait.Data) *classicPresenter {
	p := &classicPresenter{portraits: portraits}
	p.Reset()
	return p
}

func (p *classicPresenter) Mode() Mode { return Classic }

func (p *classicPresenter) Reset() {
	p.surface.reset()
	p.hasSpeaker = false
	p.set = nil
	p.side = ""
}

func (p *classicPresenter) ApplyDirective(d directive.Directive) error {
	switch d.Key {
	case directive.Speaker:
		p.speaker = d.Value
		p.hasSpeaker = true
		if p.portraits.Empty() {
			return nil
		}
		p.set, _ = p.portraits.Resolve(d.Value)
		p.portrait = p.set.Neutral
	case directive.Aka:
		p.speaker = d.Value
	case directive.Emotion:
		if !p.hasSpeaker {
			return fmt.Errorf("%w: no speaker for emotion %q", ErrMissingReference, d.Value)
		}
		if p.set == nil {
			return nil
		}
		img, err := p.set.Portrait(d.Value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMissingReference, err)
		}
		p.portrait = img
	case directive.Side:
		if _, err := parseSide(d); err != nil {
			return err
		}
		p.side = d.Value
	default:
		return unrecognized(Classic, d)
	}
	return nil
}

func (p *classicPresenter) Render(v *View) {
	p.surface.render(v)
	v.Side = p.side
}
