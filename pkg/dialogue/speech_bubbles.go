package dialogue

import "github.com/jwebster45206/dialogue-engine/pkg/directive"

// bubblePresenter attaches lines to a named speaker's bubble. It has no
// portraits or staging.
type bubblePresenter struct {
	surface
}

func newBubblePresenter() *bubblePresenter {
	p := &bubblePresenter{}
	p.Reset()
	return p
}

func (p *bubblePresenter) Mode() Mode { return SpeechBubbles }

func (p *bubblePresenter) Reset() { p.surface.reset() }

func (p *bubblePresenter) ApplyDirective(d directive.Directive) error {
	switch d.Key {
	case directive.Speaker, directive.Aka:
		p.speaker = d.Value
		return nil
	default:
		return unrecognized(SpeechBubbles, d)
	}
}

func (p *bubblePresenter) Render(v *View) { p.surface.render(v) }
