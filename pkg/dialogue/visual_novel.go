package dialogue

import (
	"fmt"
	"strconv"

	"github.com/jwebster45206/dialogue-engine/pkg/actor"
	"github.com/jwebster45206/dialogue-engine/pkg/directive"
	"github.com/jwebster45206/dialogue-engine/pkg/portrait"
)

// visualNovelPresenter stages one actor per character. Directives other
// than speaker and aka act on the active actor.
type visualNovelPresenter struct {
	surface
	portraits *portrait.Data
	registry  *actor.Registry
}

func newVisualNovelPresenter(portraits *portrait.Data, registry *actor.Registry) *visualNovelPresenter {
	p := &visualNovelPresenter{portraits: portraits, registry: registry}
	p.Reset()
	return p
}

func (p *visualNovelPresenter) Mode() Mode { return VisualNovel }

func (p *visualNovelPresenter) Reset() {
	p.surface.reset()
	p.registry.Clear()
}

func (p *visualNovelPresenter) ApplyDirective(d directive.Directive) error {
	switch d.Key {
	case directive.Speaker:
		p.speaker = d.Value
		a, _ := p.registry.ResolveOrCreate(d.Value, p.portraits)
		p.registry.SetActive(a)
		return nil
	case directive.Aka:
		p.speaker = d.Value
		return nil
	case directive.Start:
		a, _ := p.registry.ResolveOrCreate(d.Value, p.portraits)
		p.registry.SetActive(a)
		a.Show()
		return nil
	case directive.Active:
		a, ok := p.registry.Find(d.Value)
		if !ok {
			return fmt.Errorf("%w: no actor %q on stage", ErrMissingReference, d.Value)
		}
		p.registry.SetActive(a)
		return nil
	case directive.Emotion, directive.Enter, directive.Exit, directive.Move,
		directive.Show, directive.Flip, directive.PortraitAnim:
		a := p.registry.Active()
		if a == nil {
			return fmt.Errorf("%w: no active actor for %s", ErrMissingReference, d.Key)
		}
		return p.stage(a, d)
	default:
		return unrecognized(VisualNovel, d)
	}
}

// stage applies an actor directive to the active actor.
func (p *visualNovelPresenter) stage(a *actor.Actor, d directive.Directive) error {
	switch d.Key {
	case directive.Emotion:
		if p.portraits.Empty() {
			return nil
		}
		if err := a.Emotion(d.Value); err != nil {
			return fmt.Errorf("%w: %w", ErrMissingReference, err)
		}
	case directive.Enter:
		right, err := parseSide(d)
		if err != nil {
			return err
		}
		a.Enter(right)
	case directive.Exit:
		right, err := parseSide(d)
		if err != nil {
			return err
		}
		a.Exit(right)
	case directive.Move:
		point, err := strconv.ParseFloat(d.Value, 64)
		if err != nil || point < 0 || point > 1 {
			return invalidValue(d, "a number from 0 to 1")
		}
		a.MoveTo(point)
	case directive.Show:
		switch d.Value {
		case "show":
			a.Show()
		case "hide":
			a.Hide()
		default:
			return invalidValue(d, "show or hide")
		}
	case directive.Flip:
		right, err := parseSide(d)
		if err != nil {
			return err
		}
		a.Flip(right)
	case directive.PortraitAnim:
		a.PlayAnimation(d.Value)
	}
	return nil
}

func (p *visualNovelPresenter) Update() {
	p.registry.Update()
}

func (p *visualNovelPresenter) Render(v *View) {
	p.surface.render(v)
	if a := p.registry.Active(); a != nil {
		v.Portrait = a.State().Image
	}
	v.Actors = p.registry.States()
}
