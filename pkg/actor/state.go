package actor

import "github.com/jwebster45206/dialogue-engine/pkg/anim"

// State is the render-ready attribute set of one actor.
type State struct {
	Name        string     `json:"name"`
	Image       string     `json:"image"`
	Point       float64    `json:"point"`
	Destination float64    `json:"destination"`
	Position    anim.Vec2  `json:"position"`
	ScaleX      float64    `json:"scale_x"`
	FacingRight bool       `json:"facing_right"`
	Alpha       float64    `json:"alpha"`
	Visible     bool       `json:"visible"` // target visibility; Alpha may still be fading
	Highlighted bool       `json:"highlighted"`
	Color       anim.Color `json:"color"`
	Animation   string     `json:"animation,omitempty"`

	// AnimationCount increments on every PlayAnimation so renderers can
	// replay the same animation name.
	AnimationCount int  `json:"animation_count,omitempty"`
	Animating      bool `json:"animating"`
}

// State snapshots the actor for rendering.
func (a *Actor) State() State {
	color := anim.LerpColor(a.settings.InactiveColor, a.settings.ActiveColor, a.tint)
	color.A = a.alpha
	return State{
		Name:           a.name,
		Image:          a.image,
		Point:          a.point,
		Destination:    a.destination,
		Position:       a.stage.Position(a.point),
		ScaleX:         a.scaleX,
		FacingRight:    a.facingRight,
		Alpha:          a.alpha,
		Visible:        !a.hidden,
		Highlighted:    a.highlighted,
		Color:          color,
		Animation:      a.animation,
		AnimationCount: a.animationCount,
		Animating:      a.Animating(),
	}
}
