// Package actor stages visual-novel portraits: each Actor is a live instance
// of a portrait set that can enter, exit, move, flip, highlight, and change
// expression. All transitions are either forced (instant) or animated over
// a fixed duration and evaluated against the stage clock.
package actor

import (
	"time"

	"github.com/jwebster45206/dialogue-engine/pkg/anim"
	"github.com/jwebster45206/dialogue-engine/pkg/portrait"
)

// Stage is the scene an actor is placed on. It supplies the clock that
// animations are evaluated against and maps normalized scene points
// (0 = start anchor, 1 = end anchor) to stage positions.
type Stage interface {
	Now() time.Duration
	Position(point float64) anim.Vec2
}

// Settings tune staging for every actor on a stage.
type Settings struct {
	AnimateOver   time.Duration
	Ease          anim.Easing
	ActiveColor   anim.Color
	InactiveColor anim.Color
	// StartPoint is where a newly created actor stands before any staging.
	StartPoint float64
	// OnAnimationStart, when set, is called every time an animated
	// transition begins.
	OnAnimationStart func(actor string, kind anim.Kind)
}

// DefaultSettings returns the staging defaults.
func DefaultSettings() Settings {
	return Settings{
		AnimateOver:   350 * time.Millisecond,
		Ease:          anim.SmoothStep,
		ActiveColor:   anim.White,
		InactiveColor: anim.Dimmed,
		StartPoint:    0.5,
	}
}

// Actor is one character portrait on stage.
type Actor struct {
	name     string
	set      *portrait.Set
	image    string
	stage    Stage
	settings Settings

	point       float64
	destination float64
	scaleX      float64
	facingRight bool
	alpha       float64
	hidden      bool
	tint        float64
	highlighted bool

	animation      string
	animationCount int

	tasks anim.Set
}

// New creates an actor from a portrait set. The actor starts hidden, facing
// right, unhighlighted, showing its neutral portrait.
func New(set *portrait.Set, stage Stage, settings Settings) *Actor {
	a := &Actor{
		name:        set.CharacterName,
		set:         set,
		image:       set.Neutral,
		stage:       stage,
		settings:    settings,
		point:       settings.StartPoint,
		destination: settings.StartPoint,
		scaleX:      1,
		facingRight: true,
	}
	a.ForceHide(true)
	return a
}

// Name is the actor's identity, copied from its portrait set.
func (a *Actor) Name() string { return a.name }

// Emotion swaps the displayed portrait. Unknown labels leave the image as is.
func (a *Actor) Emotion(label string) error {
	img, err := a.set.Portrait(label)
	if err != nil {
		return err
	}
	a.image = img
	return nil
}

// Enter snaps the actor to the given edge facing into the scene, then fades
// it in.
func (a *Actor) Enter(fromRight bool) {
	a.tasks.Cancel(anim.KindPosition)
	if fromRight {
		a.point = 1
		a.ForceFlip(false)
	} else {
		a.point = 0
		a.ForceFlip(true)
	}
	a.destination = a.point
	a.ForceHide(true)
	a.Show()
}

// Exit moves the actor toward the given edge while fading it out.
func (a *Actor) Exit(toRight bool) {
	if toRight {
		a.MoveTo(1)
	} else {
		a.MoveTo(0)
	}
	a.ForceHide(false)
	a.Hide()
}

// MoveTo animates the actor from its current point to scenePoint.
func (a *Actor) MoveTo(scenePoint float64) {
	a.snap(anim.KindPosition)
	a.destination = scenePoint
	a.start(anim.KindPosition, a.point, scenePoint)
}

// Activate highlights the actor. No-op when already highlighted.
func (a *Actor) Activate() {
	if a.highlighted {
		return
	}
	a.snap(anim.KindHighlight)
	a.highlighted = true
	a.start(anim.KindHighlight, a.tint, 1)
}

// Deactivate dims the actor. No-op when not highlighted.
func (a *Actor) Deactivate() {
	if !a.highlighted {
		return
	}
	a.snap(anim.KindHighlight)
	a.highlighted = false
	a.start(anim.KindHighlight, a.tint, 0)
}

// Flip animates a facing change. Requests matching the current facing are
// ignored once any running flip has been settled.
func (a *Actor) Flip(toFaceRight bool) {
	a.snap(anim.KindFlip)
	if toFaceRight == a.facingRight {
		return
	}
	to := -1.0
	if toFaceRight {
		to = 1
	}
	a.start(anim.KindFlip, a.scaleX, to)
}

// ForceFlip sets facing immediately, discarding any running flip.
func (a *Actor) ForceFlip(toFaceRight bool) {
	a.tasks.Cancel(anim.KindFlip)
	a.facingRight = toFaceRight
	if toFaceRight {
		a.scaleX = 1
	} else {
		a.scaleX = -1
	}
}

// Show fades the actor in. No-op when already shown or showing.
func (a *Actor) Show() {
	if !a.hidden {
		return
	}
	a.snap(anim.KindAlpha)
	a.hidden = false
	a.start(anim.KindAlpha, a.alpha, 1)
}

// Hide fades the actor out. No-op when already hidden or hiding.
func (a *Actor) Hide() {
	if a.hidden {
		return
	}
	a.snap(anim.KindAlpha)
	a.hidden = true
	a.start(anim.KindAlpha, a.alpha, 0)
}

// ForceHide sets visibility immediately, discarding any running fade.
func (a *Actor) ForceHide(hide bool) {
	a.tasks.Cancel(anim.KindAlpha)
	a.hidden = hide
	if hide {
		a.alpha = 0
	} else {
		a.alpha = 1
	}
}

// PlayAnimation forwards an animation name to the renderer. Names are not
// validated here.
func (a *Actor) PlayAnimation(name string) {
	a.animation = name
	a.animationCount++
}

// Update evaluates running animations against the stage clock.
func (a *Actor) Update() {
	a.tasks.Step(a.stage.Now(), a.apply)
}

// Animating reports whether any transition is still running.
func (a *Actor) Animating() bool {
	return a.tasks.Len() > 0
}

// start begins an animated transition of one attribute. Callers settle any
// running transition of the same kind first.
func (a *Actor) start(kind anim.Kind, from, to float64) {
	a.tasks.Start(&anim.Task{
		Kind:     kind,
		From:     from,
		To:       to,
		Start:    a.stage.Now(),
		Duration: a.settings.AnimateOver,
		Ease:     a.settings.Ease,
	})
	if a.settings.OnAnimationStart != nil {
		a.settings.OnAnimationStart(a.name, kind)
	}
}

// snap cancels a running transition and applies its target value.
func (a *Actor) snap(kind anim.Kind) {
	if task := a.tasks.Cancel(kind); task != nil {
		a.apply(kind, task.To, true)
	}
}

func (a *Actor) apply(kind anim.Kind, value float64, done bool) {
	switch kind {
	case anim.KindPosition:
		a.point = value
	case anim.KindFlip:
		a.scaleX = value
		if done {
			a.facingRight = value > 0
		}
	case anim.KindHighlight:
		a.tint = value
	case anim.KindAlpha:
		a.alpha = value
	}
}
