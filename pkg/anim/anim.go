// Package anim holds the time-based interpolation primitives used to stage
// actors: easing curves, colors, and per-attribute animation task records.
//
// Tasks carry no goroutines or timers. Callers advance their own clock and
// evaluate tasks against it.
package anim

import (
	"fmt"
	"math"
	"strings"
)

// Easing maps linear progress in [0,1] to eased progress in [0,1].
// Implementations must be monotonic with Easing(0)=0 and Easing(1)=1.
type Easing func(t float64) float64

// Linear returns progress unchanged.
func Linear(t float64) float64 {
	return Clamp01(t)
}

// SmoothStep is the default S-curve used for portrait staging.
func SmoothStep(t float64) float64 {
	t = Clamp01(t)
	return t * t * (3 - 2*t)
}

// EaseInOutCubic accelerates harder than SmoothStep at both ends.
func EaseInOutCubic(t float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// ParseEasing resolves a configured easing name.
func ParseEasing(name string) (Easing, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "smoothstep", "s_curve", "scurve":
		return SmoothStep, nil
	case "linear":
		return Linear, nil
	case "ease_in_out_cubic", "cubic":
		return EaseInOutCubic, nil
	default:
		return nil, fmt.Errorf("unknown easing %q", name)
	}
}

// Clamp01 clamps v into [0,1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Clamp clamps v into [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Vec2 is a position on the stage.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LerpVec interpolates between two stage positions.
func LerpVec(a, b Vec2, t float64) Vec2 {
	return Vec2{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

// Color is a straight (non-premultiplied) RGBA color with channels in [0,1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

var (
	White = Color{R: 1, G: 1, B: 1, A: 1}
	// Dimmed is the default tint for an actor that is on stage but not speaking.
	Dimmed = Color{R: 0.55, G: 0.55, B: 0.55, A: 1}
)

// LerpColor interpolates the RGB channels; alpha is interpolated too so
// callers that own alpha separately should overwrite it.
func LerpColor(a, b Color, t float64) Color {
	return Color{
		R: Lerp(a.R, b.R, t),
		G: Lerp(a.G, b.G, t),
		B: Lerp(a.B, b.B, t),
		A: Lerp(a.A, b.A, t),
	}
}

// Hex renders the RGB channels as #rrggbb.
func (c Color) Hex() string {
	to8 := func(v float64) int { return int(math.Round(Clamp01(v) * 255)) }
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}
