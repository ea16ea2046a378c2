// Package reveal paces the display of a dialogue line.
package reveal

import "time"

// Coordinator reveals one line of text over time. Begin starts a reveal and
// replaces any reveal in progress without completing it. onComplete is
// called exactly once, either when the reveal finishes on its own or when
// SkipToEnd forces it.
type Coordinator interface {
	Begin(cmds []Command, text string, onComplete func())
	SkipToEnd()
	IsRevealing() bool
	// Cancel abandons the reveal in progress without calling onComplete.
	Cancel()
	// Tick advances reveal time.
	Tick(dt time.Duration)
	// Visible returns the part of the text revealed so far.
	Visible() string
}

// DefaultCharsPerSecond is the base reveal rate.
const DefaultCharsPerSecond = 40

// Typewriter is a tick-driven Coordinator that reveals one rune at a time.
type Typewriter struct {
	perChar time.Duration

	runes      []rune
	shown      int
	cmds       []Command
	next       int
	speed      float64
	pause      time.Duration
	elapsed    time.Duration
	revealing  bool
	onComplete func()
}

var _ Coordinator = (*Typewriter)(nil)

// NewTypewriter creates a typewriter revealing charsPerSecond runes per
// second at speed 1. Non-positive rates use DefaultCharsPerSecond.
func NewTypewriter(charsPerSecond float64) *Typewriter {
	if charsPerSecond <= 0 {
		charsPerSecond = DefaultCharsPerSecond
	}
	return &Typewriter{
		perChar: time.Duration(float64(time.Second) / charsPerSecond),
	}
}

// Begin starts revealing text. Commands must be sorted by Index, as
// ParseCommands returns them. An empty text completes on the next Tick.
func (t *Typewriter) Begin(cmds []Command, text string, onComplete func()) {
	t.runes = []rune(text)
	t.shown = 0
	t.cmds = cmds
	t.next = 0
	t.speed = 1
	t.pause = 0
	t.elapsed = 0
	t.revealing = true
	t.onComplete = onComplete
}

// SkipToEnd reveals the whole text, ignoring remaining commands, and
// completes. No-op when nothing is revealing.
func (t *Typewriter) SkipToEnd() {
	if !t.revealing {
		return
	}
	t.shown = len(t.runes)
	t.finish()
}

// IsRevealing reports whether a reveal is in progress.
func (t *Typewriter) IsRevealing() bool {
	return t.revealing
}

// Cancel stops the reveal without calling its completion callback.
func (t *Typewriter) Cancel() {
	t.revealing = false
	t.onComplete = nil
}

// Visible returns the revealed prefix of the text.
func (t *Typewriter) Visible() string {
	return string(t.runes[:t.shown])
}


// Tick advances the reveal by dt.
func (t *Typewriter) Tick(dt time.Duration) {
	budget := dt
	for t.revealing {
		t.applyCommands()

		if t.pause > 0 {
			if budget < t.pause {
				t.pause -= budget
				return
			}
			budget -= t.pause
			t.pause = 0
			continue
		}

		if t.shown >= len(t.runes) {
			t.finish()
			return
		}

		step := time.Duration(float64(t.perChar) / t.speed)
		need := step - t.elapsed
		if budget < need {
			t.elapsed += budget
			return
		}
		budget -= need
		t.elapsed = 0
		t.shown++
	}
}

// applyCommands runs every command positioned at or before the reveal cursor.
func (t *Typewriter) applyCommands() {
	for t.next < len(t.cmds) && t.cmds[t.next].Index <= t.shown {
		cmd := t.cmds[t.next]
		switch cmd.Kind {
		case CommandPause:
			t.pause += time.Duration(cmd.Value * float64(time.Second))
		case CommandSpeed:
			if cmd.Value > 0 {
				t.speed = cmd.Value
			}
		}
		t.next++
	}
}

func (t *Typewriter) finish() {
	t.revealing = false
	done := t.onComplete
	t.onComplete = nil
	if done != nil {
		done()
	}
}
