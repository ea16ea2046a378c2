package dialogue

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jwebster45206/dialogue-engine/pkg/anim"
	"github.com/jwebster45206/dialogue-engine/pkg/portrait"
	"github.com/jwebster45206/dialogue-engine/pkg/story"
	"github.com/stretchr/testify/require"
)

const testGrace = 100 * time.Millisecond

func testOptions(mode Mode) Options {
	opts := DefaultOptions()
	opts.Mode = mode
	opts.InputGrace = testGrace
	opts.CharsPerSecond = 10
	opts.Actors.AnimateOver = 200 * time.Millisecond
	opts.Actors.Ease = anim.Linear
	return opts
}

func testPortraits() *portrait.Data {
	return &portrait.Data{Sets: []portrait.Set{
		{CharacterName: "Narrator", Neutral: "narrator.png"},
		{CharacterName: "Rin", Neutral: "rin/neutral.png", Happy: "rin/happy.png", Angry: "rin/angry.png"},
		{CharacterName: "Kai", Neutral: "kai/neutral.png", Happy: "kai/happy.png"},
	}}
}

func line(text string, tags ...string) story.Line {
	return story.Line{Text: text, Tags: tags}
}

func linear(lines ...story.Line) *story.Script {
	return &story.Script{Start: "main", Knots: map[string]story.Knot{"main": {Lines: lines}}}
}

func choiceScript(first story.Line) *story.Script {
	return &story.Script{Start: "ask", Knots: map[string]story.Knot{
		"ask": {
			Lines:   []story.Line{first},
			Choices: []story.Option{{Text: "A", Divert: "a"}, {Text: "B", Divert: "b"}},
		},
		"a": {Lines: []story.Line{line("You chose A.")}},
		"b": {Lines: []story.Line{line("You chose B.")}},
	}}
}

type recordingListener struct {
	calls []string
}

func (l *recordingListener) SessionStarted(*Transcript) { l.calls = append(l.calls, "started") }
func (l *recordingListener) LinePlaying(_ *Transcript, line TranscriptLine) {
	l.calls = append(l.calls, "line:"+line.Text)
}
func (l *recordingListener) ChoicesPresented(*Transcript, []story.Choice) {
	l.calls = append(l.calls, "choices")
}
func (l *recordingListener) ChoiceSelected(_ *Transcript, c story.Choice) {
	l.calls = append(l.calls, "selected:"+c.Text)
}
func (l *recordingListener) EventFired(_ *Transcript, _ int, name string) {
	l.calls = append(l.calls, "event:"+name)
}
func (l *recordingListener) SessionEnded(*Transcript) { l.calls = append(l.calls, "ended") }

// recordingInterpreter forwards to a Story and records selections.
type recordingInterpreter struct {
	story.Interpreter
	selected []int
}

func (r *recordingInterpreter) SelectChoice(index int) error {
	r.selected = append(r.selected, index)
	return r.Interpreter.SelectChoice(index)
}

type harness struct {
	m        *Manager
	src      *Source
	logs     *bytes.Buffer
	listener *recordingListener
}

func newHarness(t *testing.T, mode Mode, portraits *portrait.Data) *harness {
	t.Helper()
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelInfo}))
	listener := &recordingListener{}
	return &harness{
		m:        NewManager(testOptions(mode), portraits, logger, WithListener(listener)),
		logs:     logs,
		listener: listener,
	}
}

// start compiles script into a source and initializes a session on it.
func (h *harness) start(t *testing.T, script *story.Script, events ...EventBinding) {
	t.Helper()
	compiled, err := json.Marshal(script)
	require.NoError(t, err)
	h.src = &Source{ID: "test", Compiled: compiled, Events: events}
	require.NoError(t, h.m.Initialize(h.src))
}

// finishLine lets the reveal complete and the grace period elapse.
func (h *harness) finishLine() {
	h.m.Tick(time.Minute)
}

func (h *harness) warnings() int {
	return strings.Count(h.logs.String(), `"level":"WARN"`)
}

// illegalTransition runs f and returns the IllegalTransitionError it panics
// with, or nil.
func illegalTransition(f func()) (err *IllegalTransitionError) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				errors.As(e, &err)
			}
		}
	}()
	f()
	return nil
}
