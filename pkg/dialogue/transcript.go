package dialogue

import (
	"time"

	"github.com/jwebster45206/dialogue-engine/pkg/story"
)

// TranscriptLine is one revealed line.
type TranscriptLine struct {
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text"`
}

// TranscriptChoice records a selected choice.
type TranscriptChoice struct {
	AfterLine int          `json:"after_line"`
	Choice    story.Choice `json:"choice"`
}

// Transcript is the record of one session.
type Transcript struct {
	SessionID string             `json:"session_id"`
	SourceID  string             `json:"source_id"`
	Mode      Mode               `json:"mode"`
	StartedAt time.Time          `json:"started_at"`
	EndedAt   *time.Time         `json:"ended_at,omitempty"`
	Lines     []TranscriptLine   `json:"lines"`
	Choices   []TranscriptChoice `json:"choices,omitempty"`
	Events    []string           `json:"events,omitempty"`
	Ended     bool               `json:"ended"`
}

// Listener receives session lifecycle notifications. Calls happen on the
// session's goroutine, in order.
type Listener interface {
	SessionStarted(t *Transcript)
	LinePlaying(t *Transcript, line TranscriptLine)
	ChoicesPresented(t *Transcript, choices []story.Choice)
	ChoiceSelected(t *Transcript, choice story.Choice)
	EventFired(t *Transcript, index int, name string)
	SessionEnded(t *Transcript)
}

// NopListener ignores every notification.
type NopListener struct{}

var _ Listener = NopListener{}

func (NopListener) SessionStarted(*Transcript) {}
func (NopListener) LinePlaying(*Transcript, TranscriptLine) {}
func (NopListener) ChoicesPresented(*Transcript, []story.Choice) {}
func (NopListener) ChoiceSelected(*Transcript, story.Choice) {}
func (NopListener) EventFired(*Transcript, int, string) {}
func (NopListener) SessionEnded(*Transcript) {}

// Listeners fans notifications out to several listeners in order.
type Listeners []Listener

var _ Listener = Listeners(nil)

func (ls Listeners) SessionStarted(t *Transcript) {
	for _, l := range ls {
		l.SessionStarted(t)
	}
}

func (ls Listeners) LinePlaying(t *Transcript, line TranscriptLine) {
	for _, l := range ls {
		l.LinePlaying(t, line)
	}
}

func (ls Listeners) ChoicesPresented(t *Transcript, choices []story.Choice) {
	for _, l := range ls {
		l.ChoicesPresented(t, choices)
	}
}

func (ls Listeners) ChoiceSelected(t *Transcript, choice story.Choice) {
	for _, l := range ls {
		l.ChoiceSelected(t, choice)
	}
}

func (ls Listeners) EventFired(t *Transcript, index int, name string) {
	for _, l := range ls {
		l.EventFired(t, index, name)
	}
}

func (ls Listeners) SessionEnded(t *Transcript) {
	for _, l := range ls {
		l.SessionEnded(t)
	}
}
