package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/dialogue-engine/internal/config"
	"github.com/jwebster45206/dialogue-engine/pkg/dialogue"
	"github.com/jwebster45206/dialogue-engine/pkg/portrait"
	"github.com/jwebster45206/dialogue-engine/pkg/storage"
	"github.com/jwebster45206/dialogue-engine/pkg/story"
)

const storageTimeout = 5 * time.Second

// session is one loaded source and the Manager playing it. It is held by
// pointer so hooks bound into the source can record into it.
type session struct {
	manager *dialogue.Manager
	source  *dialogue.Source
	gate    dialogue.Gate

	notices []string
	// cue is the last event effect to run, shown once by the UI.
	cue   string
	ended bool
	saved bool
}

var _ dialogue.Listener = (*session)(nil)

// newSession binds every declared event to a console cue. The session
// records notices alongside listener, which receives the same calls.
func newSession(cfg *config.Config, loaded sessionLoadedMsg, listener dialogue.Listener, log *slog.Logger) *session {
	source := loaded.source
	s := &session{source: source}
	for _, ev := range source.Events {
		name := ev.Name
		source.Bind(name, func() {
			s.cue = name
		})
	}
	source.OnEnd = func() {
		s.ended = true
	}
	listeners := dialogue.Listeners{s, listener}
	s.manager = dialogue.NewManager(cfg.ManagerOptions(), loaded.portraits, log, dialogue.WithListener(listeners))
	return s
}

func (s *session) SessionStarted(*dialogue.Transcript) {}
func (s *session) LinePlaying(*dialogue.Transcript, dialogue.TranscriptLine) {}
func (s *session) ChoicesPresented(*dialogue.Transcript, []story.Choice) {}

func (s *session) ChoiceSelected(_ *dialogue.Transcript, c story.Choice) {
	s.notices = append(s.notices, "chose: "+c.Text)
}

func (s *session) EventFired(_ *dialogue.Transcript, _ int, name string) {
	s.notices = append(s.notices, "event fired: "+name)
}

func (s *session) SessionEnded(t *dialogue.Transcript) {
	s.notices = append(s.notices, fmt.Sprintf("session ended after %d lines", len(t.Lines)))
}

// takeCue returns and clears the pending event cue.
func (s *session) takeCue() string {
	cue := s.cue
	s.cue = ""
	return cue
}

// start begins a session on the source unless one is already running.
func (s *session) start() error {
	s.ended = false
	s.saved = false
	s.notices = nil
	s.cue = ""
	_, err := s.gate.Interact(s.manager, s.source)
	return err
}

type sourcesLoadedMsg struct {
	ids []string
	err error
}

type sessionLoadedMsg struct {
	source    *dialogue.Source
	portraits *portrait.Data
	err       error
}

type transcriptSavedMsg struct {
	sessionID string
	err       error
}

func loadSources(store storage.Storage) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()
		ids, err := store.ListSources(ctx)
		return sourcesLoadedMsg{ids: ids, err: err}
	}
}

func loadSession(store storage.Storage, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()
		source, err := store.GetSource(ctx, id)
		if err != nil {
			return sessionLoadedMsg{err: fmt.Errorf("failed to load source %s: %w", id, err)}
		}
		portraits, err := store.GetPortraits(ctx)
		if err != nil {
			return sessionLoadedMsg{err: fmt.Errorf("failed to load portraits: %w", err)}
		}
		return sessionLoadedMsg{source: source, portraits: portraits}
	}
}

func saveTranscript(store storage.Storage, t *dialogue.Transcript) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()
		err := store.SaveTranscript(ctx, t)
		if errors.Is(err, storage.ErrTranscriptsDisabled) {
			err = nil
		}
		return transcriptSavedMsg{sessionID: t.SessionID, err: err}
	}
}

// formatTranscript renders a transcript as plain text for the clipboard.
func formatTranscript(t *dialogue.Transcript) string {
	if t == nil {
		return ""
	}
	choices := make(map[int][]string)
	for _, c := range t.Choices {
		choices[c.AfterLine] = append(choices[c.AfterLine], c.Choice.Text)
	}

	var b strings.Builder
	for i, line := range t.Lines {
		if line.Speaker != "" {
			b.WriteString(line.Speaker + ": ")
		}
		b.WriteString(line.Text + "\n")
		for _, c := range choices[i] {
			b.WriteString("> " + c + "\n")
		}
	}
	return b.String()
}
