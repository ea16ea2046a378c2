// Package dialogue runs dialogue sessions: it pulls lines from a narrative
// interpreter, applies their tags through a mode-specific presenter, paces
// the reveal of each line and resolves the player's choices.
//
// A Manager is single-threaded. Tick and the Request methods must be called
// from the same goroutine.
package dialogue

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/dialogue-engine/pkg/actor"
	"github.com/jwebster45206/dialogue-engine/pkg/anim"
	"github.com/jwebster45206/dialogue-engine/pkg/directive"
	"github.com/jwebster45206/dialogue-engine/pkg/portrait"
	"github.com/jwebster45206/dialogue-engine/pkg/reveal"
	"github.com/jwebster45206/dialogue-engine/pkg/story"
)

// Options tune a Manager.
type Options struct {
	Mode Mode
	// InputGrace is the minimum time between accepted advancing inputs.
	InputGrace     time.Duration
	CharsPerSecond float64
	// SceneStart and SceneEnd anchor actor points 0 and 1.
	SceneStart anim.Vec2
	SceneEnd   anim.Vec2
	Actors     actor.Settings
}

// DefaultOptions returns the Manager defaults.
func DefaultOptions() Options {
	return Options{
		Mode:           Classic,
		InputGrace:     100 * time.Millisecond,
		CharsPerSecond: reveal.DefaultCharsPerSecond,
		SceneStart:     anim.Vec2{X: -400},
		SceneEnd:       anim.Vec2{X: 400},
		Actors:         actor.DefaultSettings(),
	}
}

// InterpreterFactory builds an interpreter from a compiled script.
type InterpreterFactory func(compiled []byte) (story.Interpreter, error)

// ManagerOption replaces one of a Manager's collaborators.
type ManagerOption func(*Manager)

// WithListener sets the lifecycle listener.
func WithListener(l Listener) ManagerOption {
	return func(m *Manager) { m.listener = l }
}

// WithCoordinator sets the text reveal coordinator.
func WithCoordinator(c reveal.Coordinator) ManagerOption {
	return func(m *Manager) { m.reveal = c }
}

// WithInterpreterFactory sets how Initialize compiles a source's script.
func WithInterpreterFactory(f InterpreterFactory) ManagerOption {
	return func(m *Manager) { m.newInterpreter = f }
}

const noEvent = -1

// Manager is the dialogue session state machine. It also serves as the
// stage for visual-novel actors.
type Manager struct {
	opts      Options
	logger    *slog.Logger
	base      *slog.Logger
	portraits *portrait.Data

	presenter      Presenter
	registry       *actor.Registry
	reveal         reveal.Coordinator
	choices        ChoiceResolver
	listener       Listener
	newInterpreter InterpreterFactory

	state      State
	source     *Source
	interp     story.Interpreter
	sessionID  string
	transcript *Transcript
	// generation increments on every Initialize so work started for one
	// session can tell when a hook has replaced it.
	generation uint64

	// pendingEvent is the binding index to fire when the line finishes
	// revealing, or noEvent.
	pendingEvent int
	canContinue  bool
	text         string

	clock      time.Duration
	sinceInput time.Duration
}

var _ actor.Stage = (*Manager)(nil)

// NewManager builds an idle Manager. portraits may be nil, in which case
// portrait and emotion directives are accepted without visual change.
func NewManager(opts Options, portraits *portrait.Data, logger *slog.Logger, options ...ManagerOption) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		opts:           opts,
		logger:         logger,
		base:           logger,
		portraits:      portraits,
		listener:       NopListener{},
		newInterpreter: story.Load,
		pendingEvent:   noEvent,
	}
	for _, o := range options {
		o(m)
	}
	if m.reveal == nil {
		m.reveal = reveal.NewTypewriter(opts.CharsPerSecond)
	}

	m.registry = actor.NewRegistry(m, opts.Actors)
	switch opts.Mode {
	case VisualNovel:
		m.presenter = newVisualNovelPresenter(portraits, m.registry)
	case SpeechBubbles:
		m.presenter = newBubblePresenter()
	default:
		m.presenter = newClassicPresenter(portraits)
	}

	if portraits.Empty() && opts.Mode != SpeechBubbles {
		logger.Info("No portrait data loaded; portraits will not change", "mode", opts.Mode.String())
	}
	return m
}

// Now is the session clock that actor animations run against.
func (m *Manager) Now() time.Duration {
	return m.clock
}

// Position maps a normalized scene point to stage coordinates.
func (m *Manager) Position(point float64) anim.Vec2 {
	return anim.LerpVec(m.opts.SceneStart, m.opts.SceneEnd, point)
}

// Mode returns the presentation mode.
func (m *Manager) Mode() Mode { return m.opts.Mode }

// State returns the session state.
func (m *Manager) State() State { return m.state }

// SessionID returns the id of the current or last session.
func (m *Manager) SessionID() string { return m.sessionID }

// CanContinue reports whether the current line has finished revealing.
func (m *Manager) CanContinue() bool { return m.canContinue }

// Registry exposes the staged actors.
func (m *Manager) Registry() *actor.Registry { return m.registry }

// Transcript returns the record of the current or last session.
func (m *Manager) Transcript() *Transcript { return m.transcript }

// Initialize compiles source's script and starts a session on it.
func (m *Manager) Initialize(source *Source) error {
	if m.state.Active() {
		return ErrSessionActive
	}
	interp, err := m.newInterpreter(source.Compiled)
	if err != nil {
		return fmt.Errorf("failed to load script for source %q: %w", source.ID, err)
	}
	return m.InitializeWith(source, interp)
}

// InitializeWith starts a session on an already constructed interpreter,
// then plays its first line.
func (m *Manager) InitializeWith(source *Source, interp story.Interpreter) error {
	if m.state.Active() {
		return ErrSessionActive
	}

	m.generation++
	gen := m.generation
	m.source = source
	m.interp = interp
	m.sessionID = uuid.NewString()
	m.logger = m.base.With("session_id", m.sessionID, "source_id", source.ID)
	m.pendingEvent = noEvent
	m.canContinue = false
	m.text = ""
	m.sinceInput = 0
	m.choices.Clear()
	m.presenter.Reset()
	m.transcript = &Transcript{
		SessionID: m.sessionID,
		SourceID:  source.ID,
		Mode:      m.opts.Mode,
		StartedAt: time.Now(),
	}
	// Continue is legal from here until the first line plays.
	m.state = StateAwaitingContinue

	m.logger.Info("Dialogue session started", "mode", m.opts.Mode.String())
	if source.OnStart != nil {
		source.OnStart()
	}
	m.listener.SessionStarted(m.transcript)
	if m.generation != gen || m.state != StateAwaitingContinue {
		return nil
	}

	m.Continue()
	return nil
}

// Continue plays the next line, or ends the session when the interpreter
// has no more content. It panics unless the session is awaiting continue.
func (m *Manager) Continue() {
	if m.state != StateAwaitingContinue {
		illegal(m.state, "Continue", "")
	}

	m.choices.Clear()
	m.presenter.HideChoices()
	if !m.interp.HasMore() {
		m.end()
		return
	}
	text, tags, err := m.interp.Advance()
	if err != nil {
		m.logger.Error("Failed to advance story", "error", err)
		m.end()
		return
	}

	m.state = StateLinePlaying
	m.canContinue = false
	m.pendingEvent = noEvent
	m.presenter.SetContinueAffordance(false)

	gen := m.generation
	m.applyTags(gen, tags)
	// An on-start event may have ended or replaced the session.
	if !m.playing(gen) {
		return
	}

	plain, cmds := reveal.ParseCommands(text)
	m.text = plain
	line := TranscriptLine{Speaker: m.speaker(), Text: plain}
	m.transcript.Lines = append(m.transcript.Lines, line)
	m.logger.Debug("Playing line", "speaker", line.Speaker, "tags", len(tags))
	m.listener.LinePlaying(m.transcript, line)

	m.reveal.Begin(cmds, plain, m.OnLineRevealComplete)
}

// OnLineRevealComplete is the reveal coordinator's completion callback. It
// materializes any offered choices, then fires the pending end-of-line
// event.
func (m *Manager) OnLineRevealComplete() {
	if m.state != StateLinePlaying {
		illegal(m.state, "OnLineRevealComplete", "")
	}
	m.state = StateAwaitingContinue
	m.canContinue = true

	if choices := m.interp.CurrentChoices(); len(choices) > 0 {
		m.choices.Present(choices)
		m.presenter.ShowChoices(choices)
		m.presenter.SetContinueAffordance(false)
		m.state = StateAwaitingChoice
		m.listener.ChoicesPresented(m.transcript, choices)
	} else {
		m.presenter.SetContinueAffordance(true)
	}

	if idx := m.pendingEvent; idx != noEvent {
		m.pendingEvent = noEvent
		m.fireEvent(idx)
	}
}

// RequestChoice selects a materialized choice and plays the line that
// follows it. It returns false when the input grace period has not elapsed.
// It panics when no choices are materialized or index is not one of them.
func (m *Manager) RequestChoice(index int) bool {
	if m.state != StateAwaitingChoice || !m.canContinue {
		illegal(m.state, "RequestChoice", strconv.Itoa(index))
	}
	if index < 0 || index >= m.choices.Len() {
		illegal(m.state, "RequestChoice", fmt.Sprintf("%v: %d of %d", story.ErrChoiceOutOfRange, index, m.choices.Len()))
	}
	if !m.acceptInput() {
		return false
	}

	choice := m.choices.Select(index)
	m.presenter.HideChoices()
	if err := m.interp.SelectChoice(index); err != nil {
		illegal(m.state, "RequestChoice", err.Error())
	}
	m.transcript.Choices = append(m.transcript.Choices, TranscriptChoice{
		AfterLine: len(m.transcript.Lines) - 1,
		Choice:    choice,
	})
	m.logger.Debug("Choice selected", "index", index, "text", choice.Text)
	m.listener.ChoiceSelected(m.transcript, choice)

	m.state = StateAwaitingContinue
	m.Continue()
	return true
}

// RequestFocusedChoice selects the focused choice. It returns false when no
// choices are materialized or the input grace period has not elapsed.
func (m *Manager) RequestFocusedChoice() bool {
	if m.state != StateAwaitingChoice {
		return false
	}
	return m.RequestChoice(m.choices.Focus())
}

// FocusNext moves choice focus down.
func (m *Manager) FocusNext() { m.choices.FocusNext() }

// FocusPrev moves choice focus up.
func (m *Manager) FocusPrev() { m.choices.FocusPrev() }

// RequestSkipReveal completes the line being revealed. It returns false
// when the input grace period has not elapsed and panics when no line is
// playing.
func (m *Manager) RequestSkipReveal() bool {
	if m.state != StateLinePlaying {
		illegal(m.state, "RequestSkipReveal", "")
	}
	if !m.acceptInput() {
		return false
	}
	m.reveal.SkipToEnd()
	return true
}

// RequestAdvance plays the next line once the current one has been
// revealed. It returns false when the input grace period has not elapsed
// and panics when the session is not awaiting continue.
func (m *Manager) RequestAdvance() bool {
	if m.state != StateAwaitingContinue {
		illegal(m.state, "RequestAdvance", "")
	}
	if !m.acceptInput() {
		return false
	}
	m.Continue()
	return true
}

// HandleContinueInput is the single "continue" key: it skips the reveal of
// a playing line, or advances past a revealed one. It is ignored while
// choices are shown or no session is running, and reports whether the
// input was accepted.
func (m *Manager) HandleContinueInput() bool {
	switch m.state {
	case StateLinePlaying:
		return m.RequestSkipReveal()
	case StateAwaitingContinue:
		return m.RequestAdvance()
	default:
		return false
	}
}

// ForceEnd ends a running session immediately. The reveal in progress is
// cancelled and any pending end-of-line event is discarded.
func (m *Manager) ForceEnd() {
	if !m.state.Active() {
		return
	}
	m.logger.Info("Dialogue session force-ended")
	m.end()
}

// Tick advances session time: the input grace timer, the reveal and actor
// animations.
func (m *Manager) Tick(dt time.Duration) {
	m.clock += dt
	if m.sinceInput < m.opts.InputGrace {
		m.sinceInput += dt
	}
	if m.state == StateLinePlaying {
		m.reveal.Tick(dt)
	}
	m.presenter.Update()
}

// View snapshots the presentation.
func (m *Manager) View() View {
	v := View{
		SessionID: m.sessionID,
		Mode:      m.opts.Mode,
		State:     m.state,
		Text:      m.text,
		Revealed:  m.text,
		Choices:   m.choices.Choices(),
		Focus:     m.choices.Focus(),
	}
	if m.state == StateLinePlaying {
		v.Revealing = m.reveal.IsRevealing()
		v.Revealed = m.reveal.Visible()
	}
	m.presenter.Render(&v)
	return v
}

func (m *Manager) acceptInput() bool {
	if m.sinceInput < m.opts.InputGrace {
		m.logger.Debug("Input ignored during grace period", "state", m.state.String())
		return false
	}
	m.sinceInput = 0
	return true
}

func (m *Manager) speaker() string {
	var v View
	m.presenter.Render(&v)
	return v.Speaker
}

// applyTags applies a line's tags in order. Failures are reported and
// skipped; nothing is rolled back.
func (m *Manager) applyTags(gen uint64, tags []string) {
	for _, tag := range tags {
		if !m.playing(gen) {
			return
		}
		d, err := directive.Parse(tag)
		if err != nil {
			m.logger.Warn("Malformed dialogue tag", "tag", tag, "error", err)
			continue
		}
		if d.Key == directive.Event {
			err = m.handleEvent(d)
		} else {
			err = m.presenter.ApplyDirective(d)
		}
		if err != nil {
			m.logger.Warn("Dialogue tag not applied",
				"tag", tag, "key", string(d.Key), "value", d.Value, "error", err)
			continue
		}
		m.logger.Debug("Applied dialogue tag", "key", string(d.Key), "value", d.Value)
	}
}

// playing reports whether session gen is still the one playing a line.
func (m *Manager) playing(gen uint64) bool {
	return m.generation == gen && m.state == StateLinePlaying
}

func (m *Manager) handleEvent(d directive.Directive) error {
	idx, err := strconv.Atoi(d.Value)
	if err != nil || idx < 0 {
		return invalidValue(d, "a non-negative event index")
	}
	if idx >= len(m.source.Events) {
		return fmt.Errorf("%w: event %d of %d", ErrMissingReference, idx, len(m.source.Events))
	}
	if m.source.Events[idx].FireOnLineEnd {
		if m.pendingEvent != noEvent {
			m.logger.Debug("Replacing pending end-of-line event", "previous", m.pendingEvent, "event", idx)
		}
		m.pendingEvent = idx
		return nil
	}
	m.fireEvent(idx)
	return nil
}

func (m *Manager) fireEvent(idx int) {
	b := m.source.Events[idx]
	m.logger.Debug("Firing dialogue event", "event", idx, "name", b.Name)
	m.transcript.Events = append(m.transcript.Events, b.Name)
	m.listener.EventFired(m.transcript, idx, b.Name)
	if b.Effect != nil {
		b.Effect()
	}
}

func (m *Manager) end() {
	m.reveal.Cancel()
	m.pendingEvent = noEvent
	m.choices.Clear()
	m.presenter.HideChoices()
	m.presenter.SetContinueAffordance(false)
	m.canContinue = false
	m.state = StateEnded

	now := time.Now()
	m.transcript.EndedAt = &now
	m.transcript.Ended = true
	m.logger.Info("Dialogue session ended", "lines", len(m.transcript.Lines))

	m.listener.SessionEnded(m.transcript)
	if m.source.OnEnd != nil {
		m.source.OnEnd()
	}
}
