package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/dialogue-engine/internal/config"
	"github.com/jwebster45206/dialogue-engine/pkg/actor"
	"github.com/jwebster45206/dialogue-engine/pkg/dialogue"
	"github.com/jwebster45206/dialogue-engine/pkg/storage"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ConsoleUI is the BubbleTea model that plays dialogue sources.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config   *config.Config
	store    storage.Storage
	listener dialogue.Listener
	logger   *slog.Logger

	session    *session
	transcript viewport.Model
	ready      bool
	width      int
	height     int
	err        error
	status     string
	lastFrame  time.Time

	// Source selection state
	showSourceModal bool
	sources         []string
	selectedSource  int
	loadingSources  bool
	loadingSession  bool

	// Quit confirmation state
	showQuitModal bool
}

type frameMsg time.Time

var (
	stagePanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	transcriptPanelStyle = lipgloss.NewStyle().
				PaddingTop(2).
				PaddingBottom(0).
				PaddingLeft(0).
				PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	portraitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	lineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	focusedChoiceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	dialogueBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))
)

var titleCaser = cases.Title(language.English)

func NewConsoleUI(cfg *config.Config, store storage.Storage, listener dialogue.Listener, logger *slog.Logger) ConsoleUI {
	if listener == nil {
		listener = dialogue.NopListener{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	vp := viewport.New(30, 20)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		config:          cfg,
		store:           store,
		listener:        listener,
		logger:          logger,
		transcript:      vp,
		showSourceModal: true,
		loadingSources:  true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return loadSources(m.store)
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showSourceModal {
		return m.updateSourceModal(msg)
	}
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case frameMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() && now.After(m.lastFrame) {
			m.session.manager.Tick(now.Sub(m.lastFrame))
		}
		m.lastFrame = now
		cmds = append(cmds, m.afterInput(), m.frame())

	case transcriptSavedMsg:
		if msg.err != nil {
			m.logger.Error("Failed to save transcript", "session_id", msg.sessionID, "error", msg.err)
			m.status = "transcript not saved: " + msg.err.Error()
		} else {
			m.status = "transcript saved"
		}

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var vpCmd tea.Cmd
	m.transcript, vpCmd = m.transcript.Update(msg)
	cmds = append(cmds, vpCmd)
	return m, tea.Batch(cmds...)
}

// handleKey maps player input onto Manager requests. Requests are only made
// in states that accept them, so none of them can panic.
func (m *ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	mgr := m.session.manager
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		m.showQuitModal = true
		return nil, true
	case " ", "e":
		mgr.HandleContinueInput()
	case "enter":
		if mgr.State() == dialogue.StateAwaitingChoice {
			mgr.RequestFocusedChoice()
		} else {
			mgr.HandleContinueInput()
		}
	case "up", "k":
		if mgr.State() == dialogue.StateAwaitingChoice {
			mgr.FocusPrev()
		}
	case "down", "j":
		if mgr.State() == dialogue.StateAwaitingChoice {
			mgr.FocusNext()
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		index := int(msg.String()[0] - '1')
		if mgr.State() == dialogue.StateAwaitingChoice && index < len(mgr.View().Choices) {
			mgr.RequestChoice(index)
		}
	case "c":
		if err := clipboard.WriteAll(formatTranscript(mgr.Transcript())); err != nil {
			m.status = "copy failed: " + err.Error()
		} else {
			m.status = "transcript copied"
		}
	case "r":
		if mgr.State() == dialogue.StateEnded {
			if err := m.session.start(); err != nil {
				m.err = err
			}
			m.status = ""
		}
	case "x":
		mgr.ForceEnd()
	default:
		return nil, false
	}
	return m.afterInput(), true
}

// afterInput refreshes the transcript panel and stores the transcript once
// the session has ended.
func (m *ConsoleUI) afterInput() tea.Cmd {
	s := m.session
	if cue := s.takeCue(); cue != "" {
		m.status = "♪ " + cue
	}
	m.writeTranscript()
	if !s.ended || s.saved {
		return nil
	}
	s.saved = true
	return saveTranscript(m.store, s.manager.Transcript())
}

func (m *ConsoleUI) frame() tea.Cmd {
	return tea.Tick(m.config.TickInterval(), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *ConsoleUI) resize(width, height int) {
	m.width = width
	m.height = height
	stageWidth := int(float64(m.width)*0.65) - 4
	transcriptWidth := m.width - stageWidth - 6
	m.transcript.Width = transcriptWidth - 2
	m.transcript.Height = m.height - 4
	m.ready = true
	m.writeTranscript()
}

func (m *ConsoleUI) writeTranscript() {
	if m.session == nil || m.transcript.Width <= 0 {
		return
	}
	t := m.session.manager.Transcript()
	width := m.transcript.Width

	var content strings.Builder
	content.WriteString(titleStyle.Render("TRANSCRIPT") + "\n\n")
	if t != nil {
		choices := make(map[int][]string)
		for _, c := range t.Choices {
			choices[c.AfterLine] = append(choices[c.AfterLine], c.Choice.Text)
		}
		for i, line := range t.Lines {
			if line.Speaker != "" {
				content.WriteString(speakerStyle.Render(line.Speaker) + "\n")
			}
			content.WriteString(wordwrap.String(line.Text, width) + "\n")
			for _, c := range choices[i] {
				content.WriteString(choiceStyle.Render("> "+c) + "\n")
			}
			content.WriteString("\n")
		}
	}
	for _, n := range m.session.notices {
		content.WriteString(dimStyle.Render("· "+n) + "\n")
	}
	m.transcript.SetContent(content.String())
	m.transcript.GotoBottom()
}

func (m ConsoleUI) updateSourceModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case sourcesLoadedMsg:
		m.loadingSources = false
		if msg.err != nil {
			m.err = msg.err
		} else if len(msg.ids) == 0 {
			m.err = fmt.Errorf("no dialogue sources found in %s", m.config.DataDir)
		}
		m.sources = msg.ids

	case sessionLoadedMsg:
		m.loadingSession = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = newSession(m.config, msg, m.listener, m.logger)
		if err := m.session.start(); err != nil {
			m.err = err
			m.session = nil
			return m, nil
		}
		m.showSourceModal = false
		m.resize(m.width, m.height)
		return m, m.frame()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.selectedSource > 0 {
				m.selectedSource--
			}
		case tea.KeyDown:
			if m.selectedSource < len(m.sources)-1 {
				m.selectedSource++
			}
		case tea.KeyEnter:
			if m.loadingSources || m.loadingSession || len(m.sources) == 0 {
				return m, nil
			}
			m.err = nil
			m.loadingSession = true
			return m, loadSession(m.store, m.sources[m.selectedSource])
		}
	}
	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case frameMsg:
		// The dialogue clock holds while the modal is open.
		m.lastFrame = time.Time(msg)
		return m, m.frame()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
			}
		}
	}
	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave this conversation?")
	content.WriteString("\n\n")
	content.WriteString(dimStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderSourceModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	switch {
	case m.loadingSources:
		content.WriteString(modalTitleStyle.Render("Loading Dialogues..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while we read " + m.config.DataDir + "..."))
	case m.loadingSession:
		content.WriteString(modalTitleStyle.Render("Starting Dialogue..."))
	default:
		content.WriteString(modalTitleStyle.Render("Select a Dialogue"))
		content.WriteString("\n\n")
		for i, id := range m.sources {
			if i == m.selectedSource {
				content.WriteString(focusedChoiceStyle.Render(fmt.Sprintf("▶ %s", id)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", id)))
			}
			content.WriteString("\n")
		}
		if m.err != nil {
			content.WriteString("\n")
			content.WriteString(errorStyle.Render(m.err.Error()))
			content.WriteString("\n")
		}
		content.WriteString("\n")
		content.WriteString(dimStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showSourceModal {
		return m.renderSourceModal()
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	stageWidth := int(float64(m.width)*0.65) - 4
	transcriptWidth := m.width - stageWidth - 6

	stage := stagePanelStyle.Width(stageWidth).Height(m.height - 3).Render(
		renderStage(m.session.manager.View(), stageWidth-4, m.status, m.err),
	)
	transcript := transcriptPanelStyle.Width(transcriptWidth).Height(m.height - 2).Render(
		m.transcript.View(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, stage, transcript)
}

// modeLabel turns a mode name like visual_novel into "Visual Novel".
func modeLabel(mode dialogue.Mode) string {
	return titleCaser.String(strings.ReplaceAll(mode.String(), "_", " "))
}

// renderStage draws one frame of the dialogue from a view snapshot.
func renderStage(v dialogue.View, width int, status string, err error) string {
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("DIALOGUE ENGINE") + "  " + dimStyle.Render(modeLabel(v.Mode)) + "\n\n")

	if len(v.Actors) > 0 {
		b.WriteString(renderActors(v.Actors) + "\n")
	}

	var box strings.Builder
	header := speakerStyle.Render(v.Speaker)
	if v.Portrait != "" {
		header += " " + portraitStyle.Render("["+v.Portrait+"]")
	}
	if v.Side != "" {
		header += " " + dimStyle.Render("("+v.Side+")")
	}
	box.WriteString(header + "\n")
	box.WriteString(lineStyle.Render(wordwrap.String(v.Revealed, width-4)))
	if v.ContinueVisible {
		box.WriteString(" " + dimStyle.Render("▼"))
	}
	b.WriteString(dialogueBoxStyle.Width(width).Render(box.String()) + "\n")

	if v.ChoicesVisible {
		b.WriteString("\n")
		for _, c := range v.Choices {
			label := fmt.Sprintf("%d. %s", c.Index+1, c.Text)
			if c.Index == v.Focus {
				b.WriteString(focusedChoiceStyle.Render("▶ "+label) + "\n")
			} else {
				b.WriteString(choiceStyle.Render("  "+label) + "\n")
			}
		}
	}

	b.WriteString("\n")
	switch v.State {
	case dialogue.StateEnded:
		b.WriteString(dimStyle.Render("The conversation is over. R to replay, C to copy, Q to quit"))
	case dialogue.StateAwaitingChoice:
		b.WriteString(dimStyle.Render("↑/↓ or 1-9 to choose, Enter to confirm"))
	default:
		b.WriteString(dimStyle.Render("Space to continue, X to end, C to copy, Q to quit"))
	}
	b.WriteString("\n")

	if err != nil {
		b.WriteString(errorStyle.Render("Error: "+err.Error()) + "\n")
	} else if status != "" {
		b.WriteString(loadingStyle.Render(status) + "\n")
	}
	return b.String()
}

// renderActors lists staged actors left to right.
func renderActors(actors []actor.State) string {
	var b strings.Builder
	for _, a := range actors {
		if !a.Visible && a.Alpha == 0 {
			continue
		}
		facing := "◀"
		if a.FacingRight {
			facing = "▶"
		}
		label := fmt.Sprintf("%s %s @%.2f", facing, a.Name, a.Point)
		if a.Animation != "" && a.Animating {
			label += " *" + a.Animation
		}
		style := dimStyle
		if a.Highlighted {
			style = speakerStyle
		}
		b.WriteString(style.Render(label) + "\n")
	}
	return b.String()
}
