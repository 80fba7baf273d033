// Package tui renders the interaction in the terminal: the latest
// transcript, the microphone affordance, notices, and page navigations.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

type transcriptMsg string

type microphoneMsg bool

type noticeMsg string

type navigateMsg string

type connectionMsg bool

type keyMap struct {
	Microphone key.Binding
	Start      key.Binding
	Quit       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Microphone, k.Start, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Microphone, k.Start, k.Quit}}
}

var defaultKeys = keyMap{
	Microphone: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "microphone"),
	),
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	transcriptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	micOpenStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	micClosedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	offlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// ButtonActivator is what key presses drive; the interaction client
// satisfies it.
type ButtonActivator interface {
	ActivateButton(id string) error
}

type model struct {
	activator     ButtonActivator
	micButtonID   string
	startButtonID string

	viewport viewport.Model
	help     help.Model
	keys     keyMap

	transcript string
	micOpen    bool
	notice     string
	page       string
	connected  bool
	width      int
	ready      bool
}

func newModel(activator ButtonActivator, micButtonID, startButtonID string) model {
	return model{
		activator:     activator,
		micButtonID:   micButtonID,
		startButtonID: startButtonID,
		help:          help.New(),
		keys:          defaultKeys,
		connected:     true,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Microphone):
			if m.activator != nil {
				m.activator.ActivateButton(m.micButtonID)
			}
			return m, nil
		case key.Matches(msg, m.keys.Start):
			if m.activator != nil {
				m.activator.ActivateButton(m.startButtonID)
			}
			return m, nil
		}

	case transcriptMsg:
		m.transcript = string(msg)
		m.notice = ""
		if m.ready {
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
		}
		return m, nil

	case microphoneMsg:
		m.micOpen = bool(msg)
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		return m, nil

	case navigateMsg:
		m.page = string(msg)
		m.notice = ""
		return m, nil

	case connectionMsg:
		m.connected = bool(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) renderTranscript() string {
	text := m.transcript
	if text == "" {
		text = "(waiting for the conversation to start)"
	}
	width := m.width - 4
	if width < 10 {
		width = 10
	}
	return wordwrap.String(text, width)
}

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder

	title := "Interaction"
	if m.page != "" {
		title = fmt.Sprintf("Interaction: %s", m.page)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	b.WriteString(transcriptStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")

	if m.micOpen {
		b.WriteString(micOpenStyle.Render("● mic open"))
	} else {
		b.WriteString(micClosedStyle.Render("○ mic closed"))
	}
	if !m.connected {
		b.WriteString("  ")
		b.WriteString(offlineStyle.Render("disconnected"))
	}
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}
