package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Renderer drives the terminal UI from interaction state changes. It
// implements the rendering port the client draws through; calls are safe
// from any goroutine.
type Renderer struct {
	program *tea.Program
}

// New builds the terminal renderer. Key presses for the microphone and start
// affordances are forwarded to the activator under the given button ids.
func New(activator ButtonActivator, micButtonID, startButtonID string, opts ...tea.ProgramOption) *Renderer {
	m := newModel(activator, micButtonID, startButtonID)
	return &Renderer{program: tea.NewProgram(m, opts...)}
}

// Run blocks until the UI exits.
func (r *Renderer) Run() error {
	_, err := r.program.Run()
	return err
}

// Quit asks the UI to exit.
func (r *Renderer) Quit() {
	r.program.Quit()
}

func (r *Renderer) SetTranscript(text string) {
	r.program.Send(transcriptMsg(text))
}

func (r *Renderer) SetMicrophoneOpen(open bool) {
	r.program.Send(microphoneMsg(open))
}

func (r *Renderer) Notice(message string) {
	r.program.Send(noticeMsg(message))
}

func (r *Renderer) Navigate(target string) {
	r.program.Send(navigateMsg(target))
}

// SetConnected reflects transport connectivity in the status line.
func (r *Renderer) SetConnected(connected bool) {
	r.program.Send(connectionMsg(connected))
}
