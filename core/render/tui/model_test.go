package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeActivator struct {
	activated []string
}

func (a *fakeActivator) ActivateButton(id string) error {
	a.activated = append(a.activated, id)
	return nil
}

func sizedModel(t *testing.T, activator ButtonActivator) model {
	t.Helper()

	m := newModel(activator, "mic", "start")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(model)
}

func TestTranscriptUpdatesView(t *testing.T) {
	m := sizedModel(t, nil)

	updated, _ := m.Update(transcriptMsg("Hello, how can I help?"))
	view := updated.(model).View()
	if !strings.Contains(view, "Hello, how can I help?") {
		t.Errorf("expected the transcript in the view, got:\n%s", view)
	}
}

func TestMicrophoneAffordanceReflectsState(t *testing.T) {
	m := sizedModel(t, nil)

	if !strings.Contains(m.View(), "mic closed") {
		t.Error("expected the microphone to start closed")
	}

	updated, _ := m.Update(microphoneMsg(true))
	if !strings.Contains(updated.(model).View(), "mic open") {
		t.Error("expected the open microphone affordance")
	}
}

func TestNoticeShownUntilNextTranscript(t *testing.T) {
	m := sizedModel(t, nil)

	updated, _ := m.Update(noticeMsg("It is not your turn yet."))
	if !strings.Contains(updated.(model).View(), "It is not your turn yet.") {
		t.Error("expected the notice in the view")
	}

	updated, _ = updated.(model).Update(transcriptMsg("Go ahead"))
	if strings.Contains(updated.(model).View(), "It is not your turn yet.") {
		t.Error("expected the notice cleared by the next transcript")
	}
}

func TestNavigationUpdatesTitle(t *testing.T) {
	m := sizedModel(t, nil)

	updated, _ := m.Update(navigateMsg("recipe_overview.html"))
	if !strings.Contains(updated.(model).View(), "Interaction: recipe_overview.html") {
		t.Error("expected the navigation target in the title")
	}
}

func TestKeyPressesActivateButtons(t *testing.T) {
	activator := &fakeActivator{}
	m := sizedModel(t, activator)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	updated.(model).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})

	if len(activator.activated) != 2 || activator.activated[0] != "mic" || activator.activated[1] != "start" {
		t.Errorf("expected mic then start activations, got %v", activator.activated)
	}
}

func TestQuitKeyEndsProgram(t *testing.T) {
	m := sizedModel(t, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit to produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected the quit command")
	}
}

func TestDisconnectedShownInStatusLine(t *testing.T) {
	m := sizedModel(t, nil)

	updated, _ := m.Update(connectionMsg(false))
	if !strings.Contains(updated.(model).View(), "disconnected") {
		t.Error("expected the disconnected marker in the status line")
	}
}
