package webclient

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/socialrobotics/webclient-core/core/transport"
)

type emittedEvent struct {
	event   string
	payload any
}

type fakeTransport struct {
	mu       sync.Mutex
	handlers map[string][]func(json.RawMessage)
	emitted  []emittedEvent
	closed   bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{handlers: map[string][]func(json.RawMessage){}}
}

func (t *fakeTransport) Emit(event string, payload any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.emitted = append(t.emitted, emittedEvent{event: event, payload: payload})
	return nil
}

func (t *fakeTransport) On(event string, handler func(payload json.RawMessage)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[event] = append(t.handlers[event], handler)
}

func (t *fakeTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

func (t *fakeTransport) push(tb testing.TB, event string, payload any) {
	tb.Helper()

	var raw json.RawMessage
	if payload != nil {
		marshalled, err := json.Marshal(payload)
		if err != nil {
			tb.Fatalf("failed to marshal pushed payload: %v", err)
		}
		raw = marshalled
	}

	t.mu.Lock()
	handlers := append([]func(json.RawMessage){}, t.handlers[event]...)
	t.mu.Unlock()

	for _, handler := range handlers {
		handler(raw)
	}
}

func (t *fakeTransport) emittedEvents() []emittedEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]emittedEvent{}, t.emitted...)
}

type fakeRenderer struct {
	mu          sync.Mutex
	transcripts []string
	micStates   []bool
	notices     []string
	navigations []string
}

func (r *fakeRenderer) SetTranscript(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transcripts = append(r.transcripts, text)
}

func (r *fakeRenderer) SetMicrophoneOpen(open bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.micStates = append(r.micStates, open)
}

func (r *fakeRenderer) Notice(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, text)
}

func (r *fakeRenderer) Navigate(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigations = append(r.navigations, target)
}

func assertMicrophoneInvariant(t *testing.T, client *Client) {
	t.Helper()
	state := client.Snapshot()
	if state.Turn == AgentTurn && state.Microphone != MicrophoneClosed {
		t.Fatalf("microphone must read closed during the agent's turn, got %v", state.Microphone)
	}
}

func newRunningClient(t *testing.T, opts ...ClientOption) (*Client, *fakeTransport, *fakeRenderer) {
	t.Helper()

	channel := newFakeTransport()
	renderer := &fakeRenderer{}
	opts = append([]ClientOption{
		WithTransport(channel),
		WithRenderer(renderer),
		WithMicrophoneControl("mic"),
		WithStartControl("start", DefaultFollowUpTarget),
		WithButtons(Button{ID: "greet", Name: "greet_button"}),
	}, opts...)

	client := NewClient(opts...)
	if err := client.Run(context.Background()); err != nil {
		t.Fatalf("expected run to succeed, got %v", err)
	}
	return client, channel, renderer
}

func TestRunWithoutTransportFails(t *testing.T) {
	client := NewClient()
	if err := client.Run(context.Background()); err != ErrNoTransport {
		t.Fatalf("expected ErrNoTransport, got %v", err)
	}
}

func TestMicrophoneClickDuringAgentTurnIsRejected(t *testing.T) {
	client, channel, renderer := newRunningClient(t)

	if err := client.ActivateButton("mic"); err != nil {
		t.Fatalf("expected activation to succeed, got %v", err)
	}

	state := client.Snapshot()
	if state.Turn != AgentTurn {
		t.Fatalf("expected turn to remain with the agent, got %v", state.Turn)
	}
	if state.Microphone != MicrophoneClosed {
		t.Fatalf("expected microphone to remain closed, got %v", state.Microphone)
	}
	if state.Capturing {
		t.Fatalf("expected no capture to start")
	}
	if len(renderer.notices) != 1 || renderer.notices[0] != DefaultOutOfTurnNotice {
		t.Fatalf("expected a single out-of-turn notice, got %v", renderer.notices)
	}
	if got := channel.emittedEvents(); len(got) != 1 || got[0].event != transport.EventButtonClicked {
		t.Fatalf("expected only the generic click forward, got %v", got)
	}
	assertMicrophoneInvariant(t, client)
}

func TestMicrophoneClickDuringUserTurnOpensCapture(t *testing.T) {
	client, channel, renderer := newRunningClient(t, WithInitialTurn(UserTurn))

	if err := client.ActivateButton("mic"); err != nil {
		t.Fatalf("expected activation to succeed, got %v", err)
	}

	state := client.Snapshot()
	if state.Microphone != MicrophoneOpen {
		t.Fatalf("expected microphone to open, got %v", state.Microphone)
	}
	if !state.Capturing {
		t.Fatalf("expected capture to start")
	}

	emitted := channel.emittedEvents()
	if len(emitted) != 1 || emitted[0].event != transport.EventButtonClicked {
		t.Fatalf("expected one forwarded click, got %v", emitted)
	}
	payload, ok := emitted[0].payload.(transport.ButtonPayload)
	if !ok || payload.Button != "mic" {
		t.Fatalf("expected forwarded click to carry the microphone identifier, got %v", emitted[0].payload)
	}
	if len(renderer.micStates) != 1 || !renderer.micStates[0] {
		t.Fatalf("expected renderer to show the open affordance, got %v", renderer.micStates)
	}
}

func TestTranscriptReceiptClosesMicrophoneAndKeepsTurnUnderAssignSemantics(t *testing.T) {
	client, channel, renderer := newRunningClient(t, WithInitialTurn(UserTurn))

	if err := client.ActivateButton("mic"); err != nil {
		t.Fatalf("expected activation to succeed, got %v", err)
	}
	channel.push(t, transport.EventTranscript, transport.TranscriptPayload{Transcript: "hello"})

	state := client.Snapshot()
	if state.Transcript != "hello" {
		t.Fatalf("expected transcript %q, got %q", "hello", state.Transcript)
	}
	if state.Microphone != MicrophoneClosed || state.Capturing {
		t.Fatalf("expected capture to end on transcript receipt, got %v capturing=%v", state.Microphone, state.Capturing)
	}
	if state.Turn != UserTurn {
		t.Fatalf("expected assignment semantics to keep the user's turn, got %v", state.Turn)
	}
	if got := renderer.transcripts; len(got) != 1 || got[0] != "hello" {
		t.Fatalf("expected rendered transcript [hello], got %v", got)
	}
	assertMicrophoneInvariant(t, client)
}

func TestTranscriptReceiptHandsTurnOverUnderToggleSemantics(t *testing.T) {
	client, channel, _ := newRunningClient(t,
		WithInitialTurn(UserTurn),
		WithTurnSemantics(TurnSemanticsToggle),
	)

	channel.push(t, transport.EventTranscript, transport.TranscriptPayload{Transcript: "hello"})

	state := client.Snapshot()
	if state.Turn != AgentTurn {
		t.Fatalf("expected transcript receipt to hand the turn to the agent, got %v", state.Turn)
	}
	if state.Transcript != "hello" || state.Microphone != MicrophoneClosed {
		t.Fatalf("expected transcript stored with closed microphone, got %q %v", state.Transcript, state.Microphone)
	}
	assertMicrophoneInvariant(t, client)
}

func TestExplicitAgentTurnAssignmentForcesMicrophoneClosed(t *testing.T) {
	client, channel, _ := newRunningClient(t, WithInitialTurn(UserTurn))

	if err := client.ActivateButton("mic"); err != nil {
		t.Fatalf("expected activation to succeed, got %v", err)
	}
	channel.push(t, transport.EventTurn, transport.TurnPayload{UserTurn: boolPtr(false)})

	state := client.Snapshot()
	if state.Turn != AgentTurn {
		t.Fatalf("expected agent turn after explicit assignment, got %v", state.Turn)
	}
	if state.Microphone != MicrophoneClosed || state.Capturing {
		t.Fatalf("expected microphone forced closed, got %v capturing=%v", state.Microphone, state.Capturing)
	}
	assertMicrophoneInvariant(t, client)
}

func TestRepeatedExplicitAssignmentIsIdempotent(t *testing.T) {
	client, channel, _ := newRunningClient(t)

	channel.push(t, transport.EventTurn, transport.TurnPayload{UserTurn: boolPtr(true)})
	first := client.Snapshot().Turn
	channel.push(t, transport.EventTurn, transport.TurnPayload{UserTurn: boolPtr(true)})
	second := client.Snapshot().Turn

	if first != UserTurn || second != UserTurn {
		t.Fatalf("expected both assignments to land on the user's turn, got %v then %v", first, second)
	}
}

func TestToggleUpdatesFlipAndRestore(t *testing.T) {
	client, channel, _ := newRunningClient(t)

	channel.push(t, transport.EventTurn, nil)
	if got := client.Snapshot().Turn; got != UserTurn {
		t.Fatalf("expected first toggle to grant the user's turn, got %v", got)
	}
	channel.push(t, transport.EventTurn, nil)
	if got := client.Snapshot().Turn; got != AgentTurn {
		t.Fatalf("expected second toggle to restore the agent's turn, got %v", got)
	}
	assertMicrophoneInvariant(t, client)
}

func TestStartControlNavigatesOncePerClickRegardlessOfTurn(t *testing.T) {
	client, _, renderer := newRunningClient(t)

	if err := client.ActivateButton("start"); err != nil {
		t.Fatalf("expected activation to succeed, got %v", err)
	}
	if err := client.ActivateButton("start"); err != nil {
		t.Fatalf("expected activation to succeed, got %v", err)
	}

	if len(renderer.navigations) != 2 {
		t.Fatalf("expected one navigation per click, got %d", len(renderer.navigations))
	}
	for _, target := range renderer.navigations {
		if target != DefaultFollowUpTarget {
			t.Fatalf("expected navigation to %q, got %q", DefaultFollowUpTarget, target)
		}
	}
}

func TestDisplayedTranscriptIsLastReceived(t *testing.T) {
	client, channel, renderer := newRunningClient(t)

	for _, text := range []string{"one", "two", "three"} {
		channel.push(t, transport.EventTranscript, transport.TranscriptPayload{Transcript: text})
	}

	if got := client.Snapshot().Transcript; got != "three" {
		t.Fatalf("expected last transcript to win, got %q", got)
	}
	if last := renderer.transcripts[len(renderer.transcripts)-1]; last != "three" {
		t.Fatalf("expected renderer to show the last transcript, got %q", last)
	}
}

func TestUnknownButtonIsAnError(t *testing.T) {
	client, channel, _ := newRunningClient(t)

	if err := client.ActivateButton("missing"); err == nil {
		t.Fatalf("expected unknown button to be rejected")
	}
	if got := channel.emittedEvents(); len(got) != 0 {
		t.Fatalf("expected no forwarded click for unknown button, got %v", got)
	}
}

func TestLegacyClickVariantForwardsNameAttribute(t *testing.T) {
	client, channel, _ := newRunningClient(t, WithLegacyClickEvents())

	if err := client.ActivateButton("greet"); err != nil {
		t.Fatalf("expected activation to succeed, got %v", err)
	}

	emitted := channel.emittedEvents()
	if len(emitted) != 1 || emitted[0].event != transport.EventClickedFlag {
		t.Fatalf("expected the flag-variant event, got %v", emitted)
	}
	if payload, ok := emitted[0].payload.(string); !ok || payload != "greet_button" {
		t.Fatalf("expected the name attribute as payload, got %v", emitted[0].payload)
	}
}

func TestStateReplayAppliesTranscriptTurnAndWebInfo(t *testing.T) {
	client, channel, _ := newRunningClient(t)

	channel.push(t, transport.EventState, transport.StatePayload{
		Transcript: "welcome back",
		UserTurn:   true,
		WebInfo:    map[string]string{"tunnel_url": "https://example.test"},
	})

	state := client.Snapshot()
	if state.Transcript != "welcome back" {
		t.Fatalf("expected replayed transcript, got %q", state.Transcript)
	}
	if state.Turn != UserTurn {
		t.Fatalf("expected replayed turn assignment, got %v", state.Turn)
	}
	if state.WebInfo["tunnel_url"] != "https://example.test" {
		t.Fatalf("expected replayed webinfo, got %v", state.WebInfo)
	}
}

func TestSnapshotIsDetachedFromClientState(t *testing.T) {
	client, channel, _ := newRunningClient(t)

	channel.push(t, transport.EventWebInfo, transport.WebInfoPayload{Label: "label", Message: "before"})
	state := client.Snapshot()
	state.WebInfo["label"] = "mutated"

	if got := client.Snapshot().WebInfo["label"]; got != "before" {
		t.Fatalf("expected snapshot mutation to leave client state untouched, got %q", got)
	}
}

func TestContextCancellationClosesTransport(t *testing.T) {
	channel := newFakeTransport()
	client := NewClient(WithTransport(channel))

	ctx, cancel := context.WithCancel(context.Background())
	if err := client.Run(ctx); err != nil {
		t.Fatalf("expected run to succeed, got %v", err)
	}
	cancel()
	client.Close()

	channel.mu.Lock()
	closed := channel.closed
	channel.mu.Unlock()
	if !closed {
		t.Fatalf("expected transport to be closed")
	}
}

func boolPtr(value bool) *bool { return &value }
