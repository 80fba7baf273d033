// Package webclient implements the turn-taking interaction client: it binds
// registered controls to a bidirectional event channel, enforces the turn
// invariant, and renders the backend-pushed transcript and turn state
// through a narrow rendering port.
package webclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/socialrobotics/webclient-core/core/events"
	"github.com/socialrobotics/webclient-core/core/render"
	"github.com/socialrobotics/webclient-core/core/transport"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrNoTransport is returned by Run when no event channel was configured.
var ErrNoTransport = errors.New("no transport configured")

const (
	// DefaultFollowUpTarget is the resource the start control navigates to
	// unless overridden.
	DefaultFollowUpTarget = "recipe_overview.html"
	// DefaultOutOfTurnNotice is shown when the microphone control is
	// activated outside the user's turn.
	DefaultOutOfTurnNotice = "It is not your turn yet."
)

// Client owns the interaction state of one page session. All state lives on
// the instance; construct one per session and discard it when the session
// ends.
type Client struct {
	mu         sync.RWMutex
	turn       TurnState
	microphone MicrophoneState
	capturing  bool
	transcript string
	webInfo    map[string]string

	buttons         buttonRegistry
	semantics       TurnSemantics
	followUpTarget  string
	outOfTurnNotice string
	legacyClicks    bool

	transport Transport
	renderer  render.Port

	eventEmitter eventEmitter
	runOptions   RunOptions
	closeOnce    sync.Once
	baseContext  context.Context
}

// NewClient builds a client. Without options it starts in AgentTurn with
// assignment semantics, no controls, and a discarding renderer.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		turn:            AgentTurn,
		microphone:      MicrophoneClosed,
		webInfo:         map[string]string{},
		buttons:         newButtonRegistry(),
		semantics:       TurnSemanticsAssign,
		followUpTarget:  DefaultFollowUpTarget,
		outOfTurnNotice: DefaultOutOfTurnNotice,
		renderer:        render.Noop{},
		eventEmitter:    noopEventEmitter,
		baseContext:     context.Background(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run binds the client to its transport and starts processing inbound
// events.
//
// ctx cancellation closes the client. Contract: call Run at most once per
// client instance.
func (c *Client) Run(ctx context.Context, opts ...RunOption) error {
	if c.transport == nil {
		return ErrNoTransport
	}

	c.runOptions = RunOptions{}
	for _, opt := range opts {
		opt(&c.runOptions)
	}
	c.eventEmitter = newCallbackEventEmitter(c.runOptions)

	c.baseContext = ctx
	c.transport.On(transport.EventTranscript, c.handleTranscriptEnvelope)
	c.transport.On(transport.EventTurn, c.handleTurnEnvelope)
	c.transport.On(transport.EventState, c.handleStateEnvelope)
	c.transport.On(transport.EventWebInfo, c.handleWebInfoEnvelope)
	c.transport.On(transport.EventHTML, c.handleHTMLEnvelope)

	c.transport.On(transport.EventConnect, func(json.RawMessage) {
		log.Println("Transport session established")
		c.emit(events.NewTransportConnected())
	})
	c.transport.On(transport.EventConnectError, func(payload json.RawMessage) {
		description := describeConnectError(payload)
		log.Println("Transport session failed to establish:", description)
		c.emit(events.NewTransportConnectFailed(errors.New(description)))
	})
	c.transport.On(transport.EventDisconnect, func(json.RawMessage) {
		log.Println("Transport session ended")
		c.emit(events.NewTransportDisconnected())
	})

	go func() {
		<-ctx.Done()
		c.Close()
	}()

	return nil
}

// Close shuts the transport down. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		if c.transport == nil {
			return
		}
		if err := c.transport.Close(); err != nil {
			recordedErr := fmt.Errorf("failed to close transport: %w", err)
			span := trace.SpanFromContext(c.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}
	})
}

// ActivateButton forwards an activation of the identified control to the
// backend and runs the dedicated behavior of the distinguished controls.
// The forwarded event is fire-and-forget; only an unknown identifier is an
// error.
func (c *Client) ActivateButton(id string) error {
	_, span := tracer.Start(c.baseContext, "activate button")
	defer span.End()

	button, ok := c.buttons.lookup(id)
	if !ok {
		err := fmt.Errorf("unknown button %q", id)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	c.forwardClick(button)

	switch id {
	case c.buttons.micID:
		c.activateMicrophone(button)
	case c.buttons.startID:
		c.activateStart(button)
	}

	return nil
}

// ApplyTurnUpdate resolves a turn update against the current state and
// enforces the microphone invariant on the result.
func (c *Client) ApplyTurnUpdate(update TurnUpdate) {
	c.mu.Lock()
	c.turn = reduceTurn(c.turn, update)
	turn := c.turn
	if turn != UserTurn {
		c.microphone = MicrophoneClosed
		c.capturing = false
	}
	c.mu.Unlock()

	if turn != UserTurn {
		c.renderer.SetMicrophoneOpen(false)
	}

	if update.IsToggle() {
		c.emit(events.NewTurnToggled())
	}
	c.emit(events.NewTurnAssigned(turn == UserTurn))
}

// ClientState is a point-in-time view of client state.
type ClientState struct {
	Turn       TurnState
	Microphone MicrophoneState
	Capturing  bool
	Transcript string
	WebInfo    map[string]string
	Buttons    []Button
}

// Snapshot returns a deep copy of the current client state.
func (c *Client) Snapshot() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state := ClientState{
		Turn:       c.turn,
		Microphone: c.microphone,
		Capturing:  c.capturing,
		Transcript: c.transcript,
	}
	if err := copier.CopyWithOption(&state.WebInfo, c.webInfo, copier.Option{DeepCopy: true}); err != nil {
		log.Println("Failed to copy webinfo snapshot", err)
	}
	if err := copier.Copy(&state.Buttons, c.buttons.buttons); err != nil {
		log.Println("Failed to copy button snapshot", err)
	}
	return state
}

func (c *Client) emit(event events.Event) {
	if c.eventEmitter == nil {
		return
	}
	c.eventEmitter(event)
}

func (c *Client) forwardClick(button Button) {
	var err error
	if c.legacyClicks {
		err = c.transport.Emit(transport.EventClickedFlag, button.legacyPayload())
	} else {
		err = c.transport.Emit(transport.EventButtonClicked, transport.ButtonPayload{Button: button.ID})
	}
	if err != nil {
		recordedErr := fmt.Errorf("failed to forward button click: %w", err)
		span := trace.SpanFromContext(c.baseContext)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
	}

	c.emit(events.NewButtonActivated(button.ID))
}

func (c *Client) activateMicrophone(button Button) {
	c.mu.Lock()
	if c.turn != UserTurn {
		c.mu.Unlock()
		c.renderer.Notice(c.outOfTurnNotice)
		c.emit(events.NewOutOfTurnRejected(button.ID))
		return
	}

	c.microphone = MicrophoneOpen
	c.capturing = true
	c.mu.Unlock()

	c.renderer.SetMicrophoneOpen(true)
	c.emit(events.NewCaptureStarted(button.ID))
}

func (c *Client) activateStart(button Button) {
	c.renderer.Navigate(c.followUpTarget)
	c.emit(events.NewStartRequested(c.followUpTarget))
}

// handleTranscript overwrites the displayed transcript. Capture implicitly
// ends when a transcript arrives, so the microphone affordance closes; under
// toggle semantics a transcript received during the user's turn also hands
// the turn to the agent.
func (c *Client) handleTranscript(text string) {
	c.mu.Lock()
	c.transcript = text
	c.microphone = MicrophoneClosed
	c.capturing = false

	handedOff := false
	if c.semantics == TurnSemanticsToggle && c.turn == UserTurn {
		c.turn = reduceTurn(c.turn, ToggleTurn())
		handedOff = true
	}
	c.mu.Unlock()

	c.renderer.SetTranscript(text)
	c.renderer.SetMicrophoneOpen(false)

	c.emit(events.NewTranscriptReceived(text))
	if handedOff {
		c.emit(events.NewTurnAssigned(false))
	}
}

func (c *Client) handleTranscriptEnvelope(payload json.RawMessage) {
	var parsed transport.TranscriptPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		log.Println("Failed to unmarshal transcript payload", err)
		return
	}
	c.handleTranscript(parsed.Transcript)
}

func (c *Client) handleTurnEnvelope(payload json.RawMessage) {
	var parsed transport.TurnPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &parsed); err != nil {
			log.Println("Failed to unmarshal turn payload", err)
			return
		}
	}

	if parsed.UserTurn == nil {
		c.ApplyTurnUpdate(ToggleTurn())
		return
	}
	c.ApplyTurnUpdate(AssignTurn(*parsed.UserTurn))
}

// handleStateEnvelope applies the snapshot the backend replays on connect.
func (c *Client) handleStateEnvelope(payload json.RawMessage) {
	var parsed transport.StatePayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		log.Println("Failed to unmarshal state payload", err)
		return
	}

	c.mu.Lock()
	c.transcript = parsed.Transcript
	for label, message := range parsed.WebInfo {
		c.webInfo[label] = message
	}
	c.mu.Unlock()

	c.renderer.SetTranscript(parsed.Transcript)
	c.ApplyTurnUpdate(AssignTurn(parsed.UserTurn))
}

func (c *Client) handleWebInfoEnvelope(payload json.RawMessage) {
	var parsed transport.WebInfoPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		log.Println("Failed to unmarshal webinfo payload", err)
		return
	}

	c.mu.Lock()
	c.webInfo[parsed.Label] = parsed.Message
	c.mu.Unlock()

	c.emit(events.NewWebInfoReceived(parsed.Label, parsed.Message))
}

func (c *Client) handleHTMLEnvelope(payload json.RawMessage) {
	var parsed transport.HTMLPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		log.Println("Failed to unmarshal html payload", err)
		return
	}

	c.emit(events.NewHTMLReceived(parsed.HTML))
}

func describeConnectError(payload json.RawMessage) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &parsed); err == nil && parsed.Error != "" {
			return parsed.Error
		}
	}
	return "connection failed"
}
