// Package transport defines the wire contract of the event channel between
// the web frontend and the backend, plus the named events both sides agree
// on. Implementations live in subpackages.
package transport

import (
	"encoding/json"
	"fmt"
)

// Named events carried over the channel. The sic/ namespace matches the
// backend service; clicked_flag is the legacy shape used by simpler pages.
const (
	EventState         = "sic/state"
	EventTranscript    = "sic/transcript"
	EventWebInfo       = "sic/webinfo"
	EventTurn          = "sic/turn"
	EventHTML          = "sic/html"
	EventButtonClicked = "sic/button_clicked"
	EventClickedFlag   = "clicked_flag"
)

// Session lifecycle pseudo-events. They are never serialized; the transport
// synthesizes them locally so handlers can observe connection state.
const (
	EventConnect      = "connect"
	EventConnectError = "connect_error"
	EventDisconnect   = "disconnect"
)

// Envelope is the framing for every serialized event.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals payload into an envelope for the named event.
// A nil payload produces an envelope with no payload field.
func NewEnvelope(event string, payload any) (Envelope, error) {
	if payload == nil {
		return Envelope{Event: event}, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %q payload: %w", event, err)
	}
	return Envelope{Event: event, Payload: raw}, nil
}

// TranscriptPayload carries the latest utterance transcription.
type TranscriptPayload struct {
	Transcript string `json:"transcript"`
}

// TurnPayload carries a turn update. A nil UserTurn means the receiver
// should flip its current turn value instead of assigning one.
type TurnPayload struct {
	UserTurn *bool `json:"user_turn,omitempty"`
}

// WebInfoPayload carries labeled auxiliary data for the frontend.
type WebInfoPayload struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

// HTMLPayload carries a pushed HTML fragment.
type HTMLPayload struct {
	HTML string `json:"html"`
}

// ButtonPayload carries the identifier of an activated control.
type ButtonPayload struct {
	Button string `json:"button"`
}

// StatePayload is the snapshot replayed to a client on connect.
type StatePayload struct {
	Transcript       string            `json:"transcript"`
	UserTurn         bool              `json:"user_turn"`
	WebInfo          map[string]string `json:"webinfo,omitempty"`
	MicrophoneImages MicrophoneImages  `json:"microphone_images"`
}

// MicrophoneImages names the image resources backing the microphone
// affordance.
type MicrophoneImages struct {
	Open   string `json:"open"`
	Closed string `json:"closed"`
}
