package webclient

import (
	"encoding/json"

	"github.com/socialrobotics/webclient-core/core/render"
)

// Transport is the narrow event-channel capability the client needs: named
// outbound emits and named inbound handler registration over one persistent
// connection.
type Transport interface {
	Emit(event string, payload any) error
	On(event string, handler func(payload json.RawMessage))
	Close() error
}

type ClientOption func(*Client)

// WithTransport sets the event channel the client binds to.
func WithTransport(transport Transport) ClientOption {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithRenderer sets the rendering port display updates are pushed to. The
// default discards everything.
func WithRenderer(port render.Port) ClientOption {
	return func(c *Client) {
		if port == nil {
			c.renderer = render.Noop{}
			return
		}
		c.renderer = port
	}
}

// WithButtons registers generic controls. Duplicate identifiers are ignored.
func WithButtons(buttons ...Button) ClientOption {
	return func(c *Client) {
		c.buttons.add(buttons...)
	}
}

// WithStartControl designates the start control and the follow-up resource
// its activation navigates to.
func WithStartControl(id, target string) ClientOption {
	return func(c *Client) {
		c.buttons.add(Button{ID: id})
		c.buttons.startID = id
		c.followUpTarget = target
	}
}

// WithMicrophoneControl designates the microphone control.
func WithMicrophoneControl(id string) ClientOption {
	return func(c *Client) {
		c.buttons.add(Button{ID: id})
		c.buttons.micID = id
	}
}

// WithInitialTurn sets the turn state the client starts in. The default is
// AgentTurn.
func WithInitialTurn(state TurnState) ClientOption {
	return func(c *Client) {
		c.turn = state
	}
}

// WithTurnSemantics selects the turn hand-off behavior on transcript
// receipt. The default keeps the turn until the backend assigns it.
func WithTurnSemantics(semantics TurnSemantics) ClientOption {
	return func(c *Client) {
		c.semantics = semantics
	}
}

// WithLegacyClickEvents makes the client emit the flag-variant click event,
// carrying the button's name attribute instead of its identifier.
func WithLegacyClickEvents() ClientOption {
	return func(c *Client) {
		c.legacyClicks = true
	}
}

// WithOutOfTurnNotice overrides the message shown when the microphone
// control is activated outside the user's turn.
func WithOutOfTurnNotice(notice string) ClientOption {
	return func(c *Client) {
		if notice != "" {
			c.outOfTurnNotice = notice
		}
	}
}

type RunOptions struct {
	onTranscript             func(transcript string)
	onTurnChanged            func(userTurn bool)
	onTurnToggled            func()
	onButtonActivated        func(buttonID string)
	onCaptureStarted         func(buttonID string)
	onOutOfTurnRejected      func(buttonID string)
	onStartRequested         func(target string)
	onWebInfo                func(label, message string)
	onHTML                   func(html string)
	onConnectionStateChanged func(connected bool)
	onConnectError           func(err error)
}

type RunOption func(*RunOptions)

// WithTranscriptCallback registers a callback for transcript pushes from the
// backend.
func WithTranscriptCallback(callback func(transcript string)) RunOption {
	return func(o *RunOptions) {
		o.onTranscript = callback
	}
}

// WithTurnChangedCallback registers a callback invoked with the resulting
// turn value after every applied turn update.
func WithTurnChangedCallback(callback func(userTurn bool)) RunOption {
	return func(o *RunOptions) {
		o.onTurnChanged = callback
	}
}

// WithTurnToggledCallback registers a callback for wire-level toggle
// updates, fired before the resulting value is reported through
// [WithTurnChangedCallback].
func WithTurnToggledCallback(callback func()) RunOption {
	return func(o *RunOptions) {
		o.onTurnToggled = callback
	}
}

// WithButtonActivatedCallback registers a callback for every forwarded
// control activation.
func WithButtonActivatedCallback(callback func(buttonID string)) RunOption {
	return func(o *RunOptions) {
		o.onButtonActivated = callback
	}
}

// WithCaptureStartedCallback registers a callback for microphone capture
// begin.
func WithCaptureStartedCallback(callback func(buttonID string)) RunOption {
	return func(o *RunOptions) {
		o.onCaptureStarted = callback
	}
}

// WithOutOfTurnRejectedCallback registers a callback for microphone
// activations rejected outside the user's turn.
func WithOutOfTurnRejectedCallback(callback func(buttonID string)) RunOption {
	return func(o *RunOptions) {
		o.onOutOfTurnRejected = callback
	}
}

// WithStartRequestedCallback registers a callback for start control
// activations.
func WithStartRequestedCallback(callback func(target string)) RunOption {
	return func(o *RunOptions) {
		o.onStartRequested = callback
	}
}

// WithWebInfoCallback registers a callback for labeled auxiliary data.
func WithWebInfoCallback(callback func(label, message string)) RunOption {
	return func(o *RunOptions) {
		o.onWebInfo = callback
	}
}

// WithHTMLCallback registers a callback for pushed HTML fragments.
func WithHTMLCallback(callback func(html string)) RunOption {
	return func(o *RunOptions) {
		o.onHTML = callback
	}
}

// WithConnectionStateChangedCallback registers a callback for transport
// session establishment and loss.
func WithConnectionStateChangedCallback(callback func(connected bool)) RunOption {
	return func(o *RunOptions) {
		o.onConnectionStateChanged = callback
	}
}

// WithConnectErrorCallback registers a callback for failed session
// establishment.
func WithConnectErrorCallback(callback func(err error)) RunOption {
	return func(o *RunOptions) {
		o.onConnectError = callback
	}
}
