// Package webserver implements the backend counterpart of the turn-taking
// client: it owns the websocket endpoint frontends connect to, replays the
// latest interaction state on connect, broadcasts transcript, turn, and
// webinfo pushes, and surfaces button clicks received from any page.
package webserver

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/socialrobotics/webclient-core/core/transport"
	"github.com/socialrobotics/webclient-core/internal/utils"
)

// Component is the webserver service. Construct one per deployment; it is
// safe for concurrent use.
type Component struct {
	mu         sync.RWMutex
	transcript string
	userTurn   bool
	webInfo    map[string]string

	micImages       transport.MicrophoneImages
	onButtonClicked func(button string)
	checkOrigin     func(*http.Request) bool

	hub      *hub
	upgrader websocket.Upgrader
	ready    atomic.Bool
}

type Option func(*Component)

// WithMicrophoneImages names the image resources the frontend uses for the
// open and closed microphone affordance.
func WithMicrophoneImages(open, closed string) Option {
	return func(c *Component) {
		c.micImages = transport.MicrophoneImages{Open: open, Closed: closed}
	}
}

// WithInitialUserTurn sets the turn value replayed to clients before any
// explicit turn update. The default grants the agent the turn.
func WithInitialUserTurn(userTurn bool) Option {
	return func(c *Component) {
		c.userTurn = userTurn
	}
}

// WithButtonClickedCallback registers the output callback invoked for every
// button click received from a frontend.
func WithButtonClickedCallback(callback func(button string)) Option {
	return func(c *Component) {
		c.onButtonClicked = callback
	}
}

// WithCheckOrigin overrides the websocket origin check. The default accepts
// every origin.
func WithCheckOrigin(check func(r *http.Request) bool) Option {
	return func(c *Component) {
		c.checkOrigin = check
	}
}

// NewComponent builds the webserver component.
func NewComponent(opts ...Option) *Component {
	c := &Component{
		webInfo:     map[string]string{},
		micImages:   transport.MicrophoneImages{Open: "mic_open.png", Closed: "mic_closed.png"},
		checkOrigin: func(*http.Request) bool { return true },
		hub:         newHub(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     c.checkOrigin,
	}
	c.ready.Store(true)
	return c
}

// ActiveSessions reports how many frontends are currently connected.
func (c *Component) ActiveSessions() int {
	return c.hub.count()
}

// PushTranscript stores the latest transcript and broadcasts it.
func (c *Component) PushTranscript(text string) {
	c.mu.Lock()
	c.transcript = text
	c.mu.Unlock()

	c.broadcast(transport.EventTranscript, transport.TranscriptPayload{Transcript: text})
}

// SetTurn broadcasts an authoritative turn assignment.
func (c *Component) SetTurn(userTurn bool) {
	c.mu.Lock()
	c.userTurn = userTurn
	c.mu.Unlock()

	c.broadcast(transport.EventTurn, transport.TurnPayload{UserTurn: utils.Ptr(userTurn)})
}

// ToggleTurn broadcasts a parity flip of the turn value.
func (c *Component) ToggleTurn() {
	c.mu.Lock()
	c.userTurn = !c.userTurn
	c.mu.Unlock()

	c.broadcast(transport.EventTurn, transport.TurnPayload{})
}

// PushWebInfo stores and broadcasts a labeled piece of auxiliary data.
func (c *Component) PushWebInfo(label, message string) {
	c.mu.Lock()
	c.webInfo[label] = message
	c.mu.Unlock()

	c.broadcast(transport.EventWebInfo, transport.WebInfoPayload{Label: label, Message: message})
}

// PushHTML broadcasts an HTML fragment.
func (c *Component) PushHTML(html string) {
	c.broadcast(transport.EventHTML, transport.HTMLPayload{HTML: html})
}

// WebInfo returns the latest message stored under the label.
func (c *Component) WebInfo(label string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	message, ok := c.webInfo[label]
	return message, ok
}

func (c *Component) broadcast(event string, payload any) {
	env, err := transport.NewEnvelope(event, payload)
	if err != nil {
		logger.Error("Failed to build broadcast envelope", "event", event, "error", err)
		return
	}
	c.hub.broadcast(env)
}

func (c *Component) statePayload() transport.StatePayload {
	c.mu.RLock()
	defer c.mu.RUnlock()

	webInfo := make(map[string]string, len(c.webInfo))
	for label, message := range c.webInfo {
		webInfo[label] = message
	}
	return transport.StatePayload{
		Transcript:       c.transcript,
		UserTurn:         c.userTurn,
		WebInfo:          webInfo,
		MicrophoneImages: c.micImages,
	}
}

func (c *Component) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	s := &session{id: uuid.New().String(), conn: conn}
	c.hub.register(s)
	log.Printf("Client %s connected from %s", s.id, conn.RemoteAddr())

	// Replay current state so late joiners render the session as-is.
	env, err := transport.NewEnvelope(transport.EventState, c.statePayload())
	if err == nil {
		if sendErr := s.send(env); sendErr != nil {
			logger.Warn("Failed to replay state", "session", s.id, "error", sendErr)
		}
	}

	defer func() {
		c.hub.unregister(s.id)
		conn.Close()
		log.Printf("Client %s disconnected", s.id)
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Client %s disconnected unexpectedly: %v", s.id, err)
			}
			return
		}
		c.handleInbound(msg)
	}
}

func (c *Component) handleInbound(msg []byte) {
	var env transport.Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		log.Println("Failed to unmarshal inbound envelope", err)
		return
	}

	switch env.Event {
	case transport.EventButtonClicked:
		var payload transport.ButtonPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			log.Println("Failed to unmarshal button payload", err)
			return
		}
		c.emitButtonClicked(payload.Button)

	case transport.EventClickedFlag:
		// Legacy pages send the button name as a bare string.
		var name string
		if err := json.Unmarshal(env.Payload, &name); err != nil {
			log.Println("Failed to unmarshal legacy click payload", err)
			return
		}
		c.emitButtonClicked(name)

	default:
		log.Printf("Ignoring inbound event %q", env.Event)
	}
}

func (c *Component) emitButtonClicked(button string) {
	log.Printf("Button clicked: %s", button)
	if c.onButtonClicked != nil {
		c.onButtonClicked(button)
	}
}
