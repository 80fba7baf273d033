// Package sicws provides the websocket implementation of the event channel:
// one long-lived connection carrying JSON envelopes, with keepalive pings
// and reconnection with capped exponential backoff.
package sicws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/socialrobotics/webclient-core/core/transport"
)

const (
	defaultHandshakeTimeout = 8 * time.Second
	defaultBackoffMin       = 500 * time.Millisecond
	defaultBackoffMax       = 30 * time.Second
	defaultPingInterval     = 20 * time.Second
)

type Client struct {
	url    string
	dialer *websocket.Dialer
	header http.Header

	connMu sync.Mutex
	conn   *websocket.Conn

	handlersMu sync.RWMutex
	handlers   map[string][]func(json.RawMessage)

	reconnect    bool
	backoffMin   time.Duration
	backoffMax   time.Duration
	pingInterval time.Duration

	closed    chan struct{}
	closeOnce sync.Once
}

type Option func(*Client)

// WithHandshakeTimeout bounds how long the dialer waits for the websocket
// handshake.
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.dialer.HandshakeTimeout = timeout
	}
}

// WithReconnectBackoff sets the exponential backoff bounds between
// reconnection attempts.
func WithReconnectBackoff(min, max time.Duration) Option {
	return func(c *Client) {
		c.backoffMin = min
		c.backoffMax = max
	}
}

// WithoutReconnect disables reconnection; the session ends when the
// connection drops, matching the original fire-and-forget behavior.
func WithoutReconnect() Option {
	return func(c *Client) {
		c.reconnect = false
	}
}

// WithPingInterval sets the keepalive ping cadence.
func WithPingInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.pingInterval = interval
	}
}

// WithHeader adds headers to the handshake request.
func WithHeader(header http.Header) Option {
	return func(c *Client) {
		c.header = header
	}
}

// New builds a client for the given websocket URL. No connection is made
// until Connect is called, so handlers registered through On observe the
// first session lifecycle events.
func New(rawURL string, opts ...Option) *Client {
	c := &Client{
		url:          rawURL,
		dialer:       &websocket.Dialer{HandshakeTimeout: defaultHandshakeTimeout},
		handlers:     map[string][]func(json.RawMessage){},
		reconnect:    true,
		backoffMin:   defaultBackoffMin,
		backoffMax:   defaultBackoffMax,
		pingInterval: defaultPingInterval,
		closed:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Connect opens the session and starts the read loop. With reconnection
// enabled a failed first dial is reported through the connect_error event
// and retried in the background; without it the error is returned.
func (c *Client) Connect(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		c.dispatch(transport.EventConnectError, connectErrorPayload(err))
		if !c.reconnect {
			return fmt.Errorf("failed to open websocket: %w", err)
		}
		go c.manage(ctx, nil)
		return nil
	}

	c.setConn(conn)
	c.dispatch(transport.EventConnect, nil)
	go c.manage(ctx, conn)
	return nil
}

// Emit sends a named event to the backend.
func (c *Client) Emit(event string, payload any) error {
	env, err := transport.NewEnvelope(event, payload)
	if err != nil {
		return err
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("cannot emit %q: not connected", event)
	}
	if err := c.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("failed to write %q event: %w", event, err)
	}
	return nil
}

// On registers a handler for a named inbound event. Handlers run on the
// read goroutine in delivery order.
func (c *Client) On(event string, handler func(payload json.RawMessage)) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers[event] = append(c.handlers[event], handler)
}

// Close ends the session and stops reconnection. Safe to call more than
// once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)

		c.connMu.Lock()
		defer c.connMu.Unlock()
		if c.conn == nil {
			return
		}
		deadline := time.Now().Add(time.Second)
		if writeErr := c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			deadline,
		); writeErr != nil && writeErr != websocket.ErrCloseSent {
			log.Println("Failed to send close message", writeErr)
		}
		err = c.conn.Close()
		c.conn = nil
	})
	return err
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial failed: %w (status %s)", err, resp.Status)
		}
		return nil, fmt.Errorf("dial failed: %w", err)
	}
	return conn, nil
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
}

func (c *Client) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// manage owns the session lifecycle: it runs the read loop for the current
// connection and re-dials with backoff when it drops.
func (c *Client) manage(ctx context.Context, conn *websocket.Conn) {
	backoff := c.backoffMin
	for {
		if conn != nil {
			c.readAndDispatch(conn)
			c.setConn(nil)
			c.dispatch(transport.EventDisconnect, nil)
			backoff = c.backoffMin
		}

		if c.isClosed() || ctx.Err() != nil || !c.reconnect {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		case <-time.After(backoff):
		}
		if backoff *= 2; backoff > c.backoffMax {
			backoff = c.backoffMax
		}

		next, err := c.dial(ctx)
		if err != nil {
			c.dispatch(transport.EventConnectError, connectErrorPayload(err))
			conn = nil
			continue
		}
		conn = next
		c.setConn(conn)
		c.dispatch(transport.EventConnect, nil)
	}
}

func (c *Client) readAndDispatch(conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go c.keepAlive(conn, done)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !c.isClosed() {
				log.Println("Failed to read websocket message", err)
			}
			conn.Close()
			return
		}

		var env transport.Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			log.Println("Failed to unmarshal envelope", err)
			continue
		}
		c.dispatch(env.Event, env.Payload)
	}
}

func (c *Client) keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.closed:
			return
		case <-ticker.C:
			deadline := time.Now().Add(time.Second)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

func (c *Client) dispatch(event string, payload json.RawMessage) {
	c.handlersMu.RLock()
	handlers := append([]func(json.RawMessage){}, c.handlers[event]...)
	c.handlersMu.RUnlock()

	for _, handler := range handlers {
		handler(payload)
	}
}

func connectErrorPayload(err error) json.RawMessage {
	raw, marshalErr := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: err.Error()})
	if marshalErr != nil {
		return nil
	}
	return raw
}
