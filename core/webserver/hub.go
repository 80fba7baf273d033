package webserver

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/socialrobotics/webclient-core/core/transport"
)

// session is one connected frontend. Writes are serialized per connection.
type session struct {
	id     string
	conn   *websocket.Conn
	sendMu sync.Mutex
}

func (s *session) send(env transport.Envelope) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	return s.conn.WriteJSON(env)
}

type hub struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newHub() *hub {
	return &hub{sessions: map[string]*session{}}
}

func (h *hub) register(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.id] = s
}

func (h *hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// broadcast sends the envelope to every connected session. Sessions whose
// write fails are dropped; their read loop observes the closed connection.
func (h *hub) broadcast(env transport.Envelope) {
	h.mu.RLock()
	sessions := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		if err := s.send(env); err != nil {
			logger.Warn("Dropping session after failed broadcast", "session", s.id, "error", err)
			s.conn.Close()
			h.unregister(s.id)
		}
	}
}
