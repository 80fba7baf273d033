package webserver

import (
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/socialrobotics/webclient-core/core/transport"
)

// Handler returns the full HTTP surface of the component: the websocket
// endpoint, liveness and readiness probes, and a small JSON API mirroring
// the socket events for tooling that cannot hold a connection.
func (c *Component) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", c.handleSocket)
	mux.HandleFunc("/healthz", c.handleHealthz)
	mux.HandleFunc("/readyz", c.handleReadyz)
	mux.HandleFunc("GET /api/webinfo/{label}", c.handleWebInfo)
	mux.HandleFunc("POST /api/buttonClick", c.handleButtonClick)
	mux.HandleFunc("GET /api/schema", c.handleSchema)

	return otelhttp.NewHandler(mux, "webserver")
}

func (c *Component) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (c *Component) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if !c.ready.Load() {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

func (c *Component) handleWebInfo(w http.ResponseWriter, r *http.Request) {
	label := r.PathValue("label")
	message, ok := c.WebInfo(label)
	if !ok {
		http.Error(w, "unknown label", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transport.WebInfoPayload{Label: label, Message: message})
}

func (c *Component) handleButtonClick(w http.ResponseWriter, r *http.Request) {
	var payload transport.ButtonPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if payload.Button == "" {
		http.Error(w, "missing button", http.StatusBadRequest)
		return
	}

	c.emitButtonClicked(payload.Button)
	w.WriteHeader(http.StatusAccepted)
}

func (c *Component) handleSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(eventSchemas())
}
