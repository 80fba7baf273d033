package mqttbridge

import (
	"encoding/json"
	"log"
	"path"

	"github.com/socialrobotics/webclient-core/core/transport"
)

// Sink receives interaction events lifted off the broker. The webserver
// component satisfies it.
type Sink interface {
	PushTranscript(text string)
	SetTurn(userTurn bool)
	ToggleTurn()
	PushWebInfo(label, message string)
	PushHTML(html string)
}

// Broker is the subset of the MQTT client the bridge needs.
type Broker interface {
	Publish(topic string, payload []byte) error
	Subscribe(topic string, handler func(topic string, payload []byte)) error
	Unsubscribe(topics ...string) error
}

// Bridge subscribes to interaction topics under a shared prefix and forwards
// them to the sink; button clicks travel the other way.
type Bridge struct {
	broker Broker
	sink   Sink
	prefix string
}

// DefaultTopicPrefix matches the event namespace used on the socket.
const DefaultTopicPrefix = "sic"

// NewBridge wires a broker to a sink. An empty prefix falls back to
// DefaultTopicPrefix.
func NewBridge(broker Broker, sink Sink, prefix string) *Bridge {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return &Bridge{broker: broker, sink: sink, prefix: prefix}
}

func (b *Bridge) topic(suffix string) string {
	return path.Join(b.prefix, suffix)
}

// Start subscribes to the transcript, turn, webinfo, and html topics.
func (b *Bridge) Start() error {
	subscriptions := map[string]func(payload []byte){
		b.topic("transcript"): b.handleTranscript,
		b.topic("turn"):       b.handleTurn,
		b.topic("webinfo"):    b.handleWebInfo,
		b.topic("html"):       b.handleHTML,
	}

	for topic, handle := range subscriptions {
		handle := handle
		if err := b.broker.Subscribe(topic, func(_ string, payload []byte) {
			handle(payload)
		}); err != nil {
			return err
		}
	}
	return nil
}

// Stop drops all bridge subscriptions.
func (b *Bridge) Stop() error {
	return b.broker.Unsubscribe(
		b.topic("transcript"),
		b.topic("turn"),
		b.topic("webinfo"),
		b.topic("html"),
	)
}

// PublishButtonClick reports a frontend button click to the broker. Wire it
// to the webserver's button-clicked callback.
func (b *Bridge) PublishButtonClick(button string) {
	payload, err := json.Marshal(transport.ButtonPayload{Button: button})
	if err != nil {
		log.Println("Failed to marshal button click", err)
		return
	}
	if err := b.broker.Publish(b.topic("button_clicked"), payload); err != nil {
		log.Printf("Failed to publish button click %q: %v", button, err)
	}
}

func (b *Bridge) handleTranscript(payload []byte) {
	var p transport.TranscriptPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Println("Failed to unmarshal transcript message", err)
		return
	}
	b.sink.PushTranscript(p.Transcript)
}

func (b *Bridge) handleTurn(payload []byte) {
	var p transport.TurnPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Println("Failed to unmarshal turn message", err)
		return
	}
	if p.UserTurn == nil {
		b.sink.ToggleTurn()
		return
	}
	b.sink.SetTurn(*p.UserTurn)
}

func (b *Bridge) handleWebInfo(payload []byte) {
	var p transport.WebInfoPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Println("Failed to unmarshal webinfo message", err)
		return
	}
	b.sink.PushWebInfo(p.Label, p.Message)
}

func (b *Bridge) handleHTML(payload []byte) {
	var p transport.HTMLPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Println("Failed to unmarshal html message", err)
		return
	}
	b.sink.PushHTML(p.HTML)
}
