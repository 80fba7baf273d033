package webserver

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/socialrobotics/webclient-core/core/transport"
)

var schemaOnce = sync.OnceValue(func() []byte {
	reflector := jsonschema.Reflector{DoNotReference: true}

	schemas := map[string]*jsonschema.Schema{
		transport.EventState:         reflector.Reflect(transport.StatePayload{}),
		transport.EventTranscript:    reflector.Reflect(transport.TranscriptPayload{}),
		transport.EventTurn:          reflector.Reflect(transport.TurnPayload{}),
		transport.EventWebInfo:       reflector.Reflect(transport.WebInfoPayload{}),
		transport.EventHTML:          reflector.Reflect(transport.HTMLPayload{}),
		transport.EventButtonClicked: reflector.Reflect(transport.ButtonPayload{}),
	}

	out, err := json.Marshal(schemas)
	if err != nil {
		logger.Error("Failed to marshal event schemas", "error", err)
		return []byte("{}")
	}
	return out
})

// eventSchemas returns the JSON schema of every wire payload, keyed by event
// name. The result is computed once and reused.
func eventSchemas() []byte {
	return schemaOnce()
}
