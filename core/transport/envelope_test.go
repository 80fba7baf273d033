package transport

import (
	"encoding/json"
	"testing"
)

func TestNewEnvelopeWithoutPayloadOmitsPayloadField(t *testing.T) {
	env, err := NewEnvelope(EventDisconnect, nil)
	if err != nil {
		t.Fatalf("expected envelope creation to succeed, got %v", err)
	}

	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("expected envelope to marshal, got %v", err)
	}

	if string(raw) != `{"event":"disconnect"}` {
		t.Fatalf("expected payload field to be omitted, got %s", raw)
	}
}

func TestTurnPayloadDistinguishesAssignFromToggle(t *testing.T) {
	var toggle TurnPayload
	if err := json.Unmarshal([]byte(`{}`), &toggle); err != nil {
		t.Fatalf("expected empty turn payload to parse, got %v", err)
	}
	if toggle.UserTurn != nil {
		t.Fatalf("expected empty payload to mean toggle, got assignment to %v", *toggle.UserTurn)
	}

	var assign TurnPayload
	if err := json.Unmarshal([]byte(`{"user_turn":false}`), &assign); err != nil {
		t.Fatalf("expected explicit turn payload to parse, got %v", err)
	}
	if assign.UserTurn == nil || *assign.UserTurn {
		t.Fatalf("expected explicit payload to assign agent turn, got %+v", assign.UserTurn)
	}
}

func TestEnvelopeRoundTripKeepsEventName(t *testing.T) {
	env, err := NewEnvelope(EventButtonClicked, ButtonPayload{Button: "mic"})
	if err != nil {
		t.Fatalf("expected envelope creation to succeed, got %v", err)
	}

	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("expected envelope to marshal, got %v", err)
	}

	var parsed Envelope
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("expected envelope to parse, got %v", err)
	}
	if parsed.Event != EventButtonClicked {
		t.Fatalf("expected event %q, got %q", EventButtonClicked, parsed.Event)
	}

	var payload ButtonPayload
	if err := json.Unmarshal(parsed.Payload, &payload); err != nil {
		t.Fatalf("expected button payload to parse, got %v", err)
	}
	if payload.Button != "mic" {
		t.Fatalf("expected button %q, got %q", "mic", payload.Button)
	}
}
