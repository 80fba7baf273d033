package webclient

// TurnState names the party currently permitted to initiate a spoken
// interaction.
type TurnState int

const (
	// AgentTurn means the automated agent holds the turn.
	AgentTurn TurnState = iota
	// UserTurn means the human user holds the turn.
	UserTurn
)

func (s TurnState) String() string {
	if s == UserTurn {
		return "user"
	}
	return "agent"
}

// MicrophoneState is the two-valued display state of the microphone
// affordance. It is derived from the turn state and the capture flag, never
// independently authoritative.
type MicrophoneState int

const (
	// MicrophoneClosed shows the closed affordance.
	MicrophoneClosed MicrophoneState = iota
	// MicrophoneOpen shows the open affordance.
	MicrophoneOpen
)

func (s MicrophoneState) String() string {
	if s == MicrophoneOpen {
		return "open"
	}
	return "closed"
}

// TurnSemantics selects how the client hands the turn over after the user's
// utterance was captured.
type TurnSemantics int

const (
	// TurnSemanticsAssign keeps the turn until an authoritative assignment
	// arrives from the backend.
	TurnSemanticsAssign TurnSemantics = iota
	// TurnSemanticsToggle flips the turn locally as soon as a transcript is
	// received, without waiting for the backend.
	TurnSemanticsToggle
)

// TurnUpdate is a tagged turn mutation: either an explicit assignment or a
// parity flip of the current value. Both shapes observed on the wire resolve
// through the same reducer.
type TurnUpdate struct {
	toggle   bool
	userTurn bool
}

// AssignTurn builds an update that sets the turn explicitly.
func AssignTurn(userTurn bool) TurnUpdate {
	return TurnUpdate{userTurn: userTurn}
}

// ToggleTurn builds an update that flips the current turn value.
func ToggleTurn() TurnUpdate {
	return TurnUpdate{toggle: true}
}

// IsToggle reports whether the update flips the current value instead of
// assigning one.
func (u TurnUpdate) IsToggle() bool {
	return u.toggle
}

func reduceTurn(state TurnState, update TurnUpdate) TurnState {
	if update.toggle {
		if state == UserTurn {
			return AgentTurn
		}
		return UserTurn
	}

	if update.userTurn {
		return UserTurn
	}
	return AgentTurn
}
