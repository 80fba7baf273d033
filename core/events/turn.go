package events

const (
	// KindTurnAssigned identifies resolved turn values.
	KindTurnAssigned Kind = "turn.assigned"
	// KindTurnToggled identifies parity flips of the turn value.
	KindTurnToggled Kind = "turn.toggled"
)

// TurnAssigned carries the resulting turn value after an applied update.
type TurnAssigned struct {
	Base
	UserTurn bool
}

// NewTurnAssigned creates a turn assigned event.
func NewTurnAssigned(userTurn bool) TurnAssigned {
	return TurnAssigned{Base: NewBase(KindTurnAssigned), UserTurn: userTurn}
}

// TurnToggled marks a flip of the current turn value.
type TurnToggled struct{ Base }

// NewTurnToggled creates a turn toggled event.
func NewTurnToggled() TurnToggled {
	return TurnToggled{Base: NewBase(KindTurnToggled)}
}
