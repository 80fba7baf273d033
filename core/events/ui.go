package events

const (
	// KindButtonActivated identifies forwarded control activations.
	KindButtonActivated Kind = "ui.button_activated"
	// KindStartRequested identifies start control activations.
	KindStartRequested Kind = "ui.start_requested"
	// KindCaptureStarted identifies microphone capture begin.
	KindCaptureStarted Kind = "ui.capture_started"
	// KindOutOfTurnRejected identifies rejected out-of-turn microphone activations.
	KindOutOfTurnRejected Kind = "ui.out_of_turn_rejected"
)

// ButtonActivated carries the identifier of an activated control.
type ButtonActivated struct {
	Base
	ButtonID string
}

// NewButtonActivated creates a button activated event.
func NewButtonActivated(buttonID string) ButtonActivated {
	return ButtonActivated{Base: NewBase(KindButtonActivated), ButtonID: buttonID}
}

// StartRequested marks activation of the start control.
type StartRequested struct {
	Base
	Target string
}

// NewStartRequested creates a start requested event.
func NewStartRequested(target string) StartRequested {
	return StartRequested{Base: NewBase(KindStartRequested), Target: target}
}

// CaptureStarted marks the beginning of microphone capture.
type CaptureStarted struct {
	Base
	ButtonID string
}

// NewCaptureStarted creates a capture started event.
func NewCaptureStarted(buttonID string) CaptureStarted {
	return CaptureStarted{Base: NewBase(KindCaptureStarted), ButtonID: buttonID}
}

// OutOfTurnRejected marks a microphone activation rejected because it is not
// the user's turn.
type OutOfTurnRejected struct {
	Base
	ButtonID string
}

// NewOutOfTurnRejected creates an out-of-turn rejection event.
func NewOutOfTurnRejected(buttonID string) OutOfTurnRejected {
	return OutOfTurnRejected{Base: NewBase(KindOutOfTurnRejected), ButtonID: buttonID}
}
