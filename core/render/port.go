// Package render defines the narrow rendering port the turn-taking client
// drives, so the client state machine can be exercised with no real UI
// attached.
package render

// Port receives display updates from the client.
type Port interface {
	// SetTranscript replaces the displayed transcript text.
	SetTranscript(text string)
	// SetMicrophoneOpen switches the microphone affordance between its open
	// and closed representations.
	SetMicrophoneOpen(open bool)
	// Notice surfaces a non-blocking message to the user.
	Notice(text string)
	// Navigate moves the view to the named follow-up resource.
	Navigate(target string)
}

// Noop is a Port that discards every update.
type Noop struct{}

func (Noop) SetTranscript(string)   {}
func (Noop) SetMicrophoneOpen(bool) {}
func (Noop) Notice(string)          {}
func (Noop) Navigate(string)        {}
