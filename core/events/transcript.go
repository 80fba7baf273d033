package events

// KindTranscriptReceived identifies transcript pushes from the backend.
const KindTranscriptReceived Kind = "transcript.received"

// TranscriptReceived carries the latest utterance transcription.
type TranscriptReceived struct {
	Base
	Transcript string
}

// NewTranscriptReceived creates a transcript received event.
func NewTranscriptReceived(transcript string) TranscriptReceived {
	return TranscriptReceived{Base: NewBase(KindTranscriptReceived), Transcript: transcript}
}
