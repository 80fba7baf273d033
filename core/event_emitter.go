package webclient

import events "github.com/socialrobotics/webclient-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts RunOptions) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.TranscriptReceived:
			if opts.onTranscript != nil {
				opts.onTranscript(typedEvent.Transcript)
			}
		case events.TurnAssigned:
			if opts.onTurnChanged != nil {
				opts.onTurnChanged(typedEvent.UserTurn)
			}
		case events.TurnToggled:
			if opts.onTurnToggled != nil {
				opts.onTurnToggled()
			}
		case events.ButtonActivated:
			if opts.onButtonActivated != nil {
				opts.onButtonActivated(typedEvent.ButtonID)
			}
		case events.CaptureStarted:
			if opts.onCaptureStarted != nil {
				opts.onCaptureStarted(typedEvent.ButtonID)
			}
		case events.OutOfTurnRejected:
			if opts.onOutOfTurnRejected != nil {
				opts.onOutOfTurnRejected(typedEvent.ButtonID)
			}
		case events.StartRequested:
			if opts.onStartRequested != nil {
				opts.onStartRequested(typedEvent.Target)
			}
		case events.WebInfoReceived:
			if opts.onWebInfo != nil {
				opts.onWebInfo(typedEvent.Label, typedEvent.Message)
			}
		case events.HTMLReceived:
			if opts.onHTML != nil {
				opts.onHTML(typedEvent.HTML)
			}
		case events.TransportConnected:
			if opts.onConnectionStateChanged != nil {
				opts.onConnectionStateChanged(true)
			}
		case events.TransportDisconnected:
			if opts.onConnectionStateChanged != nil {
				opts.onConnectionStateChanged(false)
			}
		case events.TransportConnectFailed:
			if opts.onConnectError != nil {
				opts.onConnectError(typedEvent.Err)
			}
		}
	}
}
