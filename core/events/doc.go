// Package events defines the typed event contract of the turn-taking client.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - ui.*
//   - transcript.*
//   - turn.*
//   - transport.*
//   - webinfo.*
//
// ui events
//
//   - ButtonActivated (ui.button_activated): a registered control was
//     activated and forwarded to the backend.
//   - StartRequested (ui.start_requested): the start control was activated;
//     carries the navigation target.
//   - CaptureStarted (ui.capture_started): the microphone control was
//     activated during the user's turn and capture began.
//   - OutOfTurnRejected (ui.out_of_turn_rejected): the microphone control was
//     activated outside the user's turn and the activation was rejected.
//
// transcript events
//
//   - TranscriptReceived (transcript.received): latest utterance
//     transcription pushed by the backend. Receipt closes the microphone
//     affordance.
//
// turn events
//
//   - TurnAssigned (turn.assigned): the resulting turn value after an
//     applied update. Emitted for explicit backend assignments and, after
//     the preceding TurnToggled, for resolved toggles.
//   - TurnToggled (turn.toggled): a parity flip of the turn value was
//     observed; the resolved value follows as TurnAssigned.
//
// transport events
//
//   - TransportConnected (transport.connected): session established.
//   - TransportConnectFailed (transport.connect_failed): session failed to
//     establish.
//   - TransportDisconnected (transport.disconnected): session ended.
//
// webinfo events
//
//   - WebInfoReceived (webinfo.received): labeled auxiliary data for the
//     frontend.
//   - HTMLReceived (webinfo.html_received): HTML fragment push.
package events
