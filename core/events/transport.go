package events

const (
	// KindTransportConnected identifies session establishment.
	KindTransportConnected Kind = "transport.connected"
	// KindTransportConnectFailed identifies failed session establishment.
	KindTransportConnectFailed Kind = "transport.connect_failed"
	// KindTransportDisconnected identifies session end.
	KindTransportDisconnected Kind = "transport.disconnected"
)

// TransportConnected marks an established transport session.
type TransportConnected struct{ Base }

// NewTransportConnected creates a transport connected event.
func NewTransportConnected() TransportConnected {
	return TransportConnected{Base: NewBase(KindTransportConnected)}
}

// TransportConnectFailed carries the error of a failed session establishment.
type TransportConnectFailed struct {
	Base
	Err error
}

// NewTransportConnectFailed creates a transport connect failed event.
func NewTransportConnectFailed(err error) TransportConnectFailed {
	return TransportConnectFailed{Base: NewBase(KindTransportConnectFailed), Err: err}
}

// TransportDisconnected marks the end of a transport session.
type TransportDisconnected struct{ Base }

// NewTransportDisconnected creates a transport disconnected event.
func NewTransportDisconnected() TransportDisconnected {
	return TransportDisconnected{Base: NewBase(KindTransportDisconnected)}
}
