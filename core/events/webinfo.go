package events

const (
	// KindWebInfoReceived identifies labeled auxiliary data pushes.
	KindWebInfoReceived Kind = "webinfo.received"
	// KindHTMLReceived identifies HTML fragment pushes.
	KindHTMLReceived Kind = "webinfo.html_received"
)

// WebInfoReceived carries a labeled piece of auxiliary frontend data.
type WebInfoReceived struct {
	Base
	Label   string
	Message string
}

// NewWebInfoReceived creates a webinfo received event.
func NewWebInfoReceived(label, message string) WebInfoReceived {
	return WebInfoReceived{Base: NewBase(KindWebInfoReceived), Label: label, Message: message}
}

// HTMLReceived carries a pushed HTML fragment.
type HTMLReceived struct {
	Base
	HTML string
}

// NewHTMLReceived creates an HTML received event.
func NewHTMLReceived(html string) HTMLReceived {
	return HTMLReceived{Base: NewBase(KindHTMLReceived), HTML: html}
}
