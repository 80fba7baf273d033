package webclient

// Button is an interactive control registered with the client. ID is the
// stable element identifier forwarded to the backend; Name is the optional
// attribute used by the legacy flag-variant payload.
type Button struct {
	ID   string
	Name string
}

// buttonRegistry holds the controls known to a client. It is built once
// during construction and never mutated afterwards.
type buttonRegistry struct {
	buttons []Button
	byID    map[string]Button

	// Distinguished controls. Either may be absent on a given page.
	startID string
	micID   string
}

func newButtonRegistry() buttonRegistry {
	return buttonRegistry{byID: map[string]Button{}}
}

func (r *buttonRegistry) add(buttons ...Button) {
	for _, button := range buttons {
		if _, exists := r.byID[button.ID]; exists {
			continue
		}
		r.buttons = append(r.buttons, button)
		r.byID[button.ID] = button
	}
}

func (r *buttonRegistry) lookup(id string) (Button, bool) {
	button, ok := r.byID[id]
	return button, ok
}

// legacyPayload is the alternate payload shape used by simpler pages: the
// button's name attribute when present, its identifier otherwise.
func (b Button) legacyPayload() string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}
