package domain

// FormSession represents the snapshot of one in-progress checkout.
type FormSession struct {
	// ID identifies the session in stores and streams.
	ID string `json:"id"`

	// CurrentStep is the visible step. It only moves forward through
	// validated transitions, backward through Retreat, or to the start on Reset.
	CurrentStep Step `json:"current_step"`

	// Personal holds the personal form inputs keyed by field name.
	Personal map[string]string `json:"personal"`

	// Payment holds the card form inputs as displayed (formatted).
	Payment map[string]string `json:"payment"`

	// Card holds the derived card data. See CardDetails.
	Card CardDetails `json:"card"`

	// Markers holds the validity marker of each annotated input.
	Markers map[string]Marker `json:"markers,omitempty"`

	// PaymentError is the message shown above the card form.
	PaymentError string `json:"payment_error,omitempty"`

	// Acknowledgment is the body returned by the submission endpoint.
	Acknowledgment string `json:"acknowledgment,omitempty"`

	// History tracks the steps entered, starting with the initial one.
	History []Step `json:"history"`
}

// NewFormSession creates a clean session positioned at the personal step.
func NewFormSession(id string) *FormSession {
	return &FormSession{
		ID:          id,
		CurrentStep: StepPersonal,
		Personal:    make(map[string]string),
		Payment:     make(map[string]string),
		Markers:     make(map[string]Marker),
		History:     []Step{StepPersonal},
	}
}

// Value returns the raw input of a field from whichever form owns it.
func (s *FormSession) Value(field string) string {
	if IsPersonalField(field) {
		return s.Personal[field]
	}
	return s.Payment[field]
}

// Snapshot returns a deep copy that can be mutated independently.
func (s *FormSession) Snapshot() *FormSession {
	if s == nil {
		return nil
	}
	next := *s
	next.Personal = copyStrings(s.Personal)
	next.Payment = copyStrings(s.Payment)
	next.Markers = make(map[string]Marker, len(s.Markers))
	for k, v := range s.Markers {
		next.Markers[k] = v
	}
	next.History = append([]Step(nil), s.History...)
	return &next
}

func copyStrings(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
