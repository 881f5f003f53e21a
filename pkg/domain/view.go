package domain

// StepIndicator is the progress marker of one step.
// Steps before the current one are completed, exactly the current one is active.
type StepIndicator struct {
	Step      Step   `json:"step"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	Completed bool   `json:"completed"`
}

// FieldView is an input as the host should display it.
type FieldView struct {
	Name   string  `json:"name"`
	Value  string  `json:"value"`
	Marker *Marker `json:"marker,omitempty"`
}

// View is the presentation of a session. Hosts render it and never
// reach into the session directly.
type View struct {
	SessionID   string          `json:"session_id"`
	CurrentStep Step            `json:"current_step"`
	Steps       []StepIndicator `json:"steps"`
	Personal    []FieldView     `json:"personal"`
	Payment     []FieldView     `json:"payment"`

	// CardNetwork is the display name detected from the number typed so far.
	CardNetwork string `json:"card_network,omitempty"`

	// CVVLength is the number of CVV digits the detected network requires.
	CVVLength int `json:"cvv_length"`

	PaymentError   string      `json:"payment_error,omitempty"`
	Summary        *Submission `json:"summary,omitempty"`
	Acknowledgment string      `json:"acknowledgment,omitempty"`
	Terminal       bool        `json:"terminal"`
}

// NewStepIndicators computes the progress markers for the current step.
func NewStepIndicators(current Step) []StepIndicator {
	out := make([]StepIndicator, 0, len(Steps))
	for _, s := range Steps {
		out = append(out, StepIndicator{
			Step:      s,
			Name:      s.Name(),
			Active:    s == current,
			Completed: s < current,
		})
	}
	return out
}
