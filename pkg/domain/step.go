package domain

import "fmt"

// Step is a position in the linear checkout sequence.
type Step int

const (
	StepPersonal     Step = 1 // Personal information form
	StepCard         Step = 2 // Card information form
	StepConfirmation Step = 3 // Terminal confirmation screen
)

// Steps lists every step in display order.
var Steps = []Step{StepPersonal, StepCard, StepConfirmation}

// Valid reports whether s is one of the three known steps.
func (s Step) Valid() bool {
	return s >= StepPersonal && s <= StepConfirmation
}

// Terminal reports whether no forward or backward transition leaves s.
func (s Step) Terminal() bool {
	return s == StepConfirmation
}

// Name returns the label shown on the progress indicator.
func (s Step) Name() string {
	switch s {
	case StepPersonal:
		return "Personal Info"
	case StepCard:
		return "Card Info"
	case StepConfirmation:
		return "Confirmation"
	default:
		return fmt.Sprintf("Step %d", int(s))
	}
}

func (s Step) String() string {
	switch s {
	case StepPersonal:
		return "personal"
	case StepCard:
		return "card"
	case StepConfirmation:
		return "confirmation"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}
