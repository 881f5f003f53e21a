package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter    EventType = "step_enter"
	EventStepLeave    EventType = "step_leave"
	EventSubmit       EventType = "submit"
	EventSubmitReturn EventType = "submit_return"
	EventFieldInvalid EventType = "field_invalid"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// StepEvent represents entry to or exit from a step.
type StepEvent struct {
	EventBase
	Step Step `json:"step"`
}

// SubmitEvent represents a submission attempt and its outcome.
type SubmitEvent struct {
	EventBase
	CardType string        `json:"card_type,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	IsError  bool          `json:"is_error,omitempty"`
}

// FieldEvent represents a field that failed validation.
type FieldEvent struct {
	EventBase
	Field   string `json:"field"`
	Message string `json:"message"`
}

// LifecycleHooks defines callbacks for flow observability.
type LifecycleHooks struct {
	OnStepEnter    func(context.Context, *StepEvent)
	OnStepLeave    func(context.Context, *StepEvent)
	OnSubmit       func(context.Context, *SubmitEvent)
	OnSubmitReturn func(context.Context, *SubmitEvent)
	OnFieldInvalid func(context.Context, *FieldEvent)
}
