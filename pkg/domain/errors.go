package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownField is returned when an input name belongs to neither form.
var ErrUnknownField = errors.New("unknown field")

// ErrValidation marks a transition blocked by invalid input.
var ErrValidation = errors.New("validation failed")

// ErrSubmission marks a failed hand-off to the submission endpoint.
var ErrSubmission = errors.New("submission failed")

// FieldError is a single field annotation produced by validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports the fields that blocked a step transition.
// The session returned alongside it carries the same annotations as markers.
type ValidationError struct {
	Step   Step
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("step %s: %s", e.Step, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// SubmissionError wraps the collaborator failure behind a submission attempt.
type SubmissionError struct {
	SessionID string
	Cause     error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("session %s: %v: %v", e.SessionID, ErrSubmission, e.Cause)
}

func (e *SubmissionError) Is(target error) bool {
	return target == ErrSubmission
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}
