package ports

import (
	"context"

	"github.com/aretw0/checkout/pkg/domain"
)

// FlowController is the step machine behind the payment form.
// It holds no state of its own: every call takes a session and returns the
// next one, leaving the input untouched. Adapters (HTTP, MCP, terminal)
// keep sessions in a StateStore between calls.
type FlowController interface {
	// Start creates a clean session at the personal step.
	Start(ctx context.Context, sessionID string) (*domain.FormSession, error)

	// Advance validates the current step and moves forward.
	// On the card step it also submits. A blocked transition returns the
	// annotated session together with a *domain.ValidationError or
	// *domain.SubmissionError.
	Advance(ctx context.Context, session *domain.FormSession) (*domain.FormSession, error)

	// Retreat moves from the card step back to the personal step.
	Retreat(ctx context.Context, session *domain.FormSession) (*domain.FormSession, error)

	// Reset clears everything and returns to the personal step.
	Reset(ctx context.Context, session *domain.FormSession) (*domain.FormSession, error)

	// ChangeField applies an input event: the value is formatted and stored.
	ChangeField(ctx context.Context, session *domain.FormSession, field, value string) (*domain.FormSession, error)

	// ValidateField applies a blur event: the field is validated and marked.
	ValidateField(ctx context.Context, session *domain.FormSession, field string) (*domain.FormSession, error)

	// Render computes the presentation of a session without changing it.
	Render(ctx context.Context, session *domain.FormSession) (domain.View, error)
}
