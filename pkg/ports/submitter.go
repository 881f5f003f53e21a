package ports

import (
	"context"

	"github.com/aretw0/checkout/pkg/domain"
)

// Submitter hands a completed checkout to the external endpoint.
// Implementations make exactly one attempt per call.
type Submitter interface {
	// Submit returns the endpoint acknowledgment on success.
	Submit(ctx context.Context, record domain.Submission) (string, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, record domain.Submission) (string, error)

func (f SubmitterFunc) Submit(ctx context.Context, record domain.Submission) (string, error) {
	return f(ctx, record)
}
