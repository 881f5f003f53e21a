package ports

import (
	"context"

	"github.com/aretw0/checkout/pkg/domain"
)

// StateStore defines the interface for persisting a checkout between requests.
type StateStore interface {
	// Save persists the session under the given ID.
	Save(ctx context.Context, sessionID string, session *domain.FormSession) error

	// Load retrieves the session for a given ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.FormSession, error)

	// Delete removes the session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of stored sessions.
	List(ctx context.Context) ([]string, error)
}
