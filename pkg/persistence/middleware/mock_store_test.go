package middleware_test

import (
	"context"

	"github.com/aretw0/checkout/pkg/domain"
)

// MockStore is a simple map-based store for testing middleware.
// It keeps pointers as given so tests can inspect exactly what was written.
type MockStore struct {
	data map[string]*domain.FormSession
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.FormSession),
	}
}

func (s *MockStore) Save(ctx context.Context, sessionID string, session *domain.FormSession) error {
	s.data[sessionID] = session
	return nil
}

func (s *MockStore) Load(ctx context.Context, sessionID string) (*domain.FormSession, error) {
	session, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(s.data, sessionID)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
