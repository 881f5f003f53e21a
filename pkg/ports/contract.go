package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/checkout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewFormSession(sessionID)
		session.CurrentStep = domain.StepCard
		session.History = append(session.History, domain.StepCard)
		session.Personal[domain.FieldFirstName] = "Eleanore"
		session.Payment[domain.FieldCardNumber] = "4111 1111 1111 1111"
		session.Markers[domain.FieldCardNumber] = domain.Marker{State: domain.MarkerValid}
		session.Card.Number = "4111111111111111"
		session.Card.ExpiryYear = 2030

		err := store.Save(ctx, sessionID, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, domain.StepCard, loaded.CurrentStep)
		assert.Equal(t, "Eleanore", loaded.Personal[domain.FieldFirstName])
		assert.Equal(t, "4111 1111 1111 1111", loaded.Payment[domain.FieldCardNumber])
		assert.Equal(t, domain.MarkerValid, loaded.Markers[domain.FieldCardNumber].State)
		assert.Equal(t, 2030, loaded.Card.ExpiryYear)
		assert.Equal(t, []domain.Step{domain.StepPersonal, domain.StepCard}, loaded.History)
	})

	t.Run("Load returns an independent copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewFormSession(sessionID)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Personal[domain.FieldCity] = "mutated"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, again.Personal[domain.FieldCity])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewFormSession(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewFormSession(id1))
		_ = store.Save(ctx, id2, domain.NewFormSession(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
