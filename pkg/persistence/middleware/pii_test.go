package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/checkout/pkg/domain"
	"github.com/aretw0/checkout/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIMiddleware_KeepsInProgressSessions(t *testing.T) {
	underlyingStore := NewMockStore()
	secureStore := middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns)(underlyingStore)

	ctx := context.Background()
	s := cardSession("pii-card")
	require.NoError(t, secureStore.Save(ctx, s.ID, s))

	stored, err := underlyingStore.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "4111 1111 1111 1111", stored.Payment[domain.FieldCardNumber])
	assert.Equal(t, "123", stored.Card.CVV)
}

func TestPIIMiddleware_MasksConfirmedSessions(t *testing.T) {
	underlyingStore := NewMockStore()
	secureStore := middleware.NewPIIMiddleware([]string{`^cardNumber$`, `^cvv$`, `^email$`})(underlyingStore)

	ctx := context.Background()
	s := cardSession("pii-done")
	s.CurrentStep = domain.StepConfirmation
	require.NoError(t, secureStore.Save(ctx, s.ID, s))

	// The caller's session is not modified.
	assert.Equal(t, "4111111111111111", s.Card.Number)
	assert.Equal(t, "123", s.Payment[domain.FieldCVV])

	stored, err := underlyingStore.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "************1111", stored.Payment[domain.FieldCardNumber])
	assert.Equal(t, "***", stored.Payment[domain.FieldCVV])
	assert.Equal(t, "***", stored.Personal[domain.FieldEmail])
	assert.Equal(t, "************1111", stored.Card.Number)
	assert.Equal(t, "1111", stored.Card.LastFour())
	assert.Empty(t, stored.Card.CVV)
}

func TestChain_Order(t *testing.T) {
	underlyingStore := NewMockStore()
	store := middleware.Chain(underlyingStore,
		middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)

	ctx := context.Background()
	s := cardSession("chain")
	s.CurrentStep = domain.StepConfirmation
	require.NoError(t, store.Save(ctx, s.ID, s))

	raw, err := underlyingStore.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Contains(t, raw.Payment, "__encrypted__")

	loaded, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Card.CVV, "masked before encryption")
}
