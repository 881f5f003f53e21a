package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"testing"

	"github.com/aretw0/checkout/pkg/adapters/memory"
	"github.com/aretw0/checkout/pkg/domain"
	"github.com/aretw0/checkout/pkg/persistence/middleware"
	"github.com/aretw0/checkout/pkg/ports"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func cardSession(id string) *domain.FormSession {
	s := domain.NewFormSession(id)
	s.CurrentStep = domain.StepCard
	s.Personal[domain.FieldEmail] = "eleanore@example.com"
	s.Payment[domain.FieldCardNumber] = "4111 1111 1111 1111"
	s.Payment[domain.FieldCVV] = "123"
	s.Card.Number = "4111111111111111"
	s.Card.CVV = "123"
	return s
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := NewMockStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	original := cardSession("enc-1")
	require.NoError(t, secureStore.Save(ctx, original.ID, original))

	stored, err := underlyingStore.Load(ctx, original.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Personal, "personal data must be hidden")
	assert.Empty(t, stored.Card.Number)
	assert.NotContains(t, stored.Payment, domain.FieldCardNumber)
	assert.Contains(t, stored.Payment, "__encrypted__")
	assert.Equal(t, domain.StepCard, stored.CurrentStep)

	loaded, err := secureStore.Load(ctx, original.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(original, loaded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("decrypted session mismatch (-want +got):\n%s", diff)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := NewMockStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)

	ctx := context.Background()
	session := cardSession("rotation-session")
	require.NoError(t, secureStoreOld.Save(ctx, session.ID, session))

	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, session.ID)
	require.NoError(t, err, "fallback key must decrypt")
	assert.Equal(t, "123", loaded.Card.CVV)

	require.NoError(t, secureStoreNew.Save(ctx, session.ID, loaded))

	_, err = secureStoreOld.Load(ctx, session.ID)
	assert.Error(t, err, "old key alone cannot read data written with the new key")
}

func TestEncryptionMiddleware_RejectsPlainSession(t *testing.T) {
	underlyingStore := NewMockStore()
	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)

	ctx := context.Background()
	require.NoError(t, underlyingStore.Save(ctx, "plain", domain.NewFormSession("plain")))

	_, err := secureStore.Load(ctx, "plain")
	assert.ErrorContains(t, err, "missing encrypted data envelope")
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunStateStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestParseKey(t *testing.T) {
	raw := generateKey(t)

	k, err := middleware.ParseKey(hex.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, k)

	k, err = middleware.ParseKey("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	assert.Len(t, k, 32)

	_, err = middleware.ParseKey("too-short")
	assert.Error(t, err)
}
