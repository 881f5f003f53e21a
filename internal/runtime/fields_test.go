package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/checkout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_ChangeFieldFormats(t *testing.T) {
	ctx := context.Background()
	e := newEngine(&fakeSubmitter{})
	s, _ := e.Start(ctx, "f1")

	cases := []struct {
		field, in, want string
	}{
		{domain.FieldCardNumber, "4111111111111111", "4111 1111 1111 1111"},
		{domain.FieldCardNumber, "4111-1111 1111", "4111 1111 1111"},
		{domain.FieldExpiry, "12", "12"},
		{domain.FieldExpiry, "1225", "12/25"},
		{domain.FieldExpiry, "12/2599", "12/25"},
		{domain.FieldCVV, "1a2b3", "123"},
		{domain.FieldCardHolder, "Eleanore Janz", "Eleanore Janz"},
		{domain.FieldCity, "  Calgary ", "  Calgary "},
	}
	for _, tc := range cases {
		next, err := e.ChangeField(ctx, s, tc.field, tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, next.Value(tc.field), "%s <- %q", tc.field, tc.in)
	}
}

func TestEngine_ChangeFieldUnknown(t *testing.T) {
	e := newEngine(&fakeSubmitter{})
	s, _ := e.Start(context.Background(), "f2")

	_, err := e.ChangeField(context.Background(), s, "ssn", "1")
	assert.ErrorIs(t, err, domain.ErrUnknownField)

	_, err = e.ValidateField(context.Background(), s, "ssn")
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestEngine_ValidateField(t *testing.T) {
	ctx := context.Background()
	e := newEngine(&fakeSubmitter{})
	s := atCardStep(t, e)

	t.Run("valid number sets marker and card data", func(t *testing.T) {
		s := fill(t, e, s, map[string]string{domain.FieldCardNumber: "5500000000000004"})
		next, err := e.ValidateField(ctx, s, domain.FieldCardNumber)
		require.NoError(t, err)
		assert.Equal(t, domain.Marker{State: domain.MarkerValid}, next.Markers[domain.FieldCardNumber])
		assert.Equal(t, "5500000000000004", next.Card.Number)
		assert.Equal(t, "mastercard", next.Card.Network)
		assert.Equal(t, "Mastercard", next.Card.NetworkName)
	})

	t.Run("failure clears previously derived data", func(t *testing.T) {
		s := fill(t, e, s, map[string]string{domain.FieldCardNumber: "4111111111111111"})
		s, err := e.ValidateField(ctx, s, domain.FieldCardNumber)
		require.NoError(t, err)
		require.NotEmpty(t, s.Card.Number)

		s = fill(t, e, s, map[string]string{domain.FieldCardNumber: "0000000000000000"})
		next, err := e.ValidateField(ctx, s, domain.FieldCardNumber)
		require.NoError(t, err)
		assert.Equal(t, domain.Marker{State: domain.MarkerInvalid, Message: "Invalid card type"}, next.Markers[domain.FieldCardNumber])
		assert.Empty(t, next.Card.Number)
		assert.Empty(t, next.Card.NetworkName)
	})

	t.Run("expiry vectors", func(t *testing.T) {
		cases := map[string]string{
			"0524": "Card has expired",
			"1325": "Invalid month",
			"6":    "Use MM/YY format",
		}
		for in, msg := range cases {
			s := fill(t, e, s, map[string]string{domain.FieldExpiry: in})
			next, err := e.ValidateField(ctx, s, domain.FieldExpiry)
			require.NoError(t, err)
			assert.Equal(t, msg, next.Markers[domain.FieldExpiry].Message, in)
			assert.Zero(t, next.Card.ExpiryYear)
		}

		s := fill(t, e, s, map[string]string{domain.FieldExpiry: "0624"})
		next, err := e.ValidateField(ctx, s, domain.FieldExpiry)
		require.NoError(t, err)
		assert.Equal(t, domain.MarkerValid, next.Markers[domain.FieldExpiry].State)
		assert.Equal(t, 6, next.Card.ExpiryMonth)
		assert.Equal(t, 2024, next.Card.ExpiryYear)
	})

	t.Run("personal fields have no blur validation", func(t *testing.T) {
		next, err := e.ValidateField(ctx, s, domain.FieldEmail)
		require.NoError(t, err)
		assert.NotContains(t, next.Markers, domain.FieldEmail)
	})
}
