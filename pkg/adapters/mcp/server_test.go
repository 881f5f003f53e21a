package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/checkout"
	"github.com/aretw0/checkout/internal/logging"
	"github.com/aretw0/checkout/pkg/adapters/memory"
	"github.com/aretw0/checkout/pkg/domain"
	"github.com/aretw0/checkout/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSession = "mcp-1"

func fixedClock() time.Time {
	return time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)
}

func newTestServer(t *testing.T, sub *memory.Submitter) *Server {
	t.Helper()
	eng, err := checkout.New(checkout.WithSubmitter(sub), checkout.WithClock(fixedClock))
	require.NoError(t, err)
	mgr := session.NewManager(memory.NewStore(), eng,
		session.WithIDGenerator(func() string { return testSession }))
	return NewServer(mgr, eng, "0.0.1\n", WithClock(fixedClock), WithLogger(logging.NewNop()))
}

func call(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func setField(t *testing.T, s *Server, field, value string) CheckoutResponse {
	t.Helper()
	args := map[string]interface{}{"session_id": testSession, "field": field, "value": value}
	resp, err := s.handleSetField(context.Background(), call(args), args)
	require.NoError(t, err)
	return resp
}

func advance(t *testing.T, s *Server) CheckoutResponse {
	t.Helper()
	args := map[string]interface{}{"session_id": testSession}
	resp, err := s.transition(s.engine.Advance)(context.Background(), call(args), args)
	require.NoError(t, err)
	return resp
}

func TestTools_CheckoutFlow(t *testing.T) {
	sub := memory.NewSubmitter("received")
	s := newTestServer(t, sub)
	ctx := context.Background()

	resp, err := s.handleStart(ctx, call(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, testSession, resp.View.SessionID)

	resp = advance(t, s)
	assert.Equal(t, domain.ErrValidation.Error(), resp.Error)
	require.Len(t, resp.FieldErrors, 1)
	assert.Equal(t, domain.FieldFirstName, resp.FieldErrors[0].Field)

	for _, f := range domain.PersonalFields {
		v := "value"
		if f == domain.FieldEmail {
			v = "eleanore@example.com"
		}
		setField(t, s, f, v)
	}
	resp = advance(t, s)
	assert.Empty(t, resp.Error)
	assert.Equal(t, domain.StepCard, resp.View.CurrentStep)

	resp = setField(t, s, domain.FieldCardNumber, "5500000000000004")
	assert.Equal(t, "5500 0000 0000 0004", resp.View.Payment[0].Value)
	setField(t, s, domain.FieldCardHolder, "Eleanore Vance")
	setField(t, s, domain.FieldExpiry, "12/27")
	setField(t, s, domain.FieldCVV, "12\x1b3")

	resp = advance(t, s)
	assert.Empty(t, resp.Error)
	assert.Equal(t, domain.StepConfirmation, resp.View.CurrentStep)
	assert.Equal(t, "received", resp.View.Acknowledgment)

	records := sub.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Mastercard", records[0].CardType)
}

func TestTools_SubmissionFailureHidesCause(t *testing.T) {
	sub := memory.NewSubmitter("")
	sub.FailWith(errors.New("upstream 503"))
	s := newTestServer(t, sub)
	ctx := context.Background()

	_, err := s.handleStart(ctx, call(nil), nil)
	require.NoError(t, err)
	for _, f := range domain.PersonalFields {
		setField(t, s, f, "eleanore@example.com")
	}
	advance(t, s)
	setField(t, s, domain.FieldCardNumber, "4111111111111111")
	setField(t, s, domain.FieldCardHolder, "E V")
	setField(t, s, domain.FieldExpiry, "1227")
	setField(t, s, domain.FieldCVV, "123")

	resp := advance(t, s)
	assert.Equal(t, domain.ErrSubmission.Error(), resp.Error)
	assert.Equal(t, "Payment failed. Please try again.", resp.View.PaymentError)
	raw, _ := json.Marshal(resp)
	assert.NotContains(t, string(raw), "upstream 503")
}

func TestTools_MissingSession(t *testing.T) {
	s := newTestServer(t, memory.NewSubmitter("ok"))
	args := map[string]interface{}{"session_id": "nope"}

	_, err := s.handleGet(context.Background(), call(args), args)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestTools_SetFieldRejectsOversizedInput(t *testing.T) {
	s := newTestServer(t, memory.NewSubmitter("ok"))
	_, err := s.handleStart(context.Background(), call(nil), nil)
	require.NoError(t, err)

	big := make([]byte, 1024)
	for i := range big {
		big[i] = 'a'
	}
	args := map[string]interface{}{"session_id": testSession, "field": domain.FieldCity, "value": string(big)}
	_, err = s.handleSetField(context.Background(), call(args), args)
	assert.ErrorContains(t, err, "input rejected")
}

func TestTools_CheckCard(t *testing.T) {
	s := newTestServer(t, memory.NewSubmitter("ok"))
	ctx := context.Background()

	tests := []struct {
		name    string
		args    map[string]interface{}
		network string
		number  FieldStatus
		expiry  *FieldStatus
		cvv     *FieldStatus
	}{
		{
			name:    "valid amex",
			args:    map[string]interface{}{"number": "378282246310005", "expiry": "0524", "cvv": "1234"},
			network: "American Express",
			number:  FieldStatus{Valid: true},
			expiry:  &FieldStatus{Message: "Card has expired"},
			cvv:     &FieldStatus{Valid: true},
		},
		{
			name:    "luhn failure",
			args:    map[string]interface{}{"number": "4111 1111 1111 1112"},
			network: "Visa",
			number:  FieldStatus{Message: "Invalid card number"},
		},
		{
			name:   "too short",
			args:   map[string]interface{}{"number": "4111", "cvv": "1234"},
			number: FieldStatus{Message: "Card number is too short"},
			cvv:    &FieldStatus{Message: "Must be 3 digits"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.handleCheckCard(ctx, call(tt.args), tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.network, got.Network)
			assert.Equal(t, tt.number, got.Number)
			assert.Equal(t, tt.expiry, got.Expiry)
			assert.Equal(t, tt.cvv, got.CVV)
		})
	}
}

func TestServer_ListsTools(t *testing.T) {
	s := newTestServer(t, memory.NewSubmitter("ok"))
	ctx := context.Background()

	s.MCPServer().HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":0,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`))
	resp := s.MCPServer().HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{"start_checkout", "set_field", "validate_field", "advance", "retreat", "reset", "get_checkout", "check_card"} {
		assert.Contains(t, string(raw), `"`+name+`"`)
	}
}
