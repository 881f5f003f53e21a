package formpost_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/aretw0/checkout/pkg/adapters/formpost"
	"github.com/aretw0/checkout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record() domain.Submission {
	return domain.Submission{
		FirstName:   "Eleanore",
		LastName:    "Janz",
		Email:       "eleanore@example.com",
		Phone:       "403-555-0100",
		Address:     "1 Main St",
		City:        "Calgary",
		Province:    "AB",
		Postal:      "T2P 1J9",
		Country:     "Canada",
		CardType:    "Visa",
		LastFour:    "1111",
		ExpiryMonth: 12,
		ExpiryYear:  2027,
	}
}

func TestClient_SubmitSuccess(t *testing.T) {
	var got url.Values
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		got = r.PostForm
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("Success"))
	}))
	defer srv.Close()

	c, err := formpost.New(srv.URL)
	require.NoError(t, err)

	ack, err := c.Submit(context.Background(), record())
	require.NoError(t, err)
	assert.Equal(t, "Success", ack)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)

	assert.Len(t, got, len(domain.SubmissionKeys))
	for _, k := range domain.SubmissionKeys {
		assert.Contains(t, got, k)
	}
	assert.Equal(t, "1111", got.Get("lastFour"))
	assert.Equal(t, "12", got.Get("expiryMonth"))
	assert.Equal(t, "2027", got.Get("expiryYear"))
	assert.NotContains(t, got, "cardNumber")
	assert.NotContains(t, got, "cvv")
}

func TestClient_SubmitNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := formpost.New(srv.URL)
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), record())
	var se *formpost.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
}

func TestClient_SubmitTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := formpost.New(srv.URL, formpost.WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), record())
	assert.Error(t, err)
}

func TestClient_NoEndpoint(t *testing.T) {
	c, err := formpost.New("")
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), record())
	assert.ErrorIs(t, err, formpost.ErrNoEndpoint)
}

func TestNew_RejectsBadScheme(t *testing.T) {
	_, err := formpost.New("ftp://example.com/x")
	assert.Error(t, err)
}
