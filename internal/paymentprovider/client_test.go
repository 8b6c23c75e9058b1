package paymentprovider

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/sessions", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Authorization"))

		var req CreateSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 300, req.AmountCents)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Session{
			ID:          "sess_123",
			URL:         "https://pay.example.com/sess_123",
			Status:      "open",
			AmountCents: req.AmountCents,
			Metadata:    req.Metadata,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test")
	session, err := client.CreateSession(CreateSessionRequest{
		AmountCents: 300,
		Currency:    "usd",
		Description: "Silver subscription",
		SuccessURL:  "https://radio.example.com/payment/success",
		CancelURL:   "https://radio.example.com/account",
		Metadata:    map[string]string{"tier": "Silver", "email": "dj@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "sess_123", session.ID)
	assert.Equal(t, "https://pay.example.com/sess_123", session.URL)
	assert.False(t, session.Paid())
	assert.Equal(t, "Silver", session.Metadata["tier"])
}

func TestRetrieveSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/checkout/sessions/sess_123", r.URL.Path)

		_ = json.NewEncoder(w).Encode(Session{
			ID:     "sess_123",
			Status: "paid",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test")
	session, err := client.RetrieveSession("sess_123")
	require.NoError(t, err)
	assert.True(t, session.Paid())
}

func TestRetrieveSessionUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test")
	session, err := client.RetrieveSession("missing")
	assert.Nil(t, session)
	assert.Error(t, err)
}
