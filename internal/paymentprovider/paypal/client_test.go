package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, orderStatus string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/oauth2/token":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.NotEmpty(t, r.Header.Get("Authorization"))
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
			_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "test-token", TokenType: "Bearer", ExpiresIn: 3600})
		case r.URL.Path == "/v2/checkout/orders":
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			var body createOrderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "CAPTURE", body.Intent)
			require.Len(t, body.PurchaseUnits, 1)
			assert.Equal(t, "19.99", body.PurchaseUnits[0].Amount.Value)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(OrderResponse{ID: "ord-1", Status: "CREATED"})
		case r.URL.Path == "/v2/checkout/orders/ord-1/capture":
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(OrderResponse{ID: "ord-1", Status: orderStatus})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestCreateOrder(t *testing.T) {
	srv := newTestServer(t, StatusCompleted)
	defer srv.Close()

	client := NewClient(srv.URL, "id", "secret", 5*time.Second)
	order, err := client.CreateOrder(context.Background(), 19.99, "USD")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
	assert.Equal(t, "CREATED", order.Status)
}

func TestCaptureOrder(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{name: "completed capture", status: StatusCompleted},
		{name: "declined capture passes through", status: "DECLINED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status)
			defer srv.Close()

			client := NewClient(srv.URL, "id", "secret", 5*time.Second)
			order, err := client.CaptureOrder(context.Background(), "ord-1")
			require.NoError(t, err)
			assert.Equal(t, tt.status, order.Status)
		})
	}
}

func TestAccessTokenIsCached(t *testing.T) {
	var tokenCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			tokenCalls++
			_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "test-token", TokenType: "Bearer", ExpiresIn: 3600})
		default:
			_ = json.NewEncoder(w).Encode(OrderResponse{ID: "ord-1", Status: "CREATED"})
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "id", "secret", 5*time.Second)
	_, err := client.CreateOrder(context.Background(), 19.99, "USD")
	require.NoError(t, err)
	_, err = client.CaptureOrder(context.Background(), "ord-1")
	require.NoError(t, err)

	assert.Equal(t, 1, tokenCalls)
}

func TestAccessTokenRefetchedAfterExpiry(t *testing.T) {
	var tokenCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			tokenCalls++
			// Short lifetime, already inside the expiry margin.
			_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "test-token", TokenType: "Bearer", ExpiresIn: 1})
		default:
			_ = json.NewEncoder(w).Encode(OrderResponse{ID: "ord-1", Status: "CREATED"})
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "id", "secret", 5*time.Second)
	_, err := client.CreateOrder(context.Background(), 19.99, "USD")
	require.NoError(t, err)
	_, err = client.CreateOrder(context.Background(), 19.99, "USD")
	require.NoError(t, err)

	assert.Equal(t, 2, tokenCalls)
}

func TestCreateOrderTokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "id", "bad-secret", 5*time.Second)
	order, err := client.CreateOrder(context.Background(), 19.99, "USD")
	require.Error(t, err)
	assert.Nil(t, order)
}
