package portone

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPayment(t *testing.T) {
	tests := []struct {
		name       string
		paymentID  string
		statusCode int
		body       string
		wantErr    error
		wantStatus string
		wantTotal  float64
	}{
		{
			name:       "paid payment",
			paymentID:  "pay-1",
			statusCode: http.StatusOK,
			body:       `{"id":"pay-1","status":"PAID","amount":{"total":9900}}`,
			wantStatus: StatusPaid,
			wantTotal:  9900,
		},
		{
			name:       "virtual account issued",
			paymentID:  "pay-2",
			statusCode: http.StatusOK,
			body:       `{"id":"pay-2","status":"VIRTUAL_ACCOUNT_ISSUED","amount":{"total":9900}}`,
			wantStatus: StatusVirtualAccountIssued,
			wantTotal:  9900,
		},
		{
			name:       "unknown payment",
			paymentID:  "missing",
			statusCode: http.StatusNotFound,
			body:       `{"type":"PAYMENT_NOT_FOUND"}`,
			wantErr:    ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/payments/"+tt.paymentID, r.URL.Path)
				assert.Equal(t, "PortOne test-secret", r.Header.Get("Authorization"))
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "test-secret", 5*time.Second)
			payment, err := client.GetPayment(context.Background(), tt.paymentID)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, payment.Status)
			assert.Equal(t, tt.wantTotal, payment.Amount.Total)
		})
	}
}

func TestGetPaymentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-secret", 5*time.Second)
	payment, err := client.GetPayment(context.Background(), "pay-1")
	require.Error(t, err)
	assert.Nil(t, payment)
	assert.Contains(t, err.Error(), "unexpected status")
}
