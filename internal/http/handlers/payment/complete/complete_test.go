package complete

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/coddink/interview-backend/internal/models"
	paymentservice "github.com/coddink/interview-backend/internal/services/payment"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) Complete(ctx context.Context, req models.CompletePaymentRequest) (*models.Payment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestCompleteHandler_ServeHTTP(t *testing.T) {
	validBody := models.CompletePaymentRequest{
		PaymentID:     "imp_123456",
		OrderID:       42,
		TransactionID: "txn_789",
	}

	tests := []struct {
		name           string
		requestBody    any
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "completed payment",
			requestBody:    validBody,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "amount mismatch",
			requestBody:    validBody,
			mockErr:        paymentservice.ErrAmountMismatch,
			wantStatusCode: http.StatusConflict,
			wantStatus:     "Error",
			wantError:      "payment amount does not match the order",
		},
		{
			name:           "virtual account issued",
			requestBody:    validBody,
			mockErr:        paymentservice.ErrVirtualAccountIssued,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "virtual account issued, wait for the deposit",
		},
		{
			name:           "not paid",
			requestBody:    validBody,
			mockErr:        paymentservice.ErrPaymentNotPaid,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "provider has not confirmed the payment",
		},
		{
			name:           "missing payment id",
			requestBody:    models.CompletePaymentRequest{OrderID: 42, TransactionID: "txn_789"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field PaymentID is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(serviceMock)
			handler := New(newNoopLogger(), svc)

			if tt.wantStatusCode == http.StatusOK || tt.mockErr != nil {
				var payment *models.Payment
				if tt.mockErr == nil {
					payment = &models.Payment{ID: 1, OrderID: 42, Status: models.PaymentCompleted}
				}
				svc.On("Complete", mock.Anything, mock.Anything).
					Return(payment, tt.mockErr).Once()
			}

			bodyBytes, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatal(err)
			}

			req := httptest.NewRequest(http.MethodPost, "/payments/complete", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			svc.AssertExpectations(t)
		})
	}
}
