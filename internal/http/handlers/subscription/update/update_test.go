package update

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

	"github.com/coddink/interview-backend/internal/http/middlewarectx"
	"github.com/coddink/interview-backend/internal/lib/period"
	"github.com/coddink/interview-backend/internal/models"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) ExtendPremium(ctx context.Context, userID int64, rawPeriod string) (*models.User, error) {
	args := m.Called(ctx, userID, rawPeriod)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestUpdateHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "monthly extension",
			requestBody:    models.UpdateSubscriptionRequest{SubscriptionPeriod: "MONTHLY"},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "unknown period",
			requestBody:    models.UpdateSubscriptionRequest{SubscriptionPeriod: "WEEKLY"},
			mockErr:        period.ErrInvalidPeriod,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "unknown subscription period",
		},
		{
			name:           "missing period",
			requestBody:    models.UpdateSubscriptionRequest{},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field SubscriptionPeriod is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(serviceMock)
			handler := New(newNoopLogger(), svc)

			if tt.wantStatusCode == http.StatusOK || tt.mockErr != nil {
				var user *models.User
				if tt.mockErr == nil {
					user = &models.User{ID: 7, SubscriptionType: models.SubscriptionPremium}
				}
				svc.On("ExtendPremium", mock.Anything, int64(7), mock.Anything).
					Return(user, tt.mockErr).Once()
			}

			bodyBytes, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatal(err)
			}

			req := httptest.NewRequest(http.MethodPost, "/subscriptions", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			ctx = context.WithValue(ctx, middlewarectx.UserID, int64(7))
			req = req.WithContext(ctx)
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
