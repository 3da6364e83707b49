package redeem

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
	"github.com/coddink/interview-backend/internal/models"
	"github.com/coddink/interview-backend/internal/storage/repository"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) Redeem(ctx context.Context, userID int64, code string) (*models.User, error) {
	args := m.Called(ctx, userID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRedeemHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		authenticated  bool
		requestBody    any
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "valid redemption",
			authenticated:  true,
			requestBody:    models.RedeemCouponRequest{Code: "WELCOME30"},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "unauthenticated",
			authenticated:  false,
			requestBody:    models.RedeemCouponRequest{Code: "WELCOME30"},
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "unauthorized",
		},
		{
			name:           "unknown coupon",
			authenticated:  true,
			requestBody:    models.RedeemCouponRequest{Code: "NOPE"},
			mockErr:        repository.ErrCouponNotFound,
			wantStatusCode: http.StatusNotFound,
			wantStatus:     "Error",
			wantError:      "coupon not found or inactive",
		},
		{
			name:           "expired coupon",
			authenticated:  true,
			requestBody:    models.RedeemCouponRequest{Code: "OLD"},
			mockErr:        repository.ErrCouponExpired,
			wantStatusCode: http.StatusGone,
			wantStatus:     "Error",
			wantError:      "coupon has expired",
		},
		{
			name:           "already used",
			authenticated:  true,
			requestBody:    models.RedeemCouponRequest{Code: "WELCOME30"},
			mockErr:        repository.ErrCouponAlreadyUsed,
			wantStatusCode: http.StatusConflict,
			wantStatus:     "Error",
			wantError:      "coupon has already been used",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(serviceMock)
			handler := New(newNoopLogger(), svc)

			if tt.authenticated && (tt.wantStatusCode == http.StatusOK || tt.mockErr != nil) {
				var user *models.User
				if tt.mockErr == nil {
					user = &models.User{ID: 7}
				}
				svc.On("Redeem", mock.Anything, int64(7), mock.Anything).
					Return(user, tt.mockErr).Once()
			}

			bodyBytes, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatal(err)
			}

			req := httptest.NewRequest(http.MethodPost, "/coupons/redeem", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.authenticated {
				ctx = context.WithValue(ctx, middlewarectx.UserID, int64(7))
			}
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
