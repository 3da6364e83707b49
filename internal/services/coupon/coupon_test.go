package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/coddink/interview-backend/internal/models"
	services "github.com/coddink/interview-backend/internal/services/coupon"
	"github.com/coddink/interview-backend/internal/storage/repository"
)

type CouponRepoMock struct {
	mock.Mock
}

func (m *CouponRepoMock) CreateCoupon(ctx context.Context, code string, expirationDate *time.Time) (int64, error) {
	args := m.Called(ctx, code, expirationDate)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CouponRepoMock) GetCouponByID(ctx context.Context, id int64) (*models.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *CouponRepoMock) ListCoupons(ctx context.Context) ([]*models.Coupon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Coupon), args.Error(1)
}

func (m *CouponRepoMock) UpdateCoupon(ctx context.Context, id int64, req models.UpdateCouponRequest) (int, error) {
	args := m.Called(ctx, id, req)
	return args.Int(0), args.Error(1)
}

func (m *CouponRepoMock) DeleteCoupon(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *CouponRepoMock) RedeemCoupon(ctx context.Context, code string, userID int64, now time.Time) (*models.User, error) {
	args := m.Called(ctx, code, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newService(repo *CouponRepoMock, cache *CacheMock) *services.CouponService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewCouponService(repo, cache, log)
}

func TestRedeem(t *testing.T) {
	end := time.Now().UTC().AddDate(0, 0, 30)

	tests := []struct {
		name       string
		setupMocks func(r *CouponRepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "successful redemption",
			setupMocks: func(r *CouponRepoMock, c *CacheMock) {
				r.On("RedeemCoupon", mock.Anything, "WELCOME", int64(1), mock.Anything).
					Return(&models.User{ID: 1, SubscriptionType: models.SubscriptionPremium, PremiumEndDate: &end, UsedCoupons: []string{"WELCOME"}}, nil).Once()
				c.On("Invalidate", mock.Anything, "user:1").Return(nil).Once()
			},
		},
		{
			name: "inactive coupon",
			setupMocks: func(r *CouponRepoMock, _ *CacheMock) {
				r.On("RedeemCoupon", mock.Anything, "WELCOME", int64(1), mock.Anything).
					Return(nil, repository.ErrCouponNotFound).Once()
			},
			wantErr: repository.ErrCouponNotFound,
		},
		{
			name: "expired coupon",
			setupMocks: func(r *CouponRepoMock, _ *CacheMock) {
				r.On("RedeemCoupon", mock.Anything, "WELCOME", int64(1), mock.Anything).
					Return(nil, repository.ErrCouponExpired).Once()
			},
			wantErr: repository.ErrCouponExpired,
		},
		{
			name: "already used by this user",
			setupMocks: func(r *CouponRepoMock, _ *CacheMock) {
				r.On("RedeemCoupon", mock.Anything, "WELCOME", int64(1), mock.Anything).
					Return(nil, repository.ErrCouponAlreadyUsed).Once()
			},
			wantErr: repository.ErrCouponAlreadyUsed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(CouponRepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)

			svc := newService(repo, cache)
			user, err := svc.Redeem(context.Background(), 1, "WELCOME")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Contains(t, user.UsedCoupons, "WELCOME")
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestUpdateNotFound(t *testing.T) {
	repo := new(CouponRepoMock)
	repo.On("UpdateCoupon", mock.Anything, int64(9), mock.Anything).Return(0, nil).Once()

	svc := newService(repo, new(CacheMock))
	_, err := svc.Update(context.Background(), 9, models.UpdateCouponRequest{})
	require.ErrorIs(t, err, repository.ErrCouponNotFound)
}

func TestDelete(t *testing.T) {
	repo := new(CouponRepoMock)
	repo.On("DeleteCoupon", mock.Anything, int64(2)).Return(1, nil).Once()
	repo.On("DeleteCoupon", mock.Anything, int64(3)).Return(0, nil).Once()

	svc := newService(repo, new(CacheMock))
	require.NoError(t, svc.Delete(context.Background(), 2))
	require.ErrorIs(t, svc.Delete(context.Background(), 3), repository.ErrCouponNotFound)
	repo.AssertExpectations(t)
}

func TestCreate(t *testing.T) {
	repo := new(CouponRepoMock)
	repo.On("CreateCoupon", mock.Anything, "NEWYEAR", (*time.Time)(nil)).Return(int64(4), nil).Once()
	repo.On("GetCouponByID", mock.Anything, int64(4)).
		Return(&models.Coupon{ID: 4, Code: "NEWYEAR", IsActive: true}, nil).Once()

	svc := newService(repo, new(CacheMock))
	coupon, err := svc.Create(context.Background(), models.CreateCouponRequest{Code: "NEWYEAR"})
	require.NoError(t, err)
	assert.True(t, coupon.IsActive)
	repo.AssertExpectations(t)
}
