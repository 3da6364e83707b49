// Package services implements coupon redemption and the admin coupon CRUD.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coddink/interview-backend/internal/metrics"
	"github.com/coddink/interview-backend/internal/models"
	"github.com/coddink/interview-backend/internal/storage/repository"
)

// CouponRepository is the coupon storage contract. RedeemCoupon runs the
// whole redemption sequence in one transaction so concurrent redemptions
// of the same code cannot both win.
type CouponRepository interface {
	CreateCoupon(ctx context.Context, code string, expirationDate *time.Time) (int64, error)
	GetCouponByID(ctx context.Context, id int64) (*models.Coupon, error)
	ListCoupons(ctx context.Context) ([]*models.Coupon, error)
	UpdateCoupon(ctx context.Context, id int64, req models.UpdateCouponRequest) (int, error)
	DeleteCoupon(ctx context.Context, id int64) (int, error)
	RedeemCoupon(ctx context.Context, code string, userID int64, now time.Time) (*models.User, error)
}

// Cache invalidates cached profiles after a redemption.
type Cache interface {
	Invalidate(ctx context.Context, key string) error
}

// CouponService wraps the coupon operations.
type CouponService struct {
	repo  CouponRepository
	cache Cache
	log   *slog.Logger
}

func NewCouponService(repo CouponRepository, cache Cache, log *slog.Logger) *CouponService {
	return &CouponService{repo: repo, cache: cache, log: log}
}

// Redeem consumes a coupon code for the user: the coupon deactivates for
// everyone and the user's premium window grows by one month.
func (s *CouponService) Redeem(ctx context.Context, userID int64, code string) (*models.User, error) {
	user, err := s.repo.RedeemCoupon(ctx, code, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	metrics.CouponsRedeemed.Inc()
	key := fmt.Sprintf("user:%d", userID)
	if cacheErr := s.cache.Invalidate(ctx, key); cacheErr != nil {
		s.log.Warn("profile cache invalidate failed", slog.String("key", key), slog.Any("err", cacheErr))
	}
	s.log.Info("coupon redeemed", slog.Int64("user_id", userID), slog.String("code", code))
	return user, nil
}

// Create registers a new coupon code.
func (s *CouponService) Create(ctx context.Context, req models.CreateCouponRequest) (*models.Coupon, error) {
	id, err := s.repo.CreateCoupon(ctx, req.Code, req.ExpirationDate)
	if err != nil {
		return nil, err
	}
	return s.repo.GetCouponByID(ctx, id)
}

// Get returns one coupon.
func (s *CouponService) Get(ctx context.Context, id int64) (*models.Coupon, error) {
	return s.repo.GetCouponByID(ctx, id)
}

// List returns all coupons, newest first.
func (s *CouponService) List(ctx context.Context) ([]*models.Coupon, error) {
	return s.repo.ListCoupons(ctx)
}

// Update applies a partial coupon edit.
func (s *CouponService) Update(ctx context.Context, id int64, req models.UpdateCouponRequest) (*models.Coupon, error) {
	count, err := s.repo.UpdateCoupon(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, repository.ErrCouponNotFound
	}
	return s.repo.GetCouponByID(ctx, id)
}

// Delete removes a coupon.
func (s *CouponService) Delete(ctx context.Context, id int64) error {
	count, err := s.repo.DeleteCoupon(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrCouponNotFound
	}
	return nil
}
