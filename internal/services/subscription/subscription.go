// Package services implements the subscription ledger: premium window
// extension and revocation, the self-service subscription update and the
// admin override.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coddink/interview-backend/internal/lib/period"
	"github.com/coddink/interview-backend/internal/models"
)

// SubscriptionRepository is the ledger storage contract.
type SubscriptionRepository interface {
	ExtendPremium(ctx context.Context, id int64, now time.Time, p period.Period) (*models.User, error)
	RevokePremium(ctx context.Context, id int64) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Cache invalidates cached profiles after entitlement changes.
type Cache interface {
	Invalidate(ctx context.Context, key string) error
}

// SubscriptionService mutates the entitlement state of accounts.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
}

func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, cache: cache, log: log}
}

// ExtendPremium grants the given billing period on top of any remaining
// premium time and returns the updated account.
func (s *SubscriptionService) ExtendPremium(ctx context.Context, userID int64, rawPeriod string) (*models.User, error) {
	p, err := period.Parse(rawPeriod)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.ExtendPremium(ctx, userID, time.Now().UTC(), p)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	s.log.Info("premium extended",
		slog.Int64("user_id", userID), slog.String("period", rawPeriod))
	return user, nil
}

// RevokePremium downgrades the account to free and clears its window.
func (s *SubscriptionService) RevokePremium(ctx context.Context, userID int64) error {
	if err := s.repo.RevokePremium(ctx, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	s.log.Info("premium revoked", slog.Int64("user_id", userID))
	return nil
}

// SetSubscriptionType is the admin override: premium grants one monthly
// extension, free clears the window.
func (s *SubscriptionService) SetSubscriptionType(ctx context.Context, userID int64, subscriptionType models.SubscriptionType) (*models.User, error) {
	switch subscriptionType {
	case models.SubscriptionPremium:
		return s.ExtendPremium(ctx, userID, string(period.Monthly))
	default:
		if err := s.RevokePremium(ctx, userID); err != nil {
			return nil, err
		}
		return s.repo.GetUserByID(ctx, userID)
	}
}

func (s *SubscriptionService) invalidate(ctx context.Context, userID int64) {
	key := profileCacheKey(userID)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("profile cache invalidate failed", slog.String("key", key), slog.Any("err", err))
	}
}

func profileCacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}
