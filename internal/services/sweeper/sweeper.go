// Package services implements the premium expiry sweeper: a daily scan
// that downgrades accounts whose premium window has ended.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/coddink/interview-backend/internal/lib/sl"
	"github.com/coddink/interview-backend/internal/metrics"
	"github.com/coddink/interview-backend/internal/models"
)

// UserRepository is the account scan contract. RevokeExpiredPremium is a
// guarded update: it only downgrades a row that is still premium and still
// expired at execution time, so a concurrent extension wins.
type UserRepository interface {
	ListPremiumWithEndDate(ctx context.Context) ([]*models.User, error)
	RevokeExpiredPremium(ctx context.Context, id int64, now time.Time) (int, error)
}

type SweeperService struct {
	repo UserRepository
	log  *slog.Logger
}

func NewSweeperService(repo UserRepository, log *slog.Logger) *SweeperService {
	return &SweeperService{repo: repo, log: log}
}

// Run sweeps immediately, then once per interval until ctx is cancelled.
func (s *SweeperService) Run(ctx context.Context, interval time.Duration) {
	s.Sweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Sweep downgrades every premium account whose window has ended. Each
// account is downgraded independently so one failure does not stop the
// rest of the scan.
func (s *SweeperService) Sweep(ctx context.Context) {
	s.log.Info("starting premium expiry sweep")
	users, err := s.repo.ListPremiumWithEndDate(ctx)
	if err != nil {
		s.log.Error("failed to list premium accounts", sl.Err(err))
		return
	}

	now := time.Now().UTC()
	var revoked int
	for _, user := range users {
		if user.PremiumEndDate == nil || user.PremiumEndDate.After(now) {
			continue
		}
		count, err := s.repo.RevokeExpiredPremium(ctx, user.ID, now)
		if err != nil {
			s.log.Error("failed to revoke expired premium",
				slog.Int64("user_id", user.ID), sl.Err(err))
			continue
		}
		if count > 0 {
			revoked++
			metrics.PremiumRevoked.Inc()
			s.log.Info("premium expired", slog.Int64("user_id", user.ID))
		}
	}
	s.log.Info("premium expiry sweep finished",
		slog.Int("scanned", len(users)), slog.Int("revoked", revoked))
}
