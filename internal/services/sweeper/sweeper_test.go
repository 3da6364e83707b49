package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/coddink/interview-backend/internal/models"
	services "github.com/coddink/interview-backend/internal/services/sweeper"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListPremiumWithEndDate(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockRepository) RevokeExpiredPremium(ctx context.Context, id int64, now time.Time) (int, error) {
	args := m.Called(ctx, id, now)
	return args.Int(0), args.Error(1)
}

func newService(repo *MockRepository) *services.SweeperService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewSweeperService(repo, log)
}

func TestSweepRevokesOnlyExpired(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	repo := new(MockRepository)
	repo.On("ListPremiumWithEndDate", mock.Anything).Return([]*models.User{
		{ID: 1, SubscriptionType: models.SubscriptionPremium, PremiumEndDate: &past},
		{ID: 2, SubscriptionType: models.SubscriptionPremium, PremiumEndDate: &future},
	}, nil).Once()
	repo.On("RevokeExpiredPremium", mock.Anything, int64(1), mock.Anything).Return(1, nil).Once()

	newService(repo).Sweep(context.Background())

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "RevokeExpiredPremium", mock.Anything, int64(2), mock.Anything)
}

func TestSweepContinuesAfterPerUserFailure(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)

	repo := new(MockRepository)
	repo.On("ListPremiumWithEndDate", mock.Anything).Return([]*models.User{
		{ID: 1, PremiumEndDate: &past},
		{ID: 2, PremiumEndDate: &past},
	}, nil).Once()
	repo.On("RevokeExpiredPremium", mock.Anything, int64(1), mock.Anything).
		Return(0, errors.New("db down")).Once()
	repo.On("RevokeExpiredPremium", mock.Anything, int64(2), mock.Anything).Return(1, nil).Once()

	newService(repo).Sweep(context.Background())

	repo.AssertExpectations(t)
}

func TestSweepListFailureAborts(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListPremiumWithEndDate", mock.Anything).
		Return(nil, errors.New("db down")).Once()

	newService(repo).Sweep(context.Background())

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "RevokeExpiredPremium", mock.Anything, mock.Anything, mock.Anything)
}
