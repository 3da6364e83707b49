package api

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/coddink/interview-backend/internal/config"
	"github.com/coddink/interview-backend/internal/models"
)

type seedStoreMock struct {
	mock.Mock
}

func (m *seedStoreMock) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *seedStoreMock) CreateUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeedAdminCreatesFreeAdmin(t *testing.T) {
	store := new(seedStoreMock)
	store.On("EmailExists", mock.Anything, "admin@coddink.com").Return(false, nil).Once()
	store.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "admin@coddink.com" &&
			u.Role == models.RoleAdmin &&
			u.SubscriptionType == models.SubscriptionFree &&
			u.PremiumEndDate == nil
	})).Return(int64(1), nil).Once()

	cfg := config.Admin{AdminEmail: "admin@coddink.com", AdminPassword: "s3cret"}
	err := seedAdmin(context.Background(), store, cfg, newNoopLogger())
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSeedAdminSkipsWithoutPassword(t *testing.T) {
	store := new(seedStoreMock)

	err := seedAdmin(context.Background(), store, config.Admin{AdminEmail: "admin@coddink.com"}, newNoopLogger())
	require.NoError(t, err)
	store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestSeedAdminLeavesExistingAccount(t *testing.T) {
	store := new(seedStoreMock)
	store.On("EmailExists", mock.Anything, "admin@coddink.com").Return(true, nil).Once()

	cfg := config.Admin{AdminEmail: "admin@coddink.com", AdminPassword: "s3cret"}
	err := seedAdmin(context.Background(), store, cfg, newNoopLogger())
	require.NoError(t, err)
	store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}
