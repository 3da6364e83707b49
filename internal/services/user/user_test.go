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

	customjwt "github.com/coddink/interview-backend/internal/lib/jwt"
	"github.com/coddink/interview-backend/internal/lib/password"
	"github.com/coddink/interview-backend/internal/models"
	services "github.com/coddink/interview-backend/internal/services/user"
	"github.com/coddink/interview-backend/internal/storage/repository"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepoMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	args := m.Called(ctx, nickname)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *UserRepoMock) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *UserRepoMock) CountActiveUsers(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

func (m *UserRepoMock) UpdateLastActive(ctx context.Context, id int64, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}

func (m *UserRepoMock) RewardLoginPoints(ctx context.Context, id int64, now time.Time) (int, error) {
	args := m.Called(ctx, id, now)
	return args.Int(0), args.Error(1)
}

func (m *UserRepoMock) SpendPoints(ctx context.Context, id int64, pointsToDeduct int, answerSubmitted bool) error {
	args := m.Called(ctx, id, pointsToDeduct, answerSubmitted)
	return args.Error(0)
}

func (m *UserRepoMock) UpdateProfile(ctx context.Context, id int64, nickname, passwordHash *string) error {
	args := m.Called(ctx, id, nickname, passwordHash)
	return args.Error(0)
}

func (m *UserRepoMock) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *UserRepoMock) DeleteUser(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *UserRepoMock) ListUsedCouponCodes(ctx context.Context, userID int64) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type VerificationRepoMock struct {
	mock.Mock
}

func (m *VerificationRepoMock) ReplaceVerification(ctx context.Context, email, code string, expiresAt time.Time) error {
	args := m.Called(ctx, email, code, expiresAt)
	return args.Error(0)
}

func (m *VerificationRepoMock) GetVerificationByEmail(ctx context.Context, email string) (*models.Verification, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Verification), args.Error(1)
}

func (m *VerificationRepoMock) MarkVerified(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *VerificationRepoMock) IncrementVerificationAttempts(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *VerificationRepoMock) DeleteVerification(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *VerificationRepoMock) CreateResetToken(ctx context.Context, userID int64, code string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, code, expiresAt)
	return args.Error(0)
}

func (m *VerificationRepoMock) GetValidResetToken(ctx context.Context, code string, now time.Time) (*models.PasswordResetToken, error) {
	args := m.Called(ctx, code, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PasswordResetToken), args.Error(1)
}

func (m *VerificationRepoMock) DeleteResetToken(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MailerMock struct {
	mock.Mock
}

func (m *MailerMock) SendVerificationEmail(email, code string) {
	m.Called(email, code)
}

func (m *MailerMock) SendResetPasswordEmail(email, nickname, code string) {
	m.Called(email, nickname, code)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newService(users *UserRepoMock, verifications *VerificationRepoMock, mailer *MailerMock, cache *CacheMock) *services.UserService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	maker := customjwt.NewMaker("test-secret", time.Hour, 7*24*time.Hour)
	return services.NewUserService(users, verifications, mailer, cache, maker, log)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		req        models.CreateAccountRequest
		setupMocks func(u *UserRepoMock, v *VerificationRepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "successful registration grants premium trial",
			req:  models.CreateAccountRequest{Email: "new@example.com", Password: "password123", Nickname: "tester"},
			setupMocks: func(u *UserRepoMock, v *VerificationRepoMock, _ *CacheMock) {
				v.On("GetVerificationByEmail", mock.Anything, "new@example.com").
					Return(&models.Verification{ID: 1, Email: "new@example.com", Verified: true}, nil).Once()
				u.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "new@example.com" &&
						user.Nickname == "tester" &&
						user.PasswordHash != "" &&
						user.Role == models.RoleUser &&
						user.SubscriptionType == models.SubscriptionPremium &&
						user.PremiumEndDate != nil
				})).Return(int64(7), nil).Once()
				v.On("DeleteVerification", mock.Anything, int64(1)).Return(nil).Once()
				u.On("GetUserByID", mock.Anything, int64(7)).
					Return(&models.User{ID: 7, Email: "new@example.com", Role: models.RoleUser}, nil).Once()
			},
		},
		{
			name: "unverified email is rejected",
			req:  models.CreateAccountRequest{Email: "new@example.com", Password: "password123", Nickname: "tester"},
			setupMocks: func(_ *UserRepoMock, v *VerificationRepoMock, _ *CacheMock) {
				v.On("GetVerificationByEmail", mock.Anything, "new@example.com").
					Return(&models.Verification{ID: 1, Verified: false}, nil).Once()
			},
			wantErr: services.ErrEmailNotVerified,
		},
		{
			name: "missing verification is rejected",
			req:  models.CreateAccountRequest{Email: "new@example.com", Password: "password123", Nickname: "tester"},
			setupMocks: func(_ *UserRepoMock, v *VerificationRepoMock, _ *CacheMock) {
				v.On("GetVerificationByEmail", mock.Anything, "new@example.com").
					Return(nil, repository.ErrVerificationNotFound).Once()
			},
			wantErr: services.ErrEmailNotVerified,
		},
		{
			name:       "bad nickname is rejected before any lookup",
			req:        models.CreateAccountRequest{Email: "new@example.com", Password: "password123", Nickname: "!"},
			setupMocks: func(_ *UserRepoMock, _ *VerificationRepoMock, _ *CacheMock) {},
			wantErr:    services.ErrInvalidNickname,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			verifications := new(VerificationRepoMock)
			mailer := new(MailerMock)
			cache := new(CacheMock)
			tt.setupMocks(users, verifications, cache)

			svc := newService(users, verifications, mailer, cache)
			user, tokens, err := svc.Register(context.Background(), tt.req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				require.NotNil(t, tokens)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.NotEmpty(t, tokens.RefreshToken)
			}
			users.AssertExpectations(t)
			verifications.AssertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	hashed, err := password.GetHash("password123")
	require.NoError(t, err)

	tests := []struct {
		name       string
		req        models.LoginRequest
		setupMocks func(u *UserRepoMock, c *CacheMock)
		wantErr    error
		wantPoint  int
	}{
		{
			name: "successful login awards daily points",
			req:  models.LoginRequest{Email: "user@example.com", Password: "password123"},
			setupMocks: func(u *UserRepoMock, c *CacheMock) {
				u.On("GetUserByEmail", mock.Anything, "user@example.com").
					Return(&models.User{ID: 3, Email: "user@example.com", PasswordHash: hashed, Role: models.RoleUser, Point: 100}, nil).Once()
				u.On("RewardLoginPoints", mock.Anything, int64(3), mock.Anything).Return(110, nil).Once()
				u.On("UpdateLastActive", mock.Anything, int64(3), mock.Anything).Return(nil).Once()
				c.On("Invalidate", mock.Anything, "user:3").Return(nil).Once()
			},
			wantPoint: 110,
		},
		{
			name: "wrong password",
			req:  models.LoginRequest{Email: "user@example.com", Password: "wrong"},
			setupMocks: func(u *UserRepoMock, _ *CacheMock) {
				u.On("GetUserByEmail", mock.Anything, "user@example.com").
					Return(&models.User{ID: 3, PasswordHash: hashed}, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name: "unknown email maps to invalid credentials",
			req:  models.LoginRequest{Email: "ghost@example.com", Password: "password123"},
			setupMocks: func(u *UserRepoMock, _ *CacheMock) {
				u.On("GetUserByEmail", mock.Anything, "ghost@example.com").
					Return(nil, repository.ErrUserNotFound).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			verifications := new(VerificationRepoMock)
			mailer := new(MailerMock)
			cache := new(CacheMock)
			tt.setupMocks(users, cache)

			svc := newService(users, verifications, mailer, cache)
			user, tokens, err := svc.Login(context.Background(), tt.req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.NotNil(t, tokens)
				assert.Equal(t, tt.wantPoint, user.Point)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestRefresh(t *testing.T) {
	maker := customjwt.NewMaker("test-secret", time.Hour, 7*24*time.Hour)
	refresh, err := maker.GenerateRefreshToken(5, "user", true)
	require.NoError(t, err)

	users := new(UserRepoMock)
	users.On("GetUserByID", mock.Anything, int64(5)).
		Return(&models.User{ID: 5, Role: models.RoleUser, Point: 50}, nil).Once()
	users.On("RewardLoginPoints", mock.Anything, int64(5), mock.Anything).Return(50, nil).Once()
	users.On("UpdateLastActive", mock.Anything, int64(5), mock.Anything).Return(nil).Once()
	cache := new(CacheMock)
	cache.On("Invalidate", mock.Anything, "user:5").Return(nil).Once()

	svc := newService(users, new(VerificationRepoMock), new(MailerMock), cache)
	user, tokens, err := svc.Refresh(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	users.AssertExpectations(t)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc := newService(new(UserRepoMock), new(VerificationRepoMock), new(MailerMock), new(CacheMock))
	_, _, err := svc.Refresh(context.Background(), "not-a-token")
	require.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	maker := customjwt.NewMaker("test-secret", time.Hour, 7*24*time.Hour)
	access, err := maker.GenerateAccessToken(5, "user")
	require.NoError(t, err)

	users := new(UserRepoMock)
	svc := newService(users, new(VerificationRepoMock), new(MailerMock), new(CacheMock))
	_, _, err = svc.Refresh(context.Background(), access)
	require.ErrorIs(t, err, services.ErrInvalidCredentials)
	users.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
}

func TestCheckNickname(t *testing.T) {
	tests := []struct {
		name          string
		nickname      string
		exists        bool
		wantAvailable bool
		wantErr       error
	}{
		{name: "available latin nickname", nickname: "tester", wantAvailable: true},
		{name: "available korean nickname", nickname: "면접왕", wantAvailable: true},
		{name: "taken nickname", nickname: "tester", exists: true, wantAvailable: false},
		{name: "too short", nickname: "a", wantErr: services.ErrInvalidNickname},
		{name: "illegal characters", nickname: "bad name!", wantErr: services.ErrInvalidNickname},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			if tt.wantErr == nil {
				users.On("NicknameExists", mock.Anything, tt.nickname).Return(tt.exists, nil).Once()
			}

			svc := newService(users, new(VerificationRepoMock), new(MailerMock), new(CacheMock))
			available, err := svc.CheckNickname(context.Background(), tt.nickname)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, available)
			users.AssertExpectations(t)
		})
	}
}

func TestProfileUsesCache(t *testing.T) {
	users := new(UserRepoMock)
	cache := new(CacheMock)
	cache.On("Get", mock.Anything, "user:9", mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(2).(*models.User)
			*out = models.User{ID: 9, Nickname: "cached"}
		}).Return(true, nil).Once()

	svc := newService(users, new(VerificationRepoMock), new(MailerMock), cache)
	user, err := svc.Profile(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "cached", user.Nickname)
	users.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
}

func TestProfileCacheMissFallsThrough(t *testing.T) {
	users := new(UserRepoMock)
	users.On("GetUserByID", mock.Anything, int64(9)).
		Return(&models.User{ID: 9, Nickname: "fresh"}, nil).Once()
	users.On("ListUsedCouponCodes", mock.Anything, int64(9)).
		Return([]string{"WELCOME"}, nil).Once()
	cache := new(CacheMock)
	cache.On("Get", mock.Anything, "user:9", mock.Anything).Return(false, nil).Once()
	cache.On("Set", mock.Anything, "user:9", mock.Anything, mock.Anything).Return(nil).Once()

	svc := newService(users, new(VerificationRepoMock), new(MailerMock), cache)
	user, err := svc.Profile(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "fresh", user.Nickname)
	assert.Equal(t, []string{"WELCOME"}, user.UsedCoupons)
	users.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestVerifyEmail(t *testing.T) {
	future := time.Now().UTC().Add(10 * time.Minute)
	past := time.Now().UTC().Add(-time.Minute)

	tests := []struct {
		name       string
		code       string
		setupMocks func(v *VerificationRepoMock)
		wantErr    error
	}{
		{
			name: "correct code marks verified",
			code: "123456",
			setupMocks: func(v *VerificationRepoMock) {
				v.On("GetVerificationByEmail", mock.Anything, "a@b.c").
					Return(&models.Verification{ID: 1, Code: "123456", ExpiresAt: future}, nil).Once()
				v.On("MarkVerified", mock.Anything, int64(1)).Return(nil).Once()
			},
		},
		{
			name: "expired code is deleted",
			code: "123456",
			setupMocks: func(v *VerificationRepoMock) {
				v.On("GetVerificationByEmail", mock.Anything, "a@b.c").
					Return(&models.Verification{ID: 1, Code: "123456", ExpiresAt: past}, nil).Once()
				v.On("DeleteVerification", mock.Anything, int64(1)).Return(nil).Once()
			},
			wantErr: services.ErrVerificationExpired,
		},
		{
			name: "wrong code increments attempts",
			code: "000000",
			setupMocks: func(v *VerificationRepoMock) {
				v.On("GetVerificationByEmail", mock.Anything, "a@b.c").
					Return(&models.Verification{ID: 1, Code: "123456", ExpiresAt: future, Attempts: 0}, nil).Once()
				v.On("IncrementVerificationAttempts", mock.Anything, int64(1)).Return(1, nil).Once()
			},
			wantErr: services.ErrInvalidCode,
		},
		{
			name: "third failed attempt deletes the code",
			code: "000000",
			setupMocks: func(v *VerificationRepoMock) {
				v.On("GetVerificationByEmail", mock.Anything, "a@b.c").
					Return(&models.Verification{ID: 1, Code: "123456", ExpiresAt: future, Attempts: 2}, nil).Once()
				v.On("IncrementVerificationAttempts", mock.Anything, int64(1)).Return(3, nil).Once()
				v.On("DeleteVerification", mock.Anything, int64(1)).Return(nil).Once()
			},
			wantErr: services.ErrTooManyAttempts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifications := new(VerificationRepoMock)
			tt.setupMocks(verifications)

			svc := newService(new(UserRepoMock), verifications, new(MailerMock), new(CacheMock))
			err := svc.VerifyEmail(context.Background(), "a@b.c", tt.code)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			verifications.AssertExpectations(t)
		})
	}
}

func TestSendVerificationCode(t *testing.T) {
	verifications := new(VerificationRepoMock)
	mailer := new(MailerMock)

	var storedCode string
	verifications.On("ReplaceVerification", mock.Anything, "a@b.c", mock.MatchedBy(func(code string) bool {
		storedCode = code
		return len(code) == 6
	}), mock.Anything).Return(nil).Once()
	mailer.On("SendVerificationEmail", "a@b.c", mock.MatchedBy(func(code string) bool {
		return code == storedCode
	})).Once()

	svc := newService(new(UserRepoMock), verifications, mailer, new(CacheMock))
	require.NoError(t, svc.SendVerificationCode(context.Background(), "a@b.c"))
	verifications.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestForgotAndResetPassword(t *testing.T) {
	users := new(UserRepoMock)
	verifications := new(VerificationRepoMock)
	mailer := new(MailerMock)
	cache := new(CacheMock)

	users.On("GetUserByEmail", mock.Anything, "a@b.c").
		Return(&models.User{ID: 2, Email: "a@b.c", Nickname: "tester"}, nil).Once()
	var issuedCode string
	verifications.On("CreateResetToken", mock.Anything, int64(2), mock.MatchedBy(func(code string) bool {
		issuedCode = code
		return code != ""
	}), mock.Anything).Return(nil).Once()
	mailer.On("SendResetPasswordEmail", "a@b.c", "tester", mock.MatchedBy(func(code string) bool {
		return code == issuedCode
	})).Once()

	svc := newService(users, verifications, mailer, cache)
	require.NoError(t, svc.ForgotPassword(context.Background(), "a@b.c"))

	verifications.On("GetValidResetToken", mock.Anything, issuedCode, mock.Anything).
		Return(&models.PasswordResetToken{ID: 11, UserID: 2, Code: issuedCode}, nil).Once()
	users.On("UpdatePassword", mock.Anything, int64(2), mock.MatchedBy(func(hash string) bool {
		return password.CompareHash(hash, "newpassword1") == nil
	})).Return(nil).Once()
	verifications.On("DeleteResetToken", mock.Anything, int64(11)).Return(nil).Once()
	cache.On("Invalidate", mock.Anything, "user:2").Return(nil).Once()

	require.NoError(t, svc.ResetPassword(context.Background(), issuedCode, "newpassword1"))
	users.AssertExpectations(t)
	verifications.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestResetPasswordUnknownToken(t *testing.T) {
	verifications := new(VerificationRepoMock)
	verifications.On("GetValidResetToken", mock.Anything, "bad", mock.Anything).
		Return(nil, repository.ErrResetTokenNotFound).Once()

	svc := newService(new(UserRepoMock), verifications, new(MailerMock), new(CacheMock))
	err := svc.ResetPassword(context.Background(), "bad", "newpassword1")
	require.ErrorIs(t, err, repository.ErrResetTokenNotFound)
}

func TestSpendPoints(t *testing.T) {
	users := new(UserRepoMock)
	cache := new(CacheMock)
	users.On("SpendPoints", mock.Anything, int64(4), 10, true).Return(nil).Once()
	cache.On("Invalidate", mock.Anything, "user:4").Return(nil).Once()
	users.On("GetUserByID", mock.Anything, int64(4)).
		Return(&models.User{ID: 4, Point: 90, AnswerSubmittedCount: 1}, nil).Once()

	svc := newService(users, new(VerificationRepoMock), new(MailerMock), cache)
	user, err := svc.SpendPoints(context.Background(), 4, models.SpendPointsRequest{PointsToDeduct: 10, TaskType: "answerSubmitted"})
	require.NoError(t, err)
	assert.Equal(t, 90, user.Point)
	users.AssertExpectations(t)
}

func TestDeleteAccount(t *testing.T) {
	users := new(UserRepoMock)
	cache := new(CacheMock)
	users.On("DeleteUser", mock.Anything, int64(6)).Return(1, nil).Once()
	cache.On("Invalidate", mock.Anything, "user:6").Return(nil).Once()

	svc := newService(users, new(VerificationRepoMock), new(MailerMock), cache)
	require.NoError(t, svc.DeleteAccount(context.Background(), 6))

	users.On("DeleteUser", mock.Anything, int64(7)).Return(0, nil).Once()
	err := svc.DeleteAccount(context.Background(), 7)
	require.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestStats(t *testing.T) {
	users := new(UserRepoMock)
	users.On("CountUsers", mock.Anything).Return(42, nil).Once()
	users.On("CountActiveUsers", mock.Anything, mock.MatchedBy(func(since time.Time) bool {
		return time.Since(since) > 29*24*time.Hour
	})).Return(17, nil).Once()

	svc := newService(users, new(VerificationRepoMock), new(MailerMock), new(CacheMock))
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, stats.TotalUsers)
	assert.Equal(t, 17, stats.ActiveUsers)
}
