// Package services implements account business logic: registration behind
// email verification, login with the daily point bonus, token refresh,
// profile management and the password reset flow.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/coddink/interview-backend/internal/lib/jwt"
	"github.com/coddink/interview-backend/internal/lib/password"
	"github.com/coddink/interview-backend/internal/lib/sl"
	"github.com/coddink/interview-backend/internal/models"
	"github.com/coddink/interview-backend/internal/storage/repository"
)

// Service-level sentinel errors. Handlers translate them into HTTP
// responses.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailNotVerified    = errors.New("email is not verified")
	ErrVerificationExpired = errors.New("verification code has expired")
	ErrTooManyAttempts     = errors.New("too many failed verification attempts")
	ErrInvalidCode         = errors.New("invalid verification code")
	ErrInvalidNickname     = errors.New("invalid nickname")
)

const (
	trialDays         = 7
	verificationTTL   = 30 * time.Minute
	resetTokenTTL     = time.Hour
	maxVerifyAttempts = 3
	activeUserWindow  = 30 // days
	profileCacheTTL   = 5 * time.Minute
)

// Nicknames: latin letters, Korean syllables and digits, 2 to 64 runes.
var nicknameRe = regexp.MustCompile(`^[a-zA-Z가-힣0-9]{2,64}$`)

// UserRepository is the account storage contract the service consumes.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	NicknameExists(ctx context.Context, nickname string) (bool, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	CountUsers(ctx context.Context) (int, error)
	CountActiveUsers(ctx context.Context, since time.Time) (int, error)
	UpdateLastActive(ctx context.Context, id int64, now time.Time) error
	RewardLoginPoints(ctx context.Context, id int64, now time.Time) (int, error)
	SpendPoints(ctx context.Context, id int64, pointsToDeduct int, answerSubmitted bool) error
	UpdateProfile(ctx context.Context, id int64, nickname, passwordHash *string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	DeleteUser(ctx context.Context, id int64) (int, error)
	ListUsedCouponCodes(ctx context.Context, userID int64) ([]string, error)
}

// VerificationRepository stores verification codes and reset tokens.
type VerificationRepository interface {
	ReplaceVerification(ctx context.Context, email, code string, expiresAt time.Time) error
	GetVerificationByEmail(ctx context.Context, email string) (*models.Verification, error)
	MarkVerified(ctx context.Context, id int64) error
	IncrementVerificationAttempts(ctx context.Context, id int64) (int, error)
	DeleteVerification(ctx context.Context, id int64) error
	CreateResetToken(ctx context.Context, userID int64, code string, expiresAt time.Time) error
	GetValidResetToken(ctx context.Context, code string, now time.Time) (*models.PasswordResetToken, error)
	DeleteResetToken(ctx context.Context, id int64) error
}

// Mailer queues outgoing mail; it never fails the calling operation.
type Mailer interface {
	SendVerificationEmail(email, code string)
	SendResetPasswordEmail(email, nickname, code string)
}

// Cache caches profile reads.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// TokenPair is an access/refresh token pair issued at login, registration
// and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserService wires the account operations together.
type UserService struct {
	users         UserRepository
	verifications VerificationRepository
	mailer        Mailer
	cache         Cache
	jwtMaker      jwt.Maker
	log           *slog.Logger
}

func NewUserService(users UserRepository, verifications VerificationRepository, mailer Mailer, cache Cache, jwtMaker jwt.Maker, log *slog.Logger) *UserService {
	return &UserService{
		users:         users,
		verifications: verifications,
		mailer:        mailer,
		cache:         cache,
		jwtMaker:      jwtMaker,
		log:           log,
	}
}

func profileCacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// Register creates an account for a previously verified email. New
// accounts start with a premium trial window and are logged in right away.
func (s *UserService) Register(ctx context.Context, req models.CreateAccountRequest) (*models.User, *TokenPair, error) {
	if !nicknameRe.MatchString(req.Nickname) {
		return nil, nil, ErrInvalidNickname
	}

	verification, err := s.verifications.GetVerificationByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationNotFound) {
			return nil, nil, ErrEmailNotVerified
		}
		return nil, nil, err
	}
	if !verification.Verified {
		return nil, nil, ErrEmailNotVerified
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	trialEnd := now.AddDate(0, 0, trialDays)
	user := models.User{
		Email:            req.Email,
		Nickname:         req.Nickname,
		PasswordHash:     hashed,
		Role:             models.RoleUser,
		SubscriptionType: models.SubscriptionPremium,
		PremiumStartDate: &now,
		PremiumEndDate:   &trialEnd,
	}

	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.verifications.DeleteVerification(ctx, verification.ID); err != nil {
		s.log.Warn("failed to delete consumed verification", sl.Err(err))
	}

	created, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(created, false)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("account created", slog.Int64("user_id", id))
	return created, tokens, nil
}

// Login checks the credentials, applies the once-per-day point bonus and
// issues a token pair. RememberMe stretches the refresh token lifetime.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.User, *TokenPair, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.applyLoginSideEffects(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user, req.RememberMe)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh validates a refresh token and reissues the pair. Login side
// effects apply here too so long-lived sessions keep the account active.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	claims, err := s.jwtMaker.ParseToken(refreshToken)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := s.applyLoginSideEffects(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user, claims.RememberMe)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *UserService) applyLoginSideEffects(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	balance, err := s.users.RewardLoginPoints(ctx, user.ID, now)
	if err != nil {
		return err
	}
	user.Point = balance
	if err := s.users.UpdateLastActive(ctx, user.ID, now); err != nil {
		return err
	}
	last := now
	user.LastActive = &last
	s.invalidateProfile(ctx, user.ID)
	return nil
}

func (s *UserService) issueTokens(user *models.User, rememberMe bool) (*TokenPair, error) {
	access, err := s.jwtMaker.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtMaker.GenerateRefreshToken(user.ID, string(user.Role), rememberMe)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// CheckEmail reports whether the email is still available.
func (s *UserService) CheckEmail(ctx context.Context, email string) (bool, error) {
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// CheckNickname reports whether the nickname is valid and available.
func (s *UserService) CheckNickname(ctx context.Context, nickname string) (bool, error) {
	if !nicknameRe.MatchString(nickname) {
		return false, ErrInvalidNickname
	}
	exists, err := s.users.NicknameExists(ctx, nickname)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// Profile returns the account with its used-coupon history, served from
// cache when possible.
func (s *UserService) Profile(ctx context.Context, id int64) (*models.User, error) {
	var cached models.User
	found, err := s.cache.Get(ctx, profileCacheKey(id), &cached)
	if err != nil {
		s.log.Warn("profile cache read failed", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	codes, err := s.users.ListUsedCouponCodes(ctx, id)
	if err != nil {
		return nil, err
	}
	user.UsedCoupons = codes

	if err := s.cache.Set(ctx, profileCacheKey(id), user, profileCacheTTL); err != nil {
		s.log.Warn("profile cache write failed", sl.Err(err))
	}
	return user, nil
}

// EditProfile applies a partial profile update. Absent fields stay
// untouched.
func (s *UserService) EditProfile(ctx context.Context, id int64, req models.EditProfileRequest) (*models.User, error) {
	if req.Nickname != nil && !nicknameRe.MatchString(*req.Nickname) {
		return nil, ErrInvalidNickname
	}

	var passwordHash *string
	if req.Password != nil {
		hashed, err := password.GetHash(*req.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = &hashed
	}

	if err := s.users.UpdateProfile(ctx, id, req.Nickname, passwordHash); err != nil {
		return nil, err
	}
	s.invalidateProfile(ctx, id)
	return s.users.GetUserByID(ctx, id)
}

// DeleteAccount removes the account; orders and payments cascade.
func (s *UserService) DeleteAccount(ctx context.Context, id int64) error {
	count, err := s.users.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrUserNotFound
	}
	s.invalidateProfile(ctx, id)
	s.log.Info("account deleted", slog.Int64("user_id", id))
	return nil
}

// ListUsers is the admin account listing.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.users.ListUsers(ctx, limit, offset)
}

// UserStats is the admin counters payload.
type UserStats struct {
	TotalUsers  int `json:"total_users"`
	ActiveUsers int `json:"active_users"`
}

// Stats counts accounts; active means lastActive within the last 30 days.
func (s *UserService) Stats(ctx context.Context) (*UserStats, error) {
	total, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.users.CountActiveUsers(ctx, time.Now().UTC().AddDate(0, 0, -activeUserWindow))
	if err != nil {
		return nil, err
	}
	return &UserStats{TotalUsers: total, ActiveUsers: active}, nil
}

// SpendPoints records an answer submission: free accounts pay the task
// price, the statistics counter grows either way.
func (s *UserService) SpendPoints(ctx context.Context, id int64, req models.SpendPointsRequest) (*models.User, error) {
	answerSubmitted := req.TaskType == "answerSubmitted"
	if err := s.users.SpendPoints(ctx, id, req.PointsToDeduct, answerSubmitted); err != nil {
		return nil, err
	}
	s.invalidateProfile(ctx, id)
	return s.users.GetUserByID(ctx, id)
}

// SendVerificationCode mails a fresh 6-digit code, replacing any earlier
// one for the same email.
func (s *UserService) SendVerificationCode(ctx context.Context, email string) error {
	code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
	expiresAt := time.Now().UTC().Add(verificationTTL)
	if err := s.verifications.ReplaceVerification(ctx, email, code, expiresAt); err != nil {
		return err
	}
	s.mailer.SendVerificationEmail(email, code)
	return nil
}

// VerifyEmail checks a mailed code. Expired codes and codes with three
// failed attempts are removed so the flow restarts from scratch.
func (s *UserService) VerifyEmail(ctx context.Context, email, code string) error {
	verification, err := s.verifications.GetVerificationByEmail(ctx, email)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if now.After(verification.ExpiresAt) {
		if err := s.verifications.DeleteVerification(ctx, verification.ID); err != nil {
			s.log.Warn("failed to delete expired verification", sl.Err(err))
		}
		return ErrVerificationExpired
	}

	if verification.Code != code {
		attempts, err := s.verifications.IncrementVerificationAttempts(ctx, verification.ID)
		if err != nil {
			return err
		}
		if attempts >= maxVerifyAttempts {
			if err := s.verifications.DeleteVerification(ctx, verification.ID); err != nil {
				s.log.Warn("failed to delete verification", sl.Err(err))
			}
			return ErrTooManyAttempts
		}
		return ErrInvalidCode
	}

	return s.verifications.MarkVerified(ctx, verification.ID)
}

// ForgotPassword issues a single-use reset token and mails it.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	code := uuid.NewString()
	expiresAt := time.Now().UTC().Add(resetTokenTTL)
	if err := s.verifications.CreateResetToken(ctx, user.ID, code, expiresAt); err != nil {
		return err
	}
	s.mailer.SendResetPasswordEmail(user.Email, user.Nickname, code)
	return nil
}

// ResetPassword consumes a reset token and replaces the password.
func (s *UserService) ResetPassword(ctx context.Context, code, newPassword string) error {
	token, err := s.verifications.GetValidResetToken(ctx, code, time.Now().UTC())
	if err != nil {
		return err
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, token.UserID, hashed); err != nil {
		return err
	}
	if err := s.verifications.DeleteResetToken(ctx, token.ID); err != nil {
		s.log.Warn("failed to delete consumed reset token", sl.Err(err))
	}
	s.invalidateProfile(ctx, token.UserID)
	return nil
}

func (s *UserService) invalidateProfile(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, profileCacheKey(id)); err != nil {
		s.log.Warn("profile cache invalidate failed", sl.Err(err))
	}
}
