package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/coddink/interview-backend/internal/lib/period"
	"github.com/coddink/interview-backend/internal/models"
)

const userColumns = `id, email, password_hash, nickname, role, subscription_type,
	point, answer_submitted_count, premium_start_date, premium_end_date,
	last_active, last_login_date, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Nickname, &u.Role,
		&u.SubscriptionType, &u.Point, &u.AnswerSubmittedCount,
		&u.PremiumStartDate, &u.PremiumEndDate, &u.LastActive,
		&u.LastLoginDate, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new account and returns its ID. Duplicate email or
// nickname surface as the matching sentinel errors.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (email, password_hash, nickname, role,
			      subscription_type, point, premium_start_date, premium_end_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Nickname, user.Role,
		user.SubscriptionType, user.Point, user.PremiumStartDate, user.PremiumEndDate).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return 0, fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
		}
		if isUniqueViolation(err, "users_nickname_key") {
			return 0, fmt.Errorf("%s: %w", op, ErrDuplicateNickname)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByID returns one account by ID.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// GetUserByEmail returns one account by email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// EmailExists reports whether an account with the email exists.
func (s *Storage) EmailExists(ctx context.Context, email string) (bool, error) {
	const op = "storage.EmailExists"
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// NicknameExists reports whether an account with the nickname exists.
func (s *Storage) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	const op = "storage.NicknameExists"
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE nickname = $1)`, nickname).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListUsers returns accounts with pagination, newest first.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountUsers returns the total number of accounts.
func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	const op = "storage.CountUsers"
	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountActiveUsers returns the number of accounts active since the cutoff.
func (s *Storage) CountActiveUsers(ctx context.Context, since time.Time) (int, error) {
	const op = "storage.CountActiveUsers"
	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE last_active > $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// UpdateLastActive stamps the account's last activity time.
func (s *Storage) UpdateLastActive(ctx context.Context, id int64, now time.Time) error {
	const op = "storage.UpdateLastActive"
	res, err := s.DB.ExecContext(ctx, `UPDATE users SET last_active = $1 WHERE id = $2`, now, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// RewardLoginPoints grants the daily login bonus at most once per calendar
// day. The user row is locked so two concurrent logins cannot both award
// the bonus. Returns the resulting point balance.
func (s *Storage) RewardLoginPoints(ctx context.Context, id int64, now time.Time) (int, error) {
	const op = "storage.RewardLoginPoints"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var balance int
	err := s.withSerializableTx(ctx, func(tx *sql.Tx) error {
		var point int
		var lastLogin *time.Time
		err := tx.QueryRowContext(ctx,
			`SELECT point, last_login_date FROM users WHERE id = $1 FOR UPDATE`, id).
			Scan(&point, &lastLogin)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if lastLogin != nil && !lastLogin.Before(today) {
			balance = point
			return nil
		}

		balance = point + 10
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET point = $1, last_login_date = $2 WHERE id = $3`,
			balance, now, id)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}

// SpendPoints deducts points from free accounts and, when the task was an
// answer submission, increments the statistics counter. Premium accounts
// keep their balance. The row is locked for the read-modify-write.
func (s *Storage) SpendPoints(ctx context.Context, id int64, pointsToDeduct int, answerSubmitted bool) error {
	const op = "storage.SpendPoints"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.withSerializableTx(ctx, func(tx *sql.Tx) error {
		var subscriptionType models.SubscriptionType
		var point, answers int
		err := tx.QueryRowContext(ctx,
			`SELECT subscription_type, point, answer_submitted_count
			 FROM users WHERE id = $1 FOR UPDATE`, id).
			Scan(&subscriptionType, &point, &answers)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		if subscriptionType == models.SubscriptionFree {
			point -= pointsToDeduct
		}
		if answerSubmitted {
			answers++
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET point = $1, answer_submitted_count = $2 WHERE id = $3`,
			point, answers, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateProfile applies a partial profile edit. Nil fields are left as
// they are.
func (s *Storage) UpdateProfile(ctx context.Context, id int64, nickname, passwordHash *string) error {
	const op = "storage.UpdateProfile"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET
			nickname = COALESCE($1, nickname),
			password_hash = COALESCE($2, password_hash)
		 WHERE id = $3`,
		nickname, passwordHash, id)
	if err != nil {
		if isUniqueViolation(err, "users_nickname_key") {
			return fmt.Errorf("%s: %w", op, ErrDuplicateNickname)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// UpdatePassword replaces the account's password hash.
func (s *Storage) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const op = "storage.UpdatePassword"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// DeleteUser removes an account. Orders, payments, used-coupon history,
// verifications and reset tokens cascade at the schema level.
func (s *Storage) DeleteUser(ctx context.Context, id int64) (int, error) {
	const op = "storage.DeleteUser"
	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}

// ListUsedCouponCodes returns the codes the account has redeemed.
func (s *Storage) ListUsedCouponCodes(ctx context.Context, userID int64) ([]string, error) {
	const op = "storage.ListUsedCouponCodes"
	rows, err := s.DB.QueryContext(ctx,
		`SELECT code FROM used_coupons WHERE user_id = $1 ORDER BY redeemed_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return codes, nil
}

// ExtendPremium moves the account's premium window forward by the given
// period. The base is the current end date while it is still in the
// future, otherwise now, so a renewal never shortens an active window.
// The row stays locked for the whole read-modify-write.
func (s *Storage) ExtendPremium(ctx context.Context, id int64, now time.Time, p period.Period) (*models.User, error) {
	const op = "storage.ExtendPremium"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var updated *models.User
	err := s.withSerializableTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
		user, err := scanUser(row)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		newEnd, err := period.Extend(user.PremiumEndDate, now, p)
		if err != nil {
			return err
		}
		start := user.PremiumStartDate
		if start == nil {
			start = &now
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET subscription_type = $1, premium_start_date = $2,
			     premium_end_date = $3
			 WHERE id = $4`,
			models.SubscriptionPremium, start, newEnd, id)
		if err != nil {
			return err
		}

		user.SubscriptionType = models.SubscriptionPremium
		user.PremiumStartDate = start
		user.PremiumEndDate = &newEnd
		updated = user
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// RevokePremium downgrades an account to free and clears its window. Used
// by the admin override; the sweeper uses the guarded variant below.
func (s *Storage) RevokePremium(ctx context.Context, id int64) error {
	const op = "storage.RevokePremium"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET subscription_type = $1, premium_end_date = NULL WHERE id = $2`,
		models.SubscriptionFree, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// ListPremiumWithEndDate returns all premium accounts that carry an end
// date, for the sweeper to inspect.
func (s *Storage) ListPremiumWithEndDate(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListPremiumWithEndDate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE subscription_type = $1 AND premium_end_date IS NOT NULL`,
		models.SubscriptionPremium)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RevokeExpiredPremium downgrades one account only while its window is
// still expired, making the sweep monotone: a renewal racing the sweeper
// wins and the downgrade becomes a no-op. Returns affected rows.
func (s *Storage) RevokeExpiredPremium(ctx context.Context, id int64, now time.Time) (int, error) {
	const op = "storage.RevokeExpiredPremium"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET subscription_type = $1, premium_end_date = NULL
		 WHERE id = $2 AND subscription_type = $3
		   AND premium_end_date IS NOT NULL AND premium_end_date < $4`,
		models.SubscriptionFree, id, models.SubscriptionPremium, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}
