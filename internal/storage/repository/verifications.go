package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/coddink/interview-backend/internal/models"
)

// ReplaceVerification deletes any existing verification for the email and
// inserts a fresh one, so a re-request always invalidates the old code.
func (s *Storage) ReplaceVerification(ctx context.Context, email, code string, expiresAt time.Time) error {
	const op = "storage.ReplaceVerification"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.withSerializableTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM verifications WHERE email = $1`, email); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO verifications (email, code, verified, attempts, expires_at)
			 VALUES ($1, $2, false, 0, $3)`,
			email, code, expiresAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetVerificationByEmail returns the pending verification for an email.
func (s *Storage) GetVerificationByEmail(ctx context.Context, email string) (*models.Verification, error) {
	const op = "storage.GetVerificationByEmail"
	var v models.Verification
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, email, code, verified, attempts, expires_at, created_at
		 FROM verifications WHERE email = $1`, email).
		Scan(&v.ID, &v.Email, &v.Code, &v.Verified, &v.Attempts, &v.ExpiresAt, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrVerificationNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &v, nil
}

// MarkVerified flips a verification to verified.
func (s *Storage) MarkVerified(ctx context.Context, id int64) error {
	const op = "storage.MarkVerified"
	_, err := s.DB.ExecContext(ctx,
		`UPDATE verifications SET verified = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IncrementVerificationAttempts bumps the failure counter and returns the
// new count.
func (s *Storage) IncrementVerificationAttempts(ctx context.Context, id int64) (int, error) {
	const op = "storage.IncrementVerificationAttempts"
	var attempts int
	err := s.DB.QueryRowContext(ctx,
		`UPDATE verifications SET attempts = attempts + 1 WHERE id = $1 RETURNING attempts`,
		id).Scan(&attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op, ErrVerificationNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return attempts, nil
}

// DeleteVerification removes a verification row.
func (s *Storage) DeleteVerification(ctx context.Context, id int64) error {
	const op = "storage.DeleteVerification"
	if _, err := s.DB.ExecContext(ctx,
		`DELETE FROM verifications WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateResetToken inserts a password reset token for a user.
func (s *Storage) CreateResetToken(ctx context.Context, userID int64, code string, expiresAt time.Time) error {
	const op = "storage.CreateResetToken"
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (user_id, code, expires_at)
		 VALUES ($1, $2, $3)`,
		userID, code, expiresAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetValidResetToken returns an unexpired reset token by code.
func (s *Storage) GetValidResetToken(ctx context.Context, code string, now time.Time) (*models.PasswordResetToken, error) {
	const op = "storage.GetValidResetToken"
	var t models.PasswordResetToken
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, user_id, code, expires_at, created_at
		 FROM password_reset_tokens WHERE code = $1 AND expires_at > $2`,
		code, now).
		Scan(&t.ID, &t.UserID, &t.Code, &t.ExpiresAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrResetTokenNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// DeleteResetToken removes a reset token after consumption.
func (s *Storage) DeleteResetToken(ctx context.Context, id int64) error {
	const op = "storage.DeleteResetToken"
	if _, err := s.DB.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
