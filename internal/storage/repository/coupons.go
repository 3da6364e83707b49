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

const couponColumns = `id, code, expiration_date, is_active, created_at`

func scanCoupon(row interface{ Scan(...any) error }) (*models.Coupon, error) {
	var c models.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.ExpirationDate, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCoupon inserts a new coupon, active by default.
func (s *Storage) CreateCoupon(ctx context.Context, code string, expirationDate *time.Time) (int64, error) {
	const op = "storage.CreateCoupon"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO coupons (code, expiration_date, is_active)
		 VALUES ($1, $2, true) RETURNING id`,
		code, expirationDate).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetCouponByID returns one coupon.
func (s *Storage) GetCouponByID(ctx context.Context, id int64) (*models.Coupon, error) {
	const op = "storage.GetCouponByID"
	row := s.DB.QueryRowContext(ctx, `SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id)
	coupon, err := scanCoupon(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrCouponNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return coupon, nil
}

// ListCoupons returns all coupons, newest first.
func (s *Storage) ListCoupons(ctx context.Context) ([]*models.Coupon, error) {
	const op = "storage.ListCoupons"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, coupon)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCoupon applies a partial edit. Nil fields stay untouched; the
// expiration date can only be replaced, not cleared, matching the admin
// edit surface.
func (s *Storage) UpdateCoupon(ctx context.Context, id int64, req models.UpdateCouponRequest) (int, error) {
	const op = "storage.UpdateCoupon"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE coupons SET
			code = COALESCE($1, code),
			expiration_date = COALESCE($2, expiration_date),
			is_active = COALESCE($3, is_active)
		 WHERE id = $4`,
		req.Code, req.ExpirationDate, req.IsActive, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}

// DeleteCoupon removes a coupon. Redemption history is kept: used_coupons
// stores codes, not coupon rows.
func (s *Storage) DeleteCoupon(ctx context.Context, id int64) (int, error) {
	const op = "storage.DeleteCoupon"
	res, err := s.DB.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}

// RedeemCoupon consumes a coupon for one user in a single serializable
// transaction: the coupon row and the user row are locked, the active and
// expiry checks run against the locked rows, the premium window is
// extended by one month, the code lands in the user's history, and the
// coupon is deactivated. Two concurrent redemptions of the same code
// therefore end with exactly one winner; the loser no longer sees an
// active coupon and gets ErrCouponNotFound.
func (s *Storage) RedeemCoupon(ctx context.Context, code string, userID int64, now time.Time) (*models.User, error) {
	const op = "storage.RedeemCoupon"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var updated *models.User
	err := s.withSerializableTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT `+couponColumns+` FROM coupons
			 WHERE code = $1 AND is_active = true FOR UPDATE`, code)
		coupon, err := scanCoupon(row)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCouponNotFound
		}
		if err != nil {
			return err
		}

		if coupon.ExpirationDate != nil && now.After(*coupon.ExpirationDate) {
			return ErrCouponExpired
		}

		userRow := tx.QueryRowContext(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, userID)
		user, err := scanUser(userRow)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		var alreadyUsed bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM used_coupons WHERE user_id = $1 AND code = $2)`,
			userID, code).Scan(&alreadyUsed)
		if err != nil {
			return err
		}
		if alreadyUsed {
			return ErrCouponAlreadyUsed
		}

		// Coupons always grant one month.
		newEnd, err := period.Extend(user.PremiumEndDate, now, period.Monthly)
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
			models.SubscriptionPremium, start, newEnd, userID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO used_coupons (user_id, code, redeemed_at) VALUES ($1, $2, $3)`,
			userID, code, now)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE coupons SET is_active = false WHERE id = $1`, coupon.ID)
		if err != nil {
			return err
		}

		user.SubscriptionType = models.SubscriptionPremium
		user.PremiumStartDate = start
		user.PremiumEndDate = &newEnd
		user.UsedCoupons = append(user.UsedCoupons, code)
		updated = user
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}
