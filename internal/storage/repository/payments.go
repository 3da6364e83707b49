package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coddink/interview-backend/internal/models"
)

const paymentColumns = `id, order_id, amount, status, currency, transaction_id, created_at`

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Status, &p.Currency,
		&p.TransactionID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePayment inserts a pending payment for an order and returns its ID.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (int64, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO payments (order_id, amount, status, currency, transaction_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		payment.OrderID, payment.Amount, payment.Status, payment.Currency,
		payment.TransactionID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPaymentByID returns one payment.
func (s *Storage) GetPaymentByID(ctx context.Context, id int64) (*models.Payment, error) {
	const op = "storage.GetPaymentByID"
	row := s.DB.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	payment, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrPaymentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payment, nil
}

// GetPaymentByOrderID returns the newest payment row of an order.
func (s *Storage) GetPaymentByOrderID(ctx context.Context, orderID int64) (*models.Payment, error) {
	const op = "storage.GetPaymentByOrderID"
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE order_id = $1
		 ORDER BY id DESC LIMIT 1`, orderID)
	payment, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrPaymentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payment, nil
}

// ListPayments returns all payments, newest first.
func (s *Storage) ListPayments(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments ORDER BY id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePaymentStatus sets a payment's status and transaction reference
// and, when the new status is completed, moves the owning order to
// completed in the same transaction. Re-applying a completed status is a
// no-op state-wise, so the operation is idempotent.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus, transactionID string) error {
	const op = "storage.UpdatePaymentStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.withSerializableTx(ctx, func(tx *sql.Tx) error {
		var orderID int64
		err := tx.QueryRowContext(ctx,
			`SELECT order_id FROM payments WHERE id = $1 FOR UPDATE`, id).Scan(&orderID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPaymentNotFound
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE payments SET status = $1, transaction_id = $2 WHERE id = $3`,
			status, transactionID, id)
		if err != nil {
			return err
		}

		if status == models.PaymentCompleted {
			_, err = tx.ExecContext(ctx,
				`UPDATE orders SET status = $1 WHERE id = $2`,
				models.OrderCompleted, orderID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
