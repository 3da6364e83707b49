package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coddink/interview-backend/internal/models"
)

const orderColumns = `id, user_id, product_id, total_amount, status, currency, created_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.UserID, &o.ProductID, &o.TotalAmount, &o.Status,
		&o.Currency, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrder inserts a pending order and returns its ID. The product
// reference is validated by the foreign key.
func (s *Storage) CreateOrder(ctx context.Context, order models.Order) (int64, error) {
	const op = "storage.CreateOrder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, product_id, total_amount, status, currency)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		order.UserID, order.ProductID, order.TotalAmount, order.Status, order.Currency).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetOrderByID returns one order.
func (s *Storage) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	const op = "storage.GetOrderByID"
	row := s.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

// ListOrders returns all orders, newest first.
func (s *Storage) ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	const op = "storage.ListOrders"
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectOrders(op, rows)
}

// ListOrdersByUser returns one user's orders, newest first.
func (s *Storage) ListOrdersByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Order, error) {
	const op = "storage.ListOrdersByUser"
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1
		 ORDER BY id DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectOrders(op, rows)
}

func collectOrders(op string, rows *sql.Rows) ([]*models.Order, error) {
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateOrderStatus moves an order to the given status.
func (s *Storage) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	const op = "storage.UpdateOrderStatus"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrOrderNotFound)
	}
	return nil
}

// DeleteOrder removes an order; its payments cascade.
func (s *Storage) DeleteOrder(ctx context.Context, id int64) (int, error) {
	const op = "storage.DeleteOrder"
	res, err := s.DB.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}
