package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coddink/interview-backend/internal/models"
)

const productColumns = `id, name, description, price, created_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct inserts a product and returns its ID.
func (s *Storage) CreateProduct(ctx context.Context, req models.CreateProductRequest) (int64, error) {
	const op = "storage.CreateProduct"
	var newID int64
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO products (name, description, price) VALUES ($1, $2, $3) RETURNING id`,
		req.Name, req.Description, req.Price).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetProductByID returns one product.
func (s *Storage) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	const op = "storage.GetProductByID"
	row := s.DB.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

// ListProducts returns all products.
func (s *Storage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	rows, err := s.DB.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProduct applies a partial edit. Nil fields stay untouched.
func (s *Storage) UpdateProduct(ctx context.Context, id int64, req models.EditProductRequest) (int, error) {
	const op = "storage.UpdateProduct"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE products SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			price = COALESCE($3, price)
		 WHERE id = $4`,
		req.Name, req.Description, req.Price, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}

// DeleteProduct removes a product.
func (s *Storage) DeleteProduct(ctx context.Context, id int64) (int, error) {
	const op = "storage.DeleteProduct"
	res, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}
