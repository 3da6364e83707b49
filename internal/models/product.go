package models

import "time"

// Product is a purchasable item referenced by orders.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateProductRequest is the admin payload for a new product.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=128"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
}

// EditProductRequest partially edits a product. Nil fields stay untouched.
type EditProductRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=128"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
}
