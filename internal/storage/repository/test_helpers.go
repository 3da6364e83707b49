package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/coddink/interview-backend/internal/models"
)

// setupTestDatabase starts a disposable PostgreSQL container, applies the
// schema and returns a connected Storage plus a cleanup func.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	storage, err := New(connStr)
	require.NoError(t, err, "failed to connect to storage")

	_, err = storage.DB.Exec(`
        CREATE TABLE users (
            id BIGSERIAL PRIMARY KEY,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            nickname TEXT NOT NULL UNIQUE,
            role TEXT NOT NULL DEFAULT 'user',
            subscription_type TEXT NOT NULL DEFAULT 'free',
            point INT NOT NULL DEFAULT 100,
            answer_submitted_count INT NOT NULL DEFAULT 0,
            premium_start_date TIMESTAMPTZ,
            premium_end_date TIMESTAMPTZ,
            last_active TIMESTAMPTZ,
            last_login_date TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE coupons (
            id BIGSERIAL PRIMARY KEY,
            code TEXT NOT NULL UNIQUE,
            expiration_date TIMESTAMPTZ,
            is_active BOOLEAN NOT NULL DEFAULT true,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE used_coupons (
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            code TEXT NOT NULL,
            redeemed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            PRIMARY KEY (user_id, code)
        );

        CREATE TABLE products (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price NUMERIC(10, 2) NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE orders (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
            total_amount NUMERIC(10, 2) NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'pending',
            currency TEXT NOT NULL DEFAULT 'KRW',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE payments (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            amount NUMERIC(10, 2) NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'pending',
            currency TEXT NOT NULL DEFAULT 'KRW',
            transaction_id TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE verifications (
            id BIGSERIAL PRIMARY KEY,
            email TEXT NOT NULL UNIQUE,
            code TEXT NOT NULL,
            verified BOOLEAN NOT NULL DEFAULT false,
            attempts INT NOT NULL DEFAULT 0,
            expires_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE password_reset_tokens (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            code TEXT NOT NULL UNIQUE,
            expires_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		_ = storage.DB.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return storage, cleanup
}

// createTestUser inserts a plain free account and returns its id.
func createTestUser(t *testing.T, s *Storage, email, nickname string) int64 {
	id, err := s.CreateUser(context.Background(), models.User{
		Email:            email,
		PasswordHash:     "hashedpassword",
		Nickname:         nickname,
		Role:             models.RoleUser,
		SubscriptionType: models.SubscriptionFree,
		Point:            100,
	})
	require.NoError(t, err)
	return id
}

// createTestOrder inserts a product and a pending order for it.
func createTestOrder(t *testing.T, s *Storage, userID int64, amount float64) int64 {
	ctx := context.Background()
	productID, err := s.CreateProduct(ctx, models.CreateProductRequest{
		Name:        "Premium Monthly",
		Description: "One month of premium",
		Price:       amount,
	})
	require.NoError(t, err)

	orderID, err := s.CreateOrder(ctx, models.Order{
		UserID:      userID,
		ProductID:   productID,
		TotalAmount: amount,
		Status:      models.OrderPending,
		Currency:    models.KRW,
	})
	require.NoError(t, err)
	return orderID
}
