// Package services implements order management, including the PayPal
// checkout flow: a local pending order is opened first, then the provider
// order is created against it.
package services

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/coddink/interview-backend/internal/models"
	"github.com/coddink/interview-backend/internal/paymentprovider/paypal"
	"github.com/coddink/interview-backend/internal/storage/repository"
)

// ErrNotOrderOwner is returned when a user reads an order that belongs to
// someone else.
var ErrNotOrderOwner = errors.New("order belongs to another user")

// OrderRepository is the order storage contract.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order models.Order) (int64, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error
	DeleteOrder(ctx context.Context, id int64) (int, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// PayPalClient is the provider order API.
type PayPalClient interface {
	CreateOrder(ctx context.Context, amount float64, currency string) (*paypal.OrderResponse, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.OrderResponse, error)
}

type OrderService struct {
	repo   OrderRepository
	paypal PayPalClient
	log    *slog.Logger
}

func NewOrderService(repo OrderRepository, paypalClient PayPalClient, log *slog.Logger) *OrderService {
	return &OrderService{repo: repo, paypal: paypalClient, log: log}
}

// Create opens a pending order owned by userID. The amount is normalized
// to two decimal places; the product must exist.
func (s *OrderService) Create(ctx context.Context, userID int64, req models.CreateOrderRequest) (*models.Order, error) {
	if _, err := s.repo.GetProductByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	order := models.Order{
		UserID:      userID,
		ProductID:   req.ProductID,
		TotalAmount: math.Round(req.TotalAmount*100) / 100,
		Status:      models.OrderPending,
		Currency:    models.Currency(req.Currency),
	}
	id, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	s.log.Info("order created", slog.Int64("order_id", id), slog.Int64("user_id", userID))
	return s.repo.GetOrderByID(ctx, id)
}

// Get returns one order. Non-admin callers only see their own orders.
func (s *OrderService) Get(ctx context.Context, id, userID int64, isAdmin bool) (*models.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

// List returns all orders for admins, or the caller's own orders.
func (s *OrderService) List(ctx context.Context, userID int64, isAdmin bool, limit, offset int) ([]*models.Order, error) {
	if isAdmin {
		return s.repo.ListOrders(ctx, limit, offset)
	}
	return s.repo.ListOrdersByUser(ctx, userID, limit, offset)
}

// UpdateStatus moves an order to a new status.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	if err := s.repo.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetOrderByID(ctx, id)
}

// Delete removes an order; its payments cascade.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	count, err := s.repo.DeleteOrder(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrOrderNotFound
	}
	return nil
}

// PayPalOrderResult pairs the local order with the provider order data,
// passed through verbatim so the frontend can drive the approval flow.
type PayPalOrderResult struct {
	Order    *models.Order         `json:"order"`
	Provider *paypal.OrderResponse `json:"provider"`
}

// CreatePayPalOrder opens a local pending order and a matching provider
// checkout order in one flow.
func (s *OrderService) CreatePayPalOrder(ctx context.Context, userID int64, req models.CreateOrderRequest) (*PayPalOrderResult, error) {
	order, err := s.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	provider, err := s.paypal.CreateOrder(ctx, order.TotalAmount, string(order.Currency))
	if err != nil {
		return nil, err
	}
	s.log.Info("paypal order created",
		slog.Int64("order_id", order.ID), slog.String("provider_order_id", provider.ID))
	return &PayPalOrderResult{Order: order, Provider: provider}, nil
}

// CapturePayPalOrder captures a previously approved provider order. The
// provider status is returned untranslated.
func (s *OrderService) CapturePayPalOrder(ctx context.Context, providerOrderID string) (*paypal.OrderResponse, error) {
	provider, err := s.paypal.CaptureOrder(ctx, providerOrderID)
	if err != nil {
		return nil, err
	}
	s.log.Info("paypal order captured",
		slog.String("provider_order_id", providerOrderID), slog.String("status", provider.Status))
	return provider, nil
}
