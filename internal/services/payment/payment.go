// Package services implements payment records and the provider
// reconciliation: a browser-reported payment is only trusted after the
// provider-side record confirms both the status and the amount.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/coddink/interview-backend/internal/lib/money"
	"github.com/coddink/interview-backend/internal/metrics"
	"github.com/coddink/interview-backend/internal/models"
	"github.com/coddink/interview-backend/internal/paymentprovider/portone"
)

// Reconciliation errors surfaced to the handler layer.
var (
	ErrAmountMismatch = errors.New("payment amount does not match the order")
	// ErrVirtualAccountIssued: the buyer was handed a bank transfer
	// account, no money has moved, so the order must stay pending.
	ErrVirtualAccountIssued = errors.New("virtual account issued, payment not completed")
	ErrPaymentNotPaid       = errors.New("payment is not in a paid state")
)

// PaymentRepository is the payment storage contract. UpdatePaymentStatus
// cascades the owning order to completed when the payment completes.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment models.Payment) (int64, error)
	GetPaymentByID(ctx context.Context, id int64) (*models.Payment, error)
	GetPaymentByOrderID(ctx context.Context, orderID int64) (*models.Payment, error)
	ListPayments(ctx context.Context, limit, offset int) ([]*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus, transactionID string) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
}

// ProviderClient fetches the authoritative provider-side payment record.
type ProviderClient interface {
	GetPayment(ctx context.Context, paymentID string) (*portone.PaymentResponse, error)
}

type PaymentService struct {
	repo     PaymentRepository
	provider ProviderClient
	log      *slog.Logger
}

func NewPaymentService(repo PaymentRepository, provider ProviderClient, log *slog.Logger) *PaymentService {
	return &PaymentService{repo: repo, provider: provider, log: log}
}

// Create opens a pending payment record for an order.
func (s *PaymentService) Create(ctx context.Context, req models.CreatePaymentRequest) (*models.Payment, error) {
	if _, err := s.repo.GetOrderByID(ctx, req.OrderID); err != nil {
		return nil, err
	}

	payment := models.Payment{
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		Status:        models.PaymentPending,
		Currency:      models.Currency(req.Currency),
		TransactionID: req.TransactionID,
	}
	id, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return nil, err
	}
	return s.repo.GetPaymentByID(ctx, id)
}

// Get returns one payment.
func (s *PaymentService) Get(ctx context.Context, id int64) (*models.Payment, error) {
	return s.repo.GetPaymentByID(ctx, id)
}

// List returns payments, newest first.
func (s *PaymentService) List(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	return s.repo.ListPayments(ctx, limit, offset)
}

// Complete reconciles a provider payment against the local order. The
// provider record is fetched fresh, its amount compared against the order
// as two-decimal strings, and only a PAID status completes the local
// payment and its order. A provider failure surfaces as an error; nothing
// is retried silently.
func (s *PaymentService) Complete(ctx context.Context, req models.CompletePaymentRequest) (*models.Payment, error) {
	providerPayment, err := s.provider.GetPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if !money.Equal(providerPayment.Amount.Total, order.TotalAmount) {
		s.log.Warn("payment amount mismatch",
			slog.Int64("order_id", order.ID),
			slog.String("provider_amount", money.Format(providerPayment.Amount.Total)),
			slog.String("order_amount", money.Format(order.TotalAmount)))
		return nil, ErrAmountMismatch
	}

	switch providerPayment.Status {
	case portone.StatusPaid:
		// fall through to completion below
	case portone.StatusVirtualAccountIssued:
		return nil, ErrVirtualAccountIssued
	default:
		return nil, ErrPaymentNotPaid
	}

	payment, err := s.repo.GetPaymentByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePaymentStatus(ctx, payment.ID, models.PaymentCompleted, req.TransactionID); err != nil {
		return nil, err
	}

	metrics.PaymentsCompleted.Inc()
	s.log.Info("payment completed",
		slog.Int64("payment_id", payment.ID), slog.Int64("order_id", order.ID))
	return s.repo.GetPaymentByID(ctx, payment.ID)
}

// UpdateStatus moves a payment to a new status; a completing payment
// cascades its order.
func (s *PaymentService) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus, transactionID string) (*models.Payment, error) {
	if err := s.repo.UpdatePaymentStatus(ctx, id, status, transactionID); err != nil {
		return nil, err
	}
	if status == models.PaymentCompleted {
		metrics.PaymentsCompleted.Inc()
	}
	return s.repo.GetPaymentByID(ctx, id)
}
