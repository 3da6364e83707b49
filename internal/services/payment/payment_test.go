package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/coddink/interview-backend/internal/models"
	"github.com/coddink/interview-backend/internal/paymentprovider/portone"
	services "github.com/coddink/interview-backend/internal/services/payment"
	"github.com/coddink/interview-backend/internal/storage/repository"
)

type PaymentRepoMock struct {
	mock.Mock
}

func (m *PaymentRepoMock) CreatePayment(ctx context.Context, payment models.Payment) (int64, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PaymentRepoMock) GetPaymentByID(ctx context.Context, id int64) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *PaymentRepoMock) GetPaymentByOrderID(ctx context.Context, orderID int64) (*models.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *PaymentRepoMock) ListPayments(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *PaymentRepoMock) UpdatePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus, transactionID string) error {
	args := m.Called(ctx, id, status, transactionID)
	return args.Error(0)
}

func (m *PaymentRepoMock) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) GetPayment(ctx context.Context, paymentID string) (*portone.PaymentResponse, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portone.PaymentResponse), args.Error(1)
}

func newService(repo *PaymentRepoMock, provider *ProviderMock) *services.PaymentService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewPaymentService(repo, provider, log)
}

func TestComplete(t *testing.T) {
	req := models.CompletePaymentRequest{PaymentID: "pp-1", OrderID: 10, TransactionID: "txn-1"}

	tests := []struct {
		name       string
		setupMocks func(r *PaymentRepoMock, p *ProviderMock)
		wantErr    error
	}{
		{
			name: "paid payment with matching amount completes",
			setupMocks: func(r *PaymentRepoMock, p *ProviderMock) {
				p.On("GetPayment", mock.Anything, "pp-1").
					Return(&portone.PaymentResponse{Status: portone.StatusPaid, Amount: portone.Amount{Total: 9900}}, nil).Once()
				r.On("GetOrderByID", mock.Anything, int64(10)).
					Return(&models.Order{ID: 10, TotalAmount: 9900}, nil).Once()
				r.On("GetPaymentByOrderID", mock.Anything, int64(10)).
					Return(&models.Payment{ID: 5, OrderID: 10, Status: models.PaymentPending}, nil).Once()
				r.On("UpdatePaymentStatus", mock.Anything, int64(5), models.PaymentCompleted, "txn-1").
					Return(nil).Once()
				txn := "txn-1"
				r.On("GetPaymentByID", mock.Anything, int64(5)).
					Return(&models.Payment{ID: 5, OrderID: 10, Status: models.PaymentCompleted, TransactionID: &txn}, nil).Once()
			},
		},
		{
			name: "amount mismatch is rejected before any status check",
			setupMocks: func(r *PaymentRepoMock, p *ProviderMock) {
				p.On("GetPayment", mock.Anything, "pp-1").
					Return(&portone.PaymentResponse{Status: portone.StatusPaid, Amount: portone.Amount{Total: 9900}}, nil).Once()
				r.On("GetOrderByID", mock.Anything, int64(10)).
					Return(&models.Order{ID: 10, TotalAmount: 8800}, nil).Once()
			},
			wantErr: services.ErrAmountMismatch,
		},
		{
			name: "virtual account issued is rejected",
			setupMocks: func(r *PaymentRepoMock, p *ProviderMock) {
				p.On("GetPayment", mock.Anything, "pp-1").
					Return(&portone.PaymentResponse{Status: portone.StatusVirtualAccountIssued, Amount: portone.Amount{Total: 9900}}, nil).Once()
				r.On("GetOrderByID", mock.Anything, int64(10)).
					Return(&models.Order{ID: 10, TotalAmount: 9900}, nil).Once()
			},
			wantErr: services.ErrVirtualAccountIssued,
		},
		{
			name: "any other provider status is rejected",
			setupMocks: func(r *PaymentRepoMock, p *ProviderMock) {
				p.On("GetPayment", mock.Anything, "pp-1").
					Return(&portone.PaymentResponse{Status: "FAILED", Amount: portone.Amount{Total: 9900}}, nil).Once()
				r.On("GetOrderByID", mock.Anything, int64(10)).
					Return(&models.Order{ID: 10, TotalAmount: 9900}, nil).Once()
			},
			wantErr: services.ErrPaymentNotPaid,
		},
		{
			name: "provider failure surfaces",
			setupMocks: func(_ *PaymentRepoMock, p *ProviderMock) {
				p.On("GetPayment", mock.Anything, "pp-1").
					Return(nil, portone.ErrNotFound).Once()
			},
			wantErr: portone.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(PaymentRepoMock)
			provider := new(ProviderMock)
			tt.setupMocks(repo, provider)

			svc := newService(repo, provider)
			payment, err := svc.Complete(context.Background(), req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, payment)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.PaymentCompleted, payment.Status)
			}
			repo.AssertExpectations(t)
			provider.AssertExpectations(t)
		})
	}
}

func TestCompleteFractionalAmountsCompareAsStrings(t *testing.T) {
	// 0.1+0.2 style float noise must not fail the comparison.
	repo := new(PaymentRepoMock)
	provider := new(ProviderMock)
	provider.On("GetPayment", mock.Anything, "pp-1").
		Return(&portone.PaymentResponse{Status: portone.StatusPaid, Amount: portone.Amount{Total: 0.1 + 0.2}}, nil).Once()
	repo.On("GetOrderByID", mock.Anything, int64(10)).
		Return(&models.Order{ID: 10, TotalAmount: 0.3}, nil).Once()
	repo.On("GetPaymentByOrderID", mock.Anything, int64(10)).
		Return(&models.Payment{ID: 5, OrderID: 10}, nil).Once()
	repo.On("UpdatePaymentStatus", mock.Anything, int64(5), models.PaymentCompleted, "txn-1").Return(nil).Once()
	repo.On("GetPaymentByID", mock.Anything, int64(5)).
		Return(&models.Payment{ID: 5, Status: models.PaymentCompleted}, nil).Once()

	svc := newService(repo, provider)
	_, err := svc.Complete(context.Background(), models.CompletePaymentRequest{PaymentID: "pp-1", OrderID: 10, TransactionID: "txn-1"})
	require.NoError(t, err)
}

func TestCreateRequiresOrder(t *testing.T) {
	repo := new(PaymentRepoMock)
	repo.On("GetOrderByID", mock.Anything, int64(99)).
		Return(nil, repository.ErrOrderNotFound).Once()

	svc := newService(repo, new(ProviderMock))
	_, err := svc.Create(context.Background(), models.CreatePaymentRequest{OrderID: 99, Amount: 10, Currency: "USD"})
	require.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestUpdateStatusMissingPayment(t *testing.T) {
	repo := new(PaymentRepoMock)
	repo.On("UpdatePaymentStatus", mock.Anything, int64(5), models.PaymentFailed, "").
		Return(repository.ErrPaymentNotFound).Once()

	svc := newService(repo, new(ProviderMock))
	_, err := svc.UpdateStatus(context.Background(), 5, models.PaymentFailed, "")
	require.ErrorIs(t, err, repository.ErrPaymentNotFound)
	require.False(t, errors.Is(err, services.ErrAmountMismatch))
}
