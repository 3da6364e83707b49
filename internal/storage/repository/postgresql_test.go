package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coddink/interview-backend/internal/lib/period"
	"github.com/coddink/interview-backend/internal/models"
)

func TestRedeemCoupon_SingleWinnerUnderConcurrency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	_, err := storage.CreateCoupon(ctx, "WELCOME30", nil)
	require.NoError(t, err)

	const contenders = 5
	userIDs := make([]int64, contenders)
	for i := range contenders {
		userIDs[i] = createTestUser(t, storage,
			string(rune('a'+i))+"@example.com", "user"+string(rune('a'+i)))
	}

	var wg sync.WaitGroup
	results := make([]error, contenders)
	for i := range contenders {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = storage.RedeemCoupon(ctx, "WELCOME30", userIDs[i], now)
		}(i)
	}
	wg.Wait()

	var winners int
	for _, err := range results {
		if err == nil {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one redemption must win")

	var active bool
	err = storage.DB.QueryRow(`SELECT is_active FROM coupons WHERE code = $1`, "WELCOME30").Scan(&active)
	require.NoError(t, err)
	assert.False(t, active, "a redeemed coupon must be deactivated")
}

func TestRedeemCoupon_ExpiredAndReuse(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()
	userID := createTestUser(t, storage, "buyer@example.com", "buyer")

	past := now.Add(-time.Hour)
	_, err := storage.CreateCoupon(ctx, "OLD", &past)
	require.NoError(t, err)

	_, err = storage.RedeemCoupon(ctx, "OLD", userID, now)
	assert.ErrorIs(t, err, ErrCouponExpired)

	_, err = storage.CreateCoupon(ctx, "FRESH", nil)
	require.NoError(t, err)

	user, err := storage.RedeemCoupon(ctx, "FRESH", userID, now)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionPremium, user.SubscriptionType)
	require.NotNil(t, user.PremiumEndDate)
	assert.WithinDuration(t, now.AddDate(0, 0, 30), *user.PremiumEndDate, time.Minute)

	// Reactivate the code: the same account must still be rejected.
	_, err = storage.DB.Exec(`UPDATE coupons SET is_active = true WHERE code = $1`, "FRESH")
	require.NoError(t, err)
	_, err = storage.RedeemCoupon(ctx, "FRESH", userID, now)
	assert.ErrorIs(t, err, ErrCouponAlreadyUsed)
}

func TestRewardLoginPoints_OncePerDay(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	userID := createTestUser(t, storage, "daily@example.com", "daily")

	now := time.Now().UTC()
	balance, err := storage.RewardLoginPoints(ctx, userID, now)
	require.NoError(t, err)
	assert.Equal(t, 110, balance)

	// A second login on the same day pays nothing.
	balance, err = storage.RewardLoginPoints(ctx, userID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 110, balance)

	// The next calendar day pays again.
	balance, err = storage.RewardLoginPoints(ctx, userID, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 120, balance)
}

func TestUpdatePaymentStatus_CompletesOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	userID := createTestUser(t, storage, "payer@example.com", "payer")
	orderID := createTestOrder(t, storage, userID, 9900)

	paymentID, err := storage.CreatePayment(ctx, models.Payment{
		OrderID:  orderID,
		Amount:   9900,
		Status:   models.PaymentPending,
		Currency: models.KRW,
	})
	require.NoError(t, err)

	err = storage.UpdatePaymentStatus(ctx, paymentID, models.PaymentCompleted, "txn_1")
	require.NoError(t, err)

	payment, err := storage.GetPaymentByID(ctx, paymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	require.NotNil(t, payment.TransactionID)
	assert.Equal(t, "txn_1", *payment.TransactionID)

	order, err := storage.GetOrderByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, order.Status)

	// Re-applying the completed status is idempotent.
	err = storage.UpdatePaymentStatus(ctx, paymentID, models.PaymentCompleted, "txn_1")
	require.NoError(t, err)
}

func TestRevokeExpiredPremium_Monotone(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	expiredID := createTestUser(t, storage, "expired@example.com", "expired")
	_, err := storage.DB.Exec(
		`UPDATE users SET subscription_type = 'premium', premium_end_date = $1 WHERE id = $2`,
		now.Add(-time.Hour), expiredID)
	require.NoError(t, err)

	activeID := createTestUser(t, storage, "active@example.com", "active")
	_, err = storage.ExtendPremium(ctx, activeID, now, period.Monthly)
	require.NoError(t, err)

	affected, err := storage.RevokeExpiredPremium(ctx, expiredID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	// An account whose window is still open must not be touched.
	affected, err = storage.RevokeExpiredPremium(ctx, activeID, now)
	require.NoError(t, err)
	assert.Equal(t, 0, affected)

	expired, err := storage.GetUserByID(ctx, expiredID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionFree, expired.SubscriptionType)
	assert.Nil(t, expired.PremiumEndDate)

	active, err := storage.GetUserByID(ctx, activeID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionPremium, active.SubscriptionType)
}

func TestExtendPremium_RenewalNeverShortens(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()
	userID := createTestUser(t, storage, "renew@example.com", "renew")

	first, err := storage.ExtendPremium(ctx, userID, now, period.Monthly)
	require.NoError(t, err)
	require.NotNil(t, first.PremiumEndDate)
	assert.WithinDuration(t, now.AddDate(0, 0, 30), *first.PremiumEndDate, time.Minute)

	// Renewing mid-window stacks on top of the current end date.
	second, err := storage.ExtendPremium(ctx, userID, now, period.Yearly)
	require.NoError(t, err)
	require.NotNil(t, second.PremiumEndDate)
	assert.WithinDuration(t, first.PremiumEndDate.AddDate(1, 0, 0), *second.PremiumEndDate, time.Minute)
}
