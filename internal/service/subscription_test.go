package service

import (
	"context"
	"testing"
	"time"

	"recipe-payments/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpgradeFromOrderMonthlyExpiry(t *testing.T) {
	env := newTestEnv(t)
	env.seedPlans(t)
	order := env.seedPendingOrder(t, "X1", "premium-monthly", model.PaymentMethodVNPay)
	ctx := context.Background()

	require.NoError(t, env.subscriptionService.UpgradeFromOrder(ctx, order))

	sub, err := env.subscriptionRepo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, sub.EndDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *sub.EndDate, 5*time.Second)
	assert.Equal(t, model.TierPremium, sub.Tier)
	assert.EqualValues(t, 199000, sub.Price)
	assert.Equal(t, "VND", sub.Currency)
}

func TestUpgradeFromOrderYearlyExpiry(t *testing.T) {
	env := newTestEnv(t)
	env.seedPlans(t)
	order := env.seedPendingOrder(t, "X1", "premium-yearly", model.PaymentMethodMoMo)
	ctx := context.Background()

	require.NoError(t, env.subscriptionService.UpgradeFromOrder(ctx, order))

	sub, err := env.subscriptionRepo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, sub.EndDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 365), *sub.EndDate, 5*time.Second)
}

// An early renewal resets the clock from confirmation time; the days left on
// the old period do not stack.
func TestUpgradeResetsExpiryFromNow(t *testing.T) {
	env := newTestEnv(t)
	env.seedPlans(t)
	ctx := context.Background()

	farFuture := time.Now().AddDate(0, 0, 300)
	require.NoError(t, env.subscriptionRepo.Create(ctx, &model.Subscription{
		UserID:    "user-1",
		PlanID:    "premium-yearly",
		Tier:      model.TierPremium,
		StartDate: time.Now().AddDate(0, 0, -65),
		EndDate:   &farFuture,
		AutoRenew: true,
		Price:     1990000,
		Currency:  "VND",
	}))

	order := env.seedPendingOrder(t, "X2", "premium-monthly", model.PaymentMethodVNPay)
	require.NoError(t, env.subscriptionService.UpgradeFromOrder(ctx, order))

	sub, err := env.subscriptionRepo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, sub.EndDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *sub.EndDate, 5*time.Second)
	assert.Equal(t, "premium-monthly", sub.PlanID)
}

func TestUpgradeFromOrderUnknownCycleRefused(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.planRepo.Create(ctx, &model.SubscriptionPlan{
		PlanID:       "premium-lifetime",
		Tier:         model.TierPremium,
		Name:         "Premium Lifetime",
		Price:        9990000,
		Currency:     "VND",
		BillingCycle: "lifetime",
	}))
	order := env.seedPendingOrder(t, "X1", "premium-lifetime", model.PaymentMethodVNPay)

	err := env.subscriptionService.UpgradeFromOrder(ctx, order)
	assert.ErrorIs(t, err, ErrUnknownBillingCycle)
}

func TestGetOrCreateBackfillsFreeTier(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sub, err := env.subscriptionService.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.TierFree, sub.Tier)
	assert.Equal(t, model.FreePlanID, sub.PlanID)
	assert.False(t, sub.AutoRenew)
	assert.Nil(t, sub.EndDate)

	// second read returns the same row, no duplicate backfill
	again, err := env.subscriptionService.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, again.UserID)

	var count int64
	require.NoError(t, env.db.Model(&model.Subscription{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCancelSubscription(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.subscriptionService.Cancel(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNoActiveSubscription)

	end := time.Now().AddDate(0, 0, 30)
	require.NoError(t, env.subscriptionRepo.Create(ctx, &model.Subscription{
		UserID:    "user-1",
		PlanID:    "premium-monthly",
		Tier:      model.TierPremium,
		StartDate: time.Now(),
		EndDate:   &end,
		AutoRenew: true,
		Price:     199000,
		Currency:  "VND",
	}))

	sub, err := env.subscriptionService.Cancel(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, sub.AutoRenew)
	// cancelling only stops renewal; the paid period keeps running
	assert.Equal(t, model.TierPremium, sub.Tier)
}
