package repository

import (
	"context"
	"testing"
	"time"

	"recipe-payments/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionUpsertCreatesThenOverwrites(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	end := time.Now().AddDate(0, 0, 30)
	require.NoError(t, repo.Upsert(ctx, &model.Subscription{
		UserID:      "user-1",
		PlanID:      "premium-monthly",
		Tier:        model.TierPremium,
		StartDate:   time.Now(),
		EndDate:     &end,
		AutoRenew:   true,
		Price:       199000,
		Currency:    "VND",
		LastOrderID: "X1",
	}))

	laterEnd := time.Now().AddDate(0, 0, 365)
	require.NoError(t, repo.Upsert(ctx, &model.Subscription{
		UserID:      "user-1",
		PlanID:      "premium-yearly",
		Tier:        model.TierPremium,
		StartDate:   time.Now(),
		EndDate:     &laterEnd,
		AutoRenew:   true,
		Price:       1990000,
		Currency:    "VND",
		LastOrderID: "X2",
	}))

	sub, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "premium-yearly", sub.PlanID)
	assert.Equal(t, "X2", sub.LastOrderID)
	assert.WithinDuration(t, laterEnd, *sub.EndDate, time.Second)

	// still exactly one row per user
	var count int64
	require.NoError(t, db.Model(&model.Subscription{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDisableAutoRenewOnPaidSubscription(t *testing.T) {
	repo := NewSubscriptionRepository(newTestDB(t))
	ctx := context.Background()

	end := time.Now().AddDate(0, 0, 30)
	require.NoError(t, repo.Create(ctx, &model.Subscription{
		UserID:    "user-1",
		PlanID:    "premium-monthly",
		Tier:      model.TierPremium,
		StartDate: time.Now(),
		EndDate:   &end,
		AutoRenew: true,
		Price:     199000,
		Currency:  "VND",
	}))

	sub, err := repo.DisableAutoRenew(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.False(t, sub.AutoRenew)
}

func TestDisableAutoRenewSkipsFreeTier(t *testing.T) {
	repo := NewSubscriptionRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Subscription{
		UserID:    "user-1",
		PlanID:    model.FreePlanID,
		Tier:      model.TierFree,
		StartDate: time.Now(),
		Currency:  "USD",
	}))

	sub, err := repo.DisableAutoRenew(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, sub)
}
