package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-payments/internal/model"
	"recipe-payments/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNoActiveSubscription = errors.New("no active paid subscription")
	ErrUnknownBillingCycle  = errors.New("unknown billing cycle")
)

type SubscriptionService interface {
	// GetOrCreate returns the user's subscription, backfilling a free-tier
	// default for accounts that predate the subscription table.
	GetOrCreate(ctx context.Context, userID string) (*model.Subscription, error)
	Cancel(ctx context.Context, userID string) (*model.Subscription, error)

	// UpgradeFromOrder converts a completed order into the user's new
	// entitlement. The caller guarantees the order actually transitioned to
	// completed; this is the only writer of paid subscription state.
	UpgradeFromOrder(ctx context.Context, order *model.Order) error
}

type subscriptionServiceImpl struct {
	subscriptionRepo repository.SubscriptionRepository
	planRepo         repository.PlanRepository
	logger           *zap.Logger
}

func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	planRepo repository.PlanRepository,
	logger *zap.Logger,
) SubscriptionService {
	return &subscriptionServiceImpl{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		logger:           logger,
	}
}

func (s *subscriptionServiceImpl) GetOrCreate(ctx context.Context, userID string) (*model.Subscription, error) {
	sub, err := s.subscriptionRepo.FindByUserID(ctx, userID)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find subscription: %w", err)
	}

	s.logger.Info("backfilling free subscription", zap.String("user_id", userID))

	sub = &model.Subscription{
		UserID:    userID,
		PlanID:    model.FreePlanID,
		Tier:      model.TierFree,
		StartDate: time.Now(),
		AutoRenew: false,
		Price:     0,
		Currency:  "USD",
	}
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		// two requests may race on the backfill; the loser re-reads
		existing, ferr := s.subscriptionRepo.FindByUserID(ctx, userID)
		if ferr != nil {
			return nil, fmt.Errorf("create default subscription: %w", err)
		}
		return existing, nil
	}

	return sub, nil
}

func (s *subscriptionServiceImpl) Cancel(ctx context.Context, userID string) (*model.Subscription, error) {
	sub, err := s.subscriptionRepo.DisableAutoRenew(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("disable auto renew: %w", err)
	}
	if sub == nil {
		return nil, ErrNoActiveSubscription
	}

	return sub, nil
}

func (s *subscriptionServiceImpl) UpgradeFromOrder(ctx context.Context, order *model.Order) error {
	plan, err := s.planRepo.FindByPlanID(ctx, order.PlanID)
	if err != nil {
		return fmt.Errorf("find plan %q: %w", order.PlanID, err)
	}

	days, err := billingCycleDays(plan.BillingCycle)
	if err != nil {
		return fmt.Errorf("plan %q: %w", plan.PlanID, err)
	}

	// expiry runs from confirmation time; renewing early does not stack
	// remaining days onto the new period
	now := time.Now()
	endDate := now.AddDate(0, 0, days)

	sub := &model.Subscription{
		UserID:      order.UserID,
		PlanID:      plan.PlanID,
		Tier:        plan.Tier,
		StartDate:   now,
		EndDate:     &endDate,
		AutoRenew:   true,
		Price:       plan.Price,
		Currency:    plan.Currency,
		LastOrderID: order.ID,
	}
	if err := s.subscriptionRepo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	s.logger.Info("subscription upgraded",
		zap.String("user_id", order.UserID),
		zap.String("plan_id", plan.PlanID),
		zap.String("tier", plan.Tier),
		zap.String("order_id", order.ID),
		zap.Time("end_date", endDate),
	)

	return nil
}

// billingCycleDays maps a plan's cycle to its fixed day count. An
// unrecognized cycle is a misconfigured plan and is refused rather than
// silently billed as a month.
func billingCycleDays(cycle string) (int, error) {
	switch cycle {
	case model.BillingCycleMonthly:
		return 30, nil
	case model.BillingCycleYearly:
		return 365, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBillingCycle, cycle)
	}
}
