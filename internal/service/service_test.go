package service

import (
	"context"
	"testing"

	"recipe-payments/internal/client"
	"recipe-payments/internal/model"
	"recipe-payments/internal/repository"
	"recipe-payments/internal/signature"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testDeepLink    = "bartendercommunity://payment/callback"
	testVNPaySecret = "vnpay-test-secret"
	testMoMoAccess  = "momo-access-key"
	testMoMoSecret  = "momo-test-secret"
)

type testEnv struct {
	db                  *gorm.DB
	orderRepo           repository.OrderRepository
	subscriptionRepo    repository.SubscriptionRepository
	planRepo            repository.PlanRepository
	paymentMethodRepo   repository.PaymentMethodRepository
	subscriptionService SubscriptionService
	vnpaySigner         *signature.VNPaySigner
	momoSigner          *signature.MoMoSigner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Order{},
		&model.Subscription{},
		&model.SubscriptionPlan{},
		&model.PaymentMethod{},
	))

	env := &testEnv{
		db:                db,
		orderRepo:         repository.NewOrderRepository(db),
		subscriptionRepo:  repository.NewSubscriptionRepository(db),
		planRepo:          repository.NewPlanRepository(db),
		paymentMethodRepo: repository.NewPaymentMethodRepository(db),
		vnpaySigner:       signature.NewVNPaySigner(testVNPaySecret),
		momoSigner:        signature.NewMoMoSigner(testMoMoAccess, testMoMoSecret),
	}
	env.subscriptionService = NewSubscriptionService(env.subscriptionRepo, env.planRepo, zap.NewNop())

	return env
}

// paymentService wires the dispatcher against the given clients; callback
// tests pass nil clients since callbacks never reach out to a provider.
func (e *testEnv) paymentService(vnpayClient client.VNPayClient, momoClient client.MoMoClient) PaymentService {
	return NewPaymentService(
		e.orderRepo,
		e.planRepo,
		e.paymentMethodRepo,
		e.subscriptionService,
		e.vnpaySigner,
		e.momoSigner,
		vnpayClient,
		momoClient,
		testDeepLink,
		zap.NewNop(),
	)
}

func (e *testEnv) seedPlans(t *testing.T) {
	t.Helper()

	plans := []*model.SubscriptionPlan{
		{PlanID: "premium-monthly", Tier: model.TierPremium, Name: "Premium Monthly", Price: 199000, Currency: "VND", BillingCycle: model.BillingCycleMonthly},
		{PlanID: "premium-yearly", Tier: model.TierPremium, Name: "Premium Yearly", Price: 1990000, Currency: "VND", BillingCycle: model.BillingCycleYearly},
	}
	for _, plan := range plans {
		require.NoError(t, e.planRepo.Create(context.Background(), plan))
	}
}

func (e *testEnv) seedPendingOrder(t *testing.T, id, planID, method string) *model.Order {
	t.Helper()

	order := &model.Order{
		ID:       id,
		UserID:   "user-1",
		Status:   model.OrderStatusPending,
		Amount:   199000,
		Currency: "VND",
		Method:   method,
		PlanID:   planID,
	}
	require.NoError(t, e.orderRepo.Create(context.Background(), order))
	return order
}
