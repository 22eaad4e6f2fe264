package model

import "time"

type OrderStatus = string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
)

type PaymentMethodType = string

const (
	PaymentMethodVNPay PaymentMethodType = "vnpay"
	PaymentMethodMoMo  PaymentMethodType = "momo"
)

const (
	TierFree    = "free"
	TierPremium = "premium"

	BillingCycleMonthly = "monthly"
	BillingCycleYearly  = "yearly"

	FreePlanID = "free"
)

// Order is a single payment attempt. ID doubles as the provider-facing
// transaction reference (vnp_TxnRef / MoMo orderId). Status only ever moves
// pending -> completed or pending -> failed, enforced by the conditional
// updates in the order repository.
type Order struct {
	ID          string `gorm:"primaryKey;size:64;not null"`
	UserID      string `gorm:"size:64;index;not null"`
	Status      string `gorm:"size:16;index;not null"` // pending, completed, failed
	Amount      int64  `gorm:"not null"`               // integer VND
	Currency    string `gorm:"size:8;not null"`
	Method      string `gorm:"size:16;not null"` // vnpay, momo
	PlanID      string `gorm:"size:64;not null"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Subscription is the per-user entitlement record, one row per user,
// written only by the subscription service.
type Subscription struct {
	UserID      string `gorm:"primaryKey;size:64;not null"`
	PlanID      string `gorm:"size:64;not null"` // "free", "premium-monthly", ...
	Tier        string `gorm:"size:16;not null"` // free, premium
	StartDate   time.Time
	EndDate     *time.Time // nil for the free tier
	AutoRenew   bool
	Price       int64  `gorm:"not null"`
	Currency    string `gorm:"size:8;not null"`
	LastOrderID string `gorm:"size:64"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SubscriptionPlan struct {
	PlanID       string `gorm:"primaryKey;size:64;not null"`
	Tier         string `gorm:"size:16;not null"`
	Name         string `gorm:"size:128;not null"`
	Price        int64  `gorm:"not null"`
	Currency     string `gorm:"size:8;not null"`
	BillingCycle string `gorm:"size:16;not null"` // monthly, yearly
	Features     string `gorm:"type:text"`        // newline-separated feature list
	PopularPlan  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PaymentMethod struct {
	ID        string `gorm:"primaryKey;size:64;not null"`
	UserID    string `gorm:"size:64;index;not null"`
	Type      string `gorm:"size:16;not null"` // vnpay, momo
	Label     string `gorm:"size:128;not null"`
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
