package db_models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubStatusActive        SubscriptionStatus = "ACTIVE"
	SubStatusCancelled     SubscriptionStatus = "CANCELLED"
	SubStatusPaymentFailed SubscriptionStatus = "PAYMENT_FAILED"
	SubStatusExpired       SubscriptionStatus = "EXPIRED"
)

type SubscriptionType string

const (
	SubTypeRegular   SubscriptionType = "REGULAR"
	SubTypePromotion SubscriptionType = "PROMOTION"
)

type Subscription struct {
	BaseModel
	CustomerID      uuid.UUID  `gorm:"index"`
	PlanID          uuid.UUID  `gorm:"index"`
	PaymentMethodID *uuid.UUID `gorm:"index"`

	SubscribedPrice int64 // price snapshot at subscription time

	Status SubscriptionStatus `gorm:"default:ACTIVE;index"`

	CurrentPeriodStart time.Time  `gorm:"type:date"`
	CurrentPeriodEnd   time.Time  `gorm:"type:date"`
	NextBillingDate    time.Time  `gorm:"type:date;index"`
	LastBillingDate    *time.Time `gorm:"type:date"`

	PaymentFailedCount  int `gorm:"default:0"`
	LastPaymentFailedAt *int64

	CancelledAt        *int64
	CancellationReason string

	SubscriptionType SubscriptionType `gorm:"default:REGULAR"`
	PromotionNote    string

	Customer      Customer         `gorm:"foreignKey:CustomerID"`
	Plan          SubscriptionPlan `gorm:"foreignKey:PlanID"`
	PaymentMethod *PaymentMethod   `gorm:"foreignKey:PaymentMethodID"`
}

// UpdateBillingDates advances the period after a successful charge.
// The new period starts the day after the previous period end.
func (s *Subscription) UpdateBillingDates(nextBillingDate, currentPeriodEnd time.Time) {
	s.CurrentPeriodStart = s.CurrentPeriodEnd.AddDate(0, 0, 1)
	s.CurrentPeriodEnd = currentPeriodEnd
	s.NextBillingDate = nextBillingDate
}

// ResetPaymentFailure clears the consecutive-failure counter after any
// successful charge.
func (s *Subscription) ResetPaymentFailure(lastBillingDate time.Time) {
	s.PaymentFailedCount = 0
	s.LastPaymentFailedAt = nil
	s.LastBillingDate = &lastBillingDate
}

func (s *Subscription) IncrementPaymentFailure(at int64) int {
	s.PaymentFailedCount++
	s.LastPaymentFailedAt = &at
	return s.PaymentFailedCount
}

func (s *Subscription) Cancel(reason string, at int64) {
	s.Status = SubStatusCancelled
	s.CancellationReason = reason
	s.CancelledAt = &at
}
