package db_models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSuccess   PaymentStatus = "SUCCESS"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

type PaymentType string

const (
	PaymentTypeInitial   PaymentType = "INITIAL"
	PaymentTypeRecurring PaymentType = "RECURRING"
	PaymentTypeManual    PaymentType = "MANUAL"
)

// Payment is one row per gateway charge attempt. Rows are never deleted;
// OrderID is the idempotency key toward the gateway.
type Payment struct {
	BaseModel
	SubscriptionID  uuid.UUID  `gorm:"index"`
	CustomerID      uuid.UUID  `gorm:"index"`
	PaymentMethodID *uuid.UUID `gorm:"index"`

	OrderID   string `gorm:"uniqueIndex"`
	OrderName string
	Amount    int64

	Status      PaymentStatus `gorm:"default:PENDING;index"`
	PaymentType PaymentType   `gorm:"default:RECURRING"`

	PgTID           string `gorm:"index"`
	PgAuthCode      string
	PgResultCode    string
	PgResultMessage string

	RequestedAt int64
	PaidAt      *int64
	FailedAt    *int64

	BillingPeriodStart time.Time `gorm:"type:date"`
	BillingPeriodEnd   time.Time `gorm:"type:date"`

	FailureCode   string
	FailureReason string

	IsPromotional   bool `gorm:"default:false"`
	PromotionDetail string

	Subscription Subscription `gorm:"foreignKey:SubscriptionID"`
	Customer     Customer     `gorm:"foreignKey:CustomerID"`
}

func (p *Payment) MarkSuccess(tid, authCode, resultCode, resultMessage string, at int64) {
	p.Status = PaymentStatusSuccess
	p.PgTID = tid
	p.PgAuthCode = authCode
	p.PgResultCode = resultCode
	p.PgResultMessage = resultMessage
	p.PaidAt = &at
}

func (p *Payment) MarkFailed(code, reason string, at int64) {
	p.Status = PaymentStatusFailed
	p.FailureCode = code
	p.FailureReason = reason
	p.FailedAt = &at
}
