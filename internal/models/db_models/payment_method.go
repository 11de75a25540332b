package db_models

import (
	"github.com/google/uuid"
)

// PaymentMethod stores a gateway-issued billing key. At most one
// non-deleted method per customer is primary.
type PaymentMethod struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"index"`

	BillingKey   string // gateway token; never raw card data
	CardName     string
	CardNoMasked string

	IsPrimary bool `gorm:"default:false;index"`
	IsActive  bool `gorm:"default:true"`
	IsDeleted bool `gorm:"default:false"`

	ExpiresAt *int64

	Customer Customer `gorm:"foreignKey:CustomerID"`
}

func (m *PaymentMethod) Usable() bool {
	return m != nil && !m.IsDeleted && m.IsActive && m.BillingKey != ""
}
