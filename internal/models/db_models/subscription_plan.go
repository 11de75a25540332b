package db_models

type SubscriptionPlan struct {
	BaseModel
	Code        string `gorm:"uniqueIndex"` // e.g. "standard_monthly"
	Name        string
	Description *string
	PriceMinor  int64  // 59000 = 59,000 KRW (zero-decimal currency)
	Currency    string `gorm:"size:3"`
	IsActive    bool   `gorm:"default:false;index"`
}
