package response_models

type PaymentResponse struct {
	ID                 string `json:"id"`
	OrderID            string `json:"order_id"`
	OrderName          string `json:"order_name"`
	Amount             int64  `json:"amount"`
	Status             string `json:"status"`
	PaymentType        string `json:"payment_type"`
	RequestedAt        int64  `json:"requested_at"`
	PaidAt             *int64 `json:"paid_at,omitempty"`
	FailedAt           *int64 `json:"failed_at,omitempty"`
	BillingPeriodStart string `json:"billing_period_start"`
	BillingPeriodEnd   string `json:"billing_period_end"`
	FailureReason      string `json:"failure_reason,omitempty"`
	IsPromotional      bool   `json:"is_promotional"`
}

type PaymentMethodResponse struct {
	ID           string `json:"id"`
	CardName     string `json:"card_name"`
	CardNoMasked string `json:"card_no_masked"`
	IsPrimary    bool   `json:"is_primary"`
}
