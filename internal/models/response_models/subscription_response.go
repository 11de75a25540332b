package response_models

type SubscriptionResponse struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	SubscribedPrice    int64  `json:"subscribed_price"`
	CurrentPeriodStart string `json:"current_period_start"`
	CurrentPeriodEnd   string `json:"current_period_end"`
	NextBillingDate    string `json:"next_billing_date"`
	LastBillingDate    string `json:"last_billing_date,omitempty"`
	PaymentFailedCount int    `json:"payment_failed_count"`
	SubscriptionType   string `json:"subscription_type"`
	PromotionNote      string `json:"promotion_note,omitempty"`
}

type SubscriptionPlanResponse struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       int64   `json:"price"`
	Currency    string  `json:"currency"`
	IsActive    bool    `json:"is_active"`
}
