package request_models

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type CreatePlanRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Price       int64   `json:"price" binding:"required,gt=0"`
	Currency    string  `json:"currency" binding:"required,len=3"`
}

type CreateSubscriptionRequest struct {
	PlanID          string `json:"plan_id" binding:"required,uuid"`
	PaymentMethodID string `json:"payment_method_id" binding:"required,uuid"`
}

type CancelSubscriptionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type UpdateSubscriptionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type RegisterPaymentMethodRequest struct {
	TxTID       string `json:"tx_tid" binding:"required"`
	AuthToken   string `json:"auth_token" binding:"required"`
	MakePrimary bool   `json:"make_primary"`
}

type CreateConsultationRequest struct {
	Date string `json:"date" binding:"required"` // yyyy-mm-dd
	Time string `json:"time" binding:"required"` // "HH:MM"
}

type UpdateConsultationRequest struct {
	NewDate string `json:"new_date" binding:"required"`
	NewTime string `json:"new_time" binding:"required"`
}

type BlockSlotRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

type LevelTestAnswer struct {
	QuestionID   string `json:"question_id" binding:"required,uuid"`
	ChoiceNumber *int   `json:"choice_number"`
	AnswerText   string `json:"answer_text"`
}

type SubmitLevelTestRequest struct {
	Answers []LevelTestAnswer `json:"answers" binding:"required,min=1,dive"`
}
