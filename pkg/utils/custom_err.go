package utils

import "errors"

var (
	ErrNotFound    = errors.New("record not found")
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidCred = errors.New("invalid credentials")
	ErrDatabase    = errors.New("database error")

	ErrSlotBlocked          = errors.New("consultation slot is blocked")
	ErrSlotFull             = errors.New("consultation slot is full")
	ErrDuplicateReservation = errors.New("duplicate reservation for slot")

	ErrSubscriptionExists = errors.New("active subscription already exists")
	ErrPlanAlreadyActive  = errors.New("plan is already active")
	ErrNoActivePlan       = errors.New("no active subscription plan")
	ErrNoPaymentMethod    = errors.New("no usable payment method")
	ErrInvalidState       = errors.New("invalid state transition")
	ErrEmailTaken         = errors.New("email already registered")
	ErrCodeMismatch       = errors.New("verification code mismatch or expired")

	ErrGateway = errors.New("payment gateway error")
)
