package services

import (
	"context"

	"github.com/google/uuid"

	"tradementor/internal/models/db_models"
	"tradementor/internal/models/response_models"
	"tradementor/internal/repositories"
	"tradementor/pkg/utils"
)

type PaymentService interface {
	ListMine(ctx context.Context, customerID uuid.UUID) ([]response_models.PaymentResponse, error)
	ListAll(ctx context.Context, page, pageSize int) ([]response_models.PaymentResponse, int64, error)
}

type paymentService struct {
	paymentRepo repositories.IPaymentRepository
}

func NewPaymentService(paymentRepo repositories.IPaymentRepository) PaymentService {
	return &paymentService{paymentRepo: paymentRepo}
}

func (s *paymentService) ListMine(ctx context.Context, customerID uuid.UUID) ([]response_models.PaymentResponse, error) {
	payments, err := s.paymentRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toPaymentResponses(payments), nil
}

func (s *paymentService) ListAll(ctx context.Context, page, pageSize int) ([]response_models.PaymentResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	payments, total, err := s.paymentRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return toPaymentResponses(payments), total, nil
}

func toPaymentResponses(payments []db_models.Payment) []response_models.PaymentResponse {
	result := make([]response_models.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		result = append(result, response_models.PaymentResponse{
			ID:                 p.ID.String(),
			OrderID:            p.OrderID,
			OrderName:          p.OrderName,
			Amount:             p.Amount,
			Status:             string(p.Status),
			PaymentType:        string(p.PaymentType),
			RequestedAt:        p.RequestedAt,
			PaidAt:             p.PaidAt,
			FailedAt:           p.FailedAt,
			BillingPeriodStart: utils.FormatDate(p.BillingPeriodStart),
			BillingPeriodEnd:   utils.FormatDate(p.BillingPeriodEnd),
			FailureReason:      p.FailureReason,
			IsPromotional:      p.IsPromotional,
		})
	}
	return result
}
