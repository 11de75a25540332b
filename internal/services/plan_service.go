package services

import (
	"context"

	"github.com/google/uuid"

	"tradementor/internal/models/db_models"
	"tradementor/internal/models/response_models"
	"tradementor/internal/repositories"
)

type PlanService interface {
	GetPlans(ctx context.Context) ([]response_models.SubscriptionPlanResponse, error)
	CreatePlan(ctx context.Context, code, name string, description *string, price int64, currency string) (*response_models.SubscriptionPlanResponse, error)
	ActivatePlan(ctx context.Context, id uuid.UUID) error
}

type planService struct {
	planRepo repositories.IPlanRepository
}

func NewPlanService(planRepo repositories.IPlanRepository) PlanService {
	return &planService{planRepo: planRepo}
}

func (p *planService) GetPlans(ctx context.Context) ([]response_models.SubscriptionPlanResponse, error) {
	plans, err := p.planRepo.GetAllPlans(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]response_models.SubscriptionPlanResponse, 0, len(plans))
	for _, plan := range plans {
		result = append(result, toPlanResponse(&plan))
	}
	return result, nil
}

func (p *planService) CreatePlan(ctx context.Context, code, name string, description *string, price int64, currency string) (*response_models.SubscriptionPlanResponse, error) {
	plan := &db_models.SubscriptionPlan{
		Code:        code,
		Name:        name,
		Description: description,
		PriceMinor:  price,
		Currency:    currency,
		IsActive:    false,
	}
	if err := p.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	resp := toPlanResponse(plan)
	return &resp, nil
}

func (p *planService) ActivatePlan(ctx context.Context, id uuid.UUID) error {
	return p.planRepo.Activate(ctx, id)
}

func toPlanResponse(plan *db_models.SubscriptionPlan) response_models.SubscriptionPlanResponse {
	return response_models.SubscriptionPlanResponse{
		ID:          plan.ID.String(),
		Code:        plan.Code,
		Name:        plan.Name,
		Description: plan.Description,
		Price:       plan.PriceMinor,
		Currency:    plan.Currency,
		IsActive:    plan.IsActive,
	}
}
