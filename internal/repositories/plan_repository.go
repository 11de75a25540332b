package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tradementor/internal/models/db_models"
	"tradementor/pkg/utils"
)

type IPlanRepository interface {
	Create(ctx context.Context, plan *db_models.SubscriptionPlan) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.SubscriptionPlan, error)
	FindActive(ctx context.Context) (*db_models.SubscriptionPlan, error)
	GetAllPlans(ctx context.Context) ([]db_models.SubscriptionPlan, error)

	// Activate makes the plan the single active one; every other plan
	// is deactivated in the same transaction.
	Activate(ctx context.Context, id uuid.UUID) error
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, plan *db_models.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *PlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.SubscriptionPlan, error) {
	var plan db_models.SubscriptionPlan
	err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) FindActive(ctx context.Context) (*db_models.SubscriptionPlan, error) {
	var plan db_models.SubscriptionPlan
	err := r.db.WithContext(ctx).First(&plan, "is_active = TRUE").Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) GetAllPlans(ctx context.Context) ([]db_models.SubscriptionPlan, error) {
	var plans []db_models.SubscriptionPlan
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PlanRepository) Activate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan db_models.SubscriptionPlan
		if err := tx.First(&plan, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrNotFound
			}
			return err
		}
		if plan.IsActive {
			return utils.ErrPlanAlreadyActive
		}

		if err := tx.Model(&db_models.SubscriptionPlan{}).
			Where("is_active = TRUE").
			Update("is_active", false).Error; err != nil {
			return err
		}

		return tx.Model(&plan).Update("is_active", true).Error
	})
}
