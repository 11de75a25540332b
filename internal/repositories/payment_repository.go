package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tradementor/internal/models/db_models"
	"tradementor/pkg/utils"
)

type IPaymentRepository interface {
	Create(ctx context.Context, payment *db_models.Payment) error
	Save(ctx context.Context, payment *db_models.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Payment, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]db_models.Payment, error)
	List(ctx context.Context, page, pageSize int) ([]db_models.Payment, int64, error)
}

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) IPaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *db_models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *PaymentRepository) Save(ctx context.Context, payment *db_models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Payment, error) {
	var payment db_models.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]db_models.Payment, error) {
	var payments []db_models.Payment
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("requested_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) List(ctx context.Context, page, pageSize int) ([]db_models.Payment, int64, error) {
	var payments []db_models.Payment
	var total int64

	if err := r.db.WithContext(ctx).Model(&db_models.Payment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("requested_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&payments).Error
	return payments, total, err
}
