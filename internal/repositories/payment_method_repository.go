package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tradementor/internal/models/db_models"
	"tradementor/pkg/utils"
)

type IPaymentMethodRepository interface {
	Create(ctx context.Context, method *db_models.PaymentMethod) error
	Save(ctx context.Context, method *db_models.PaymentMethod) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.PaymentMethod, error)
	FindPrimaryByCustomerID(ctx context.Context, customerID uuid.UUID) (*db_models.PaymentMethod, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]db_models.PaymentMethod, error)

	// MakePrimary promotes the method and demotes the customer's other
	// methods inside one transaction, keeping the at-most-one-primary
	// invariant.
	MakePrimary(ctx context.Context, customerID, methodID uuid.UUID) error
}

type PaymentMethodRepository struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) IPaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

func (r *PaymentMethodRepository) Create(ctx context.Context, method *db_models.PaymentMethod) error {
	return r.db.WithContext(ctx).Create(method).Error
}

func (r *PaymentMethodRepository) Save(ctx context.Context, method *db_models.PaymentMethod) error {
	return r.db.WithContext(ctx).Save(method).Error
}

func (r *PaymentMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.PaymentMethod, error) {
	var method db_models.PaymentMethod
	err := r.db.WithContext(ctx).First(&method, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &method, nil
}

func (r *PaymentMethodRepository) FindPrimaryByCustomerID(ctx context.Context, customerID uuid.UUID) (*db_models.PaymentMethod, error) {
	var method db_models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND is_primary = TRUE AND is_deleted = FALSE", customerID).
		First(&method).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

func (r *PaymentMethodRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]db_models.PaymentMethod, error) {
	var methods []db_models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND is_deleted = FALSE", customerID).
		Order("created_at DESC").
		Find(&methods).Error
	return methods, err
}

func (r *PaymentMethodRepository) MakePrimary(ctx context.Context, customerID, methodID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var method db_models.PaymentMethod
		if err := tx.First(&method, "id = ? AND customer_id = ? AND is_deleted = FALSE",
			methodID, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrNotFound
			}
			return err
		}

		if err := tx.Model(&db_models.PaymentMethod{}).
			Where("customer_id = ? AND is_primary = TRUE", customerID).
			Update("is_primary", false).Error; err != nil {
			return err
		}

		return tx.Model(&method).Update("is_primary", true).Error
	})
}
