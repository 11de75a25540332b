package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tradementor/internal/models/db_models"
	"tradementor/pkg/utils"
)

type ICustomerRepository interface {
	Create(ctx context.Context, customer *db_models.Customer) error
	Save(ctx context.Context, customer *db_models.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Customer, error)

	UpdateMembership(ctx context.Context, id uuid.UUID, level db_models.MembershipLevel, expiredAt *int64) error
	UpdateLevelTestStatus(ctx context.Context, id uuid.UUID, status db_models.LevelTestProgress) error

	FindExpiredPremium(ctx context.Context, now int64) ([]db_models.Customer, error)
	SaveAll(ctx context.Context, customers []db_models.Customer) error
	ListByCourseStatus(ctx context.Context, status db_models.CourseStatus) ([]db_models.Customer, error)

	PurgeDeletedBefore(ctx context.Context, threshold time.Time) (int64, error)
}

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) ICustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *db_models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *CustomerRepository) Save(ctx context.Context, customer *db_models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *CustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Customer, error) {
	var customer db_models.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*db_models.Customer, error) {
	var customer db_models.Customer
	err := r.db.WithContext(ctx).First(&customer, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) UpdateMembership(ctx context.Context, id uuid.UUID, level db_models.MembershipLevel, expiredAt *int64) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"membership_level":      level,
			"membership_expired_at": expiredAt,
		}).Error
}

func (r *CustomerRepository) UpdateLevelTestStatus(ctx context.Context, id uuid.UUID, status db_models.LevelTestProgress) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Customer{}).
		Where("id = ?", id).
		Update("level_test_status", status).Error
}

func (r *CustomerRepository) FindExpiredPremium(ctx context.Context, now int64) ([]db_models.Customer, error) {
	var customers []db_models.Customer
	err := r.db.WithContext(ctx).
		Where("membership_level = ? AND membership_expired_at IS NOT NULL AND membership_expired_at < ?",
			db_models.MembershipPremium, now).
		Find(&customers).Error
	return customers, err
}

func (r *CustomerRepository) SaveAll(ctx context.Context, customers []db_models.Customer) error {
	if len(customers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(&customers).Error
}

func (r *CustomerRepository) ListByCourseStatus(ctx context.Context, status db_models.CourseStatus) ([]db_models.Customer, error) {
	var customers []db_models.Customer
	err := r.db.WithContext(ctx).
		Where("course_status = ?", status).
		Find(&customers).Error
	return customers, err
}

// PurgeDeletedBefore physically removes customers soft-deleted before
// the threshold.
func (r *CustomerRepository) PurgeDeletedBefore(ctx context.Context, threshold time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", threshold).
		Delete(&db_models.Customer{})
	return res.RowsAffected, res.Error
}
