package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradementor/internal/models/db_models"
	"tradementor/pkg/utils"
)

type IConsultationRepository interface {
	// InTx runs fn against a transaction-scoped repository. LockSlot
	// must only be called inside such a transaction: the row locks it
	// takes are held until the transaction commits.
	InTx(ctx context.Context, fn func(tx IConsultationRepository) error) error

	// LockSlot takes a pessimistic write lock on every booking of the
	// (date, time) slot, serializing concurrent bookers.
	LockSlot(ctx context.Context, date time.Time, slot string) ([]db_models.Consultation, error)

	Create(ctx context.Context, consultation *db_models.Consultation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByIDAndCustomerID(ctx context.Context, id, customerID uuid.UUID) (*db_models.Consultation, error)
	ExistsByCustomerAndSlot(ctx context.Context, customerID uuid.UUID, date time.Time, slot string) (bool, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]db_models.Consultation, error)

	// CountByDate aggregates the reserved count per time slot for the
	// lock-free availability read path.
	CountByDate(ctx context.Context, date time.Time) (map[string]int64, error)

	IsBlocked(ctx context.Context, date time.Time, slot string) (bool, error)
	ListBlockedSlots(ctx context.Context, date time.Time) ([]string, error)
	CreateBlock(ctx context.Context, block *db_models.ConsultationBlock) error
	DeleteBlock(ctx context.Context, date time.Time, slot string) error
}

type ConsultationRepository struct {
	db *gorm.DB
}

func NewConsultationRepository(db *gorm.DB) IConsultationRepository {
	return &ConsultationRepository{db: db}
}

func (r *ConsultationRepository) InTx(ctx context.Context, fn func(tx IConsultationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ConsultationRepository{db: tx})
	})
}

func (r *ConsultationRepository) LockSlot(ctx context.Context, date time.Time, slot string) ([]db_models.Consultation, error) {
	var existing []db_models.Consultation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("consultation_date = ? AND consultation_time = ?", date, slot).
		Find(&existing).Error
	return existing, err
}

func (r *ConsultationRepository) Create(ctx context.Context, consultation *db_models.Consultation) error {
	return r.db.WithContext(ctx).Create(consultation).Error
}

func (r *ConsultationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&db_models.Consultation{}, "id = ?", id).Error
}

func (r *ConsultationRepository) FindByIDAndCustomerID(ctx context.Context, id, customerID uuid.UUID) (*db_models.Consultation, error) {
	var consultation db_models.Consultation
	err := r.db.WithContext(ctx).
		First(&consultation, "id = ? AND customer_id = ?", id, customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &consultation, nil
}

func (r *ConsultationRepository) ExistsByCustomerAndSlot(ctx context.Context, customerID uuid.UUID, date time.Time, slot string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Consultation{}).
		Where("customer_id = ? AND consultation_date = ? AND consultation_time = ?", customerID, date, slot).
		Count(&count).Error
	return count > 0, err
}

func (r *ConsultationRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]db_models.Consultation, error) {
	var consultations []db_models.Consultation
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("consultation_date DESC, consultation_time DESC").
		Find(&consultations).Error
	return consultations, err
}

func (r *ConsultationRepository) CountByDate(ctx context.Context, date time.Time) (map[string]int64, error) {
	type timeCount struct {
		ConsultationTime string
		Cnt              int64
	}

	var rows []timeCount
	err := r.db.WithContext(ctx).
		Model(&db_models.Consultation{}).
		Select("consultation_time, count(*) as cnt").
		Where("consultation_date = ?", date).
		Group("consultation_time").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ConsultationTime] = row.Cnt
	}
	return counts, nil
}

func (r *ConsultationRepository) IsBlocked(ctx context.Context, date time.Time, slot string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db_models.ConsultationBlock{}).
		Where("block_date = ? AND block_time = ?", date, slot).
		Count(&count).Error
	return count > 0, err
}

func (r *ConsultationRepository) ListBlockedSlots(ctx context.Context, date time.Time) ([]string, error) {
	var blocks []db_models.ConsultationBlock
	err := r.db.WithContext(ctx).
		Where("block_date = ?", date).
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}

	slots := make([]string, 0, len(blocks))
	for _, b := range blocks {
		slots = append(slots, b.BlockTime)
	}
	return slots, nil
}

func (r *ConsultationRepository) CreateBlock(ctx context.Context, block *db_models.ConsultationBlock) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *ConsultationRepository) DeleteBlock(ctx context.Context, date time.Time, slot string) error {
	return r.db.WithContext(ctx).
		Where("block_date = ? AND block_time = ?", date, slot).
		Delete(&db_models.ConsultationBlock{}).Error
}
