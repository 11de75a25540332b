package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tradementor/internal/models/db_models"
	"tradementor/pkg/utils"
)

type ILevelTestRepository interface {
	// AcquireForGrading is the atomic grading claim: a conditional
	// UPDATE flipping status from `from` to `to`. Exactly one caller
	// observes rows-affected = 1; everyone else gets 0.
	AcquireForGrading(ctx context.Context, attemptID uuid.UUID, from, to db_models.AttemptStatus) (int64, error)

	CreateAttempt(ctx context.Context, attempt *db_models.LevelTestAttempt, responses []db_models.LevelTestResponse) error
	SaveAttempt(ctx context.Context, attempt *db_models.LevelTestAttempt) error
	FindAttemptByID(ctx context.Context, id uuid.UUID) (*db_models.LevelTestAttempt, error)
	ListAttemptsByCustomer(ctx context.Context, customerID uuid.UUID) ([]db_models.LevelTestAttempt, error)

	ListResponsesByAttempt(ctx context.Context, attemptID uuid.UUID) ([]db_models.LevelTestResponse, error)
	SaveResponses(ctx context.Context, responses []db_models.LevelTestResponse) error

	ListQuestions(ctx context.Context) ([]db_models.LevelTestQuestion, error)
	FindQuestionsByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.LevelTestQuestion, error)
}

type LevelTestRepository struct {
	db *gorm.DB
}

func NewLevelTestRepository(db *gorm.DB) ILevelTestRepository {
	return &LevelTestRepository{db: db}
}

func (r *LevelTestRepository) AcquireForGrading(ctx context.Context, attemptID uuid.UUID, from, to db_models.AttemptStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.LevelTestAttempt{}).
		Where("id = ? AND status = ?", attemptID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *LevelTestRepository) CreateAttempt(ctx context.Context, attempt *db_models.LevelTestAttempt, responses []db_models.LevelTestResponse) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		for i := range responses {
			responses[i].AttemptID = attempt.ID
		}
		if len(responses) == 0 {
			return nil
		}
		return tx.Create(&responses).Error
	})
}

func (r *LevelTestRepository) SaveAttempt(ctx context.Context, attempt *db_models.LevelTestAttempt) error {
	return r.db.WithContext(ctx).Save(attempt).Error
}

func (r *LevelTestRepository) FindAttemptByID(ctx context.Context, id uuid.UUID) (*db_models.LevelTestAttempt, error) {
	var attempt db_models.LevelTestAttempt
	err := r.db.WithContext(ctx).First(&attempt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

func (r *LevelTestRepository) ListAttemptsByCustomer(ctx context.Context, customerID uuid.UUID) ([]db_models.LevelTestAttempt, error) {
	var attempts []db_models.LevelTestAttempt
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *LevelTestRepository) ListResponsesByAttempt(ctx context.Context, attemptID uuid.UUID) ([]db_models.LevelTestResponse, error) {
	var responses []db_models.LevelTestResponse
	err := r.db.WithContext(ctx).
		Preload("Question").
		Where("attempt_id = ?", attemptID).
		Find(&responses).Error
	return responses, err
}

func (r *LevelTestRepository) SaveResponses(ctx context.Context, responses []db_models.LevelTestResponse) error {
	if len(responses) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(&responses).Error
}

func (r *LevelTestRepository) ListQuestions(ctx context.Context) ([]db_models.LevelTestQuestion, error) {
	var questions []db_models.LevelTestQuestion
	err := r.db.WithContext(ctx).Order("number ASC").Find(&questions).Error
	return questions, err
}

func (r *LevelTestRepository) FindQuestionsByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.LevelTestQuestion, error) {
	var questions []db_models.LevelTestQuestion
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}
