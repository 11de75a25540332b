package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradementor/internal/models/db_models"
	"tradementor/internal/repositories"
)

// GradingService grades submitted level-test attempts. Concurrent
// graders (a synchronous request racing a retried async trigger, or two
// instances) are serialized by an atomic claim: the status flip
// SUBMITTED -> GRADING happens as one conditional update, so exactly
// one execution proceeds and the rest are benign no-ops.
type GradingService interface {
	GradeAttempt(ctx context.Context, attemptID uuid.UUID) error
}

type gradingService struct {
	levelTestRepo repositories.ILevelTestRepository
	customerRepo  repositories.ICustomerRepository
	logger        *zap.Logger
}

func NewGradingService(
	levelTestRepo repositories.ILevelTestRepository,
	customerRepo repositories.ICustomerRepository,
	logger *zap.Logger,
) GradingService {
	return &gradingService{
		levelTestRepo: levelTestRepo,
		customerRepo:  customerRepo,
		logger:        logger,
	}
}

func (s *gradingService) GradeAttempt(ctx context.Context, attemptID uuid.UUID) error {
	acquired, err := s.levelTestRepo.AcquireForGrading(ctx, attemptID,
		db_models.AttemptSubmitted, db_models.AttemptGrading)
	if err != nil {
		return err
	}
	if acquired == 0 {
		// Another execution already claimed or finished this attempt.
		s.logger.Debug("grading claim lost, skipping",
			zap.String("attempt_id", attemptID.String()))
		return nil
	}

	attempt, err := s.levelTestRepo.FindAttemptByID(ctx, attemptID)
	if err != nil {
		return err
	}

	responses, err := s.levelTestRepo.ListResponsesByAttempt(ctx, attemptID)
	if err != nil {
		return err
	}

	total := 0
	for i := range responses {
		r := &responses[i]
		q := r.Question

		if q.ProblemType == db_models.ProblemMultipleChoice {
			awarded := 0
			if q.CorrectChoice != nil && r.ChoiceNumber != nil && *q.CorrectChoice == *r.ChoiceNumber {
				awarded = q.Score
			}
			r.ScoreAwarded = &awarded
			total += awarded
			continue
		}

		// Free-text answers keep whatever was recorded; default zero.
		if r.ScoreAwarded == nil {
			zero := 0
			r.ScoreAwarded = &zero
		}
		total += *r.ScoreAwarded
	}

	if err := s.levelTestRepo.SaveResponses(ctx, responses); err != nil {
		return err
	}

	attempt.TotalScore = total
	attempt.Status = db_models.AttemptGraded
	if err := s.levelTestRepo.SaveAttempt(ctx, attempt); err != nil {
		return err
	}

	if err := s.customerRepo.UpdateLevelTestStatus(ctx, attempt.CustomerID, db_models.LevelTestCompleted); err != nil {
		return err
	}

	s.logger.Info("attempt graded",
		zap.String("attempt_id", attemptID.String()),
		zap.Int("total_score", total))
	return nil
}
