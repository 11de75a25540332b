package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradementor/internal/models/db_models"
	"tradementor/internal/models/request_models"
	"tradementor/internal/models/response_models"
	"tradementor/internal/repositories"
	"tradementor/pkg/utils"
)

type LevelTestService interface {
	// SubmitAttempt stores the attempt with its responses and triggers
	// grading asynchronously. Grading is also safe to re-trigger: the
	// grading claim makes duplicate triggers no-ops.
	SubmitAttempt(ctx context.Context, customerID uuid.UUID, req request_models.SubmitLevelTestRequest) (uuid.UUID, error)

	ListMyAttempts(ctx context.Context, customerID uuid.UUID) ([]response_models.LevelTestAttemptResponse, error)
	GetAttemptDetail(ctx context.Context, customerID, attemptID uuid.UUID) (*response_models.LevelTestAttemptDetailResponse, error)
}

type levelTestService struct {
	levelTestRepo repositories.ILevelTestRepository
	customerRepo  repositories.ICustomerRepository
	grading       GradingService
	logger        *zap.Logger
}

func NewLevelTestService(
	levelTestRepo repositories.ILevelTestRepository,
	customerRepo repositories.ICustomerRepository,
	grading GradingService,
	logger *zap.Logger,
) LevelTestService {
	return &levelTestService{
		levelTestRepo: levelTestRepo,
		customerRepo:  customerRepo,
		grading:       grading,
		logger:        logger,
	}
}

func (s *levelTestService) SubmitAttempt(ctx context.Context, customerID uuid.UUID, req request_models.SubmitLevelTestRequest) (uuid.UUID, error) {
	questionIDs := make([]uuid.UUID, 0, len(req.Answers))
	for _, a := range req.Answers {
		id, err := uuid.Parse(a.QuestionID)
		if err != nil {
			return uuid.Nil, utils.ErrInvalidState
		}
		questionIDs = append(questionIDs, id)
	}

	questions, err := s.levelTestRepo.FindQuestionsByIDs(ctx, questionIDs)
	if err != nil {
		return uuid.Nil, err
	}
	if len(questions) != len(questionIDs) {
		return uuid.Nil, utils.ErrNotFound
	}

	attempt := &db_models.LevelTestAttempt{
		CustomerID: customerID,
		Status:     db_models.AttemptSubmitted,
	}

	responses := make([]db_models.LevelTestResponse, 0, len(req.Answers))
	for i, a := range req.Answers {
		responses = append(responses, db_models.LevelTestResponse{
			QuestionID:   questionIDs[i],
			ChoiceNumber: a.ChoiceNumber,
			AnswerText:   a.AnswerText,
		})
	}

	if err := s.levelTestRepo.CreateAttempt(ctx, attempt, responses); err != nil {
		return uuid.Nil, err
	}

	if err := s.customerRepo.UpdateLevelTestStatus(ctx, customerID, db_models.LevelTestInProgress); err != nil {
		return uuid.Nil, err
	}

	// Grade off the request path; the claim keeps a concurrent retry
	// from double-processing.
	attemptID := attempt.ID
	go func() {
		if err := s.grading.GradeAttempt(context.Background(), attemptID); err != nil {
			s.logger.Error("async grading failed",
				zap.String("attempt_id", attemptID.String()),
				zap.Error(err))
		}
	}()

	return attempt.ID, nil
}

func (s *levelTestService) ListMyAttempts(ctx context.Context, customerID uuid.UUID) ([]response_models.LevelTestAttemptResponse, error) {
	attempts, err := s.levelTestRepo.ListAttemptsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	result := make([]response_models.LevelTestAttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		result = append(result, response_models.LevelTestAttemptResponse{
			ID:         a.ID.String(),
			Status:     string(a.Status),
			TotalScore: a.TotalScore,
			CreatedAt:  a.CreatedAt,
		})
	}
	return result, nil
}

func (s *levelTestService) GetAttemptDetail(ctx context.Context, customerID, attemptID uuid.UUID) (*response_models.LevelTestAttemptDetailResponse, error) {
	attempt, err := s.levelTestRepo.FindAttemptByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.CustomerID != customerID {
		return nil, utils.ErrForbidden
	}

	responses, err := s.levelTestRepo.ListResponsesByAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	detail := &response_models.LevelTestAttemptDetailResponse{
		LevelTestAttemptResponse: response_models.LevelTestAttemptResponse{
			ID:         attempt.ID.String(),
			Status:     string(attempt.Status),
			TotalScore: attempt.TotalScore,
			CreatedAt:  attempt.CreatedAt,
		},
	}
	for _, r := range responses {
		detail.Responses = append(detail.Responses, response_models.LevelTestResponseDetail{
			QuestionID:   r.QuestionID.String(),
			ChoiceNumber: r.ChoiceNumber,
			AnswerText:   r.AnswerText,
			ScoreAwarded: r.ScoreAwarded,
		})
	}
	return detail, nil
}
