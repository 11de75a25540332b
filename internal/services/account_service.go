package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradementor/internal/models/db_models"
	"tradementor/internal/models/request_models"
	"tradementor/internal/models/response_models"
	"tradementor/internal/repositories"
	"tradementor/pkg/codestore"
	"tradementor/pkg/utils"
)

const (
	verificationCodeLen = 6
	verificationCodeTTL = 5 * time.Minute
)

type AccountService interface {
	Signup(ctx context.Context, req request_models.SignupRequest) (*response_models.AccountResponse, error)
	Login(ctx context.Context, req request_models.LoginRequest) (*response_models.LoginResponse, error)
	GetProfile(ctx context.Context, customerID uuid.UUID) (*response_models.AccountResponse, error)

	SendVerificationCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) error
}

type accountService struct {
	customerRepo repositories.ICustomerRepository
	codes        codestore.Store
	mail         MailService
	logger       *zap.Logger
}

func NewAccountService(
	customerRepo repositories.ICustomerRepository,
	codes codestore.Store,
	mail MailService,
	logger *zap.Logger,
) AccountService {
	return &accountService{
		customerRepo: customerRepo,
		codes:        codes,
		mail:         mail,
		logger:       logger,
	}
}

func (s *accountService) Signup(ctx context.Context, req request_models.SignupRequest) (*response_models.AccountResponse, error) {
	existing, err := s.customerRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrEmailTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	customer := &db_models.Customer{
		Email:           req.Email,
		PasswordHash:    hash,
		Name:            req.Name,
		Phone:           req.Phone,
		Role:            db_models.RoleCustomer,
		MembershipLevel: db_models.MembershipBasic,
		LevelTestStatus: db_models.LevelTestNotStarted,
		CourseStatus:    db_models.CourseInProgress,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer signed up", zap.String("customer_id", customer.ID.String()))
	return toAccountResponse(customer), nil
}

func (s *accountService) Login(ctx context.Context, req request_models.LoginRequest) (*response_models.LoginResponse, error) {
	customer, err := s.customerRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, utils.ErrInvalidCred
	}

	if err := utils.ComparePasswords(customer.PasswordHash, req.Password); err != nil {
		return nil, utils.ErrInvalidCred
	}

	token, err := utils.CreateToken(customer.ID, string(customer.Role))
	if err != nil {
		return nil, err
	}

	return &response_models.LoginResponse{
		Token: token,
		User:  *toAccountResponse(customer),
	}, nil
}

func (s *accountService) GetProfile(ctx context.Context, customerID uuid.UUID) (*response_models.AccountResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(customer), nil
}

func (s *accountService) SendVerificationCode(ctx context.Context, email string) error {
	code, err := utils.GenerateVerificationCode(verificationCodeLen)
	if err != nil {
		return err
	}

	if err := s.codes.Set(ctx, email, code, verificationCodeTTL); err != nil {
		return err
	}

	if err := s.mail.SendVerificationCode(email, code); err != nil {
		s.logger.Error("failed to send verification code", zap.String("email", email), zap.Error(err))
		return err
	}
	return nil
}

// VerifyCode compares against the stored code and consumes it only on a
// match, so a wrong guess does not burn a still-valid code.
func (s *accountService) VerifyCode(ctx context.Context, email, code string) error {
	stored, err := s.codes.Peek(ctx, email)
	if err != nil {
		return err
	}
	if stored == "" || stored != code {
		return utils.ErrCodeMismatch
	}
	if _, err := s.codes.Consume(ctx, email); err != nil {
		return err
	}
	return nil
}

func toAccountResponse(c *db_models.Customer) *response_models.AccountResponse {
	return &response_models.AccountResponse{
		ID:              c.ID.String(),
		Email:           c.Email,
		Name:            c.Name,
		Role:            string(c.Role),
		MembershipLevel: string(c.MembershipLevel),
		LevelTestStatus: string(c.LevelTestStatus),
	}
}
