package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradementor/internal/models/db_models"
	"tradementor/internal/models/response_models"
	"tradementor/internal/repositories"
	"tradementor/pkg/utils"
)

type SubscriptionService interface {
	// CreateWithFirstPayment creates the subscription and charges the
	// first payment immediately. A customer may hold at most one
	// ACTIVE subscription.
	CreateWithFirstPayment(ctx context.Context, customerID, planID, paymentMethodID uuid.UUID) (*response_models.SubscriptionResponse, error)

	Cancel(ctx context.Context, customerID uuid.UUID, reason string) error
	GetMine(ctx context.Context, customerID uuid.UUID) (*response_models.SubscriptionResponse, error)

	// UpdateStatus is the admin override for stuck subscriptions.
	UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.SubscriptionStatus) error
}

type subscriptionService struct {
	subscriptionRepo repositories.ISubscriptionRepository
	planRepo         repositories.IPlanRepository
	methodRepo       repositories.IPaymentMethodRepository
	billing          BillingService
	promo            PromotionConfig
	logger           *zap.Logger

	now func() time.Time
}

func NewSubscriptionService(
	subscriptionRepo repositories.ISubscriptionRepository,
	planRepo repositories.IPlanRepository,
	methodRepo repositories.IPaymentMethodRepository,
	billing BillingService,
	promo PromotionConfig,
	logger *zap.Logger,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		methodRepo:       methodRepo,
		billing:          billing,
		promo:            promo,
		logger:           logger,
		now:              utils.NowKST,
	}
}

func (s *subscriptionService) CreateWithFirstPayment(ctx context.Context, customerID, planID, paymentMethodID uuid.UUID) (*response_models.SubscriptionResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	method, err := s.methodRepo.FindByID(ctx, paymentMethodID)
	if err != nil {
		return nil, err
	}
	if method.CustomerID != customerID {
		return nil, utils.ErrForbidden
	}
	if !method.Usable() {
		return nil, utils.ErrNoPaymentMethod
	}

	existing, err := s.subscriptionRepo.FindActiveByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrSubscriptionExists
	}

	today := utils.DateOnly(s.now())
	subType := db_models.SubTypeRegular
	promotionNote := ""
	periodMonths := 1
	if s.promo.Contains(today) {
		subType = db_models.SubTypePromotion
		periodMonths = s.promo.FreeMonths
		promotionNote = "promotion enrollment, " +
			utils.FormatDate(s.promo.StartDate) + " ~ " + utils.FormatDate(s.promo.EndDate)
	}

	currentPeriodEnd := today.AddDate(0, periodMonths, -1)
	nextBillingDate := currentPeriodEnd.AddDate(0, 0, 1)

	sub := &db_models.Subscription{
		CustomerID:         customerID,
		PlanID:             plan.ID,
		PaymentMethodID:    &method.ID,
		SubscribedPrice:    plan.PriceMinor,
		Status:             db_models.SubStatusActive,
		CurrentPeriodStart: today,
		CurrentPeriodEnd:   currentPeriodEnd,
		NextBillingDate:    nextBillingDate,
		SubscriptionType:   subType,
		PromotionNote:      promotionNote,
		PaymentMethod:      method,
	}

	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	if err := s.billing.ExecutePaymentForSubscription(ctx, sub); err != nil {
		s.logger.Error("first payment failed",
			zap.String("subscription_id", sub.ID.String()),
			zap.Error(err))
		// A subscription whose first charge never went through must not
		// block re-enrollment through the duplicate-active guard.
		if stErr := s.subscriptionRepo.UpdateStatus(ctx, sub.ID, db_models.SubStatusPaymentFailed); stErr != nil {
			s.logger.Error("failed to mark unpaid subscription",
				zap.String("subscription_id", sub.ID.String()),
				zap.Error(stErr))
		}
		return nil, err
	}

	created, err := s.subscriptionRepo.FindByID(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponse(created), nil
}

func (s *subscriptionService) Cancel(ctx context.Context, customerID uuid.UUID, reason string) error {
	sub, err := s.subscriptionRepo.FindActiveByCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	if sub == nil {
		return utils.ErrNotFound
	}

	sub.Cancel(reason, s.now().Unix())
	return s.subscriptionRepo.Save(ctx, sub)
}

func (s *subscriptionService) GetMine(ctx context.Context, customerID uuid.UUID) (*response_models.SubscriptionResponse, error) {
	sub, err := s.subscriptionRepo.FindActiveByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, utils.ErrNotFound
	}
	return toSubscriptionResponse(sub), nil
}

func (s *subscriptionService) UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.SubscriptionStatus) error {
	switch status {
	case db_models.SubStatusActive, db_models.SubStatusCancelled,
		db_models.SubStatusPaymentFailed, db_models.SubStatusExpired:
	default:
		return utils.ErrInvalidState
	}

	if _, err := s.subscriptionRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.subscriptionRepo.UpdateStatus(ctx, id, status)
}

func toSubscriptionResponse(sub *db_models.Subscription) *response_models.SubscriptionResponse {
	resp := &response_models.SubscriptionResponse{
		ID:                 sub.ID.String(),
		Status:             string(sub.Status),
		SubscribedPrice:    sub.SubscribedPrice,
		CurrentPeriodStart: utils.FormatDate(sub.CurrentPeriodStart),
		CurrentPeriodEnd:   utils.FormatDate(sub.CurrentPeriodEnd),
		NextBillingDate:    utils.FormatDate(sub.NextBillingDate),
		PaymentFailedCount: sub.PaymentFailedCount,
		SubscriptionType:   string(sub.SubscriptionType),
		PromotionNote:      sub.PromotionNote,
	}
	if sub.LastBillingDate != nil {
		resp.LastBillingDate = utils.FormatDate(*sub.LastBillingDate)
	}
	return resp
}
