package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tradementor/internal/gateway"
	"tradementor/internal/models/db_models"
	"tradementor/internal/repositories"
	"tradementor/pkg/utils"
)

// MaxPaymentFailureCount is the number of consecutive charge failures
// after which a subscription transitions to PAYMENT_FAILED. Automatic
// retry stops there; recovery needs customer or admin intervention.
const MaxPaymentFailureCount = 3

// PromotionConfig describes the enrollment window during which
// subscriptions are billed at the promotion amount and granted
// FreeMonths per cycle instead of one.
type PromotionConfig struct {
	StartDate     time.Time
	EndDate       time.Time
	FreeMonths    int
	PaymentAmount int64
}

func (p PromotionConfig) Contains(date time.Time) bool {
	d := utils.DateOnly(date)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

func DefaultPromotionConfig() PromotionConfig {
	return PromotionConfig{
		StartDate:     time.Date(2025, 12, 5, 0, 0, 0, 0, utils.KST()),
		EndDate:       time.Date(2025, 12, 17, 0, 0, 0, 0, utils.KST()),
		FreeMonths:    2,
		PaymentAmount: 0,
	}
}

type BillingService interface {
	// ProcessRecurringPayments sweeps every ACTIVE subscription whose
	// next billing date has arrived and charges it. One subscription's
	// failure never aborts the sweep. Returns the success count.
	ProcessRecurringPayments(ctx context.Context) (int, error)

	ExecutePaymentForSubscription(ctx context.Context, sub *db_models.Subscription) error
}

type billingService struct {
	subscriptionRepo repositories.ISubscriptionRepository
	planRepo         repositories.IPlanRepository
	paymentRepo      repositories.IPaymentRepository
	methodRepo       repositories.IPaymentMethodRepository
	customerRepo     repositories.ICustomerRepository
	gw               gateway.Client
	mail             MailService
	promo            PromotionConfig
	logger           *zap.Logger

	now func() time.Time
}

func NewBillingService(
	subscriptionRepo repositories.ISubscriptionRepository,
	planRepo repositories.IPlanRepository,
	paymentRepo repositories.IPaymentRepository,
	methodRepo repositories.IPaymentMethodRepository,
	customerRepo repositories.ICustomerRepository,
	gw gateway.Client,
	mail MailService,
	promo PromotionConfig,
	logger *zap.Logger,
) BillingService {
	return &billingService{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		paymentRepo:      paymentRepo,
		methodRepo:       methodRepo,
		customerRepo:     customerRepo,
		gw:               gw,
		mail:             mail,
		promo:            promo,
		logger:           logger,
		now:              utils.NowKST,
	}
}

func (s *billingService) ProcessRecurringPayments(ctx context.Context) (int, error) {
	today := utils.DateOnly(s.now())

	due, err := s.subscriptionRepo.FindDueForBilling(ctx, today)
	if err != nil {
		return 0, err
	}

	s.logger.Info("recurring payment sweep started",
		zap.Int("due_subscriptions", len(due)))

	successCount := 0
	failureCount := 0

	for i := range due {
		sub := due[i]
		if err := s.ExecutePaymentForSubscription(ctx, &sub); err != nil {
			s.logger.Error("subscription billing failed",
				zap.String("subscription_id", sub.ID.String()),
				zap.Error(err))
			failureCount++
			continue
		}
		successCount++
	}

	s.logger.Info("recurring payment sweep finished",
		zap.Int("success", successCount),
		zap.Int("failure", failureCount))

	return successCount, nil
}

func (s *billingService) ExecutePaymentForSubscription(ctx context.Context, sub *db_models.Subscription) error {
	plan, err := s.planRepo.FindActive(ctx)
	if err != nil {
		return err
	}
	if plan == nil {
		return utils.ErrNoActivePlan
	}

	method, err := s.resolvePaymentMethod(ctx, sub)
	if err != nil {
		return err
	}
	if method == nil {
		// No usable billing credential: expire the subscription and
		// stop; no Payment row is created for a charge never attempted.
		s.logger.Warn("no usable payment method, expiring subscription",
			zap.String("subscription_id", sub.ID.String()),
			zap.String("customer_id", sub.CustomerID.String()))
		if err := s.subscriptionRepo.UpdateStatus(ctx, sub.ID, db_models.SubStatusExpired); err != nil {
			return err
		}
		if s.mail != nil {
			if customer, err := s.customerRepo.FindByID(ctx, sub.CustomerID); err == nil {
				if err := s.mail.SendSubscriptionExpiredNotice(customer.Email, customer.Name); err != nil {
					s.logger.Warn("subscription expired notice mail failed", zap.Error(err))
				}
			}
		}
		return nil
	}

	today := utils.DateOnly(s.now())
	inPromotion := s.promo.Contains(today)

	amount := plan.PriceMinor
	if inPromotion {
		amount = s.promo.PaymentAmount
	}

	isFirstPayment := sub.LastBillingDate == nil

	var periodStart, periodEnd, nextBillingDate time.Time
	if isFirstPayment {
		// First charge bills the period fixed at subscription creation.
		periodStart = sub.CurrentPeriodStart
		periodEnd = sub.CurrentPeriodEnd
		nextBillingDate = sub.NextBillingDate
	} else {
		periodStart = sub.CurrentPeriodEnd.AddDate(0, 0, 1)
		months := 1
		if inPromotion {
			months = s.promo.FreeMonths
		}
		periodEnd = today.AddDate(0, months, -1)
		nextBillingDate = today.AddDate(0, months, 0)
	}

	paymentType := db_models.PaymentTypeRecurring
	if isFirstPayment {
		paymentType = db_models.PaymentTypeInitial
	}

	orderID := gateway.GenerateRecurringOrderID(sub.ID)
	goodsName := fmt.Sprintf("Subscription %d %d", int(periodStart.Month()), periodStart.Year())

	promotionDetail := ""
	if inPromotion {
		promotionDetail = fmt.Sprintf("promotion window %s ~ %s, %d months per cycle",
			utils.FormatDate(s.promo.StartDate), utils.FormatDate(s.promo.EndDate), s.promo.FreeMonths)
	}

	payment := &db_models.Payment{
		SubscriptionID:     sub.ID,
		CustomerID:         sub.CustomerID,
		PaymentMethodID:    &method.ID,
		OrderID:            orderID,
		OrderName:          fmt.Sprintf("%s %d-%02d subscription fee", plan.Name, periodStart.Year(), int(periodStart.Month())),
		Amount:             amount,
		Status:             db_models.PaymentStatusPending,
		PaymentType:        paymentType,
		RequestedAt:        s.now().Unix(),
		BillingPeriodStart: periodStart,
		BillingPeriodEnd:   periodEnd,
		IsPromotional:      inPromotion,
		PromotionDetail:    promotionDetail,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return err
	}

	if amount == 0 {
		// Promotion zero-amount charge: no gateway call at all.
		payment.MarkSuccess("PROMO-"+orderID, "000000", "3001", "promotion free charge", s.now().Unix())
		return s.applyChargeSuccess(ctx, sub, payment, nextBillingDate, periodEnd, today, isFirstPayment)
	}

	result, err := s.gw.Charge(ctx, gateway.ChargeRequest{
		BillingKey: method.BillingKey,
		OrderID:    orderID,
		GoodsName:  goodsName,
		Amount:     amount,
	})
	if err != nil {
		return s.applyChargeFailure(ctx, sub, payment, err)
	}

	payment.MarkSuccess(result.TID, result.AuthCode, result.ResultCode, result.ResultMessage, s.now().Unix())
	return s.applyChargeSuccess(ctx, sub, payment, nextBillingDate, periodEnd, today, isFirstPayment)
}

// resolvePaymentMethod validates the subscription's payment method,
// falling back to the customer's primary one. Returns nil when nothing
// usable exists.
func (s *billingService) resolvePaymentMethod(ctx context.Context, sub *db_models.Subscription) (*db_models.PaymentMethod, error) {
	method := sub.PaymentMethod
	if method.Usable() {
		return method, nil
	}

	s.logger.Warn("subscription payment method unusable, searching customer primary",
		zap.String("subscription_id", sub.ID.String()))

	primary, err := s.methodRepo.FindPrimaryByCustomerID(ctx, sub.CustomerID)
	if err != nil {
		return nil, err
	}
	if !primary.Usable() {
		return nil, nil
	}

	// Remember the fallback for the next cycle.
	sub.PaymentMethodID = &primary.ID
	sub.PaymentMethod = primary
	return primary, nil
}

func (s *billingService) applyChargeSuccess(
	ctx context.Context,
	sub *db_models.Subscription,
	payment *db_models.Payment,
	nextBillingDate, periodEnd, today time.Time,
	isFirstPayment bool,
) error {
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return err
	}

	if !isFirstPayment {
		sub.UpdateBillingDates(nextBillingDate, periodEnd)
	}
	sub.ResetPaymentFailure(today)

	if err := s.subscriptionRepo.Save(ctx, sub); err != nil {
		return err
	}

	expiredAt := utils.EndOfDayUnix(periodEnd)
	if err := s.customerRepo.UpdateMembership(ctx, sub.CustomerID, db_models.MembershipPremium, &expiredAt); err != nil {
		return err
	}

	s.logger.Info("charge succeeded",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("order_id", payment.OrderID),
		zap.Int64("amount", payment.Amount))
	return nil
}

func (s *billingService) applyChargeFailure(
	ctx context.Context,
	sub *db_models.Subscription,
	payment *db_models.Payment,
	chargeErr error,
) error {
	payment.MarkFailed("PAYMENT_FAILED", chargeErr.Error(), s.now().Unix())
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return err
	}

	failCount := sub.IncrementPaymentFailure(s.now().Unix())
	if err := s.subscriptionRepo.Save(ctx, sub); err != nil {
		return err
	}

	if failCount >= MaxPaymentFailureCount {
		if err := s.subscriptionRepo.UpdateStatus(ctx, sub.ID, db_models.SubStatusPaymentFailed); err != nil {
			return err
		}
		s.logger.Warn("subscription status ACTIVE -> PAYMENT_FAILED",
			zap.String("subscription_id", sub.ID.String()),
			zap.Int("failed_count", failCount))

		if s.mail != nil {
			if customer, err := s.customerRepo.FindByID(ctx, sub.CustomerID); err == nil {
				if err := s.mail.SendPaymentFailureNotice(customer.Email, customer.Name, failCount); err != nil {
					s.logger.Warn("payment failure notice mail failed", zap.Error(err))
				}
			}
		}
	}

	return fmt.Errorf("charge failed (attempt %d): %w", failCount, chargeErr)
}
