package billing_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tradementor/internal/api/controllers"
	"tradementor/internal/gateway"
	"tradementor/internal/repositories"
	"tradementor/internal/services"
)

var Module = fx.Provide(
	providePlanRepo, provideSubscriptionRepo, providePaymentRepo, providePaymentMethodRepo,
	providePromotionConfig,
	provideBillingService, providePlanService, provideSubscriptionService,
	providePaymentService, providePaymentMethodService,
	providePlanController, provideSubscriptionController, providePaymentController,
)

func providePlanRepo(db *gorm.DB) repositories.IPlanRepository {
	return repositories.NewPlanRepository(db)
}

func provideSubscriptionRepo(db *gorm.DB) repositories.ISubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func providePaymentRepo(db *gorm.DB) repositories.IPaymentRepository {
	return repositories.NewPaymentRepository(db)
}

func providePaymentMethodRepo(db *gorm.DB) repositories.IPaymentMethodRepository {
	return repositories.NewPaymentMethodRepository(db)
}

func providePromotionConfig() services.PromotionConfig {
	return services.DefaultPromotionConfig()
}

func provideBillingService(
	subscriptionRepo repositories.ISubscriptionRepository,
	planRepo repositories.IPlanRepository,
	paymentRepo repositories.IPaymentRepository,
	methodRepo repositories.IPaymentMethodRepository,
	customerRepo repositories.ICustomerRepository,
	gw gateway.Client,
	mail services.MailService,
	promo services.PromotionConfig,
	logger *zap.Logger,
) services.BillingService {
	return services.NewBillingService(
		subscriptionRepo, planRepo, paymentRepo, methodRepo, customerRepo,
		gw, mail, promo, logger)
}

func providePlanService(planRepo repositories.IPlanRepository) services.PlanService {
	return services.NewPlanService(planRepo)
}

func provideSubscriptionService(
	subscriptionRepo repositories.ISubscriptionRepository,
	planRepo repositories.IPlanRepository,
	methodRepo repositories.IPaymentMethodRepository,
	billing services.BillingService,
	promo services.PromotionConfig,
	logger *zap.Logger,
) services.SubscriptionService {
	return services.NewSubscriptionService(
		subscriptionRepo, planRepo, methodRepo, billing, promo, logger)
}

func providePaymentService(paymentRepo repositories.IPaymentRepository) services.PaymentService {
	return services.NewPaymentService(paymentRepo)
}

func providePaymentMethodService(
	methodRepo repositories.IPaymentMethodRepository,
	gw gateway.Client,
	logger *zap.Logger,
) services.PaymentMethodService {
	return services.NewPaymentMethodService(methodRepo, gw, logger)
}

func providePlanController(planService services.PlanService) *controllers.PlanController {
	return controllers.NewPlanController(planService)
}

func provideSubscriptionController(subscriptionService services.SubscriptionService) *controllers.SubscriptionController {
	return controllers.NewSubscriptionController(subscriptionService)
}

func providePaymentController(
	paymentService services.PaymentService,
	methodService services.PaymentMethodService,
) *controllers.PaymentController {
	return controllers.NewPaymentController(paymentService, methodService)
}
