package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tradementor/internal/api/controllers"
	"tradementor/internal/repositories"
	"tradementor/internal/services"
	"tradementor/pkg/codestore"
)

var Module = fx.Provide(
	provideCustomerRepo, provideAccountService, provideAccountController)

func provideCustomerRepo(db *gorm.DB) repositories.ICustomerRepository {
	return repositories.NewCustomerRepository(db)
}

func provideAccountService(
	customerRepo repositories.ICustomerRepository,
	codes codestore.Store,
	mail services.MailService,
	logger *zap.Logger,
) services.AccountService {
	return services.NewAccountService(customerRepo, codes, mail, logger)
}

func provideAccountController(accountService services.AccountService) *controllers.AccountController {
	return controllers.NewAccountController(accountService)
}
