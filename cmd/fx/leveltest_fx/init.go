package leveltest_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tradementor/internal/api/controllers"
	"tradementor/internal/repositories"
	"tradementor/internal/services"
)

var Module = fx.Provide(
	provideLevelTestRepo, provideGradingService, provideLevelTestService, provideLevelTestController)

func provideLevelTestRepo(db *gorm.DB) repositories.ILevelTestRepository {
	return repositories.NewLevelTestRepository(db)
}

func provideGradingService(
	levelTestRepo repositories.ILevelTestRepository,
	customerRepo repositories.ICustomerRepository,
	logger *zap.Logger,
) services.GradingService {
	return services.NewGradingService(levelTestRepo, customerRepo, logger)
}

func provideLevelTestService(
	levelTestRepo repositories.ILevelTestRepository,
	customerRepo repositories.ICustomerRepository,
	grading services.GradingService,
	logger *zap.Logger,
) services.LevelTestService {
	return services.NewLevelTestService(levelTestRepo, customerRepo, grading, logger)
}

func provideLevelTestController(levelTestService services.LevelTestService) *controllers.LevelTestController {
	return controllers.NewLevelTestController(levelTestService)
}
