package consultation_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tradementor/internal/api/controllers"
	"tradementor/internal/repositories"
	"tradementor/internal/services"
)

var Module = fx.Provide(
	provideConsultationRepo, provideConsultationService, provideConsultationController)

func provideConsultationRepo(db *gorm.DB) repositories.IConsultationRepository {
	return repositories.NewConsultationRepository(db)
}

func provideConsultationService(
	repo repositories.IConsultationRepository,
	logger *zap.Logger,
) services.ConsultationService {
	return services.NewConsultationService(repo, logger)
}

func provideConsultationController(consultationService services.ConsultationService) *controllers.ConsultationController {
	return controllers.NewConsultationController(consultationService)
}
