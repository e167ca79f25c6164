package recommendation_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"wayfinder/internal/api/controllers"
	"wayfinder/internal/config"
	"wayfinder/internal/repositories"
	"wayfinder/internal/services"
)

var Module = fx.Provide(
	provideBackend, provideRecommendationService, provideRecommendationController,
)

func provideBackend(cfg *config.Config) services.RecommendationBackend {
	return services.NewBackendClient(cfg.BackendBaseURL, cfg.BackendTimeout)
}

func provideRecommendationService(
	backend services.RecommendationBackend,
	repo repositories.RecommendationRepositoryInterface,
	logger *zap.Logger,
) services.RecommendationServiceInterface {
	return services.NewRecommendationService(backend, repo, logger.Named("recommendations"))
}

func provideRecommendationController(
	sessions services.SessionServiceInterface,
	recommendations services.RecommendationServiceInterface,
) *controllers.RecommendationController {
	return controllers.NewRecommendationController(sessions, recommendations)
}
