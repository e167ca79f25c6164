package session_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"wayfinder/internal/config"
	"wayfinder/internal/persistence"
	"wayfinder/internal/services"
)

var Module = fx.Provide(provideSessionService)

func provideSessionService(
	cfg *config.Config,
	gateways persistence.SessionGateways,
	recommendations services.RecommendationServiceInterface,
	geocoder services.GeocodeServiceInterface,
	logger *zap.Logger,
) services.SessionServiceInterface {
	return services.NewSessionService(gateways, cfg.StorageNamespace, recommendations, geocoder, logger.Named("sessions"))
}
