package controllers_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"wayfinder/internal/api/controllers"
	"wayfinder/internal/config"
	"wayfinder/internal/services"
	"wayfinder/pkg/utils"
)

var Module = fx.Options(
	fx.Provide(provideSessionController),
	fx.Provide(controllers.NewPreferenceController),
	fx.Provide(controllers.NewNavigationController))

func provideSessionController(
	sessions services.SessionServiceInterface,
	signer *utils.SessionSigner,
	cfg *config.Config,
	logger *zap.Logger,
) *controllers.SessionController {
	return controllers.NewSessionController(sessions, signer, cfg.SessionTTL, logger)
}
