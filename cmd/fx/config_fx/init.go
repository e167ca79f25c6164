package config_fx

import (
	"go.uber.org/fx"
	"wayfinder/internal/config"
	"wayfinder/pkg/utils"
)

var Module = fx.Provide(config.Load, provideSessionSigner)

func provideSessionSigner(cfg *config.Config) *utils.SessionSigner {
	return utils.NewSessionSigner(cfg.JWTSecret, cfg.SessionTTL)
}
