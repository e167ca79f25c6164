package db_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"wayfinder/internal/config"
	"wayfinder/internal/infra"
	"wayfinder/internal/persistence"
	"wayfinder/internal/repositories"
)

var Module = fx.Provide(
	provideDB, provideSessionGateways, provideRecommendationRepo)

// provideDB returns nil when POSTGRES_URL is unset; sessions then live in
// process memory.
func provideDB(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	if cfg.PostgresURL == "" {
		logger.Warn("POSTGRES_URL not set, session storage is in memory only")
		return nil, nil
	}
	db, err := infra.InitPostgresql(cfg.PostgresURL, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db, logger)
			return nil
		},
	})
	return db, nil
}

func provideSessionGateways(db *gorm.DB) persistence.SessionGateways {
	if db == nil {
		return persistence.NewMemorySessions()
	}
	return repositories.NewStorageRepository(db)
}

func provideRecommendationRepo(db *gorm.DB) repositories.RecommendationRepositoryInterface {
	if db == nil {
		return nil
	}
	return repositories.NewRecommendationRepository(db)
}
