package geocode_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"wayfinder/internal/config"
	"wayfinder/internal/services"
	mem "wayfinder/pkg/memcache"
)

var Module = fx.Provide(provideGeocoder)

func provideGeocoder(cfg *config.Config, cache mem.GeocodeCache, logger *zap.Logger) services.GeocodeServiceInterface {
	if cfg.MapboxToken == "" {
		logger.Warn("MAPBOX_ACCESS_TOKEN not set, origin geocoding will fail")
	}
	return services.NewMapboxGeocodeClient(cfg.MapboxToken, cache)
}
