package memcache_fx

import (
	"go.uber.org/fx"
	mem "wayfinder/pkg/memcache"
)

var Module = fx.Provide(provideGeocodeCache)

func provideGeocodeCache() mem.GeocodeCache {
	return mem.NewGeocodeResults()
}
