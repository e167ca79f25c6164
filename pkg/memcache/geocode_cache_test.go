package mem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"wayfinder/internal/models/pref_models"
)

func TestGeocodeResults(t *testing.T) {
	cache := NewGeocodeResults()
	lisbon := pref_models.Location{Name: "Lisbon, Portugal", Lat: 38.72, Lon: -9.14}

	cache.Set("  Lisbon ", lisbon, time.Minute)

	got, ok := cache.Get("lisbon")
	assert.True(t, ok)
	assert.Equal(t, lisbon, got)

	cache.Set("porto", pref_models.Location{Name: "Porto"}, -time.Second)
	_, ok = cache.Get("porto")
	assert.False(t, ok, "expired entries are not served")

	_, ok = cache.Get("madrid")
	assert.False(t, ok)
}
