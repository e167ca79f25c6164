// pkg/memcache/geocode_cache.go
package mem

import (
	"strings"
	"sync"
	"time"

	"wayfinder/internal/models/pref_models"
)

type GeocodeCache interface {
	Set(query string, loc pref_models.Location, ttl time.Duration)

	// Get returns the cached location for query if not expired.
	Get(query string) (pref_models.Location, bool)
}

type entry struct {
	loc       pref_models.Location
	expiresAt time.Time
}

type GeocodeResults struct {
	mu   sync.RWMutex
	data map[string]entry
}

func NewGeocodeResults() *GeocodeResults {
	return &GeocodeResults{
		data: make(map[string]entry),
	}
}

// queries differing only in case or surrounding blanks share an entry
func normalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

func (s *GeocodeResults) Set(query string, loc pref_models.Location, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[normalizeQuery(query)] = entry{
		loc:       loc,
		expiresAt: time.Now().Add(ttl),
	}
}

func (s *GeocodeResults) Get(query string) (pref_models.Location, bool) {
	key := normalizeQuery(query)

	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return pref_models.Location{}, false
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, key) // cleanup expired
		s.mu.Unlock()
		return pref_models.Location{}, false
	}
	return e.loc, true
}
