package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wayfinder/internal/models/pref_models"
	mem "wayfinder/pkg/memcache"
	"wayfinder/pkg/utils"
)

type GeocodeServiceInterface interface {
	// Geocode resolves a free-text place to a single location.
	Geocode(ctx context.Context, query string) (pref_models.Location, error)
}

// -------------- Mapbox forward geocoding ---------------

type MapboxGeocodeClient struct {
	HTTP        *http.Client
	BaseURL     string
	AccessToken string
	Cache       mem.GeocodeCache
	DefaultTTL  time.Duration
}

func NewMapboxGeocodeClient(accessToken string, cache mem.GeocodeCache) *MapboxGeocodeClient {
	return &MapboxGeocodeClient{
		HTTP:        &http.Client{Timeout: 15 * time.Second},
		BaseURL:     "https://api.mapbox.com",
		AccessToken: accessToken,
		Cache:       cache,
		DefaultTTL:  24 * time.Hour,
	}
}

func (c *MapboxGeocodeClient) Geocode(ctx context.Context, query string) (pref_models.Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return pref_models.Location{}, utils.ErrEmptyGeocodeQuery
	}

	if c.Cache != nil {
		if loc, ok := c.Cache.Get(query); ok {
			return loc, nil
		}
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return pref_models.Location{}, fmt.Errorf("mapbox base url: %w", err)
	}
	u.Path = fmt.Sprintf("/geocoding/v5/mapbox.places/%s.json", url.PathEscape(query))
	q := url.Values{}
	q.Set("limit", "1")
	q.Set("types", "place,region,country,locality")
	q.Set("access_token", c.AccessToken)
	u.RawQuery = q.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return pref_models.Location{}, fmt.Errorf("%w: mapbox geocode http error: %v", utils.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return pref_models.Location{}, fmt.Errorf("%w: mapbox geocode bad status: %s", utils.ErrBackendUnavailable, resp.Status)
	}

	var payload struct {
		Features []struct {
			PlaceName string    `json:"place_name"`
			Center    []float64 `json:"center"` // lon, lat
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return pref_models.Location{}, fmt.Errorf("%w: mapbox decode: %v", utils.ErrBackendUnavailable, err)
	}
	if len(payload.Features) == 0 || len(payload.Features[0].Center) < 2 {
		return pref_models.Location{}, fmt.Errorf("%q: %w", query, utils.ErrLocationNotFound)
	}

	f := payload.Features[0]
	loc := pref_models.Location{Name: f.PlaceName, Lat: f.Center[1], Lon: f.Center[0]}
	if c.Cache != nil {
		c.Cache.Set(query, loc, c.DefaultTTL)
	}
	return loc, nil
}
