package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"wayfinder/internal/models/pref_models"
	"wayfinder/internal/persistence"
	"wayfinder/internal/state"
	"wayfinder/pkg/utils"
)

// PreferenceStore owns one session's UserPreferences. Every mutation
// persists the whole object.
type PreferenceStore struct {
	mu     sync.Mutex
	cell   *state.PersistedValue[json.RawMessage]
	prefs  pref_models.UserPreferences
	logger *zap.Logger
}

// NewPreferenceStore loads and migrates whatever is stored under the
// preferences key.
func NewPreferenceStore(ctx context.Context, storage persistence.Gateway, logger *zap.Logger) *PreferenceStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	cell := state.NewPersistedValue[json.RawMessage](ctx, persistence.KeyPreferences, nil,
		state.Options{ToStorage: true},
		state.Sinks{Storage: storage, Logger: logger})

	return &PreferenceStore{
		cell:   cell,
		prefs:  MigratedPreferences(cell.Get(), logger),
		logger: logger,
	}
}

// Snapshot returns a deep copy; later mutations do not show through it.
func (s *PreferenceStore) Snapshot() pref_models.UserPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.Clone()
}

func (s *PreferenceStore) mutate(ctx context.Context, fn func(p *pref_models.UserPreferences) error) (pref_models.UserPreferences, error) {
	s.mu.Lock()
	next := s.prefs.Clone()
	if err := fn(&next); err != nil {
		current := s.prefs.Clone()
		s.mu.Unlock()
		return current, err
	}
	s.prefs = next
	snapshot := next.Clone()
	s.mu.Unlock()

	return snapshot, s.persist(ctx, snapshot)
}

func (s *PreferenceStore) persist(ctx context.Context, p pref_models.UserPreferences) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.cell.Set(ctx, raw); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

// SetThemes rewrites the whole theme map: listed themes get the selected
// sentinel, every other theme the unselected one.
func (s *PreferenceStore) SetThemes(ctx context.Context, selected []string) (pref_models.UserPreferences, error) {
	for _, k := range selected {
		if !pref_models.IsTheme(k) {
			return s.Snapshot(), fmt.Errorf("%q: %w", k, utils.ErrUnknownTheme)
		}
	}
	return s.mutate(ctx, func(p *pref_models.UserPreferences) error {
		themes := pref_models.DefaultThemes()
		for _, k := range selected {
			themes[k] = pref_models.ThemeSelected
		}
		p.TravelThemes = themes
		return nil
	})
}

func (s *PreferenceStore) SetTemperatureRange(ctx context.Context, lo, hi int) (pref_models.UserPreferences, error) {
	if !validTemperatureRange(lo, hi) {
		return s.Snapshot(), fmt.Errorf("[%d, %d]: %w", lo, hi, utils.ErrInvalidTemperature)
	}
	return s.mutate(ctx, func(p *pref_models.UserPreferences) error {
		p.TemperatureRange = [2]int{lo, hi}
		return nil
	})
}

func (s *PreferenceStore) SetTravelMonths(ctx context.Context, months []string) (pref_models.UserPreferences, error) {
	if err := checkKnown(months, pref_models.IsMonth, utils.ErrUnknownMonth); err != nil {
		return s.Snapshot(), err
	}
	return s.mutate(ctx, func(p *pref_models.UserPreferences) error {
		p.TravelMonths = dedupeKnown(months, pref_models.IsMonth)
		return nil
	})
}

func (s *PreferenceStore) SetTravelDuration(ctx context.Context, durations []string) (pref_models.UserPreferences, error) {
	if err := checkKnown(durations, pref_models.IsDuration, utils.ErrUnknownDuration); err != nil {
		return s.Snapshot(), err
	}
	return s.mutate(ctx, func(p *pref_models.UserPreferences) error {
		p.TravelDuration = dedupeKnown(durations, pref_models.IsDuration)
		return nil
	})
}

// SetPreferredRegions replaces the region set. "anywhere" and concrete
// regions never coexist; see exclusiveRegions.
func (s *PreferenceStore) SetPreferredRegions(ctx context.Context, regions []string) (pref_models.UserPreferences, error) {
	if err := checkKnown(regions, pref_models.IsRegion, utils.ErrUnknownRegion); err != nil {
		return s.Snapshot(), err
	}
	return s.mutate(ctx, func(p *pref_models.UserPreferences) error {
		p.PreferredRegions = exclusiveRegions(regions)
		return nil
	})
}

// ToggleRegion flips one region. Selecting "anywhere" clears every concrete
// region; selecting a concrete region clears "anywhere".
func (s *PreferenceStore) ToggleRegion(ctx context.Context, region string) (pref_models.UserPreferences, error) {
	if !pref_models.IsRegion(region) {
		return s.Snapshot(), fmt.Errorf("%q: %w", region, utils.ErrUnknownRegion)
	}
	return s.mutate(ctx, func(p *pref_models.UserPreferences) error {
		selected := false
		for _, r := range p.PreferredRegions {
			if r == region {
				selected = true
				break
			}
		}
		switch {
		case selected:
			p.PreferredRegions = removeString(p.PreferredRegions, region)
		case region == pref_models.RegionAnywhere:
			p.PreferredRegions = []string{pref_models.RegionAnywhere}
		default:
			next := removeString(p.PreferredRegions, pref_models.RegionAnywhere)
			p.PreferredRegions = append(next, region)
		}
		return nil
	})
}

func (s *PreferenceStore) SetOriginLocation(ctx context.Context, loc pref_models.Location) (pref_models.UserPreferences, error) {
	return s.mutate(ctx, func(p *pref_models.UserPreferences) error {
		p.OriginLocation = &loc
		return nil
	})
}

// ClearOriginLocation is called whenever the origin text input changes; a
// location only stands while it matches what the visitor typed.
func (s *PreferenceStore) ClearOriginLocation(ctx context.Context) (pref_models.UserPreferences, error) {
	return s.mutate(ctx, func(p *pref_models.UserPreferences) error {
		p.OriginLocation = nil
		return nil
	})
}

func (s *PreferenceStore) SetTravelBudget(ctx context.Context, tiers []string) (pref_models.UserPreferences, error) {
	if err := checkKnown(tiers, pref_models.IsBudget, utils.ErrUnknownBudget); err != nil {
		return s.Snapshot(), err
	}
	return s.mutate(ctx, func(p *pref_models.UserPreferences) error {
		p.TravelBudget = dedupeKnown(tiers, pref_models.IsBudget)
		return nil
	})
}

// RateDestination sets a like/dislike; repeating the current rating clears
// it back to null.
func (s *PreferenceStore) RateDestination(ctx context.Context, destinationID string, rating pref_models.Rating) (pref_models.UserPreferences, error) {
	if destinationID == "" {
		return s.Snapshot(), fmt.Errorf("destination id: %w", utils.ErrInvalidInput)
	}
	if !rating.Valid() {
		return s.Snapshot(), fmt.Errorf("%q: %w", rating, utils.ErrInvalidRating)
	}
	return s.mutate(ctx, func(p *pref_models.UserPreferences) error {
		current := p.DestinationRatings[destinationID]
		if current != nil && *current == rating {
			p.DestinationRatings[destinationID] = nil
			return nil
		}
		r := rating
		p.DestinationRatings[destinationID] = &r
		return nil
	})
}

func (s *PreferenceStore) SetPhotoAnalysis(ctx context.Context, photoCount int, adjusted bool) (pref_models.UserPreferences, error) {
	if photoCount < 0 {
		return s.Snapshot(), fmt.Errorf("photo count %d: %w", photoCount, utils.ErrInvalidInput)
	}
	return s.mutate(ctx, func(p *pref_models.UserPreferences) error {
		p.PhotoAnalysis = pref_models.PhotoAnalysis{PhotoCount: photoCount, AdjustmentSuccessful: adjusted}
		return nil
	})
}

func (s *PreferenceStore) SetConversationSummary(ctx context.Context, userMessageCount int) (pref_models.UserPreferences, error) {
	if userMessageCount < 0 {
		return s.Snapshot(), fmt.Errorf("message count %d: %w", userMessageCount, utils.ErrInvalidInput)
	}
	return s.mutate(ctx, func(p *pref_models.UserPreferences) error {
		p.ConversationSummary = pref_models.ConversationSummary{UserMessageCount: userMessageCount}
		return nil
	})
}

// Reset swaps in a freshly built default and drops the stored blob. Other
// session keys are cleared by Session.Reset.
func (s *PreferenceStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.prefs = pref_models.DefaultPreferences()
	s.mu.Unlock()
	return s.cell.Reset(ctx)
}

func checkKnown(values []string, known func(string) bool, sentinel error) error {
	for _, v := range values {
		if !known(v) {
			return fmt.Errorf("%q: %w", v, sentinel)
		}
	}
	return nil
}

func removeString(list []string, value string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
