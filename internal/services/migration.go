package services

import (
	"encoding/json"

	"go.uber.org/zap"
	"wayfinder/internal/models/pref_models"
	"wayfinder/internal/state"
)

// blobMigration is one shape upgrade of a persisted preferences blob.
// applies detects the old shape structurally; apply returns a new blob and
// never touches its input.
type blobMigration struct {
	name    string
	applies func(blob map[string]any) bool
	apply   func(blob map[string]any) map[string]any
}

var preferenceMigrations = []blobMigration{
	{name: "themes-from-list", applies: themesAreList, apply: themesFromList},
	{name: "themes-normalize", applies: themesNeedNormalizing, apply: normalizeThemes},
	{name: "photos-to-analysis", applies: needsPhotoAnalysis, apply: photosToAnalysis},
	{name: "insights-to-summary", applies: needsConversationSummary, apply: insightsToSummary},
	{name: "drop-weather-preference", applies: hasKey("weatherPreference"), apply: dropKey("weatherPreference")},
	{name: "budget-to-list", applies: budgetIsSingle, apply: budgetToList},
}

// MigratePreferenceBlob runs every applicable migration in order. Running it
// on its own output changes nothing.
func MigratePreferenceBlob(blob map[string]any) map[string]any {
	out := cloneBlob(blob)
	for _, m := range preferenceMigrations {
		if m.applies(out) {
			out = m.apply(out)
		}
	}
	return out
}

// MigratedPreferences turns stored JSON of any known vintage into current
// preferences. Anything unreadable degrades to the default value.
func MigratedPreferences(raw []byte, logger *zap.Logger) pref_models.UserPreferences {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(raw) == 0 || string(raw) == "null" {
		return pref_models.DefaultPreferences()
	}
	var blob map[string]any
	if err := json.Unmarshal(raw, &blob); err != nil {
		logger.Warn("stored preferences unreadable, using defaults", zap.Error(err))
		return pref_models.DefaultPreferences()
	}
	return decodePreferenceBlob(MigratePreferenceBlob(blob), logger)
}

func cloneBlob(blob map[string]any) map[string]any {
	out := make(map[string]any, len(blob))
	for k, v := range blob {
		out[k] = v
	}
	return out
}

func hasKey(key string) func(map[string]any) bool {
	return func(blob map[string]any) bool {
		_, ok := blob[key]
		return ok
	}
}

func dropKey(key string) func(map[string]any) map[string]any {
	return func(blob map[string]any) map[string]any {
		out := cloneBlob(blob)
		delete(out, key)
		return out
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func isSelectedSentinel(v any) bool {
	n, ok := asNumber(v)
	return ok && n == pref_models.ThemeSelected
}

func themesAreList(blob map[string]any) bool {
	switch blob["travelThemes"].(type) {
	case []any, []string:
		return true
	}
	return false
}

func themesFromList(blob map[string]any) map[string]any {
	themes := make(map[string]any, len(pref_models.ThemeKeys))
	for _, k := range pref_models.ThemeKeys {
		themes[k] = pref_models.ThemeUnselected
	}
	var listed []string
	switch l := blob["travelThemes"].(type) {
	case []string:
		listed = l
	case []any:
		for _, item := range l {
			if s, ok := item.(string); ok {
				listed = append(listed, s)
			}
		}
	}
	for _, k := range listed {
		if pref_models.IsTheme(k) {
			themes[k] = pref_models.ThemeSelected
		}
	}
	out := cloneBlob(blob)
	out["travelThemes"] = themes
	return out
}

// themesNeedNormalizing is true for any present themes value that is not
// already an exact sentinel map over the fixed keys.
func themesNeedNormalizing(blob map[string]any) bool {
	v, ok := blob["travelThemes"]
	if !ok {
		return false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return true
	}
	if len(m) != len(pref_models.ThemeKeys) {
		return true
	}
	for _, k := range pref_models.ThemeKeys {
		val, present := m[k]
		if !present {
			return true
		}
		n, isNum := asNumber(val)
		if !isNum || (n != pref_models.ThemeSelected && n != pref_models.ThemeUnselected) {
			return true
		}
	}
	return false
}

func normalizeThemes(blob map[string]any) map[string]any {
	current, _ := blob["travelThemes"].(map[string]any)
	themes := make(map[string]any, len(pref_models.ThemeKeys))
	for _, k := range pref_models.ThemeKeys {
		if isSelectedSentinel(current[k]) {
			themes[k] = pref_models.ThemeSelected
		} else {
			themes[k] = pref_models.ThemeUnselected
		}
	}
	out := cloneBlob(blob)
	out["travelThemes"] = themes
	return out
}

func needsPhotoAnalysis(blob map[string]any) bool {
	_, legacy := blob["photos"]
	_, current := blob["photoAnalysis"]
	return legacy || !current
}

func photosToAnalysis(blob map[string]any) map[string]any {
	count := 0
	if photos, ok := blob["photos"].([]any); ok {
		count = len(photos)
	}
	out := cloneBlob(blob)
	delete(out, "photos")
	out["photoAnalysis"] = map[string]any{
		"photoCount":           count,
		"adjustmentSuccessful": false,
	}
	return out
}

func needsConversationSummary(blob map[string]any) bool {
	_, legacy := blob["conversationInsights"]
	_, current := blob["conversationSummary"]
	return legacy || !current
}

func insightsToSummary(blob map[string]any) map[string]any {
	count := 0
	if insights, ok := blob["conversationInsights"].([]any); ok {
		count = len(insights)
	}
	out := cloneBlob(blob)
	delete(out, "conversationInsights")
	out["conversationSummary"] = map[string]any{"userMessageCount": count}
	return out
}

// budgetIsSingle detects the single-select budget step's string value.
func budgetIsSingle(blob map[string]any) bool {
	_, ok := blob["travelBudget"].(string)
	return ok
}

func budgetToList(blob map[string]any) map[string]any {
	tier, _ := blob["travelBudget"].(string)
	out := cloneBlob(blob)
	if tier == "" {
		out["travelBudget"] = []any{}
	} else {
		out["travelBudget"] = []any{tier}
	}
	return out
}

// decodePreferenceBlob overlays a migrated blob onto fresh defaults one field
// at a time, so a bad field only costs that field.
func decodePreferenceBlob(blob map[string]any, logger *zap.Logger) pref_models.UserPreferences {
	p := pref_models.DefaultPreferences()

	decodeField(blob, "travelThemes", &p.TravelThemes, logger, func(m map[string]int) (map[string]int, bool) {
		themes := pref_models.DefaultThemes()
		for k, v := range m {
			if pref_models.IsTheme(k) && v == pref_models.ThemeSelected {
				themes[k] = pref_models.ThemeSelected
			}
		}
		return themes, true
	})
	decodeField(blob, "temperatureRange", &p.TemperatureRange, logger, func(r [2]int) ([2]int, bool) {
		return r, validTemperatureRange(r[0], r[1])
	})
	decodeField(blob, "travelMonths", &p.TravelMonths, logger, keepKnown(pref_models.IsMonth))
	decodeField(blob, "travelDuration", &p.TravelDuration, logger, keepKnown(pref_models.IsDuration))
	decodeField(blob, "preferredRegions", &p.PreferredRegions, logger, func(r []string) ([]string, bool) {
		return exclusiveRegions(r), true
	})
	decodeField(blob, "originLocation", &p.OriginLocation, logger, nil)
	decodeField(blob, "travelBudget", &p.TravelBudget, logger, keepKnown(pref_models.IsBudget))
	decodeField(blob, "destinationRatings", &p.DestinationRatings, logger, func(m map[string]*pref_models.Rating) (map[string]*pref_models.Rating, bool) {
		out := make(map[string]*pref_models.Rating, len(m))
		for id, r := range m {
			if r != nil && !r.Valid() {
				r = nil
			}
			out[id] = r
		}
		return out, true
	})
	decodeField(blob, "photoAnalysis", &p.PhotoAnalysis, logger, func(a pref_models.PhotoAnalysis) (pref_models.PhotoAnalysis, bool) {
		return a, a.PhotoCount >= 0
	})
	decodeField(blob, "conversationSummary", &p.ConversationSummary, logger, func(s pref_models.ConversationSummary) (pref_models.ConversationSummary, bool) {
		return s, s.UserMessageCount >= 0
	})

	return p
}

// decodeField replaces *dst with blob[key] when that value decodes into T
// and survives clean. Absent and null values keep the default.
func decodeField[T any](blob map[string]any, key string, dst *T, logger *zap.Logger, clean func(T) (T, bool)) {
	v, ok := blob[key]
	if !ok || v == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		logger.Warn("preference field not encodable, using default", zap.String("field", key), zap.Error(err))
		return
	}
	var decoded T
	if err := state.DecodeExact(raw, &decoded); err != nil {
		logger.Warn("preference field has wrong shape, using default", zap.String("field", key), zap.Error(err))
		return
	}
	if clean != nil {
		cleaned, ok := clean(decoded)
		if !ok {
			logger.Warn("preference field invalid, using default", zap.String("field", key))
			return
		}
		decoded = cleaned
	}
	*dst = decoded
}

func keepKnown(known func(string) bool) func([]string) ([]string, bool) {
	return func(in []string) ([]string, bool) {
		return dedupeKnown(in, known), true
	}
}

func dedupeKnown(in []string, known func(string) bool) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		if seen[v] || !known(v) {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// exclusiveRegions enforces that "anywhere" never shares the list with a
// concrete region. The last known element of the raw list decides which
// side wins; duplicates and unknown values are dropped afterwards.
func exclusiveRegions(regions []string) []string {
	last := ""
	for _, r := range regions {
		if pref_models.IsRegion(r) {
			last = r
		}
	}
	switch last {
	case "":
		return []string{}
	case pref_models.RegionAnywhere:
		return []string{pref_models.RegionAnywhere}
	}
	return dedupeKnown(regions, func(r string) bool {
		return r != pref_models.RegionAnywhere && pref_models.IsRegion(r)
	})
}

func validTemperatureRange(lo, hi int) bool {
	return lo <= hi &&
		lo >= pref_models.TemperatureFloor &&
		hi <= pref_models.TemperatureCeiling
}
