package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wayfinder/internal/models/pref_models"
)

func blobFrom(t *testing.T, raw string) map[string]any {
	t.Helper()
	var blob map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &blob))
	return blob
}

func TestMigratedPreferences_EmptyAndNull(t *testing.T) {
	for _, raw := range []string{"", "null"} {
		assert.Equal(t, pref_models.DefaultPreferences(), MigratedPreferences([]byte(raw), nil), "input %q", raw)
	}
}

func TestMigratedPreferences_Unreadable(t *testing.T) {
	assert.Equal(t, pref_models.DefaultPreferences(), MigratedPreferences([]byte("{not json"), nil))
	assert.Equal(t, pref_models.DefaultPreferences(), MigratedPreferences([]byte(`["a", "b"]`), nil))
}

func TestMigratedPreferences_ThemeList(t *testing.T) {
	p := MigratedPreferences([]byte(`{"travelThemes": ["beaches", "history", "unicorns"]}`), nil)

	assert.Len(t, p.TravelThemes, len(pref_models.ThemeKeys))
	assert.Equal(t, []string{"beaches", "history"}, p.SelectedThemes())
	assert.Equal(t, pref_models.ThemeUnselected, p.TravelThemes["culture"])
}

func TestMigratedPreferences_ThemeMapNormalized(t *testing.T) {
	p := MigratedPreferences([]byte(`{"travelThemes": {"beaches": 5, "culture": 3, "nature": 1, "ghost": 5}}`), nil)

	assert.Len(t, p.TravelThemes, len(pref_models.ThemeKeys))
	assert.Equal(t, pref_models.ThemeSelected, p.TravelThemes["beaches"])
	assert.Equal(t, pref_models.ThemeUnselected, p.TravelThemes["culture"])
	assert.Equal(t, pref_models.ThemeUnselected, p.TravelThemes["history"])
	_, ghost := p.TravelThemes["ghost"]
	assert.False(t, ghost)
}

func TestMigratedPreferences_LegacyFields(t *testing.T) {
	raw := `{
		"photos": ["a.jpg", "b.jpg"],
		"conversationInsights": ["likes hiking", "hates cold", "vegan"],
		"weatherPreference": "sunny",
		"travelBudget": "luxury"
	}`
	p := MigratedPreferences([]byte(raw), nil)

	assert.Equal(t, pref_models.PhotoAnalysis{PhotoCount: 2, AdjustmentSuccessful: false}, p.PhotoAnalysis)
	assert.Equal(t, pref_models.ConversationSummary{UserMessageCount: 3}, p.ConversationSummary)
	assert.Equal(t, []string{"luxury"}, p.TravelBudget)
}

func TestMigratePreferenceBlob_DropsLegacyKeys(t *testing.T) {
	out := MigratePreferenceBlob(blobFrom(t, `{"photos": [], "conversationInsights": [], "weatherPreference": "x"}`))

	for _, k := range []string{"photos", "conversationInsights", "weatherPreference"} {
		_, ok := out[k]
		assert.False(t, ok, k)
	}
	assert.Contains(t, out, "photoAnalysis")
	assert.Contains(t, out, "conversationSummary")
}

func TestMigratePreferenceBlob_Idempotent(t *testing.T) {
	in := blobFrom(t, `{
		"travelThemes": ["culture"],
		"photos": ["a.jpg"],
		"conversationInsights": [],
		"weatherPreference": "rain",
		"travelBudget": "budget",
		"travelMonths": ["June"]
	}`)

	once := MigratePreferenceBlob(in)
	twice := MigratePreferenceBlob(once)
	assert.Equal(t, once, twice)
}

func TestMigratePreferenceBlob_DoesNotTouchInput(t *testing.T) {
	in := blobFrom(t, `{"travelThemes": ["culture"], "weatherPreference": "rain"}`)
	_ = MigratePreferenceBlob(in)

	assert.IsType(t, []any{}, in["travelThemes"])
	assert.Equal(t, "rain", in["weatherPreference"])
}

func TestMigratedPreferences_BadFieldsFallBack(t *testing.T) {
	raw := `{
		"temperatureRange": [30, 10],
		"travelMonths": "June",
		"travelDuration": ["week", "fortnight", "week"],
		"preferredRegions": ["europe", "anywhere"],
		"destinationRatings": {"d1": "like", "d2": "meh", "d3": null},
		"originLocation": {"name": "Lyon", "lat": 45.76, "lon": 4.83}
	}`
	p := MigratedPreferences([]byte(raw), nil)

	assert.Equal(t, [2]int{pref_models.DefaultTemperatureMin, pref_models.DefaultTemperatureMax}, p.TemperatureRange)
	assert.Equal(t, []string{}, p.TravelMonths)
	assert.Equal(t, []string{"week"}, p.TravelDuration)
	assert.Equal(t, []string{pref_models.RegionAnywhere}, p.PreferredRegions)

	require.NotNil(t, p.DestinationRatings["d1"])
	assert.Equal(t, pref_models.RatingLike, *p.DestinationRatings["d1"])
	assert.Nil(t, p.DestinationRatings["d2"])
	assert.Contains(t, p.DestinationRatings, "d3")

	require.NotNil(t, p.OriginLocation)
	assert.Equal(t, "Lyon", p.OriginLocation.Name)
}

func TestMigratedPreferences_CurrentShapeRoundTrip(t *testing.T) {
	want := pref_models.DefaultPreferences()
	want.TravelThemes["food"] = pref_models.ThemeSelected
	want.TemperatureRange = [2]int{10, 25}
	want.TravelMonths = []string{"June", "July"}
	want.PreferredRegions = []string{"asia"}
	want.OriginLocation = &pref_models.Location{Name: "Hanoi", Lat: 21.03, Lon: 105.85}
	want.PhotoAnalysis = pref_models.PhotoAnalysis{PhotoCount: 3, AdjustmentSuccessful: true}

	raw, err := json.Marshal(want)
	require.NoError(t, err)
	assert.Equal(t, want, MigratedPreferences(raw, nil))
}

func TestExclusiveRegions(t *testing.T) {
	assert.Equal(t, []string{}, exclusiveRegions(nil))
	assert.Equal(t, []string{"anywhere"}, exclusiveRegions([]string{"europe", "anywhere"}))
	assert.Equal(t, []string{"europe", "asia"}, exclusiveRegions([]string{"anywhere", "europe", "asia"}))
	assert.Equal(t, []string{"anywhere"}, exclusiveRegions([]string{"anywhere", "europe", "anywhere"}))
	assert.Equal(t, []string{"europe", "asia"}, exclusiveRegions([]string{"europe", "anywhere", "asia", "europe"}))
	assert.Equal(t, []string{"anywhere"}, exclusiveRegions([]string{"europe", "anywhere", "mars"}))
}

func TestMigratedPreferences_TemperatureRangeLength(t *testing.T) {
	p := MigratedPreferences([]byte(`{"temperatureRange": [10, 20, 30], "travelMonths": ["May"]}`), nil)
	assert.Equal(t, pref_models.DefaultPreferences().TemperatureRange, p.TemperatureRange)
	assert.Equal(t, []string{"May"}, p.TravelMonths)

	p = MigratedPreferences([]byte(`{"temperatureRange": [10]}`), nil)
	assert.Equal(t, pref_models.DefaultPreferences().TemperatureRange, p.TemperatureRange)
}
