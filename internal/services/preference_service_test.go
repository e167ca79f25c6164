package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wayfinder/internal/models/pref_models"
	"wayfinder/internal/persistence"
	"wayfinder/pkg/utils"
)

func newTestStore(t *testing.T) (*PreferenceStore, *persistence.MemoryGateway) {
	t.Helper()
	gw := persistence.NewMemoryGateway()
	return NewPreferenceStore(context.Background(), persistence.NewNamespaced(gw, ""), nil), gw
}

func TestPreferenceStore_StartsFromDefaults(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Equal(t, pref_models.DefaultPreferences(), store.Snapshot())
}

func TestPreferenceStore_ThemesUseSentinels(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	p, err := store.SetThemes(ctx, []string{"beaches", "culture"})
	require.NoError(t, err)
	assert.Len(t, p.TravelThemes, len(pref_models.ThemeKeys))
	for k, v := range p.TravelThemes {
		assert.Contains(t, []int{pref_models.ThemeSelected, pref_models.ThemeUnselected}, v, k)
	}
	assert.Equal(t, []string{"beaches", "culture"}, p.SelectedThemes())

	p, err = store.SetThemes(ctx, []string{"food"})
	require.NoError(t, err)
	assert.Equal(t, []string{"food"}, p.SelectedThemes())

	_, err = store.SetThemes(ctx, []string{"skydiving"})
	assert.True(t, errors.Is(err, utils.ErrUnknownTheme))
	assert.Equal(t, []string{"food"}, store.Snapshot().SelectedThemes())
}

func TestPreferenceStore_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	store, gw := newTestStore(t)

	_, err := store.SetTemperatureRange(ctx, 10, 25)
	require.NoError(t, err)
	_, err = store.SetTravelMonths(ctx, []string{"June"})
	require.NoError(t, err)

	assert.Contains(t, gw.Keys(), "wayfinder:preferences")

	reloaded := NewPreferenceStore(ctx, persistence.NewNamespaced(gw, ""), nil)
	assert.Equal(t, store.Snapshot(), reloaded.Snapshot())
}

func TestPreferenceStore_TemperatureValidation(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	for _, r := range [][2]int{{20, 10}, {-11, 0}, {0, 41}} {
		_, err := store.SetTemperatureRange(ctx, r[0], r[1])
		assert.True(t, errors.Is(err, utils.ErrInvalidTemperature), "%v", r)
	}
	p, err := store.SetTemperatureRange(ctx, -10, 40)
	require.NoError(t, err)
	assert.Equal(t, [2]int{-10, 40}, p.TemperatureRange)
}

func TestPreferenceStore_RegionsAreExclusive(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	p, err := store.ToggleRegion(ctx, "europe")
	require.NoError(t, err)
	p, err = store.ToggleRegion(ctx, "asia")
	require.NoError(t, err)
	assert.Equal(t, []string{"europe", "asia"}, p.PreferredRegions)

	p, err = store.ToggleRegion(ctx, pref_models.RegionAnywhere)
	require.NoError(t, err)
	assert.Equal(t, []string{pref_models.RegionAnywhere}, p.PreferredRegions)

	p, err = store.ToggleRegion(ctx, "oceania")
	require.NoError(t, err)
	assert.Equal(t, []string{"oceania"}, p.PreferredRegions)

	p, err = store.ToggleRegion(ctx, "oceania")
	require.NoError(t, err)
	assert.Empty(t, p.PreferredRegions)

	p, err = store.SetPreferredRegions(ctx, []string{"anywhere", "africa"})
	require.NoError(t, err)
	assert.Equal(t, []string{"africa"}, p.PreferredRegions)

	p, err = store.SetPreferredRegions(ctx, []string{"anywhere", "europe", "anywhere"})
	require.NoError(t, err)
	assert.Equal(t, []string{pref_models.RegionAnywhere}, p.PreferredRegions)

	_, err = store.ToggleRegion(ctx, "atlantis")
	assert.True(t, errors.Is(err, utils.ErrUnknownRegion))
}

func TestPreferenceStore_RatingToggle(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	p, err := store.RateDestination(ctx, "paris", pref_models.RatingLike)
	require.NoError(t, err)
	require.NotNil(t, p.DestinationRatings["paris"])
	assert.Equal(t, pref_models.RatingLike, *p.DestinationRatings["paris"])

	p, err = store.RateDestination(ctx, "paris", pref_models.RatingDislike)
	require.NoError(t, err)
	assert.Equal(t, pref_models.RatingDislike, *p.DestinationRatings["paris"])

	p, err = store.RateDestination(ctx, "paris", pref_models.RatingDislike)
	require.NoError(t, err)
	assert.Contains(t, p.DestinationRatings, "paris")
	assert.Nil(t, p.DestinationRatings["paris"])

	_, err = store.RateDestination(ctx, "paris", pref_models.Rating("love"))
	assert.True(t, errors.Is(err, utils.ErrInvalidRating))
}

func TestPreferenceStore_SnapshotIsDetached(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	_, err := store.SetTravelMonths(ctx, []string{"May"})
	require.NoError(t, err)

	snap := store.Snapshot()
	snap.TravelMonths[0] = "December"
	snap.TravelThemes["beaches"] = 3

	fresh := store.Snapshot()
	assert.Equal(t, []string{"May"}, fresh.TravelMonths)
	assert.Equal(t, pref_models.ThemeUnselected, fresh.TravelThemes["beaches"])
}

func TestPreferenceStore_FailedWriteKeepsMemory(t *testing.T) {
	ctx := context.Background()
	storage := failingGateway{Gateway: persistence.NewMemoryGateway(), err: errors.New("disk full")}
	store := NewPreferenceStore(ctx, storage, nil)

	p, err := store.SetTravelBudget(ctx, []string{"budget"})
	assert.True(t, errors.Is(err, utils.ErrDatabaseError))
	assert.Equal(t, []string{"budget"}, p.TravelBudget)
	assert.Equal(t, []string{"budget"}, store.Snapshot().TravelBudget)
}

func TestPreferenceStore_ResetGivesFreshDefaults(t *testing.T) {
	ctx := context.Background()
	store, gw := newTestStore(t)

	_, err := store.SetThemes(ctx, []string{"nature"})
	require.NoError(t, err)
	_, err = store.SetOriginLocation(ctx, pref_models.Location{Name: "Oslo"})
	require.NoError(t, err)

	require.NoError(t, store.Reset(ctx))
	assert.Equal(t, pref_models.DefaultPreferences(), store.Snapshot())
	assert.NotContains(t, gw.Keys(), "wayfinder:preferences")

	// a reset value must not share state with the next one
	first := store.Snapshot()
	first.TravelThemes["nature"] = pref_models.ThemeSelected
	require.NoError(t, store.Reset(ctx))
	assert.Equal(t, pref_models.ThemeUnselected, store.Snapshot().TravelThemes["nature"])
}

func TestPreferenceStore_LoadsLegacyBlob(t *testing.T) {
	ctx := context.Background()
	gw := persistence.NewMemoryGateway()
	require.NoError(t, gw.Set(ctx, "wayfinder:preferences", `{"travelThemes":["adventure"],"travelBudget":"mid-range"}`))

	store := NewPreferenceStore(ctx, persistence.NewNamespaced(gw, ""), nil)
	p := store.Snapshot()
	assert.Equal(t, []string{"adventure"}, p.SelectedThemes())
	assert.Equal(t, []string{"mid-range"}, p.TravelBudget)
}
