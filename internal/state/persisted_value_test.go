package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wayfinder/internal/persistence"
)

type failingGateway struct{}

func (failingGateway) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}
func (failingGateway) Set(context.Context, string, string) error { return errors.New("disk on fire") }
func (failingGateway) Remove(context.Context, string) error      { return errors.New("disk on fire") }

func TestPersistedValue_TemperatureRangeRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := persistence.NewNamespaced(persistence.NewMemoryGateway(), "")
	url, err := persistence.ParseQueryURL("/preferences")
	require.NoError(t, err)
	sinks := Sinks{Storage: storage, URL: url}
	opts := Options{ToURL: true, ToStorage: true}

	v := NewPersistedValue(ctx, "temperatureRange", [2]int{0, 0}, opts, sinks)
	assert.Equal(t, SourceDefault, v.Source())
	require.NoError(t, v.Set(ctx, [2]int{-5, 30}))

	raw, _ := url.Get("temperatureRange")
	assert.Equal(t, "[-5,30]", raw)

	// reload from the URL
	reloaded := NewPersistedValue(ctx, "temperatureRange", [2]int{0, 0}, opts, sinks)
	assert.Equal(t, SourceURL, reloaded.Source())
	assert.Equal(t, [2]int{-5, 30}, reloaded.Get())

	// reload from storage only
	fresh, _ := persistence.ParseQueryURL("/preferences")
	fromStorage := NewPersistedValue(ctx, "temperatureRange", [2]int{0, 0}, opts, Sinks{Storage: storage, URL: fresh})
	assert.Equal(t, SourceStorage, fromStorage.Source())
	assert.Equal(t, [2]int{-5, 30}, fromStorage.Get())
}

func TestPersistedValue_FixedArrayLength(t *testing.T) {
	ctx := context.Background()
	storage := persistence.NewNamespaced(persistence.NewMemoryGateway(), "")
	require.NoError(t, storage.Set(ctx, "temperatureRange", "[1,2,3]"))

	v := NewPersistedValue(ctx, "temperatureRange", [2]int{0, 30}, Options{ToStorage: true}, Sinks{Storage: storage})
	assert.Equal(t, SourceDefault, v.Source())
	assert.Equal(t, [2]int{0, 30}, v.Get())

	var pair [2]int
	assert.Error(t, DecodeExact([]byte("[1]"), &pair))
	assert.Error(t, DecodeExact([]byte("null"), &pair))
	require.NoError(t, DecodeExact([]byte("[4,5]"), &pair))
	assert.Equal(t, [2]int{4, 5}, pair)

	var list []int
	require.NoError(t, DecodeExact([]byte("[1,2,3]"), &list))
	assert.Len(t, list, 3)
}

func TestPersistedValue_ResolutionOrder(t *testing.T) {
	ctx := context.Background()
	storage := persistence.NewNamespaced(persistence.NewMemoryGateway(), "")
	require.NoError(t, storage.Set(ctx, "months", `["July"]`))

	t.Run("url wins over storage", func(t *testing.T) {
		url, _ := persistence.ParseQueryURL(`/p?months=%5B%22June%22%5D`)
		v := NewPersistedValue(ctx, "months", []string{}, Options{ToURL: true, ToStorage: true}, Sinks{Storage: storage, URL: url})
		assert.Equal(t, []string{"June"}, v.Get())
		assert.Equal(t, SourceURL, v.Source())
	})

	t.Run("url ignored when disabled", func(t *testing.T) {
		url, _ := persistence.ParseQueryURL(`/p?months=%5B%22June%22%5D`)
		v := NewPersistedValue(ctx, "months", []string{}, Options{ToStorage: true}, Sinks{Storage: storage, URL: url})
		assert.Equal(t, []string{"July"}, v.Get())
	})

	t.Run("malformed url falls through to storage", func(t *testing.T) {
		url, _ := persistence.ParseQueryURL(`/p?months=%5Bnope`)
		v := NewPersistedValue(ctx, "months", []string{}, Options{ToURL: true, ToStorage: true}, Sinks{Storage: storage, URL: url})
		assert.Equal(t, []string{"July"}, v.Get())
		assert.Equal(t, SourceStorage, v.Source())
	})

	t.Run("malformed storage falls through to default", func(t *testing.T) {
		broken := persistence.NewNamespaced(persistence.NewMemoryGateway(), "")
		require.NoError(t, broken.Set(ctx, "months", `{not json`))
		v := NewPersistedValue(ctx, "months", []string{"March"}, Options{ToStorage: true}, Sinks{Storage: broken})
		assert.Equal(t, []string{"March"}, v.Get())
		assert.Equal(t, SourceDefault, v.Source())
	})

	t.Run("storage error falls through to default", func(t *testing.T) {
		v := NewPersistedValue(ctx, "months", []string{"May"}, Options{ToStorage: true}, Sinks{Storage: failingGateway{}})
		assert.Equal(t, []string{"May"}, v.Get())
	})
}

func TestPersistedValue_GetDoesNotAlias(t *testing.T) {
	ctx := context.Background()
	v := NewPersistedValue(ctx, "regions", []string{"asia"}, Options{}, Sinks{})

	got := v.Get()
	got[0] = "europe"
	assert.Equal(t, []string{"asia"}, v.Get())

	in := []string{"africa"}
	require.NoError(t, v.Set(ctx, in))
	in[0] = "oceania"
	assert.Equal(t, []string{"africa"}, v.Get())
}

func TestPersistedValue_SetReportsStorageFailure(t *testing.T) {
	ctx := context.Background()
	v := NewPersistedValue(ctx, "flag", false, Options{ToStorage: true}, Sinks{Storage: failingGateway{}})

	err := v.Set(ctx, true)
	require.Error(t, err)
	assert.True(t, v.Get(), "memory keeps the new value")
}

func TestPersistedValue_Reset(t *testing.T) {
	ctx := context.Background()
	mem := persistence.NewMemoryGateway()
	storage := persistence.NewNamespaced(mem, "")

	v := NewPersistedValue(ctx, persistence.KeyChatStarted, false, Options{ToStorage: true}, Sinks{Storage: storage})
	require.NoError(t, v.Set(ctx, true))
	assert.Len(t, mem.Keys(), 1)

	require.NoError(t, v.Reset(ctx))
	assert.False(t, v.Get())
	assert.Empty(t, mem.Keys())
}
