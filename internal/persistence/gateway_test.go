package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespacedGateway(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryGateway()
	gw := NewNamespaced(mem, "")

	require.NoError(t, gw.Set(ctx, KeyCurrentStep, "travel-months"))

	raw, ok, err := mem.Get(ctx, "wayfinder:currentStep")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "travel-months", raw)

	v, ok, err := gw.Get(ctx, KeyCurrentStep)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "travel-months", v)

	require.NoError(t, gw.Remove(ctx, KeyCurrentStep))
	_, ok, err = gw.Get(ctx, KeyCurrentStep)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, mem.Keys())
}

func TestMemorySessionsIsolation(t *testing.T) {
	ctx := context.Background()
	sessions := NewMemorySessions()

	require.NoError(t, sessions.ForSession("a").Set(ctx, "k", "1"))

	_, ok, _ := sessions.ForSession("b").Get(ctx, "k")
	assert.False(t, ok)

	v, ok, _ := sessions.ForSession("a").Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestQueryURLReplace(t *testing.T) {
	q, err := ParseQueryURL("/preferences?step=2&lang=en")
	require.NoError(t, err)

	v, ok := q.Get("step")
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	q.Replace("step", "3")
	q.Replace("step", "4")

	v, _ = q.Get("step")
	assert.Equal(t, "4", v)
	assert.Equal(t, 2, q.Replacements())
	assert.Equal(t, "/preferences?lang=en&step=4", q.String())

	_, ok = q.Get("missing")
	assert.False(t, ok)
}
