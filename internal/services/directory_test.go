package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldenaura/aura-server/internal/model"
)

func TestEnsureNeighborhood(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	n, err := fx.dir.EnsureNeighborhood(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "unassigned", n)

	// Second call is a pure lookup.
	n, err = fx.dir.EnsureNeighborhood(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "unassigned", n)

	// Explicit assignments survive later ensures.
	_, err = fx.dir.SetNeighborhood(ctx, "u1", "Kingscourt")
	require.NoError(t, err)
	n, err = fx.dir.EnsureNeighborhood(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Kingscourt", n)
}

func TestSetNeighborhood(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	e, err := fx.dir.SetNeighborhood(ctx, "u1", "Inner Harbour")
	require.NoError(t, err)
	assert.Equal(t, "Inner Harbour", e.Neighborhood)
	assert.False(t, e.UpdateTime.IsZero())

	// Last write wins.
	e, err = fx.dir.SetNeighborhood(ctx, "u1", "Sydenham")
	require.NoError(t, err)
	assert.Equal(t, "Sydenham", e.Neighborhood)

	n, err := fx.dir.Lookup(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Sydenham", n)

	_, err = fx.dir.SetNeighborhood(ctx, "", "Sydenham")
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = fx.dir.SetNeighborhood(ctx, "u1", "")
	assert.ErrorIs(t, err, model.ErrValidation)
}
